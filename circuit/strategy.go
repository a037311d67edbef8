package circuit

// InsertStrategy selects how newly inserted operations are packed into
// moments.
type InsertStrategy int

const (
	// StrategyNew creates a fresh moment for every inserted operation.
	StrategyNew InsertStrategy = iota

	// StrategyNewThenInline creates a fresh moment for the first inserted
	// operation, then behaves like StrategyInline for the rest.
	StrategyNewThenInline

	// StrategyInline places each operation into the moment just before
	// the insertion point when that moment has its qubits free, otherwise
	// falls back to StrategyNew.
	StrategyInline

	// StrategyEarliest slides each operation as far left as it can go
	// without crossing a moment that touches any of its qubits.
	StrategyEarliest
)

func (s InsertStrategy) String() string {
	switch s {
	case StrategyNew:
		return "NEW"
	case StrategyNewThenInline:
		return "NEW_THEN_INLINE"
	case StrategyInline:
		return "INLINE"
	case StrategyEarliest:
		return "EARLIEST"
	}
	return "UNKNOWN"
}

package circuit

import (
	"fmt"
	"iter"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

// Circuit is an ordered sequence of moments.
type Circuit struct {
	moments []Moment
}

// New builds a circuit from the given moments.
func New(moments ...Moment) *Circuit {
	c := &Circuit{moments: make([]Moment, len(moments))}
	copy(c.moments, moments)
	return c
}

// FromOps builds a circuit by appending the operations with
// StrategyNewThenInline.
func FromOps(operations ...ops.Operation) *Circuit {
	c := New()
	// Append cannot fail: the index is valid and the strategy is known.
	_ = c.Append(StrategyNewThenInline, operations...)
	return c
}

// Len reports the number of moments.
func (c *Circuit) Len() int { return len(c.moments) }

// Moment returns the i-th moment. It panics if i is out of range, the same
// way slice indexing would.
func (c *Circuit) Moment(i int) Moment { return c.moments[i] }

// Moments returns a copy of the moment list.
func (c *Circuit) Moments() []Moment {
	out := make([]Moment, len(c.moments))
	copy(out, c.moments)
	return out
}

// Copy returns a deep enough copy: moments are immutable values, so copying
// the moment slice suffices.
func (c *Circuit) Copy() *Circuit {
	return New(c.moments...)
}

// Equal compares circuits moment by moment.
func (c *Circuit) Equal(other *Circuit) bool {
	if len(c.moments) != len(other.moments) {
		return false
	}
	for i := range c.moments {
		if !c.moments[i].Equal(other.moments[i]) {
			return false
		}
	}
	return true
}

// Slice returns a new circuit holding moments [from, to). Bounds are
// clamped to the valid range; an inverted range yields an empty circuit.
// The result shares no state with the receiver.
func (c *Circuit) Slice(from, to int) *Circuit {
	from = min(max(from, 0), len(c.moments))
	to = min(max(to, 0), len(c.moments))
	if from >= to {
		return New()
	}
	return New(c.moments[from:to]...)
}

// Add returns the concatenation of two circuits, leaving both unchanged.
func (c *Circuit) Add(other *Circuit) *Circuit {
	out := New(c.moments...)
	out.moments = append(out.moments, other.moments...)
	return out
}

// Mul returns the circuit repeated k times. Non-positive k yields an
// empty circuit.
func (c *Circuit) Mul(k int) *Circuit {
	out := New()
	for range max(k, 0) {
		out.moments = append(out.moments, c.moments...)
	}
	return out
}

// Concat appends another circuit's moments in place.
func (c *Circuit) Concat(other *Circuit) {
	c.moments = append(c.moments, other.moments...)
}

// SetMoment replaces the i-th moment.
func (c *Circuit) SetMoment(i int, m Moment) error {
	if i < 0 || i >= len(c.moments) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	c.moments[i] = m
	return nil
}

// SetRange replaces moments [from, to) with the given replacement moments,
// which need not have the same length as the removed range.
func (c *Circuit) SetRange(from, to int, replacement []Moment) error {
	if from < 0 || to > len(c.moments) || from > to {
		return fmt.Errorf("%w: [%d, %d)", ErrIndexOutOfRange, from, to)
	}
	next := make([]Moment, 0, len(c.moments)-(to-from)+len(replacement))
	next = append(next, c.moments[:from]...)
	next = append(next, replacement...)
	next = append(next, c.moments[to:]...)
	c.moments = next
	return nil
}

// DeleteRange removes moments [from, to).
func (c *Circuit) DeleteRange(from, to int) error {
	return c.SetRange(from, to, nil)
}

// InsertMoment inserts a prebuilt moment at the given index.
func (c *Circuit) InsertMoment(index int, m Moment) error {
	if index < 0 || index > len(c.moments) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.insertEmptyMoment(index)
	c.moments[index] = m
	return nil
}

func (c *Circuit) insertEmptyMoment(index int) {
	c.moments = append(c.moments, Moment{})
	copy(c.moments[index+1:], c.moments[index:])
	c.moments[index] = Moment{}
}

// hasOpAt reports whether the moment at index touches any of the qubits.
// Out-of-range indices count as free.
func (c *Circuit) hasOpAt(index int, qubits []ops.Qubit) bool {
	return 0 <= index && index < len(c.moments) && c.moments[index].OperatesOn(qubits)
}

// pickOrCreateMomentIndex locates (creating if necessary) the moment that
// an operation inserted at splitter should land in, and returns its index.
func (c *Circuit) pickOrCreateMomentIndex(splitter int, op ops.Operation, strategy InsertStrategy) (int, error) {
	switch strategy {
	case StrategyNew, StrategyNewThenInline:
		c.insertEmptyMoment(splitter)
		return splitter, nil

	case StrategyInline:
		if 0 <= splitter-1 && splitter-1 < len(c.moments) && !c.hasOpAt(splitter-1, op.Qubits) {
			return splitter - 1, nil
		}
		return c.pickOrCreateMomentIndex(splitter, op, StrategyNew)

	case StrategyEarliest:
		if !c.hasOpAt(splitter, op.Qubits) {
			if p, ok := c.PrevMomentOperatingOn(op.Qubits, splitter); ok {
				return p + 1, nil
			}
			return 0, nil
		}
		return c.pickOrCreateMomentIndex(splitter, op, StrategyInline)
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
}

// Insert places operations into the circuit starting at the given index,
// following the chosen strategy. It returns the index of the moment just
// after the last inserted operation, so that a later insert at the returned
// index keeps going from where this one stopped.
func (c *Circuit) Insert(index int, strategy InsertStrategy, operations ...ops.Operation) (int, error) {
	if index < 0 || index > len(c.moments) {
		return 0, fmt.Errorf("%w: insert at %d", ErrIndexOutOfRange, index)
	}
	k := index
	for _, op := range operations {
		p, err := c.pickOrCreateMomentIndex(k, op, strategy)
		if err != nil {
			return 0, err
		}
		for p >= len(c.moments) {
			c.moments = append(c.moments, Moment{})
		}
		next, err := c.moments[p].WithOperation(op)
		if err != nil {
			return 0, err
		}
		c.moments[p] = next
		k = max(k, p+1)
		if strategy == StrategyNewThenInline {
			strategy = StrategyInline
		}
	}
	return k, nil
}

// InsertTree flattens an operation tree and inserts the result.
func (c *Circuit) InsertTree(index int, strategy InsertStrategy, tree ops.Tree) (int, error) {
	flat, err := ops.FlattenTree(tree)
	if err != nil {
		return 0, err
	}
	return c.Insert(index, strategy, flat...)
}

// InsertIntoRange packs operations into the existing moments [start, end),
// walking forward past moments whose qubits are busy. Operations that do
// not fit before end are inserted at end with StrategyNewThenInline.
// Returns the index just after the last affected moment.
func (c *Circuit) InsertIntoRange(start, end int, operations ...ops.Operation) (int, error) {
	if start < 0 || end > len(c.moments) || start > end {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrIndexOutOfRange, start, end)
	}
	i := start
	next := 0
	for next < len(operations) {
		op := operations[next]
		for i < end && c.moments[i].OperatesOn(op.Qubits) {
			i++
		}
		if i >= end {
			break
		}
		m, err := c.moments[i].WithOperation(op)
		if err != nil {
			return 0, err
		}
		c.moments[i] = m
		next++
	}
	if next >= len(operations) {
		return end, nil
	}
	return c.Insert(end, StrategyNewThenInline, operations[next:]...)
}

// Append inserts operations at the end of the circuit.
func (c *Circuit) Append(strategy InsertStrategy, operations ...ops.Operation) error {
	_, err := c.Insert(len(c.moments), strategy, operations...)
	return err
}

// AppendTree inserts a flattened operation tree at the end of the circuit.
func (c *Circuit) AppendTree(strategy InsertStrategy, tree ops.Tree) error {
	_, err := c.InsertTree(len(c.moments), strategy, tree)
	return err
}

func (c *Circuit) firstMomentOperatingOn(qubits []ops.Qubit, indices iter.Seq[int]) (int, bool) {
	for i := range indices {
		if c.hasOpAt(i, qubits) {
			return i, true
		}
	}
	return 0, false
}

func forwardRange(start, count int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := range count {
			if !yield(start + k) {
				return
			}
		}
	}
}

func backwardRange(end, count int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := range count {
			if !yield(end - k - 1) {
				return
			}
		}
	}
}

// NextMomentOperatingOn scans forward from start for the first moment that
// touches any of the qubits.
func (c *Circuit) NextMomentOperatingOn(qubits []ops.Qubit, start int) (int, bool) {
	i, ok, _ := c.NextMomentOperatingOnWithin(qubits, start, len(c.moments))
	return i, ok
}

// NextMomentOperatingOnWithin is NextMomentOperatingOn with a bound on how
// far past start to look. A negative maxDistance is an error.
func (c *Circuit) NextMomentOperatingOnWithin(qubits []ops.Qubit, start, maxDistance int) (int, bool, error) {
	if maxDistance < 0 {
		return 0, false, fmt.Errorf("%w: %d", ErrNegativeDistance, maxDistance)
	}
	maxDistance = min(maxDistance, len(c.moments)-start)
	i, ok := c.firstMomentOperatingOn(qubits, forwardRange(start, maxDistance))
	return i, ok, nil
}

// PrevMomentOperatingOn scans backward from just before end for the last
// moment that touches any of the qubits.
func (c *Circuit) PrevMomentOperatingOn(qubits []ops.Qubit, end int) (int, bool) {
	i, ok, _ := c.PrevMomentOperatingOnWithin(qubits, end, len(c.moments))
	return i, ok
}

// PrevMomentOperatingOnWithin is PrevMomentOperatingOn with a bound on how
// far before end to look. A negative maxDistance is an error.
func (c *Circuit) PrevMomentOperatingOnWithin(qubits []ops.Qubit, end, maxDistance int) (int, bool, error) {
	if maxDistance < 0 {
		return 0, false, fmt.Errorf("%w: %d", ErrNegativeDistance, maxDistance)
	}
	maxDistance = min(maxDistance, end)
	i, ok := c.firstMomentOperatingOn(qubits, backwardRange(end, maxDistance))
	return i, ok, nil
}

// OperationAt returns the operation acting on q in the given moment, if any.
func (c *Circuit) OperationAt(q ops.Qubit, momentIndex int) (ops.Operation, bool) {
	if momentIndex < 0 || momentIndex >= len(c.moments) {
		return ops.Operation{}, false
	}
	return c.moments[momentIndex].OperationAt(q)
}

// FindAllOperations yields (moment index, operation) pairs, in moment order,
// for every operation satisfying the predicate. A nil predicate matches
// everything.
func (c *Circuit) FindAllOperations(pred func(ops.Operation) bool) iter.Seq2[int, ops.Operation] {
	return func(yield func(int, ops.Operation) bool) {
		for i, m := range c.moments {
			for _, op := range m.operations {
				if pred != nil && !pred(op) {
					continue
				}
				if !yield(i, op) {
					return
				}
			}
		}
	}
}

// FindAllOperationsWithGate yields the operations whose gate has concrete
// type G, in moment order.
func FindAllOperationsWithGate[G ops.Gate](c *Circuit) iter.Seq2[int, ops.Operation] {
	return c.FindAllOperations(func(op ops.Operation) bool {
		_, ok := op.Gate.(G)
		return ok
	})
}

// AllOperations yields every operation in moment order.
func (c *Circuit) AllOperations() iter.Seq[ops.Operation] {
	return func(yield func(ops.Operation) bool) {
		for _, m := range c.moments {
			for _, op := range m.operations {
				if !yield(op) {
					return
				}
			}
		}
	}
}

// AllQubits returns every qubit touched by the circuit, in sorted order
// without duplicates.
func (c *Circuit) AllQubits() []ops.Qubit {
	seen := make(map[ops.Qubit]bool)
	var qs []ops.Qubit
	for _, m := range c.moments {
		for _, q := range m.Qubits() {
			if !seen[q] {
				seen[q] = true
				qs = append(qs, q)
			}
		}
	}
	return ops.SortQubits(qs)
}

// qubitsPlus merges the circuit's qubits with extras, sorted and without
// duplicates.
func (c *Circuit) qubitsPlus(extra []ops.Qubit) []ops.Qubit {
	qs := c.AllQubits()
	seen := make(map[ops.Qubit]bool, len(qs))
	for _, q := range qs {
		seen[q] = true
	}
	for _, q := range extra {
		if !seen[q] {
			seen[q] = true
			qs = append(qs, q)
		}
	}
	return ops.SortQubits(qs)
}

// ClearOperationsTouching removes every operation touching any of the given
// qubits within the listed moments. Out-of-range indices are ignored.
func (c *Circuit) ClearOperationsTouching(qubits []ops.Qubit, momentIndices []int) {
	for _, i := range momentIndices {
		if 0 <= i && i < len(c.moments) {
			c.moments[i] = c.moments[i].WithoutOperationsTouching(qubits)
		}
	}
}

// AreAllMeasurementsTerminal reports whether every measurement is the last
// thing that happens to each of its qubits.
func (c *Circuit) AreAllMeasurementsTerminal() bool {
	for i, m := range c.moments {
		for _, op := range m.operations {
			if !ops.IsMeasurement(op) {
				continue
			}
			if _, more := c.NextMomentOperatingOn(op.Qubits, i+1); more {
				return false
			}
		}
	}
	return true
}

func (c *Circuit) String() string {
	return c.Diagram(DiagramOptions{UseUnicode: true})
}

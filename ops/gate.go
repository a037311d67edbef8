package ops

import (
	"fmt"
	"strings"

	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// Gate is an effect that can be applied to a tuple of qubits. A Gate on its
// own is unbound; binding it to qubits produces an Operation.
//
// Gates advertise extra abilities through the capability interfaces below
// (KnownMatrix, Composite, TextDiagrammable, ...). Callers probe with type
// assertions, or through an ext.Extensions registry when adapters are in
// play, instead of inspecting concrete types.
type Gate interface {
	// NumQubits is the arity of the gate.
	NumQubits() int
	String() string
}

// KnownMatrix is a gate or operation that can produce a concrete unitary.
// ok is false when the matrix is unavailable, e.g. while an exponent is
// still symbolic. Unavailability is a capability probe, not an error.
type KnownMatrix interface {
	Matrix() (*Matrix, bool)
}

// Composite is a gate with a known decomposition into simpler operations.
type Composite interface {
	Decompose(qubits []Qubit) []Operation
}

// Extrapolatable is a gate whose effect scales continuously; Pow returns
// the gate raised to the given exponent. ok is false when the combination
// is not expressible (e.g. a symbolic exponent times a symbolic exponent).
type Extrapolatable interface {
	Pow(exponent param.Value) (Gate, bool)
}

// SelfInverse marks gates that undo themselves, like the half-turn
// eigengates.
type SelfInverse interface {
	IsSelfInverse() bool
}

// Parameterized is a gate that may depend on symbolic parameters.
type Parameterized interface {
	IsParameterized() bool
	// ResolveParameters returns the gate with symbols replaced per the
	// resolver. Resolution of an unknown key reports an error.
	ResolveParameters(r *param.Resolver) (Gate, error)
}

// InterchangeableQubits marks operations equal under some permutations of
// their qubits. The key differs between non-interchangeable positions.
type InterchangeableQubits interface {
	QubitEquivalenceGroupKey(index int) int
}

// DiagramArgs configures how an operation draws itself into a text diagram.
type DiagramArgs struct {
	KnownQubits []Qubit
	UseUnicode  bool
	// Precision is the number of digits for float exponents; negative
	// means full precision.
	Precision int
}

// DiagramInfo is an operation's contribution to a text diagram: one wire
// symbol per qubit, plus an exponent annotation on the last wire.
type DiagramInfo struct {
	WireSymbols []string
	Exponent    param.Value
}

// TextDiagrammable is a gate that knows how to label its wires.
type TextDiagrammable interface {
	DiagramInfo(args DiagramArgs) DiagramInfo
}

// Operation is a gate bound to an ordered, duplicate-free tuple of qubits.
// Treat it as an immutable value: never mutate Qubits after construction.
type Operation struct {
	Gate   Gate
	Qubits []Qubit
}

// On binds a gate to qubits. It panics on arity mismatch or duplicate
// qubits; both are programming errors.
func On(g Gate, qubits ...Qubit) Operation {
	if g.NumQubits() != len(qubits) {
		panic(fmt.Sprintf("gate %v wants %d qubits, got %d", g, g.NumQubits(), len(qubits)))
	}
	seen := make(map[Qubit]bool, len(qubits))
	for _, q := range qubits {
		if seen[q] {
			panic(fmt.Sprintf("gate %v applied to duplicate qubit %v", g, q))
		}
		seen[q] = true
	}
	bound := make([]Qubit, len(qubits))
	copy(bound, qubits)
	return Operation{Gate: g, Qubits: bound}
}

// WithQubits rebinds the operation's gate to new qubits.
func (op Operation) WithQubits(qubits ...Qubit) Operation {
	return On(op.Gate, qubits...)
}

// TouchesAny reports whether the operation acts on any of the given qubits.
func (op Operation) TouchesAny(qubits []Qubit) bool {
	for _, q := range op.Qubits {
		for _, other := range qubits {
			if q == other {
				return true
			}
		}
	}
	return false
}

// Equal compares gate identity and qubit tuples.
func (op Operation) Equal(other Operation) bool {
	if !GatesEqual(op.Gate, other.Gate) || len(op.Qubits) != len(other.Qubits) {
		return false
	}
	for i, q := range op.Qubits {
		if q != other.Qubits[i] {
			return false
		}
	}
	return true
}

// Matrix exposes the gate's unitary, when it has one.
func (op Operation) Matrix() (*Matrix, bool) {
	km, ok := op.Gate.(KnownMatrix)
	if !ok {
		return nil, false
	}
	return km.Matrix()
}

// Decompose expands the operation when its gate is composite.
func (op Operation) Decompose() ([]Operation, bool) {
	c, ok := op.Gate.(Composite)
	if !ok {
		return nil, false
	}
	return c.Decompose(op.Qubits), true
}

func (op Operation) String() string {
	names := make([]string, len(op.Qubits))
	for i, q := range op.Qubits {
		names[i] = q.String()
	}
	return fmt.Sprintf("%v(%s)", op.Gate, strings.Join(names, ", "))
}

// Tree is a nested structure of operations: an Operation, a []Operation, a
// []Tree, or any mix of those inside a []any.
type Tree any

// FlattenTree reduces a tree to the linear operation sequence it contains,
// preserving depth-first order.
func FlattenTree(tree Tree) ([]Operation, error) {
	var out []Operation
	var walk func(t Tree) error
	walk = func(t Tree) error {
		switch v := t.(type) {
		case Operation:
			out = append(out, v)
		case []Operation:
			out = append(out, v...)
		case []Tree:
			for _, sub := range v {
				if err := walk(sub); err != nil {
					return err
				}
			}
		case []any:
			for _, sub := range v {
				if err := walk(sub); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: %T", ErrNotOpTree, t)
		}
		return nil
	}
	if err := walk(tree); err != nil {
		return nil, err
	}
	return out, nil
}

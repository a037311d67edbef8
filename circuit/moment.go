package circuit

import (
	"fmt"
	"strings"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

// Moment is a set of operations applied in the same time slice. No two
// operations in a moment may share a qubit.
type Moment struct {
	operations []ops.Operation
}

// NewMoment builds a moment from the given operations, rejecting any pair
// that act on a common qubit.
func NewMoment(operations ...ops.Operation) (Moment, error) {
	seen := make(map[ops.Qubit]bool, len(operations))
	for _, op := range operations {
		for _, q := range op.Qubits {
			if seen[q] {
				return Moment{}, fmt.Errorf("%w: qubit %v", ErrOverlappingOperations, q)
			}
			seen[q] = true
		}
	}
	return momentOf(operations...), nil
}

// momentOf skips the disjointness check. Callers must already know the
// operations do not overlap.
func momentOf(operations ...ops.Operation) Moment {
	m := Moment{operations: make([]ops.Operation, len(operations))}
	copy(m.operations, operations)
	return m
}

// Operations returns a copy of the moment's operation list.
func (m Moment) Operations() []ops.Operation {
	out := make([]ops.Operation, len(m.operations))
	copy(out, m.operations)
	return out
}

// Len reports the number of operations in the moment.
func (m Moment) Len() int { return len(m.operations) }

// OperatesOn reports whether any operation in the moment touches any of
// the given qubits.
func (m Moment) OperatesOn(qubits []ops.Qubit) bool {
	for _, op := range m.operations {
		if op.TouchesAny(qubits) {
			return true
		}
	}
	return false
}

// OperationAt returns the operation acting on q, if any.
func (m Moment) OperationAt(q ops.Qubit) (ops.Operation, bool) {
	for _, op := range m.operations {
		if op.TouchesAny([]ops.Qubit{q}) {
			return op, true
		}
	}
	return ops.Operation{}, false
}

// WithOperation returns a new moment extended by op. It fails if op shares
// a qubit with an existing operation.
func (m Moment) WithOperation(op ops.Operation) (Moment, error) {
	if m.OperatesOn(op.Qubits) {
		return Moment{}, fmt.Errorf("%w: %v", ErrOverlappingOperations, op)
	}
	next := make([]ops.Operation, 0, len(m.operations)+1)
	next = append(next, m.operations...)
	next = append(next, op)
	return Moment{operations: next}, nil
}

// WithoutOperationsTouching returns a new moment with every operation
// touching any of the given qubits removed.
func (m Moment) WithoutOperationsTouching(qubits []ops.Qubit) Moment {
	if !m.OperatesOn(qubits) {
		return m
	}
	kept := make([]ops.Operation, 0, len(m.operations))
	for _, op := range m.operations {
		if !op.TouchesAny(qubits) {
			kept = append(kept, op)
		}
	}
	return Moment{operations: kept}
}

// Qubits returns the qubits acted on by the moment, in sorted order.
func (m Moment) Qubits() []ops.Qubit {
	var qs []ops.Qubit
	for _, op := range m.operations {
		qs = append(qs, op.Qubits...)
	}
	return ops.SortedQubits(qs)
}

// Equal compares moments as multisets of operations, ignoring order.
func (m Moment) Equal(other Moment) bool {
	if len(m.operations) != len(other.operations) {
		return false
	}
	matched := make([]bool, len(other.operations))
outer:
	for _, op := range m.operations {
		for i, cand := range other.operations {
			if !matched[i] && op.Equal(cand) {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

func (m Moment) String() string {
	parts := make([]string, len(m.operations))
	for i, op := range m.operations {
		parts[i] = op.String()
	}
	return strings.Join(parts, " and ")
}

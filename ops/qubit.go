package ops

import (
	"fmt"
	"sort"
)

// Qubit is an opaque, totally-ordered identifier for a wire in a circuit.
// Implementations must be comparable value types so qubits can be used as
// map keys. Qubits are referenced, never owned, by operations.
type Qubit interface {
	// Cmp defines a total order over qubits. Qubits of different concrete
	// types are ordered by type name so mixed-type circuits stay
	// deterministic.
	Cmp(other Qubit) int
	String() string
}

// LineQubit is a qubit on a 1-dimensional line, identified by its position.
type LineQubit int

func (q LineQubit) Cmp(other Qubit) int {
	o, ok := other.(LineQubit)
	if !ok {
		return cmpTypeNames(q, other)
	}
	switch {
	case q < o:
		return -1
	case q > o:
		return 1
	}
	return 0
}

func (q LineQubit) String() string {
	return fmt.Sprintf("q%d", int(q))
}

// LineQubitRange returns the n line qubits from 0 to n-1.
func LineQubitRange(n int) []Qubit {
	qubits := make([]Qubit, n)
	for i := range qubits {
		qubits[i] = LineQubit(i)
	}
	return qubits
}

// GridQubit is a qubit on a 2-dimensional grid, ordered row-major.
type GridQubit struct {
	Row, Col int
}

func (q GridQubit) Cmp(other Qubit) int {
	o, ok := other.(GridQubit)
	if !ok {
		return cmpTypeNames(q, other)
	}
	if q.Row != o.Row {
		if q.Row < o.Row {
			return -1
		}
		return 1
	}
	switch {
	case q.Col < o.Col:
		return -1
	case q.Col > o.Col:
		return 1
	}
	return 0
}

func (q GridQubit) String() string {
	return fmt.Sprintf("(%d, %d)", q.Row, q.Col)
}

func cmpTypeNames(a, b Qubit) int {
	an := fmt.Sprintf("%T", a)
	bn := fmt.Sprintf("%T", b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	}
	return 0
}

// SortQubits sorts qubits in place into their canonical order and returns
// the slice.
func SortQubits(qubits []Qubit) []Qubit {
	sort.Slice(qubits, func(i, j int) bool {
		return qubits[i].Cmp(qubits[j]) < 0
	})
	return qubits
}

// SortedQubits returns a sorted copy, leaving the input untouched.
func SortedQubits(qubits []Qubit) []Qubit {
	out := make([]Qubit, len(qubits))
	copy(out, qubits)
	return SortQubits(out)
}

package circuit

import (
	"fmt"

	"github.com/LiberoAphpollo/VQC-Cirq/ext"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

// UnitaryOptions tunes unitary extraction.
type UnitaryOptions struct {
	// ExtraQubits are included in the qubit ordering even when the
	// circuit never touches them.
	ExtraQubits []ops.Qubit

	// FailOnMeasurement makes any measurement an error. When false,
	// terminal measurements are skipped and only non-terminal ones fail.
	FailOnMeasurement bool

	// Ext supplies casts for gates that expose a matrix or a
	// decomposition only through a registered wrapper. May be nil.
	Ext *ext.Extensions
}

// ToUnitaryMatrix composes the circuit into a single 2^n by 2^n matrix
// over the sorted qubits, with the first qubit owning the most significant
// bit of the basis-state index.
func (c *Circuit) ToUnitaryMatrix(opts UnitaryOptions) (*ops.Matrix, error) {
	qubits := c.qubitsPlus(opts.ExtraQubits)
	n := len(qubits)
	qubitIndex := make(map[ops.Qubit]int, n)
	for i, q := range qubits {
		qubitIndex[q] = i
	}

	total := ops.Identity(1 << n)
	for i, m := range c.moments {
		for _, op := range m.operations {
			if ops.IsMeasurement(op) {
				if opts.FailOnMeasurement {
					return nil, fmt.Errorf("%w: %v", ErrNoUnitary, op)
				}
				if _, more := c.NextMomentOperatingOn(op.Qubits, i+1); more {
					return nil, fmt.Errorf("%w: %v", ErrNonTerminalMeasurement, op)
				}
				continue
			}
			if err := applyOpToUnitary(total, op, qubitIndex, n, opts.Ext); err != nil {
				return nil, err
			}
		}
	}
	return total, nil
}

// applyOpToUnitary left-multiplies total by op's full-register matrix,
// decomposing composite gates as needed.
func applyOpToUnitary(total *ops.Matrix, op ops.Operation, qubitIndex map[ops.Qubit]int, n int, e *ext.Extensions) error {
	if known, ok := ext.TryCast[ops.KnownMatrix](e, op.Gate); ok {
		if mat, ok := known.Matrix(); ok {
			indices := make([]int, len(op.Qubits))
			for i, q := range op.Qubits {
				indices[i] = qubitIndex[q]
			}
			expanded := expandMatrix(mat, indices, n)
			leftMultiply(total, expanded)
			return nil
		}
	}
	if comp, ok := ext.TryCast[ops.Composite](e, op.Gate); ok {
		for _, sub := range comp.Decompose(op.Qubits) {
			if err := applyOpToUnitary(total, sub, qubitIndex, n, e); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrNoUnitary, op)
}

// expandMatrix scatters a k-qubit gate matrix over an n-qubit register.
// indices[j] gives the register position of the gate's j-th qubit, where
// position 0 is the most significant bit.
func expandMatrix(gate *ops.Matrix, indices []int, n int) *ops.Matrix {
	k := len(indices)
	bitOf := make([]uint, k)
	var affected int
	for j, qi := range indices {
		bitOf[j] = uint(n - 1 - qi)
		affected |= 1 << bitOf[j]
	}
	size := 1 << n
	overMask := (size - 1) &^ affected

	scatter := func(g int) int {
		out := 0
		for j := range k {
			if g&(1<<uint(k-1-j)) != 0 {
				out |= 1 << bitOf[j]
			}
		}
		return out
	}
	gather := func(full int) int {
		out := 0
		for j := range k {
			if full&(1<<bitOf[j]) != 0 {
				out |= 1 << uint(k-1-j)
			}
		}
		return out
	}

	result := ops.NewMatrix(size)
	for col := range size {
		rest := col & overMask
		gc := gather(col)
		for gr := range 1 << k {
			v := gate.At(gr, gc)
			if v != 0 {
				result.Set(rest|scatter(gr), col, v)
			}
		}
	}
	return result
}

// leftMultiply sets total = factor * total in place.
func leftMultiply(total, factor *ops.Matrix) {
	product := factor.Mul(total)
	copy(total.Data, product.Data)
}

package circuit

import (
	"math"

	"github.com/LiberoAphpollo/VQC-Cirq/ext"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// OptimizationPass rewrites a circuit in place.
type OptimizationPass interface {
	OptimizeCircuit(c *Circuit) error
}

// PointOptimizationSummary describes a local rewrite: clear a span of
// moments on the given qubits, then pack in the replacement operations.
type PointOptimizationSummary struct {
	ClearSpan     int
	ClearQubits   []ops.Qubit
	NewOperations []ops.Operation
}

// PointOptimizer inspects one operation at a time and proposes a local
// rewrite around it, or declines.
type PointOptimizer interface {
	OptimizationAt(c *Circuit, index int, op ops.Operation) (PointOptimizationSummary, bool)
}

// RunPointOptimizer sweeps the circuit once, applying a point optimizer's
// rewrites. A per-qubit frontier keeps already-rewritten regions from being
// visited again in the same sweep.
func RunPointOptimizer(po PointOptimizer, c *Circuit) error {
	frontier := make(map[ops.Qubit]int)
	for i := 0; i < c.Len(); i++ {
		for _, op := range c.moments[i].operations {
			blocked := false
			for _, q := range op.Qubits {
				if frontier[q] > i {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			opt, ok := po.OptimizationAt(c, i, op)
			if !ok {
				continue
			}
			end := min(i+opt.ClearSpan, c.Len())
			indices := make([]int, 0, end-i)
			for j := i; j < end; j++ {
				indices = append(indices, j)
			}
			c.ClearOperationsTouching(opt.ClearQubits, indices)
			next, err := c.InsertIntoRange(i, end, opt.NewOperations...)
			if err != nil {
				return err
			}
			for _, q := range opt.ClearQubits {
				frontier[q] = next
			}
		}
	}
	return nil
}

// DropEmptyMoments removes moments with no operations.
type DropEmptyMoments struct{}

func (DropEmptyMoments) OptimizeCircuit(c *Circuit) error {
	kept := c.moments[:0]
	for _, m := range c.moments {
		if m.Len() > 0 {
			kept = append(kept, m)
		}
	}
	c.moments = kept
	return nil
}

// ExpandComposite replaces composite operations with their decompositions,
// recursively, until only primitive operations remain.
type ExpandComposite struct {
	// Ext supplies casts for gates whose decomposition is registered
	// rather than built in. May be nil.
	Ext *ext.Extensions
}

func (p ExpandComposite) OptimizeCircuit(c *Circuit) error {
	return RunPointOptimizer(p, c)
}

func (p ExpandComposite) OptimizationAt(c *Circuit, index int, op ops.Operation) (PointOptimizationSummary, bool) {
	expanded, changed := p.expand(op)
	if !changed {
		return PointOptimizationSummary{}, false
	}
	return PointOptimizationSummary{
		ClearSpan:     1,
		ClearQubits:   op.Qubits,
		NewOperations: expanded,
	}, true
}

func (p ExpandComposite) expand(op ops.Operation) ([]ops.Operation, bool) {
	comp, ok := ext.TryCast[ops.Composite](p.Ext, op.Gate)
	if !ok {
		return []ops.Operation{op}, false
	}
	var out []ops.Operation
	for _, sub := range comp.Decompose(op.Qubits) {
		subExpanded, _ := p.expand(sub)
		out = append(out, subExpanded...)
	}
	return out, true
}

// MergeSingleQubitGates collapses runs of adjacent single-qubit operations
// on the same qubit into one matrix gate. Runs that multiply out to the
// identity are removed entirely.
type MergeSingleQubitGates struct {
	// Tolerance bounds how far a merged product may sit from the identity
	// and still be dropped. Zero means exact.
	Tolerance float64

	Ext *ext.Extensions
}

func (p MergeSingleQubitGates) OptimizeCircuit(c *Circuit) error {
	return RunPointOptimizer(p, c)
}

func (p MergeSingleQubitGates) OptimizationAt(c *Circuit, index int, op ops.Operation) (PointOptimizationSummary, bool) {
	if len(op.Qubits) != 1 {
		return PointOptimizationSummary{}, false
	}
	q := op.Qubits[0]

	total := ops.Identity(2)
	merged := 0
	cur := index
	for {
		cand, ok := c.OperationAt(q, cur)
		if !ok || len(cand.Qubits) != 1 {
			break
		}
		m, ok := opMatrix(cand, p.Ext)
		if !ok {
			break
		}
		total = m.Mul(total)
		merged++
		next, ok := c.NextMomentOperatingOn([]ops.Qubit{q}, cur+1)
		if !ok {
			cur++
			break
		}
		cur = next
	}
	if merged < 2 {
		return PointOptimizationSummary{}, false
	}

	summary := PointOptimizationSummary{
		ClearSpan:   cur - index,
		ClearQubits: []ops.Qubit{q},
	}
	if !total.ApproxEqual(ops.Identity(2), p.Tolerance) {
		summary.NewOperations = []ops.Operation{ops.NewMatrixGate(total).On(q)}
	}
	return summary, true
}

func opMatrix(op ops.Operation, e *ext.Extensions) (*ops.Matrix, bool) {
	known, ok := ext.TryCast[ops.KnownMatrix](e, op.Gate)
	if !ok {
		return nil, false
	}
	return known.Matrix()
}

// EjectZ pushes Z rotations toward the end of the circuit, sliding them
// past gates that are diagonal in the computational basis, merging runs of
// Z rotations into one, and absorbing those that land just before a
// measurement.
type EjectZ struct{}

func (p EjectZ) OptimizeCircuit(c *Circuit) error {
	for _, q := range c.AllQubits() {
		if err := p.ejectOnQubit(c, q); err != nil {
			return err
		}
	}
	return nil
}

func (p EjectZ) ejectOnQubit(c *Circuit, q ops.Qubit) error {
	qs := []ops.Qubit{q}
	acc := param.Lit(0)
	i := 0
	for {
		idx, ok := c.NextMomentOperatingOn(qs, i)
		if !ok {
			break
		}
		op, _ := c.OperationAt(q, idx)
		switch {
		case isPlainZPow(op):
			e, _ := ops.AsZPow(op.Gate)
			next, ok := addExponents(acc, e)
			if !ok {
				// Two distinct symbols: flush what we have, restart
				// accumulation from this one. The flush may grow the
				// circuit by a moment, shifting the current operation.
				shift, err := flushZ(c, q, acc, idx)
				if err != nil {
					return err
				}
				idx += shift
				next = e
			}
			acc = next
			c.ClearOperationsTouching(qs, []int{idx})
		case ops.IsCZPow(op.Gate):
			// Diagonal, so the pending rotation commutes past it.
		case ops.IsMeasurement(op):
			// A phase just before measurement is unobservable.
			acc = param.Lit(0)
		default:
			shift, err := flushZ(c, q, acc, idx)
			if err != nil {
				return err
			}
			idx += shift
			acc = param.Lit(0)
		}
		i = idx + 1
	}
	_, err := flushZ(c, q, acc, c.Len())
	return err
}

func isPlainZPow(op ops.Operation) bool {
	_, ok := ops.AsZPow(op.Gate)
	return ok && len(op.Qubits) == 1
}

// addExponents merges two exponents when at most one distinct symbol is
// involved.
func addExponents(a, b param.Value) (param.Value, bool) {
	if f, ok := a.Float(); ok {
		return b.Add(f), true
	}
	if f, ok := b.Float(); ok {
		return a.Add(f), true
	}
	return param.Value{}, false
}

// flushZ materializes an accumulated Z rotation just before moment index.
// It returns how many moments were added to the circuit (0 or 1).
func flushZ(c *Circuit, q ops.Qubit, acc param.Value, index int) (int, error) {
	if f, ok := acc.Float(); ok && math.Mod(f, 2) == 0 {
		return 0, nil
	}
	before := c.Len()
	_, err := c.Insert(index, StrategyInline, ops.Z.WithExponent(acc).On(q))
	return c.Len() - before, err
}

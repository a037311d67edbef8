package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

func TestDropEmptyMoments(t *testing.T) {
	m1, _ := NewMoment(ops.X.On(qa))
	m2, _ := NewMoment(ops.Y.On(qb))
	c := New(m1, Moment{}, m2, Moment{})
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	require.Equal(t, 2, c.Len())
	assert.True(t, c.Moment(0).Equal(m1))
	assert.True(t, c.Moment(1).Equal(m2))
}

func TestExpandComposite(t *testing.T) {
	c := FromOps(ops.On(cnotViaCZ{}, qa, qb))
	require.NoError(t, ExpandComposite{}.OptimizeCircuit(c))

	for _, op := range c.Moments()[0].Operations() {
		if _, ok := op.Gate.(cnotViaCZ); ok {
			t.Fatal("composite survived expansion")
		}
	}
	got := mustUnitary(t, c, UnitaryOptions{})
	want, _ := ops.CNOT.Matrix()
	assert.True(t, got.ApproxEqual(want, matTol), "expanded circuit is not a CNOT:\n%v", got)
}

func TestMergeSingleQubitGatesDropsIdentity(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.X.On(qa), ops.X.On(qa)))
	require.NoError(t, MergeSingleQubitGates{Tolerance: 1e-9}.OptimizeCircuit(c))
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	assert.Equal(t, 0, c.Len())
}

func TestMergeSingleQubitGatesProducesProduct(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.X.On(qa), ops.Z.On(qa)))
	require.NoError(t, MergeSingleQubitGates{Tolerance: 1e-9}.OptimizeCircuit(c))
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	require.Equal(t, 1, c.Len())

	op, ok := c.OperationAt(qa, 0)
	require.True(t, ok)
	merged, ok := op.Matrix()
	require.True(t, ok)
	x, _ := ops.X.Matrix()
	z, _ := ops.Z.Matrix()
	assert.True(t, merged.ApproxEqual(z.Mul(x), matTol))
}

func TestMergeLeavesLoneAndMultiQubitOpsAlone(t *testing.T) {
	c := FromOps(ops.X.On(qa), ops.CZ.On(qa, qb))
	before := c.Copy()
	require.NoError(t, MergeSingleQubitGates{Tolerance: 1e-9}.OptimizeCircuit(c))
	assert.True(t, c.Equal(before))
}

func TestEjectZAbsorbsThroughDiagonal(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.Z.On(qa), ops.CZ.On(qa, qb), ops.Z.On(qa)))
	require.NoError(t, EjectZ{}.OptimizeCircuit(c))
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	require.Equal(t, 1, c.Len())
	op, ok := c.OperationAt(qa, 0)
	require.True(t, ok)
	assert.True(t, ops.IsCZPow(op.Gate), "survivor = %v", op)
}

func TestEjectZDropsPhaseBeforeMeasurement(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.Z.On(qa), ops.Measure("out", qa)))
	require.NoError(t, EjectZ{}.OptimizeCircuit(c))
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	require.Equal(t, 1, c.Len())
	op, _ := c.OperationAt(qa, 0)
	assert.True(t, ops.IsMeasurement(op))
}

func TestEjectZStopsAtNonDiagonal(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.Z.On(qa), ops.X.On(qa)))
	require.NoError(t, EjectZ{}.OptimizeCircuit(c))
	want := New()
	require.NoError(t, want.Append(StrategyNew, ops.Z.On(qa), ops.X.On(qa)))
	assert.True(t, c.Equal(want), "got %v", c.Moments())
}

func TestEjectZMergesRuns(t *testing.T) {
	c := New()
	require.NoError(t, c.Append(StrategyNew, ops.ZPow(0.5).On(qa), ops.Z.On(qa)))
	require.NoError(t, EjectZ{}.OptimizeCircuit(c))
	require.NoError(t, DropEmptyMoments{}.OptimizeCircuit(c))
	require.Equal(t, 1, c.Len())
	op, ok := c.OperationAt(qa, 0)
	require.True(t, ok)
	assert.True(t, ops.GatesEqual(op.Gate, ops.ZPow(1.5)), "survivor = %v", op)
}

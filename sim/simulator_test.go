package sim

import (
	"context"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiberoAphpollo/VQC-Cirq/circuit"
	"github.com/LiberoAphpollo/VQC-Cirq/ops"
	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

var (
	sq0 = ops.LineQubit(0)
	sq1 = ops.LineQubit(1)
)

// basicCircuit is the standard two-qubit smoke test: a pair of sqrt-X
// layers around a CZ, then a Z on the first qubit.
func basicCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	require.NoError(t, c.Append(circuit.StrategyNewThenInline,
		ops.XPow(0.5).On(sq0), ops.XPow(0.5).On(sq1)))
	require.NoError(t, c.Append(circuit.StrategyNew, ops.CZ.On(sq0, sq1)))
	require.NoError(t, c.Append(circuit.StrategyNewThenInline,
		ops.XPow(0.5).On(sq0), ops.XPow(0.5).On(sq1)))
	require.NoError(t, c.Append(circuit.StrategyNew, ops.Z.On(sq0)))
	require.Equal(t, 4, c.Len())
	return c
}

func assertState(t *testing.T, got, want []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if cmplx.Abs(got[i]-want[i]) > ampTol {
			t.Fatalf("state = %v, want %v (first mismatch at %d)", got, want, i)
		}
	}
}

func TestRunBasicCircuit(t *testing.T) {
	s := New(unsharded())
	tr, err := s.Run(context.Background(), basicCircuit(t), RunConfig{})
	require.NoError(t, err)
	require.Len(t, tr.FinalStates, 1)
	assertState(t, tr.FinalStates[0], []complex128{0.5, 0.5i, -0.5i, -0.5})
}

func TestRunSizesRegisterByDistinctQubits(t *testing.T) {
	// One qubit touched in two moments is still a one-qubit register.
	c := circuit.FromOps(ops.X.On(sq0), ops.Z.On(sq0))
	tr, err := New(unsharded()).Run(context.Background(), c, RunConfig{})
	require.NoError(t, err)
	require.Len(t, tr.FinalStates[0], 2)
	assertState(t, tr.FinalStates[0], []complex128{0, -1})
}

func TestRunQubitOrderFlipsBits(t *testing.T) {
	s := New(unsharded())
	tr, err := s.Run(context.Background(), basicCircuit(t), RunConfig{
		Qubits: []ops.Qubit{sq1, sq0},
	})
	require.NoError(t, err)
	assertState(t, tr.FinalStates[0], []complex128{0.5, -0.5i, 0.5i, -0.5})
}

func TestRunRecordsMeasurements(t *testing.T) {
	c := circuit.FromOps(ops.X.On(sq0), ops.Measure("out", sq0, sq1))
	s := New(unsharded())
	tr, err := s.Run(context.Background(), c, RunConfig{Repetitions: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, tr.Repetitions)
	require.Len(t, tr.Measurements["out"], 3)
	for _, bits := range tr.Measurements["out"] {
		assert.Equal(t, []bool{true, false}, bits)
	}
	assert.Equal(t, []ops.Qubit{sq0, sq1}, tr.MeasuredQubits["out"])
}

func TestRunAppliesInvertMask(t *testing.T) {
	m := ops.NewMeasurement("out", 2).WithInvertMask(true)
	c := circuit.FromOps(ops.On(m, sq0, sq1))
	s := New(unsharded())
	tr, err := s.Run(context.Background(), c, RunConfig{})
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{true, false}}, tr.Measurements["out"])
}

func TestRunRejectsDuplicateKeys(t *testing.T) {
	c := circuit.FromOps(ops.Measure("k", sq0), ops.Measure("k", sq1))
	_, err := New(unsharded()).Run(context.Background(), c, RunConfig{})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRunParameterizedNeedsResolver(t *testing.T) {
	c := circuit.FromOps(ops.X.WithExponent(param.Sym("t")).On(sq0))
	_, err := New(unsharded()).Run(context.Background(), c, RunConfig{})
	assert.ErrorIs(t, err, ErrNoMatrix)
}

func TestRunSweepOverExponent(t *testing.T) {
	c := circuit.FromOps(ops.X.WithExponent(param.Sym("t")).On(sq0))
	s := New(unsharded())
	trials, err := s.RunSweep(context.Background(), c, param.Points{
		Key:    "t",
		Values: []float64{0, 1},
	}, RunConfig{})
	require.NoError(t, err)
	require.Len(t, trials, 2)
	assertState(t, trials[0].FinalStates[0], []complex128{1, 0})
	assertState(t, trials[1].FinalStates[0], []complex128{0, 1})
}

func TestRunInitialBasis(t *testing.T) {
	c := circuit.FromOps(ops.X.On(sq0))
	tr, err := New(unsharded()).Run(context.Background(), c, RunConfig{
		Qubits:       []ops.Qubit{sq0, sq1},
		InitialBasis: 1,
	})
	require.NoError(t, err)
	assertState(t, tr.FinalStates[0], []complex128{0, 0, 0, 1})
}

func TestMomentStepsWalk(t *testing.T) {
	c := circuit.New()
	require.NoError(t, c.Append(circuit.StrategyNew, ops.X.On(sq0), ops.X.On(sq0)))

	steps, err := New(unsharded()).MomentSteps(context.Background(), c, RunConfig{})
	require.NoError(t, err)

	var states [][]complex128
	for steps.Next() {
		states = append(states, steps.Step().State())
	}
	require.NoError(t, steps.Err())
	require.Len(t, states, 2)
	assertState(t, states[0], []complex128{0, 1})
	assertState(t, states[1], []complex128{1, 0})

	assert.False(t, steps.Next(), "walk restarted after draining")
}

func TestMomentStepsMissingQubit(t *testing.T) {
	c := circuit.FromOps(ops.CZ.On(sq0, sq1))
	_, err := New(unsharded()).MomentSteps(context.Background(), c, RunConfig{
		Qubits: []ops.Qubit{sq0},
	})
	assert.ErrorIs(t, err, ErrMissingQubit)
}

func TestMomentStepsHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps, err := New(unsharded()).MomentSteps(ctx, circuit.FromOps(ops.X.On(sq0)), RunConfig{})
	require.NoError(t, err)
	assert.False(t, steps.Next())
	assert.ErrorIs(t, steps.Err(), context.Canceled)
}

func TestStepResultSetState(t *testing.T) {
	c := circuit.New()
	require.NoError(t, c.Append(circuit.StrategyNew, ops.X.On(sq0), ops.X.On(sq0)))
	steps, err := New(unsharded()).MomentSteps(context.Background(), c, RunConfig{})
	require.NoError(t, err)

	require.True(t, steps.Next())
	require.NoError(t, steps.Step().SetState([]complex128{1, 0}))
	require.True(t, steps.Next())
	assertState(t, steps.Step().State(), []complex128{0, 1})
	require.NoError(t, steps.Err())
}

func TestCompositeGatesDecomposeDuringRun(t *testing.T) {
	c := circuit.FromOps(ops.On(hczh{}, sq0, sq1))
	tr, err := New(unsharded()).Run(context.Background(), c, RunConfig{InitialBasis: 2})
	require.NoError(t, err)
	// The composite is a CNOT built from H and CZ, so |10> becomes |11>.
	assertState(t, tr.FinalStates[0], []complex128{0, 0, 0, 1})
}

type hczh struct{}

func (hczh) NumQubits() int { return 2 }
func (hczh) String() string { return "HCZH" }

func (hczh) Decompose(qubits []ops.Qubit) []ops.Operation {
	return []ops.Operation{
		ops.H.On(qubits[1]),
		ops.CZ.On(qubits[0], qubits[1]),
		ops.H.On(qubits[1]),
	}
}

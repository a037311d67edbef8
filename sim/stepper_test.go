package sim

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/LiberoAphpollo/VQC-Cirq/ops"
)

const ampTol = 1e-9

func unsharded() Options { return Options{NumShards: 1, MinQubitsBeforeShard: 0} }

func statesClose(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > ampTol {
			return false
		}
	}
	return true
}

func mustMatrix(t *testing.T, g interface {
	Matrix() (*ops.Matrix, bool)
}) *ops.Matrix {
	t.Helper()
	m, ok := g.Matrix()
	if !ok {
		t.Fatal("gate has no matrix")
	}
	return m
}

func TestNewStepperStartsAtZero(t *testing.T) {
	s := NewStepper(2, 0, unsharded())
	if got := s.State(); !statesClose(got, []complex128{1, 0, 0, 0}) {
		t.Errorf("initial state = %v", got)
	}
}

func TestApplyMatrixFlipsTargetBit(t *testing.T) {
	x := mustMatrix(t, ops.X)

	s := NewStepper(2, 0, unsharded())
	s.ApplyMatrix(x, []int{0})
	if got := s.State(); !statesClose(got, []complex128{0, 1, 0, 0}) {
		t.Errorf("X on bit 0: state = %v", got)
	}

	s = NewStepper(2, 0, unsharded())
	s.ApplyMatrix(x, []int{1})
	if got := s.State(); !statesClose(got, []complex128{0, 0, 1, 0}) {
		t.Errorf("X on bit 1: state = %v", got)
	}
}

func TestApplyMatrixHadamard(t *testing.T) {
	s := NewStepper(1, 0, unsharded())
	s.ApplyMatrix(mustMatrix(t, ops.H), []int{0})
	r := complex(1/math.Sqrt2, 0)
	if got := s.State(); !statesClose(got, []complex128{r, r}) {
		t.Errorf("state = %v", got)
	}
}

func TestApplyMatrixTwoQubitOrdering(t *testing.T) {
	// CNOT with bits[0] as control: |10> must become |11>.
	cnot := mustMatrix(t, ops.CNOT)
	s := NewStepper(2, 0, unsharded())
	if err := s.ResetToBasis(2); err != nil {
		t.Fatal(err)
	}
	s.ApplyMatrix(cnot, []int{1, 0})
	if got := s.State(); !statesClose(got, []complex128{0, 0, 0, 1}) {
		t.Errorf("state = %v", got)
	}
}

func TestShardedMatchesUnsharded(t *testing.T) {
	const n = 4
	plain := NewStepper(n, 0, unsharded())
	forced := NewStepper(n, 0, Options{NumShards: 4, MinQubitsBeforeShard: 0})
	if forced.NumShards() != 4 {
		t.Fatalf("NumShards() = %d, want 4", forced.NumShards())
	}

	h := mustMatrix(t, ops.H)
	cz := mustMatrix(t, ops.CZ)
	x05 := mustMatrix(t, ops.XPow(0.5))
	for _, s := range []*Stepper{plain, forced} {
		for b := 0; b < n; b++ {
			s.ApplyMatrix(h, []int{b})
		}
		s.ApplyMatrix(cz, []int{3, 1})
		s.ApplyMatrix(x05, []int{2})
		s.ApplyMatrix(cz, []int{0, 3})
	}
	if !statesClose(plain.State(), forced.State()) {
		t.Errorf("sharded evolution diverged:\n plain  %v\n forced %v", plain.State(), forced.State())
	}
}

func TestSetStateValidation(t *testing.T) {
	s := NewStepper(2, 0, unsharded())
	if err := s.SetState([]complex128{1, 0}); !errors.Is(err, ErrStateSize) {
		t.Errorf("short vector: err = %v", err)
	}
	if err := s.SetState([]complex128{1, 1, 0, 0}); !errors.Is(err, ErrStateNorm) {
		t.Errorf("unnormalized vector: err = %v", err)
	}
	if err := s.SetState([]complex128{0, 0, 1, 0}); err != nil {
		t.Errorf("valid vector: err = %v", err)
	}
}

func TestResetToBasisRange(t *testing.T) {
	s := NewStepper(2, 0, unsharded())
	if err := s.ResetToBasis(4); !errors.Is(err, ErrBasisState) {
		t.Errorf("err = %v", err)
	}
	if err := s.ResetToBasis(-1); !errors.Is(err, ErrBasisState) {
		t.Errorf("err = %v", err)
	}
}

func TestMeasurementOnBasisStates(t *testing.T) {
	s := NewStepper(1, 0, unsharded())
	if s.SimulateMeasurement(0) {
		t.Error("|0> measured as 1")
	}
	if err := s.SetState([]complex128{0, 1}); err != nil {
		t.Fatal(err)
	}
	if !s.SimulateMeasurement(0) {
		t.Error("|1> measured as 0")
	}
	if got := s.State(); !statesClose(got, []complex128{0, 1}) {
		t.Errorf("state after measuring |1>: %v", got)
	}
}

func TestMeasurementCollapses(t *testing.T) {
	s := NewStepper(1, 7, unsharded())
	s.ApplyMatrix(mustMatrix(t, ops.H), []int{0})
	outcome := s.SimulateMeasurement(0)
	got := s.State()
	kept, dropped := got[0], got[1]
	if outcome {
		kept, dropped = got[1], got[0]
	}
	if cmplx.Abs(dropped) > ampTol {
		t.Errorf("unmeasured branch survived: %v", got)
	}
	if math.Abs(cmplx.Abs(kept)-1) > ampTol {
		t.Errorf("collapsed state not renormalized: %v", got)
	}
}

func TestNonPowerOfTwoShardsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("no panic")
		}
	}()
	NewStepper(2, 0, Options{NumShards: 3})
}

package ops

import (
	"fmt"
	"math"

	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// Period detection snaps eigenvalue-derived periods onto rationals with
// this denominator and rejects the fit when the reconstruction error
// exceeds the tolerance. Both values are empirical knobs, not invariants.
const (
	PeriodApproxDenominator = 60
	PeriodRejectTolerance   = 1e-8
)

// EigenComponent is one eigenspace of a gate's matrix: the angle θ in
// λ = exp(iπθ) plus the projector onto the eigenspace. A gate's projectors
// must sum to the identity and be pairwise orthogonal; this is assumed,
// not enforced.
type EigenComponent struct {
	HalfTurns float64
	Projector *Matrix
}

// eigenKind is the shared immutable descriptor behind a family of
// EigenGate values (all powers of X share one kind, and so on).
type eigenKind struct {
	name            string
	wireSymbols     []string
	arity           int
	components      []EigenComponent
	interchangeable bool
}

// EigenGate is a gate characterized by its eigendecomposition: its matrix
// is Σ projector·exp(iπ·(θ+shift)·exponent). The exponent may be symbolic,
// in which case no matrix is available until parameters resolve.
//
// EigenGate is a comparable value; == is identity on the raw exponent,
// while EqualGate canonicalizes the exponent modulo the gate's detected
// period first.
type EigenGate struct {
	kind        *eigenKind
	exponent    param.Value
	globalShift float64
}

func (g EigenGate) NumQubits() int        { return g.kind.arity }
func (g EigenGate) Exponent() param.Value { return g.exponent }
func (g EigenGate) GlobalShift() float64  { return g.globalShift }
func (g EigenGate) IsParameterized() bool { return g.exponent.IsSymbolic() }
func (g EigenGate) Name() string          { return g.kind.name }

func (g EigenGate) String() string {
	if f, ok := g.exponent.Float(); ok && f == 1 {
		return g.kind.name
	}
	return fmt.Sprintf("%s**%s", g.kind.name, g.exponent)
}

// On binds the gate to qubits.
func (g EigenGate) On(qubits ...Qubit) Operation {
	return On(g, qubits...)
}

// WithExponent returns the same kind of gate with a different exponent.
func (g EigenGate) WithExponent(exponent param.Value) EigenGate {
	return EigenGate{kind: g.kind, exponent: exponent, globalShift: g.globalShift}
}

// Pow multiplies the gate's exponent by the given factor. A symbolic
// current exponent scales by a literal factor (and vice versa); two
// symbolic factors are not expressible and report ok=false.
func (g EigenGate) Pow(exponent param.Value) (Gate, bool) {
	cur := g.exponent
	switch {
	case !cur.IsSymbolic() && !exponent.IsSymbolic():
		a, _ := cur.Float()
		b, _ := exponent.Float()
		return g.WithExponent(param.Lit(a * b)), true
	case cur.IsSymbolic() && !exponent.IsSymbolic():
		f, _ := exponent.Float()
		return g.WithExponent(cur.Scale(f)), true
	case !cur.IsSymbolic() && exponent.IsSymbolic():
		f, _ := cur.Float()
		return g.WithExponent(exponent.Scale(f)), true
	}
	return nil, false
}

// IsSelfInverse reports whether the gate equals its own inverse, which
// for a literal exponent means it matches itself raised to -1.
func (g EigenGate) IsSelfInverse() bool {
	inv, ok := g.Pow(param.Lit(-1))
	if !ok {
		return false
	}
	return GatesEqual(g, inv)
}

// Matrix returns ok=false while the exponent is symbolic.
func (g EigenGate) Matrix() (*Matrix, bool) {
	e, ok := g.exponent.Float()
	if !ok {
		return nil, false
	}
	out := NewMatrix(g.kind.components[0].Projector.Dim)
	for _, c := range g.kind.components {
		out.AddScaled(expITheta((c.HalfTurns+g.globalShift)*e), c.Projector)
	}
	return out, true
}

// ResolveParameters substitutes the exponent's symbol, if any.
func (g EigenGate) ResolveParameters(r *param.Resolver) (Gate, error) {
	if !g.IsParameterized() {
		return g, nil
	}
	f, err := r.Value(g.exponent)
	if err != nil {
		return nil, err
	}
	return g.WithExponent(param.Lit(f)), nil
}

// period returns the exponent's canonicalization period, or ok=false when
// no rational period was detected.
func (g EigenGate) period() (float64, bool) {
	var periods []float64
	for _, c := range g.kind.components {
		theta := c.HalfTurns + g.globalShift
		if theta != 0 {
			periods = append(periods, math.Abs(2/theta))
		}
	}
	return approximateCommonPeriod(periods)
}

// CanonicalExponent reduces the exponent modulo the gate's period.
// Symbolic exponents are never reduced.
func (g EigenGate) CanonicalExponent() param.Value {
	e, ok := g.exponent.Float()
	if !ok {
		return g.exponent
	}
	p, ok := g.period()
	if !ok || p == 0 {
		return g.exponent
	}
	r := math.Mod(e, p)
	if r < 0 {
		r += p
	}
	return param.Lit(r)
}

// EqualGate compares (kind, canonical exponent, global shift).
func (g EigenGate) EqualGate(other Gate) bool {
	o, ok := other.(EigenGate)
	if !ok {
		return false
	}
	return g.kind == o.kind &&
		g.globalShift == o.globalShift &&
		g.CanonicalExponent() == o.CanonicalExponent()
}

// QubitEquivalenceGroupKey marks symmetric two-qubit kinds (CZ, SWAP) as
// interchangeable.
func (g EigenGate) QubitEquivalenceGroupKey(index int) int {
	if g.kind.interchangeable {
		return 0
	}
	return index
}

// DiagramInfo labels each wire with the kind's symbols and reports the
// exponent so the drawer can annotate the last wire.
func (g EigenGate) DiagramInfo(args DiagramArgs) DiagramInfo {
	symbols := make([]string, len(g.kind.wireSymbols))
	copy(symbols, g.kind.wireSymbols)
	return DiagramInfo{WireSymbols: symbols, Exponent: g.exponent}
}

// approximateCommonPeriod finds the smallest positive value that is nearly
// an integer multiple of every given period, by rounding each period to a
// rational n/PeriodApproxDenominator and taking the least common multiple.
// It reports ok=false for an empty list, a zero period, or when the
// reconstruction misses any period by more than PeriodRejectTolerance —
// which is the desired outcome for incommensurate periods like e and π.
func approximateCommonPeriod(periods []float64) (float64, bool) {
	if len(periods) == 0 {
		return 0, false
	}
	nums := make([]int64, len(periods))
	for i, p := range periods {
		if p == 0 {
			return 0, false
		}
		n := int64(math.Round(p * PeriodApproxDenominator))
		if n == 0 {
			return 0, false
		}
		nums[i] = n
	}
	common := float64(lcm64(nums)) / PeriodApproxDenominator

	for _, p := range periods {
		if math.Abs(p*math.Round(common/p)-common) > PeriodRejectTolerance {
			return 0, false
		}
	}
	return common, true
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm64(vals []int64) int64 {
	var t int64 = 1
	for _, v := range vals {
		t = t / gcd64(t, v) * v
	}
	return t
}

package ops

import (
	"fmt"
	"math"

	"github.com/LiberoAphpollo/VQC-Cirq/param"
)

// Eigencomponents for the common gate set. Angles are in half turns; the
// projectors of each kind sum to the identity.
var (
	xKind = &eigenKind{
		name:        "X",
		wireSymbols: []string{"X"},
		arity:       1,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{0.5, 0.5},
				[]complex128{0.5, 0.5})},
			{1, MatrixFromRows(
				[]complex128{0.5, -0.5},
				[]complex128{-0.5, 0.5})},
		},
	}

	yKind = &eigenKind{
		name:        "Y",
		wireSymbols: []string{"Y"},
		arity:       1,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{0.5, -0.5i},
				[]complex128{0.5i, 0.5})},
			{1, MatrixFromRows(
				[]complex128{0.5, 0.5i},
				[]complex128{-0.5i, 0.5})},
		},
	}

	zKind = &eigenKind{
		name:        "Z",
		wireSymbols: []string{"Z"},
		arity:       1,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{1, 0},
				[]complex128{0, 0})},
			{1, MatrixFromRows(
				[]complex128{0, 0},
				[]complex128{0, 1})},
		},
	}

	hKind = &eigenKind{
		name:        "H",
		wireSymbols: []string{"H"},
		arity:       1,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{complex(0.5+0.5/math.Sqrt2, 0), complex(0.5/math.Sqrt2, 0)},
				[]complex128{complex(0.5/math.Sqrt2, 0), complex(0.5-0.5/math.Sqrt2, 0)})},
			{1, MatrixFromRows(
				[]complex128{complex(0.5-0.5/math.Sqrt2, 0), complex(-0.5/math.Sqrt2, 0)},
				[]complex128{complex(-0.5/math.Sqrt2, 0), complex(0.5+0.5/math.Sqrt2, 0)})},
		},
	}

	czKind = &eigenKind{
		name:            "CZ",
		wireSymbols:     []string{"@", "@"},
		arity:           2,
		interchangeable: true,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{1, 0, 0, 0},
				[]complex128{0, 1, 0, 0},
				[]complex128{0, 0, 1, 0},
				[]complex128{0, 0, 0, 0})},
			{1, MatrixFromRows(
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0, 0, 1})},
		},
	}

	cnotKind = &eigenKind{
		name:        "CNOT",
		wireSymbols: []string{"@", "X"},
		arity:       2,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{1, 0, 0, 0},
				[]complex128{0, 1, 0, 0},
				[]complex128{0, 0, 0.5, 0.5},
				[]complex128{0, 0, 0.5, 0.5})},
			{1, MatrixFromRows(
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0, 0.5, -0.5},
				[]complex128{0, 0, -0.5, 0.5})},
		},
	}

	swapKind = &eigenKind{
		name:            "SWAP",
		wireSymbols:     []string{"×", "×"},
		arity:           2,
		interchangeable: true,
		components: []EigenComponent{
			{0, MatrixFromRows(
				[]complex128{1, 0, 0, 0},
				[]complex128{0, 0.5, 0.5, 0},
				[]complex128{0, 0.5, 0.5, 0},
				[]complex128{0, 0, 0, 1})},
			{1, MatrixFromRows(
				[]complex128{0, 0, 0, 0},
				[]complex128{0, 0.5, -0.5, 0},
				[]complex128{0, -0.5, 0.5, 0},
				[]complex128{0, 0, 0, 0})},
		},
	}
)

// The common gates at exponent 1.
var (
	X    = EigenGate{kind: xKind, exponent: param.Lit(1)}
	Y    = EigenGate{kind: yKind, exponent: param.Lit(1)}
	Z    = EigenGate{kind: zKind, exponent: param.Lit(1)}
	H    = EigenGate{kind: hKind, exponent: param.Lit(1)}
	CZ   = EigenGate{kind: czKind, exponent: param.Lit(1)}
	CNOT = EigenGate{kind: cnotKind, exponent: param.Lit(1)}
	SWAP = EigenGate{kind: swapKind, exponent: param.Lit(1)}

	S = ZPow(0.5)
	T = ZPow(0.25)
)

// Fractional powers of the common gates.
func XPow(e float64) EigenGate    { return X.WithExponent(param.Lit(e)) }
func YPow(e float64) EigenGate    { return Y.WithExponent(param.Lit(e)) }
func ZPow(e float64) EigenGate    { return Z.WithExponent(param.Lit(e)) }
func HPow(e float64) EigenGate    { return H.WithExponent(param.Lit(e)) }
func CZPow(e float64) EigenGate   { return CZ.WithExponent(param.Lit(e)) }
func CNotPow(e float64) EigenGate { return CNOT.WithExponent(param.Lit(e)) }
func SwapPow(e float64) EigenGate { return SWAP.WithExponent(param.Lit(e)) }

// Rx, Ry and Rz are the Bloch-sphere rotations by the given angle in
// radians. They differ from XPow etc. by a global phase: the -0.5 shift
// makes Rx(π) equal -iX rather than X.
func Rx(rads float64) EigenGate {
	return EigenGate{kind: xKind, exponent: param.Lit(rads / math.Pi), globalShift: -0.5}
}

func Ry(rads float64) EigenGate {
	return EigenGate{kind: yKind, exponent: param.Lit(rads / math.Pi), globalShift: -0.5}
}

func Rz(rads float64) EigenGate {
	return EigenGate{kind: zKind, exponent: param.Lit(rads / math.Pi), globalShift: -0.5}
}

// MeasurementGate measures qubits in the computational basis, tagging the
// results with a key. InvertMask flips the designated bits before they are
// recorded.
type MeasurementGate struct {
	Key        string
	InvertMask []bool
	numQubits  int
}

// NewMeasurement returns a measurement gate over numQubits qubits.
func NewMeasurement(key string, numQubits int) *MeasurementGate {
	return &MeasurementGate{Key: key, numQubits: numQubits}
}

// WithInvertMask returns a copy that flips the masked bits when recording.
// The mask must not be longer than the gate's qubit count.
func (g *MeasurementGate) WithInvertMask(mask ...bool) *MeasurementGate {
	if len(mask) > g.numQubits {
		panic(fmt.Sprintf("invert mask of %d bits for %d qubits", len(mask), g.numQubits))
	}
	out := NewMeasurement(g.Key, g.numQubits)
	out.InvertMask = append([]bool(nil), mask...)
	return out
}

func (g *MeasurementGate) NumQubits() int { return g.numQubits }

func (g *MeasurementGate) String() string {
	return fmt.Sprintf("M(%q)", g.Key)
}

func (g *MeasurementGate) EqualGate(other Gate) bool {
	o, ok := other.(*MeasurementGate)
	if !ok {
		return false
	}
	if g.Key != o.Key || g.numQubits != o.numQubits || len(g.InvertMask) != len(o.InvertMask) {
		return false
	}
	for i, b := range g.InvertMask {
		if b != o.InvertMask[i] {
			return false
		}
	}
	return true
}

func (g *MeasurementGate) DiagramInfo(args DiagramArgs) DiagramInfo {
	symbols := make([]string, g.numQubits)
	for i := range symbols {
		symbols[i] = "M"
	}
	if g.Key != "" && len(symbols) > 0 {
		symbols[0] = fmt.Sprintf("M(%q)", g.Key)
	}
	return DiagramInfo{WireSymbols: symbols, Exponent: param.Lit(1)}
}

// Measure measures the given qubits under one key.
func Measure(key string, qubits ...Qubit) Operation {
	return On(NewMeasurement(key, len(qubits)), qubits...)
}

// IsMeasurement reports whether the operation is a measurement.
func IsMeasurement(op Operation) bool {
	_, ok := op.Gate.(*MeasurementGate)
	return ok
}

// MatrixGate wraps an explicit unitary as a gate. Produced by the
// single-qubit merge pass, and handy for ad hoc unitaries in tests.
type MatrixGate struct {
	mat *Matrix
}

// NewMatrixGate clones the matrix so later mutation cannot leak in.
func NewMatrixGate(m *Matrix) MatrixGate {
	return MatrixGate{mat: m.Clone()}
}

func (g MatrixGate) NumQubits() int { return g.mat.NumQubits() }

func (g MatrixGate) Matrix() (*Matrix, bool) { return g.mat, true }

func (g MatrixGate) String() string { return "U" }

func (g MatrixGate) On(qubits ...Qubit) Operation { return On(g, qubits...) }

func (g MatrixGate) EqualGate(other Gate) bool {
	o, ok := other.(MatrixGate)
	if !ok {
		return false
	}
	return g.mat.ApproxEqual(o.mat, 0)
}

func (g MatrixGate) DiagramInfo(args DiagramArgs) DiagramInfo {
	symbols := make([]string, g.NumQubits())
	for i := range symbols {
		symbols[i] = fmt.Sprintf("U:%d", i)
	}
	if len(symbols) == 1 {
		symbols[0] = "U"
	}
	return DiagramInfo{WireSymbols: symbols, Exponent: param.Lit(1)}
}

// AsZPow reports whether g is a power of Z with no global shift, returning
// its exponent.
func AsZPow(g Gate) (param.Value, bool) {
	eg, ok := g.(EigenGate)
	if !ok || eg.kind != zKind || eg.globalShift != 0 {
		return param.Value{}, false
	}
	return eg.exponent, true
}

// IsCZPow reports whether g is a power of CZ.
func IsCZPow(g Gate) bool {
	eg, ok := g.(EigenGate)
	return ok && eg.kind == czKind
}

// GatesEqual compares two gates, preferring a gate's own equality method
// (which canonicalizes exponents) over plain identity.
func GatesEqual(a, b Gate) bool {
	type equaler interface{ EqualGate(Gate) bool }
	if e, ok := a.(equaler); ok {
		return e.EqualGate(b)
	}
	if e, ok := b.(equaler); ok {
		return e.EqualGate(a)
	}
	return a == b
}

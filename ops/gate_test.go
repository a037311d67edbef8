package ops

import (
	"errors"
	"testing"
)

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s did not panic", name)
		}
	}()
	f()
}

func TestOnValidation(t *testing.T) {
	a, b := LineQubit(0), LineQubit(1)
	expectPanic(t, "arity mismatch", func() { On(CZ, a) })
	expectPanic(t, "duplicate qubit", func() { On(CZ, a, a) })

	op := On(CZ, a, b)
	if len(op.Qubits) != 2 || op.Qubits[0] != a || op.Qubits[1] != b {
		t.Fatalf("qubits = %v", op.Qubits)
	}
}

func TestOnCopiesQubits(t *testing.T) {
	qs := []Qubit{LineQubit(0), LineQubit(1)}
	op := On(CZ, qs...)
	qs[0] = LineQubit(9)
	if op.Qubits[0] != LineQubit(0) {
		t.Fatal("operation aliases the caller's qubit slice")
	}
}

func TestWithQubits(t *testing.T) {
	op := X.On(LineQubit(0)).WithQubits(LineQubit(5))
	if op.Qubits[0] != LineQubit(5) {
		t.Fatalf("qubits = %v", op.Qubits)
	}
	if !GatesEqual(op.Gate, X) {
		t.Fatalf("gate changed: %v", op.Gate)
	}
}

func TestTouchesAny(t *testing.T) {
	op := CZ.On(LineQubit(0), LineQubit(2))
	if !op.TouchesAny([]Qubit{LineQubit(2)}) {
		t.Fatal("missed its own qubit")
	}
	if op.TouchesAny([]Qubit{LineQubit(1), LineQubit(3)}) {
		t.Fatal("touched an unrelated qubit")
	}
}

func TestOperationEqualCanonicalizesExponents(t *testing.T) {
	q := LineQubit(0)
	if !ZPow(2.5).On(q).Equal(S.On(q)) {
		t.Fatal("Z^2.5 and S on the same qubit should be equal")
	}
	if ZPow(2.5).On(q).Equal(S.On(LineQubit(1))) {
		t.Fatal("different qubits reported equal")
	}
}

func TestMeasurementOperationEquality(t *testing.T) {
	q := LineQubit(0)
	if !Measure("out", q).Equal(Measure("out", q)) {
		t.Fatal("identical measurements not equal")
	}
	if Measure("out", q).Equal(Measure("other", q)) {
		t.Fatal("different keys reported equal")
	}
}

func TestFlattenTree(t *testing.T) {
	a, b := LineQubit(0), LineQubit(1)
	tree := []any{
		X.On(a),
		[]Operation{Y.On(b), Z.On(a)},
		[]any{H.On(b)},
	}
	flat, err := FlattenTree(tree)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	want := []Operation{X.On(a), Y.On(b), Z.On(a), H.On(b)}
	if len(flat) != len(want) {
		t.Fatalf("got %d operations, want %d", len(flat), len(want))
	}
	for i := range want {
		if !flat[i].Equal(want[i]) {
			t.Errorf("position %d: got %v, want %v", i, flat[i], want[i])
		}
	}
}

func TestFlattenTreeRejectsForeignValues(t *testing.T) {
	_, err := FlattenTree([]any{X.On(LineQubit(0)), 42})
	if !errors.Is(err, ErrNotOpTree) {
		t.Fatalf("err = %v, want ErrNotOpTree", err)
	}
}

func TestMeasurementGate(t *testing.T) {
	g := NewMeasurement("out", 2).WithInvertMask(true)
	if g.NumQubits() != 2 {
		t.Fatalf("NumQubits = %d", g.NumQubits())
	}
	if len(g.InvertMask) != 1 || !g.InvertMask[0] {
		t.Fatalf("InvertMask = %v", g.InvertMask)
	}
	expectPanic(t, "oversized invert mask", func() {
		NewMeasurement("out", 1).WithInvertMask(true, false)
	})

	op := Measure("out", LineQubit(0), LineQubit(1))
	if !IsMeasurement(op) {
		t.Fatal("Measure not recognized as measurement")
	}
	if IsMeasurement(X.On(LineQubit(0))) {
		t.Fatal("X recognized as measurement")
	}
}

func TestMeasurementDiagramInfo(t *testing.T) {
	info := NewMeasurement("out", 2).DiagramInfo(DiagramArgs{})
	if info.WireSymbols[0] != `M("out")` || info.WireSymbols[1] != "M" {
		t.Fatalf("wire symbols = %v", info.WireSymbols)
	}
}

func TestMatrixGate(t *testing.T) {
	m := MatrixFromRows(
		[]complex128{0, 1},
		[]complex128{1, 0},
	)
	g := NewMatrixGate(m)
	if g.NumQubits() != 1 {
		t.Fatalf("NumQubits = %d", g.NumQubits())
	}
	got, ok := g.Matrix()
	if !ok || !got.ApproxEqual(m, 0) {
		t.Fatal("matrix does not round-trip")
	}

	m.Set(0, 0, 9)
	if got, _ := g.Matrix(); got.At(0, 0) == 9 {
		t.Fatal("gate aliases the caller's matrix")
	}

	if !GatesEqual(NewMatrixGate(Identity(2)), NewMatrixGate(Identity(2))) {
		t.Fatal("equal matrix gates not equal")
	}
}

func TestAsZPow(t *testing.T) {
	if e, ok := AsZPow(ZPow(0.5)); !ok {
		t.Fatal("Z^0.5 not recognized")
	} else if f, _ := e.Float(); f != 0.5 {
		t.Fatalf("exponent = %v", e)
	}
	if _, ok := AsZPow(X); ok {
		t.Fatal("X recognized as Z power")
	}
	if _, ok := AsZPow(Rz(1)); ok {
		t.Fatal("shifted rotation recognized as plain Z power")
	}
}

package param

import (
	"errors"
	"math"
	"testing"
)

func TestLiteralValue(t *testing.T) {
	v := Lit(0.5)
	if v.IsSymbolic() {
		t.Fatal("literal reported as symbolic")
	}
	f, ok := v.Float()
	if !ok || f != 0.5 {
		t.Fatalf("Float() = %v, %v; want 0.5, true", f, ok)
	}
}

func TestSymbolicComposition(t *testing.T) {
	v := Sym("t").Scale(2).Add(0.25)
	if !v.IsSymbolic() {
		t.Fatal("symbolic value lost its key")
	}
	r := NewResolver(map[string]float64{"t": 0.5})
	f, err := r.Value(v)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if f != 1.25 {
		t.Fatalf("2*t+0.25 at t=0.5 = %v, want 1.25", f)
	}
}

func TestScaleByZeroCollapses(t *testing.T) {
	v := Sym("t").Scale(0)
	if v.IsSymbolic() {
		t.Fatal("t*0 should be the literal 0")
	}
	if f, _ := v.Float(); f != 0 {
		t.Fatalf("t*0 = %v, want 0", f)
	}
}

func TestResolveUnknownKey(t *testing.T) {
	r := NewResolver(map[string]float64{"s": 1})
	_, err := r.Value(Sym("t"))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("err = %v, want ErrUnresolved", err)
	}
	_, err = NewResolver(nil).Value(Sym("t"))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("nil assignments err = %v, want ErrUnresolved", err)
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Lit(0.5), "0.5"},
		{Lit(-1), "-1"},
		{Sym("t"), "t"},
		{Sym("t").Scale(2), "2*t"},
		{Sym("t").Add(0.5), "t+0.5"},
		{Sym("t").Scale(-1).Add(1), "-1*t+1"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestPointsSweep(t *testing.T) {
	rs := Points{Key: "t", Values: []float64{0, 0.5, 1}}.Resolvers()
	if len(rs) != 3 {
		t.Fatalf("got %d resolvers, want 3", len(rs))
	}
	for i, want := range []float64{0, 0.5, 1} {
		if got := rs[i].Assignments["t"]; got != want {
			t.Errorf("resolver %d: t = %v, want %v", i, got, want)
		}
	}
}

func TestLinspaceSweep(t *testing.T) {
	rs := Linspace{Key: "t", Start: 0, Stop: 1, N: 5}.Resolvers()
	if len(rs) != 5 {
		t.Fatalf("got %d resolvers, want 5", len(rs))
	}
	if rs[0].Assignments["t"] != 0 || rs[4].Assignments["t"] != 1 {
		t.Fatalf("endpoints = %v, %v; want 0, 1", rs[0].Assignments["t"], rs[4].Assignments["t"])
	}
	if math.Abs(rs[2].Assignments["t"]-0.5) > 1e-12 {
		t.Fatalf("midpoint = %v, want 0.5", rs[2].Assignments["t"])
	}
}

func TestZipSweep(t *testing.T) {
	z := Zip{
		Points{Key: "a", Values: []float64{1, 2, 3}},
		Points{Key: "b", Values: []float64{10, 20}},
	}
	rs := z.Resolvers()
	if len(rs) != 2 {
		t.Fatalf("got %d resolvers, want 2 (bounded by shortest)", len(rs))
	}
	if rs[1].Assignments["a"] != 2 || rs[1].Assignments["b"] != 20 {
		t.Fatalf("second resolver = %v", rs[1].Assignments)
	}
}

func TestUnitSweep(t *testing.T) {
	rs := Unit{}.Resolvers()
	if len(rs) != 1 {
		t.Fatalf("got %d resolvers, want 1", len(rs))
	}
	if f, err := rs[0].Value(Lit(0.25)); err != nil || f != 0.25 {
		t.Fatalf("unit resolver on literal = %v, %v", f, err)
	}
}

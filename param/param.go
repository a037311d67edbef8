// Package param holds symbolic parameters for gates and the machinery to
// resolve them into concrete floats at simulation time.
//
// A Value is a tagged union: either a literal float or a named parameter
// with a linear adjustment (coeff*param(key) + offset). Arithmetic on a
// symbolic Value composes symbolically; nothing turns numeric until a
// Resolver supplies an assignment for the key.
package param

import (
	"fmt"
	"strconv"
)

// Value is either Literal(float) or Named(key) with a linear adjustment.
// The zero Value is the literal 0.
type Value struct {
	// Key names the parameter. Empty means the value is the literal Offset.
	Key string
	// Coeff scales the resolved parameter. Ignored for literals.
	Coeff float64
	// Offset is added after scaling; for literals it is the whole value.
	Offset float64
}

// Lit returns the literal value v.
func Lit(v float64) Value {
	return Value{Offset: v}
}

// Sym returns the named parameter key, unscaled and unshifted.
func Sym(key string) Value {
	return Value{Key: key, Coeff: 1}
}

// IsSymbolic reports whether the value still depends on a named parameter.
func (v Value) IsSymbolic() bool {
	return v.Key != ""
}

// Float returns the numeric value if v is a literal.
func (v Value) Float() (float64, bool) {
	if v.IsSymbolic() {
		return 0, false
	}
	return v.Offset, true
}

// Add shifts the value by a constant, preserving symbolic identity.
func (v Value) Add(f float64) Value {
	v.Offset += f
	return v
}

// Scale multiplies the value by a constant, preserving symbolic identity.
// Scaling a symbolic value by zero collapses it to the literal 0.
func (v Value) Scale(f float64) Value {
	v.Coeff *= f
	v.Offset *= f
	if v.Coeff == 0 {
		v.Key = ""
	}
	return v
}

func (v Value) String() string {
	if !v.IsSymbolic() {
		return strconv.FormatFloat(v.Offset, 'g', -1, 64)
	}
	s := v.Key
	if v.Coeff != 1 {
		s = fmt.Sprintf("%g*%s", v.Coeff, v.Key)
	}
	if v.Offset != 0 {
		s = fmt.Sprintf("%s+%g", s, v.Offset)
	}
	return s
}

// Resolver assigns concrete floats to parameter names for one run.
type Resolver struct {
	Assignments map[string]float64
}

// NewResolver wraps an assignment map. A nil map resolves only literals.
func NewResolver(assignments map[string]float64) *Resolver {
	return &Resolver{Assignments: assignments}
}

// Value resolves v. Literals resolve to themselves; named parameters are
// looked up and an unknown key is an error.
func (r *Resolver) Value(v Value) (float64, error) {
	if !v.IsSymbolic() {
		return v.Offset, nil
	}
	if r == nil || r.Assignments == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnresolved, v.Key)
	}
	f, ok := r.Assignments[v.Key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnresolved, v.Key)
	}
	return v.Coeff*f + v.Offset, nil
}

func (r *Resolver) String() string {
	if r == nil || len(r.Assignments) == 0 {
		return "{}"
	}
	return fmt.Sprintf("%v", r.Assignments)
}

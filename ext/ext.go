// Package ext provides a registry for treating values as implementations
// of interfaces they do not directly satisfy, by way of registered wrapper
// functions.
package ext

import (
	"fmt"
	"reflect"
)

// Extensions maps (desired interface, concrete type) pairs to caster
// functions that wrap a value of the concrete type into something
// satisfying the desired interface.
type Extensions struct {
	casts map[reflect.Type]map[reflect.Type]func(any) any
}

// New returns an empty registry.
func New() *Extensions {
	return &Extensions{casts: make(map[reflect.Type]map[reflect.Type]func(any) any)}
}

// desiredType resolves the reflect.Type of an interface type parameter.
func desiredType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Add registers a caster wrapping values of type A into T. Registering a
// second caster for the same pair replaces the first.
func Add[T, A any](e *Extensions, caster func(A) T) {
	desired := desiredType[T]()
	actual := reflect.TypeOf((*A)(nil)).Elem()
	if e.casts[desired] == nil {
		e.casts[desired] = make(map[reflect.Type]func(any) any)
	}
	e.casts[desired][actual] = func(v any) any { return caster(v.(A)) }
}

// TryCast attempts to view value as a T. A value already satisfying T is
// returned as is; otherwise a registered caster for value's concrete type
// is applied. The registry may be nil, in which case only the direct
// type assertion is tried.
func TryCast[T any](e *Extensions, value any) (T, bool) {
	if direct, ok := value.(T); ok {
		return direct, true
	}
	var zero T
	if e == nil {
		return zero, false
	}
	byActual := e.casts[desiredType[T]()]
	if byActual == nil {
		return zero, false
	}
	caster, ok := byActual[reflect.TypeOf(value)]
	if !ok {
		return zero, false
	}
	return caster(value).(T), true
}

// Cast is TryCast with a mandatory result.
func Cast[T any](e *Extensions, value any) (T, error) {
	out, ok := TryCast[T](e, value)
	if !ok {
		return out, fmt.Errorf("%w: %T as %v", ErrNoCast, value, desiredType[T]())
	}
	return out, nil
}

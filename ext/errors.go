package ext

import "errors"

// ErrNoCast is reported when a value neither satisfies the desired
// interface nor has a registered caster.
var ErrNoCast = errors.New("ext: no cast available")

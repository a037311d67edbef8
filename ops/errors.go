package ops

import "errors"

// ErrNotOpTree is returned when flattening hits a value that is neither an
// operation nor a nesting of operations.
var ErrNotOpTree = errors.New("ops: not an operation tree")

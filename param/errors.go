package param

import "errors"

// ErrUnresolved is returned when a named parameter has no assignment in the
// resolver being applied.
var ErrUnresolved = errors.New("param: unresolved parameter")

package result

import "errors"

// ErrMalformed flags packed data whose shape disagrees with its declared
// instance count.
var ErrMalformed = errors.New("result: malformed packed data")

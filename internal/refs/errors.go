package refs

import "errors"

// ErrBadIndicator means a string does not parse as name/arity or
// name//arity notation.
var ErrBadIndicator = errors.New("malformed indicator")

package edit

import "errors"

// ErrUnknownOperation means a structural refactoring kind is not one the
// planner implements.
var ErrUnknownOperation = errors.New("unknown refactoring operation")

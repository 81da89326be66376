package boundary

import "errors"

var (
	// ErrLineOutOfRange means the requested line does not exist in the
	// document snapshot.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrNotADirective means the enclosing construct is a clause, not a
	// directive.
	ErrNotADirective = errors.New("not a directive")
)

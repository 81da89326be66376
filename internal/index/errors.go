package index

import "errors"

var (
	// ErrNotFound means no record matches the query.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransaction wraps transaction begin/commit failures.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

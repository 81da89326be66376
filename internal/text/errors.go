package text

import "errors"

var (
	// ErrStaleDocument means the document changed between planning and
	// applying an edit set.
	ErrStaleDocument = errors.New("document revision changed")

	// ErrOverlappingEdits means two planned edits target intersecting
	// ranges with different replacements.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

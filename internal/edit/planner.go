// Package edit composes located references into atomic multi-range edit
// sets for rename and structural refactorings. A plan is computed against
// one document snapshot; if the precondition of an operation does not
// hold, the planner returns a typed not-applicable outcome instead of a
// best-effort edit.
package edit

import (
	"fmt"

	"lgtls/internal/cache"
	"lgtls/internal/text"
)

// Outcome is the result of planning: either a ready-to-apply edit set or
// a reason the operation is not applicable to this document.
type Outcome struct {
	Set    *text.EditSet
	Reason string
}

// Applicable reports whether the plan produced edits.
func (o Outcome) Applicable() bool { return o.Set != nil }

func notApplicable(format string, args ...any) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// Planner plans edits over documents, sharing the caller-owned derived
// result cache.
type Planner struct {
	cache *cache.Store
}

func NewPlanner(c *cache.Store) *Planner {
	return &Planner{cache: c}
}

package text

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces the text covered by Range with NewText. Anchor holds the
// text the range is expected to cover at apply time; a mismatch means the
// document moved under us and the whole set must be rejected.
type Edit struct {
	Range   Range
	NewText string
	Anchor  string
}

// EditSet is an atomic group of edits computed against one document
// snapshot. Either every edit applies or none does.
type EditSet struct {
	URI      string
	Revision int64
	Edits    []Edit
}

// NewEditSet validates and normalizes a group of edits for doc. Overlapping
// duplicates (identical range and replacement) are dropped; any other
// overlap is rejected.
func NewEditSet(doc *Document, edits []Edit) (*EditSet, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Range.Start != sorted[j].Range.Start {
			return sorted[i].Range.Start.Before(sorted[j].Range.Start)
		}
		return sorted[i].Range.End.Before(sorted[j].Range.End)
	})

	out := sorted[:0]
	for _, e := range sorted {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Range.Overlaps(e.Range) {
				if prev.Range == e.Range && prev.NewText == e.NewText {
					continue
				}
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, prev.Range, e.Range)
			}
		}
		out = append(out, e)
	}

	return &EditSet{URI: doc.URI(), Revision: doc.Revision(), Edits: out}, nil
}

// Apply produces the edited content of doc. It fails if doc is a different
// snapshot than the one the set was computed for, or if any anchor no
// longer matches.
func (s *EditSet) Apply(doc *Document) (string, error) {
	if doc.URI() != s.URI || doc.Revision() != s.Revision {
		return "", fmt.Errorf("%w: have revision %d, want %d", ErrStaleDocument, doc.Revision(), s.Revision)
	}
	for _, e := range s.Edits {
		if e.Anchor != "" && doc.Slice(e.Range) != e.Anchor {
			return "", fmt.Errorf("%w: expected %q at %s", ErrStaleDocument, e.Anchor, e.Range)
		}
	}

	// Apply back to front so earlier ranges stay valid.
	lines := make([]string, doc.LineCount())
	for i := range lines {
		lines[i] = doc.Line(i)
	}
	for i := len(s.Edits) - 1; i >= 0; i-- {
		lines = applyOne(lines, s.Edits[i])
	}
	return strings.Join(lines, "\n"), nil
}

func applyOne(lines []string, e Edit) []string {
	start, end := e.Range.Start, e.Range.End
	head := sliceLine(lines[start.Line], 0, start.Column)
	tail := sliceLine(lines[end.Line], end.Column, len(lines[end.Line]))
	replaced := strings.Split(head+e.NewText+tail, "\n")

	out := make([]string, 0, len(lines)-(end.Line-start.Line+1)+len(replaced))
	out = append(out, lines[:start.Line]...)
	out = append(out, replaced...)
	out = append(out, lines[end.Line+1:]...)
	return out
}

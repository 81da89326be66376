package text

import "fmt"

// Position is a zero-based (line, column) pair. Columns count code units
// within the line, matching what the LSP layer sends and receives.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p sorts strictly before q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open [Start, End) span. Start never sorts after End.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a single-line range.
func NewRange(line, fromCol, toCol int) Range {
	return Range{
		Start: Position{Line: line, Column: fromCol},
		End:   Position{Line: line, Column: toCol},
	}
}

// Contains reports whether p falls inside the half-open span.
func (r Range) Contains(p Position) bool {
	if p.Before(r.Start) {
		return false
	}
	return p.Before(r.End)
}

// Overlaps reports whether the two half-open spans share any position.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

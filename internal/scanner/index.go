package scanner

import (
	"context"

	"lgtls/internal/text"
)

// Index holds the classification of every line of one document snapshot.
// It is the shared substrate for boundary location and reference search,
// and is what the revision cache stores.
type Index struct {
	uri      string
	revision int64
	lines    []LineScan
}

// NewIndex classifies the whole document. The context is checked at each
// line boundary so scans over large files can be abandoned promptly.
func NewIndex(ctx context.Context, doc *text.Document) (*Index, error) {
	idx := &Index{
		uri:      doc.URI(),
		revision: doc.Revision(),
		lines:    make([]LineScan, doc.LineCount()),
	}
	cur := StartCursor()
	for i := 0; i < doc.LineCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx.lines[i] = ScanLine(cur, doc.Line(i))
		cur = idx.lines[i].End
	}
	return idx, nil
}

func (x *Index) URI() string     { return x.uri }
func (x *Index) Revision() int64 { return x.revision }

// Line returns the scan of the given line. Out-of-range lines report an
// empty all-Code scan, matching how Document treats missing lines.
func (x *Index) Line(n int) LineScan {
	if n < 0 || n >= len(x.lines) {
		return LineScan{Start: StartCursor(), End: StartCursor()}
	}
	return x.lines[n]
}

func (x *Index) LineCount() int { return len(x.lines) }

// Malformed returns the lines that ended inside an unterminated quoted
// literal, in order.
func (x *Index) Malformed() []int {
	var out []int
	for i, l := range x.lines {
		if l.Malformed {
			out = append(out, i)
		}
	}
	return out
}

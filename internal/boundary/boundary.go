// Package boundary locates the line span of the clause or directive
// containing a given line, using the scanner's per-line classification.
// Entity opening and closing directives are hard walls that no span may
// cross, which bounds runaway scans over unbalanced input.
package boundary

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

var (
	entityOpenRe  = regexp.MustCompile(`^(\s*):-\s*(object|protocol|category)\s*\(`)
	entityCloseRe = regexp.MustCompile(`^(\s*):-\s*(end_object|end_protocol|end_category)\s*\.`)
	directiveRe   = regexp.MustCompile(`^(\s*):-`)
)

// EntityBoundary classifies a line as an entity opening or closing
// directive head. Both are zero when the line is neither.
type EntityBoundary struct {
	Opening bool
	Closing bool
	Kind    string // object, protocol or category
}

// ClassifyEntityBoundary inspects one line. The directive prefix must be in
// Code state, so a quoted atom containing ":- end_object" never counts.
func ClassifyEntityBoundary(scan scanner.LineScan, line string) EntityBoundary {
	if m := entityOpenRe.FindStringSubmatch(line); m != nil {
		if scan.StateAt(len(m[1])) == scanner.Code {
			return EntityBoundary{Opening: true, Kind: m[2]}
		}
	}
	if m := entityCloseRe.FindStringSubmatch(line); m != nil {
		if scan.StateAt(len(m[1])) == scanner.Code {
			return EntityBoundary{Closing: true, Kind: strings.TrimPrefix(m[2], "end_")}
		}
	}
	return EntityBoundary{}
}

// IsDirectiveHead reports whether the line opens a directive: an optionally
// indented ":-" in Code state.
func IsDirectiveHead(scan scanner.LineScan, line string) bool {
	m := directiveRe.FindStringSubmatch(line)
	return m != nil && scan.StateAt(len(m[1])) == scanner.Code
}

// ClauseRange returns the full span of the clause or directive containing
// line, from the start line's first column to just past the terminating
// period. Any interior line of a multi-line construct yields the same span.
func ClauseRange(ctx context.Context, doc *text.Document, idx *scanner.Index, line int) (text.Range, error) {
	if line < 0 || line >= doc.LineCount() {
		return text.Range{}, fmt.Errorf("%w: line %d of %d", ErrLineOutOfRange, line, doc.LineCount())
	}
	start, err := findStart(ctx, doc, idx, line)
	if err != nil {
		return text.Range{}, err
	}
	return findEnd(ctx, doc, idx, start)
}

// DirectiveRange is ClauseRange restricted to directives: the located start
// line must carry a ":-" head.
func DirectiveRange(ctx context.Context, doc *text.Document, idx *scanner.Index, line int) (text.Range, error) {
	r, err := ClauseRange(ctx, doc, idx, line)
	if err != nil {
		return text.Range{}, err
	}
	head := doc.Line(r.Start.Line)
	if !IsDirectiveHead(idx.Line(r.Start.Line), head) {
		return text.Range{}, fmt.Errorf("%w: line %d", ErrNotADirective, r.Start.Line)
	}
	return r, nil
}

// findStart walks backward from line to the first line that opens a clause:
// depth zero at its start, not a continuation of the previous line.
func findStart(ctx context.Context, doc *text.Document, idx *scanner.Index, line int) (int, error) {
	for b := line; b > 0; b-- {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		scan := idx.Line(b)
		if scan.Start.Depth != 0 || scan.Start.State != scanner.Code {
			continue
		}
		prev := idx.Line(b - 1)
		prevLine := doc.Line(b - 1)
		wall := ClassifyEntityBoundary(prev, prevLine)
		if wall.Opening || wall.Closing {
			return b, nil
		}
		if EndsClause(prev, prevLine) || IsBlank(prev, prevLine) {
			return b, nil
		}
	}
	return 0, nil
}

// findEnd walks forward from the start line to the terminating period at
// depth zero, stopping early at entity walls or a negative depth, which
// signals that the enclosing construct already closed.
func findEnd(ctx context.Context, doc *text.Document, idx *scanner.Index, start int) (text.Range, error) {
	from := text.Position{Line: start, Column: 0}
	for e := start; e < doc.LineCount(); e++ {
		if err := ctx.Err(); err != nil {
			return text.Range{}, err
		}
		line := doc.Line(e)
		scan := idx.Line(e)
		if e > start {
			wall := ClassifyEntityBoundary(scan, line)
			if wall.Opening || wall.Closing {
				prev := doc.Line(e - 1)
				return text.Range{Start: from, End: text.Position{Line: e - 1, Column: len(prev)}}, nil
			}
		}
		if t := scan.TerminatorAfter(line, 0); t >= 0 {
			return text.Range{Start: from, End: text.Position{Line: e, Column: t + 1}}, nil
		}
		if scan.End.Depth < 0 {
			return text.Range{Start: from, End: text.Position{Line: e, Column: len(line)}}, nil
		}
	}
	last := doc.LineCount() - 1
	return text.Range{Start: from, End: text.Position{Line: last, Column: len(doc.Line(last))}}, nil
}

// EndsClause reports whether the line's last code content is a terminating
// period, so the next line opens a fresh clause.
func EndsClause(scan scanner.LineScan, line string) bool {
	t := scan.TerminatorAfter(line, 0)
	if t < 0 {
		return false
	}
	for t >= 0 {
		next := scan.TerminatorAfter(line, t+1)
		if next < 0 {
			break
		}
		t = next
	}
	for i := t + 1; i < len(line); i++ {
		if scan.StateAt(i) != scanner.Code {
			continue
		}
		if line[i] != ' ' && line[i] != '\t' && line[i] != '%' {
			return false
		}
		if line[i] == '%' {
			break
		}
	}
	return true
}

// IsBlank reports whether a line holds no code at all.
func IsBlank(scan scanner.LineScan, line string) bool {
	for i := 0; i < len(line); i++ {
		if scan.StateAt(i) == scanner.Code && line[i] != ' ' && line[i] != '\t' {
			// A '%' in code state opens a comment, not code.
			if line[i] == '%' {
				return true
			}
			return false
		}
	}
	return true
}

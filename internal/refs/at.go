package refs

import (
	"regexp"

	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

var atomRe = regexp.MustCompile(`[a-z][A-Za-z0-9_]*`)

// At resolves the indicator named at a position, for cursor-driven
// requests. The position must sit on a plain atom in code state; the arity
// comes from a textual /N or //N suffix when present, otherwise from the
// argument group that follows, with a bare atom counting as arity zero.
func At(doc *text.Document, idx *scanner.Index, pos text.Position) (Indicator, text.Range, bool) {
	if pos.Line < 0 || pos.Line >= doc.LineCount() {
		return Indicator{}, text.Range{}, false
	}
	line := doc.Line(pos.Line)
	scan := idx.Line(pos.Line)

	var start, end int
	found := false
	for _, m := range atomRe.FindAllStringIndex(line, -1) {
		if m[0] <= pos.Column && pos.Column <= m[1] {
			start, end = m[0], m[1]
			found = true
			break
		}
	}
	if !found || scan.StateAt(start) != scanner.Code {
		return Indicator{}, text.Range{}, false
	}
	// The head of a /N suffix names an indicator, not an atom occurrence.
	if start > 0 && line[start-1] == '/' {
		return Indicator{}, text.Range{}, false
	}

	name := line[start:end]
	rng := text.NewRange(pos.Line, start, end)
	after := text.Position{Line: pos.Line, Column: end}

	if arity, form, ok := indicatorFormAfter(doc, idx, after); ok {
		return Indicator{Name: name, Arity: arity, Form: form}, rng, true
	}

	last := doc.LineCount() - 1
	limit := text.Position{Line: last, Column: len(doc.Line(last))}
	arity, ok := callableArity(doc, idx, after, limit)
	if !ok {
		return Indicator{}, text.Range{}, false
	}
	return Indicator{Name: name, Arity: arity, Form: Predicate}, rng, true
}

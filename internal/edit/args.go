package edit

import (
	"context"
	"strings"

	"lgtls/internal/refs"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

// AddArgument plans the insertion of a placeholder argument at a 1-based
// position in every occurrence of ind, raising the arity of indicator-form
// occurrences by one.
func (p *Planner) AddArgument(ctx context.Context, doc *text.Document, ind refs.Indicator, position int, placeholder string) (Outcome, error) {
	if position < 1 || position > ind.Arity+1 {
		return notApplicable("position %d outside 1..%d", position, ind.Arity+1), nil
	}
	if strings.TrimSpace(placeholder) == "" {
		return notApplicable("empty placeholder argument"), nil
	}
	return p.planOverReferences(ctx, doc, ind, func(g *argGroup, loc refs.Located) []text.Edit {
		if g == nil {
			// Bare arity-0 occurrence grows a fresh argument list.
			at := loc.Range.End
			return []text.Edit{{
				Range:   text.Range{Start: at, End: at},
				NewText: "(" + placeholder + ")",
			}}
		}
		var at text.Position
		var newText string
		switch {
		case position == 1:
			at = afterCol(g.open)
			newText = placeholder + ", "
		case position == ind.Arity+1:
			at = g.close
			newText = ", " + placeholder
		default:
			at = afterCol(g.commas[position-2])
			newText = " " + placeholder + ","
		}
		return []text.Edit{{Range: text.Range{Start: at, End: at}, NewText: newText}}
	}, +1)
}

// RemoveArgument plans the deletion of the argument at a 1-based position
// in every occurrence of ind, lowering indicator-form arities by one.
func (p *Planner) RemoveArgument(ctx context.Context, doc *text.Document, ind refs.Indicator, position int) (Outcome, error) {
	if ind.Arity == 0 {
		return notApplicable("%s has no arguments", ind), nil
	}
	if position < 1 || position > ind.Arity {
		return notApplicable("position %d outside 1..%d", position, ind.Arity), nil
	}
	return p.planOverReferences(ctx, doc, ind, func(g *argGroup, loc refs.Located) []text.Edit {
		if g == nil {
			return nil
		}
		if ind.Arity == 1 {
			// The whole group goes away.
			rng := text.Range{Start: g.open, End: afterCol(g.close)}
			return []text.Edit{{Range: rng, NewText: "", Anchor: ""}}
		}
		var rng text.Range
		if position == 1 {
			end := afterCol(g.commas[0])
			end = g.skipSpaces(end)
			rng = text.Range{Start: afterCol(g.open), End: end}
		} else {
			end := g.close
			if position-1 < len(g.commas) {
				end = g.commas[position-1]
			}
			rng = text.Range{Start: g.commas[position-2], End: end}
		}
		return []text.Edit{{Range: rng, NewText: ""}}
	}, -1)
}

// ReorderArguments plans the permutation of every occurrence's argument
// list. Order lists the 1-based old positions in their new order.
// Indicator-form occurrences are untouched: the arity does not change.
func (p *Planner) ReorderArguments(ctx context.Context, doc *text.Document, ind refs.Indicator, order []int) (Outcome, error) {
	if !isPermutation(order, ind.Arity) {
		return notApplicable("order %v is not a permutation of 1..%d", order, ind.Arity), nil
	}
	return p.planOverReferences(ctx, doc, ind, func(g *argGroup, loc refs.Located) []text.Edit {
		if g == nil {
			return nil
		}
		args := g.argTexts(doc)
		if len(args) != ind.Arity {
			return nil
		}
		parts := make([]string, len(order))
		for i, old := range order {
			parts[i] = args[old-1]
		}
		inner := text.Range{Start: afterCol(g.open), End: g.close}
		return []text.Edit{{
			Range:   inner,
			NewText: strings.Join(parts, ", "),
			Anchor:  doc.Slice(inner),
		}}
	}, 0)
}

// planOverReferences finds every occurrence of ind and asks perCallable
// for the edits of each callable occurrence; indicator-form occurrences
// get their textual arity adjusted by delta.
func (p *Planner) planOverReferences(
	ctx context.Context,
	doc *text.Document,
	ind refs.Indicator,
	perCallable func(*argGroup, refs.Located) []text.Edit,
	delta int,
) (Outcome, error) {
	idx, err := p.cache.Index(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	located, err := refs.Find(ctx, doc, idx, ind, refs.Options{})
	if err != nil {
		return Outcome{}, err
	}
	if len(located) == 0 {
		return notApplicable("no references to %s", ind), nil
	}

	var edits []text.Edit
	for _, loc := range located {
		if digits, ok := indicatorAritySpan(doc, idx, loc.Range.End); ok {
			if delta != 0 {
				edits = append(edits, text.Edit{
					Range:   digits,
					NewText: itoa(ind.Arity + delta),
					Anchor:  doc.Slice(digits),
				})
			}
			continue
		}
		g, ok := findArgGroup(doc, idx, loc.Range.End)
		if !ok {
			if ind.Arity == 0 {
				edits = append(edits, perCallable(nil, loc)...)
			}
			continue
		}
		edits = append(edits, perCallable(&g, loc)...)
	}
	if len(edits) == 0 {
		return notApplicable("no editable occurrences of %s", ind), nil
	}
	set, err := text.NewEditSet(doc, edits)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Set: set}, nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n || n == 0 {
		return false
	}
	seen := make([]bool, n+1)
	for _, v := range order {
		if v < 1 || v > n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

// argGroup is the located parenthesis group of one callable occurrence.
type argGroup struct {
	doc    *text.Document
	idx    *scanner.Index
	open   text.Position // the ( byte
	close  text.Position // the matching ) byte
	commas []text.Position
}

// findArgGroup walks the group opening immediately after a name
// occurrence, recording the top-level comma positions.
func findArgGroup(doc *text.Document, idx *scanner.Index, after text.Position) (argGroup, bool) {
	l, c := after.Line, after.Column
	line := doc.Line(l)
	if c >= len(line) || line[c] != '(' || idx.Line(l).StateAt(c) != scanner.Code {
		return argGroup{}, false
	}
	g := argGroup{doc: doc, idx: idx, open: text.Position{Line: l, Column: c}}
	depth := 0
	for l < doc.LineCount() {
		line = doc.Line(l)
		scan := idx.Line(l)
		for ; c < len(line); c++ {
			if scan.StateAt(c) != scanner.Code {
				continue
			}
			switch line[c] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth == 0 {
					g.close = text.Position{Line: l, Column: c}
					return g, true
				}
			case ',':
				if depth == 1 {
					g.commas = append(g.commas, text.Position{Line: l, Column: c})
				}
			}
		}
		l++
		c = 0
	}
	return argGroup{}, false
}

// argTexts returns the trimmed source text of each argument.
func (g *argGroup) argTexts(doc *text.Document) []string {
	bounds := make([]text.Position, 0, len(g.commas)+2)
	bounds = append(bounds, afterCol(g.open))
	for _, c := range g.commas {
		bounds = append(bounds, c)
	}
	bounds = append(bounds, g.close)

	args := make([]string, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		from := bounds[i]
		if i > 0 {
			from = afterCol(from)
		}
		raw := doc.Slice(text.Range{Start: from, End: bounds[i+1]})
		args = append(args, strings.TrimSpace(raw))
	}
	return args
}

// skipSpaces advances a position over spaces and tabs on its line.
func (g *argGroup) skipSpaces(p text.Position) text.Position {
	line := g.doc.Line(p.Line)
	for p.Column < len(line) && (line[p.Column] == ' ' || line[p.Column] == '\t') {
		p.Column++
	}
	return p
}

func afterCol(p text.Position) text.Position {
	return text.Position{Line: p.Line, Column: p.Column + 1}
}

// indicatorAritySpan locates the digit span of an indicator-form
// occurrence's textual arity, right after the /N or //N separator.
func indicatorAritySpan(doc *text.Document, idx *scanner.Index, after text.Position) (text.Range, bool) {
	l, c := after.Line, after.Column
	line := doc.Line(l)
	scan := idx.Line(l)
	for c < len(line) && (line[c] == ' ' || line[c] == '\t') {
		c++
	}
	if c >= len(line) || line[c] != '/' || scan.StateAt(c) != scanner.Code {
		return text.Range{}, false
	}
	c++
	if c < len(line) && line[c] == '/' {
		c++
	}
	for c < len(line) && (line[c] == ' ' || line[c] == '\t') {
		c++
	}
	start := c
	for c < len(line) && line[c] >= '0' && line[c] <= '9' {
		c++
	}
	if c == start {
		return text.Range{}, false
	}
	return text.NewRange(l, start, c), true
}

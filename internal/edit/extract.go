package edit

import (
	"context"
	"regexp"
	"strings"

	"lgtls/internal/boundary"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

var variableRe = regexp.MustCompile(`\b[A-Z_][A-Za-z0-9_]*\b`)

// ExtractPredicate replaces the selected body goals with a call to a new
// predicate and appends that predicate's clause after the enclosing one.
// The shared variables between the selection and the rest of the clause
// become the new predicate's arguments, in order of first appearance in
// the selection.
func (p *Planner) ExtractPredicate(ctx context.Context, doc *text.Document, sel text.Range, newName string) (Outcome, error) {
	if !validAtom(newName) || newName == "" {
		return notApplicable("%q is not a valid predicate name", newName), nil
	}
	idx, err := p.cache.Index(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	clause, err := boundary.ClauseRange(ctx, doc, idx, sel.Start.Line)
	if err != nil {
		return Outcome{}, err
	}
	if sel.Start.Before(clause.Start) || clause.End.Before(sel.End) {
		return notApplicable("selection crosses a clause boundary"), nil
	}
	if sel.Start.Line == clause.Start.Line && sel.Start.Column <= indentOf(doc.Line(clause.Start.Line)) {
		return notApplicable("selection includes the clause head"), nil
	}

	selText := strings.TrimSpace(doc.Slice(sel))
	selText = strings.TrimSuffix(strings.TrimSpace(selText), ",")
	if selText == "" {
		return notApplicable("empty selection"), nil
	}

	inSel := variablesIn(doc, idx, sel)
	outside := variableSet(doc, idx, clause, sel)
	var params []string
	for _, v := range inSel {
		if v == "_" {
			continue
		}
		if outside[v] {
			params = append(params, v)
		}
	}

	head := newName
	if len(params) > 0 {
		head += "(" + strings.Join(params, ", ") + ")"
	}

	edits := []text.Edit{
		{Range: sel, NewText: head, Anchor: doc.Slice(sel)},
		{
			Range:   text.Range{Start: clause.End, End: clause.End},
			NewText: "\n\n" + head + " :-\n\t" + selText + ".",
		},
	}
	set, err := text.NewEditSet(doc, edits)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Set: set}, nil
}

// variablesIn lists the variables of a range in first-appearance order.
func variablesIn(doc *text.Document, idx *scanner.Index, rng text.Range) []string {
	var order []string
	seen := map[string]bool{}
	eachVariable(doc, idx, rng, func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	})
	return order
}

// variableSet collects the variables of the clause that occur outside the
// selection. A variable whose every occurrence is inside the selection is
// local to the extracted predicate and not a parameter.
func variableSet(doc *text.Document, idx *scanner.Index, clause, sel text.Range) map[string]bool {
	counts := map[string]int{}
	eachVariable(doc, idx, clause, func(name string) { counts[name]++ })
	selCounts := map[string]int{}
	eachVariable(doc, idx, sel, func(name string) { selCounts[name]++ })

	out := map[string]bool{}
	for name, n := range counts {
		if n > selCounts[name] {
			out[name] = true
		}
	}
	return out
}

func eachVariable(doc *text.Document, idx *scanner.Index, rng text.Range, fn func(string)) {
	for l := rng.Start.Line; l <= rng.End.Line && l < doc.LineCount(); l++ {
		line := doc.Line(l)
		scan := idx.Line(l)
		for _, m := range variableRe.FindAllStringIndex(line, -1) {
			pos := text.Position{Line: l, Column: m[0]}
			if !rng.Contains(pos) || scan.StateAt(m[0]) != scanner.Code {
				continue
			}
			fn(line[m[0]:m[1]])
		}
	}
}

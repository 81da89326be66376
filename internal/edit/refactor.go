package edit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lgtls/internal/boundary"
	"lgtls/internal/entity"
	"lgtls/internal/refs"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

// StructuralOp names a structural refactoring.
type StructuralOp string

const (
	OpExtractProtocol   StructuralOp = "extract_protocol"
	OpConvertToCategory StructuralOp = "convert_to_category"
	OpAddArgument       StructuralOp = "add_argument"
	OpRemoveArgument    StructuralOp = "remove_argument"
	OpReorderArguments  StructuralOp = "reorder_arguments"
	OpExtractPredicate  StructuralOp = "extract_predicate"
)

// StructuralParams carries the union of parameters the operations take.
type StructuralParams struct {
	Line        int            // a line inside the target entity or clause
	Name        string         // new protocol or predicate name
	Indicator   refs.Indicator // target of the argument operations
	Position    int            // 1-based argument position
	Placeholder string         // source text of an added argument
	Order       []int          // 1-based old positions in new order
	Selection   *text.Range    // goal selection for extract_predicate
}

// Structural dispatches a structural refactoring by operation kind.
func (p *Planner) Structural(ctx context.Context, doc *text.Document, op StructuralOp, params StructuralParams) (Outcome, error) {
	switch op {
	case OpExtractProtocol:
		return p.ExtractProtocol(ctx, doc, params.Line, params.Name)
	case OpConvertToCategory:
		return p.ConvertToCategory(ctx, doc, params.Line)
	case OpAddArgument:
		return p.AddArgument(ctx, doc, params.Indicator, params.Position, params.Placeholder)
	case OpRemoveArgument:
		return p.RemoveArgument(ctx, doc, params.Indicator, params.Position)
	case OpReorderArguments:
		return p.ReorderArguments(ctx, doc, params.Indicator, params.Order)
	case OpExtractPredicate:
		if params.Selection == nil {
			return notApplicable("no selection"), nil
		}
		return p.ExtractPredicate(ctx, doc, *params.Selection, params.Name)
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

var scopeHeadRe = regexp.MustCompile(`^\s*:-\s*(public|protected|private)\s*\(`)

// ExtractProtocol moves the scope directives of the entity at line into a
// new protocol, which the entity then implements. The entity must declare
// at least one scope directive, otherwise there is nothing to extract.
func (p *Planner) ExtractProtocol(ctx context.Context, doc *text.Document, line int, protocolName string) (Outcome, error) {
	if !validAtom(protocolName) || protocolName == "" {
		return notApplicable("%q is not a valid protocol name", protocolName), nil
	}
	idx, err := p.cache.Index(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	entities, err := p.cache.Entities(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	target := entity.At(entities, line)
	if target == nil {
		return notApplicable("line %d is not inside an entity", line), nil
	}
	if target.Kind == entity.Protocol {
		return notApplicable("%s is already a protocol", target.Name), nil
	}

	scopes, err := scopeDirectives(ctx, doc, idx, target)
	if err != nil {
		return Outcome{}, err
	}
	if len(scopes) == 0 {
		return notApplicable("%s declares no scope directives", target.Name), nil
	}

	var edits []text.Edit

	// The new protocol goes right before the entity, carrying the scope
	// directives verbatim.
	var body strings.Builder
	fmt.Fprintf(&body, ":- protocol(%s).\n\n", spellAtom(protocolName))
	for _, s := range scopes {
		body.WriteString(doc.Slice(s))
		body.WriteString("\n")
	}
	body.WriteString("\n:- end_protocol.\n\n\n")
	insertAt := text.Position{Line: target.Start.Line, Column: 0}
	edits = append(edits, text.Edit{
		Range:   text.Range{Start: insertAt, End: insertAt},
		NewText: body.String(),
	})

	// The entity implements it.
	edits = append(edits, text.Edit{
		Range:   text.Range{Start: target.IdentifierEnd, End: target.IdentifierEnd},
		NewText: ",\n\timplements(" + spellAtom(protocolName) + ")",
	})

	// The original scope directives go away, including their line breaks.
	for _, s := range scopes {
		rng := text.Range{
			Start: text.Position{Line: s.Start.Line, Column: 0},
			End:   text.Position{Line: s.End.Line + 1, Column: 0},
		}
		if s.End.Line+1 >= doc.LineCount() {
			rng.End = text.Position{Line: s.End.Line, Column: len(doc.Line(s.End.Line))}
		}
		edits = append(edits, text.Edit{Range: rng, NewText: "", Anchor: doc.Slice(rng)})
	}

	set, err := text.NewEditSet(doc, edits)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Set: set}, nil
}

// scopeDirectives collects the full spans of the entity's public,
// protected and private directives, in document order.
func scopeDirectives(ctx context.Context, doc *text.Document, idx *scanner.Index, e *entity.Entity) ([]text.Range, error) {
	var out []text.Range
	for l := e.OpenDirective.End.Line + 1; l < e.End.Line; l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(l)
		m := scopeHeadRe.FindStringIndex(line)
		if m == nil || idx.Line(l).StateAt(indentOf(line)) != scanner.Code {
			continue
		}
		dr, err := boundary.DirectiveRange(ctx, doc, idx, l)
		if err != nil {
			continue
		}
		if dr.Start.Line != l {
			continue
		}
		out = append(out, dr)
		l = dr.End.Line
	}
	return out, nil
}

var convertRe = map[string]*regexp.Regexp{
	"open":  regexp.MustCompile(`^(\s*:-\s*)object\b`),
	"close": regexp.MustCompile(`^(\s*:-\s*)end_object\b`),
}

// ConvertToCategory turns the object at line into a category. Objects
// with instantiation, specialization or extension relations cannot become
// categories, so those report not applicable.
func (p *Planner) ConvertToCategory(ctx context.Context, doc *text.Document, line int) (Outcome, error) {
	entities, err := p.cache.Entities(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	target := entity.At(entities, line)
	if target == nil {
		return notApplicable("line %d is not inside an entity", line), nil
	}
	if target.Kind != entity.Object {
		return notApplicable("%s is a %s, not an object", target.Name, target.Kind), nil
	}
	if !target.Terminated {
		return notApplicable("%s has no closing directive", target.Name), nil
	}
	opening := doc.Slice(target.OpenDirective)
	for _, rel := range []string{"instantiates(", "specializes(", "extends("} {
		if strings.Contains(opening, rel) {
			return notApplicable("%s has a %s relation", target.Name, strings.TrimSuffix(rel, "(")), nil
		}
	}

	var edits []text.Edit
	openLine := doc.Line(target.Start.Line)
	if m := convertRe["open"].FindStringSubmatchIndex(openLine); m != nil {
		rng := text.NewRange(target.Start.Line, m[3], m[3]+len("object"))
		edits = append(edits, text.Edit{Range: rng, NewText: "category", Anchor: "object"})
	}
	closeLine := doc.Line(target.End.Line)
	if m := convertRe["close"].FindStringSubmatchIndex(closeLine); m != nil {
		rng := text.NewRange(target.End.Line, m[3], m[3]+len("end_object"))
		edits = append(edits, text.Edit{Range: rng, NewText: "end_category", Anchor: "end_object"})
	}
	if len(edits) != 2 {
		return notApplicable("cannot locate the object directives of %s", target.Name), nil
	}
	set, err := text.NewEditSet(doc, edits)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Set: set}, nil
}

func indentOf(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}

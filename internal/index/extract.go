package index

import (
	"context"
	"regexp"

	"lgtls/internal/boundary"
	"lgtls/internal/entity"
	"lgtls/internal/refs"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

var (
	scopeHeadRe  = regexp.MustCompile(`^\s*:-\s*(public|protected|private)\s*\(`)
	indicatorRe  = regexp.MustCompile(`\b([a-z][A-Za-z0-9_]*)\s*(//?)\s*([0-9]+)`)
	clauseHeadRe = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)`)
)

// ExtractFacts scans one file's content and produces the rows the index
// stores for it: its entities, its scope declarations, and the first
// clause head of each predicate or non-terminal.
func ExtractFacts(ctx context.Context, path, content string) ([]EntityRecord, []DeclRecord, error) {
	doc := text.NewDocument(path, 0, content)
	idx, err := scanner.NewIndex(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	entities, err := entity.Scan(ctx, doc, idx)
	if err != nil {
		return nil, nil, err
	}

	entityRecords := make([]EntityRecord, 0, len(entities))
	for _, e := range entities {
		entityRecords = append(entityRecords, EntityRecord{
			Path:      path,
			Kind:      e.Kind,
			Name:      e.Name,
			Params:    e.ParameterCount(),
			StartLine: e.Start.Line,
			EndLine:   e.End.Line,
		})
	}

	decls, err := extractDeclarations(ctx, doc, idx, entities)
	if err != nil {
		return nil, nil, err
	}
	return entityRecords, decls, nil
}

func extractDeclarations(ctx context.Context, doc *text.Document, idx *scanner.Index, entities []entity.Entity) ([]DeclRecord, error) {
	var out []DeclRecord
	seenHead := map[string]bool{}
	expectStart := true

	for l := 0; l < doc.LineCount(); l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(l)
		scan := idx.Line(l)
		owner := ""
		if e := entity.At(entities, l); e != nil {
			owner = e.Name
		}

		if scopeHeadRe.MatchString(line) && boundary.IsDirectiveHead(scan, line) {
			dr, err := boundary.DirectiveRange(ctx, doc, idx, l)
			if err == nil && dr.Start.Line == l {
				out = append(out, scopeDecls(doc, idx, dr, owner)...)
				l = dr.End.Line
				expectStart = true
				continue
			}
		}

		if expectStart && scan.Start.Depth == 0 && scan.Start.State == scanner.Code &&
			!boundary.IsDirectiveHead(scan, line) && !boundary.IsBlank(scan, line) {
			if rec, ok := headDecl(doc, idx, l, owner); ok {
				key := rec.Entity + "|" + refs.Indicator{Name: rec.Name, Arity: rec.Arity, Form: rec.Form}.String()
				if !seenHead[key] {
					seenHead[key] = true
					out = append(out, rec)
				}
			}
		}
		expectStart = boundary.EndsClause(scan, line) || boundary.IsBlank(scan, line) ||
			boundary.ClassifyEntityBoundary(scan, line) != (boundary.EntityBoundary{})
	}
	return out, nil
}

// scopeDecls reads the Name/Arity and Name//Arity tokens of one scope
// directive.
func scopeDecls(doc *text.Document, idx *scanner.Index, dr text.Range, owner string) []DeclRecord {
	var out []DeclRecord
	for l := dr.Start.Line; l <= dr.End.Line && l < doc.LineCount(); l++ {
		line := doc.Line(l)
		scan := idx.Line(l)
		for _, m := range indicatorRe.FindAllStringSubmatchIndex(line, -1) {
			if scan.StateAt(m[0]) != scanner.Code {
				continue
			}
			name := line[m[2]:m[3]]
			if l == dr.Start.Line && isScopeKeyword(name) {
				continue
			}
			form := refs.Predicate
			if m[5]-m[4] == 2 {
				form = refs.NonTerminal
			}
			arity := 0
			for _, d := range line[m[6]:m[7]] {
				arity = arity*10 + int(d-'0')
			}
			out = append(out, DeclRecord{
				Path:   doc.URI(),
				Entity: owner,
				Name:   name,
				Arity:  arity,
				Form:   form,
				Role:   "declaration",
				Line:   l,
				Col:    m[2],
			})
		}
	}
	return out
}

func isScopeKeyword(name string) bool {
	return name == "public" || name == "protected" || name == "private"
}

// headDecl reads a clause head opening at line l, if the line starts one.
func headDecl(doc *text.Document, idx *scanner.Index, l int, owner string) (DeclRecord, bool) {
	line := doc.Line(l)
	at := indentOf(line)
	m := clauseHeadRe.FindStringSubmatchIndex(line[at:])
	if m == nil {
		return DeclRecord{}, false
	}
	name := line[at+m[2] : at+m[3]]
	after := text.Position{Line: l, Column: at + m[3]}
	arity, ok := callArity(doc, idx, after)
	if !ok {
		return DeclRecord{}, false
	}
	form := refs.Predicate
	if isDCGHead(doc, idx, l) {
		form = refs.NonTerminal
	}
	return DeclRecord{
		Path:   doc.URI(),
		Entity: owner,
		Name:   name,
		Arity:  arity,
		Form:   form,
		Role:   "head",
		Line:   l,
		Col:    at + m[2],
	}, true
}

// callArity counts the arguments of the group immediately following a
// head functor, across lines.
func callArity(doc *text.Document, idx *scanner.Index, after text.Position) (int, bool) {
	l, c := after.Line, after.Column
	line := doc.Line(l)
	if c >= len(line) || line[c] != '(' {
		return 0, true
	}
	c++
	depth := 1
	args := 0
	saw := false
	for l < doc.LineCount() {
		line = doc.Line(l)
		scan := idx.Line(l)
		for ; c < len(line); c++ {
			if scan.StateAt(c) != scanner.Code {
				saw = true
				continue
			}
			switch line[c] {
			case '(', '[', '{':
				depth++
				saw = true
			case ')', ']', '}':
				depth--
				if depth == 0 {
					if !saw {
						return 0, true
					}
					return args + 1, true
				}
			case ',':
				if depth == 1 {
					args++
				}
				saw = true
			case ' ', '\t':
			default:
				saw = true
			}
		}
		l++
		c = 0
	}
	return 0, false
}

// isDCGHead reports a --> rule by scanning the head's clause for the
// operator at depth zero.
func isDCGHead(doc *text.Document, idx *scanner.Index, l int) bool {
	for ; l < doc.LineCount(); l++ {
		line := doc.Line(l)
		scan := idx.Line(l)
		for i := 0; i+2 < len(line); i++ {
			if line[i] == '-' && line[i+1] == '-' && line[i+2] == '>' &&
				scan.StateAt(i) == scanner.Code && scan.DepthAt(i) == 0 {
				return true
			}
		}
		if boundary.EndsClause(scan, line) {
			return false
		}
	}
	return false
}

func indentOf(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}

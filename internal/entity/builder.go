package entity

import (
	"context"
	"regexp"
	"strings"

	"lgtls/internal/boundary"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

var openHeadRe = regexp.MustCompile(`^\s*:-\s*(object|protocol|category)\s*\(`)

// Scan walks the document top to bottom and returns its entities in order.
// Closing directives with no matching opening are ignored; an opening with
// no matching close produces an unterminated entity ending at the next
// opening or end of file.
func Scan(ctx context.Context, doc *text.Document, idx *scanner.Index) ([]Entity, error) {
	var out []Entity
	var open *Entity

	for l := 0; l < doc.LineCount(); l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(l)
		scan := idx.Line(l)
		wall := boundary.ClassifyEntityBoundary(scan, line)

		switch {
		case wall.Opening:
			if open != nil {
				prev := doc.Line(l - 1)
				open.End = text.Position{Line: l - 1, Column: len(prev)}
				out = append(out, *open)
			}
			e, err := parseOpening(ctx, doc, idx, l, Kind(wall.Kind))
			if err != nil {
				return nil, err
			}
			open = &e
			if skip := e.OpenDirective.End.Line; skip > l {
				l = skip
			}

		case wall.Closing && open != nil && string(open.Kind) == wall.Kind:
			col := len(line)
			if t := scan.TerminatorAfter(line, 0); t >= 0 {
				col = t + 1
			}
			open.End = text.Position{Line: l, Column: col}
			open.Terminated = true
			out = append(out, *open)
			open = nil
		}
	}

	if open != nil {
		last := doc.LineCount() - 1
		open.End = text.Position{Line: last, Column: len(doc.Line(last))}
		out = append(out, *open)
	}
	return out, nil
}

// At returns the entity containing the given line, if any.
func At(entities []Entity, line int) *Entity {
	for i := range entities {
		if entities[i].Contains(line) {
			return &entities[i]
		}
	}
	return nil
}

func parseOpening(ctx context.Context, doc *text.Document, idx *scanner.Index, line int, kind Kind) (Entity, error) {
	e := Entity{
		Kind:  kind,
		Start: text.Position{Line: line, Column: 0},
	}

	dr, err := boundary.DirectiveRange(ctx, doc, idx, line)
	if err != nil {
		// Defensive: the opening matched the boundary classifier, so the
		// head is there; fall back to the single line.
		dr = text.Range{
			Start: text.Position{Line: line, Column: 0},
			End:   text.Position{Line: line, Column: len(doc.Line(line))},
		}
	}
	e.OpenDirective = dr

	m := openHeadRe.FindStringIndex(doc.Line(line))
	if m == nil {
		return e, nil
	}
	w := newWalker(doc, idx, text.Position{Line: line, Column: m[1]}, dr.End)
	parseIdentifier(&e, w)
	return e, nil
}

// parseIdentifier reads the first argument of the opening directive: an
// atom, a quoted atom, or a compound identifier with a shallow parameter
// list. No operator-level term parsing happens here.
func parseIdentifier(e *Entity, w *walker) {
	w.skipSpace()
	start := w.pos()

	if ch, ok := w.peek(); ok && ch == '\'' {
		raw := w.consumeQuotedAtom()
		e.Name = unescapeAtom(raw)
		e.NameRange = text.Range{Start: start, End: w.pos()}
	} else {
		e.Name = w.consumeSymbol()
		e.NameRange = text.Range{Start: start, End: w.pos()}
	}
	e.IdentifierEnd = w.pos()

	if ch, ok := w.peek(); !ok || ch != '(' {
		return
	}
	w.next() // the parameter list opener

	depth := 1
	var cur strings.Builder
	flush := func() {
		p := strings.TrimSpace(cur.String())
		cur.Reset()
		if p == "" {
			return
		}
		e.Parameters = append(e.Parameters, Param{
			Text:     p,
			Variable: p[0] == '_' || (p[0] >= 'A' && p[0] <= 'Z'),
		})
	}

	for {
		ch, ok := w.peek()
		if !ok {
			break
		}
		if w.state() == scanner.Code {
			switch ch {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth == 0 {
					flush()
					w.next()
					e.IdentifierEnd = w.pos()
					return
				}
			case ',':
				if depth == 1 {
					flush()
					w.next()
					continue
				}
			}
		}
		cur.WriteByte(ch)
		w.next()
	}
	flush()
}

func unescapeAtom(raw string) string {
	s := strings.TrimPrefix(raw, "'")
	s = strings.TrimSuffix(s, "'")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'' && i+1 < len(s) && s[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case s[i] == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

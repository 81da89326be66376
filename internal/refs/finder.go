package refs

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"lgtls/internal/boundary"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

// Located is one confirmed reference to an indicator.
type Located struct {
	Range text.Range
	Role  Role
}

// Options narrows a search. A nil Roles slice means every role; Within
// restricts the search to candidates starting inside the range.
type Options struct {
	Roles  []Role
	Within *text.Range
}

func (o Options) wantsRole(r Role) bool {
	if o.Roles == nil {
		return true
	}
	for _, want := range o.Roles {
		if want == r {
			return true
		}
	}
	return false
}

var directiveHeadRe = regexp.MustCompile(`^(\s*):-\s*([a-z][A-Za-z0-9_]*)`)

// Find returns every valid occurrence of ind in the document, in document
// order. Occurrences inside comments and quoted literals are never
// reported; candidates whose local arity disagrees with the indicator are
// rejected. No matches is an empty result, not an error.
func Find(ctx context.Context, doc *text.Document, idx *scanner.Index, ind Indicator, opts Options) ([]Located, error) {
	f := &finder{doc: doc, idx: idx, ind: ind, opts: opts, spans: map[int]spanInfo{}}
	return f.run(ctx)
}

// spanInfo caches the enclosing construct of a line: its range and, for
// directives, the shape-table entry of the directive's own functor.
// argEnd bounds the directive's first argument when the shape restricts
// indicator matching to it.
type spanInfo struct {
	rng       text.Range
	directive bool
	shape     directiveShape
	hasShape  bool
	argEnd    text.Position
}

type finder struct {
	doc   *text.Document
	idx   *scanner.Index
	ind   Indicator
	opts  Options
	spans map[int]spanInfo
}

func (f *finder) run(ctx context.Context) ([]Located, error) {
	bare, quoted := f.patterns()

	fromLine, toLine := 0, f.doc.LineCount()-1
	if f.opts.Within != nil {
		fromLine, toLine = f.opts.Within.Start.Line, f.opts.Within.End.Line
	}

	var out []Located
	for l := fromLine; l <= toLine && l < f.doc.LineCount(); l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := f.doc.Line(l)
		scan := f.idx.Line(l)

		for _, m := range bare.FindAllStringIndex(line, -1) {
			if err := f.consider(ctx, &out, l, m[0], m[1], scan); err != nil {
				return nil, err
			}
		}
		for _, m := range quoted.FindAllStringIndex(line, -1) {
			if err := f.consider(ctx, &out, l, m[0], m[1], scan); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Before(out[j].Range.Start)
	})
	return out, nil
}

// patterns builds the bare-name regex and the quoted-atom spelling of the
// same name. Both are always searched: a plain atom may legally appear
// quoted.
func (f *finder) patterns() (*regexp.Regexp, *regexp.Regexp) {
	var bare *regexp.Regexp
	if plainAtom(f.ind.Name) {
		bare = regexp.MustCompile(`\b` + regexp.QuoteMeta(f.ind.Name) + `\b`)
	} else {
		bare = regexp.MustCompile(regexp.QuoteMeta(f.ind.Name))
	}
	escaped := strings.ReplaceAll(f.ind.Name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `''`)
	quoted := regexp.MustCompile(regexp.QuoteMeta("'" + escaped + "'"))
	return bare, quoted
}

func plainAtom(name string) bool {
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch != '_' && !(ch >= 'a' && ch <= 'z') && !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') {
			return false
		}
	}
	return len(name) > 0
}

// consider validates one textual candidate and appends it when it is a
// real reference. The opening byte must be reached from Code state, which
// excludes comments and the interior of quoted literals in one check.
func (f *finder) consider(ctx context.Context, out *[]Located, line, start, end int, scan scanner.LineScan) error {
	if scan.StateAt(start) != scanner.Code {
		return nil
	}

	pos := text.Position{Line: line, Column: start}
	if f.opts.Within != nil && !f.opts.Within.Contains(pos) {
		return nil
	}

	span, err := f.spanFor(ctx, line)
	if err != nil {
		return err
	}
	after := text.Position{Line: line, Column: end}

	var role Role
	ok := false
	if span.directive && span.hasShape {
		role, ok = f.matchInDirective(span, pos, after)
	} else if span.directive {
		// Unknown directive form: fall back to callable matching, e.g.
		// initialization/1 goals.
		if f.matchCallable(after, span.rng.End) {
			role, ok = BodyCall, true
		}
	} else {
		role, ok = f.matchInClause(span, pos, after)
	}
	if !ok || !f.opts.wantsRole(role) {
		return nil
	}

	*out = append(*out, Located{
		Range: text.Range{Start: pos, End: text.Position{Line: line, Column: end}},
		Role:  role,
	})
	return nil
}

// spanFor resolves and caches the construct enclosing a line.
func (f *finder) spanFor(ctx context.Context, line int) (spanInfo, error) {
	if s, ok := f.spans[line]; ok {
		return s, nil
	}
	var s spanInfo
	dr, err := boundary.DirectiveRange(ctx, f.doc, f.idx, line)
	switch {
	case err == nil:
		s = spanInfo{rng: dr, directive: true}
		if name, arity, ok := f.directiveFunctor(dr); ok {
			if sh, found := shapeFor(name, arity); found {
				s.shape, s.hasShape = sh, true
				if sh.shape == IndicatorArgument {
					s.argEnd = f.firstArgumentEnd(dr)
				}
			}
		}
	case errors.Is(err, boundary.ErrNotADirective):
		cr, cerr := boundary.ClauseRange(ctx, f.doc, f.idx, line)
		if cerr != nil {
			return spanInfo{}, cerr
		}
		s = spanInfo{rng: cr}
	default:
		return spanInfo{}, err
	}
	for l := s.rng.Start.Line; l <= s.rng.End.Line; l++ {
		f.spans[l] = s
	}
	f.spans[line] = s
	return s, nil
}

// directiveFunctor reads the directive's own name and arity from its head
// line, keying the shape table lookup.
func (f *finder) directiveFunctor(dr text.Range) (string, int, bool) {
	head := f.doc.Line(dr.Start.Line)
	m := directiveHeadRe.FindStringSubmatchIndex(head)
	if m == nil {
		return "", 0, false
	}
	name := head[m[4]:m[5]]
	arity, ok := callableArity(f.doc, f.idx, text.Position{Line: dr.Start.Line, Column: m[5]}, dr.End)
	if !ok {
		return "", 0, false
	}
	return name, arity, true
}

// matchInDirective applies the shape-table rules to an occurrence inside a
// known directive. IndicatorArgument directives reference indicators in
// their first argument only; an indicator spelled out deeper in an info/2
// body is not a documented reference.
func (f *finder) matchInDirective(span spanInfo, pos, after text.Position) (Role, bool) {
	switch span.shape.shape {
	case ListOfIndicators, IndicatorArgument:
		if span.shape.shape == IndicatorArgument && span.argEnd.Before(pos) {
			return 0, false
		}
		arity, form, ok := indicatorFormAfter(f.doc, f.idx, after)
		if ok && arity == f.ind.Arity && form == f.ind.Form {
			return span.shape.role, true
		}
		return 0, false
	case CallableArgument:
		if f.matchCallable(after, span.rng.End) {
			return span.shape.role, true
		}
	}
	return 0, false
}

// matchInClause classifies an occurrence inside a clause as head or body
// call, verifying the local arity.
func (f *finder) matchInClause(span spanInfo, pos, after text.Position) (Role, bool) {
	// An explicit name//N or name/N inside a body (e.g. call/N arguments,
	// phrase/2) still counts as a body reference.
	if arity, form, ok := indicatorFormAfter(f.doc, f.idx, after); ok {
		if arity == f.ind.Arity && form == f.ind.Form {
			return BodyCall, true
		}
		return 0, false
	}

	if !f.matchCallable(after, span.rng.End) {
		return 0, false
	}

	isHead := pos.Line == span.rng.Start.Line && pos.Column == indentOf(f.doc.Line(span.rng.Start.Line))
	dcg := f.topLevelDCG(span.rng)
	if f.ind.Form == NonTerminal {
		// Non-terminal callables only occur in grammar rules, and a braced
		// group in a rule body holds plain goals, not non-terminals.
		if !dcg {
			return 0, false
		}
		if !isHead && f.inBraces(span.rng, pos) {
			return 0, false
		}
	} else if dcg {
		// In a grammar rule the head and every unbraced body callable
		// denote non-terminals; only braced goals call predicates.
		if isHead || !f.inBraces(span.rng, pos) {
			return 0, false
		}
	}
	if isHead {
		return ClauseHead, true
	}
	return BodyCall, true
}

// inBraces reports whether pos sits inside a {...} group, counting braces
// in code state from the clause start up to pos.
func (f *finder) inBraces(rng text.Range, pos text.Position) bool {
	depth := 0
	for l := rng.Start.Line; l <= pos.Line && l < f.doc.LineCount(); l++ {
		line := f.doc.Line(l)
		scan := f.idx.Line(l)
		end := len(line)
		if l == pos.Line {
			end = pos.Column
		}
		for i := 0; i < end; i++ {
			if scan.StateAt(i) != scanner.Code {
				continue
			}
			switch line[i] {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}
	}
	return depth > 0
}

// firstArgumentEnd locates the end of a directive's first argument, the
// comma at depth one or the closing parenthesis.
func (f *finder) firstArgumentEnd(dr text.Range) text.Position {
	head := f.doc.Line(dr.Start.Line)
	m := directiveHeadRe.FindStringSubmatchIndex(head)
	if m == nil || m[5] >= len(head) || head[m[5]] != '(' {
		return dr.End
	}
	l, c := dr.Start.Line, m[5]+1
	depth := 1
	for l < f.doc.LineCount() {
		line := f.doc.Line(l)
		scan := f.idx.Line(l)
		for ; c < len(line); c++ {
			pos := text.Position{Line: l, Column: c}
			if dr.End.Before(pos) {
				return dr.End
			}
			if scan.StateAt(c) != scanner.Code {
				continue
			}
			switch line[c] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
				if depth == 0 {
					return pos
				}
			case ',':
				if depth == 1 {
					return pos
				}
			}
		}
		l++
		c = 0
	}
	return dr.End
}

// matchCallable verifies the callable-shape arity following a name.
func (f *finder) matchCallable(after, limit text.Position) bool {
	arity, ok := callableArity(f.doc, f.idx, after, limit)
	return ok && arity == f.ind.Arity
}

// topLevelDCG reports whether a clause contains a top-level --> operator.
func (f *finder) topLevelDCG(rng text.Range) bool {
	for l := rng.Start.Line; l <= rng.End.Line && l < f.doc.LineCount(); l++ {
		line := f.doc.Line(l)
		scan := f.idx.Line(l)
		for i := 0; i+2 < len(line); i++ {
			if line[i] == '-' && line[i+1] == '-' && line[i+2] == '>' &&
				scan.StateAt(i) == scanner.Code && scan.DepthAt(i) == 0 {
				return true
			}
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

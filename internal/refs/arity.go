package refs

import (
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

// callableArity computes the arity of a callable occurrence by scanning
// the parenthesis group that follows it, counting commas at depth one
// only. A bare name with no following group has arity zero. Scanning stops
// at limit; a group still open there reports failure rather than a guess.
func callableArity(doc *text.Document, idx *scanner.Index, after, limit text.Position) (int, bool) {
	l, c := after.Line, after.Column

	// The group must open immediately: "foo (" is an operator expression,
	// not a callable with arguments.
	line := doc.Line(l)
	if c >= len(line) || line[c] != '(' || idx.Line(l).StateAt(c) != scanner.Code {
		return 0, true
	}
	c++

	depth := 1
	args := 0
	sawContent := false
	for l < doc.LineCount() {
		line = doc.Line(l)
		scan := idx.Line(l)
		for ; c < len(line); c++ {
			pos := text.Position{Line: l, Column: c}
			if limit.Before(pos) {
				return 0, false
			}
			if scan.StateAt(c) != scanner.Code {
				sawContent = true
				continue
			}
			switch line[c] {
			case '(', '[', '{':
				depth++
				sawContent = true
			case ')', ']', '}':
				depth--
				if depth == 0 {
					if !sawContent {
						return 0, true
					}
					return args + 1, true
				}
			case ',':
				if depth == 1 {
					args++
				}
				sawContent = true
			case ' ', '\t':
			default:
				sawContent = true
			}
		}
		l++
		c = 0
	}
	return 0, false
}

// indicatorFormAfter recognizes the textual /N or //N suffix of an
// indicator occurrence, as it appears in scope directives, uses/2 and
// alias/2 lists, dynamic/1 and friends, and info/2.
func indicatorFormAfter(doc *text.Document, idx *scanner.Index, after text.Position) (int, Form, bool) {
	l, c := after.Line, after.Column
	line := doc.Line(l)
	scan := idx.Line(l)

	for c < len(line) && (line[c] == ' ' || line[c] == '\t') {
		c++
	}
	if c >= len(line) || line[c] != '/' || scan.StateAt(c) != scanner.Code {
		return 0, Predicate, false
	}
	c++
	form := Predicate
	if c < len(line) && line[c] == '/' {
		form = NonTerminal
		c++
	}
	for c < len(line) && (line[c] == ' ' || line[c] == '\t') {
		c++
	}
	start := c
	arity := 0
	for c < len(line) && line[c] >= '0' && line[c] <= '9' {
		arity = arity*10 + int(line[c]-'0')
		c++
	}
	if c == start {
		return 0, Predicate, false
	}
	return arity, form, true
}

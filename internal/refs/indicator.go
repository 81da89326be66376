// Package refs locates every valid occurrence of a predicate or
// non-terminal indicator in a document, classified by the role the
// occurrence plays: declaration, documentation, cross-reference, clause
// head or body call.
package refs

import (
	"fmt"
	"strconv"
	"strings"
)

// Form distinguishes predicate indicators (name/arity) from non-terminal
// indicators (name//arity).
type Form int

const (
	Predicate Form = iota
	NonTerminal
)

// Indicator identifies a predicate or non-terminal. Two indicators are
// equal iff name, arity and form all match. Name is stored unescaped for
// quoted atoms.
type Indicator struct {
	Name  string
	Arity int
	Form  Form
}

func (i Indicator) String() string {
	if i.Form == NonTerminal {
		return fmt.Sprintf("%s//%d", i.Name, i.Arity)
	}
	return fmt.Sprintf("%s/%d", i.Name, i.Arity)
}

// Parse reads "name/arity" or "name//arity" notation.
func Parse(s string) (Indicator, error) {
	form := Predicate
	sep := "/"
	if strings.Contains(s, "//") {
		form = NonTerminal
		sep = "//"
	}
	name, arityText, found := strings.Cut(s, sep)
	if !found || name == "" {
		return Indicator{}, fmt.Errorf("%w: %q", ErrBadIndicator, s)
	}
	arity, err := strconv.Atoi(arityText)
	if err != nil || arity < 0 {
		return Indicator{}, fmt.Errorf("%w: %q", ErrBadIndicator, s)
	}
	if name[0] == '\'' {
		name = strings.Trim(name, "'")
	}
	return Indicator{Name: name, Arity: arity, Form: form}, nil
}

// Role classifies where a reference occurs.
type Role int

const (
	// Declaration is an occurrence in a scope directive.
	Declaration Role = iota
	// Documentation is the first argument of info/2.
	Documentation
	// CrossReference covers the remaining directive positions: dynamic,
	// discontiguous, multifile, meta_predicate, meta_non_terminal, mode,
	// uses, alias.
	CrossReference
	// ClauseHead is the left side of :- or --> or a fact.
	ClauseHead
	// BodyCall is any other callable occurrence.
	BodyCall
)

func (r Role) String() string {
	switch r {
	case Declaration:
		return "declaration"
	case Documentation:
		return "documentation"
	case CrossReference:
		return "cross-reference"
	case ClauseHead:
		return "clause-head"
	case BodyCall:
		return "body-call"
	}
	return "unknown"
}

// Package entity builds the entity model of a document: every object,
// protocol and category with its identifier, parameters and the span from
// opening to closing directive.
package entity

import (
	"lgtls/internal/text"
)

// Kind is the structural kind of a Logtalk entity.
type Kind string

const (
	Object   Kind = "object"
	Protocol Kind = "protocol"
	Category Kind = "category"
)

// Param is one parameter of a parametric entity identifier. Parameters are
// variables or atoms; nothing deeper is modelled.
type Param struct {
	Text     string
	Variable bool
}

// Entity is one object, protocol or category. Start is the opening
// directive line, End the matching closing directive line. Entities never
// nest, so spans are disjoint within a document.
type Entity struct {
	Kind       Kind
	Name       string // quoted atoms are stored unescaped
	Parameters []Param

	Start text.Position // first column of the opening directive
	End   text.Position // just past the closing directive's period

	// OpenDirective is the full span of the opening directive, which may
	// run over several lines.
	OpenDirective text.Range

	// NameRange covers the identifier's functor in the opening directive,
	// for navigation and rename.
	NameRange text.Range

	// IdentifierEnd is the position just past the whole identifier,
	// including any parameter list. Relations and new arguments are
	// inserted here.
	IdentifierEnd text.Position

	// Terminated is false when no matching closing directive was found
	// before end of file or the next entity opening.
	Terminated bool
}

// ParameterCount is the arity of the entity identifier.
func (e *Entity) ParameterCount() int { return len(e.Parameters) }

// Contains reports whether the line falls inside the entity span,
// inclusive of both directive lines.
func (e *Entity) Contains(line int) bool {
	return line >= e.Start.Line && line <= e.End.Line
}

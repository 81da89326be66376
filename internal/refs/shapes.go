package refs

// Shape classifies how a directive's arguments reference indicators. The
// table below is the single source of truth for where an indicator can
// legally appear inside a directive; adding a directive form is a table
// edit, nothing else.
type Shape int

const (
	// IndicatorArgument directives take a Name/Arity term directly, or a
	// list of them: dynamic/1, discontiguous/1, multifile/1, info/2.
	IndicatorArgument Shape = iota

	// CallableArgument directives take a callable template whose arity is
	// its argument count: mode/2, meta_predicate/1, meta_non_terminal/1.
	CallableArgument

	// ListOfIndicators directives take a list of Name/Arity terms,
	// optionally with "Old as New" element pairs: scope directives,
	// uses/2, alias/2.
	ListOfIndicators
)

type directiveKey struct {
	name  string
	arity int
}

type directiveShape struct {
	shape Shape
	role  Role
}

var directiveShapes = map[directiveKey]directiveShape{
	{"public", 1}:    {ListOfIndicators, Declaration},
	{"protected", 1}: {ListOfIndicators, Declaration},
	{"private", 1}:   {ListOfIndicators, Declaration},

	{"uses", 2}:  {ListOfIndicators, CrossReference},
	{"alias", 2}: {ListOfIndicators, CrossReference},

	{"dynamic", 1}:       {IndicatorArgument, CrossReference},
	{"discontiguous", 1}: {IndicatorArgument, CrossReference},
	{"multifile", 1}:     {IndicatorArgument, CrossReference},

	{"info", 2}: {IndicatorArgument, Documentation},

	{"mode", 2}:              {CallableArgument, CrossReference},
	{"meta_predicate", 1}:    {CallableArgument, CrossReference},
	{"meta_non_terminal", 1}: {CallableArgument, CrossReference},
}

// shapeFor looks up the shape of a directive by its own name and arity.
func shapeFor(name string, arity int) (directiveShape, bool) {
	s, ok := directiveShapes[directiveKey{name, arity}]
	return s, ok
}

package refs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/refs"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

func find(t *testing.T, content string, spec string, opts refs.Options) []refs.Located {
	t.Helper()
	doc := text.NewDocument("test.lgt", 0, content)
	idx, err := scanner.NewIndex(context.Background(), doc)
	require.NoError(t, err)
	ind, err := refs.Parse(spec)
	require.NoError(t, err)
	located, err := refs.Find(context.Background(), doc, idx, ind, opts)
	require.NoError(t, err)
	return located
}

const listUtils = `:- object(list_utils).

	:- public([
		member/2,
		append/3
	]).

	:- info(member/2, [
		comment is 'True iff the membership holds.'
	]).

	:- uses(set, [member/2 as set_member/2]).

	% member/2 walks the list.
	member(X, [X| _]).
	member(X, [_| T]) :-
		member(X, T).

	append([], L, L).

:- end_object.
`

func TestFindRolesOverDocument(t *testing.T) {
	located := find(t, listUtils, "member/2", refs.Options{})

	roles := make([]refs.Role, 0, len(located))
	for _, loc := range located {
		roles = append(roles, loc.Role)
	}
	assert.Equal(t, []refs.Role{
		refs.Declaration,   // public list
		refs.Documentation, // info/2 first argument
		refs.CrossReference, // uses/2 list
		refs.ClauseHead,
		refs.ClauseHead,
		refs.BodyCall,
	}, roles)
}

func TestFindDeclarationInMultiLineList(t *testing.T) {
	located := find(t, listUtils, "append/3", refs.Options{
		Roles: []refs.Role{refs.Declaration},
	})
	require.Len(t, located, 1)
	assert.Equal(t, 4, located[0].Range.Start.Line, "interior line of the public list")
}

func TestFindSkipsCommentsAndQuotedText(t *testing.T) {
	// The info comment and the % line both mention the name.
	located := find(t, listUtils, "member/2", refs.Options{})
	for _, loc := range located {
		line := loc.Range.Start.Line
		assert.NotEqual(t, 8, line, "quoted string must not match")
		assert.NotEqual(t, 13, line, "comment must not match")
	}
}

func TestFindAliasPairMatchesEachSide(t *testing.T) {
	left := find(t, listUtils, "member/2", refs.Options{
		Roles: []refs.Role{refs.CrossReference},
	})
	require.Len(t, left, 1)
	assert.Equal(t, 11, left[0].Range.Start.Line)

	right := find(t, listUtils, "set_member/2", refs.Options{
		Roles: []refs.Role{refs.CrossReference},
	})
	require.Len(t, right, 1)
	assert.Equal(t, 11, right[0].Range.Start.Line)
}

func TestFindRejectsArityMismatch(t *testing.T) {
	content := strings.Join([]string{
		"foo(1).",
		"foo(1, 2).",
		"bar :- foo(a, b).",
	}, "\n")

	one := find(t, content, "foo/1", refs.Options{})
	require.Len(t, one, 1)
	assert.Equal(t, 0, one[0].Range.Start.Line)

	two := find(t, content, "foo/2", refs.Options{})
	require.Len(t, two, 2)
	assert.Equal(t, refs.ClauseHead, two[0].Role)
	assert.Equal(t, refs.BodyCall, two[1].Role)
}

func TestFindMultiLineCallArity(t *testing.T) {
	content := strings.Join([]string{
		"run :-",
		"\tprocess(first,",
		"\t\tsecond,",
		"\t\tthird).",
	}, "\n")

	located := find(t, content, "process/3", refs.Options{})
	require.Len(t, located, 1)
	assert.Equal(t, refs.BodyCall, located[0].Role)
}

func TestFindNonTerminals(t *testing.T) {
	content := strings.Join([]string{
		"greeting --> [hello], name.",
		"name --> [world].",
		"name(X) :- atom(X).",
	}, "\n")

	nt := find(t, content, "name//0", refs.Options{})
	require.Len(t, nt, 2)
	assert.Equal(t, refs.BodyCall, nt[0].Role)
	assert.Equal(t, 0, nt[0].Range.Start.Line)
	assert.Equal(t, refs.ClauseHead, nt[1].Role)
	assert.Equal(t, 1, nt[1].Range.Start.Line)

	pred := find(t, content, "name/1", refs.Options{})
	require.Len(t, pred, 1)
	assert.Equal(t, refs.ClauseHead, pred[0].Role)
	assert.Equal(t, 2, pred[0].Range.Start.Line)
}

func TestFindGrammarRuleBodyDistinguishesForms(t *testing.T) {
	// Unbraced callables in a grammar rule body are non-terminal calls;
	// only goals inside a braced group call the same-name predicate.
	content := strings.Join([]string{
		"greeting --> [hello], name, { name }.",
		"name :- fail.",
	}, "\n")

	pred := find(t, content, "name/0", refs.Options{})
	require.Len(t, pred, 2)
	assert.Equal(t, refs.BodyCall, pred[0].Role)
	assert.Equal(t, text.Position{Line: 0, Column: 30}, pred[0].Range.Start, "the braced goal")
	assert.Equal(t, refs.ClauseHead, pred[1].Role)
	assert.Equal(t, 1, pred[1].Range.Start.Line)

	nt := find(t, content, "name//0", refs.Options{})
	require.Len(t, nt, 1)
	assert.Equal(t, refs.BodyCall, nt[0].Role)
	assert.Equal(t, text.Position{Line: 0, Column: 22}, nt[0].Range.Start, "the unbraced call")
}

func TestFindDocumentationScopedToFirstArgument(t *testing.T) {
	content := strings.Join([]string{
		":- info(member/2, [",
		"\tsee_also is [append/3]",
		"]).",
	}, "\n")

	assert.Empty(t, find(t, content, "append/3", refs.Options{}),
		"indicators in the info body are not documented references")

	mem := find(t, content, "member/2", refs.Options{})
	require.Len(t, mem, 1)
	assert.Equal(t, refs.Documentation, mem[0].Role)
}

func TestFindQuotedAtomOccurrence(t *testing.T) {
	content := strings.Join([]string{
		"run :- 'odd atom'(1).",
		"'odd atom'(X) :- integer(X).",
	}, "\n")

	located := find(t, content, "'odd atom'/1", refs.Options{})
	require.Len(t, located, 2)
	assert.Equal(t, refs.BodyCall, located[0].Role)
	assert.Equal(t, refs.ClauseHead, located[1].Role)
}

func TestFindAdjacentOccurrences(t *testing.T) {
	content := "foo(foo(1)).\n"

	located := find(t, content, "foo/1", refs.Options{})
	require.Len(t, located, 2, "outer and inner calls both count")
}

func TestFindWithin(t *testing.T) {
	within := text.Range{
		Start: text.Position{Line: 14, Column: 0},
		End:   text.Position{Line: 16, Column: 0},
	}
	located := find(t, listUtils, "member/2", refs.Options{Within: &within})
	require.Len(t, located, 2)
	for _, loc := range located {
		assert.Equal(t, refs.ClauseHead, loc.Role)
	}
}

func TestParseIndicator(t *testing.T) {
	ind, err := refs.Parse("member/2")
	require.NoError(t, err)
	assert.Equal(t, refs.Indicator{Name: "member", Arity: 2, Form: refs.Predicate}, ind)
	assert.Equal(t, "member/2", ind.String())

	ind, err = refs.Parse("name//1")
	require.NoError(t, err)
	assert.Equal(t, refs.Indicator{Name: "name", Arity: 1, Form: refs.NonTerminal}, ind)
	assert.Equal(t, "name//1", ind.String())

	_, err = refs.Parse("nonsense")
	assert.ErrorIs(t, err, refs.ErrBadIndicator)
}

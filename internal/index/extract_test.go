package index_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/entity"
	"lgtls/internal/index"
	"lgtls/internal/refs"
)

const extractSource = `:- object(lists).

	:- public([
		member/2,
		append/3
	]).

	:- public(phrase_test//1).

	member(X, [X| _]).
	member(X, [_| T]) :-
		member(X, T).

	append([], L, L).

	phrase_test(X) --> [X].

:- end_object.
`

func TestExtractFacts(t *testing.T) {
	entities, decls, err := index.ExtractFacts(context.Background(), "lists.lgt", extractSource)
	require.NoError(t, err)

	require.Len(t, entities, 1)
	assert.Equal(t, entity.Object, entities[0].Kind)
	assert.Equal(t, "lists", entities[0].Name)
	assert.Equal(t, 0, entities[0].StartLine)

	byKey := map[string]index.DeclRecord{}
	for _, d := range decls {
		byKey[d.Role+" "+refs.Indicator{Name: d.Name, Arity: d.Arity, Form: d.Form}.String()] = d
	}

	member, ok := byKey["declaration member/2"]
	require.True(t, ok)
	assert.Equal(t, "lists", member.Entity)
	assert.Equal(t, 3, member.Line)

	_, ok = byKey["declaration append/3"]
	assert.True(t, ok)

	nt, ok := byKey["declaration phrase_test//1"]
	require.True(t, ok)
	assert.Equal(t, refs.NonTerminal, nt.Form)

	head, ok := byKey["head member/2"]
	require.True(t, ok)
	assert.Equal(t, 9, head.Line, "first clause head only")

	ntHead, ok := byKey["head phrase_test//1"]
	require.True(t, ok)
	assert.Equal(t, refs.NonTerminal, ntHead.Form, "grammar rule heads are non-terminals")
}

func TestExtractFactsDedupesHeads(t *testing.T) {
	_, decls, err := index.ExtractFacts(context.Background(), "t.lgt", strings.Join([]string{
		"foo(1).",
		"foo(2).",
		"foo(3).",
	}, "\n"))
	require.NoError(t, err)

	heads := 0
	for _, d := range decls {
		if d.Role == "head" {
			heads++
		}
	}
	assert.Equal(t, 1, heads)
}

func TestExtractFactsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := index.ExtractFacts(ctx, "t.lgt", extractSource)
	assert.ErrorIs(t, err, context.Canceled)
}

package edit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/cache"
	"lgtls/internal/edit"
	"lgtls/internal/refs"
	"lgtls/internal/text"
)

func newPlanner() *edit.Planner {
	return edit.NewPlanner(cache.New())
}

func mustParse(t *testing.T, spec string) refs.Indicator {
	t.Helper()
	ind, err := refs.Parse(spec)
	require.NoError(t, err)
	return ind
}

func apply(t *testing.T, doc *text.Document, outcome edit.Outcome) string {
	t.Helper()
	require.True(t, outcome.Applicable(), "not applicable: %s", outcome.Reason)
	content, err := outcome.Set.Apply(doc)
	require.NoError(t, err)
	return content
}

const renameSource = `:- object(list_utils).

	:- public(member/2).

	member(X, [X| _]).
	member(X, [_| T]) :-
		member(X, T).

:- end_object.
`

func TestRenameEveryOccurrence(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, renameSource)
	outcome, err := newPlanner().Rename(context.Background(), doc, mustParse(t, "member/2"), "elem")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, ":- public(elem/2).")
	assert.Contains(t, content, "elem(X, [X| _]).")
	assert.Contains(t, content, "\t\telem(X, T).")
	assert.NotContains(t, content, "member")
}

func TestRenameToQuotedSpelling(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "foo(1).\n")
	outcome, err := newPlanner().Rename(context.Background(), doc, mustParse(t, "foo/1"), "odd name")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Equal(t, "'odd name'(1).\n", content)
}

func TestRenameLeavesAliasTargetAlone(t *testing.T) {
	source := strings.Join([]string{
		":- object(client).",
		"",
		"\t:- uses(set, [member/2 as set_member/2]).",
		"",
		"\tcheck(X, S) :-",
		"\t\tset_member(X, S).",
		"",
		":- end_object.",
		"",
	}, "\n")
	doc := text.NewDocument("test.lgt", 0, source)

	outcome, err := newPlanner().Rename(context.Background(), doc, mustParse(t, "member/2"), "elem")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "[elem/2 as set_member/2]")
	assert.Contains(t, content, "set_member(X, S)")
	assert.NotContains(t, content, "[member/2")
}

func TestRenameNotApplicable(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, renameSource)
	p := newPlanner()

	outcome, err := p.Rename(context.Background(), doc, mustParse(t, "member/2"), "member")
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())
	assert.Contains(t, outcome.Reason, "equals the current name")

	outcome, err = p.Rename(context.Background(), doc, mustParse(t, "missing/7"), "found")
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())
	assert.Contains(t, outcome.Reason, "no references")
}

func TestRenameRejectsStaleRevision(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, renameSource)
	outcome, err := newPlanner().Rename(context.Background(), doc, mustParse(t, "member/2"), "elem")
	require.NoError(t, err)
	require.True(t, outcome.Applicable())

	moved := text.NewDocument("test.lgt", 1, renameSource)
	_, err = outcome.Set.Apply(moved)
	assert.ErrorIs(t, err, text.ErrStaleDocument)
}

func TestRenameRejectsAnchorMismatch(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, renameSource)
	outcome, err := newPlanner().Rename(context.Background(), doc, mustParse(t, "member/2"), "elem")
	require.NoError(t, err)
	require.True(t, outcome.Applicable())

	// Same revision stamp, different text underneath.
	drifted := text.NewDocument("test.lgt", 0, strings.Replace(renameSource, "member(X, [X| _])", "shifted(X, [X| _])", 1))
	_, err = outcome.Set.Apply(drifted)
	assert.ErrorIs(t, err, text.ErrStaleDocument)
}

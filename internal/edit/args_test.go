package edit_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/text"
)

const argsSource = `:- public(foo/2).

foo(a, b).
run :- foo(1, 2).
`

func TestAddArgumentAtEnd(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "foo/2"), 3, "Extra")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, ":- public(foo/3).")
	assert.Contains(t, content, "foo(a, b, Extra).")
	assert.Contains(t, content, "run :- foo(1, 2, Extra).")
}

func TestAddArgumentAtFront(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "foo/2"), 1, "Extra")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "foo(Extra, a, b).")
	assert.Contains(t, content, "run :- foo(Extra, 1, 2).")
}

func TestAddArgumentInMiddle(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "foo/2"), 2, "Extra")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "foo(a, Extra, b).")
	assert.Contains(t, content, "run :- foo(1, Extra, 2).")
}

func TestAddArgumentToBareAtom(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "init.\nrun :- init.\n")
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "init/0"), 1, "State")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "init(State).")
	assert.Contains(t, content, "run :- init(State).")
}

func TestAddArgumentBadPosition(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "foo/2"), 4, "Extra")
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())
	assert.Contains(t, outcome.Reason, "outside 1..3")
}

func TestRemoveFirstArgument(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().RemoveArgument(context.Background(), doc, mustParse(t, "foo/2"), 1)
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, ":- public(foo/1).")
	assert.Contains(t, content, "foo(b).")
	assert.Contains(t, content, "run :- foo(2).")
}

func TestRemoveLastArgument(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, argsSource)
	outcome, err := newPlanner().RemoveArgument(context.Background(), doc, mustParse(t, "foo/2"), 2)
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "foo(a).")
	assert.Contains(t, content, "run :- foo(1).")
}

func TestRemoveOnlyArgumentDropsTheGroup(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "foo(a).\nrun :- foo(x).\n")
	outcome, err := newPlanner().RemoveArgument(context.Background(), doc, mustParse(t, "foo/1"), 1)
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "foo.\n")
	assert.Contains(t, content, "run :- foo.")
}

func TestRemoveArgumentFromZeroArity(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "init.\n")
	outcome, err := newPlanner().RemoveArgument(context.Background(), doc, mustParse(t, "init/0"), 1)
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())
}

func TestReorderArguments(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, strings.Join([]string{
		"pair(First, Second, Third).",
		"run :- pair(1, 2, 3).",
	}, "\n"))
	outcome, err := newPlanner().ReorderArguments(context.Background(), doc, mustParse(t, "pair/3"), []int{3, 1, 2})
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "pair(Third, First, Second).")
	assert.Contains(t, content, "run :- pair(3, 1, 2).")
}

func TestReorderArgumentsRejectsBadPermutation(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "pair(1, 2, 3).\n")
	p := newPlanner()

	outcome, err := p.ReorderArguments(context.Background(), doc, mustParse(t, "pair/3"), []int{1, 1, 2})
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())

	outcome, err = p.ReorderArguments(context.Background(), doc, mustParse(t, "pair/3"), []int{1, 2})
	require.NoError(t, err)
	assert.False(t, outcome.Applicable())
}

func TestArgumentEditsSpanLines(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, strings.Join([]string{
		"run :-",
		"\tprocess(first,",
		"\t\tsecond).",
	}, "\n"))
	outcome, err := newPlanner().AddArgument(context.Background(), doc, mustParse(t, "process/2"), 3, "Options")
	require.NoError(t, err)

	content := apply(t, doc, outcome)
	assert.Contains(t, content, "\t\tsecond, Options).")
}

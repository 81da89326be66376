package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/text"
)

func TestApplySingleEdit(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "foo(X).\n")
	set, err := text.NewEditSet(doc, []text.Edit{
		{Range: text.NewRange(0, 0, 3), NewText: "bar", Anchor: "foo"},
	})
	require.NoError(t, err)

	content, err := set.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, "bar(X).\n", content)
}

func TestApplyMultipleEditsBackToFront(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "foo(a, foo(b)).\n")
	set, err := text.NewEditSet(doc, []text.Edit{
		{Range: text.NewRange(0, 0, 3), NewText: "longer_name"},
		{Range: text.NewRange(0, 7, 10), NewText: "longer_name"},
	})
	require.NoError(t, err)

	content, err := set.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, "longer_name(a, longer_name(b)).\n", content)
}

func TestApplyMultiLineReplacement(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, strings.Join([]string{
		"first",
		"second",
		"third",
	}, "\n"))
	set, err := text.NewEditSet(doc, []text.Edit{
		{
			Range:   text.Range{Start: text.Position{Line: 0, Column: 5}, End: text.Position{Line: 2, Column: 0}},
			NewText: " and ",
		},
	})
	require.NoError(t, err)

	content, err := set.Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, "first and third", content)
}

func TestNewEditSetRejectsOverlap(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "abcdefgh\n")
	_, err := text.NewEditSet(doc, []text.Edit{
		{Range: text.NewRange(0, 0, 4), NewText: "x"},
		{Range: text.NewRange(0, 2, 6), NewText: "y"},
	})
	assert.ErrorIs(t, err, text.ErrOverlappingEdits)
}

func TestNewEditSetDropsIdenticalDuplicates(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "abcdefgh\n")
	set, err := text.NewEditSet(doc, []text.Edit{
		{Range: text.NewRange(0, 0, 4), NewText: "x"},
		{Range: text.NewRange(0, 0, 4), NewText: "x"},
	})
	require.NoError(t, err)
	assert.Len(t, set.Edits, 1)
}

func TestApplyRejectsOtherDocument(t *testing.T) {
	doc := text.NewDocument("test.lgt", 3, "foo.\n")
	set, err := text.NewEditSet(doc, []text.Edit{
		{Range: text.NewRange(0, 0, 3), NewText: "bar"},
	})
	require.NoError(t, err)

	_, err = set.Apply(text.NewDocument("test.lgt", 4, "foo.\n"))
	assert.ErrorIs(t, err, text.ErrStaleDocument)

	_, err = set.Apply(text.NewDocument("other.lgt", 3, "foo.\n"))
	assert.ErrorIs(t, err, text.ErrStaleDocument)
}

func TestDocumentLinesAndSlices(t *testing.T) {
	doc := text.NewDocument("test.lgt", 0, "one\r\ntwo\nthree")
	assert.Equal(t, 3, doc.LineCount())
	assert.Equal(t, "one", doc.Line(0), "carriage returns are stripped")
	assert.Equal(t, "two", doc.Line(1))
	assert.Equal(t, "", doc.Line(9), "out of range reads as empty")

	slice := doc.Slice(text.Range{
		Start: text.Position{Line: 0, Column: 2},
		End:   text.Position{Line: 1, Column: 1},
	})
	assert.Equal(t, "e\nt", slice)
}

func TestRangeContainsAndOverlaps(t *testing.T) {
	r := text.NewRange(1, 2, 8)
	assert.True(t, r.Contains(text.Position{Line: 1, Column: 2}))
	assert.True(t, r.Contains(text.Position{Line: 1, Column: 7}))
	assert.False(t, r.Contains(text.Position{Line: 1, Column: 8}), "end is exclusive")

	assert.True(t, r.Overlaps(text.NewRange(1, 7, 9)))
	assert.False(t, r.Overlaps(text.NewRange(1, 8, 9)), "touching is not overlap")
}

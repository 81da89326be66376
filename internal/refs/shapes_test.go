package refs_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/refs"
)

func TestDirectiveShapes(t *testing.T) {
	content := strings.Join([]string{
		":- dynamic(counter/1).",
		":- discontiguous(step/2).",
		":- meta_predicate(map(1, *)).",
		":- mode(counter(-integer), one).",
		"counter(0).",
	}, "\n")

	counter := find(t, content, "counter/1", refs.Options{})
	require.Len(t, counter, 3)
	assert.Equal(t, refs.CrossReference, counter[0].Role, "dynamic/1")
	assert.Equal(t, refs.CrossReference, counter[1].Role, "mode/2")
	assert.Equal(t, refs.ClauseHead, counter[2].Role)

	step := find(t, content, "step/2", refs.Options{})
	require.Len(t, step, 1)
	assert.Equal(t, refs.CrossReference, step[0].Role)

	mapped := find(t, content, "map/2", refs.Options{})
	require.Len(t, mapped, 1)
	assert.Equal(t, refs.CrossReference, mapped[0].Role, "meta_predicate template")
}

func TestUnknownDirectiveFallsBackToCallable(t *testing.T) {
	content := ":- initialization(run(main)).\n"

	located := find(t, content, "run/1", refs.Options{})
	require.Len(t, located, 1)
	assert.Equal(t, refs.BodyCall, located[0].Role)
}

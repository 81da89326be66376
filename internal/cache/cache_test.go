package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/cache"
	"lgtls/internal/text"
)

const source = ":- object(a).\nfoo.\n:- end_object.\n"

func TestIndexReusedForSameRevision(t *testing.T) {
	store := cache.New()
	doc := text.NewDocument("test.lgt", 0, source)

	first, err := store.Index(context.Background(), doc)
	require.NoError(t, err)
	second, err := store.Index(context.Background(), doc)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRevisionChangeRecomputes(t *testing.T) {
	store := cache.New()
	old := text.NewDocument("test.lgt", 0, source)
	first, err := store.Index(context.Background(), old)
	require.NoError(t, err)

	bumped := text.NewDocument("test.lgt", 1, source+"\nbar.\n")
	second, err := store.Index(context.Background(), bumped)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int64(1), second.Revision())
}

func TestEntitiesCached(t *testing.T) {
	store := cache.New()
	doc := text.NewDocument("test.lgt", 0, source)

	entities, err := store.Entities(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "a", entities[0].Name)

	again, err := store.Entities(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, entities, again)
}

func TestEntitiesEmptyDocumentIsNotAMiss(t *testing.T) {
	store := cache.New()
	doc := text.NewDocument("plain.lgt", 0, "foo.\n")

	entities, err := store.Entities(context.Background(), doc)
	require.NoError(t, err)
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}

func TestInvalidate(t *testing.T) {
	store := cache.New()
	doc := text.NewDocument("test.lgt", 0, source)

	first, err := store.Index(context.Background(), doc)
	require.NoError(t, err)

	store.Invalidate("test.lgt")
	second, err := store.Index(context.Background(), doc)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestCancellationPropagates(t *testing.T) {
	store := cache.New()
	doc := text.NewDocument("test.lgt", 0, source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Index(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
}

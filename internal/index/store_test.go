package index_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lgtls/internal/entity"
	"lgtls/internal/index"
	"lgtls/internal/refs"
)

func openStore(t *testing.T) *index.Store {
	t.Helper()
	store, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecords() (index.FileRecord, []index.EntityRecord, []index.DeclRecord) {
	file := index.FileRecord{Path: "src/lists.lgt", Checksum: 42, LastModified: 1700000000}
	entities := []index.EntityRecord{
		{Path: file.Path, Kind: entity.Object, Name: "lists", StartLine: 0, EndLine: 30},
	}
	decls := []index.DeclRecord{
		{Path: file.Path, Entity: "lists", Name: "member", Arity: 2, Form: refs.Predicate, Role: "declaration", Line: 3, Col: 2},
		{Path: file.Path, Entity: "lists", Name: "member", Arity: 2, Form: refs.Predicate, Role: "head", Line: 10, Col: 1},
		{Path: file.Path, Entity: "lists", Name: "append", Arity: 3, Form: refs.Predicate, Role: "declaration", Line: 4, Col: 2},
	}
	return file, entities, decls
}

func TestReplaceAndGetFile(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()

	require.NoError(t, store.ReplaceFile(file, entities, decls))

	got, err := store.GetFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, file.Checksum, got.Checksum)
	assert.Equal(t, file.LastModified, got.LastModified)

	_, err = store.GetFile("missing.lgt")
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestReplaceFileIsIdempotent(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()

	require.NoError(t, store.ReplaceFile(file, entities, decls))
	file.Checksum = 43
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	got, err := store.GetFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, uint64(43), got.Checksum)

	found, err := store.LookupDeclarations(refs.Indicator{Name: "member", Arity: 2})
	require.NoError(t, err)
	assert.Len(t, found, 2, "old rows replaced, not accumulated")
}

func TestLookupDeclarationsOrdersDeclarationsFirst(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	found, err := store.LookupDeclarations(refs.Indicator{Name: "member", Arity: 2})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "declaration", found[0].Role)
	assert.Equal(t, "head", found[1].Role)

	none, err := store.LookupDeclarations(refs.Indicator{Name: "member", Arity: 3})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLookupEntity(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	found, err := store.LookupEntity("lists")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entity.Object, found[0].Kind)
	assert.Equal(t, file.Path, found[0].Path)
}

func TestDeleteFileCascades(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	require.NoError(t, store.DeleteFile(file.Path))
	_, err := store.GetFile(file.Path)
	assert.ErrorIs(t, err, index.ErrNotFound)

	found, err := store.LookupDeclarations(refs.Indicator{Name: "member", Arity: 2})
	require.NoError(t, err)
	assert.Empty(t, found, "declarations go with their file")

	assert.ErrorIs(t, store.DeleteFile(file.Path), index.ErrNotFound)
}

func TestSearchSymbols(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	foundDecls, foundEntities, err := store.SearchSymbols("mem", 10)
	require.NoError(t, err)
	require.Len(t, foundDecls, 1, "only declaration rows, not heads")
	assert.Equal(t, "member", foundDecls[0].Name)
	assert.Empty(t, foundEntities)

	foundDecls, foundEntities, err = store.SearchSymbols("li", 10)
	require.NoError(t, err)
	assert.Empty(t, foundDecls)
	require.Len(t, foundEntities, 1)
	assert.Equal(t, "lists", foundEntities[0].Name)
}

func TestPaths(t *testing.T) {
	store := openStore(t)
	file, entities, decls := sampleRecords()
	require.NoError(t, store.ReplaceFile(file, entities, decls))

	other := index.FileRecord{Path: "src/other.lgt", Checksum: 7}
	require.NoError(t, store.ReplaceFile(other, nil, nil))

	paths, err := store.Paths()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/lists.lgt", "src/other.lgt"}, paths)
}

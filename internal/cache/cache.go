// Package cache holds derived scan results keyed by document URI and
// revision. The cache is an explicit object owned by the caller and passed
// into operations; there is no module-level singleton. Whenever a
// document's revision advances, everything derived from the previous
// revision is dropped in full, trading recomputation for the absence of
// fine-grained invalidation bugs.
package cache

import (
	"context"
	"sync"

	"lgtls/internal/entity"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

type entry struct {
	revision int64
	index    *scanner.Index
	entities []entity.Entity
}

// Store caches per-document derived results. Safe for concurrent use:
// independent scans over different documents share one Store.
type Store struct {
	mu     sync.Mutex
	perURI map[string]*entry
}

func New() *Store {
	return &Store{perURI: make(map[string]*entry)}
}

// Index returns the scan index for doc, computing it on a miss or a
// revision change.
func (s *Store) Index(ctx context.Context, doc *text.Document) (*scanner.Index, error) {
	e := s.lookup(doc)
	if e != nil && e.index != nil {
		return e.index, nil
	}
	idx, err := scanner.NewIndex(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.store(doc, func(e *entry) { e.index = idx })
	return idx, nil
}

// Entities returns the entity model for doc, computing it on a miss or a
// revision change.
func (s *Store) Entities(ctx context.Context, doc *text.Document) ([]entity.Entity, error) {
	e := s.lookup(doc)
	if e != nil && e.entities != nil {
		return e.entities, nil
	}
	idx, err := s.Index(ctx, doc)
	if err != nil {
		return nil, err
	}
	entities, err := entity.Scan(ctx, doc, idx)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []entity.Entity{}
	}
	s.store(doc, func(e *entry) { e.entities = entities })
	return entities, nil
}

// Invalidate drops everything cached for a URI, for document close.
func (s *Store) Invalidate(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.perURI, uri)
}

// lookup returns the live entry for doc's exact revision, or nil.
func (s *Store) lookup(doc *text.Document) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.perURI[doc.URI()]
	if !ok || e.revision != doc.Revision() {
		return nil
	}
	return e
}

// store updates the entry for doc's revision, discarding any entry from an
// older snapshot.
func (s *Store) store(doc *text.Document, set func(*entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.perURI[doc.URI()]
	if !ok || e.revision != doc.Revision() {
		e = &entry{revision: doc.Revision()}
		s.perURI[doc.URI()] = e
	}
	set(e)
}

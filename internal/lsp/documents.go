package lsp

import (
	"fmt"
	"sync"

	"lgtls/internal/text"
)

// DocumentManager tracks the open documents by URI. Each change produces a
// fresh immutable snapshot with a bumped revision, so in-flight scans keep
// reading the snapshot they started from.
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[string]*text.Document
}

func NewDocumentManager() *DocumentManager {
	return &DocumentManager{docs: make(map[string]*text.Document)}
}

func (m *DocumentManager) Open(uri, content string) *text.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := text.NewDocument(uri, 0, content)
	m.docs[uri] = doc
	return doc
}

func (m *DocumentManager) Get(uri string) (*text.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	return doc, nil
}

// Replace installs new full content for an open document and returns the
// new snapshot.
func (m *DocumentManager) Replace(uri, content string) (*text.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	doc := text.NewDocument(uri, old.Revision()+1, content)
	m.docs[uri] = doc
	return doc, nil
}

// Splice applies one ranged change to an open document and returns the new
// snapshot.
func (m *DocumentManager) Splice(uri string, rng text.Range, newText string) (*text.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotOpen, uri)
	}
	content := spliceContent(old, rng, newText)
	doc := text.NewDocument(uri, old.Revision()+1, content)
	m.docs[uri] = doc
	return doc, nil
}

func (m *DocumentManager) Close(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

func spliceContent(doc *text.Document, rng text.Range, newText string) string {
	start := offsetOf(doc, rng.Start)
	end := offsetOf(doc, rng.End)
	content := doc.Content()
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	if end < start {
		end = start
	}
	return content[:start] + newText + content[end:]
}

// offsetOf maps a position to a byte offset in the joined content, where
// every line break counts as one byte.
func offsetOf(doc *text.Document, p text.Position) int {
	off := 0
	for l := 0; l < p.Line && l < doc.LineCount(); l++ {
		off += len(doc.Line(l)) + 1
	}
	if p.Line < doc.LineCount() {
		col := p.Column
		if col > len(doc.Line(p.Line)) {
			col = len(doc.Line(p.Line))
		}
		off += col
	}
	return off
}

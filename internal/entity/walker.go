package entity

import (
	"strings"

	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

// walker steps byte by byte through a document range, skipping comment
// bytes and presenting line breaks as single spaces, so shallow argument
// parsing can ignore physical line layout.
type walker struct {
	doc *text.Document
	idx *scanner.Index
	cur text.Position
	end text.Position
}

func newWalker(doc *text.Document, idx *scanner.Index, from, to text.Position) *walker {
	w := &walker{doc: doc, idx: idx, cur: from, end: to}
	w.skipComments()
	return w
}

func (w *walker) pos() text.Position { return w.cur }

func (w *walker) done() bool {
	return !w.cur.Before(w.end)
}

func (w *walker) state() scanner.State {
	return w.idx.Line(w.cur.Line).StateAt(w.cur.Column)
}

// peek returns the byte at the cursor. Positions past end of line read as
// a space so tokens split across lines stay separated.
func (w *walker) peek() (byte, bool) {
	if w.done() {
		return 0, false
	}
	line := w.doc.Line(w.cur.Line)
	if w.cur.Column >= len(line) {
		return ' ', true
	}
	return line[w.cur.Column], true
}

func (w *walker) next() {
	if w.done() {
		return
	}
	line := w.doc.Line(w.cur.Line)
	if w.cur.Column >= len(line) {
		w.cur = text.Position{Line: w.cur.Line + 1, Column: 0}
	} else {
		w.cur.Column++
	}
	w.skipComments()
}

// skipComments advances the cursor past any bytes classified as comments.
func (w *walker) skipComments() {
	for !w.done() {
		s := w.state()
		if s != scanner.LineComment && s != scanner.BlockComment {
			return
		}
		line := w.doc.Line(w.cur.Line)
		if w.cur.Column >= len(line) {
			w.cur = text.Position{Line: w.cur.Line + 1, Column: 0}
		} else {
			w.cur.Column++
		}
	}
}

func (w *walker) skipSpace() {
	for {
		ch, ok := w.peek()
		if !ok || (ch != ' ' && ch != '\t') {
			return
		}
		w.next()
	}
}

// consumeSymbol reads a run of identifier characters in Code state.
func (w *walker) consumeSymbol() string {
	var b strings.Builder
	for {
		ch, ok := w.peek()
		if !ok || w.state() != scanner.Code || !isSymbolByte(ch) {
			return b.String()
		}
		b.WriteByte(ch)
		w.next()
	}
}

// consumeQuotedAtom reads a quoted atom including both quotes. The cursor
// must sit on the opening quote.
func (w *walker) consumeQuotedAtom() string {
	var b strings.Builder
	ch, ok := w.peek()
	if !ok {
		return ""
	}
	b.WriteByte(ch)
	w.next()
	for {
		ch, ok := w.peek()
		if !ok {
			return b.String()
		}
		s := w.state()
		if s != scanner.QuotedAtom {
			return b.String()
		}
		b.WriteByte(ch)
		w.next()
	}
}

func isSymbolByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

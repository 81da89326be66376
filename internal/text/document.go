package text

import (
	"strings"
)

// Document is an immutable snapshot of a source file, split into lines.
// The host editor owns the text; a Document is never mutated, only replaced
// by a new snapshot with a higher revision.
type Document struct {
	uri      string
	revision int64
	lines    []string
}

// NewDocument builds a snapshot from full file content. Line splitting
// accepts both LF and CRLF; the terminators are not part of the lines.
func NewDocument(uri string, revision int64, content string) *Document {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &Document{uri: uri, revision: revision, lines: lines}
}

func (d *Document) URI() string     { return d.uri }
func (d *Document) Revision() int64 { return d.revision }

// LineCount returns the number of lines in the snapshot.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the text of the given zero-based line, without terminator.
// Out-of-range lines yield the empty string.
func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// Content joins the snapshot back into a single string.
func (d *Document) Content() string {
	return strings.Join(d.lines, "\n")
}

// Slice returns the text covered by r. Multi-line ranges include the
// newlines between lines.
func (d *Document) Slice(r Range) string {
	if r.Start.Line == r.End.Line {
		line := d.Line(r.Start.Line)
		return sliceLine(line, r.Start.Column, r.End.Column)
	}
	var b strings.Builder
	first := d.Line(r.Start.Line)
	b.WriteString(sliceLine(first, r.Start.Column, len(first)))
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		b.WriteByte('\n')
		b.WriteString(d.Line(l))
	}
	b.WriteByte('\n')
	b.WriteString(sliceLine(d.Line(r.End.Line), 0, r.End.Column))
	return b.String()
}

func sliceLine(line string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}

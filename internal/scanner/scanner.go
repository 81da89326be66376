// Package scanner classifies Logtalk source text character by character,
// distinguishing code from comments and quoted literals, and tracks bracket
// nesting depth. It is a heuristic line-oriented state machine, not a term
// parser: it recovers just enough structure for boundary location and
// reference search, and resynchronizes at line starts when the input is
// malformed so a bad literal never poisons the rest of the file.
package scanner

// State is the classifier's notion of what kind of text the cursor is in.
type State int

const (
	Code State = iota
	LineComment
	BlockComment
	QuotedAtom
	QuotedString
	BackQuotedString
	CharCode
)

func (s State) String() string {
	switch s {
	case Code:
		return "code"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case QuotedAtom:
		return "quoted-atom"
	case QuotedString:
		return "quoted-string"
	case BackQuotedString:
		return "back-quoted-string"
	case CharCode:
		return "char-code"
	}
	return "unknown"
}

// Quoted reports whether the state is inside any quoted literal.
func (s State) Quoted() bool {
	return s == QuotedAtom || s == QuotedString || s == BackQuotedString
}

// Cursor is the classifier state carried across line boundaries.
type Cursor struct {
	State   State
	Depth   int  // bracket nesting, counted while in Code only
	Escaped bool // next character is escaped inside a quoted literal
}

// StartCursor is the state at column 0 of line 0.
func StartCursor() Cursor {
	return Cursor{State: Code}
}

func quoteFor(s State) byte {
	switch s {
	case QuotedAtom:
		return '\''
	case QuotedString:
		return '"'
	case BackQuotedString:
		return '`'
	}
	return 0
}

// LineScan is the classification of one physical line. States[i] and
// Depths[i] hold the state and depth in effect before consuming byte i.
type LineScan struct {
	Start  Cursor
	End    Cursor
	States []State
	Depths []int

	// Malformed is set when the line ends inside a quoted literal without
	// a continuation backslash. The end cursor is reset to Code so the
	// damage is bounded to this line.
	Malformed bool
}

// ScanLine classifies a single line starting from the given cursor. The
// line must not contain the terminating newline.
func ScanLine(start Cursor, line string) LineScan {
	scan := LineScan{
		Start:  start,
		States: make([]State, len(line)),
		Depths: make([]int, len(line)),
	}
	cur := start

	// A line comment never crosses a newline.
	if cur.State == LineComment {
		cur.State = Code
	}

	for i := 0; i < len(line); {
		scan.States[i] = cur.State
		scan.Depths[i] = cur.Depth
		ch := line[i]

		switch cur.State {
		case Code:
			switch {
			case ch == '%':
				cur.State = LineComment
				i++
			case ch == '/' && i+1 < len(line) && line[i+1] == '*':
				cur.State = BlockComment
				scan.note(i+1, cur)
				i += 2
			case ch == '\'' && isCharCodeQuote(line, i):
				i = consumeCharCode(&scan, cur, line, i)
			case ch == '\'':
				cur.State = QuotedAtom
				i++
			case ch == '"':
				cur.State = QuotedString
				i++
			case ch == '`':
				cur.State = BackQuotedString
				i++
			case ch == '(' || ch == '[' || ch == '{':
				cur.Depth++
				i++
			case ch == ')' || ch == ']' || ch == '}':
				cur.Depth--
				i++
			default:
				i++
			}

		case LineComment:
			i++

		case BlockComment:
			if ch == '*' && i+1 < len(line) && line[i+1] == '/' {
				scan.note(i+1, cur)
				cur.State = Code
				i += 2
			} else {
				i++
			}

		default: // quoted literal
			quote := quoteFor(cur.State)
			switch {
			case cur.Escaped:
				cur.Escaped = false
				i++
			case ch == '\\':
				cur.Escaped = true
				i++
			case ch == quote && i+1 < len(line) && line[i+1] == quote:
				// Doubled quote stays inside the literal.
				scan.note(i+1, cur)
				i += 2
			case ch == quote:
				cur.State = Code
				i++
			default:
				i++
			}
		}
	}

	// A trailing backslash continues a quoted literal onto the next line;
	// anything else left open at end of line is malformed. The backslash
	// escapes the newline itself, not the next line's first character.
	if cur.State.Quoted() {
		if cur.Escaped {
			cur.Escaped = false
		} else {
			scan.Malformed = true
			cur.State = Code
		}
	}
	if cur.State == LineComment {
		cur.State = Code
	}

	scan.End = cur
	return scan
}

// note records state and depth for a byte consumed as part of a multi-byte
// token, keeping the per-column arrays dense.
func (s *LineScan) note(i int, cur Cursor) {
	if i < len(s.States) {
		s.States[i] = cur.State
		s.Depths[i] = cur.Depth
	}
}

// isCharCodeQuote reports whether the quote at position i opens a 0'c
// character-code literal rather than a quoted atom. The preceding zero must
// itself start a number: "a0'x'" is an atom a0 followed by a quoted atom.
func isCharCodeQuote(line string, i int) bool {
	if i == 0 || line[i-1] != '0' {
		return false
	}
	if i >= 2 && isSymbolChar(line[i-2]) {
		return false
	}
	return true
}

func isSymbolChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// consumeCharCode consumes the quote and escape of a 0'c literal, marking
// every byte as CharCode so a literal period or bracket can never pass for
// clause structure. Returns the index after the literal's character.
func consumeCharCode(scan *LineScan, cur Cursor, line string, i int) int {
	lit := cur
	lit.State = CharCode
	scan.note(i, lit)
	i++ // the quote
	if i >= len(line) {
		return i
	}
	switch {
	case line[i] == '\\':
		// 0'\n, 0'\\, and octal/hex forms like 0'\x41\ or 0'\101\.
		scan.note(i, lit)
		i++
		if i < len(line) {
			numeric := line[i] == 'x' || (line[i] >= '0' && line[i] <= '7')
			scan.note(i, lit)
			i++
			for numeric && i < len(line) {
				scan.note(i, lit)
				i++
				if line[i-1] == '\\' || !isSymbolChar(line[i-1]) {
					break
				}
			}
		}
	case line[i] == '\'' && i+1 < len(line) && line[i+1] == '\'':
		// 0''' denotes the quote character itself.
		scan.note(i, lit)
		scan.note(i+1, lit)
		i += 2
	default:
		scan.note(i, lit)
		i++
	}
	return i
}

// StateAt returns the classifier state before consuming the byte at col.
// Columns at or past end of line report the end-of-line state.
func (s LineScan) StateAt(col int) State {
	if col < 0 {
		return s.Start.State
	}
	if col >= len(s.States) {
		return s.End.State
	}
	return s.States[col]
}

// DepthAt returns the bracket depth before consuming the byte at col.
func (s LineScan) DepthAt(col int) int {
	if col < 0 {
		return s.Start.Depth
	}
	if col >= len(s.Depths) {
		return s.End.Depth
	}
	return s.Depths[col]
}

// TerminatorAfter returns the column of the first clause-terminating period
// at or after col: a Code-state '.' at depth zero followed by whitespace,
// a line comment, or end of line. Returns -1 when the line has none.
func (s LineScan) TerminatorAfter(line string, col int) int {
	if col < 0 {
		col = 0
	}
	for i := col; i < len(line); i++ {
		if line[i] != '.' || s.States[i] != Code || s.Depths[i] != 0 {
			continue
		}
		if i+1 >= len(line) {
			return i
		}
		next := line[i+1]
		if next == ' ' || next == '\t' || next == '%' {
			return i
		}
	}
	return -1
}

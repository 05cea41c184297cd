package diag

import (
	"fmt"
	"strings"

	"github.com/keurnel/logsim/internal/sourcetext"
)

// Anchor selects where the caret points relative to a token's span, mirroring
// the four anchor points the scanner can reconstruct (§4.2): the end of the
// token, its beginning, the start of its line, or just behind the previous
// token.
type Anchor int

const (
	AnchorEnd Anchor = iota
	AnchorStart
	AnchorLineStart
	AnchorBehindPrevious
)

// Entry describes one rendered diagnostic: the error code, an optional
// formatting suffix, and the source position the caret points at.
type Entry struct {
	Code      Code
	Suffix    string
	Line      int
	LineStart int
	TokenPos  int // byte offset of the last character of the offending token
	TokenLen  int
	Anchor    Anchor
}

// Render formats an "Error in line: N" block: the line number, the
// offending source line, a caret pointer, and the catalogue's
// human-readable message. The caret reconstruction reads only from src's
// in-memory content and line table — it never reopens the file.
func Render(cat *Catalogue, src sourcetext.Source, e Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Error in line: %d\n", e.Line)

	line := src.LineText(e.LineStart)
	b.WriteString(line)
	b.WriteByte('\n')

	caretCol := caretColumn(e, line)
	if caretCol > 0 {
		b.WriteString(strings.Repeat(" ", caretCol))
	}
	b.WriteString("^\n")

	b.WriteString(cat.Message(e.Code, e.Suffix))
	return b.String()
}

// caretColumn computes the 0-based column the caret should be printed under,
// given the chosen anchor. TokenPos is an absolute byte offset; it is made
// relative to the line by subtracting LineStart here.
func caretColumn(e Entry, line string) int {
	rel := e.TokenPos - e.LineStart
	if rel < 0 {
		rel = 0
	}
	if rel > len(line) {
		rel = len(line)
	}

	switch e.Anchor {
	case AnchorLineStart:
		return 0
	case AnchorStart:
		start := rel - e.TokenLen + 1
		if start < 0 {
			start = 0
		}
		return start
	case AnchorBehindPrevious:
		start := rel - e.TokenLen + 1
		if start < 0 {
			start = 0
		}
		// Skip back past the spaces before the token, matching the original
		// scanner's "behind" pointer which lands just after the previous
		// word rather than on the space separating it from this token.
		for start > 0 && line[start-1] == ' ' {
			start--
		}
		return start
	default: // AnchorEnd
		return rel
	}
}

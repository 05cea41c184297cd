package scanner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/keurnel/logsim/internal/names"
	"github.com/keurnel/logsim/internal/sourcetext"
)

var (
	nameRule   = regexp.MustCompile(`^[A-Z]+\d+$`)
	inRule     = regexp.MustCompile(`^[A-Z]+\d+\.((I\d+)|DATA|CLK|CLEAR|SET)$`)
	outRule    = regexp.MustCompile(`^[A-Z]+\d+(\.(Q|QBAR))?$`)
	siggenRule = regexp.MustCompile(`^"[01]+"$`)
)

// Scanner reads a sourcetext.Source one rune at a time and classifies
// symbols into Tokens. Unlike the reference implementation, it never reopens
// the file for diagnostics: the Source already holds the full content and a
// line-offset table, so every Pos/LineStart pair scanner hands out is enough
// for diag.Render to locate and print the offending line.
type Scanner struct {
	names *names.Table
	src   sourcetext.Source

	content string
	pos     int // next unread byte offset

	lineStart int // byte offset of the first char of the current line

	// InvalidComment latches true the first time an unterminated comment is
	// found; it is reported once per file, not once per occurrence.
	InvalidComment bool

	keywordIDs map[string]names.ID
}

// New returns a Scanner over src, interning the fixed device-kind keywords
// into tab so devices and the parser can compare them by ID.
func New(src sourcetext.Source, tab *names.Table) (*Scanner, error) {
	ids, err := tab.Intern(keywords)
	if err != nil {
		return nil, err
	}
	keywordIDs := make(map[string]names.ID, len(keywords))
	for i, kw := range keywords {
		keywordIDs[kw] = ids[i]
	}
	return &Scanner{
		names:      tab,
		src:        src,
		content:    src.Content(),
		keywordIDs: keywordIDs,
	}, nil
}

func (s *Scanner) peek() byte {
	if s.pos >= len(s.content) {
		return 0
	}
	return s.content[s.pos]
}

func (s *Scanner) advance() byte {
	c := s.peek()
	if s.pos < len(s.content) {
		s.pos++
	}
	if c == '\n' {
		s.lineStart = s.pos
	}
	return c
}

func isAlpha(c byte) bool  { return unicode.IsLetter(rune(c)) }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool  { return isAlpha(c) || isDigit(c) }
func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func (s *Scanner) skipSpacesAndLinebreaks() {
	for s.pos < len(s.content) && isSpace(s.peek()) {
		s.advance()
	}
}

func (s *Scanner) readName() string {
	start := s.pos
	for s.pos < len(s.content) && (isAlnum(s.peek()) || s.peek() == '_') {
		s.advance()
	}
	return s.content[start:s.pos]
}

func (s *Scanner) readNumber() string {
	start := s.pos
	for s.pos < len(s.content) && isDigit(s.peek()) {
		s.advance()
	}
	return s.content[start:s.pos]
}

// skipComment consumes a "/*" ... "*/" block comment, having already
// consumed the leading "/*". It sets InvalidComment and returns false if the
// file ends before the comment is closed.
func (s *Scanner) skipComment() bool {
	if s.pos >= len(s.content) {
		s.InvalidComment = true
		return false
	}
	endLeft := s.advance()
	if s.pos >= len(s.content) {
		s.InvalidComment = true
		return false
	}
	endRight := s.advance()

	for !(endLeft == '*' && endRight == '/') {
		if s.pos >= len(s.content) {
			s.InvalidComment = true
			return false
		}
		endLeft = endRight
		endRight = s.advance()
	}
	return true
}

// NextToken returns the next Token in the stream, or a Token with Kind ==
// EOF once the source is exhausted.
func (s *Scanner) NextToken() Token {
	s.skipSpacesAndLinebreaks()

	if s.pos >= len(s.content) {
		return Token{Kind: EOF, Pos: s.pos, LineStart: s.lineStart}
	}
	if s.peek() == ';' {
		s.advance()
		return Token{Kind: Semicolon, Text: ";", Pos: s.pos - 1, LineStart: s.lineStart}
	}

	var b strings.Builder
	for s.pos < len(s.content) && !isSpace(s.peek()) {
		c := s.peek()
		switch {
		case isAlpha(c):
			b.WriteString(s.readName())
		case isDigit(c):
			b.WriteString(s.readNumber())
		case c == '"':
			b.WriteByte(c)
			s.advance()
		case c == ';':
			goto done
		case c == '/':
			s.advance()
			if s.pos < len(s.content) && s.peek() == '*' {
				s.advance()
				if !s.skipComment() {
					return Token{Kind: EOF, Pos: s.pos, LineStart: s.lineStart}
				}
				s.skipSpacesAndLinebreaks()
				// A comment does not end the token being built — characters
				// on either side of it merge into one symbol string, mirroring
				// the reference scanner's loop-continues-after-comment logic.
			} else {
				b.WriteByte('/')
			}
		default:
			b.WriteByte(c)
			s.advance()
		}
	}
done:
	text := b.String()
	tok := Token{Pos: s.pos - 1, LineStart: s.lineStart}
	s.classify(text, &tok)
	return tok
}

func (s *Scanner) classify(text string, tok *Token) {
	if kind, ok := reservedWords[text]; ok {
		tok.Kind = kind
		tok.Text = text
		return
	}
	switch {
	case nameRule.MatchString(text):
		tok.Kind = DeviceName
		tok.Text = text
		tok.ID = s.internOne(text)
	case isAllDigits(text):
		tok.Kind = Number
		tok.Text = text
		tok.ID = s.internOne(text)
	case inRule.MatchString(text):
		tok.Kind = DeviceIn
		tok.Text = text
		tok.ID = s.internOne(text)
	case isKeyword(text):
		tok.Kind = DeviceType
		tok.Text = text
		tok.ID = s.keywordIDs[text]
	case outRule.MatchString(text):
		tok.Kind = DeviceOut
		tok.Text = text
		tok.ID = s.internOne(text)
	case siggenRule.MatchString(text):
		tok.Kind = SiggenWave
		tok.Text = strings.Trim(text, `"`)
		tok.ID = s.internOne(tok.Text)
	default:
		tok.Kind = Invalid
		tok.Text = text
	}
}

func (s *Scanner) internOne(text string) names.ID {
	id, err := s.names.InternOne(text)
	if err != nil {
		return 0
	}
	return id
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isKeyword(s string) bool {
	for _, kw := range keywords {
		if kw == s {
			return true
		}
	}
	return false
}

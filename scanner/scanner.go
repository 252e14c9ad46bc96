// Package scanner turns CSS text into component values.
package scanner

import (
	"strconv"
	"strings"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/token"
)

// Tokenize scans css into a list of top-level component values. Blocks and
// functions hold their nested component values. If skipComments is set,
// comments are dropped at every nesting level.
func Tokenize(css string, skipComments bool) []ast.Node {
	s := New(css)
	s.SkipComments = skipComments
	return s.ScanAll()
}

// Scanner implements a CSS3 scanner over a string.
//
// The input is not normalized: newlines and NUL code points are interpreted
// while scanning, so every token keeps its exact source text.
type Scanner struct {
	// SkipComments drops comment tokens from the output.
	SkipComments bool

	src []rune
	off int // offset of the next code point
	pos token.Pos
}

// New returns a new instance of Scanner.
func New(css string) *Scanner {
	return &Scanner{
		src: []rune(css),
		pos: token.Pos{Line: 1, Column: 1},
	}
}

// frame is an open block waiting for its closing code point.
type frame struct {
	nodes  *[]ast.Node
	closed *bool
	closer rune
}

// ScanAll scans the remaining input. Nesting is tracked with an explicit
// stack so deeply nested input does not grow the call stack.
func (s *Scanner) ScanAll() []ast.Node {
	var out []ast.Node
	stack := []frame{{nodes: &out, closer: token.EOF}}

	for s.peek(0) != token.EOF {
		top := &stack[len(stack)-1]
		pos := s.pos

		// A matching closer ends the innermost block. Mismatched closers
		// fall through and become literals.
		if ch := s.peek(0); ch == top.closer {
			s.next()
			*top.closed = true
			stack = stack[:len(stack)-1]
			continue
		}

		switch s.peek(0) {
		case '(':
			s.next()
			b := &ast.ParenthesesBlock{Pos: pos}
			*top.nodes = append(*top.nodes, b)
			stack = append(stack, frame{nodes: &b.Content, closed: &b.Closed, closer: ')'})
			continue
		case '[':
			s.next()
			b := &ast.SquareBracketsBlock{Pos: pos}
			*top.nodes = append(*top.nodes, b)
			stack = append(stack, frame{nodes: &b.Content, closed: &b.Closed, closer: ']'})
			continue
		case '{':
			s.next()
			b := &ast.CurlyBracketsBlock{Pos: pos}
			*top.nodes = append(*top.nodes, b)
			stack = append(stack, frame{nodes: &b.Content, closed: &b.Closed, closer: '}'})
			continue
		}

		n := s.Scan()
		switch n := n.(type) {
		case *ast.Function:
			*top.nodes = append(*top.nodes, n)
			stack = append(stack, frame{nodes: &n.Arguments, closed: &n.Closed, closer: ')'})
			continue
		case *ast.Comment:
			if s.SkipComments {
				continue
			}
		}
		*top.nodes = append(*top.nodes, n)
	}
	return out
}

// Scan consumes a single token. Opening brackets are returned as literals;
// a function token is returned with no arguments and its "(" consumed.
// Returns nil at EOF.
func (s *Scanner) Scan() ast.Node {
	ch0, ch1 := s.peek(0), s.peek(1)
	switch {
	case ch0 == token.EOF:
		return nil
	case token.IsWhitespace(ch0):
		return s.scanWhitespace()
	case ch0 == '"' || ch0 == '\'':
		return s.scanString()
	case ch0 == '#':
		return s.scanHash()
	case ch0 == '/' && ch1 == '*':
		return s.scanComment()
	case ch0 == '<' && ch1 == '!' && s.peek(2) == '-' && s.peek(3) == '-':
		return s.scanLiteral(4)
	case ch0 == '@':
		if token.StartsIdent(ch1, s.peek(2), s.peek(3)) {
			return s.scanAtKeyword()
		}
		return s.scanLiteral(1)
	case (ch0 == 'u' || ch0 == 'U') && ch1 == '+' && (token.IsHexDigit(s.peek(2)) || s.peek(2) == '?'):
		return s.scanUnicodeRange()
	case s.peekNumber():
		return s.scanNumeric()
	case ch0 == '-' && ch1 == '-' && s.peek(2) == '>':
		return s.scanLiteral(3)
	case s.peekIdent():
		return s.scanIdent()
	}
	return s.scanLiteral(1)
}

// scanLiteral consumes n code points as a literal token.
func (s *Scanner) scanLiteral(n int) ast.Node {
	pos, start := s.pos, s.off
	for i := 0; i < n; i++ {
		s.next()
	}
	return &ast.Literal{Pos: pos, Value: s.raw(start)}
}

// scanWhitespace consumes a run of whitespace.
func (s *Scanner) scanWhitespace() ast.Node {
	pos, start := s.pos, s.off
	for token.IsWhitespace(s.peek(0)) {
		s.next()
	}
	return &ast.Whitespace{Pos: pos, Value: s.raw(start)}
}

// scanComment consumes all code points up to "*/", inclusive, or to EOF.
func (s *Scanner) scanComment() ast.Node {
	pos, start := s.pos, s.off
	s.next()
	s.next()
	var buf strings.Builder
	for {
		ch := s.peek(0)
		if ch == token.EOF {
			break
		} else if ch == '*' && s.peek(1) == '/' {
			s.next()
			s.next()
			break
		}
		buf.WriteRune(s.next())
	}
	return &ast.Comment{Pos: pos, Value: buf.String(), Raw: s.raw(start)}
}

// scanString consumes a quoted string.
//
// An EOF closes out a string without error. An unescaped newline ends it as
// a bad-string error; the newline itself is left for the next token.
func (s *Scanner) scanString() ast.Node {
	pos, start := s.pos, s.off
	ending := s.next()
	var buf strings.Builder
	for {
		ch := s.peek(0)
		switch {
		case ch == token.EOF:
			return &ast.String{Pos: pos, Value: buf.String(), Representation: s.raw(start)}
		case ch == ending:
			s.next()
			return &ast.String{Pos: pos, Value: buf.String(), Representation: s.raw(start)}
		case token.IsNewline(ch):
			return &ast.ParseError{Pos: pos, Kind: ast.ErrBadString, Message: "newline in string", Raw: s.raw(start)}
		case ch == '\\':
			s.next()
			if next := s.peek(0); next == token.EOF {
				continue
			} else if token.IsNewline(next) {
				// Escaped newlines are line continuations.
				s.nextNewline()
				continue
			}
			buf.WriteRune(s.scanEscape())
		default:
			buf.WriteRune(s.next())
		}
	}
}

// peekNumber checks if the next code points start a number.
func (s *Scanner) peekNumber() bool {
	ch0, ch1, ch2 := s.peek(0), s.peek(1), s.peek(2)
	switch {
	case ch0 == '+' || ch0 == '-':
		return token.IsDigit(ch1) || (ch1 == '.' && token.IsDigit(ch2))
	case ch0 == '.':
		return token.IsDigit(ch1)
	}
	return token.IsDigit(ch0)
}

// scanNumeric consumes a number, percentage or dimension token.
func (s *Scanner) scanNumeric() ast.Node {
	pos := s.pos
	num := s.scanNumber()

	if s.peekIdent() {
		unit, raw := s.scanName()
		return &ast.Dimension{Pos: pos, Numeric: num, Unit: unit, LowerUnit: ast.LowerASCII(unit), RawUnit: raw}
	}
	if s.peek(0) == '%' {
		s.next()
		return &ast.Percentage{Pos: pos, Numeric: num}
	}
	return &ast.Number{Pos: pos, Numeric: num}
}

// scanNumber consumes the numeric body: an optional sign, digits, an
// optional fraction and an optional exponent.
func (s *Scanner) scanNumber() ast.Numeric {
	start := s.off
	isInteger := true

	if ch := s.peek(0); ch == '+' || ch == '-' {
		s.next()
	}
	s.scanDigits()

	if s.peek(0) == '.' && token.IsDigit(s.peek(1)) {
		isInteger = false
		s.next()
		s.scanDigits()
	}

	// Consume scientific notation (e0, e+0, e-0, E0, E+0, E-0).
	if ch0 := s.peek(0); ch0 == 'e' || ch0 == 'E' {
		ch1, ch2 := s.peek(1), s.peek(2)
		if token.IsDigit(ch1) || ((ch1 == '+' || ch1 == '-') && token.IsDigit(ch2)) {
			isInteger = false
			s.next()
			if !token.IsDigit(ch1) {
				s.next()
			}
			s.scanDigits()
		}
	}

	repr := s.raw(start)
	value, _ := strconv.ParseFloat(repr, 64)
	if value == 0 {
		value = 0 // drop the sign of -0
	}
	num := ast.Numeric{Value: value, Representation: repr}
	if isInteger {
		// ParseInt saturates on overflow.
		num.IsInteger = true
		num.IntValue, _ = strconv.ParseInt(repr, 10, 64)
	}
	return num
}

// scanDigits consumes a contiguous series of digits.
func (s *Scanner) scanDigits() {
	for token.IsDigit(s.peek(0)) {
		s.next()
	}
}

// scanHash consumes a hash token, or a "#" literal if no name follows.
func (s *Scanner) scanHash() ast.Node {
	pos, start := s.pos, s.off
	if !token.IsName(s.peek(1)) && !token.IsValidEscape(s.peek(1), s.peek(2)) {
		return s.scanLiteral(1)
	}
	s.next()
	value, _ := s.scanName()
	return &ast.Hash{Pos: pos, Value: value, IsIdentifier: token.IsIdent(value), Raw: s.raw(start)}
}

// scanAtKeyword consumes "@" and the name that follows.
func (s *Scanner) scanAtKeyword() ast.Node {
	pos, start := s.pos, s.off
	s.next()
	value, _ := s.scanName()
	return &ast.AtKeyword{Pos: pos, Value: value, LowerValue: ast.LowerASCII(value), Raw: s.raw(start)}
}

// scanName consumes contiguous name code points and escapes. It returns the
// unescaped value and the source text.
func (s *Scanner) scanName() (value, raw string) {
	start := s.off
	var buf strings.Builder
	for {
		if ch := s.peek(0); token.IsName(ch) {
			buf.WriteRune(s.next())
		} else if s.peekEscape() {
			s.next()
			buf.WriteRune(s.scanEscape())
		} else {
			return buf.String(), s.raw(start)
		}
	}
}

// scanIdent consumes an ident-like token: an ident, a function, or a url.
func (s *Scanner) scanIdent() ast.Node {
	pos, start := s.pos, s.off
	v, raw := s.scanName()
	lower := ast.LowerASCII(v)

	if s.peek(0) != '(' {
		return &ast.Ident{Pos: pos, Value: v, LowerValue: lower, Raw: raw}
	}
	s.next()

	// url( followed by a quote is a regular function holding a string.
	if lower == "url" {
		i := 0
		for token.IsWhitespace(s.peek(i)) {
			i++
		}
		if ch := s.peek(i); ch != '"' && ch != '\'' {
			return s.scanURL(pos, start)
		}
	}
	return &ast.Function{Pos: pos, Name: v, LowerName: lower, RawName: raw}
}

// scanURL consumes the contents of an unquoted url. This assumes "url(" has
// just been consumed. Returns a url token or a bad-url error.
func (s *Scanner) scanURL(pos token.Pos, start int) ast.Node {
	for token.IsWhitespace(s.peek(0)) {
		s.next()
	}

	var buf strings.Builder
	for {
		ch := s.peek(0)
		switch {
		case ch == token.EOF:
			return &ast.URL{Pos: pos, Value: buf.String(), Representation: s.raw(start)}
		case ch == ')':
			s.next()
			return &ast.URL{Pos: pos, Value: buf.String(), Representation: s.raw(start)}
		case token.IsWhitespace(ch):
			for token.IsWhitespace(s.peek(0)) {
				s.next()
			}
			if next := s.peek(0); next == ')' || next == token.EOF {
				if next == ')' {
					s.next()
				}
				return &ast.URL{Pos: pos, Value: buf.String(), Representation: s.raw(start)}
			}
			return s.scanBadURL(pos, start, "whitespace in url")
		case ch == '"' || ch == '\'' || ch == '(' || token.IsNonPrintable(ch):
			return s.scanBadURL(pos, start, "invalid url code point: "+strconv.QuoteRune(ch))
		case ch == '\\':
			if !s.peekEscape() {
				return s.scanBadURL(pos, start, `unescaped \ in url`)
			}
			s.next()
			buf.WriteRune(s.scanEscape())
		default:
			buf.WriteRune(s.next())
		}
	}
}

// scanBadURL recovers the scanner from a malformed url by consuming up to
// and including the next ")" that is not part of an escape.
func (s *Scanner) scanBadURL(pos token.Pos, start int, msg string) ast.Node {
	for {
		ch := s.peek(0)
		if ch == token.EOF {
			break
		} else if ch == ')' {
			s.next()
			break
		} else if s.peekEscape() {
			s.next()
			s.scanEscape()
		} else {
			s.next()
		}
	}
	return &ast.ParseError{Pos: pos, Kind: ast.ErrBadURL, Message: msg, Raw: s.raw(start)}
}

// scanUnicodeRange consumes a unicode-range token.
func (s *Scanner) scanUnicodeRange() ast.Node {
	pos, start := s.pos, s.off
	s.next()
	s.next()

	// Consume up to 6 hex digits, then question marks up to 6 in total.
	var buf strings.Builder
	for buf.Len() < 6 && token.IsHexDigit(s.peek(0)) {
		buf.WriteRune(s.next())
	}
	n := buf.Len()
	for buf.Len() < 6 && s.peek(0) == '?' {
		buf.WriteRune(s.next())
	}

	// To calculate a wildcard range, "?" becomes "0" for the start and "F"
	// for the end.
	if buf.Len() > n {
		first := parseHex(strings.ReplaceAll(buf.String(), "?", "0"))
		last := parseHex(strings.ReplaceAll(buf.String(), "?", "F"))
		return &ast.UnicodeRange{Pos: pos, Start: first, End: last, Raw: s.raw(start)}
	}

	first := parseHex(buf.String())
	last := first
	if s.peek(0) == '-' && token.IsHexDigit(s.peek(1)) {
		s.next()
		buf.Reset()
		for buf.Len() < 6 && token.IsHexDigit(s.peek(0)) {
			buf.WriteRune(s.next())
		}
		last = parseHex(buf.String())
	}
	return &ast.UnicodeRange{Pos: pos, Start: first, End: last, Raw: s.raw(start)}
}

func parseHex(s string) rune {
	v, _ := strconv.ParseUint(s, 16, 32)
	return rune(v)
}

// scanEscape consumes an escaped code point. This assumes the backslash has
// just been consumed.
func (s *Scanner) scanEscape() rune {
	ch := s.peek(0)
	if ch == token.EOF {
		return token.Replacement
	}
	if !token.IsHexDigit(ch) {
		return s.next()
	}

	var buf strings.Builder
	for buf.Len() < 6 && token.IsHexDigit(s.peek(0)) {
		buf.WriteRune(s.next())
	}
	// A single whitespace after a hex escape belongs to the escape.
	if token.IsWhitespace(s.peek(0)) {
		s.nextNewline()
	}

	v, _ := strconv.ParseUint(buf.String(), 16, 32)
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
		return token.Replacement
	}
	return rune(v)
}

// peekEscape checks if the next two code points are a valid escape.
func (s *Scanner) peekEscape() bool {
	return token.IsValidEscape(s.peek(0), s.peek(1))
}

// peekIdent checks if the next code points would start an identifier.
func (s *Scanner) peekIdent() bool {
	return token.StartsIdent(s.peek(0), s.peek(1), s.peek(2))
}

// peek returns the code point i positions ahead without consuming it.
// NUL is reported as U+FFFD and the end of input as token.EOF.
func (s *Scanner) peek(i int) rune {
	if s.off+i >= len(s.src) {
		return token.EOF
	}
	if ch := s.src[s.off+i]; ch != 0 {
		return ch
	}
	return token.Replacement
}

// next consumes one code point and updates the position. A CR immediately
// followed by LF does not end the line itself; the LF does.
func (s *Scanner) next() rune {
	ch := s.peek(0)
	if ch == token.EOF {
		return ch
	}
	s.off++
	switch {
	case ch == '\r' && s.peek(0) == '\n':
		s.pos.Column++
	case token.IsNewline(ch):
		s.pos.Line++
		s.pos.Column = 1
	default:
		s.pos.Column++
	}
	return ch
}

// nextNewline consumes one whitespace code point, treating CRLF as one.
func (s *Scanner) nextNewline() {
	if s.next() == '\r' && s.peek(0) == '\n' {
		s.next()
	}
}

// raw returns the source text from start to the current offset.
func (s *Scanner) raw(start int) string {
	return string(s.src[start:s.off])
}

// Pos returns the position of the next code point.
func (s *Scanner) Pos() token.Pos {
	return s.pos
}

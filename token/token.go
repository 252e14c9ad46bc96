// Package token holds the source position type and the code point classes
// shared by the scanner, the parser and the value parsers.
package token

import "fmt"

// EOF is returned by lookahead functions past the end of input.
const EOF rune = -1

// Replacement is substituted for NUL and for invalid escaped code points.
const Replacement rune = '�'

// Pos specifies the line and column of the first code point of a node.
// Both are one-based and counted in code points.
type Pos struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsWhitespace returns true if the rune is a space, tab, or newline.
func IsWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || IsNewline(ch)
}

// IsNewline returns true for LF, CR and FF. A CRLF pair is handled by the
// callers as a single newline.
func IsNewline(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\f'
}

// IsLetter returns true if the rune is an ASCII letter.
func IsLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsDigit returns true if the rune is a digit.
func IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// IsHexDigit returns true if the rune is a hex digit.
func IsHexDigit(ch rune) bool {
	return IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// IsNonASCII returns true if the rune is U+0080 or above.
func IsNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// IsNameStart returns true if the rune can start a name.
func IsNameStart(ch rune) bool {
	return IsLetter(ch) || IsNonASCII(ch) || ch == '_'
}

// IsName returns true if the rune is a name code point.
func IsName(ch rune) bool {
	return IsNameStart(ch) || IsDigit(ch) || ch == '-'
}

// IsNonPrintable returns true if the rune is a non-printable code point.
func IsNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// IsValidEscape reports whether the two code points form a valid escape.
func IsValidEscape(ch0, ch1 rune) bool {
	return ch0 == '\\' && ch1 != EOF && !IsNewline(ch1)
}

// StartsIdent reports whether the three code points would start an
// identifier.
func StartsIdent(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '-':
		return IsNameStart(ch1) || ch1 == '-' || IsValidEscape(ch1, ch2)
	case IsNameStart(ch0):
		return true
	case ch0 == '\\':
		return IsValidEscape(ch0, ch1)
	}
	return false
}

// IsIdent reports whether an unescaped string is a valid identifier: it
// starts an identifier and every code point is a name code point.
func IsIdent(s string) bool {
	rs := []rune(s)
	at := func(i int) rune {
		if i < len(rs) {
			return rs[i]
		}
		return EOF
	}
	if !StartsIdent(at(0), at(1), at(2)) {
		return false
	}
	for _, ch := range rs {
		if !IsName(ch) {
			return false
		}
	}
	return true
}

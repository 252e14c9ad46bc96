// Package ast defines the component values, declarations and rules produced
// by the scanner and the parser.
//
// Every node is an immutable value carrying the position of its first code
// point. Leaf tokens also keep the verbatim source text they were scanned
// from so a token list can be written back out byte for byte with Source.
package ast

import (
	"strings"

	"github.com/cssparse/css3/token"
)

// Node represents a component value, a declaration, a rule or a parse error.
type Node interface {
	// Position returns the position of the first code point of the node.
	Position() token.Pos

	// Type returns the node tag used by Dump, e.g. "ident" or "{} block".
	Type() string

	node()
}

func (*Whitespace) node()          {}
func (*Literal) node()             {}
func (*Ident) node()               {}
func (*AtKeyword) node()           {}
func (*Hash) node()                {}
func (*String) node()              {}
func (*URL) node()                 {}
func (*Number) node()              {}
func (*Percentage) node()          {}
func (*Dimension) node()           {}
func (*UnicodeRange) node()        {}
func (*ParenthesesBlock) node()    {}
func (*SquareBracketsBlock) node() {}
func (*CurlyBracketsBlock) node()  {}
func (*Function) node()            {}
func (*Comment) node()             {}
func (*ParseError) node()          {}
func (*Declaration) node()         {}
func (*QualifiedRule) node()       {}
func (*AtRule) node()              {}

// Whitespace is a run of whitespace code points, kept verbatim.
type Whitespace struct {
	Pos   token.Pos
	Value string
}

func (n *Whitespace) Position() token.Pos { return n.Pos }
func (n *Whitespace) Type() string        { return "whitespace" }

// Literal is a single punctuation code point or one of "<!--" and "-->".
type Literal struct {
	Pos   token.Pos
	Value string
}

func (n *Literal) Position() token.Pos { return n.Pos }
func (n *Literal) Type() string        { return "literal" }

// Is reports whether the literal has the given value.
func (n *Literal) Is(v string) bool { return n.Value == v }

// Ident is an identifier. Value has escapes decoded.
type Ident struct {
	Pos        token.Pos
	Value      string
	LowerValue string
	Raw        string
}

func (n *Ident) Position() token.Pos { return n.Pos }
func (n *Ident) Type() string        { return "ident" }

// AtKeyword is "@" followed by an identifier. Value excludes the "@".
type AtKeyword struct {
	Pos        token.Pos
	Value      string
	LowerValue string
	Raw        string
}

func (n *AtKeyword) Position() token.Pos { return n.Pos }
func (n *AtKeyword) Type() string        { return "at-keyword" }

// Hash is "#" followed by a name. Value excludes the "#".
type Hash struct {
	Pos          token.Pos
	Value        string
	IsIdentifier bool
	Raw          string
}

func (n *Hash) Position() token.Pos { return n.Pos }
func (n *Hash) Type() string        { return "hash" }

// String is a quoted string. Representation is the source text including
// the quotes.
type String struct {
	Pos            token.Pos
	Value          string
	Representation string
}

func (n *String) Position() token.Pos { return n.Pos }
func (n *String) Type() string        { return "string" }

// URL is an unquoted url(...) token. Representation is the source text
// including "url(" and the closing parenthesis when present.
type URL struct {
	Pos            token.Pos
	Value          string
	Representation string
}

func (n *URL) Position() token.Pos { return n.Pos }
func (n *URL) Type() string        { return "url" }

// Numeric holds the attributes shared by numbers, percentages and
// dimensions. Representation is the numeric body as written in the source.
// IntValue is only meaningful when IsInteger is set, and saturates at the
// int64 bounds; Value keeps the magnitude of larger integers.
type Numeric struct {
	Value          float64
	IntValue       int64
	IsInteger      bool
	Representation string
}

// Number is a numeric token without a unit.
type Number struct {
	Pos token.Pos
	Numeric
}

func (n *Number) Position() token.Pos { return n.Pos }
func (n *Number) Type() string        { return "number" }

// Percentage is a numeric token followed by "%".
type Percentage struct {
	Pos token.Pos
	Numeric
}

func (n *Percentage) Position() token.Pos { return n.Pos }
func (n *Percentage) Type() string        { return "percentage" }

// Dimension is a numeric token followed by a unit.
type Dimension struct {
	Pos token.Pos
	Numeric
	Unit      string
	LowerUnit string
	RawUnit   string
}

func (n *Dimension) Position() token.Pos { return n.Pos }
func (n *Dimension) Type() string        { return "dimension" }

// UnicodeRange is a U+XXXX, U+XX?? or U+XXXX-YYYY token. End is inclusive.
type UnicodeRange struct {
	Pos   token.Pos
	Start rune
	End   rune
	Raw   string
}

func (n *UnicodeRange) Position() token.Pos { return n.Pos }
func (n *UnicodeRange) Type() string        { return "unicode-range" }

// ParenthesesBlock is a (-block. Closed is false when the input ended before
// the closing parenthesis.
type ParenthesesBlock struct {
	Pos     token.Pos
	Content []Node
	Closed  bool
}

func (n *ParenthesesBlock) Position() token.Pos { return n.Pos }
func (n *ParenthesesBlock) Type() string        { return "() block" }

// SquareBracketsBlock is a [-block.
type SquareBracketsBlock struct {
	Pos     token.Pos
	Content []Node
	Closed  bool
}

func (n *SquareBracketsBlock) Position() token.Pos { return n.Pos }
func (n *SquareBracketsBlock) Type() string        { return "[] block" }

// CurlyBracketsBlock is a {-block.
type CurlyBracketsBlock struct {
	Pos     token.Pos
	Content []Node
	Closed  bool
}

func (n *CurlyBracketsBlock) Position() token.Pos { return n.Pos }
func (n *CurlyBracketsBlock) Type() string        { return "{} block" }

// Function is an identifier immediately followed by "(" and the component
// values up to the matching ")".
type Function struct {
	Pos       token.Pos
	Name      string
	LowerName string
	RawName   string
	Arguments []Node
	Closed    bool
}

func (n *Function) Position() token.Pos { return n.Pos }
func (n *Function) Type() string        { return "function" }

// Comment is a /* ... */ comment. Value is the text between the delimiters.
type Comment struct {
	Pos   token.Pos
	Value string
	Raw   string
}

func (n *Comment) Position() token.Pos { return n.Pos }
func (n *Comment) Type() string        { return "comment" }

// ParseError kinds.
const (
	ErrBadString  = "bad-string"
	ErrBadURL     = "bad-url"
	ErrEmpty      = "empty"
	ErrExtraInput = "extra-input"
	ErrInvalid    = "invalid"
)

// ParseError stands in for a malformed construct. The scanner produces the
// bad-string and bad-url kinds and fills Raw with the consumed source; the
// parser produces the others.
type ParseError struct {
	Pos     token.Pos
	Kind    string
	Message string
	Raw     string
}

func (n *ParseError) Position() token.Pos { return n.Pos }
func (n *ParseError) Type() string        { return "error" }

// Error returns the formatted error message.
func (n *ParseError) Error() string {
	return n.Pos.String() + ": " + n.Kind + ": " + n.Message
}

// Declaration represents a name/value pair. Value holds everything after the
// colon, whitespace included, minus a trailing "!important".
type Declaration struct {
	Pos       token.Pos
	Name      string
	LowerName string
	Value     []Node
	Important bool
}

func (n *Declaration) Position() token.Pos { return n.Pos }
func (n *Declaration) Type() string        { return "declaration" }

// QualifiedRule is a prelude followed by a {-block.
type QualifiedRule struct {
	Pos     token.Pos
	Prelude []Node
	Content []Node
}

func (n *QualifiedRule) Position() token.Pos { return n.Pos }
func (n *QualifiedRule) Type() string        { return "qualified-rule" }

// AtRule is a rule starting with an at-keyword. Content is nil when the rule
// ended with ";" or at EOF, and non-nil (possibly empty) when it has a block.
type AtRule struct {
	Pos            token.Pos
	AtKeyword      string
	LowerAtKeyword string
	Prelude        []Node
	Content        []Node
}

func (n *AtRule) Position() token.Pos { return n.Pos }
func (n *AtRule) Type() string        { return "at-rule" }

// HasBlock reports whether the at-rule ended with a {-block.
func (n *AtRule) HasBlock() bool { return n.Content != nil }

// LowerASCII lowercases ASCII letters only, as CSS keyword matching does.
func LowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// IsSignificant returns false for whitespace and comments.
func IsSignificant(n Node) bool {
	switch n.(type) {
	case *Whitespace, *Comment:
		return false
	}
	return true
}

// Significant returns the nodes with whitespace and comments removed.
func Significant(nodes []Node) []Node {
	var a []Node
	for _, n := range nodes {
		if IsSignificant(n) {
			a = append(a, n)
		}
	}
	return a
}

// Walk calls fn for every node in depth-first source order, descending into
// blocks, functions, declarations and rules. Returning false skips the
// children of the current node.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *ParenthesesBlock:
			Walk(n.Content, fn)
		case *SquareBracketsBlock:
			Walk(n.Content, fn)
		case *CurlyBracketsBlock:
			Walk(n.Content, fn)
		case *Function:
			Walk(n.Arguments, fn)
		case *Declaration:
			Walk(n.Value, fn)
		case *QualifiedRule:
			Walk(n.Prelude, fn)
			Walk(n.Content, fn)
		case *AtRule:
			Walk(n.Prelude, fn)
			Walk(n.Content, fn)
		}
	}
}

package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/scanner"
)

// Ensure that nodes are serialized to their canonical form.
func TestSerialize(t *testing.T) {
	ws := &ast.Whitespace{Value: " "}
	red := &ast.Ident{Value: "red"}

	var tests = []struct {
		in []ast.Node
		s  string
	}{
		{in: []ast.Node{red, ws, &ast.Ident{Value: "blue"}}, s: `red blue`},
		{in: []ast.Node{red, &ast.Ident{Value: "blue"}}, s: `red/**/blue`},
		{in: []ast.Node{&ast.Literal{Value: "#"}, red}, s: `#/**/red`},
		{in: []ast.Node{&ast.Literal{Value: "/"}, &ast.Literal{Value: "*"}}, s: `//**/*`},
		{in: []ast.Node{&ast.Ident{Value: "1a"}}, s: `\31 a`},
		{in: []ast.Node{&ast.Ident{Value: "-"}}, s: `\-`},
		{in: []ast.Node{&ast.Ident{Value: "--x y"}}, s: `--x\ y`},
		{in: []ast.Node{&ast.AtKeyword{Value: "media"}}, s: `@media`},
		{in: []ast.Node{&ast.Hash{Value: "1f", IsIdentifier: false}}, s: `#1f`},
		{in: []ast.Node{&ast.String{Value: "a\"b\nc"}}, s: `"a\"b\A c"`},
		{in: []ast.Node{&ast.URL{Value: "a b(c)"}}, s: `url(a\ b\(c\))`},
		{in: []ast.Node{&ast.UnicodeRange{Start: 0x26, End: 0x26}}, s: `U+26`},
		{in: []ast.Node{&ast.UnicodeRange{Start: 0, End: 0x7F}}, s: `U+0-7F`},
		{in: []ast.Node{&ast.Dimension{Numeric: ast.Numeric{Representation: "1"}, Unit: "e"}}, s: `1\65 `},
		{in: []ast.Node{&ast.Dimension{Numeric: ast.Numeric{Representation: "2"}, Unit: "px"}}, s: `2px`},
		{in: []ast.Node{&ast.Percentage{Numeric: ast.Numeric{Representation: "50"}}}, s: `50%`},
		{in: []ast.Node{&ast.Comment{Value: " x "}}, s: `/* x */`},
		{in: []ast.Node{&ast.ParseError{Kind: ast.ErrBadString}}, s: "\"[bad string]\n"},
		{in: []ast.Node{&ast.ParseError{Kind: ast.ErrInvalid}}, s: ``},
		{in: []ast.Node{&ast.Function{Name: "rgb", Arguments: []ast.Node{red}}}, s: `rgb(red)`},
		{in: []ast.Node{&ast.ParenthesesBlock{Content: []ast.Node{red}}}, s: `(red)`},

		{in: []ast.Node{&ast.Declaration{Name: "color", Value: []ast.Node{ws, red}, Important: true}}, s: `color: red!important;`},
		{in: []ast.Node{&ast.QualifiedRule{Prelude: []ast.Node{&ast.Ident{Value: "p"}}, Content: []ast.Node{red}}}, s: `p{red}`},
		{in: []ast.Node{&ast.AtRule{AtKeyword: "import", Prelude: []ast.Node{ws, &ast.String{Value: "a"}}}}, s: `@import "a";`},
		{in: []ast.Node{&ast.AtRule{AtKeyword: "page", Content: []ast.Node{}}}, s: `@page{}`},

		// A trailing backslash must not escape what follows it.
		{in: []ast.Node{&ast.Declaration{Name: "a", Value: []ast.Node{&ast.Literal{Value: `\`}}}}, s: "a:\\\n;"},
		{in: []ast.Node{&ast.AtRule{AtKeyword: "a", Prelude: []ast.Node{ws, &ast.Literal{Value: `\`}}}}, s: "@a \\\n;"},
		{in: []ast.Node{&ast.SquareBracketsBlock{Content: []ast.Node{&ast.Literal{Value: `\`}}}}, s: "[\\\n]"},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.s, ast.Serialize(tt.in...), "%d. <%q>", i, tt.s)
	}
}

// Ensure that serialized output scans back to the same component values.
func TestSerialize_RoundTrip(t *testing.T) {
	var tests = []string{
		`a{color:red;margin:1e3px}`,
		`#foo .bar > baz`,
		`url(x) "s\"q"`,
		`-- -a --b`,
		`U+0-7F`,
		`calc(1px + 2%)`,
		`[a] a/**/b`,
		`\31 0px`,
	}

	for i, s := range tests {
		nodes := scanner.Tokenize(s, false)
		out := ast.Serialize(nodes...)
		assert.Equal(t, ast.Dump(nodes), ast.Dump(scanner.Tokenize(out, false)), "%d. <%q> => <%q>", i, s, out)
		assert.Equal(t, out, ast.Serialize(scanner.Tokenize(out, false)...), "%d. <%q>", i, s)
	}
}

// Ensure that a backslash left at the end of a block stays a literal. The
// newline written after it is scanned back as whitespace, and serializing
// again gives the same text.
func TestSerialize_TrailingBackslash(t *testing.T) {
	var tests = []struct {
		s   string
		out string
		exp []any
	}{
		{s: `(\`, out: "(\\\n)", exp: []any{[]any{"()", `\`, " "}}},
		{s: `{a\`, out: "{a\\\n}", exp: []any{[]any{"{}", []any{"ident", "a"}, `\`, " "}}},
		{s: `f(\`, out: "f(\\\n)", exp: []any{[]any{"function", "f", `\`, " "}}},
		{s: "(\\\n", out: "(\\\n)", exp: []any{[]any{"()", `\`, " "}}},
	}

	for i, tt := range tests {
		out := ast.Serialize(scanner.Tokenize(tt.s, false)...)
		assert.Equal(t, tt.out, out, "%d. <%q>", i, tt.s)
		again := scanner.Tokenize(out, false)
		assert.Equal(t, tt.exp, ast.Dump(again), "%d. <%q>", i, tt.s)
		assert.Equal(t, out, ast.Serialize(again...), "%d. <%q>", i, tt.s)
	}
}

// Ensure that the printer writes either form to any writer.
func TestPrinter_Print(t *testing.T) {
	nodes := scanner.Tokenize(`A { B : "c" }`, false)

	var sb strings.Builder
	assert.NoError(t, (&ast.Printer{}).Print(&sb, nodes))
	assert.Equal(t, `A { B : "c" }`, sb.String())

	sb.Reset()
	assert.NoError(t, (&ast.Printer{Canonical: true}).Print(&sb, nodes))
	assert.Equal(t, `A { B : "c" }`, sb.String())

	nodes = scanner.Tokenize(`'c'`, false)
	assert.Equal(t, `'c'`, ast.Source(nodes...))
	assert.Equal(t, `"c"`, ast.Serialize(nodes...))
}

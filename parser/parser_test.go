package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/parser"
	"github.com/cssparse/css3/token"
)

func ident(v string) []any { return []any{"ident", v} }

func decl(name string, value []any, important bool) []any {
	return []any{"declaration", name, value, important}
}

// Ensure that a single component value can be parsed.
func TestParseOneComponentValue(t *testing.T) {
	var tests = []struct {
		s   string
		exp any
	}{
		{s: `foo`, exp: ident("foo")},
		{s: `  :`, exp: ":"},
		{s: `  :   `, exp: ":"},
		{s: `/**/ a /**/`, exp: ident("a")},
		{s: `{}`, exp: []any{"{}"}},
		{s: `{foo: bar}`, exp: []any{"{}", ident("foo"), ":", " ", ident("bar")}},
		{s: ` [12.34]`, exp: []any{"[]", []any{"number", "12.34", 12.34, "number"}}},
		{s: ` fun(12)`, exp: []any{"function", "fun", []any{"number", "12", int64(12), "integer"}}},
		{s: ` fun("hello"`, exp: []any{"function", "fun", []any{"string", "hello"}}},

		{s: ``, exp: []any{"error", ast.ErrEmpty}},
		{s: ` /**/ `, exp: []any{"error", ast.ErrEmpty}},
		{s: ` foo bar`, exp: []any{"error", ast.ErrExtraInput}},
	}

	for i, tt := range tests {
		got := ast.DumpNode(parser.ParseOneComponentValue(tt.s, false))
		assert.Equal(t, tt.exp, got, "%d. <%q>", i, tt.s)
	}
}

// Ensure that a single declaration can be parsed.
func TestParseOneDeclaration(t *testing.T) {
	var tests = []struct {
		s   string
		exp any
	}{
		{s: `color: red`, exp: decl("color", []any{" ", ident("red")}, false)},
		{s: ` Color :red `, exp: decl("Color", []any{ident("red"), " "}, false)},
		{s: `color:red!important`, exp: decl("color", []any{ident("red")}, true)},
		{s: `color: red ! IMPORTANT `, exp: decl("color", []any{" ", ident("red"), " "}, true)},
		{s: `a: !important x`, exp: decl("a", []any{" ", "!", ident("important"), " ", ident("x")}, false)},
		{s: `a: b /**/ ! /**/ important`, exp: decl("a", []any{" ", ident("b"), " ", "/* ... */", " "}, true)},
		{s: `--x: {a}`, exp: decl("--x", []any{" ", []any{"{}", ident("a")}}, false)},
		{s: `a:`, exp: decl("a", []any{}, false)},

		{s: ``, exp: []any{"error", ast.ErrEmpty}},
		{s: `4: red`, exp: []any{"error", ast.ErrInvalid}},
		{s: `color red`, exp: []any{"error", ast.ErrInvalid}},
		{s: `color`, exp: []any{"error", ast.ErrInvalid}},
	}

	for i, tt := range tests {
		got := ast.DumpNode(parser.ParseOneDeclaration(tt.s, false))
		assert.Equal(t, tt.exp, got, "%d. <%q>", i, tt.s)
	}
}

// Ensure that the lower-cased name is kept next to the original one.
func TestParseOneDeclaration_LowerName(t *testing.T) {
	d, ok := parser.ParseOneDeclaration(`CoLoR: red`, false).(*ast.Declaration)
	require.True(t, ok)
	assert.Equal(t, "CoLoR", d.Name)
	assert.Equal(t, "color", d.LowerName)
	assert.Equal(t, token.Pos{Line: 1, Column: 1}, d.Pos)
}

// Ensure that declaration lists separate declarations and at-rules.
func TestParseDeclarationList(t *testing.T) {
	var tests = []struct {
		s              string
		skipComments   bool
		skipWhitespace bool
		exp            []any
	}{
		{
			s: `color: red; margin: 0 !important; `,
			exp: []any{
				decl("color", []any{" ", ident("red")}, false),
				" ",
				decl("margin", []any{" ", []any{"number", "0", int64(0), "integer"}, " "}, true),
				" ",
			},
		},
		{
			s:              `color: red; margin: 0 !important; `,
			skipWhitespace: true,
			exp: []any{
				decl("color", []any{" ", ident("red")}, false),
				decl("margin", []any{" ", []any{"number", "0", int64(0), "integer"}, " "}, true),
			},
		},
		{s: `;;a:b;`, exp: []any{decl("a", []any{ident("b")}, false)}},
		{
			s: `@import "x"; a: b`,
			exp: []any{
				[]any{"at-rule", "import", []any{" ", []any{"string", "x"}}, nil},
				" ",
				decl("a", []any{" ", ident("b")}, false),
			},
		},
		{
			s: `@page { margin: 0 } a: b`,
			exp: []any{
				[]any{"at-rule", "page", []any{" "}, []any{" ", ident("margin"), ":", " ", []any{"number", "0", int64(0), "integer"}, " "}},
				" ",
				decl("a", []any{" ", ident("b")}, false),
			},
		},
		{
			s: `a: b; 4px; c: d`,
			exp: []any{
				decl("a", []any{" ", ident("b")}, false),
				" ",
				[]any{"error", ast.ErrInvalid},
				" ",
				decl("c", []any{" ", ident("d")}, false),
			},
		},
		{
			s:   `a: b /* x */; /* y */`,
			exp: []any{decl("a", []any{" ", ident("b"), " ", "/* ... */"}, false), " ", "/* ... */"},
		},
		{
			s:            `a: b /* x */; /* y */`,
			skipComments: true,
			exp:          []any{decl("a", []any{" ", ident("b"), " "}, false), " "},
		},
		{s: ``, exp: []any{}},
	}

	for i, tt := range tests {
		got := ast.Dump(parser.ParseDeclarationList(tt.s, tt.skipComments, tt.skipWhitespace))
		assert.Equal(t, tt.exp, got, "%d. <%q>", i, tt.s)
	}
}

// Ensure that a single rule can be parsed.
func TestParseOneRule(t *testing.T) {
	var tests = []struct {
		s   string
		exp any
	}{
		{
			s: `a { b: c }`,
			exp: []any{"qualified-rule",
				[]any{ident("a"), " "},
				[]any{" ", ident("b"), ":", " ", ident("c"), " "}},
		},
		{s: ` {} `, exp: []any{"qualified-rule", []any{}, []any{}}},
		{
			s: `@media screen { a {} }`,
			exp: []any{"at-rule", "media",
				[]any{" ", ident("screen"), " "},
				[]any{" ", ident("a"), " ", []any{"{}"}, " "}},
		},
		{s: `@charset "utf-8";`, exp: []any{"at-rule", "charset", []any{" ", []any{"string", "utf-8"}}, nil}},
		{s: `@foo`, exp: []any{"at-rule", "foo", []any{}, nil}},
		{s: `@foo {}`, exp: []any{"at-rule", "foo", []any{" "}, []any{}}},

		{s: ``, exp: []any{"error", ast.ErrEmpty}},
		{s: `a`, exp: []any{"error", ast.ErrInvalid}},
		{s: `a {} b`, exp: []any{"error", ast.ErrExtraInput}},
		{s: `@foo; @bar;`, exp: []any{"error", ast.ErrExtraInput}},
	}

	for i, tt := range tests {
		got := ast.DumpNode(parser.ParseOneRule(tt.s, false))
		assert.Equal(t, tt.exp, got, "%d. <%q>", i, tt.s)
	}
}

// Ensure that rule lists and stylesheets differ only in CDO/CDC handling.
func TestParseRuleList_CDOAndCDC(t *testing.T) {
	const s = `<!-- a {} -->`

	sheet := ast.Dump(parser.ParseStylesheet(s, false, false))
	assert.Equal(t, []any{" ", []any{"qualified-rule", []any{ident("a"), " "}, []any{}}, " "}, sheet)

	list := ast.Dump(parser.ParseRuleList(s, false, false))
	assert.Equal(t, []any{
		[]any{"qualified-rule", []any{"<!--", " ", ident("a"), " "}, []any{}},
		" ",
		[]any{"error", ast.ErrInvalid},
	}, list)
}

// Ensure that a stylesheet style rule can be parsed and its content read
// as a declaration list.
func TestParseStylesheet_StyleRule(t *testing.T) {
	rules := parser.ParseStylesheet(`p { color: red; }`, false, false)
	require.Len(t, rules, 1)

	r, ok := rules[0].(*ast.QualifiedRule)
	require.True(t, ok)
	assert.Equal(t, []any{ident("p"), " "}, ast.Dump(r.Prelude))
	assert.Equal(t, []any{" ", ident("color"), ":", " ", ident("red"), ";", " "}, ast.Dump(r.Content))

	decls := parser.ParseDeclarationList(r.Content, false, false)
	assert.Equal(t, []any{" ", decl("color", []any{" ", ident("red")}, false), " "}, ast.Dump(decls))
}

func TestParseStylesheet(t *testing.T) {
	var tests = []struct {
		s              string
		skipComments   bool
		skipWhitespace bool
		exp            []any
	}{
		{
			s:   `@import "foo.css";`,
			exp: []any{[]any{"at-rule", "import", []any{" ", []any{"string", "foo.css"}}, nil}},
		},
		{
			s: `a {} b`,
			exp: []any{
				[]any{"qualified-rule", []any{ident("a"), " "}, []any{}},
				" ",
				[]any{"error", ast.ErrInvalid},
			},
		},
		{
			s:              `/* c */ a {} /* d */`,
			skipComments:   true,
			skipWhitespace: true,
			exp:            []any{[]any{"qualified-rule", []any{ident("a"), " "}, []any{}}},
		},
		{
			s:              `/* c */ a {} /* d */`,
			skipWhitespace: true,
			exp:            []any{"/* ... */", []any{"qualified-rule", []any{ident("a"), " "}, []any{}}, "/* ... */"},
		},
		{
			s: `@media print { a { b: c } } d{}`,
			exp: []any{
				[]any{"at-rule", "media", []any{" ", ident("print"), " "},
					[]any{" ", ident("a"), " ", []any{"{}", " ", ident("b"), ":", " ", ident("c"), " "}, " "}},
				" ",
				[]any{"qualified-rule", []any{ident("d")}, []any{}},
			},
		},
		{s: ``, exp: []any{}},
	}

	for i, tt := range tests {
		got := ast.Dump(parser.ParseStylesheet(tt.s, tt.skipComments, tt.skipWhitespace))
		assert.Equal(t, tt.exp, got, "%d. <%q>", i, tt.s)
	}
}

// Ensure that parse errors carry the position of the offending value.
func TestParse_ErrorPositions(t *testing.T) {
	var tests = []struct {
		n   ast.Node
		pos token.Pos
	}{
		{n: parser.ParseOneRule(`a {} b`, false), pos: token.Pos{Line: 1, Column: 6}},
		{n: parser.ParseOneRule(``, false), pos: token.Pos{Line: 1, Column: 1}},
		{n: parser.ParseStylesheet("\n  x", false, true)[0], pos: token.Pos{Line: 2, Column: 3}},
		{n: parser.ParseOneDeclaration(`a b`, false), pos: token.Pos{Line: 1, Column: 3}},
		{n: parser.ParseOneDeclaration(`  a`, false), pos: token.Pos{Line: 1, Column: 3}},
	}

	for i, tt := range tests {
		e, ok := tt.n.(*ast.ParseError)
		require.True(t, ok, "%d. expected parse error, got %T", i, tt.n)
		assert.Equal(t, tt.pos, e.Pos, "%d.", i)
		assert.NotEmpty(t, e.Message, "%d.", i)
	}
}

// Ensure that component values are accepted in place of text.
func TestParse_NodeInput(t *testing.T) {
	nodes := parser.ParseComponentValueList(`a:b; @x; c{}`, false)

	assert.Equal(t,
		ast.Dump(parser.ParseDeclarationList(`a:b; @x; c{}`, false, false)),
		ast.Dump(parser.ParseDeclarationList(nodes, false, false)))
	assert.Equal(t,
		ast.DumpNode(parser.ParseOneDeclaration(`a:b`, false)),
		ast.DumpNode(parser.ParseOneDeclaration(nodes[:3], false)))
}

// Ensure that parser output can be fed back into the parser.
func TestParseDeclarationList_Reparse(t *testing.T) {
	first := parser.ParseDeclarationList(`a:b;@x;c`, false, false)
	require.Len(t, first, 3)

	second := parser.ParseDeclarationList(first, false, false)
	require.NotEmpty(t, second)
	for i, n := range second {
		e, ok := n.(*ast.ParseError)
		require.True(t, ok, "%d. expected parse error, got %T", i, n)
		assert.Equal(t, ast.ErrInvalid, e.Kind)
	}
}

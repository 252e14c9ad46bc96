package css

import (
	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/charset"
	"github.com/cssparse/css3/color"
	"github.com/cssparse/css3/parser"
	"github.com/cssparse/css3/scanner"
)

// Parser runs the scanner and the parser and logs what it found.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Tokenize returns the component values of css.
func (p *Parser) Tokenize(css string, skipComments bool) []ast.Node {
	nodes := scanner.Tokenize(css, skipComments)
	p.report("tokens", nodes)
	return nodes
}

// ParseStylesheet parses css as a stylesheet.
func (p *Parser) ParseStylesheet(css string, skipComments, skipWhitespace bool) []ast.Node {
	nodes := parser.ParseStylesheet(css, skipComments, skipWhitespace)
	p.report("stylesheet", nodes)
	return nodes
}

// ParseRuleList parses css as a list of rules.
func (p *Parser) ParseRuleList(css string, skipComments, skipWhitespace bool) []ast.Node {
	nodes := parser.ParseRuleList(css, skipComments, skipWhitespace)
	p.report("rule list", nodes)
	return nodes
}

// ParseDeclarationList parses css as a list of declarations and at-rules.
func (p *Parser) ParseDeclarationList(css string, skipComments, skipWhitespace bool) []ast.Node {
	nodes := parser.ParseDeclarationList(css, skipComments, skipWhitespace)
	p.report("declaration list", nodes)
	return nodes
}

// ParseStylesheetBytes decodes data and parses it as a stylesheet. It returns
// the rules together with the name of the encoding used.
func (p *Parser) ParseStylesheetBytes(data []byte, protocolEncoding string, environmentEncoding encoding.Encoding,
	skipComments, skipWhitespace bool) ([]ast.Node, string) {

	enc, src := charset.Detect(data, protocolEncoding, environmentEncoding)
	name := charset.Name(enc)
	p.log.Debug("Decoding stylesheet", zap.Int("bytes", len(data)), zap.String("encoding", name), zap.Stringer("from", src))

	return p.ParseStylesheet(charset.DecodeWith(data, enc), skipComments, skipWhitespace), name
}

// ParseColor parses a color value. It returns nil if s is not a valid color.
func (p *Parser) ParseColor(s string) color.Color {
	c := color.Parse(s)
	if c == nil {
		p.log.Debug("Invalid color", zap.String("value", s))
	}
	return c
}

// report logs the number of top-level nodes and every parse error.
func (p *Parser) report(what string, nodes []ast.Node) {
	if !p.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	errs := Errors(nodes)
	p.log.Debug("Parsed CSS", zap.String("as", what), zap.Int("nodes", len(nodes)),
		zap.Int("rules", countRules(nodes)), zap.Int("errors", len(errs)))
	for _, e := range errs {
		p.log.Debug("CSS parse error", zap.String("kind", e.Kind), zap.Stringer("pos", e.Pos), zap.String("message", e.Message))
	}
}

func countRules(nodes []ast.Node) int {
	var n int
	for _, node := range nodes {
		switch node.(type) {
		case *ast.QualifiedRule, *ast.AtRule:
			n++
		}
	}
	return n
}

// Errors returns every parse error in nodes, including bad strings and
// URLs nested inside blocks, rules and declarations.
func Errors(nodes []ast.Node) []*ast.ParseError {
	var errs []*ast.ParseError
	ast.Walk(nodes, func(n ast.Node) bool {
		if e, ok := n.(*ast.ParseError); ok {
			errs = append(errs, e)
		}
		return true
	})
	return errs
}

var defaultParser = NewParser(nil)

// Tokenize returns the component values of css.
func Tokenize(css string, skipComments bool) []ast.Node {
	return defaultParser.Tokenize(css, skipComments)
}

// ParseStylesheet parses css as a stylesheet.
func ParseStylesheet(css string, skipComments, skipWhitespace bool) []ast.Node {
	return defaultParser.ParseStylesheet(css, skipComments, skipWhitespace)
}

// ParseStylesheetBytes decodes data and parses it as a stylesheet.
func ParseStylesheetBytes(data []byte, protocolEncoding string, environmentEncoding encoding.Encoding,
	skipComments, skipWhitespace bool) ([]ast.Node, string) {
	return defaultParser.ParseStylesheetBytes(data, protocolEncoding, environmentEncoding, skipComments, skipWhitespace)
}

// ParseColor parses a color value.
func ParseColor(s string) color.Color {
	return defaultParser.ParseColor(s)
}

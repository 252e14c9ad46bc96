// Package parser builds declarations and rules out of component values.
//
// Every entry point accepts either CSS text, which is tokenized first, or a
// list of component values already produced by the scanner. Malformed
// constructs never stop parsing: they are replaced by *ast.ParseError values
// in the output and parsing continues with the next top-level value.
package parser

import (
	"fmt"

	"github.com/cssparse/css3/ast"
	"github.com/cssparse/css3/scanner"
	"github.com/cssparse/css3/token"
)

// Input is either CSS text or a list of component values.
type Input interface {
	string | []ast.Node
}

// ParseComponentValueList tokenizes css into a list of component values.
func ParseComponentValueList(css string, skipComments bool) []ast.Node {
	return scanner.Tokenize(css, skipComments)
}

// ParseOneComponentValue parses a single component value surrounded by
// optional whitespace and comments. It returns an "empty" error for empty
// input and an "extra-input" error if more than one value is present.
func ParseOneComponentValue[I Input](input I, skipComments bool) ast.Node {
	s := newStream(input, skipComments)
	first := s.scanSignificant()
	if first == nil {
		return emptyError()
	}
	if second := s.scanSignificant(); second != nil {
		return &ast.ParseError{Pos: second.Position(), Kind: ast.ErrExtraInput, Message: "Got more than one token"}
	}
	return first
}

// ParseOneDeclaration parses a single "name: value" declaration, such as
// the contents of a style attribute. The result is an *ast.Declaration or an
// *ast.ParseError.
func ParseOneDeclaration[I Input](input I, skipComments bool) ast.Node {
	s := newStream(input, skipComments)
	first := s.scanSignificant()
	if first == nil {
		return emptyError()
	}
	return consumeDeclaration(first, s)
}

// ParseDeclarationList parses a mix of declarations and at-rules, such as
// the content of a style rule. Declarations are separated by ";".
func ParseDeclarationList[I Input](input I, skipComments, skipWhitespace bool) []ast.Node {
	s := newStream(input, skipComments)
	var a []ast.Node
	for {
		tok := s.scan()
		switch tok := tok.(type) {
		case nil:
			return a
		case *ast.Whitespace:
			if !skipWhitespace {
				a = append(a, tok)
			}
		case *ast.Comment:
			if !skipComments {
				a = append(a, tok)
			}
		case *ast.AtKeyword:
			a = append(a, consumeAtRule(tok, s))
		case *ast.Literal:
			if tok.Is(";") {
				continue
			}
			a = append(a, consumeDeclaration(tok, consumeDeclarationTokens(s)))
		default:
			a = append(a, consumeDeclaration(tok, consumeDeclarationTokens(s)))
		}
	}
}

// ParseOneRule parses a single qualified rule or at-rule, ignoring
// surrounding whitespace and comments.
func ParseOneRule[I Input](input I, skipComments bool) ast.Node {
	s := newStream(input, skipComments)
	first := s.scanSignificant()
	if first == nil {
		return emptyError()
	}
	r := consumeRule(first, s)
	if next := s.scanSignificant(); next != nil {
		return &ast.ParseError{
			Pos:     next.Position(),
			Kind:    ast.ErrExtraInput,
			Message: fmt.Sprintf("Expected a single rule, got %s after the first rule.", next.Type()),
		}
	}
	return r
}

// ParseRuleList parses a list of qualified rules and at-rules, such as the
// content of an @media rule.
func ParseRuleList[I Input](input I, skipComments, skipWhitespace bool) []ast.Node {
	return consumeRules(newStream(input, skipComments), skipComments, skipWhitespace, false)
}

// ParseStylesheet parses a stylesheet. It is the same as ParseRuleList
// except that "<!--" and "-->" are ignored at the top level.
func ParseStylesheet[I Input](input I, skipComments, skipWhitespace bool) []ast.Node {
	return consumeRules(newStream(input, skipComments), skipComments, skipWhitespace, true)
}

// consumeRules consumes a list of rules.
func consumeRules(s *stream, skipComments, skipWhitespace, toplevel bool) []ast.Node {
	var a []ast.Node
	for {
		tok := s.scan()
		switch tok := tok.(type) {
		case nil:
			return a
		case *ast.Whitespace:
			if !skipWhitespace {
				a = append(a, tok)
			}
		case *ast.Comment:
			if !skipComments {
				a = append(a, tok)
			}
		case *ast.Literal:
			if toplevel && (tok.Is("<!--") || tok.Is("-->")) {
				continue
			}
			a = append(a, consumeRule(tok, s))
		default:
			a = append(a, consumeRule(tok, s))
		}
	}
}

// consumeRule consumes an at-rule or a qualified rule starting with first.
func consumeRule(first ast.Node, s *stream) ast.Node {
	if kw, ok := first.(*ast.AtKeyword); ok {
		return consumeAtRule(kw, s)
	}
	return consumeQualifiedRule(first, s)
}

// consumeAtRule consumes the prelude and the optional block of an at-rule.
// The prelude ends at the first {-block, at ";" or at EOF.
func consumeAtRule(kw *ast.AtKeyword, s *stream) *ast.AtRule {
	r := &ast.AtRule{Pos: kw.Pos, AtKeyword: kw.Value, LowerAtKeyword: kw.LowerValue}
	for {
		tok := s.scan()
		switch tok := tok.(type) {
		case nil:
			return r
		case *ast.CurlyBracketsBlock:
			r.Content = blockContent(tok)
			return r
		case *ast.Literal:
			if tok.Is(";") {
				return r
			}
		}
		r.Prelude = append(r.Prelude, tok)
	}
}

// consumeQualifiedRule consumes a prelude up to a {-block. Reaching EOF
// first is an error positioned at the last prelude value.
func consumeQualifiedRule(first ast.Node, s *stream) ast.Node {
	if b, ok := first.(*ast.CurlyBracketsBlock); ok {
		return &ast.QualifiedRule{Pos: b.Pos, Content: blockContent(b)}
	}

	r := &ast.QualifiedRule{Pos: first.Position(), Prelude: []ast.Node{first}}
	for {
		tok := s.scan()
		switch tok := tok.(type) {
		case nil:
			last := r.Prelude[len(r.Prelude)-1]
			return &ast.ParseError{Pos: last.Position(), Kind: ast.ErrInvalid, Message: "EOF reached before {} block for a qualified rule."}
		case *ast.CurlyBracketsBlock:
			r.Content = blockContent(tok)
			return r
		}
		r.Prelude = append(r.Prelude, tok)
	}
}

// consumeDeclaration consumes "name: value" with first as the name. The
// rest of s becomes the value, minus a trailing "!important".
func consumeDeclaration(first ast.Node, s *stream) ast.Node {
	name, ok := first.(*ast.Ident)
	if !ok {
		return &ast.ParseError{
			Pos:     first.Position(),
			Kind:    ast.ErrInvalid,
			Message: fmt.Sprintf("Expected <ident> for declaration name, got %s.", first.Type()),
		}
	}

	colon := s.scanSignificant()
	if colon == nil {
		return &ast.ParseError{Pos: name.Pos, Kind: ast.ErrInvalid, Message: "Expected ':' after declaration name, got EOF"}
	} else if l, ok := colon.(*ast.Literal); !ok || !l.Is(":") {
		return &ast.ParseError{
			Pos:     colon.Position(),
			Kind:    ast.ErrInvalid,
			Message: fmt.Sprintf("Expected ':' after declaration name, got %s.", colon.Type()),
		}
	}

	d := &ast.Declaration{Pos: name.Pos, Name: name.Value, LowerName: name.LowerValue}
	d.Value, d.Important = consumeImportant(s)
	return d
}

// Important flag states.
const (
	stateValue = iota
	stateBang
	stateImportant
)

// consumeImportant collects the remaining values of a declaration and
// strips a trailing "!important", returning whether it was present.
func consumeImportant(s *stream) ([]ast.Node, bool) {
	var values []ast.Node
	state, bang := stateValue, 0
	for {
		tok := s.scan()
		if tok == nil {
			break
		}
		switch tok := tok.(type) {
		case *ast.Whitespace, *ast.Comment:
		case *ast.Literal:
			if state == stateValue && tok.Is("!") {
				state, bang = stateBang, len(values)
			} else {
				state = stateValue
			}
		case *ast.Ident:
			if state == stateBang && tok.LowerValue == "important" {
				state = stateImportant
			} else {
				state = stateValue
			}
		default:
			state = stateValue
		}
		values = append(values, tok)
	}
	if state == stateImportant {
		return values[:bang:bang], true
	}
	return values, false
}

// consumeDeclarationTokens collects the values up to the next top-level ";"
// or EOF. The ";" is consumed.
func consumeDeclarationTokens(s *stream) *stream {
	var a []ast.Node
	for {
		tok := s.scan()
		if tok == nil {
			break
		}
		if l, ok := tok.(*ast.Literal); ok && l.Is(";") {
			break
		}
		a = append(a, tok)
	}
	return &stream{nodes: a}
}

// blockContent returns the block content, non-nil even for "{}" so that an
// at-rule with an empty block differs from one without a block.
func blockContent(b *ast.CurlyBracketsBlock) []ast.Node {
	if b.Content == nil {
		return []ast.Node{}
	}
	return b.Content
}

func emptyError() *ast.ParseError {
	return &ast.ParseError{Pos: token.Pos{Line: 1, Column: 1}, Kind: ast.ErrEmpty, Message: "Input is empty"}
}

// stream is a cursor over a fixed list of component values.
type stream struct {
	i     int
	nodes []ast.Node
}

func newStream[I Input](input I, skipComments bool) *stream {
	switch v := any(input).(type) {
	case string:
		return &stream{nodes: scanner.Tokenize(v, skipComments)}
	case []ast.Node:
		return &stream{nodes: v}
	}
	return &stream{}
}

// scan returns the next value, or nil at the end.
func (s *stream) scan() ast.Node {
	if s.i >= len(s.nodes) {
		return nil
	}
	n := s.nodes[s.i]
	s.i++
	return n
}

// scanSignificant returns the next value that is not whitespace or a
// comment, or nil at the end.
func (s *stream) scanSignificant() ast.Node {
	for {
		n := s.scan()
		if n == nil || ast.IsSignificant(n) {
			return n
		}
	}
}

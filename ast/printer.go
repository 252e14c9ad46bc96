package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Printer writes nodes back out as CSS text.
//
// In faithful mode (the zero value) every token is written from the source
// text it was scanned from, so printing the output of the scanner reproduces
// its input exactly. Otherwise nodes are serialized from their values, with
// escapes added where needed and "/**/" inserted between tokens that would
// otherwise merge when re-scanned.
type Printer struct {
	Canonical bool
}

// Print writes the nodes to w.
func (p *Printer) Print(w io.Writer, nodes []Node) error {
	bw := bufio.NewWriter(w)
	if p.Canonical {
		serializeNodes(bw, nodes)
	} else {
		for _, n := range nodes {
			writeSource(bw, n)
		}
	}
	return bw.Flush()
}

// Source returns the faithful source text of the nodes.
func Source(nodes ...Node) string {
	var sb strings.Builder
	_ = (&Printer{}).Print(&sb, nodes)
	return sb.String()
}

// Serialize returns the canonical CSS text of the nodes.
func Serialize(nodes ...Node) string {
	var sb strings.Builder
	_ = (&Printer{Canonical: true}).Print(&sb, nodes)
	return sb.String()
}

func writeSource(w *bufio.Writer, n Node) {
	switch n := n.(type) {
	case *Whitespace:
		w.WriteString(n.Value)
	case *Literal:
		w.WriteString(n.Value)
	case *Ident:
		w.WriteString(n.Raw)
	case *AtKeyword:
		w.WriteString(n.Raw)
	case *Hash:
		w.WriteString(n.Raw)
	case *String:
		w.WriteString(n.Representation)
	case *URL:
		w.WriteString(n.Representation)
	case *Number:
		w.WriteString(n.Representation)
	case *Percentage:
		w.WriteString(n.Representation)
		w.WriteByte('%')
	case *Dimension:
		w.WriteString(n.Representation)
		w.WriteString(n.RawUnit)
	case *UnicodeRange:
		w.WriteString(n.Raw)
	case *Comment:
		w.WriteString(n.Raw)
	case *ParseError:
		w.WriteString(n.Raw)
	case *ParenthesesBlock:
		writeBlockSource(w, "(", ")", n.Content, n.Closed)
	case *SquareBracketsBlock:
		writeBlockSource(w, "[", "]", n.Content, n.Closed)
	case *CurlyBracketsBlock:
		writeBlockSource(w, "{", "}", n.Content, n.Closed)
	case *Function:
		writeBlockSource(w, n.RawName+"(", ")", n.Arguments, n.Closed)
	default:
		// Parser level nodes have no single source span; fall back to the
		// canonical form.
		serializeNodes(w, []Node{n})
	}
}

func writeBlockSource(w *bufio.Writer, open, close string, content []Node, closed bool) {
	w.WriteString(open)
	for _, n := range content {
		writeSource(w, n)
	}
	if closed {
		w.WriteString(close)
	}
}

// badPairs lists the serialization types that need a "/**/" between them.
// Literal nodes use their value as serialization type.
var badPairs = func() map[[2]string]bool {
	m := make(map[[2]string]bool)
	add := func(as, bs []string) {
		for _, a := range as {
			for _, b := range bs {
				m[[2]string{a, b}] = true
			}
		}
	}
	add([]string{"ident", "at-keyword", "hash", "dimension", "#", "-", "number"},
		[]string{"ident", "function", "url", "number", "percentage", "dimension", "unicode-range"})
	add([]string{"ident", "at-keyword", "hash", "dimension"}, []string{"-", "-->"})
	add([]string{"#", "-", "number", "@"}, []string{"ident", "function", "url"})
	add([]string{"unicode-range", ".", "+"}, []string{"number", "percentage", "dimension"})
	add([]string{"@"}, []string{"ident", "function", "url", "unicode-range", "-"})
	add([]string{"unicode-range"}, []string{"ident", "function", "?"})
	add([]string{"$", "*", "^", "~", "|"}, []string{"="})
	add([]string{"ident"}, []string{"() block"})
	add([]string{"|"}, []string{"|"})
	add([]string{"/"}, []string{"*"})
	return m
}()

func serializationType(n Node) string {
	if l, ok := n.(*Literal); ok {
		return l.Value
	}
	return n.Type()
}

// serializeNodes writes the nodes and returns the serialization type of the
// last one.
func serializeNodes(w *bufio.Writer, nodes []Node) string {
	var prev string
	for _, n := range nodes {
		typ := serializationType(n)
		if badPairs[[2]string{prev, typ}] {
			w.WriteString("/**/")
		} else if prev == `\` {
			// A lone backslash must not form an escape with what follows.
			if ws, ok := n.(*Whitespace); !ok || !strings.HasPrefix(ws.Value, "\n") {
				w.WriteByte('\n')
			}
		}
		serializeNode(w, n)
		if typ == "declaration" {
			w.WriteByte(';')
		}
		prev = typ
	}
	return prev
}

// serializeEnclosed writes the nodes followed by end. A trailing lone
// backslash gets a newline so it does not escape end.
func serializeEnclosed(w *bufio.Writer, nodes []Node, end string) {
	if serializeNodes(w, nodes) == `\` {
		w.WriteByte('\n')
	}
	w.WriteString(end)
}

func serializeNode(w *bufio.Writer, n Node) {
	switch n := n.(type) {
	case *Whitespace:
		w.WriteString(n.Value)
	case *Literal:
		w.WriteString(n.Value)
	case *Comment:
		w.WriteString("/*")
		w.WriteString(n.Value)
		w.WriteString("*/")
	case *Ident:
		w.WriteString(SerializeIdentifier(n.Value))
	case *AtKeyword:
		w.WriteByte('@')
		w.WriteString(SerializeIdentifier(n.Value))
	case *Hash:
		w.WriteByte('#')
		if n.IsIdentifier {
			w.WriteString(SerializeIdentifier(n.Value))
		} else {
			w.WriteString(serializeName(n.Value))
		}
	case *String:
		w.WriteByte('"')
		w.WriteString(SerializeStringValue(n.Value))
		w.WriteByte('"')
	case *URL:
		w.WriteString("url(")
		w.WriteString(SerializeURL(n.Value))
		w.WriteByte(')')
	case *Number:
		w.WriteString(n.Representation)
	case *Percentage:
		w.WriteString(n.Representation)
		w.WriteByte('%')
	case *Dimension:
		w.WriteString(n.Representation)
		serializeUnit(w, n.Unit)
	case *UnicodeRange:
		if n.Start == n.End {
			fmt.Fprintf(w, "U+%X", n.Start)
		} else {
			fmt.Fprintf(w, "U+%X-%X", n.Start, n.End)
		}
	case *ParenthesesBlock:
		w.WriteByte('(')
		serializeEnclosed(w, n.Content, ")")
	case *SquareBracketsBlock:
		w.WriteByte('[')
		serializeEnclosed(w, n.Content, "]")
	case *CurlyBracketsBlock:
		w.WriteByte('{')
		serializeEnclosed(w, n.Content, "}")
	case *Function:
		w.WriteString(SerializeIdentifier(n.Name))
		w.WriteByte('(')
		serializeEnclosed(w, n.Arguments, ")")
	case *ParseError:
		switch n.Kind {
		case ErrBadString:
			w.WriteString("\"[bad string]\n")
		case ErrBadURL:
			w.WriteString("url([bad url])")
		}
	case *Declaration:
		w.WriteString(SerializeIdentifier(n.Name))
		w.WriteByte(':')
		// The ";" written after a declaration follows the value.
		if n.Important {
			serializeEnclosed(w, n.Value, "!important")
		} else {
			serializeEnclosed(w, n.Value, "")
		}
	case *QualifiedRule:
		serializeEnclosed(w, n.Prelude, "{")
		serializeEnclosed(w, n.Content, "}")
	case *AtRule:
		w.WriteByte('@')
		w.WriteString(SerializeIdentifier(n.AtKeyword))
		if n.Content == nil {
			serializeEnclosed(w, n.Prelude, ";")
		} else {
			serializeEnclosed(w, n.Prelude, "{")
			serializeEnclosed(w, n.Content, "}")
		}
	}
}

// serializeUnit keeps units such as "e" or "e-3" from being read back as an
// exponent.
func serializeUnit(w *bufio.Writer, unit string) {
	if unit == "e" || unit == "E" || strings.HasPrefix(unit, "e-") || strings.HasPrefix(unit, "E-") {
		if unit[0] == 'e' {
			w.WriteString(`\65 `)
		} else {
			w.WriteString(`\45 `)
		}
		w.WriteString(serializeName(unit[1:]))
		return
	}
	w.WriteString(SerializeIdentifier(unit))
}

func escapeNewline(sb *strings.Builder, c rune) bool {
	switch c {
	case '\n':
		sb.WriteString(`\A `)
	case '\r':
		sb.WriteString(`\D `)
	case '\f':
		sb.WriteString(`\C `)
	default:
		return false
	}
	return true
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c > 0x7F
}

// SerializeIdentifier escapes an unescaped identifier value so that it is
// scanned back as a single ident token with the same value.
func SerializeIdentifier(value string) string {
	if value == "" {
		return ""
	}
	if value == "-" {
		return `\-`
	}
	if strings.HasPrefix(value, "--") {
		return "--" + serializeName(value[2:])
	}
	var sb strings.Builder
	if value[0] == '-' {
		sb.WriteByte('-')
		value = value[1:]
	}
	c, size := utf8.DecodeRuneInString(value)
	switch {
	case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c > 0x7F:
		sb.WriteRune(c)
	case escapeNewline(&sb, c):
	case c >= '0' && c <= '9':
		fmt.Fprintf(&sb, `\%X `, c)
	default:
		sb.WriteByte('\\')
		sb.WriteRune(c)
	}
	sb.WriteString(serializeName(value[size:]))
	return sb.String()
}

func serializeName(value string) string {
	var sb strings.Builder
	for _, c := range value {
		switch {
		case isNameChar(c):
			sb.WriteRune(c)
		case escapeNewline(&sb, c):
		default:
			sb.WriteByte('\\')
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// SerializeStringValue escapes a string value for use between double quotes.
func SerializeStringValue(value string) string {
	var sb strings.Builder
	for _, c := range value {
		switch {
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\\':
			sb.WriteString(`\\`)
		case escapeNewline(&sb, c):
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// SerializeURL escapes a URL value for use inside an unquoted url().
func SerializeURL(value string) string {
	var sb strings.Builder
	for _, c := range value {
		switch {
		case c == '\'' || c == '"' || c == '\\' || c == ' ' || c == '(' || c == ')':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case c == '\t':
			sb.WriteString(`\9 `)
		case escapeNewline(&sb, c):
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

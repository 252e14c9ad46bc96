package ast

// Dump converts nodes into nested lists of plain values, suitable for JSON
// or YAML encoding and for comparing parse results in tests.
//
// Whitespace dumps as " ", comments as "/* ... */" and literals as their
// value. Every other node dumps as a list whose first element is its Type.
func Dump(nodes []Node) []any {
	a := make([]any, 0, len(nodes))
	for _, n := range nodes {
		a = append(a, DumpNode(n))
	}
	return a
}

// DumpNode converts a single node; see Dump.
func DumpNode(n Node) any {
	switch n := n.(type) {
	case nil:
		return nil
	case *Whitespace:
		return " "
	case *Comment:
		return "/* ... */"
	case *Literal:
		return n.Value
	case *Ident:
		return []any{n.Type(), n.Value}
	case *AtKeyword:
		return []any{n.Type(), n.Value}
	case *Hash:
		typ := "unrestricted"
		if n.IsIdentifier {
			typ = "id"
		}
		return []any{n.Type(), n.Value, typ}
	case *String:
		return []any{n.Type(), n.Value}
	case *URL:
		return []any{n.Type(), n.Value}
	case *Number:
		return append([]any{n.Type()}, dumpNumeric(n.Numeric)...)
	case *Percentage:
		return append([]any{n.Type()}, dumpNumeric(n.Numeric)...)
	case *Dimension:
		return append(append([]any{n.Type()}, dumpNumeric(n.Numeric)...), n.Unit)
	case *UnicodeRange:
		return []any{n.Type(), int(n.Start), int(n.End)}
	case *ParenthesesBlock:
		return append([]any{"()"}, Dump(n.Content)...)
	case *SquareBracketsBlock:
		return append([]any{"[]"}, Dump(n.Content)...)
	case *CurlyBracketsBlock:
		return append([]any{"{}"}, Dump(n.Content)...)
	case *Function:
		return append([]any{n.Type(), n.Name}, Dump(n.Arguments)...)
	case *ParseError:
		return []any{n.Type(), n.Kind}
	case *Declaration:
		return []any{n.Type(), n.Name, Dump(n.Value), n.Important}
	case *QualifiedRule:
		return []any{n.Type(), Dump(n.Prelude), Dump(n.Content)}
	case *AtRule:
		var content any
		if n.Content != nil {
			content = Dump(n.Content)
		}
		return []any{n.Type(), n.AtKeyword, Dump(n.Prelude), content}
	}
	return nil
}

func dumpNumeric(n Numeric) []any {
	if n.IsInteger {
		return []any{n.Representation, n.IntValue, "integer"}
	}
	return []any{n.Representation, n.Value, "number"}
}

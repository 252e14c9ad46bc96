// Package charset determines the character encoding of a stylesheet and
// decodes it to a string.
package charset

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source tells which step of encoding determination picked the encoding.
type Source int

const (
	FromDefault Source = iota
	FromBOM
	FromProtocol
	FromCharsetRule
	FromEnvironment
)

func (s Source) String() string {
	switch s {
	case FromBOM:
		return "bom"
	case FromProtocol:
		return "protocol"
	case FromCharsetRule:
		return "@charset"
	case FromEnvironment:
		return "environment"
	}
	return "default"
}

var (
	charsetPrefix = []byte(`@charset "`)

	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// charsetLimit bounds the search for the end of the @charset label.
const charsetLimit = 100

// Lookup resolves an encoding label. WHATWG labels are tried first, then
// IANA names. It returns nil for unknown labels.
func Lookup(label string) encoding.Encoding {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if e, err := htmlindex.Get(label); err == nil {
		return e
	}
	if e, err := ianaindex.IANA.Encoding(label); err == nil && e != nil {
		return e
	}
	return nil
}

// Name returns the canonical name of e, or "" if e is not a known encoding.
func Name(e encoding.Encoding) string {
	if n, err := htmlindex.Name(e); err == nil {
		return n
	}
	if n, err := ianaindex.IANA.Name(e); err == nil {
		return strings.ToLower(n)
	}
	return ""
}

// Detect determines the encoding of a stylesheet. A byte order mark wins,
// followed by the protocol encoding label, an @charset rule at the very
// start of the data, the environment encoding and finally UTF-8.
func Detect(data []byte, protocolEncoding string, environmentEncoding encoding.Encoding) (encoding.Encoding, Source) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return unicode.UTF8, FromBOM
	case bytes.HasPrefix(data, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), FromBOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), FromBOM
	}

	if e := Lookup(protocolEncoding); e != nil {
		return e, FromProtocol
	}

	if e := charsetRule(data); e != nil {
		// An ASCII compatible "@charset" prefix rules out a real UTF-16 stream.
		switch Name(e) {
		case "utf-16be", "utf-16le":
			return unicode.UTF8, FromCharsetRule
		}
		return e, FromCharsetRule
	}

	if environmentEncoding != nil {
		return environmentEncoding, FromEnvironment
	}
	return unicode.UTF8, FromDefault
}

// charsetRule returns the encoding named by a leading `@charset "...";`.
func charsetRule(data []byte) encoding.Encoding {
	if !bytes.HasPrefix(data, charsetPrefix) {
		return nil
	}
	head := data[:min(len(data), charsetLimit)]
	end := bytes.IndexByte(head[len(charsetPrefix):], '"')
	if end < 0 {
		return nil
	}
	end += len(charsetPrefix)
	if !bytes.HasPrefix(data[end:], []byte(`";`)) {
		return nil
	}
	return Lookup(string(data[len(charsetPrefix):end]))
}

// Decode decodes a stylesheet and returns the text together with the
// canonical name of the encoding used. A byte order mark is not part of
// the text. Invalid sequences decode to U+FFFD.
func Decode(data []byte, protocolEncoding string, environmentEncoding encoding.Encoding) (string, string) {
	e, _ := Detect(data, protocolEncoding, environmentEncoding)
	return DecodeWith(data, e), Name(e)
}

// DecodeWith decodes data with e, letting a byte order mark override it.
func DecodeWith(data []byte, e encoding.Encoding) string {
	dec := unicode.BOMOverride(e.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return string(bytes.ToValidUTF8(bytes.TrimPrefix(data, bomUTF8), []byte("\uFFFD")))
	}
	return string(out)
}

package charset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssparse/css3/charset"
)

// Ensure that stylesheets are decoded with the right encoding.
func TestDecode(t *testing.T) {
	var tests = []struct {
		data     string
		protocol string
		env      string
		text     string
		name     string
	}{
		{data: "a{}", text: "a{}", name: "utf-8"},
		{data: "", text: "", name: "utf-8"},
		{data: "a\xFFb", text: "a\uFFFDb", name: "utf-8"},

		// protocol encoding
		{data: "\xE9", protocol: "latin1", text: "é", name: "windows-1252"},
		{data: "\xE9", protocol: " ISO-8859-1 ", text: "é", name: "windows-1252"},
		{data: "\xC3\xA9", protocol: "bogus", text: "é", name: "utf-8"},
		{data: "@charset \"windows-1252\";\xC3\xA9", protocol: "utf-8", text: "@charset \"windows-1252\";é", name: "utf-8"},

		// @charset rule
		{data: "@charset \"windows-1252\"; \xE9", text: "@charset \"windows-1252\"; é", name: "windows-1252"},
		{data: "@charset \"utf-16be\"; \xC3\xA9", text: "@charset \"utf-16be\"; é", name: "utf-8"},
		{data: "@charset \"utf-16le\";", text: "@charset \"utf-16le\";", name: "utf-8"},
		{data: "@charset \"bogus\"; \xC3\xA9", env: "latin1", text: "@charset \"bogus\"; Ã©", name: "windows-1252"},
		{data: "@charset 'windows-1252'; \xC3\xA9", text: "@charset 'windows-1252'; é", name: "utf-8"},
		{data: "@charset \"windows-1252\" ; \xC3\xA9", text: "@charset \"windows-1252\" ; é", name: "utf-8"},

		// environment encoding
		{data: "\xE9", env: "latin1", text: "é", name: "windows-1252"},

		// byte order marks
		{data: "\xEF\xBB\xBFa", text: "a", name: "utf-8"},
		{data: "\xEF\xBB\xBFa", protocol: "latin1", text: "a", name: "utf-8"},
		{data: "\xFF\xFEa\x00", text: "a", name: "utf-16le"},
		{data: "\xFE\xFF\x00a", text: "a", name: "utf-16be"},
	}

	for i, tt := range tests {
		text, name := charset.Decode([]byte(tt.data), tt.protocol, charset.Lookup(tt.env))
		assert.Equal(t, tt.text, text, "%d. <%q> text", i, tt.data)
		assert.Equal(t, tt.name, name, "%d. <%q> name", i, tt.data)
	}
}

// Ensure that the determination step is reported.
func TestDetect(t *testing.T) {
	var tests = []struct {
		data     string
		protocol string
		env      string
		source   charset.Source
	}{
		{data: "a", source: charset.FromDefault},
		{data: "\xEF\xBB\xBFa", protocol: "latin1", source: charset.FromBOM},
		{data: "a", protocol: "latin1", source: charset.FromProtocol},
		{data: `@charset "latin1";`, env: "utf-8", source: charset.FromCharsetRule},
		{data: `@charset "utf-8"`, source: charset.FromDefault},
		{data: "a", env: "latin1", source: charset.FromEnvironment},
	}

	for i, tt := range tests {
		e, src := charset.Detect([]byte(tt.data), tt.protocol, charset.Lookup(tt.env))
		require.NotNil(t, e, "%d.", i)
		assert.Equal(t, tt.source, src, "%d. <%q> got %s", i, tt.data, src)
	}
}

// Ensure that the @charset label must close within the first 100 bytes.
func TestDetect_CharsetLimit(t *testing.T) {
	long := `@charset "` + string(make([]byte, 95)) + `";`
	_, src := charset.Detect([]byte(long), "", nil)
	assert.Equal(t, charset.FromDefault, src)
}

func TestLookup(t *testing.T) {
	assert.Nil(t, charset.Lookup(""))
	assert.Nil(t, charset.Lookup("bogus"))
	require.NotNil(t, charset.Lookup(" UTF-8 "))
	assert.Equal(t, "utf-8", charset.Name(charset.Lookup("unicode-1-1-utf-8")))
	assert.Equal(t, "windows-1252", charset.Name(charset.Lookup("ascii")))
}

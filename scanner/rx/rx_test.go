package rx

import (
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func accepts(t *testing.T, pattern string, input string) bool {
	re, err := Parse(pattern, POSIXNotation)
	require.NoError(t, err)
	nfa, err := re.AsNFA(charmap.ISO8859_1)
	require.NoError(t, err)
	return nfa.Accepts([]byte(input))
}

func TestParseStructure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.scanner")
	defer teardown()
	//
	re, err := Parse("ab*", POSIXNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(Concatenation{Left: Literal{"a"}, Right: Repetition{Literal{"b"}}}))
	//
	re, err = Parse("abc", POSIXNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(Literal{"abc"}))
	//
	re, err = Parse("a|b", POSIXNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(Alternation{Literal{"a"}, Literal{"b"}}))
	require.False(t, re.Equals(Alternation{Literal{"b"}, Literal{"a"}}))
	//
	re, err = Parse("[a-z]+", POSIXNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(PositiveRepetition{Range{'a', 'z'}}))
	//
	re, err = Parse("(x)?", POSIXNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(Optional{Literal{"x"}}))
	//
	re, err = Parse("a+b", LiteralNotation)
	require.NoError(t, err)
	require.True(t, re.Equals(Literal{"a+b"}))
}

func TestPatternsAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.scanner")
	defer teardown()
	//
	cases := []struct {
		pattern string
		input   string
		ok      bool
	}{
		{`[0-9]+`, "4711", true},
		{`[0-9]+`, "", false},
		{`[0-9]*`, "", true},
		{`ab?c`, "ac", true},
		{`ab?c`, "abc", true},
		{`ab?c`, "abbc", false},
		{`(ab|cd)*e`, "abcdabe", true},
		{`(ab|cd)*e`, "abce", false},
		{`[^a-c]`, "d", true},
		{`[^a-c]`, "b", false},
		{`.`, "\n", false},
		{`.`, "x", true},
		{`\d\d`, "42", true},
		{`\w+`, "a_Z9", true},
		{`\s`, "\t", true},
		{`\*\+`, "*+", true},
		{`\x41`, "A", true},
		{`[a\-z]`, "-", true},
		{`[a-]`, "-", true},
		{`[]]`, "]", true},
		{`()`, "", true},
	}
	for _, c := range cases {
		require.Equal(t, c.ok, accepts(t, c.pattern, c.input), "pattern %q on %q", c.pattern, c.input)
	}
}

func TestMalformedPatterns(t *testing.T) {
	for _, pattern := range []string{
		"(ab", "ab)", "[a-z", "[z-a]", `\q`, `ab\`, "*a", "a|+", `\x4`, "[^\\x00-\U0010FFFF]", "]",
	} {
		_, err := Parse(pattern, POSIXNotation)
		require.Error(t, err, "pattern %q", pattern)
		perr, ok := err.(*PatternError)
		require.True(t, ok, "expected PatternError for %q, got %T", pattern, err)
		require.Equal(t, pattern, perr.Pattern)
	}
}

func TestInvalidRangeNode(t *testing.T) {
	_, err := Range{Lo: 'z', Hi: 'a'}.AsNFA(charmap.ISO8859_1)
	require.Error(t, err)
}

func TestMultiByteRange(t *testing.T) {
	re := Range{Lo: 'ä', Hi: 'ü'} // 2 bytes each in UTF-8, shared lead byte
	nfa, err := re.AsNFA(unicode.UTF8)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte("ö")))
	require.False(t, nfa.Accepts([]byte("a")))
	require.Len(t, nfa.Start.Transitions(0xc3), 1, "common lead byte is shared")
	//
	nfa, err = re.AsNFA(charmap.ISO8859_1)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte{0xf6}))
	require.False(t, nfa.Accepts([]byte("ö")))
}

func TestComplementFollowsEncoding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.scanner")
	defer teardown()
	//
	dot := MustParse(".")
	require.True(t, dot.Equals(AnyChar()))
	nfa, err := dot.AsNFA(charmap.Windows1252)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte{0x80}), "euro sign")
	require.False(t, nfa.Accepts([]byte("\n")))
	nfa, err = MustParse("[^x]").AsNFA(charmap.KOI8R)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte{0xc1}))
	require.False(t, nfa.Accepts([]byte("x")))
	//
	nfa, err = dot.AsNFA(unicode.UTF8)
	require.NoError(t, err)
	for _, s := range []string{"a", "\x7f", "ß", "€", "\uffff", "𝄞", "\U0010FFFF"} {
		require.True(t, nfa.Accepts([]byte(s)), "%q", s)
	}
	for _, s := range []string{"\n", "ab", "\xc3", "\xed\xa0\x80"} {
		require.False(t, nfa.Accepts([]byte(s)), "%q", s)
	}
	nfa, err = MustParse("[^a-zä]").AsNFA(unicode.UTF8)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte("ö")))
	require.False(t, nfa.Accepts([]byte("ä")))
	require.False(t, nfa.Accepts([]byte("q")))
}

func TestUTF8Sequences(t *testing.T) {
	for _, rg := range []Range{{0, 0x10ffff}, {0x7b, 0x912}, {0x904, 0xfff}, {0xd000, 0xe0ff}, {0xffe0, 0x10123}} {
		nfa, err := rg.AsNFA(unicode.UTF8)
		require.NoError(t, err)
		for _, c := range []rune{rg.Lo, rg.Hi, rg.Lo + (rg.Hi-rg.Lo)/3, rg.Lo - 1, rg.Hi + 1} {
			if c < 0 || c > utf8.MaxRune || (c >= 0xd800 && c <= 0xdfff) {
				continue
			}
			in := c >= rg.Lo && c <= rg.Hi
			require.Equal(t, in, nfa.Accepts([]byte(string(c))), "%U in %s", c, rg)
		}
	}
	for _, seq := range utf8Sequences(0x80, 0x10ffff) {
		require.Greater(t, len(seq), 1)
	}
}

func TestUnencodableLiteral(t *testing.T) {
	_, err := Literal{Text: "€"}.AsNFA(charmap.ISO8859_1)
	require.Error(t, err)
}

func TestBuilders(t *testing.T) {
	nfa, err := Identifier().AsNFA(charmap.ISO8859_1)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte("_x1")))
	require.False(t, nfa.Accepts([]byte("1x")))
	nfa, err = Number().AsNFA(charmap.ISO8859_1)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte("007")))
	nfa, err = Whitespace().AsNFA(charmap.ISO8859_1)
	require.NoError(t, err)
	require.True(t, nfa.Accepts([]byte(" \t\r\n")))
	require.True(t, Seq().Equals(Literal{}))
}

func TestStringRoundTrip(t *testing.T) {
	for _, pattern := range []string{`a(bc)*`, `[a-z]+x?`, `(a|b)`, `\*\.`} {
		re := MustParse(pattern)
		again, err := Parse(re.String(), POSIXNotation)
		require.NoError(t, err)
		require.True(t, re.Equals(again), "%q rendered as %q", pattern, re.String())
	}
}

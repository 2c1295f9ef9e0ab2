package csslexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := Tokenize(input)
	require.NoError(t, err)
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestTokenize_Types(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"empty", "", []TokenType{TokenEOF}},
		{"whitespace collapses", " \t\n ", []TokenType{TokenWhitespace, TokenEOF}},
		{"punctuation", ":;,", []TokenType{TokenColon, TokenSemicolon, TokenComma, TokenEOF}},
		{"grouping", "[](){}", []TokenType{TokenOpenSquare, TokenCloseSquare, TokenOpenParen, TokenCloseParen, TokenOpenCurly, TokenCloseCurly, TokenEOF}},
		{"match tokens", "~=|=^=$=*=", []TokenType{TokenIncludeMatch, TokenDashMatch, TokenPrefixMatch, TokenSuffixMatch, TokenSubstringMatch, TokenEOF}},
		{"column", "a||b", []TokenType{TokenIdent, TokenColumn, TokenIdent, TokenEOF}},
		{"cdo cdc", "<!-- -->", []TokenType{TokenCDO, TokenWhitespace, TokenCDC, TokenEOF}},
		{"function", "has(div)", []TokenType{TokenFunction, TokenIdent, TokenCloseParen, TokenEOF}},
		{"comment skipped", "a/* comment */b", []TokenType{TokenIdent, TokenIdent, TokenEOF}},
		{"unterminated comment", "a/* comment", []TokenType{TokenIdent, TokenEOF}},
		{"at keyword", "@media", []TokenType{TokenAtKeyword, TokenEOF}},
		{"lone at", "@ ", []TokenType{TokenDelim, TokenWhitespace, TokenEOF}},
		{"combinators", "a > b + c ~ d", []TokenType{
			TokenIdent, TokenWhitespace, TokenDelim, TokenWhitespace, TokenIdent, TokenWhitespace,
			TokenDelim, TokenWhitespace, TokenIdent, TokenWhitespace, TokenDelim, TokenWhitespace,
			TokenIdent, TokenEOF,
		}},
		{"attribute", `[name="x"]`, []TokenType{TokenOpenSquare, TokenIdent, TokenDelim, TokenString, TokenCloseSquare, TokenEOF}},
		{"class", ".foo", []TokenType{TokenDelim, TokenIdent, TokenEOF}},
		{"unquoted url", "url(foo.png)", []TokenType{TokenURL, TokenEOF}},
		{"quoted url is a function", `url("foo.png")`, []TokenType{TokenFunction, TokenString, TokenCloseParen, TokenEOF}},
		{"quoted url after space", `url( 'foo')`, []TokenType{TokenFunction, TokenWhitespace, TokenString, TokenCloseParen, TokenEOF}},
		{"bad url", "url(a b)", []TokenType{TokenBadURL, TokenEOF}},
		{"bad string", "\"abc\ndef", []TokenType{TokenBadString, TokenWhitespace, TokenIdent, TokenEOF}},
		{"hyphen delim", "- ", []TokenType{TokenDelim, TokenWhitespace, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(t, tt.input))
		})
	}
}

func TestTokenize_Idents(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo", "foo"},
		{"foo-bar", "foo-bar"},
		{"_foo", "_foo"},
		{"-webkit-box", "-webkit-box"},
		{"--custom", "--custom"},
		{`\31 23`, "123"},
		{`a\.b`, "a.b"},
		{`\0`, "\uFFFD"},
		{"\x00x", "\uFFFDx"},
		{`\110000`, "\uFFFD"},
		{"héllo", "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, TokenIdent, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Value)
		})
	}
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"escaped\"quote"`, `escaped"quote`},
		{`"hello\a world"`, "hello\nworld"},
		{"\"line\\\ncontinued\"", "linecontinued"},
		{`"unterminated`, "unterminated"},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, TokenString, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Value)
		})
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		input   string
		typ     TokenType
		value   float64
		numType NumberType
		unit    string
	}{
		{"0", TokenNumber, 0, NumberInteger, ""},
		{"42", TokenNumber, 42, NumberInteger, ""},
		{"-7", TokenNumber, -7, NumberInteger, ""},
		{"+5", TokenNumber, 5, NumberInteger, ""},
		{".5", TokenNumber, 0.5, NumberNumber, ""},
		{"+.25", TokenNumber, 0.25, NumberNumber, ""},
		{"3.14", TokenNumber, 3.14, NumberNumber, ""},
		{"1e3", TokenNumber, 1000, NumberNumber, ""},
		{"2E-2", TokenNumber, 0.02, NumberNumber, ""},
		{"50%", TokenPercentage, 50, NumberInteger, ""},
		{"10px", TokenDimension, 10, NumberInteger, "px"},
		{"1e", TokenDimension, 1, NumberInteger, "e"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.InDelta(t, tt.value, tokens[0].Num, 1e-9)
			assert.Equal(t, tt.numType, tokens[0].NumType)
			assert.Equal(t, tt.unit, tokens[0].Unit)
		})
	}
}

func TestTokenize_Hash(t *testing.T) {
	tests := []struct {
		input    string
		value    string
		hashType HashType
	}{
		{"#foo", "foo", HashID},
		{"#123", "123", HashUnrestricted},
		{"#-foo", "-foo", HashID},
		{`#a\:b`, "a:b", HashID},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, TokenHash, tokens[0].Type)
			assert.Equal(t, tt.value, tokens[0].Value)
			assert.Equal(t, tt.hashType, tokens[0].HashType)
		})
	}
}

func TestTokenize_Preprocessing(t *testing.T) {
	tokens, err := Tokenize("a\r\nb\rc\fd")
	require.NoError(t, err)
	require.Len(t, tokens, 8)
	for _, i := range []int{1, 3, 5} {
		assert.Equal(t, TokenWhitespace, tokens[i].Type)
		assert.Equal(t, "\n", tokens[i].Raw)
	}
}

func TestTokenize_RawAndPosition(t *testing.T) {
	tokens, err := Tokenize(`div  [x="1"]`)
	require.NoError(t, err)
	require.Len(t, tokens, 8)
	assert.Equal(t, "div", tokens[0].Raw)
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, "  ", tokens[1].Raw)
	assert.Equal(t, 3, tokens[1].Pos)
	assert.Equal(t, `"1"`, tokens[5].Raw)
	assert.Equal(t, 8, tokens[5].Pos)
	assert.Equal(t, TokenEOF, tokens[7].Type)
	assert.Equal(t, 12, tokens[7].Pos)
}

func TestTokenizer_NextAfterEOF(t *testing.T) {
	tz := NewTokenizer("a")
	assert.Equal(t, TokenIdent, tz.Next().Type)
	assert.Equal(t, TokenEOF, tz.Next().Type)
	assert.Equal(t, TokenEOF, tz.Next().Type)
}

func TestToken_ToSourceRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo", "foo"},
		{`\31 23`, `\31 23`},
		{`a\.b`, `a\.b`},
		{"#foo", "#foo"},
		{"#123", "#123"},
		{`#a\:b`, `#a\:b`},
		{`'it"s'`, `"it\"s"`},
		{`"back\\slash"`, `"back\\slash"`},
		{"10px", "10px"},
		{`1\65 1`, `1\65 1`},
		{"50%", "50%"},
		{"+.5", "+.5"},
		{"has(", "has("},
		{"@media", "@media"},
		{"url(a.png)", `url(a.png)`},
		{"~=", "~="},
		{"||", "||"},
		{"<!--", "<!--"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.want, tokens[0].ToSource())

			again, err := Tokenize(tokens[0].ToSource())
			require.NoError(t, err)
			assert.Equal(t, tokens[0].Type, again[0].Type)
			assert.Equal(t, tokens[0].Value, again[0].Value)
		})
	}
}

func TestEscapeIdent(t *testing.T) {
	assert.Equal(t, `\31 a`, EscapeIdent("1a"))
	assert.Equal(t, `-\31 `, EscapeIdent("-1"))
	assert.Equal(t, `a\ b`, EscapeIdent("a b"))
	assert.Equal(t, `\9 x`, EscapeIdent("\tx"))
	assert.Equal(t, "ünï", EscapeIdent("ünï"))
}

func TestEscapeString(t *testing.T) {
	assert.Equal(t, `a\"b\\c`, EscapeString(`a"b\c`))
	assert.Equal(t, `line\a break`, EscapeString("line\nbreak"))
}

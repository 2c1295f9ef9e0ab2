// Package csslexer tokenizes selector text following CSS Syntax Module Level 3.
// Reference: https://www.w3.org/TR/css-syntax-3/
package csslexer

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a CSS token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWhitespace
	TokenIdent
	TokenFunction
	TokenAtKeyword
	TokenHash
	TokenString
	TokenBadString
	TokenURL
	TokenBadURL
	TokenDelim
	TokenNumber
	TokenPercentage
	TokenDimension
	TokenCDO // <!--
	TokenCDC // -->
	TokenColon
	TokenSemicolon
	TokenComma
	TokenOpenSquare     // [
	TokenCloseSquare    // ]
	TokenOpenParen      // (
	TokenCloseParen     // )
	TokenOpenCurly      // {
	TokenCloseCurly     // }
	TokenIncludeMatch   // ~=
	TokenDashMatch      // |=
	TokenPrefixMatch    // ^=
	TokenSuffixMatch    // $=
	TokenSubstringMatch // *=
	TokenColumn         // ||
)

var tokenNames = [...]string{
	TokenEOF:            "EOF",
	TokenWhitespace:     "WHITESPACE",
	TokenIdent:          "IDENT",
	TokenFunction:       "FUNCTION",
	TokenAtKeyword:      "AT-KEYWORD",
	TokenHash:           "HASH",
	TokenString:         "STRING",
	TokenBadString:      "BAD-STRING",
	TokenURL:            "URL",
	TokenBadURL:         "BAD-URL",
	TokenDelim:          "DELIM",
	TokenNumber:         "NUMBER",
	TokenPercentage:     "PERCENTAGE",
	TokenDimension:      "DIMENSION",
	TokenCDO:            "CDO",
	TokenCDC:            "CDC",
	TokenColon:          "COLON",
	TokenSemicolon:      "SEMICOLON",
	TokenComma:          "COMMA",
	TokenOpenSquare:     "[",
	TokenCloseSquare:    "]",
	TokenOpenParen:      "(",
	TokenCloseParen:     ")",
	TokenOpenCurly:      "{",
	TokenCloseCurly:     "}",
	TokenIncludeMatch:   "~=",
	TokenDashMatch:      "|=",
	TokenPrefixMatch:    "^=",
	TokenSuffixMatch:    "$=",
	TokenSubstringMatch: "*=",
	TokenColumn:         "||",
}

// String returns the name of the token type.
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TOKEN(%d)", int(tt))
}

// HashType indicates whether a hash token is an ID or unrestricted.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// NumberType indicates whether a number is integer or number.
type NumberType int

const (
	NumberInteger NumberType = iota
	NumberNumber
)

// Token represents a single CSS token.
type Token struct {
	Type     TokenType
	Raw      string     // source text the token was consumed from
	Value    string     // decoded value: ident/function/at-keyword/hash name, string or url contents, number repr
	Num      float64    // numeric value for number/percentage/dimension
	NumType  NumberType // integer or number
	Unit     string     // unit for dimension tokens
	HashType HashType
	Delim    rune // the delimiter character for delim tokens
	Pos      int  // code point offset of the token in the preprocessed input
}

// IsDelim reports whether t is a delim token carrying r.
func (t Token) IsDelim(r rune) bool {
	return t.Type == TokenDelim && t.Delim == r
}

// ToSource serializes the token back to CSS text. Identifiers, hashes,
// strings and dimension units are re-escaped, so the result is lexically
// equivalent to Raw but not necessarily identical to it.
func (t Token) ToSource() string {
	switch t.Type {
	case TokenEOF:
		return ""
	case TokenWhitespace:
		return " "
	case TokenIdent:
		return EscapeIdent(t.Value)
	case TokenFunction:
		return EscapeIdent(t.Value) + "("
	case TokenAtKeyword:
		return "@" + EscapeIdent(t.Value)
	case TokenHash:
		if t.HashType == HashID {
			return "#" + EscapeIdent(t.Value)
		}
		return "#" + EscapeHash(t.Value)
	case TokenString:
		return `"` + EscapeString(t.Value) + `"`
	case TokenURL:
		return "url(" + EscapeString(t.Value) + ")"
	case TokenBadString, TokenBadURL:
		return t.Raw
	case TokenDelim:
		if t.Delim == '\\' {
			return "\\\n"
		}
		return string(t.Delim)
	case TokenNumber:
		return t.Value
	case TokenPercentage:
		return t.Value + "%"
	case TokenDimension:
		unit := EscapeIdent(t.Unit)
		// A unit starting with "e" followed by a digit or "-" reads as an exponent.
		if len(unit) > 1 && (unit[0] == 'e' || unit[0] == 'E') && (unit[1] == '-' || isDigit(rune(unit[1]))) {
			unit = `\65 ` + unit[1:]
		}
		return t.Value + unit
	case TokenCDO:
		return "<!--"
	case TokenCDC:
		return "-->"
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenComma:
		return ","
	default:
		// brackets, match tokens and column are named by their source text
		return tokenNames[t.Type]
	}
}

func (t Token) String() string {
	switch t.Type {
	case TokenIdent, TokenFunction, TokenAtKeyword, TokenHash, TokenString, TokenURL:
		return fmt.Sprintf("<%s %q>", t.Type, t.Value)
	case TokenDelim:
		return fmt.Sprintf("<DELIM %q>", string(t.Delim))
	case TokenNumber, TokenPercentage:
		return fmt.Sprintf("<%s %s>", t.Type, t.Value)
	case TokenDimension:
		return fmt.Sprintf("<DIMENSION %s%s>", t.Value, t.Unit)
	default:
		return "<" + t.Type.String() + ">"
	}
}

// Join concatenates the ToSource form of tokens.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.ToSource())
	}
	return sb.String()
}

package csslexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInfiniteLoop is returned by Tokenize when the tokenizer stops making
// progress. It guards against bugs rather than malformed input: every input
// produces some token stream.
var ErrInfiniteLoop = errors.New("csslexer: tokenizer is looping")

const eof = -1

// Tokenizer produces CSS tokens lazily from a preprocessed code point array.
type Tokenizer struct {
	input []rune
	pos   int
}

// NewTokenizer creates a new tokenizer over text.
func NewTokenizer(text string) *Tokenizer {
	return &Tokenizer{input: preprocess(text)}
}

// Tokenize converts text into a token stream. The stream always ends with
// a TokenEOF token.
func Tokenize(text string) ([]Token, error) {
	t := NewTokenizer(text)
	limit := 2 * len(t.input)
	var tokens []Token
	for iterations := 0; ; iterations++ {
		if iterations > limit {
			return nil, fmt.Errorf("%w: %q", ErrInfiniteLoop, text)
		}
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// preprocess performs input preprocessing per CSS Syntax §3.3:
// CR LF, CR and FF become LF, U+0000 becomes U+FFFD. Invalid UTF-8 decodes
// to U+FFFD as part of the rune conversion.
func preprocess(text string) []rune {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			out = append(out, '\n')
		case '\f':
			out = append(out, '\n')
		case 0:
			out = append(out, '\uFFFD')
		default:
			out = append(out, r)
		}
	}
	return out
}

func (t *Tokenizer) peek() rune {
	return t.peekN(0)
}

func (t *Tokenizer) peekN(n int) rune {
	pos := t.pos + n
	if pos < 0 || pos >= len(t.input) {
		return eof
	}
	return t.input[pos]
}

func (t *Tokenizer) consume() rune {
	if t.pos >= len(t.input) {
		return eof
	}
	r := t.input[t.pos]
	t.pos++
	return r
}

func (t *Tokenizer) reconsume() {
	if t.pos > 0 {
		t.pos--
	}
}

func (t *Tokenizer) raw(start int) string {
	return string(t.input[start:t.pos])
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameStart(r rune) bool {
	return isLetter(r) || r >= 0x80 || r == '_'
}

func isNameChar(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-'
}

func isNonPrintable(r rune) bool {
	return (r >= 0 && r <= 0x08) || r == 0x0B || (r >= 0x0E && r <= 0x1F) || r == 0x7F
}

func validEscape(first, second rune) bool {
	return first == '\\' && second != '\n'
}

func startsIdentifier(first, second, third rune) bool {
	switch {
	case first == '-':
		return isNameStart(second) || second == '-' || validEscape(second, third)
	case isNameStart(first):
		return true
	case first == '\\':
		return validEscape(first, second)
	}
	return false
}

func startsNumber(first, second, third rune) bool {
	switch {
	case first == '+' || first == '-':
		return isDigit(second) || (second == '.' && isDigit(third))
	case first == '.':
		return isDigit(second)
	}
	return isDigit(first)
}

// Next returns the next token. After the input is exhausted it keeps
// returning TokenEOF.
func (t *Tokenizer) Next() Token {
	t.skipComments()

	start := t.pos
	r := t.consume()
	simple := func(tt TokenType) Token {
		return Token{Type: tt, Raw: t.raw(start), Pos: start}
	}
	delim := func() Token {
		return Token{Type: TokenDelim, Delim: r, Raw: string(r), Pos: start}
	}
	matchOr := func(tt TokenType) Token {
		if t.peek() == '=' {
			t.consume()
			return simple(tt)
		}
		return delim()
	}

	switch {
	case r == eof:
		return Token{Type: TokenEOF, Pos: len(t.input)}
	case isWhitespace(r):
		for isWhitespace(t.peek()) {
			t.consume()
		}
		return simple(TokenWhitespace)
	case r == '"' || r == '\'':
		return t.consumeString(start, r)
	case r == '#':
		if isNameChar(t.peek()) || validEscape(t.peek(), t.peekN(1)) {
			hashType := HashUnrestricted
			if startsIdentifier(t.peek(), t.peekN(1), t.peekN(2)) {
				hashType = HashID
			}
			name := t.consumeName()
			return Token{Type: TokenHash, Value: name, HashType: hashType, Raw: t.raw(start), Pos: start}
		}
		return delim()
	case r == '$':
		return matchOr(TokenSuffixMatch)
	case r == '*':
		return matchOr(TokenSubstringMatch)
	case r == '^':
		return matchOr(TokenPrefixMatch)
	case r == '~':
		return matchOr(TokenIncludeMatch)
	case r == '|':
		if t.peek() == '|' {
			t.consume()
			return simple(TokenColumn)
		}
		return matchOr(TokenDashMatch)
	case r == '(':
		return simple(TokenOpenParen)
	case r == ')':
		return simple(TokenCloseParen)
	case r == '[':
		return simple(TokenOpenSquare)
	case r == ']':
		return simple(TokenCloseSquare)
	case r == '{':
		return simple(TokenOpenCurly)
	case r == '}':
		return simple(TokenCloseCurly)
	case r == ',':
		return simple(TokenComma)
	case r == ':':
		return simple(TokenColon)
	case r == ';':
		return simple(TokenSemicolon)
	case r == '+' || r == '.':
		if startsNumber(r, t.peek(), t.peekN(1)) {
			t.reconsume()
			return t.consumeNumeric(start)
		}
		return delim()
	case r == '-':
		if startsNumber(r, t.peek(), t.peekN(1)) {
			t.reconsume()
			return t.consumeNumeric(start)
		}
		if t.peek() == '-' && t.peekN(1) == '>' {
			t.consume()
			t.consume()
			return simple(TokenCDC)
		}
		if startsIdentifier(r, t.peek(), t.peekN(1)) {
			t.reconsume()
			return t.consumeIdentLike(start)
		}
		return delim()
	case r == '<':
		if t.peek() == '!' && t.peekN(1) == '-' && t.peekN(2) == '-' {
			t.consume()
			t.consume()
			t.consume()
			return simple(TokenCDO)
		}
		return delim()
	case r == '@':
		if startsIdentifier(t.peek(), t.peekN(1), t.peekN(2)) {
			name := t.consumeName()
			return Token{Type: TokenAtKeyword, Value: name, Raw: t.raw(start), Pos: start}
		}
		return delim()
	case r == '\\':
		if validEscape(r, t.peek()) {
			t.reconsume()
			return t.consumeIdentLike(start)
		}
		return delim()
	case isDigit(r):
		t.reconsume()
		return t.consumeNumeric(start)
	case isNameStart(r):
		t.reconsume()
		return t.consumeIdentLike(start)
	default:
		return delim()
	}
}

func (t *Tokenizer) skipComments() {
	for t.peek() == '/' && t.peekN(1) == '*' {
		t.consume()
		t.consume()
		for {
			r := t.consume()
			if r == eof {
				return
			}
			if r == '*' && t.peek() == '/' {
				t.consume()
				break
			}
		}
	}
}

// consumeEscape consumes an escaped code point. The backslash has already
// been consumed.
func (t *Tokenizer) consumeEscape() rune {
	r := t.consume()
	switch {
	case r == eof:
		return '\uFFFD'
	case isHexDigit(r):
		hex := []rune{r}
		for len(hex) < 6 && isHexDigit(t.peek()) {
			hex = append(hex, t.consume())
		}
		if isWhitespace(t.peek()) {
			t.consume()
		}
		val, err := strconv.ParseInt(string(hex), 16, 32)
		if err != nil || val == 0 || val > 0x10FFFF || (val >= 0xD800 && val <= 0xDFFF) {
			return '\uFFFD'
		}
		return rune(val)
	}
	return r
}

func (t *Tokenizer) consumeName() string {
	var sb strings.Builder
	for {
		r := t.peek()
		switch {
		case isNameChar(r):
			sb.WriteRune(t.consume())
		case validEscape(r, t.peekN(1)):
			t.consume()
			sb.WriteRune(t.consumeEscape())
		default:
			return sb.String()
		}
	}
}

func (t *Tokenizer) consumeNumber() (string, float64, NumberType) {
	var repr strings.Builder
	numType := NumberInteger

	if t.peek() == '+' || t.peek() == '-' {
		repr.WriteRune(t.consume())
	}
	for isDigit(t.peek()) {
		repr.WriteRune(t.consume())
	}
	if t.peek() == '.' && isDigit(t.peekN(1)) {
		repr.WriteRune(t.consume())
		numType = NumberNumber
		for isDigit(t.peek()) {
			repr.WriteRune(t.consume())
		}
	}
	if e := t.peek(); e == 'e' || e == 'E' {
		next := t.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(t.peekN(2))) {
			repr.WriteRune(t.consume())
			if t.peek() == '+' || t.peek() == '-' {
				repr.WriteRune(t.consume())
			}
			numType = NumberNumber
			for isDigit(t.peek()) {
				repr.WriteRune(t.consume())
			}
		}
	}

	s := repr.String()
	val, _ := strconv.ParseFloat(s, 64)
	return s, val, numType
}

func (t *Tokenizer) consumeNumeric(start int) Token {
	repr, val, numType := t.consumeNumber()
	tok := Token{Value: repr, Num: val, NumType: numType, Pos: start}
	switch {
	case startsIdentifier(t.peek(), t.peekN(1), t.peekN(2)):
		tok.Type = TokenDimension
		tok.Unit = t.consumeName()
	case t.peek() == '%':
		t.consume()
		tok.Type = TokenPercentage
	default:
		tok.Type = TokenNumber
	}
	tok.Raw = t.raw(start)
	return tok
}

func (t *Tokenizer) consumeIdentLike(start int) Token {
	name := t.consumeName()
	if strings.EqualFold(name, "url") && t.peek() == '(' {
		t.consume()
		for isWhitespace(t.peek()) && isWhitespace(t.peekN(1)) {
			t.consume()
		}
		quoted := func(r rune) bool { return r == '"' || r == '\'' }
		if quoted(t.peek()) || (isWhitespace(t.peek()) && quoted(t.peekN(1))) {
			return Token{Type: TokenFunction, Value: name, Raw: t.raw(start), Pos: start}
		}
		return t.consumeURL(start)
	}
	if t.peek() == '(' {
		t.consume()
		return Token{Type: TokenFunction, Value: name, Raw: t.raw(start), Pos: start}
	}
	return Token{Type: TokenIdent, Value: name, Raw: t.raw(start), Pos: start}
}

func (t *Tokenizer) consumeString(start int, quote rune) Token {
	var sb strings.Builder
	for {
		r := t.consume()
		switch {
		case r == quote:
			return Token{Type: TokenString, Value: sb.String(), Raw: t.raw(start), Pos: start}
		case r == eof:
			return Token{Type: TokenString, Value: sb.String(), Raw: t.raw(start), Pos: start}
		case r == '\n':
			t.reconsume()
			return Token{Type: TokenBadString, Raw: t.raw(start), Pos: start}
		case r == '\\':
			next := t.peek()
			switch {
			case next == eof:
			case next == '\n':
				t.consume()
			default:
				sb.WriteRune(t.consumeEscape())
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (t *Tokenizer) consumeURL(start int) Token {
	var sb strings.Builder
	for isWhitespace(t.peek()) {
		t.consume()
	}
	for {
		r := t.consume()
		switch {
		case r == ')':
			return Token{Type: TokenURL, Value: sb.String(), Raw: t.raw(start), Pos: start}
		case r == eof:
			return Token{Type: TokenURL, Value: sb.String(), Raw: t.raw(start), Pos: start}
		case isWhitespace(r):
			for isWhitespace(t.peek()) {
				t.consume()
			}
			if t.peek() == ')' || t.peek() == eof {
				t.consume()
				return Token{Type: TokenURL, Value: sb.String(), Raw: t.raw(start), Pos: start}
			}
			t.consumeBadURLRemnants()
			return Token{Type: TokenBadURL, Raw: t.raw(start), Pos: start}
		case r == '"' || r == '\'' || r == '(' || isNonPrintable(r):
			t.consumeBadURLRemnants()
			return Token{Type: TokenBadURL, Raw: t.raw(start), Pos: start}
		case r == '\\':
			if validEscape(r, t.peek()) {
				sb.WriteRune(t.consumeEscape())
				continue
			}
			t.consumeBadURLRemnants()
			return Token{Type: TokenBadURL, Raw: t.raw(start), Pos: start}
		default:
			sb.WriteRune(r)
		}
	}
}

func (t *Tokenizer) consumeBadURLRemnants() {
	for {
		r := t.consume()
		if r == ')' {
			return
		}
		if r == eof {
			return
		}
		if validEscape(r, t.peek()) {
			t.consumeEscape()
		}
	}
}

package selector

import (
	"encoding/json"
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/csslexer"
)

// Combinator joins two clauses of a complex selector. The zero value is the
// descendant combinator.
type Combinator string

const (
	CombinatorDescendant Combinator = ""
	CombinatorChild      Combinator = ">"
	CombinatorAdjacent   Combinator = "+"
	CombinatorSibling    Combinator = "~"
)

// ArgumentKind discriminates Argument.
type ArgumentKind int

const (
	ArgSelector ArgumentKind = iota
	ArgString
	ArgNumber
)

// Argument is one argument of a custom pseudo-function.
type Argument struct {
	Kind     ArgumentKind
	Selector *ComplexSelector
	Str      string
	Num      float64
}

// MarshalJSON encodes strings and numbers as JSON scalars.
func (a Argument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ArgString:
		return json.Marshal(a.Str)
	case ArgNumber:
		return json.Marshal(a.Num)
	default:
		return json.Marshal(a.Selector)
	}
}

// Function is a recognized pseudo-class with its arguments.
type Function struct {
	Name string     `json:"name"`
	Args []Argument `json:"args"`
}

// SimpleSelector is a run of plain CSS plus the custom functions attached
// to it. At least one of CSS and Functions is non-empty.
type SimpleSelector struct {
	CSS       string     `json:"css,omitempty"`
	Functions []Function `json:"functions"`
}

// Clause is a simple selector and the combinator that follows it.
type Clause struct {
	Selector   SimpleSelector `json:"selector"`
	Combinator Combinator     `json:"combinator"`
}

// ComplexSelector is a sequence of clauses.
type ComplexSelector struct {
	Simples []Clause `json:"simples"`
}

// CSSResult is the output of ParseCSS. Names lists the custom functions
// encountered, in order of first appearance.
type CSSResult struct {
	Selector []ComplexSelector `json:"selector"`
	Names    []string          `json:"names"`
}

// CustomCSSNames are the pseudo-classes parsed as functions by the css engine.
var CustomCSSNames = map[string]bool{
	"not": true, "is": true, "where": true, "has": true, "scope": true, "light": true,
	"visible": true, "text": true, "text-matches": true, "text-is": true, "has-text": true,
	"above": true, "below": true, "right-of": true, "left-of": true, "near": true, "nth-match": true,
}

type cssParser struct {
	selector    string
	tokens      []csslexer.Token
	pos         int
	customNames map[string]bool
	names       []string
	seen        map[string]bool
}

// ParseCSS parses a comma-separated CSS selector list. Pseudo-classes whose
// lowercase name is in customNames become Functions; everything else is kept
// as CSS text.
func ParseCSS(text string, customNames map[string]bool) (result *CSSResult, err error) {
	tokens, err := csslexer.Tokenize(text)
	if err != nil {
		return nil, newError("%s while parsing css selector \"%s\". Did you mean to CSS.escape it?", err, text)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != csslexer.TokenEOF {
		tokens = append(tokens, csslexer.Token{Type: csslexer.TokenEOF})
	}
	for _, tok := range tokens {
		if unsupportedToken(tok) {
			return nil, newError("Unsupported token \"%s\" while parsing css selector \"%s\". Did you mean to CSS.escape it?", tok.ToSource(), text)
		}
	}

	p := &cssParser{selector: text, tokens: tokens, customNames: customNames, seen: map[string]bool{}}
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			result, err = nil, e
		}
	}()

	args := p.consumeFunctionArguments()
	if !p.is(csslexer.TokenEOF) {
		panic(p.unexpected())
	}
	list := make([]ComplexSelector, 0, len(args))
	for _, arg := range args {
		if arg.Kind != ArgSelector {
			return nil, newError("Error while parsing css selector \"%s\". Did you mean to CSS.escape it?", text)
		}
		list = append(list, *arg.Selector)
	}
	return &CSSResult{Selector: list, Names: p.names}, nil
}

func unsupportedToken(tok csslexer.Token) bool {
	switch tok.Type {
	case csslexer.TokenAtKeyword, csslexer.TokenBadString, csslexer.TokenBadURL,
		csslexer.TokenColumn, csslexer.TokenCDO, csslexer.TokenCDC,
		csslexer.TokenSemicolon, csslexer.TokenOpenCurly, csslexer.TokenCloseCurly,
		csslexer.TokenURL, csslexer.TokenPercentage:
		return true
	}
	return false
}

func (p *cssParser) unexpected() *Error {
	return &Error{Message: "Unexpected token \"" + p.tokens[p.pos].ToSource() +
		"\" while parsing css selector \"" + p.selector + "\". Did you mean to CSS.escape it?"}
}

func (p *cssParser) is(tt csslexer.TokenType) bool {
	return p.tokens[p.pos].Type == tt
}

func (p *cssParser) isDelim(r rune) bool {
	return p.tokens[p.pos].IsDelim(r)
}

func (p *cssParser) skipWhitespace() {
	for p.is(csslexer.TokenWhitespace) {
		p.pos++
	}
}

func (p *cssParser) isClauseCombinator() bool {
	return p.isDelim('>') || p.isDelim('+') || p.isDelim('~')
}

func (p *cssParser) isClauseEnd() bool {
	return p.is(csslexer.TokenComma) || p.is(csslexer.TokenCloseParen) || p.is(csslexer.TokenEOF) ||
		p.isClauseCombinator() || p.is(csslexer.TokenWhitespace)
}

func (p *cssParser) addName(name string) {
	if !p.seen[name] {
		p.seen[name] = true
		p.names = append(p.names, name)
	}
}

func (p *cssParser) consumeFunctionArguments() []Argument {
	result := []Argument{p.consumeArgument()}
	for {
		p.skipWhitespace()
		if !p.is(csslexer.TokenComma) {
			break
		}
		p.pos++
		result = append(result, p.consumeArgument())
	}
	return result
}

func (p *cssParser) consumeArgument() Argument {
	p.skipWhitespace()
	switch tok := p.tokens[p.pos]; tok.Type {
	case csslexer.TokenNumber:
		p.pos++
		return Argument{Kind: ArgNumber, Num: tok.Num}
	case csslexer.TokenString:
		p.pos++
		return Argument{Kind: ArgString, Str: tok.Value}
	}
	cs := p.consumeComplexSelector()
	return Argument{Kind: ArgSelector, Selector: &cs}
}

func (p *cssParser) consumeComplexSelector() ComplexSelector {
	var result ComplexSelector
	p.skipWhitespace()
	if p.isClauseCombinator() {
		// relative selector: starts from an implicit :scope
		result.Simples = append(result.Simples, Clause{Selector: SimpleSelector{Functions: []Function{{Name: "scope", Args: []Argument{}}}}})
	} else {
		result.Simples = append(result.Simples, Clause{Selector: p.consumeSimpleSelector()})
	}
	for {
		p.skipWhitespace()
		if p.isClauseCombinator() {
			result.Simples[len(result.Simples)-1].Combinator = Combinator(string(p.tokens[p.pos].Delim))
			p.pos++
			p.skipWhitespace()
		} else if p.isClauseEnd() {
			break
		}
		result.Simples = append(result.Simples, Clause{Selector: p.consumeSimpleSelector()})
	}
	return result
}

func (p *cssParser) consumeSimpleSelector() SimpleSelector {
	var raw strings.Builder
	functions := []Function{}

	for !p.isClauseEnd() {
		tok := p.tokens[p.pos]
		switch {
		case tok.Type == csslexer.TokenIdent || tok.IsDelim('*') || tok.Type == csslexer.TokenHash:
			raw.WriteString(tok.ToSource())
			p.pos++
		case tok.IsDelim('.'):
			p.pos++
			if !p.is(csslexer.TokenIdent) {
				panic(p.unexpected())
			}
			raw.WriteString("." + p.tokens[p.pos].ToSource())
			p.pos++
		case tok.Type == csslexer.TokenColon:
			p.pos++
			p.consumePseudo(&raw, &functions)
		case tok.Type == csslexer.TokenOpenSquare:
			raw.WriteByte('[')
			p.pos++
			for !p.is(csslexer.TokenCloseSquare) && !p.is(csslexer.TokenEOF) {
				raw.WriteString(p.tokens[p.pos].ToSource())
				p.pos++
			}
			if !p.is(csslexer.TokenCloseSquare) {
				panic(p.unexpected())
			}
			raw.WriteByte(']')
			p.pos++
		default:
			panic(p.unexpected())
		}
	}
	if raw.Len() == 0 && len(functions) == 0 {
		panic(p.unexpected())
	}
	return SimpleSelector{CSS: raw.String(), Functions: functions}
}

// consumePseudo handles what follows a colon.
func (p *cssParser) consumePseudo(raw *strings.Builder, functions *[]Function) {
	tok := p.tokens[p.pos]
	switch tok.Type {
	case csslexer.TokenIdent:
		name := strings.ToLower(tok.Value)
		p.pos++
		if !p.customNames[name] {
			raw.WriteString(":" + tok.ToSource())
			return
		}
		*functions = append(*functions, Function{Name: name, Args: []Argument{}})
		p.addName(name)
	case csslexer.TokenFunction:
		name := strings.ToLower(tok.Value)
		p.pos++
		if !p.customNames[name] {
			raw.WriteString(":" + tok.ToSource() + p.consumeBuiltinFunctionArguments() + ")")
		} else {
			*functions = append(*functions, Function{Name: name, Args: p.consumeFunctionArguments()})
			p.addName(name)
		}
		p.skipWhitespace()
		if !p.is(csslexer.TokenCloseParen) {
			panic(p.unexpected())
		}
		p.pos++
	case csslexer.TokenColon:
		// pseudo-element
		p.pos++
		if !p.is(csslexer.TokenIdent) {
			panic(p.unexpected())
		}
		raw.WriteString("::" + p.tokens[p.pos].ToSource())
		p.pos++
	default:
		panic(p.unexpected())
	}
}

// consumeBuiltinFunctionArguments copies tokens up to the parenthesis that
// closes the function token already consumed.
func (p *cssParser) consumeBuiltinFunctionArguments() string {
	var sb strings.Builder
	balance := 1
	for !p.is(csslexer.TokenEOF) {
		if p.is(csslexer.TokenOpenParen) || p.is(csslexer.TokenFunction) {
			balance++
		}
		if p.is(csslexer.TokenCloseParen) {
			balance--
		}
		if balance == 0 {
			break
		}
		sb.WriteString(p.tokens[p.pos].ToSource())
		p.pos++
	}
	return sb.String()
}

// SerializeArguments prints function arguments back as selector text that
// ParseCSS accepts.
func SerializeArguments(args []Argument) string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg.Kind {
		case ArgString:
			out = append(out, `"`+csslexer.EscapeString(arg.Str)+`"`)
		case ArgNumber:
			out = append(out, FormatNumber(arg.Num))
		default:
			out = append(out, arg.Selector.String())
		}
	}
	return strings.Join(out, ", ")
}

// String serializes the complex selector.
func (c ComplexSelector) String() string {
	clauses := make([]string, 0, len(c.Simples))
	for _, clause := range c.Simples {
		var sb strings.Builder
		sb.WriteString(clause.Selector.CSS)
		for _, fn := range clause.Selector.Functions {
			sb.WriteString(":" + fn.Name)
			if len(fn.Args) > 0 {
				sb.WriteString("(" + SerializeArguments(fn.Args) + ")")
			}
		}
		if clause.Combinator != CombinatorDescendant {
			sb.WriteString(" " + string(clause.Combinator))
		}
		clauses = append(clauses, sb.String())
	}
	return strings.Join(clauses, " ")
}

// SerializeList serializes a selector list.
func SerializeList(list []ComplexSelector) string {
	args := make([]Argument, len(list))
	for i := range list {
		args[i] = Argument{Kind: ArgSelector, Selector: &list[i]}
	}
	return SerializeArguments(args)
}

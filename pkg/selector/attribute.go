package selector

import (
	"fmt"
	"strings"
	"unicode"
)

// Operator is an attribute matching operator.
type Operator string

const (
	OpTruthy    Operator = "<truthy>"
	OpEqual     Operator = "="
	OpContains  Operator = "*="
	OpPrefix    Operator = "^="
	OpSuffix    Operator = "$="
	OpDash      Operator = "|="
	OpWordMatch Operator = "~="
)

var operators = map[string]Operator{
	"=":  OpEqual,
	"*=": OpContains,
	"^=": OpPrefix,
	"$=": OpSuffix,
	"|=": OpDash,
	"~=": OpWordMatch,
}

// Attribute is one [path op value] clause.
type Attribute struct {
	Name          string   `json:"name"`
	JSONPath      []string `json:"jsonPath"`
	Op            Operator `json:"op"`
	Value         Value    `json:"value"`
	CaseSensitive bool     `json:"caseSensitive"`
}

// AttributeSelector is a name followed by bracketed attribute clauses, as
// used by the role, attr and test-id engines.
type AttributeSelector struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

// Attr returns the first attribute with the given name.
func (s *AttributeSelector) Attr(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

type attrParser struct {
	selector string
	input    []rune
	wp       int
}

// ParseAttributeSelector parses text such as `button[name="Submit" i][pressed]`.
// With allowUnquoted, bare values may contain spaces and are kept as strings
// rather than converted to numbers.
func ParseAttributeSelector(text string, allowUnquoted bool) (result *AttributeSelector, err error) {
	p := &attrParser{selector: text, input: []rune(text)}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			result, err = nil, se
		}
	}()

	result = &AttributeSelector{Attributes: []Attribute{}}
	result.Name = p.readIdentifier()
	p.skipSpaces()
	for p.next() == '[' {
		result.Attributes = append(result.Attributes, p.readAttribute(allowUnquoted))
		p.skipSpaces()
	}
	if !p.eol() {
		p.fail("")
	}
	if result.Name == "" && len(result.Attributes) == 0 {
		p.failf("Error while parsing selector `%s` - selector cannot be empty", text)
	}
	return result, nil
}

func (p *attrParser) eol() bool {
	return p.wp >= len(p.input)
}

func (p *attrParser) next() rune {
	if p.eol() {
		return 0
	}
	return p.input[p.wp]
}

func (p *attrParser) eat() rune {
	r := p.next()
	p.wp++
	return r
}

func (p *attrParser) fail(stage string) {
	if p.eol() {
		p.failf("Unexpected end of selector while parsing selector `%s`", p.selector)
	}
	msg := fmt.Sprintf("Error while parsing selector `%s` - unexpected symbol %q at position %d", p.selector, string(p.next()), p.wp)
	if stage != "" {
		msg += " during " + stage
	}
	panic(&SyntaxError{Message: msg, Selector: p.selector, Pos: p.wp})
}

func (p *attrParser) failf(format string, args ...any) {
	panic(&SyntaxError{Message: fmt.Sprintf(format, args...), Selector: p.selector, Pos: p.wp})
}

func (p *attrParser) skipSpaces() {
	for !p.eol() && unicode.IsSpace(p.next()) {
		p.wp++
	}
}

func isCSSNameChar(r rune) bool {
	return r >= 0x80 ||
		(r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		r == '_' || r == '-'
}

func (p *attrParser) readIdentifier() string {
	p.skipSpaces()
	var sb strings.Builder
	for !p.eol() && isCSSNameChar(p.next()) {
		sb.WriteRune(p.eat())
	}
	return sb.String()
}

// readQuotedString returns the unquoted contents; a backslash keeps the
// character after it.
func (p *attrParser) readQuotedString(quote rune) string {
	if p.eat() != quote {
		p.fail("parsing quoted string")
	}
	var sb strings.Builder
	for !p.eol() && p.next() != quote {
		if p.next() == '\\' {
			p.eat()
		}
		sb.WriteRune(p.eat())
	}
	if p.next() != quote {
		p.fail("parsing quoted string")
	}
	p.eat()
	return sb.String()
}

func (p *attrParser) readPattern() Pattern {
	if p.eat() != '/' {
		p.fail("parsing regular expression")
	}
	var src strings.Builder
	inClass := false
loop:
	for !p.eol() {
		switch r := p.next(); {
		case r == '\\':
			src.WriteRune(p.eat())
			if p.eol() {
				p.fail("parsing regular expression")
			}
		case inClass && r == ']':
			inClass = false
		case !inClass && r == '[':
			inClass = true
		case !inClass && r == '/':
			break loop
		}
		src.WriteRune(p.eat())
	}
	if p.eat() != '/' {
		p.fail("parsing regular expression")
	}
	var flags strings.Builder
	for !p.eol() && strings.ContainsRune("dgimsuy", p.next()) {
		flags.WriteRune(p.eat())
	}
	pat := Pattern{Source: src.String(), Flags: flags.String()}
	if _, err := pat.Compile(); err != nil {
		p.failf("Error while parsing selector `%s`: %s", p.selector, err)
	}
	return pat
}

func (p *attrParser) readAttributeToken() string {
	p.skipSpaces()
	var token string
	if p.next() == '\'' || p.next() == '"' {
		token = p.readQuotedString(p.next())
	} else {
		token = p.readIdentifier()
	}
	if token == "" {
		p.fail("parsing property path")
	}
	return token
}

func (p *attrParser) readOperator() Operator {
	p.skipSpaces()
	var op strings.Builder
	if !p.eol() {
		op.WriteRune(p.eat())
	}
	if !p.eol() && op.String() != "=" {
		op.WriteRune(p.eat())
	}
	o, ok := operators[op.String()]
	if !ok {
		p.fail("parsing operator")
	}
	return o
}

func (p *attrParser) readAttribute(allowUnquoted bool) Attribute {
	p.eat() // [

	path := []string{p.readAttributeToken()}
	p.skipSpaces()
	for p.next() == '.' {
		p.eat()
		path = append(path, p.readAttributeToken())
		p.skipSpaces()
	}
	name := strings.Join(path, ".")

	if p.next() == ']' {
		p.eat()
		return Attribute{Name: name, JSONPath: path, Op: OpTruthy}
	}

	op := p.readOperator()
	var value Value
	caseSensitive := true
	p.skipSpaces()
	switch p.next() {
	case '/':
		if op != OpEqual {
			p.failf("Error while parsing selector `%s` - cannot use %s in attribute with regular expression", p.selector, op)
		}
		value = PatternValue(p.readPattern())
	case '\'', '"':
		value = StringValue(p.readQuotedString(p.next()))
		p.skipSpaces()
		switch p.next() {
		case 'i', 'I':
			caseSensitive = false
			p.eat()
		case 's', 'S':
			p.eat()
		}
	default:
		var sb strings.Builder
		for !p.eol() && (allowUnquoted || !unicode.IsSpace(p.next())) && p.next() != ']' {
			sb.WriteRune(p.eat())
		}
		raw := sb.String()
		switch {
		case raw == "":
			p.fail("parsing attribute value")
		case raw == "true":
			value = BoolValue(true)
		case raw == "false":
			value = BoolValue(false)
		case allowUnquoted:
			value = StringValue(raw)
		default:
			n, ok := ParseNumber(raw)
			if !ok {
				p.fail("parsing attribute value")
			}
			value = NumberValue(n)
		}
	}

	p.skipSpaces()
	if p.next() != ']' {
		p.fail("parsing attribute value")
	}
	p.eat()
	if op != OpEqual && value.Kind != ValueString {
		p.failf("Error while parsing selector `%s` - cannot use %s in attribute with non-string matching value - %s", p.selector, op, value)
	}
	return Attribute{Name: name, JSONPath: path, Op: op, Value: value, CaseSensitive: caseSensitive}
}

// Package selector parses engine-chained selectors such as
// `div.item >> internal:has="span" >> nth=0` into a structured form and
// prints them back.
package selector

import (
	"encoding/json"
	"regexp"
	"strings"
)

// BodyKind discriminates Body.
type BodyKind int

const (
	BodyRaw BodyKind = iota
	BodyCSS
	BodyNested
)

// NestedBody is the body of a relational engine such as internal:has.
type NestedBody struct {
	Parsed   *Parsed  `json:"parsed"`
	Distance *float64 `json:"distance,omitempty"`
}

// Body is the decoded body of a part.
type Body struct {
	Kind   BodyKind
	Raw    string
	CSS    []ComplexSelector
	Nested *NestedBody
}

// MarshalJSON encodes the variant that is set.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BodyCSS:
		return json.Marshal(b.CSS)
	case BodyNested:
		return json.Marshal(b.Nested)
	default:
		return json.Marshal(b.Raw)
	}
}

// Part is one engine segment of a chain. Source is the body text as written.
type Part struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Body   Body   `json:"body"`
}

// IsControl reports whether the part is internal:control=<what>.
func (p Part) IsControl(what string) bool {
	return p.Name == "internal:control" && p.Body.Kind == BodyRaw && p.Body.Raw == what
}

// Parsed is a full selector chain. Capture, when set, indexes the part whose
// matches are the result of the chain.
type Parsed struct {
	Capture *int   `json:"capture,omitempty"`
	Parts   []Part `json:"parts"`
}

var nestedNames = map[string]bool{
	"internal:has":     true,
	"internal:has-not": true,
	"internal:and":     true,
	"internal:or":      true,
	"internal:chain":   true,
	"left-of":          true,
	"right-of":         true,
	"above":            true,
	"below":            true,
	"near":             true,
}

var nestedNamesWithDistance = map[string]bool{
	"left-of":  true,
	"right-of": true,
	"above":    true,
	"below":    true,
	"near":     true,
}

// IsNestedEngine reports whether the engine's body is a JSON-encoded selector.
func IsNestedEngine(name string) bool {
	return nestedNames[name]
}

var (
	engineNameRe = regexp.MustCompile(`^[a-zA-Z_0-9\-+:*]+$`)
	xpathStartRe = regexp.MustCompile(`^\(*//`)
	textPrefixRe = regexp.MustCompile(`^\s*text\s*=(.*)$`)
)

type rawPart struct {
	name string
	body string
}

// Parse parses a full selector chain.
func Parse(raw string) (*Parsed, error) {
	capture, rawParts, err := splitChain(raw)
	if err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(rawParts))
	for _, rp := range rawParts {
		part, err := parsePart(rp, parts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if nestedNames[parts[0].Name] {
		return nil, newError("%q selector cannot be first", parts[0].Name)
	}
	return &Parsed{Capture: capture, Parts: parts}, nil
}

func parsePart(rp rawPart, outer []Part) (Part, error) {
	switch {
	case rp.name == "css" || rp.name == "css:light":
		body := rp.body
		if rp.name == "css:light" {
			body = ":light(" + body + ")"
		}
		parsed, err := ParseCSS(body, CustomCSSNames)
		if err != nil {
			return Part{}, err
		}
		return Part{Name: "css", Source: body, Body: Body{Kind: BodyCSS, CSS: parsed.Selector}}, nil

	case nestedNames[rp.name]:
		nested, err := parseNestedBody(rp)
		if err != nil {
			return Part{}, err
		}
		dedupFramePrefix(nested.Parsed, outer)
		return Part{Name: rp.name, Source: rp.body, Body: Body{Kind: BodyNested, Nested: nested}}, nil

	default:
		return Part{Name: rp.name, Source: rp.body, Body: Body{Kind: BodyRaw, Raw: rp.body}}, nil
	}
}

func parseNestedBody(rp rawPart) (*NestedBody, error) {
	malformed := newError("Malformed selector: %s=%s", rp.name, rp.body)

	var decoded []any
	if err := json.Unmarshal([]byte("["+rp.body+"]"), &decoded); err != nil {
		return nil, malformed
	}
	if len(decoded) < 1 || len(decoded) > 2 {
		return nil, malformed
	}
	inner, ok := decoded[0].(string)
	if !ok {
		return nil, malformed
	}
	result := &NestedBody{}
	if len(decoded) == 2 {
		distance, ok := decoded[1].(float64)
		if !ok || !nestedNamesWithDistance[rp.name] {
			return nil, malformed
		}
		result.Distance = &distance
	}

	parsed, err := Parse(inner)
	if err != nil {
		return nil, err
	}
	result.Parsed = parsed
	return result, nil
}

// dedupFramePrefix drops the frame-entering prefix of a nested chain when
// the outer chain already starts with the same prefix.
func dedupFramePrefix(nested *Parsed, outer []Part) {
	last := -1
	for i := len(nested.Parts) - 1; i >= 0; i-- {
		if nested.Parts[i].IsControl("enter-frame") {
			last = i
			break
		}
	}
	if last == -1 || last+1 > len(outer) {
		return
	}
	prefix := &Parsed{Parts: nested.Parts[:last+1]}
	if Stringify(prefix, false) != Stringify(&Parsed{Parts: outer[:last+1]}, false) {
		return
	}
	nested.Parts = append([]Part(nil), nested.Parts[last+1:]...)
	if nested.Capture != nil {
		c := *nested.Capture - (last + 1)
		if c < 0 {
			nested.Capture = nil
		} else {
			nested.Capture = &c
		}
	}
}

// splitChain splits raw on top-level >> and classifies each segment.
func splitChain(raw string) (*int, []rawPart, error) {
	var (
		parts   []rawPart
		capture *int
	)
	appendPart := func(segment string) error {
		part := strings.TrimSpace(segment)
		var name, body string
		eq := strings.IndexByte(part, '=')
		switch {
		case eq != -1 && engineNameRe.MatchString(strings.TrimSpace(part[:eq])):
			name = strings.TrimSpace(part[:eq])
			body = part[eq+1:]
		case len(part) > 1 && part[0] == '"' && part[len(part)-1] == '"',
			len(part) > 1 && part[0] == '\'' && part[len(part)-1] == '\'':
			name, body = "text", part
		case xpathStartRe.MatchString(part) || strings.HasPrefix(part, ".."):
			name, body = "xpath", part
		default:
			name, body = "css", part
		}
		isCapture := false
		if strings.HasPrefix(name, "*") {
			isCapture = true
			name = name[1:]
		}
		parts = append(parts, rawPart{name: name, body: body})
		if isCapture {
			if capture != nil {
				return newError("Only one of the selectors can capture using * modifier")
			}
			idx := len(parts) - 1
			capture = &idx
		}
		return nil
	}

	if !strings.Contains(raw, ">>") {
		if err := appendPart(raw); err != nil {
			return nil, nil, err
		}
		return capture, parts, nil
	}

	start, index := 0, 0
	var quote byte
	ignoreTextQuote := func() bool {
		m := textPrefixRe.FindStringSubmatch(raw[start:index])
		return m != nil && m[1] != ""
	}
	for index < len(raw) {
		c := raw[index]
		switch {
		case c == '\\' && index+1 < len(raw):
			index += 2
		case quote != 0 && c == quote:
			quote = 0
			index++
		case quote == 0 && (c == '"' || c == '\'' || c == '`') && !ignoreTextQuote():
			quote = c
			index++
		case quote == 0 && c == '>' && index+1 < len(raw) && raw[index+1] == '>':
			if err := appendPart(raw[start:index]); err != nil {
				return nil, nil, err
			}
			index += 2
			start = index
		default:
			index++
		}
	}
	if err := appendPart(raw[start:index]); err != nil {
		return nil, nil, err
	}
	return capture, parts, nil
}

// VisitParts calls fn for every part of p, descending into nested bodies
// after the part that holds them.
func VisitParts(p *Parsed, fn func(Part)) {
	for _, part := range p.Parts {
		fn(part)
		if part.Body.Kind == BodyNested {
			VisitParts(part.Body.Nested.Parsed, fn)
		}
	}
}

// SplitByFrame splits p at internal:control=enter-frame markers. The capture
// marker, if any, must be in the last chunk.
func SplitByFrame(p *Parsed) ([]*Parsed, error) {
	var result []*Parsed
	chunk := &Parsed{}
	chunkStart := 0
	for i, part := range p.Parts {
		if part.IsControl("enter-frame") {
			if len(chunk.Parts) == 0 {
				return nil, newError("Selector cannot start with entering frame, select the iframe first")
			}
			result = append(result, chunk)
			chunk = &Parsed{}
			chunkStart = i + 1
			continue
		}
		if p.Capture != nil && *p.Capture == i {
			c := i - chunkStart
			chunk.Capture = &c
		}
		chunk.Parts = append(chunk.Parts, part)
	}
	if len(chunk.Parts) == 0 {
		return nil, newError("Selector cannot end with entering frame, while parsing selector %s", Stringify(p, false))
	}
	result = append(result, chunk)
	if p.Capture != nil && chunk.Capture == nil {
		return nil, newError("Can not capture the selector before diving into the frame. Only use * after the last frame has been selected")
	}
	return result, nil
}

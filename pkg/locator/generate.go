// Package locator renders parsed selectors as locator call chains in several
// target languages and parses such chains back into selectors.
package locator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

// DefaultMaxVariants caps the number of renderings returned by Render.
const DefaultMaxVariants = 20

var textPatternRe = regexp.MustCompile(`^/(.*)/([igm]*)$`)

// Render returns up to maxVariants equivalent locator chains for raw, best
// first. Render never fails: if raw cannot be rendered, the result is raw
// itself.
func Render(lang Language, raw string, isFrameRoot bool, maxVariants int, quote Quote) []string {
	if maxVariants <= 0 {
		maxVariants = DefaultMaxVariants
	}
	result, err := tryRender(lang, raw, isFrameRoot, maxVariants, quote)
	if err != nil {
		log.Printf("WARN: rendering %s locator for %q: %v", lang, raw, err)
		return []string{raw}
	}
	return result
}

// RenderOne returns the best rendering of raw.
func RenderOne(lang Language, raw string, isFrameRoot bool) string {
	return Render(lang, raw, isFrameRoot, 1, QuoteDefault)[0]
}

func tryRender(lang Language, raw string, isFrameRoot bool, maxVariants int, quote Quote) (result []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%v", r)
		}
	}()

	factory, err := LookupFactory(lang, quote)
	if err != nil {
		return nil, err
	}
	parsed, err := selector.Parse(raw)
	if err != nil {
		return nil, err
	}
	return render(factory, parsed, isFrameRoot, maxVariants)
}

func render(factory Factory, parsed *selector.Parsed, isFrameRoot bool, maxVariants int) ([]string, error) {
	parts := parsed.Parts
	var tokens [][]string
	nextBase := BasePage
	if isFrameRoot {
		nextBase = BaseFrameLocator
	}

	for index := 0; index < len(parts); index++ {
		part := parts[index]
		base := nextBase
		nextBase = BaseLocator

		switch part.Name {
		case "nth":
			switch part.Source {
			case "0":
				tokens = append(tokens, []string{
					factory.GenerateLocator(base, KindFirst, TextBody(""), Options{}),
					factory.GenerateLocator(base, KindNth, TextBody("0"), Options{}),
				})
			case "-1":
				tokens = append(tokens, []string{
					factory.GenerateLocator(base, KindLast, TextBody(""), Options{}),
					factory.GenerateLocator(base, KindNth, TextBody("-1"), Options{}),
				})
			default:
				tokens = append(tokens, []string{factory.GenerateLocator(base, KindNth, TextBody(part.Source), Options{})})
			}
			continue

		case "visible":
			tokens = append(tokens, []string{
				factory.GenerateLocator(base, KindVisible, TextBody(part.Source), Options{}),
				factory.GenerateLocator(base, KindDefault, TextBody("visible="+part.Source), Options{}),
			})
			continue

		case "internal:text", "internal:label":
			text, exact, err := detectExact(part.Source)
			if err != nil {
				return nil, err
			}
			kind := KindText
			if part.Name == "internal:label" {
				kind = KindLabel
			}
			tokens = append(tokens, []string{factory.GenerateLocator(base, kind, text, Options{Exact: exact})})
			continue

		case "internal:has-text", "internal:has-not-text":
			text, exact, err := detectExact(part.Source)
			if err != nil {
				return nil, err
			}
			// strict has-text has no locator equivalent and renders as a selector below
			if !exact {
				kind := KindHasText
				if part.Name == "internal:has-not-text" {
					kind = KindHasNotText
				}
				tokens = append(tokens, []string{factory.GenerateLocator(base, kind, text, Options{Exact: exact})})
				continue
			}

		case "internal:has", "internal:has-not", "internal:and", "internal:or", "internal:chain":
			inners, err := render(factory, part.Body.Nested.Parsed, false, maxVariants)
			if err != nil {
				return nil, err
			}
			kind := nestedKinds[part.Name]
			alternatives := make([]string, 0, len(inners))
			for _, inner := range inners {
				alternatives = append(alternatives, factory.GenerateLocator(base, kind, TextBody(inner), Options{}))
			}
			tokens = append(tokens, alternatives)
			continue

		case "internal:role":
			attrSel, err := selector.ParseAttributeSelector(part.Source, true)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, []string{factory.GenerateLocator(base, KindRole, TextBody(attrSel.Name), roleOptions(attrSel))})
			continue

		case "internal:testid":
			attrSel, err := selector.ParseAttributeSelector(part.Source, true)
			if err != nil {
				return nil, err
			}
			if len(attrSel.Attributes) == 0 {
				return nil, fmt.Errorf("test id selector %q has no attribute", part.Source)
			}
			tokens = append(tokens, []string{factory.GenerateLocator(base, KindTestID, valueBody(attrSel.Attributes[0].Value), Options{})})
			continue

		case "internal:attr":
			attrSel, err := selector.ParseAttributeSelector(part.Source, true)
			if err != nil {
				return nil, err
			}
			if len(attrSel.Attributes) == 0 {
				return nil, fmt.Errorf("attribute selector %q has no attribute", part.Source)
			}
			attr := attrSel.Attributes[0]
			if kind, ok := attrKinds[attr.Name]; ok {
				tokens = append(tokens, []string{factory.GenerateLocator(base, kind, valueBody(attr.Value), Options{Exact: attr.CaseSensitive})})
				continue
			}

		case "internal:control":
			if part.Source == "enter-frame" {
				if index == 0 {
					return nil, errors.New("cannot enter a frame before selecting it")
				}
				tokens[len(tokens)-1] = enterFrame(factory, base, tokens[len(tokens)-1], parts[index-1])
				nextBase = BaseFrameLocator
				continue
			}
		}

		selectorPart := selector.StringifyPart(part, false)
		locatorPart := factory.GenerateLocator(base, KindDefault, TextBody(selectorPart), Options{})

		if index+1 < len(parts) {
			fused, ok, err := fuseHasText(factory, base, selectorPart, locatorPart, parts[index+1])
			if err != nil {
				return nil, err
			}
			if ok {
				tokens = append(tokens, fused)
				index++
				continue
			}
		}

		alternatives := []string{locatorPart}
		if part.Name == "xpath" || part.Name == "css" {
			withEngine := selector.StringifyPart(part, true)
			alternatives = append(alternatives, factory.GenerateLocator(base, KindDefault, TextBody(withEngine), Options{}))
		}
		tokens = append(tokens, alternatives)
	}

	return combineTokens(factory, tokens, maxVariants), nil
}

var nestedKinds = map[string]Kind{
	"internal:has":     KindHas,
	"internal:has-not": KindHasNot,
	"internal:and":     KindAnd,
	"internal:or":      KindOr,
	"internal:chain":   KindChain,
}

var attrKinds = map[string]Kind{
	"placeholder": KindPlaceholder,
	"alt":         KindAlt,
	"title":       KindTitle,
}

// enterFrame turns the previous part's renderings into frame descents.
func enterFrame(factory Factory, base Base, last []string, lastPart selector.Part) []string {
	transformed := make([]string, 0, len(last)+2)
	for _, token := range last {
		transformed = append(transformed, factory.ChainLocators([]string{token, factory.GenerateLocator(base, KindFrame, TextBody(""), Options{})}))
	}
	if lastPart.Name == "xpath" || lastPart.Name == "css" {
		transformed = append(transformed,
			factory.GenerateLocator(base, KindFrameLocator, TextBody(selector.StringifyPart(lastPart, false)), Options{}),
			factory.GenerateLocator(base, KindFrameLocator, TextBody(selector.StringifyPart(lastPart, true)), Options{}),
		)
	}
	return transformed
}

// fuseHasText renders a part followed by a non-strict has-text or
// has-not-text part both as a filter chain and as a locator option.
func fuseHasText(factory Factory, base Base, selectorPart, locatorPart string, next selector.Part) ([]string, bool, error) {
	if next.Name != "internal:has-text" && next.Name != "internal:has-not-text" {
		return nil, false, nil
	}
	text, exact, err := detectExact(next.Source)
	if err != nil {
		return nil, false, err
	}
	if exact {
		return nil, false, nil
	}

	kind := KindHasText
	opts := Options{HasText: &text}
	if next.Name == "internal:has-not-text" {
		kind = KindHasNotText
		opts = Options{HasNotText: &text}
	}
	filter := factory.GenerateLocator(BaseLocator, kind, text, Options{Exact: exact})
	combined := factory.GenerateLocator(base, KindDefault, TextBody(selectorPart), opts)
	return []string{factory.ChainLocators([]string{locatorPart, filter}), combined}, true, nil
}

func roleOptions(attrSel *selector.AttributeSelector) Options {
	opts := Options{Attrs: []RoleAttr{}}
	for _, attr := range attrSel.Attributes {
		if attr.Name == "name" {
			opts.Exact = attr.CaseSensitive
			if attr.Value.Kind != selector.ValueNone {
				name := valueBody(attr.Value)
				opts.Name = &name
			}
			continue
		}
		value := attr.Value
		if attr.Name == "level" && value.Kind == selector.ValueString {
			n, ok := selector.ParseNumber(value.Str)
			if !ok {
				n = math.NaN()
			}
			value = selector.NumberValue(n)
		}
		name := attr.Name
		if name == "include-hidden" {
			name = "includeHidden"
		}
		opts.Attrs = append(opts.Attrs, RoleAttr{Name: name, Value: value})
	}
	return opts
}

func valueBody(v selector.Value) Body {
	if v.Kind == selector.ValuePattern {
		return PatternBody(v.Pattern)
	}
	return TextBody(v.String())
}

// detectExact decodes a text engine body: /re/flags is a pattern, "x" and
// "x"s match exactly, "x"i and unquoted text match loosely.
func detectExact(text string) (Body, bool, error) {
	if m := textPatternRe.FindStringSubmatch(text); m != nil {
		p := selector.Pattern{Source: m[1], Flags: m[2]}
		if _, err := p.Compile(); err != nil {
			return Body{}, false, fmt.Errorf("invalid pattern %s: %w", text, err)
		}
		return PatternBody(p), false, nil
	}
	var quoted string
	exact := false
	switch {
	case strings.HasSuffix(text, `"`):
		quoted, exact = text, true
	case strings.HasSuffix(text, `"s`):
		quoted, exact = text[:len(text)-1], true
	case strings.HasSuffix(text, `"i`):
		quoted = text[:len(text)-1]
	default:
		return TextBody(text), false, nil
	}
	var decoded string
	if err := json.Unmarshal([]byte(quoted), &decoded); err != nil {
		return Body{}, false, fmt.Errorf("decoding text %s: %w", text, err)
	}
	return TextBody(decoded), exact, nil
}

// combineTokens enumerates the cross product of alternatives depth first,
// stopping once maxVariants chains are collected.
func combineTokens(factory Factory, tokens [][]string, maxVariants int) []string {
	current := make([]string, len(tokens))
	var result []string

	var visit func(index int) bool
	visit = func(index int) bool {
		if index == len(tokens) {
			result = append(result, factory.ChainLocators(append([]string(nil), current...)))
			return len(result) < maxVariants
		}
		for _, taken := range tokens[index] {
			current[index] = taken
			if !visit(index + 1) {
				return false
			}
		}
		return true
	}

	visit(0)
	return result
}

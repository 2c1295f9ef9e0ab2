package locator

import (
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type javaScriptFactory struct {
	quote rune
}

func (f *javaScriptFactory) GenerateLocator(base Base, kind Kind, body Body, opts Options) string {
	switch kind {
	case KindDefault:
		if opts.HasText != nil {
			return "locator(" + f.q(body.Text) + ", { hasText: " + f.toText(*opts.HasText) + " })"
		}
		if opts.HasNotText != nil {
			return "locator(" + f.q(body.Text) + ", { hasNotText: " + f.toText(*opts.HasNotText) + " })"
		}
		return "locator(" + f.q(body.Text) + ")"
	case KindFrameLocator:
		return "frameLocator(" + f.q(body.Text) + ")"
	case KindFrame:
		return "contentFrame()"
	case KindNth:
		return "nth(" + body.Text + ")"
	case KindFirst:
		return "first()"
	case KindLast:
		return "last()"
	case KindVisible:
		return "filter({ visible: " + boolText(body.Text == "true") + " })"
	case KindRole:
		var attrs []string
		if opts.Name != nil {
			if opts.Name.IsPattern() {
				attrs = append(attrs, "name: "+f.pattern(*opts.Name.Pattern))
			} else {
				attrs = append(attrs, "name: "+f.q(opts.Name.Text))
				if opts.Exact {
					attrs = append(attrs, "exact: true")
				}
			}
		}
		for _, a := range opts.Attrs {
			attrs = append(attrs, a.Name+": "+f.attrValue(a.Value))
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = ", { " + strings.Join(attrs, ", ") + " }"
		}
		return "getByRole(" + f.q(body.Text) + suffix + ")"
	case KindHasText:
		return "filter({ hasText: " + f.toText(body) + " })"
	case KindHasNotText:
		return "filter({ hasNotText: " + f.toText(body) + " })"
	case KindHas:
		return "filter({ has: " + body.Text + " })"
	case KindHasNot:
		return "filter({ hasNot: " + body.Text + " })"
	case KindAnd:
		return "and(" + body.Text + ")"
	case KindOr:
		return "or(" + body.Text + ")"
	case KindChain:
		return "locator(" + body.Text + ")"
	case KindTestID:
		return "getByTestId(" + f.toText(body) + ")"
	case KindText:
		return f.withExact("getByText", body, opts.Exact)
	case KindAlt:
		return f.withExact("getByAltText", body, opts.Exact)
	case KindPlaceholder:
		return f.withExact("getByPlaceholder", body, opts.Exact)
	case KindLabel:
		return f.withExact("getByLabel", body, opts.Exact)
	case KindTitle:
		return f.withExact("getByTitle", body, opts.Exact)
	default:
		return unknownKind(kind)
	}
}

func (f *javaScriptFactory) ChainLocators(locators []string) string {
	return strings.Join(locators, ".")
}

func (f *javaScriptFactory) q(text string) string {
	return selector.EscapeWithQuotes(text, f.quote)
}

func (f *javaScriptFactory) pattern(p selector.Pattern) string {
	return selector.NormalizeEscapedRegexQuotes(p.String())
}

func (f *javaScriptFactory) toText(body Body) string {
	if body.IsPattern() {
		return f.pattern(*body.Pattern)
	}
	return f.q(body.Text)
}

func (f *javaScriptFactory) withExact(method string, body Body, exact bool) string {
	if body.IsPattern() {
		return method + "(" + f.pattern(*body.Pattern) + ")"
	}
	if exact {
		return method + "(" + f.q(body.Text) + ", { exact: true })"
	}
	return method + "(" + f.q(body.Text) + ")"
}

func (f *javaScriptFactory) attrValue(v selector.Value) string {
	if v.Kind == selector.ValueString {
		return f.q(v.Str)
	}
	return v.String()
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

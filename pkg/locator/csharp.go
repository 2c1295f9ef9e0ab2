package locator

import (
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type cSharpFactory struct{}

func (f *cSharpFactory) GenerateLocator(base Base, kind Kind, body Body, opts Options) string {
	switch kind {
	case KindDefault:
		if opts.HasText != nil {
			return "Locator(" + f.q(body.Text) + ", new() { " + f.textOption("HasText", *opts.HasText) + " })"
		}
		if opts.HasNotText != nil {
			return "Locator(" + f.q(body.Text) + ", new() { " + f.textOption("HasNotText", *opts.HasNotText) + " })"
		}
		return "Locator(" + f.q(body.Text) + ")"
	case KindFrameLocator:
		return "FrameLocator(" + f.q(body.Text) + ")"
	case KindFrame:
		return "ContentFrame"
	case KindNth:
		return "Nth(" + body.Text + ")"
	case KindFirst:
		return "First"
	case KindLast:
		return "Last"
	case KindVisible:
		return "Filter(new() { Visible = " + boolText(body.Text == "true") + " })"
	case KindRole:
		var attrs []string
		if opts.Name != nil {
			if opts.Name.IsPattern() {
				attrs = append(attrs, "NameRegex = "+f.pattern(*opts.Name.Pattern))
			} else {
				attrs = append(attrs, "Name = "+f.q(opts.Name.Text))
				if opts.Exact {
					attrs = append(attrs, "Exact = true")
				}
			}
		}
		for _, a := range opts.Attrs {
			attrs = append(attrs, selector.ToTitleCase(a.Name)+" = "+f.attrValue(a.Value))
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = ", new() { " + strings.Join(attrs, ", ") + " }"
		}
		return "GetByRole(AriaRole." + selector.ToTitleCase(body.Text) + suffix + ")"
	case KindHasText:
		return "Filter(new() { " + f.textOption("HasText", body) + " })"
	case KindHasNotText:
		return "Filter(new() { " + f.textOption("HasNotText", body) + " })"
	case KindHas:
		return "Filter(new() { Has = " + body.Text + " })"
	case KindHasNot:
		return "Filter(new() { HasNot = " + body.Text + " })"
	case KindAnd:
		return "And(" + body.Text + ")"
	case KindOr:
		return "Or(" + body.Text + ")"
	case KindChain:
		return "Locator(" + body.Text + ")"
	case KindTestID:
		if body.IsPattern() {
			return "GetByTestId(" + f.pattern(*body.Pattern) + ")"
		}
		return "GetByTestId(" + f.q(body.Text) + ")"
	case KindText:
		return f.withExact("GetByText", body, opts.Exact)
	case KindAlt:
		return f.withExact("GetByAltText", body, opts.Exact)
	case KindPlaceholder:
		return f.withExact("GetByPlaceholder", body, opts.Exact)
	case KindLabel:
		return f.withExact("GetByLabel", body, opts.Exact)
	case KindTitle:
		return f.withExact("GetByTitle", body, opts.Exact)
	default:
		return unknownKind(kind)
	}
}

func (f *cSharpFactory) ChainLocators(locators []string) string {
	return strings.Join(locators, ".")
}

func (f *cSharpFactory) q(text string) string {
	return selector.EscapeWithQuotes(text, '"')
}

func (f *cSharpFactory) pattern(p selector.Pattern) string {
	suffix := ""
	if p.IgnoreCase() {
		suffix = ", RegexOptions.IgnoreCase"
	}
	return "new Regex(" + f.q(selector.UnescapeRegexSlashes(selector.NormalizeEscapedRegexQuotes(p.Source))) + suffix + ")"
}

// textOption renders HasText = "x" or HasTextRegex = new Regex(...).
func (f *cSharpFactory) textOption(name string, body Body) string {
	if body.IsPattern() {
		return name + "Regex = " + f.pattern(*body.Pattern)
	}
	return name + " = " + f.q(body.Text)
}

func (f *cSharpFactory) withExact(method string, body Body, exact bool) string {
	if body.IsPattern() {
		return method + "(" + f.pattern(*body.Pattern) + ")"
	}
	if exact {
		return method + "(" + f.q(body.Text) + ", new() { Exact = true })"
	}
	return method + "(" + f.q(body.Text) + ")"
}

func (f *cSharpFactory) attrValue(v selector.Value) string {
	if v.Kind == selector.ValueString {
		return f.q(v.Str)
	}
	return v.String()
}

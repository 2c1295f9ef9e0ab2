package locator

import (
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type javaFactory struct{}

func javaClass(base Base) string {
	switch base {
	case BaseFrameLocator:
		return "FrameLocator"
	case BaseLocator:
		return "Locator"
	default:
		return "Page"
	}
}

func (f *javaFactory) GenerateLocator(base Base, kind Kind, body Body, opts Options) string {
	clazz := javaClass(base)
	switch kind {
	case KindDefault:
		if opts.HasText != nil {
			return "locator(" + f.q(body.Text) + ", new " + clazz + ".LocatorOptions().setHasText(" + f.toText(*opts.HasText) + "))"
		}
		if opts.HasNotText != nil {
			return "locator(" + f.q(body.Text) + ", new " + clazz + ".LocatorOptions().setHasNotText(" + f.toText(*opts.HasNotText) + "))"
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
		return "filter(new " + clazz + ".FilterOptions().setVisible(" + boolText(body.Text == "true") + "))"
	case KindRole:
		var attrs []string
		if opts.Name != nil {
			if opts.Name.IsPattern() {
				attrs = append(attrs, ".setName("+f.pattern(*opts.Name.Pattern)+")")
			} else {
				attrs = append(attrs, ".setName("+f.q(opts.Name.Text)+")")
				if opts.Exact {
					attrs = append(attrs, ".setExact(true)")
				}
			}
		}
		for _, a := range opts.Attrs {
			attrs = append(attrs, ".set"+selector.ToTitleCase(a.Name)+"("+f.attrValue(a.Value)+")")
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = ", new " + clazz + ".GetByRoleOptions()" + strings.Join(attrs, "")
		}
		return "getByRole(AriaRole." + strings.ToUpper(selector.ToSnakeCase(body.Text)) + suffix + ")"
	case KindHasText:
		return "filter(new " + clazz + ".FilterOptions().setHasText(" + f.toText(body) + "))"
	case KindHasNotText:
		return "filter(new " + clazz + ".FilterOptions().setHasNotText(" + f.toText(body) + "))"
	case KindHas:
		return "filter(new " + clazz + ".FilterOptions().setHas(" + body.Text + "))"
	case KindHasNot:
		return "filter(new " + clazz + ".FilterOptions().setHasNot(" + body.Text + "))"
	case KindAnd:
		return "and(" + body.Text + ")"
	case KindOr:
		return "or(" + body.Text + ")"
	case KindChain:
		return "locator(" + body.Text + ")"
	case KindTestID:
		return "getByTestId(" + f.toText(body) + ")"
	case KindText:
		return f.withExact(clazz, "getByText", body, opts.Exact)
	case KindAlt:
		return f.withExact(clazz, "getByAltText", body, opts.Exact)
	case KindPlaceholder:
		return f.withExact(clazz, "getByPlaceholder", body, opts.Exact)
	case KindLabel:
		return f.withExact(clazz, "getByLabel", body, opts.Exact)
	case KindTitle:
		return f.withExact(clazz, "getByTitle", body, opts.Exact)
	default:
		return unknownKind(kind)
	}
}

func (f *javaFactory) ChainLocators(locators []string) string {
	return strings.Join(locators, ".")
}

func (f *javaFactory) q(text string) string {
	return selector.EscapeWithQuotes(text, '"')
}

func (f *javaFactory) pattern(p selector.Pattern) string {
	suffix := ""
	if p.IgnoreCase() {
		suffix = ", Pattern.CASE_INSENSITIVE"
	}
	return "Pattern.compile(" + f.q(selector.UnescapeRegexSlashes(selector.NormalizeEscapedRegexQuotes(p.Source))) + suffix + ")"
}

func (f *javaFactory) toText(body Body) string {
	if body.IsPattern() {
		return f.pattern(*body.Pattern)
	}
	return f.q(body.Text)
}

func (f *javaFactory) withExact(clazz, method string, body Body, exact bool) string {
	if body.IsPattern() {
		return method + "(" + f.pattern(*body.Pattern) + ")"
	}
	if exact {
		return method + "(" + f.q(body.Text) + ", new " + clazz + "." + selector.ToTitleCase(method) + "Options().setExact(true))"
	}
	return method + "(" + f.q(body.Text) + ")"
}

func (f *javaFactory) attrValue(v selector.Value) string {
	if v.Kind == selector.ValueString {
		return f.q(v.Str)
	}
	return v.String()
}

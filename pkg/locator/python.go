package locator

import (
	"strings"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type pythonFactory struct {
	quote rune
}

func (f *pythonFactory) GenerateLocator(base Base, kind Kind, body Body, opts Options) string {
	switch kind {
	case KindDefault:
		if opts.HasText != nil {
			return "locator(" + f.q(body.Text) + ", has_text=" + f.toText(*opts.HasText) + ")"
		}
		if opts.HasNotText != nil {
			return "locator(" + f.q(body.Text) + ", has_not_text=" + f.toText(*opts.HasNotText) + ")"
		}
		return "locator(" + f.q(body.Text) + ")"
	case KindFrameLocator:
		return "frame_locator(" + f.q(body.Text) + ")"
	case KindFrame:
		return "content_frame"
	case KindNth:
		return "nth(" + body.Text + ")"
	case KindFirst:
		return "first"
	case KindLast:
		return "last"
	case KindVisible:
		return "filter(visible=" + pyBool(body.Text == "true") + ")"
	case KindRole:
		var attrs []string
		if opts.Name != nil {
			if opts.Name.IsPattern() {
				attrs = append(attrs, "name="+f.pattern(*opts.Name.Pattern))
			} else {
				attrs = append(attrs, "name="+f.q(opts.Name.Text))
				if opts.Exact {
					attrs = append(attrs, "exact=True")
				}
			}
		}
		for _, a := range opts.Attrs {
			attrs = append(attrs, selector.ToSnakeCase(a.Name)+"="+f.attrValue(a.Value))
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = ", " + strings.Join(attrs, ", ")
		}
		return "get_by_role(" + f.q(body.Text) + suffix + ")"
	case KindHasText:
		return "filter(has_text=" + f.toText(body) + ")"
	case KindHasNotText:
		return "filter(has_not_text=" + f.toText(body) + ")"
	case KindHas:
		return "filter(has=" + body.Text + ")"
	case KindHasNot:
		return "filter(has_not=" + body.Text + ")"
	case KindAnd:
		return "and_(" + body.Text + ")"
	case KindOr:
		return "or_(" + body.Text + ")"
	case KindChain:
		return "locator(" + body.Text + ")"
	case KindTestID:
		return "get_by_test_id(" + f.toText(body) + ")"
	case KindText:
		return f.withExact("get_by_text", body, opts.Exact)
	case KindAlt:
		return f.withExact("get_by_alt_text", body, opts.Exact)
	case KindPlaceholder:
		return f.withExact("get_by_placeholder", body, opts.Exact)
	case KindLabel:
		return f.withExact("get_by_label", body, opts.Exact)
	case KindTitle:
		return f.withExact("get_by_title", body, opts.Exact)
	default:
		return unknownKind(kind)
	}
}

func (f *pythonFactory) ChainLocators(locators []string) string {
	return strings.Join(locators, ".")
}

func (f *pythonFactory) q(text string) string {
	return selector.EscapeWithQuotes(text, f.quote)
}

// pattern renders a raw-string re.compile call.
func (f *pythonFactory) pattern(p selector.Pattern) string {
	src := selector.NormalizeEscapedRegexQuotes(p.Source)
	src = selector.UnescapeRegexSlashes(src)
	src = strings.ReplaceAll(src, `"`, `\"`)
	suffix := ""
	if p.IgnoreCase() {
		suffix = ", re.IGNORECASE"
	}
	return `re.compile(r"` + src + `"` + suffix + ")"
}

func (f *pythonFactory) toText(body Body) string {
	if body.IsPattern() {
		return f.pattern(*body.Pattern)
	}
	return f.q(body.Text)
}

func (f *pythonFactory) withExact(method string, body Body, exact bool) string {
	if body.IsPattern() {
		return method + "(" + f.pattern(*body.Pattern) + ")"
	}
	if exact {
		return method + "(" + f.q(body.Text) + ", exact=True)"
	}
	return method + "(" + f.q(body.Text) + ")"
}

func (f *pythonFactory) attrValue(v selector.Value) string {
	switch v.Kind {
	case selector.ValueString:
		return f.q(v.Str)
	case selector.ValueBool:
		return pyBool(v.Bool)
	default:
		return v.String()
	}
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

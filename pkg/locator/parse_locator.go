package locator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

// ErrNotALocator is returned by AsSelector when the input is neither a
// selector nor a locator chain it can reproduce.
var ErrNotALocator = errors.New("not a locator")

type locatorParam struct {
	quote rune
	text  string
}

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

var (
	ariaRoleRe   = regexp.MustCompile(`AriaRole\s*\.\s*(\w+)`)
	quotedRoleRe = regexp.MustCompile("(get_by_role|getByRole)\\s*\\(\\s*[\"'`]([^'\"`]+)['\"`]")
	paramRe      = regexp.MustCompile(`\$(\d+)`)
	hasFilterRe  = regexp.MustCompile(`filter\(,?(has=|hasnot=|sethas\(|sethasnot\()`)
	setHasRe     = regexp.MustCompile(`sethas\($`)
	setHasNotRe  = regexp.MustCompile(`sethasnot\($`)
	trailingEqRe = regexp.MustCompile(`=$`)
	setterRe     = regexp.MustCompile(`,set(\w+)\(([^)]+)\)`)
	testIDRe     = regexp.MustCompile(`getbytestid\(([^)]+)\)`)
	regexParamRe = regexp.MustCompile(`r\$(\d+)(i)?`)
	textParamRe  = regexp.MustCompile(`\$(\d+)(i|s)?`)
	jsQuoteRe    = regexp.MustCompile("\\\\?[\"`]")
)

// equalizers bring the lowercased template of every language to one shape.
var equalizers = []rewrite{
	{regexp.MustCompile(`get_by_alt_text`), "getbyalttext"},
	{regexp.MustCompile(`get_by_test_id`), "getbytestid"},
	{regexp.MustCompile(`get_by_(\w+)`), "getby${1}"},
	{regexp.MustCompile(`has_not_text`), "hasnottext"},
	{regexp.MustCompile(`has_text`), "hastext"},
	{regexp.MustCompile(`has_not`), "hasnot"},
	{regexp.MustCompile(`frame_locator`), "framelocator"},
	{regexp.MustCompile(`content_frame`), "contentframe"},
	{regexp.MustCompile(`[{}\s]`), ""},
	{regexp.MustCompile(`new\(\)`), ""},
	{regexp.MustCompile(`new\w+\.\w+options\(\)`), ""},
	{regexp.MustCompile(`\.set`), ",set"},
	{regexp.MustCompile(`\.or_\(`), "or("},
	{regexp.MustCompile(`\.and_\(`), "and("},
	{regexp.MustCompile(`:`), "="},
	{regexp.MustCompile(`,re\.ignorecase`), "i"},
	{regexp.MustCompile(`,pattern.case_insensitive`), "i"},
	{regexp.MustCompile(`,regexoptions.ignorecase`), "i"},
	{regexp.MustCompile(`re.compile\(([^)]+)\)`), "${1}"},
	{regexp.MustCompile(`pattern.compile\(([^)]+)\)`), "r${1}"},
	{regexp.MustCompile(`newregex\(([^)]+)\)`), "r${1}"},
	{regexp.MustCompile(`string=`), "="},
	{regexp.MustCompile(`regex=`), "="},
	{regexp.MustCompile(`,,`), ","},
	{regexp.MustCompile(`,\)`), ")"},
}

// engineRewrites turn equalized calls into selector engines. The test id
// rewrite is applied separately since it depends on the attribute name.
var engineRewrites = []rewrite{
	{regexp.MustCompile(`framelocator\(([^)]+)\)`), "${1}.internal:control=enter-frame"},
	{regexp.MustCompile(`contentframe(\(\))?`), "internal:control=enter-frame"},
	{regexp.MustCompile(`locator\(([^)]+),hastext=([^),]+)\)`), "locator(${1}).internal:has-text=${2}"},
	{regexp.MustCompile(`locator\(([^)]+),hasnottext=([^),]+)\)`), "locator(${1}).internal:has-not-text=${2}"},
	{regexp.MustCompile(`locator\(([^)]+)\)`), "${1}"},
	{regexp.MustCompile(`getbyrole\(([^)]+)\)`), "internal:role=${1}"},
	{regexp.MustCompile(`getbytext\(([^)]+)\)`), "internal:text=${1}"},
	{regexp.MustCompile(`getbylabel\(([^)]+)\)`), "internal:label=${1}"},
}

var filterRewrites = []rewrite{
	{regexp.MustCompile(`getby(placeholder|alt|title)(?:text)?\(([^)]+)\)`), "internal:attr=[${1}=${2}]"},
	{regexp.MustCompile(`first(\(\))?`), "nth=0"},
	{regexp.MustCompile(`last(\(\))?`), "nth=-1"},
	{regexp.MustCompile(`nth\(([^)]+)\)`), "nth=${1}"},
	{regexp.MustCompile(`filter\(,?visible=true\)`), "visible=true"},
	{regexp.MustCompile(`filter\(,?visible=false\)`), "visible=false"},
	{regexp.MustCompile(`filter\(,?hastext=([^)]+)\)`), "internal:has-text=${1}"},
	{regexp.MustCompile(`filter\(,?hasnottext=([^)]+)\)`), "internal:has-not-text=${1}"},
	{regexp.MustCompile(`filter\(,?has2=([^)]+)\)`), "internal:has=${1}"},
	{regexp.MustCompile(`filter\(,?hasnot2=([^)]+)\)`), "internal:has-not=${1}"},
	{regexp.MustCompile(`,exact=false`), ""},
	{regexp.MustCompile(`,exact=true`), "s"},
	{regexp.MustCompile(`,includehidden=`), ",include-hidden="},
	{regexp.MustCompile(`,`), "]["},
}

// AsSelector converts locator source code in lang back into a selector. Input
// that already parses as a selector is returned unchanged. A locator is only
// accepted when rendering the resulting selector reproduces it.
func AsSelector(lang Language, locatorOrSelector, testIDAttr string) (result string, err error) {
	if _, err := selector.Parse(locatorOrSelector); err == nil {
		return locatorOrSelector, nil
	}

	defer func() {
		if r := recover(); r != nil {
			result, err = "", fmt.Errorf("%w: %s: %v", ErrNotALocator, locatorOrSelector, r)
		}
	}()

	sel, quote := parseLocator(locatorOrSelector, testIDAttr)
	variants, err := tryRender(lang, sel, false, DefaultMaxVariants, quote)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotALocator, locatorOrSelector, err)
	}
	digest := digestForComparison(lang, locatorOrSelector)
	for _, v := range variants {
		if digestForComparison(lang, v) == digest {
			return sel, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotALocator, locatorOrSelector)
}

// parseLocator extracts string and pattern literals as numbered params and
// normalizes the remaining code across languages.
func parseLocator(locator, testIDAttr string) (string, Quote) {
	locator = replaceSubmatches(ariaRoleRe, locator, func(m []string) string {
		return strings.ToLower(m[1])
	})
	locator = replaceSubmatches(quotedRoleRe, locator, func(m []string) string {
		return m[1] + "(" + strings.ToLower(m[2])
	})

	runes := []rune(locator)
	var (
		params   []locatorParam
		template strings.Builder
	)
	for i := 0; i < len(runes); i++ {
		quote := runes[i]
		if quote != '"' && quote != '\'' && quote != '`' && quote != '/' {
			template.WriteRune(quote)
			continue
		}
		rawString := (i > 0 && runes[i-1] == 'r') || quote == '/'
		i++
		var text strings.Builder
		for i < len(runes) {
			if runes[i] == '\\' {
				if rawString {
					if i+1 >= len(runes) || runes[i+1] != quote {
						text.WriteRune('\\')
					}
					i++
					if i < len(runes) {
						text.WriteRune(runes[i])
					}
				} else {
					i++
					if i < len(runes) {
						text.WriteRune(unescapeChar(runes[i]))
					}
				}
				i++
				continue
			}
			if runes[i] != quote {
				text.WriteRune(runes[i])
				i++
				continue
			}
			break
		}
		params = append(params, locatorParam{quote: quote, text: text.String()})
		if quote == '/' {
			template.WriteByte('r')
		}
		template.WriteString("$" + strconv.Itoa(len(params)))
	}

	normalized := strings.ToLower(template.String())
	for _, rw := range equalizers {
		normalized = rw.re.ReplaceAllString(normalized, rw.repl)
	}

	preferred := QuoteDefault
	for _, p := range params {
		if p.quote != '/' {
			preferred = Quote(p.quote)
			break
		}
	}
	return transform(normalized, params, testIDAttr), preferred
}

func unescapeChar(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return r
	}
}

func countParams(template string) int {
	return len(paramRe.FindAllStringIndex(template, -1))
}

func shiftParams(template string, sub int) string {
	return replaceSubmatches(paramRe, template, func(m []string) string {
		n, _ := strconv.Atoi(m[1])
		return "$" + strconv.Itoa(n-sub)
	})
}

func transform(template string, params []locatorParam, testIDAttr string) string {
	// has and hasNot filters hold whole locators; turn each into a single
	// JSON-quoted selector param.
	for {
		loc := hasFilterRe.FindStringSubmatchIndex(template)
		if loc == nil {
			break
		}
		start := loc[1]
		group := template[loc[2]:loc[3]]
		balance, end := 0, start
		for ; end < len(template); end++ {
			switch template[end] {
			case '(':
				balance++
			case ')':
				balance--
			}
			if balance < 0 {
				break
			}
		}

		prefix := template[:start]
		extra := 0
		if group == "sethas(" || group == "sethasnot(" {
			extra = 1
			prefix = setHasRe.ReplaceAllString(prefix, "has=")
			prefix = setHasNotRe.ReplaceAllString(prefix, "hasnot=")
		}

		before := countParams(template[:start])
		hasTemplate := shiftParams(template[start:end], before)
		inHas := countParams(hasTemplate)
		hasSelector := selector.JSONString(transform(hasTemplate, params[before:before+inHas], testIDAttr))

		rest := ""
		if end+extra < len(template) {
			rest = template[end+extra:]
		}
		template = trailingEqRe.ReplaceAllString(prefix, "2=") + "$" + strconv.Itoa(before+1) + shiftParams(rest, inHas-1)

		next := make([]locatorParam, 0, len(params)-inHas+1)
		next = append(next, params[:before]...)
		next = append(next, locatorParam{quote: '"', text: hasSelector})
		next = append(next, params[before+inHas:]...)
		params = next
	}

	template = replaceSubmatches(setterRe, template, func(m []string) string {
		return "," + strings.ToLower(m[1]) + "=" + strings.ToLower(m[2])
	})
	for _, rw := range engineRewrites {
		template = rw.re.ReplaceAllString(template, rw.repl)
	}
	template = testIDRe.ReplaceAllString(template, "internal:testid=["+strings.ReplaceAll(testIDAttr, "$", "$$")+"=${1}]")
	for _, rw := range filterRewrites {
		template = rw.re.ReplaceAllString(template, rw.repl)
	}

	parts := strings.Split(template, ".")
	// locators enter the frame before picking nth; selectors the other way round
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "internal:control=enter-frame" && strings.HasPrefix(parts[i+1], "nth=") {
			parts[i], parts[i+1] = parts[i+1], parts[i]
		}
	}

	param := func(ordinal string) locatorParam {
		n, _ := strconv.Atoi(ordinal)
		return params[n-1]
	}
	for i, t := range parts {
		if !strings.HasPrefix(t, "internal:") || t == "internal:control" {
			parts[i] = replaceSubmatches(paramRe, t, func(m []string) string { return param(m[1]).text })
			continue
		}
		if strings.Contains(t, "[") {
			t = strings.Replace(t, "]", "", 1) + "]"
		}
		attrLike := strings.HasPrefix(t, "internal:attr") || strings.HasPrefix(t, "internal:testid") || strings.HasPrefix(t, "internal:role")
		t = replaceSubmatches(regexParamRe, t, func(m []string) string {
			p := param(m[1])
			if attrLike {
				return selector.EscapeRegexForSelector(selector.Pattern{Source: p.text}) + m[2]
			}
			return selector.EscapeRegexForSelector(selector.Pattern{Source: p.text, Flags: m[2]})
		})
		t = replaceSubmatches(textParamRe, t, func(m []string) string {
			p := param(m[1])
			switch {
			case strings.HasPrefix(t, "internal:has=") || strings.HasPrefix(t, "internal:has-not="):
				return p.text
			case strings.HasPrefix(t, "internal:testid"):
				return selector.EscapeForAttributeSelector(p.text, true)
			case strings.HasPrefix(t, "internal:attr") || strings.HasPrefix(t, "internal:role"):
				return selector.EscapeForAttributeSelector(p.text, m[2] == "s")
			default:
				return selector.EscapeForTextSelector(p.text, m[2] == "s")
			}
		})
		parts[i] = t
	}
	return strings.Join(parts, " >> ")
}

func digestForComparison(lang Language, locator string) string {
	locator = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, locator)
	if lang == JavaScript {
		locator = jsQuoteRe.ReplaceAllString(locator, "'")
		locator = strings.ReplaceAll(locator, ",{}", "")
	}
	return locator
}

// replaceSubmatches is ReplaceAllStringFunc with access to capture groups.
// Unmatched optional groups are passed as empty strings.
func replaceSubmatches(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var sb strings.Builder
	last := 0
	for _, loc := range matches {
		sb.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = s[loc[2*g]:loc[2*g+1]]
			}
		}
		sb.WriteString(fn(groups))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

package selector

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	unescapedQuoteRe  = regexp.MustCompile("(^|[^\\\\])(\\\\\\\\)*([\"'`])")
	escapedQuoteRe    = regexp.MustCompile("(^|[^\\\\])(\\\\\\\\)*\\\\([\"'`])")
	snakeLowerUpperRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	snakeUpperUpperRe = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
)

// JSONString encodes s as a JSON string literal without HTML escaping.
func JSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// strings always encode
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// EscapeWithQuotes quotes text with the given quote character, which must
// be one of ' " or `.
func EscapeWithQuotes(text string, quote rune) string {
	stringified := JSONString(text)
	escaped := strings.ReplaceAll(stringified[1:len(stringified)-1], `\"`, `"`)
	q := string(quote)
	switch quote {
	case '\'', '"', '`':
		return q + strings.ReplaceAll(escaped, q, `\`+q) + q
	default:
		panic("invalid escape char " + q)
	}
}

// ToTitleCase upper-cases the first character.
func ToTitleCase(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// ToSnakeCase turns camelCase and PascalCase into snake_case.
func ToSnakeCase(name string) string {
	name = snakeLowerUpperRe.ReplaceAllString(name, "${1}_${2}")
	name = snakeUpperUpperRe.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(name)
}

// EscapeForTextSelector renders text as a text engine body. A trailing s
// requests an exact match and i a case-insensitive substring match.
func EscapeForTextSelector(text string, exact bool) string {
	return JSONString(text) + exactSuffix(exact)
}

// EscapeForAttributeSelector renders value as a quoted attribute value.
func EscapeForAttributeSelector(value string, exact bool) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"` + exactSuffix(exact)
}

// EscapeRegexForSelector renders p so that it survives the chain parser:
// quotes are escaped and >> cannot split the selector.
func EscapeRegexForSelector(p Pattern) string {
	if strings.ContainsAny(p.Flags, "uv") {
		return p.String()
	}
	s := unescapedQuoteRe.ReplaceAllString(p.String(), "${1}${2}\\${3}")
	return strings.ReplaceAll(s, ">>", `\>\>`)
}

// EscapeRegexSlashes escapes every / that would end a regex literal early.
// Slashes that are already escaped or sit inside a [...] class are kept.
func EscapeRegexSlashes(source string) string {
	var sb strings.Builder
	inClass := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '\\' && i+1 < len(source):
			sb.WriteByte(c)
			i++
			sb.WriteByte(source[i])
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// UnescapeRegexSlashes drops the backslash in front of escaped slashes,
// leaving escaped backslashes alone.
func UnescapeRegexSlashes(source string) string {
	var sb strings.Builder
	for i := 0; i < len(source); i++ {
		c := source[i]
		if c == '\\' && i+1 < len(source) {
			if source[i+1] != '/' {
				sb.WriteByte(c)
			}
			i++
			sb.WriteByte(source[i])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// NormalizeEscapedRegexQuotes drops backslashes in front of quotes.
func NormalizeEscapedRegexQuotes(source string) string {
	return escapedQuoteRe.ReplaceAllString(source, "${1}${2}${3}")
}

func exactSuffix(exact bool) string {
	if exact {
		return "s"
	}
	return "i"
}

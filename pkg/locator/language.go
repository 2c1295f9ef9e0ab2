package locator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Language identifies a target binding.
type Language string

const (
	JavaScript Language = "javascript"
	Python     Language = "python"
	Java       Language = "java"
	CSharp     Language = "csharp"
	JSONL      Language = "jsonl"
)

var languageAliases = map[string]Language{
	"js":         JavaScript,
	"ts":         JavaScript,
	"typescript": JavaScript,
	"py":         Python,
	"cs":         CSharp,
	"c#":         CSharp,
	"dotnet":     CSharp,
}

// Quote is a preferred string quote character. QuoteDefault lets each
// language pick its own.
type Quote rune

const (
	QuoteDefault  Quote = 0
	QuoteSingle   Quote = '\''
	QuoteDouble   Quote = '"'
	QuoteBacktick Quote = '`'
)

// ParseQuote accepts a quote character or its name.
func ParseQuote(s string) (Quote, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return QuoteDefault, nil
	case "'", "single":
		return QuoteSingle, nil
	case `"`, "double":
		return QuoteDouble, nil
	case "`", "backtick":
		return QuoteBacktick, nil
	}
	return QuoteDefault, fmt.Errorf("invalid quote %q: must be ', \" or `", s)
}

func (q Quote) or(fallback rune) rune {
	if q == QuoteDefault {
		return fallback
	}
	return rune(q)
}

var (
	registryOnce sync.Once
	registry     map[Language]func(Quote) Factory
)

func factories() map[Language]func(Quote) Factory {
	registryOnce.Do(func() {
		registry = map[Language]func(Quote) Factory{
			JavaScript: func(q Quote) Factory { return &javaScriptFactory{quote: q.or('\'')} },
			Python:     func(q Quote) Factory { return &pythonFactory{quote: q.or('"')} },
			Java:       func(Quote) Factory { return &javaFactory{} },
			CSharp:     func(Quote) Factory { return &cSharpFactory{} },
			JSONL:      func(Quote) Factory { return &jsonlFactory{} },
		}
	})
	return registry
}

// LookupFactory returns the factory for lang configured with the preferred
// quote. Java and C# always use double quotes.
func LookupFactory(lang Language, quote Quote) (Factory, error) {
	newFactory, ok := factories()[lang]
	if !ok {
		return nil, fmt.Errorf("unknown language %q: must be one of %s", lang, strings.Join(LanguageNames(), ", "))
	}
	return newFactory(quote), nil
}

// ParseLanguage resolves a language name or alias.
func ParseLanguage(s string) (Language, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if lang, ok := languageAliases[name]; ok {
		return lang, nil
	}
	if _, ok := factories()[Language(name)]; ok {
		return Language(name), nil
	}
	return "", fmt.Errorf("unknown language %q: must be one of %s", s, strings.Join(LanguageNames(), ", "))
}

// LanguageNames lists the supported languages in sorted order.
func LanguageNames() []string {
	names := make([]string, 0, len(factories()))
	for lang := range factories() {
		names = append(names, string(lang))
	}
	sort.Strings(names)
	return names
}

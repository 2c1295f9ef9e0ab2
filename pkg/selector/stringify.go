package selector

import "strings"

// Stringify prints p back as a chain. Engine prefixes are omitted where
// Parse would infer the same engine, unless forceEngineName is set.
func Stringify(p *Parsed, forceEngineName bool) string {
	out := make([]string, 0, len(p.Parts))
	for i, part := range p.Parts {
		captured := p.Capture != nil && *p.Capture == i
		out = append(out, stringifyPart(part, forceEngineName, captured))
	}
	return strings.Join(out, " >> ")
}

// StringifyPart prints a single part as a one-element chain.
func StringifyPart(part Part, forceEngineName bool) string {
	return stringifyPart(part, forceEngineName, false)
}

func stringifyPart(part Part, forceEngineName, captured bool) string {
	includeEngine := true
	if !forceEngineName && !captured {
		switch {
		case part.Name == "css":
			includeEngine = false
		case part.Name == "xpath" && strings.HasPrefix(part.Source, "//"),
			strings.HasPrefix(part.Source, ".."):
			includeEngine = false
		}
	}
	var sb strings.Builder
	if captured {
		sb.WriteByte('*')
	}
	if includeEngine {
		sb.WriteString(part.Name + "=")
	}
	sb.WriteString(part.Source)
	return sb.String()
}

package csslexer

import (
	"strconv"
	"strings"
)

// EscapeIdent escapes s so that it tokenizes back as a single identifier.
func EscapeIdent(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case isControl(r),
			i == 0 && isDigit(r),
			i == 1 && isDigit(r) && runes[0] == '-':
			writeHexEscape(&sb, r)
		case r >= 0x80 || r == '-' || r == '_' || isDigit(r) || isLetter(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// EscapeHash escapes s for use after '#'. Unlike identifiers, a hash may
// start with a digit.
func EscapeHash(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 0x80 || r == '-' || r == '_' || isDigit(r) || isLetter(r):
			sb.WriteRune(r)
		case isControl(r):
			writeHexEscape(&sb, r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// EscapeString escapes s for use inside a double-quoted CSS string.
func EscapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case isControl(r):
			writeHexEscape(&sb, r)
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func writeHexEscape(sb *strings.Builder, r rune) {
	sb.WriteByte('\\')
	sb.WriteString(strconv.FormatInt(int64(r), 16))
	sb.WriteByte(' ')
}

func isControl(r rune) bool {
	return (r >= 0x1 && r <= 0x1f) || r == 0x7f
}

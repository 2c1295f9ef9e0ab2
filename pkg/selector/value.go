package selector

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Pattern is a /source/flags literal.
type Pattern struct {
	Source string
	Flags  string
}

// String renders the pattern in literal form.
func (p Pattern) String() string {
	src := EscapeRegexSlashes(p.Source)
	if src == "" {
		src = "(?:)"
	}
	return "/" + src + "/" + p.Flags
}

// IgnoreCase reports whether the i flag is set.
func (p Pattern) IgnoreCase() bool {
	return strings.ContainsRune(p.Flags, 'i')
}

// Compile compiles the pattern with ECMAScript semantics. Only the i and m
// flags change how the expression is compiled; the rest are carried as-is.
func (p Pattern) Compile() (*regexp2.Regexp, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if p.IgnoreCase() {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(p.Flags, 'm') {
		opts |= regexp2.Multiline
	}
	return regexp2.Compile(p.Source, opts)
}

// ValueKind discriminates Value.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValuePattern
)

// Value is the matching value of an attribute.
type Value struct {
	Kind    ValueKind
	Str     string
	Num     float64
	Bool    bool
	Pattern Pattern
}

func StringValue(s string) Value   { return Value{Kind: ValueString, Str: s} }
func NumberValue(n float64) Value  { return Value{Kind: ValueNumber, Num: n} }
func BoolValue(b bool) Value       { return Value{Kind: ValueBool, Bool: b} }
func PatternValue(p Pattern) Value { return Value{Kind: ValuePattern, Pattern: p} }

// String formats the value the way it would print in a message.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return FormatNumber(v.Num)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValuePattern:
		return v.Pattern.String()
	default:
		return "null"
	}
}

// MarshalJSON encodes patterns in their literal form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValuePattern:
		return json.Marshal(v.Pattern.String())
	default:
		return []byte("null"), nil
	}
}

// FormatNumber prints n the shortest way that parses back to n, with no
// exponent for integral values.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

var (
	decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixRe   = regexp.MustCompile(`^0([xXoObB])([0-9a-fA-F]+)$`)
)

// ParseNumber converts text to a number the way JavaScript's Number() does:
// surrounding whitespace is ignored, empty text is 0, and 0x, 0o and 0b
// prefixes select a radix. ok is false where Number() would give NaN.
func ParseNumber(text string) (n float64, ok bool) {
	text = strings.TrimSpace(text)
	switch text {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if decimalRe.MatchString(text) {
		n, err := strconv.ParseFloat(text, 64)
		// out of range values still come back as ±Inf, like JavaScript
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return n, true
	}
	if m := radixRe.FindStringSubmatch(text); m != nil {
		base := map[string]int{"x": 16, "o": 8, "b": 2}[strings.ToLower(m[1])]
		i, valid := new(big.Int).SetString(m[2], base)
		if !valid {
			return 0, false
		}
		n, _ := new(big.Float).SetInt(i).Float64()
		return n, true
	}
	return 0, false
}

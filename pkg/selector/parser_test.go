package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type partSummary struct {
	Name   string
	Source string
}

func summarize(p *Parsed) []partSummary {
	out := make([]partSummary, 0, len(p.Parts))
	for _, part := range p.Parts {
		out = append(out, partSummary{Name: part.Name, Source: part.Source})
	}
	return out
}

func intPtr(i int) *int { return &i }

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedParts []partSummary
		expectedCap   *int
		expectedError string
	}{
		{
			name:          "Empty selector",
			input:         "",
			expectedError: `Unexpected token "" while parsing css selector ""`,
		},
		{
			name:          "Plain css",
			input:         "div.item",
			expectedParts: []partSummary{{"css", "div.item"}},
		},
		{
			name:          "Three parts keep trimmed sources",
			input:         "a >> b >>   c  ",
			expectedParts: []partSummary{{"css", "a"}, {"css", "b"}, {"css", "c"}},
		},
		{
			name:          "Text engine",
			input:         `text="Hello"`,
			expectedParts: []partSummary{{"text", `"Hello"`}},
		},
		{
			name:          "Quoted string is text",
			input:         `'Hello'`,
			expectedParts: []partSummary{{"text", `'Hello'`}},
		},
		{
			name:          "XPath",
			input:         "//div",
			expectedParts: []partSummary{{"xpath", "//div"}},
		},
		{
			name:          "XPath with parentheses and attribute",
			input:         `(//div[@class="item"])[2] >> text="Buy"`,
			expectedParts: []partSummary{{"xpath", `(//div[@class="item"])[2]`}, {"text", `"Buy"`}},
		},
		{
			name:          "Parent xpath",
			input:         "div >> ..",
			expectedParts: []partSummary{{"css", "div"}, {"xpath", ".."}},
		},
		{
			name:          "Chain with nth",
			input:         `css=div.container >> text="Login" >> nth=0`,
			expectedParts: []partSummary{{"css", "div.container"}, {"text", `"Login"`}, {"nth", "0"}},
		},
		{
			name:          "Separator inside quotes",
			input:         `text="a >> b" >> span`,
			expectedParts: []partSummary{{"text", `"a >> b"`}, {"css", "span"}},
		},
		{
			name:          "Apostrophe inside unquoted text body",
			input:         `text=it's >> span`,
			expectedParts: []partSummary{{"text", "it's"}, {"css", "span"}},
		},
		{
			name:          "Escaped quote does not open a string",
			input:         `div[title=\"] >> span`,
			expectedParts: []partSummary{{"css", `div[title=\"]`}, {"css", "span"}},
		},
		{
			name:          "Capture",
			input:         `*css=div.list >> text="Product 2"`,
			expectedParts: []partSummary{{"css", "div.list"}, {"text", `"Product 2"`}},
			expectedCap:   intPtr(0),
		},
		{
			name:          "Duplicate capture",
			input:         `*css=div >> *css=span`,
			expectedError: "Only one of the selectors can capture using * modifier",
		},
		{
			name:          "Light css",
			input:         "css:light=div",
			expectedParts: []partSummary{{"css", ":light(div)"}},
		},
		{
			name:          "Nested engine",
			input:         `div >> internal:has="span"`,
			expectedParts: []partSummary{{"css", "div"}, {"internal:has", `"span"`}},
		},
		{
			name:          "Nested engine first",
			input:         `internal:has="span"`,
			expectedError: `"internal:has" selector cannot be first`,
		},
		{
			name:          "Malformed nested body",
			input:         `div >> internal:has=not-json`,
			expectedError: "Malformed selector: internal:has=not-json",
		},
		{
			name:          "Distance on engine without distance",
			input:         `div >> internal:has="span", 5`,
			expectedError: `Malformed selector: internal:has="span", 5`,
		},
		{
			name:          "Nested body must start with a string",
			input:         `div >> left-of=5`,
			expectedError: "Malformed selector: left-of=5",
		},
		{
			name:          "Unsupported css token",
			input:         "div;",
			expectedError: `Unsupported token ";" while parsing css selector "div;"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.input)
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSelector)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedParts, summarize(parsed))
			assert.Equal(t, tc.expectedCap, parsed.Capture)
		})
	}
}

func TestParse_NestedBody(t *testing.T) {
	parsed, err := Parse(`div >> left-of="button >> nth=1", 120`)
	require.NoError(t, err)
	require.Len(t, parsed.Parts, 2)

	body := parsed.Parts[1].Body
	require.Equal(t, BodyNested, body.Kind)
	require.NotNil(t, body.Nested.Distance)
	assert.InDelta(t, 120, *body.Nested.Distance, 0)
	assert.Equal(t, []partSummary{{"css", "button"}, {"nth", "1"}}, summarize(body.Nested.Parsed))
}

func TestParse_NestedFramePrefixDedup(t *testing.T) {
	parsed, err := Parse(`iframe >> internal:control=enter-frame >> div >> internal:has="iframe >> internal:control=enter-frame >> span"`)
	require.NoError(t, err)
	require.Len(t, parsed.Parts, 4)

	nested := parsed.Parts[3].Body.Nested.Parsed
	assert.Equal(t, []partSummary{{"css", "span"}}, summarize(nested))
}

func TestParse_NestedFramePrefixKeptWhenDifferent(t *testing.T) {
	parsed, err := Parse(`iframe >> internal:control=enter-frame >> div >> internal:has="frame >> internal:control=enter-frame >> span"`)
	require.NoError(t, err)

	nested := parsed.Parts[3].Body.Nested.Parsed
	assert.Len(t, nested.Parts, 3)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		input  string
		plain  string
		forced string
	}{
		{
			input:  `div >> xpath=//a >> text="x" >> nth=0`,
			plain:  `div >> //a >> text="x" >> nth=0`,
			forced: `css=div >> xpath=//a >> text="x" >> nth=0`,
		},
		{
			input:  `span >> *css=b`,
			plain:  `span >> *css=b`,
			forced: `css=span >> *css=b`,
		},
		{
			input:  `div >> internal:has="span"`,
			plain:  `div >> internal:has="span"`,
			forced: `css=div >> internal:has="span"`,
		},
		{
			input:  `xpath=(//div)[1]`,
			plain:  `xpath=(//div)[1]`,
			forced: `xpath=(//div)[1]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.plain, Stringify(parsed, false))
			assert.Equal(t, tt.forced, Stringify(parsed, true))

			again, err := Parse(Stringify(parsed, false))
			require.NoError(t, err)
			assert.Equal(t, summarize(parsed), summarize(again))
		})
	}
}

func TestVisitParts(t *testing.T) {
	parsed, err := Parse(`div >> internal:has="span >> internal:and=\"b\"" >> nth=0`)
	require.NoError(t, err)

	var names []string
	VisitParts(parsed, func(p Part) { names = append(names, p.Name) })
	assert.Equal(t, []string{"css", "internal:has", "css", "internal:and", "css", "nth"}, names)
}

func TestSplitByFrame(t *testing.T) {
	t.Run("splits at frames", func(t *testing.T) {
		parsed, err := Parse(`iframe >> internal:control=enter-frame >> div >> *css=span`)
		require.NoError(t, err)

		chunks, err := SplitByFrame(parsed)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, []partSummary{{"css", "iframe"}}, summarize(chunks[0]))
		assert.Equal(t, []partSummary{{"css", "div"}, {"css", "span"}}, summarize(chunks[1]))
		assert.Equal(t, intPtr(1), chunks[1].Capture)
	})

	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"starts with frame", `internal:control=enter-frame >> div`, "Selector cannot start with entering frame"},
		{"ends with frame", `iframe >> internal:control=enter-frame`, "Selector cannot end with entering frame"},
		{"capture before frame", `*css=iframe >> internal:control=enter-frame >> div`, "Can not capture the selector before diving into the frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			_, err = SplitByFrame(parsed)
			require.ErrorIs(t, err, ErrInvalidSelector)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{`div >> //span[@id="x"]`, ""},
		{`internal:role=button[name="OK"i] >> nth=-1`, ""},
		{`div >> visible=true`, ""},
		{`xpath=//div[`, "xpath"},
		{`div >> nth=first`, "Malformed selector: nth=first"},
		{`div >> visible=maybe`, "Malformed selector: visible=maybe"},
		{`div >> unknown=1`, `Unknown engine "unknown"`},
		{`internal:role=button[name=]`, "parsing attribute value"},
		{`div >> internal:has="//p["`, "xpath"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			err = Validate(parsed)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSelector)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

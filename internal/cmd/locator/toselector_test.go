package locator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestNewCmdLocator(t *testing.T) {
	cmd := NewCmdLocator()

	assert.Equal(t, "locator", cmd.Use)
	require.Len(t, cmd.Commands(), 1)
	assert.Equal(t, "to-selector <locator>", cmd.Commands()[0].Use)
}

func TestRunToSelector(t *testing.T) {
	testCases := []struct {
		name     string
		opts     toSelectorOptions
		cfg      func(*config.Config)
		expected string
		errMsg   string
		errIs    error
	}{
		{
			name:     "javascript role",
			opts:     toSelectorOptions{locator: "getByRole('button', { name: 'Submit' })"},
			expected: `internal:role=button[name="Submit"i]`,
		},
		{
			name:     "python target flag",
			opts:     toSelectorOptions{locator: `locator("div").first`, target: "python"},
			expected: "div >> nth=0",
		},
		{
			name:     "test id attribute from config",
			opts:     toSelectorOptions{locator: "getByTestId('login')"},
			cfg:      func(c *config.Config) { c.TestIDAttribute = "data-qa" },
			expected: `internal:testid=[data-qa="login"s]`,
		},
		{
			name:     "test id attribute flag wins",
			opts:     toSelectorOptions{locator: "getByTestId('login')", testIDAttr: "data-test"},
			cfg:      func(c *config.Config) { c.TestIDAttribute = "data-qa" },
			expected: `internal:testid=[data-test="login"s]`,
		},
		{
			name:     "selector passes through",
			opts:     toSelectorOptions{locator: "div.item >> nth=2"},
			expected: "div.item >> nth=2",
		},
		{
			name:  "not a locator",
			opts:  toSelectorOptions{locator: "document.querySelector('div')"},
			errIs: locator.ErrNotALocator,
		},
		{
			name:   "jsonl is rejected",
			opts:   toSelectorOptions{locator: "getByText('x')", target: "jsonl"},
			errMsg: "cannot be converted back",
		},
		{
			name:   "too long",
			opts:   toSelectorOptions{locator: "getByText('hello')"},
			cfg:    func(c *config.Config) { c.MaxSelectorLength = 5 },
			errMsg: "max_selector_length is 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := tc.opts
			opts.noColor = true
			opts.stdout = &buf
			cfg := testConfig()
			if tc.cfg != nil {
				tc.cfg(cfg)
			}

			err := runToSelector(&opts, cfg)
			switch {
			case tc.errIs != nil:
				require.ErrorIs(t, err, tc.errIs)
			case tc.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.expected, strings.TrimSpace(buf.String()))
			}
		})
	}
}

func TestRunToSelector_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := &toSelectorOptions{
		locator: "locator('div').filter({ hasText: 'Hello' })",
		output:  "json",
		noColor: true,
		stdout:  &buf,
	}

	require.NoError(t, runToSelector(opts, testConfig()))

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, `div >> internal:has-text="Hello"i`, result["selector"])
}

package root

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/locator-cli/internal/config"
)

func TestNewCmdRoot(t *testing.T) {
	cmd := NewCmdRoot()

	assert.Equal(t, "locgen", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"init", "selector", "locator", "config", "completion"}, names)

	for _, flag := range []string{"config", "output", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRoot_RenderEndToEnd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range config.EnvVars {
		t.Setenv(v, "")
	}

	cmd := NewCmdRoot()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"selector", "render", "div >> nth=-1", "--target", "python", "--max-variants", "1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "locator(\"div\").last\n", buf.String())
}

func TestRoot_ConfigFlag(t *testing.T) {
	for _, v := range config.EnvVars {
		t.Setenv(v, "")
	}
	configPath := t.TempDir() + "/custom.yml"
	require.NoError(t, (&config.Config{Target: "csharp", MaxVariants: 1}).Save(configPath))

	cmd := NewCmdRoot()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", configPath, "selector", "render", "div"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Locator(\"div\")\n", buf.String())
}

func TestRoot_LocatorRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range config.EnvVars {
		t.Setenv(v, "")
	}

	cmd := NewCmdRoot()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"locator", "to-selector", "getByText('Hello', { exact: true })"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "internal:text=\"Hello\"s\n", buf.String())
}

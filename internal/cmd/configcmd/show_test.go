package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/locator-cli/internal/config"
)

func clearEnv(t *testing.T) {
	for _, v := range config.EnvVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		Target:      "python",
		Quote:       "'",
		MaxVariants: 4,
	}
	require.NoError(t, cfg.Save(configPath))
	t.Setenv(config.EnvTestIDAttribute, "data-qa")

	var buf bytes.Buffer
	require.NoError(t, runShow(configPath, true, &buf))

	output := buf.String()
	assert.Contains(t, output, "python  (source: config)")
	assert.Contains(t, output, "'  (source: config)")
	assert.Contains(t, output, "4  (source: config)")
	assert.Contains(t, output, "data-qa  (source: LOCGEN_TEST_ID_ATTRIBUTE)")
	assert.Contains(t, output, "10000  (source: default)")
	assert.Contains(t, output, "Config file: "+configPath)
	assert.NotContains(t, output, "file not found")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	require.NoError(t, runShow(filepath.Join(t.TempDir(), "missing.yml"), true, &buf))

	output := buf.String()
	assert.Contains(t, output, "javascript  (source: default)")
	assert.Contains(t, output, "language default  (source: default)")
	assert.Contains(t, output, "(file not found)")
}

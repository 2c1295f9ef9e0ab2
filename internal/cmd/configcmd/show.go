package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective locgen configuration with the source of each value.`,
		Example: `  # Show current config
  locgen config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			configPath, _ := cmd.Flags().GetString("config")
			return runShow(config.PathOrDefault(configPath), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides and defaults
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(out, "%-18s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}
		fmt.Fprint(out, value)

		source := "default"
		switch {
		case envVar != "" && os.Getenv(envVar) != "":
			source = envVar
		case fileValue != "":
			source = "config"
		}
		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	quote := cfg.Quote
	if quote == "" {
		quote = "language default"
	}

	printField("Target", cfg.Target, fileCfg.Target, config.EnvTarget)
	printField("Quote", quote, fileCfg.Quote, config.EnvQuote)
	printField("Max variants", itoa(cfg.MaxVariants), itoa(fileCfg.MaxVariants), config.EnvMaxVariants)
	printField("Test id attribute", cfg.TestIDAttribute, fileCfg.TestIDAttribute, config.EnvTestIDAttribute)
	printField("Max length", itoa(cfg.MaxSelectorLength), itoa(fileCfg.MaxSelectorLength), "")

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}

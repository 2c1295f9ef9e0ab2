// Package root provides the root command for the locgen CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/cmd/completion"
	"github.com/open-cli-collective/locator-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/locator-cli/internal/cmd/init"
	"github.com/open-cli-collective/locator-cli/internal/cmd/locator"
	"github.com/open-cli-collective/locator-cli/internal/cmd/selector"
	"github.com/open-cli-collective/locator-cli/internal/version"
)

// NewCmdRoot creates the root command for locgen.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locgen",
		Short: "Compile selectors into locator code and back",
		Long: `locgen parses engine-chained element selectors and renders them as
locator call chains for JavaScript, Python, Java, C# and JSON consumers.

It can also convert locator code back into a selector and show how a
selector tokenizes and parses.

Get started by running: locgen selector render 'div >> nth=0'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/locgen/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	_ = cmd.RegisterFlagCompletionFunc("output", completion.Formats)

	cmd.SetVersionTemplate("locgen version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(selector.NewCmdSelector())
	cmd.AddCommand(locator.NewCmdLocator())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

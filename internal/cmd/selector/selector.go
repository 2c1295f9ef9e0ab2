// Package selector provides the selector commands for compiling selectors
// into locators and inspecting how they parse.
package selector

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
)

// NewCmdSelector creates the selector command.
func NewCmdSelector() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "selector",
		Aliases: []string{"sel"},
		Short:   "Render and inspect selectors",
		Long: `Commands for turning selectors into locator code and for inspecting
the token stream, parsed chain and attribute clauses of a selector.`,
	}

	cmd.AddCommand(NewCmdRender())
	cmd.AddCommand(NewCmdParse())
	cmd.AddCommand(NewCmdTokenize())
	cmd.AddCommand(NewCmdAttr())

	return cmd
}

// globalOptions are the root persistent flags every subcommand reads.
type globalOptions struct {
	configPath string
	output     string
	noColor    bool
	stdout     io.Writer
}

func (g *globalOptions) load(cmd *cobra.Command) {
	g.configPath, _ = cmd.Flags().GetString("config")
	g.output, _ = cmd.Flags().GetString("output")
	g.noColor, _ = cmd.Flags().GetBool("no-color")
	g.stdout = cmd.OutOrStdout()
}

// checkLength rejects input longer than the configured ceiling before any
// parsing happens.
func checkLength(text string, cfg *config.Config) error {
	if n := len([]rune(text)); n > cfg.MaxSelectorLength {
		return fmt.Errorf("selector is %d characters long, max_selector_length is %d", n, cfg.MaxSelectorLength)
	}
	return nil
}

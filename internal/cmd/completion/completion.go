// Package completion provides shell completion generation commands and
// completion functions for flag values.
package completion

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

type shell struct {
	name     string
	load     string
	install  string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name:    "bash",
		load:    "source <(locgen completion bash)",
		install: "locgen completion bash > /etc/bash_completion.d/locgen",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	{
		name:    "zsh",
		load:    "source <(locgen completion zsh)",
		install: `locgen completion zsh > "${fpath[1]}/_locgen"`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:    "fish",
		load:    "locgen completion fish | source",
		install: "locgen completion fish > ~/.config/fish/completions/locgen.fish",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:    "powershell",
		load:    "locgen completion powershell | Out-String | Invoke-Expression",
		install: "locgen completion powershell >> $PROFILE",
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for locgen.

These scripts enable tab-completion for commands, flags, and flag values
such as --target and --output. See each sub-command's help for
installation instructions.`,
	}

	for _, s := range shells {
		cmd.AddCommand(newShellCmd(s))
	}

	return cmd
}

func newShellCmd(s shell) *cobra.Command {
	return &cobra.Command{
		Use:   s.name,
		Short: "Generate " + s.name + " completion script",
		Long: `Generate ` + s.name + ` completion script for locgen.

To load completions in your current shell session:

  ` + s.load + `

To load completions for every new session:

  ` + s.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// Targets completes --target with language names.
func Targets(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return locator.LanguageNames(), cobra.ShellCompDirectiveNoFileComp
}

// Quotes completes --quote with the accepted quote characters.
func Quotes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"'\tsingle", "\"\tdouble", "`\tbacktick"}, cobra.ShellCompDirectiveNoFileComp
}

// Formats completes --output with the renderer formats.
func Formats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return view.ValidFormats(), cobra.ShellCompDirectiveNoFileComp
}

// Package locator provides the locator commands.
package locator

import (
	"github.com/spf13/cobra"
)

// NewCmdLocator creates the locator command.
func NewCmdLocator() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locator",
		Aliases: []string{"loc"},
		Short:   "Work with locator code",
	}

	cmd.AddCommand(NewCmdToSelector())

	return cmd
}

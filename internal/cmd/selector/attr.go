package selector

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type attrOptions struct {
	globalOptions

	text     string
	unquoted bool
}

// NewCmdAttr creates the selector attr command.
func NewCmdAttr() *cobra.Command {
	opts := &attrOptions{}

	cmd := &cobra.Command{
		Use:   "attr <text>",
		Short: "Parse an attribute selector",
		Long: `Parse an attribute selector of the form name[attr op value]... as used
by the role, attr and test id engines.

Without --unquoted, bare values must be numbers, true or false. With it,
bare values are kept as strings.`,
		Example: `  # Role body
  locgen selector attr 'button[name="Submit"i][pressed]'

  # Nested property path with a pattern
  locgen selector attr 'card[data.title=/news/i]' -o json

  # Accept bare words
  locgen selector attr 'heading[level=2][name=Intro]' --unquoted`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.text = args[0]
			opts.load(cmd)
			return runAttr(opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.unquoted, "unquoted", false, "Allow unquoted string values")

	return cmd
}

func runAttr(opts *attrOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	if cfg == nil {
		var err error
		if cfg, err = config.Resolve(opts.configPath); err != nil {
			return err
		}
	}

	if err := checkLength(opts.text, cfg); err != nil {
		return err
	}

	result, err := selector.ParseAttributeSelector(opts.text, opts.unquoted)
	if err != nil {
		return fmt.Errorf("failed to parse attribute selector: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(result)
	}

	if renderer.Format() == view.FormatTable {
		if err := renderer.RenderKeyValue("Name", result.Name); err != nil {
			return err
		}
	}
	headers := []string{"ATTRIBUTE", "OP", "VALUE", "CASE"}
	rows := make([][]string, 0, len(result.Attributes))
	for _, a := range result.Attributes {
		value := ""
		if a.Op != selector.OpTruthy {
			value = a.Value.String()
		}
		caseMode := "insensitive"
		if a.CaseSensitive {
			caseMode = "sensitive"
		}
		rows = append(rows, []string{strings.Join(a.JSONPath, "."), string(a.Op), value, caseMode})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

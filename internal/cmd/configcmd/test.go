package configcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

// sampleSelectors exercise the engines most locators are built from.
var sampleSelectors = []string{
	`internal:role=button[name="Submit"i]`,
	`internal:testid=[data-testid="login"s]`,
	`div.item >> internal:has-text="Hello"i >> nth=0`,
}

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration against sample selectors",
		Long: `Validate the current configuration and render sample selectors with it.

Each rendering is converted back into a selector to check that it round
trips. JavaScript renderings are also compiled.`,
		Example: `  # Test configuration
  locgen config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			configPath, _ := cmd.Flags().GetString("config")
			return runTest(configPath, noColor, cmd.OutOrStdout(), nil)
		},
	}

	return cmd
}

func runTest(configPath string, noColor bool, out io.Writer, cfg *config.Config) error {
	if cfg == nil {
		var err error
		if cfg, err = config.Resolve(configPath); err != nil {
			return err
		}
	}

	renderer := view.NewRenderer(view.FormatTable, noColor)
	renderer.SetWriter(out)

	lang, err := locator.ParseLanguage(cfg.Target)
	if err != nil {
		return err
	}
	quote, err := locator.ParseQuote(cfg.Quote)
	if err != nil {
		return err
	}
	renderer.Success(fmt.Sprintf("Configuration valid (target: %s)", lang))

	failures := 0
	for _, sel := range sampleSelectors {
		// the test id sample follows the configured attribute
		if sel == sampleSelectors[1] {
			sel = fmt.Sprintf(`internal:testid=[%s="login"s]`, cfg.TestIDAttribute)
		}
		rendered := locator.Render(lang, sel, false, 1, quote)[0]

		if lang == locator.JavaScript {
			if err := locator.VerifyJavaScript(rendered); err != nil {
				renderer.Error(fmt.Sprintf("%s: %v", rendered, err))
				failures++
				continue
			}
		}
		if lang != locator.JSONL {
			back, err := locator.AsSelector(lang, rendered, cfg.TestIDAttribute)
			if err != nil || back != sel {
				renderer.Error(fmt.Sprintf("%s does not round trip (got %q)", rendered, back))
				failures++
				continue
			}
		}
		renderer.Success(rendered)
	}

	if failures > 0 {
		fmt.Fprintln(out, "\nReconfigure with: locgen init")
		return fmt.Errorf("%d of %d sample selectors failed", failures, len(sampleSelectors))
	}
	return nil
}

package locator

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/cmd/completion"
	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

type toSelectorOptions struct {
	locator    string
	target     string
	testIDAttr string

	configPath string
	output     string
	noColor    bool
	stdout     io.Writer
}

// NewCmdToSelector creates the locator to-selector command.
func NewCmdToSelector() *cobra.Command {
	opts := &toSelectorOptions{}

	cmd := &cobra.Command{
		Use:   "to-selector <locator>",
		Short: "Convert locator code back into a selector",
		Long: `Convert a locator call chain written in a target language back into
a selector.

The conversion is accepted only if rendering the selector reproduces the
given locator. Input that already is a selector is printed unchanged.`,
		Example: `  # JavaScript locator
  locgen locator to-selector "getByRole('button', { name: 'Submit' })"

  # Python, custom test id attribute
  locgen locator to-selector 'get_by_test_id("login")' --target python --test-id-attr data-qa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.locator = args[0]
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runToSelector(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Language of the locator (default from config)")
	cmd.Flags().StringVar(&opts.testIDAttr, "test-id-attr", "", "Attribute getByTestId matches (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("target", completion.Targets)

	return cmd
}

func runToSelector(opts *toSelectorOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	if cfg == nil {
		var err error
		if cfg, err = config.Resolve(opts.configPath); err != nil {
			return err
		}
	}

	if n := len([]rune(opts.locator)); n > cfg.MaxSelectorLength {
		return fmt.Errorf("locator is %d characters long, max_selector_length is %d", n, cfg.MaxSelectorLength)
	}

	target := opts.target
	if target == "" {
		target = cfg.Target
	}
	lang, err := locator.ParseLanguage(target)
	if err != nil {
		return err
	}
	if lang == locator.JSONL {
		return errors.New("jsonl locators cannot be converted back")
	}

	testIDAttr := opts.testIDAttr
	if testIDAttr == "" {
		testIDAttr = cfg.TestIDAttribute
	}

	sel, err := locator.AsSelector(lang, opts.locator, testIDAttr)
	if err != nil {
		return fmt.Errorf("failed to convert %s locator: %w", lang, err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}
	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(map[string]string{"selector": sel})
	}
	renderer.RenderText(sel)
	return nil
}

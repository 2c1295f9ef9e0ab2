// Package init provides the init command for locgen.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/cmd/completion"
	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

// previewSelector is rendered after setup to show the chosen style.
const previewSelector = `internal:role=button[name="Sign in"i] >> nth=0`

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		target    string
		noPreview bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize locgen preferences",
		Long: `Initialize locgen with your preferred target language, quote style,
variant limit and test id attribute.

The configuration will be saved to ~/.config/locgen/config.yml.`,
		Example: `  # Interactive setup
  locgen init

  # Pre-select the target language
  locgen init --target python`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runInit(config.PathOrDefault(configPath), target, noPreview, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target language (e.g., javascript, python)")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "Skip the sample rendering")

	_ = cmd.RegisterFlagCompletionFunc("target", completion.Targets)

	return cmd
}

type answers struct {
	target          string
	quote           string
	maxVariants     string
	testIDAttribute string
}

func runInit(configPath, prefillTarget string, noPreview bool, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	a, err := prefill(prefillTarget)
	if err != nil {
		return err
	}

	languageOptions := make([]huh.Option[string], 0, len(locator.LanguageNames()))
	for _, name := range locator.LanguageNames() {
		languageOptions = append(languageOptions, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target language").
				Description("Language locators are rendered in by default").
				Options(languageOptions...).
				Value(&a.target),

			huh.NewSelect[string]().
				Title("Quote style").
				Description("Preferred string quote for JavaScript and Python").
				Options(
					huh.NewOption("Language default", ""),
					huh.NewOption("Single (')", "'"),
					huh.NewOption(`Double (")`, `"`),
					huh.NewOption("Backtick (`)", "`"),
				).
				Value(&a.quote),

			huh.NewInput().
				Title("Maximum variants").
				Description("How many equivalent renderings to print").
				Placeholder(strconv.Itoa(locator.DefaultMaxVariants)).
				Value(&a.maxVariants).
				Validate(validateMaxVariants),

			huh.NewInput().
				Title("Test id attribute").
				Description("Attribute matched by getByTestId").
				Placeholder(config.DefaultTestIDAttribute).
				Value(&a.testIDAttribute),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	if !noPreview {
		fmt.Fprintln(out, "\nSample rendering of", previewSelector+":")
		for _, line := range preview(cfg) {
			fmt.Fprintln(out, "  "+line)
		}
	}
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  locgen selector render 'div >> nth=0'")
	fmt.Fprintln(out, `  locgen locator to-selector "getByText('Hello')"`)

	return nil
}

// prefill seeds the form from flags and any existing environment overrides.
func prefill(target string) (*answers, error) {
	cfg := &config.Config{Target: target}
	cfg.LoadFromEnv()
	if target != "" {
		cfg.Target = target
	}
	cfg.ApplyDefaults()

	lang, err := locator.ParseLanguage(cfg.Target)
	if err != nil {
		return nil, err
	}
	return &answers{
		target:          string(lang),
		quote:           cfg.Quote,
		maxVariants:     strconv.Itoa(cfg.MaxVariants),
		testIDAttribute: cfg.TestIDAttribute,
	}, nil
}

func validateMaxVariants(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive whole number")
	}
	return nil
}

func (a *answers) config() (*config.Config, error) {
	cfg := &config.Config{
		Target:          a.target,
		Quote:           a.quote,
		TestIDAttribute: strings.TrimSpace(a.testIDAttribute),
	}
	if s := strings.TrimSpace(a.maxVariants); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid maximum variants %q: %w", s, err)
		}
		cfg.MaxVariants = n
	}
	if cfg.TestIDAttribute == config.DefaultTestIDAttribute {
		cfg.TestIDAttribute = ""
	}
	if cfg.MaxVariants == locator.DefaultMaxVariants {
		cfg.MaxVariants = 0
	}
	return cfg, nil
}

// preview renders previewSelector with cfg's settings, capped at three lines.
func preview(cfg *config.Config) []string {
	withDefaults := *cfg
	withDefaults.ApplyDefaults()

	lang, err := locator.ParseLanguage(withDefaults.Target)
	if err != nil {
		return nil
	}
	quote, err := locator.ParseQuote(withDefaults.Quote)
	if err != nil {
		return nil
	}
	return locator.Render(lang, previewSelector, false, min(3, withDefaults.MaxVariants), quote)
}

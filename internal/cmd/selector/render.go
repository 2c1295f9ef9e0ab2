package selector

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/cmd/completion"
	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/locator"
)

type renderOptions struct {
	globalOptions

	selector    string
	target      string
	quote       string
	maxVariants int
	frame       bool
	verify      bool
}

// NewCmdRender creates the selector render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <selector>",
		Short: "Render a selector as locator code",
		Long: `Render a selector as equivalent locator call chains in a target language.

Up to --max-variants renderings are printed, best first. A selector that
cannot be rendered is printed unchanged and a warning is logged.`,
		Example: `  # Render for JavaScript
  locgen selector render 'div >> internal:has-text="Hello"i'

  # Python with single quotes, best rendering only
  locgen selector render 'internal:role=button[name="Submit"i]' --target python --quote "'" --max-variants 1

  # Selector scoped to a frame locator
  locgen selector render 'internal:testid=[data-testid="login"s]' --frame

  # Check that JavaScript output compiles
  locgen selector render 'div >> nth=0' --verify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.selector = args[0]
			opts.load(cmd)
			return runRender(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Target language: javascript, python, java, csharp, jsonl (default from config)")
	cmd.Flags().StringVarP(&opts.quote, "quote", "q", "", "Preferred string quote for javascript and python: ', \" or `")
	cmd.Flags().IntVarP(&opts.maxVariants, "max-variants", "n", 0, "Maximum number of renderings (default from config)")
	cmd.Flags().BoolVar(&opts.frame, "frame", false, "Render relative to a frame locator instead of the page")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Compile every JavaScript rendering and fail on syntax errors")

	_ = cmd.RegisterFlagCompletionFunc("target", completion.Targets)
	_ = cmd.RegisterFlagCompletionFunc("quote", completion.Quotes)

	return cmd
}

func runRender(opts *renderOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	if cfg == nil {
		var err error
		if cfg, err = config.Resolve(opts.configPath); err != nil {
			return err
		}
	}

	if err := checkLength(opts.selector, cfg); err != nil {
		return err
	}

	target := opts.target
	if target == "" {
		target = cfg.Target
	}
	lang, err := locator.ParseLanguage(target)
	if err != nil {
		return err
	}

	quoteFlag := opts.quote
	if quoteFlag == "" {
		quoteFlag = cfg.Quote
	}
	quote, err := locator.ParseQuote(quoteFlag)
	if err != nil {
		return err
	}

	maxVariants := opts.maxVariants
	if maxVariants == 0 {
		maxVariants = cfg.MaxVariants
	}
	if maxVariants < 0 {
		return fmt.Errorf("invalid max variants: %d (must be >= 0)", maxVariants)
	}

	if opts.verify && lang != locator.JavaScript {
		return fmt.Errorf("--verify requires the %s target, got %s", locator.JavaScript, lang)
	}

	variants := locator.Render(lang, opts.selector, opts.frame, maxVariants, quote)

	if opts.verify {
		for _, v := range variants {
			if err := locator.VerifyJavaScript(v); err != nil {
				return fmt.Errorf("rendering %q: %w", v, err)
			}
		}
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}
	return renderer.RenderLines(variants)
}

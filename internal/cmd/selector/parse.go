package selector

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/selector"
)

type parseOptions struct {
	globalOptions

	selector    string
	strict      bool
	splitFrames bool
	reserialize bool
}

// NewCmdParse creates the selector parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <selector>",
		Short: "Show the parsed engine chain of a selector",
		Long: `Parse a selector into its chain of engine parts.

With --strict the engine bodies are checked too: xpath must compile,
nth must be an integer and role, attr and test id bodies must be valid
attribute selectors.

With --reserialize css bodies are printed from their parsed form, which
shows how relative selectors and custom pseudo-classes were read.`,
		Example: `  # Show the chain as a table
  locgen selector parse 'div >> internal:has="span" >> nth=0'

  # Full structure as JSON
  locgen selector parse '*css=li >> text="Item"' -o json

  # Show how css bodies were read
  locgen selector parse '> li:visible >> nth=1' --reserialize

  # Print one selector per frame
  locgen selector parse 'iframe >> internal:control=enter-frame >> button' --split-frames`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.selector = args[0]
			opts.load(cmd)
			return runParse(opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Validate engine bodies")
	cmd.Flags().BoolVar(&opts.splitFrames, "split-frames", false, "Print the selector split at frame boundaries")
	cmd.Flags().BoolVar(&opts.reserialize, "reserialize", false, "Print css bodies serialized from their parsed form")

	return cmd
}

func runParse(opts *parseOptions, cfg *config.Config) error {
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

	parsed, err := selector.Parse(opts.selector)
	if err != nil {
		return fmt.Errorf("failed to parse selector: %w", err)
	}
	if opts.strict {
		if err := selector.Validate(parsed); err != nil {
			return fmt.Errorf("invalid selector: %w", err)
		}
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.splitFrames {
		frames, err := selector.SplitByFrame(parsed)
		if err != nil {
			return fmt.Errorf("failed to split selector: %w", err)
		}
		lines := make([]string, 0, len(frames))
		for _, f := range frames {
			lines = append(lines, selector.Stringify(f, false))
		}
		return renderer.RenderLines(lines)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(parsed)
	}

	headers := []string{"#", "ENGINE", "SOURCE"}
	rows := make([][]string, 0, len(parsed.Parts))
	for i, part := range parsed.Parts {
		index := strconv.Itoa(i)
		if parsed.Capture != nil && *parsed.Capture == i {
			index = "*" + index
		}
		source := part.Source
		if opts.reserialize && part.Body.Kind == selector.BodyCSS {
			source = selector.SerializeList(part.Body.CSS)
		}
		rows = append(rows, []string{index, part.Name, source})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

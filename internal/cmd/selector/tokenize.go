package selector

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/locator-cli/internal/config"
	"github.com/open-cli-collective/locator-cli/internal/view"
	"github.com/open-cli-collective/locator-cli/pkg/csslexer"
)

type tokenizeOptions struct {
	globalOptions

	text        string
	reserialize bool
}

// NewCmdTokenize creates the selector tokenize command.
func NewCmdTokenize() *cobra.Command {
	opts := &tokenizeOptions{}

	cmd := &cobra.Command{
		Use:   "tokenize <text>",
		Short: "Show the CSS token stream of a text",
		Example: `  # Token table
  locgen selector tokenize 'div.item > a[href^="https"]'

  # Print the tokens serialized back to CSS
  locgen selector tokenize '#\31 23' --reserialize`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.text = args[0]
			opts.load(cmd)
			return runTokenize(opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.reserialize, "reserialize", false, "Print the tokens serialized back to CSS text")

	return cmd
}

func runTokenize(opts *tokenizeOptions, cfg *config.Config) error {
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

	tokens, err := csslexer.Tokenize(opts.text)
	if err != nil {
		return fmt.Errorf("failed to tokenize: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	if opts.reserialize {
		return renderer.RenderKeyValue("css", csslexer.Join(tokens))
	}

	headers := []string{"POS", "TYPE", "VALUE", "RAW"}
	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{strconv.Itoa(tok.Pos), tok.Type.String(), tokenValue(tok), tok.Raw})
	}
	renderer.RenderTable(headers, rows)
	return nil
}

func tokenValue(tok csslexer.Token) string {
	switch tok.Type {
	case csslexer.TokenDelim:
		return string(tok.Delim)
	case csslexer.TokenDimension:
		return tok.Value + tok.Unit
	case csslexer.TokenPercentage:
		return tok.Value + "%"
	default:
		return tok.Value
	}
}

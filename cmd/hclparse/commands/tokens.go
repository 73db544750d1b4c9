package commands

import (
	"fmt"

	"github.com/panyam/hclexpr/parser"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Prints the tokens of a file",
	Long: `The tokens command runs only the lexer over a file and prints one token
per line with its span, type and source text.  Lexing stops at the first
error, which is reported after the tokens read so far.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := diskFS.ReadFile(path)
		if err != nil {
			return err
		}
		tokens, err := parser.Tokenize(src, parser.WithMaxInputBytes(cfg.MaxInputBytes))
		out := cmd.OutOrStdout()
		for _, tok := range tokens {
			span := fmt.Sprintf("%s-%s", tok.Start, tok.End)
			fmt.Fprintf(out, "%-12s %-15s %q\n", span, tok.Type, tok.Text)
		}
		if err != nil {
			printDiagnostic(cmd.ErrOrStderr(), path, src, err)
			return fmt.Errorf("lexing %s failed", path)
		}
		return nil
	},
}

func init() {
	AddCommand(tokensCmd)
}

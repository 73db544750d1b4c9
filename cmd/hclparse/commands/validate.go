package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir...>",
	Short: "Parses file(s) and reports syntax errors",
	Long: `The validate command parses one or more files, or every file with the
configured extension in a directory, and reports lexical and syntax errors
as well as attributes defined more than once.  It exits with status 1 if
anything was reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadArgs(cmd.Context(), args)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.ErrOrStderr(), result)
		if n := result.ErrorCount(); n > 0 {
			return fmt.Errorf("validation failed: %d %s", n, plural(n, "error"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s ok\n", len(result.Files), plural(len(result.Files), "file"))
		return nil
	},
}

func init() {
	AddCommand(validateCmd)
}

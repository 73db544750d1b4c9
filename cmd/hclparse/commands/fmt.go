package commands

import (
	"bytes"
	"fmt"

	"github.com/panyam/hclexpr/decl"
	"github.com/spf13/cobra"
)

var (
	fmtWrite bool
	fmtList  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file|dir...>",
	Short: "Rewrites files in canonical form",
	Long: `The fmt command parses each file and prints it back in canonical form:
one attribute per line, lists separated by ", " and objects with more than
one element spread over several lines.  Files with errors are never rewritten.  By default the result goes
to stdout; -w writes it back to the file and -l only lists the files whose
formatting would change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := loadArgs(cmd.Context(), args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, lf := range result.Files {
			if lf.HasErrors() {
				continue
			}
			formatted := []byte(decl.Format(lf.File))
			changed := !bytes.Equal(formatted, lf.Source)
			switch {
			case fmtList:
				if changed {
					fmt.Fprintln(out, lf.Path)
				}
			case fmtWrite:
				if changed {
					if err := diskFS.WriteFile(lf.Path, formatted); err != nil {
						return fmt.Errorf("writing %s: %w", lf.Path, err)
					}
					logger.Info("formatted", "path", lf.Path)
				}
			default:
				out.Write(formatted)
			}
		}
		printDiagnostics(cmd.ErrOrStderr(), result)
		if n := result.ErrorCount(); n > 0 {
			return fmt.Errorf("%d %s found, affected files left unchanged", n, plural(n, "error"))
		}
		return nil
	},
}

func init() {
	AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to the source file")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "List files whose formatting differs")
}

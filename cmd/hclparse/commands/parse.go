package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/panyam/hclexpr/decl"
	"github.com/panyam/hclexpr/loader"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file|dir...>",
	Short: "Parses files and prints their syntax trees",
	Long: `The parse command parses one or more files and prints the attributes
that parsed, even when others in the same file did not.  With --format text
each attribute is printed on one line with its position; yaml and json dump
the full tree including spans.  Diagnostics go to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch parseFormat {
		case "text", "yaml", "json":
		default:
			return fmt.Errorf("unknown format %q, expected text, yaml or json", parseFormat)
		}
		result, err := loadArgs(cmd.Context(), args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, lf := range result.Files {
			if lf.File == nil {
				continue
			}
			if err := writeTree(out, lf, parseFormat); err != nil {
				return err
			}
		}
		printDiagnostics(cmd.ErrOrStderr(), result)
		if n := result.ErrorCount(); n > 0 {
			return fmt.Errorf("%d %s found", n, plural(n, "error"))
		}
		return nil
	},
}

func writeTree(w io.Writer, lf *loader.LoadedFile, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(decl.ToMap(lf.File)); err != nil {
			return fmt.Errorf("encoding %s: %w", lf.Path, err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(decl.ToMap(lf.File)); err != nil {
			return fmt.Errorf("encoding %s: %w", lf.Path, err)
		}
		return nil
	}
	fmt.Fprintf(w, "# %s\n", lf.Path)
	for _, a := range lf.File.Attributes {
		fmt.Fprintf(w, "%s-%s\t%s\n", a.Pos(), a.End(), a)
	}
	return nil
}

func init() {
	AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseFormat, "format", "text", "Output format: text, yaml or json")
}

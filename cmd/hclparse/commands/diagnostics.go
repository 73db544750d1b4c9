package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panyam/hclexpr/decl"
	"github.com/panyam/hclexpr/loader"
	"github.com/panyam/hclexpr/parser"
)

var (
	locationStyle = color.New(color.Bold)
	errorStyle    = color.New(color.FgRed, color.Bold)
	noteStyle     = color.New(color.FgCyan, color.Bold)
	caretStyle    = color.New(color.FgGreen, color.Bold)
)

// printDiagnostics writes the errors of every file in result followed by a
// one line summary.
func printDiagnostics(w io.Writer, result *loader.LoadResult) {
	for _, lf := range result.Files {
		for _, err := range lf.Errors {
			printDiagnostic(w, lf.Path, lf.Source, err)
		}
		if lf.Dropped > 0 {
			fmt.Fprintf(w, "%s: ... and %d more\n", locationStyle.Sprint(lf.Path), lf.Dropped)
		}
	}
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(w, "%d %s in %d %s\n", n, plural(n, "error"), len(result.Files), plural(len(result.Files), "file"))
	}
}

// printDiagnostic renders one error as
//
//	path:line:col: error: message
//	  offending source line
//	  ^
//
// with a note pointing at the opening bracket of an unterminated construct.
func printDiagnostic(w io.Writer, path string, src []byte, err error) {
	pos, ok := errorPosition(err)
	if !ok {
		fmt.Fprintf(w, "%s: %s %s\n", locationStyle.Sprint(path), errorStyle.Sprint("error:"), err)
		return
	}
	msg := strings.TrimPrefix(err.Error(), pos.String()+": ")
	fmt.Fprintf(w, "%s: %s %s\n", locationStyle.Sprintf("%s:%s", path, pos), errorStyle.Sprint("error:"), msg)
	printSourceLine(w, src, pos)

	var perr *parser.ParseError
	if errors.As(err, &perr) && perr.Kind == parser.UnterminatedConstruct && perr.OpenedAt.Line != pos.Line {
		fmt.Fprintf(w, "%s: %s '%s' opened here\n", locationStyle.Sprintf("%s:%s", path, perr.OpenedAt), noteStyle.Sprint("note:"), perr.Opener)
		printSourceLine(w, src, perr.OpenedAt)
	}
}

func errorPosition(err error) (decl.Location, bool) {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return perr.Pos, true
	}
	var lerr *parser.LexError
	if errors.As(err, &lerr) {
		return lerr.Pos, true
	}
	return decl.Location{}, false
}

func printSourceLine(w io.Writer, src []byte, pos decl.Location) {
	if src == nil || !pos.IsValid() || pos.Offset > len(src) {
		return
	}
	start := bytes.LastIndexByte(src[:pos.Offset], '\n') + 1
	end := bytes.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += start
	}
	// Tabs count as one column, so show them as one space to keep the caret aligned
	line := strings.ReplaceAll(strings.TrimRight(string(src[start:end]), "\r"), "\t", " ")
	fmt.Fprintf(w, "  %s\n", line)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", max(pos.Column-1, 0)), caretStyle.Sprint("^"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

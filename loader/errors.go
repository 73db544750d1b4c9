package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/panyam/hclexpr/parser"
)

type ErrorCollector struct {
	// Errors for this file
	Errors []error

	// Max errors kept; later ones are counted in Dropped
	// 0 => no limit
	MaxErrors int
	Dropped   int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

func (f *ErrorCollector) PrintErrors(w io.Writer) {
	for _, err := range f.Errors {
		fmt.Fprintln(w, err)
	}
	if f.Dropped > 0 {
		fmt.Fprintf(w, "... and %d more\n", f.Dropped)
	}
}

// AddErrors records errs, flattening a parser.ErrorList into its entries so
// each diagnostic counts separately.
func (f *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		var list parser.ErrorList
		if errors.As(err, &list) {
			for _, e := range list {
				f.add(e)
			}
			continue
		}
		f.add(err)
	}
}

func (f *ErrorCollector) add(err error) {
	if f.MaxErrors > 0 && len(f.Errors) >= f.MaxErrors {
		f.Dropped++
		return
	}
	f.Errors = append(f.Errors, err)
}

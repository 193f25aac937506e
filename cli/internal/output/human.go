package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/grafana/resolveref"
)

// HumanFormatter outputs in human-readable format with colors
type HumanFormatter struct {
	out     io.Writer
	errOut  io.Writer
	success *color.Color
	failure *color.Color
	dim     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{
		out:     os.Stdout,
		errOut:  os.Stderr,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}
}

// FormatResult prints "<sha>\t<fqRef>".
func (f *HumanFormatter) FormatResult(_ resolveref.RefQuery, result resolveref.Result) error {
	_, err := fmt.Fprintf(f.out, "%s\t%s\n", f.success.Sprint(result.SHA), f.dim.Sprint(result.FQRef))
	return err
}

func (f *HumanFormatter) FormatFailure(q resolveref.RefQuery, out resolveref.Outcome) error {
	return f.FormatError(errors.New(Describe(q, out)))
}

func (f *HumanFormatter) FormatError(err error) error {
	_, werr := fmt.Fprintf(f.errOut, "%s %v\n", f.failure.Sprint("Error:"), err)
	return werr
}

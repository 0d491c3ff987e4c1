package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	labelColor   = color.New(color.FgCyan)
)

func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintln(w, msg)
}

func printError(w io.Writer, msg string) {
	_, _ = errorColor.Fprintln(w, msg)
}

// printField renders "label: value" with a colored label.
func printField(w io.Writer, label string, value any) {
	_, _ = labelColor.Fprintf(w, "%-15s", label+":")
	_, _ = fmt.Fprintln(w, "", value)
}

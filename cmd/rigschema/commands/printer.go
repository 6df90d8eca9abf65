package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/labrig/rigging"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan)
)

// success prints a message in green with a checkmark prefix.
func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, a...))
}

// step prints a progress line for multi-step commands.
func step(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, "→ %s\n", fmt.Sprintf(format, a...))
}

// failure prints a titled error with an explanation and suggestions to w and returns
// a plain error for cobra, which is configured not to print it again.
func failure(w io.Writer, title, explanation string, suggestions ...string) error {
	red.Fprintf(w, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(w, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}
	return errors.New(title)
}

// loadFailure reports a load error, listing every field error when there are any.
func loadFailure(w io.Writer, path string, err error) error {
	var ve *rigging.ValidationError
	if !errors.As(err, &ve) {
		return failure(w, fmt.Sprintf("failed to load %s", path), err.Error())
	}

	var b strings.Builder
	for _, fe := range ve.FieldErrors {
		fmt.Fprintf(&b, "  %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
		if len(fe.Allowed) > 0 {
			fmt.Fprintf(&b, "      allowed: %s\n", strings.Join(fe.Allowed, ", "))
		}
	}
	title := fmt.Sprintf("%s is not valid: %d error(s)", path, len(ve.FieldErrors))
	return failure(w, title, strings.TrimRight(b.String(), "\n"))
}

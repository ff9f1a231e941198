package main

import (
	"errors"
	"fmt"
	"io"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/fatih/color"
)

const msgLoginAgain = "Session expired. Please run `examctl login`."

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	headingColor = color.New(color.Bold)
)

// reportedError wraps an error whose message was already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func colorFor(kind notice.Kind) *color.Color {
	switch kind {
	case notice.Success:
		return successColor
	case notice.Warning:
		return warningColor
	case notice.Error:
		return errorColor
	default:
		return infoColor
	}
}

// printNotice shows the board's current notice, if any.
func printNotice(w io.Writer, b *notice.Board) {
	n, ok := b.Current()
	if !ok {
		return
	}
	c := colorFor(n.Kind)
	c.Fprintln(w, n.Text)
	for _, line := range n.Lines {
		c.Fprintln(w, "  "+line)
	}
}

func errorMessage(err error) string {
	switch {
	case apperrors.IsAuthRequired(err):
		return msgLoginAgain
	case errors.Is(err, apperrors.ErrCanceled):
		return "Canceled."
	default:
		return apperrors.Message(err)
	}
}

func printError(w io.Writer, err error) {
	var reported reportedError
	if errors.As(err, &reported) && !apperrors.IsAuthRequired(err) {
		return
	}
	errorColor.Fprintln(w, errorMessage(err))
}

func printHeading(w io.Writer, format string, args ...interface{}) {
	headingColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// finish prints what the operation left on the board. Errors that produced a
// notice are marked reported; auth and cancel errors are left for printError.
func (a *app) finish(b *notice.Board, err error) error {
	if err == nil {
		printNotice(a.out, b)
		return nil
	}
	if apperrors.IsAuthRequired(err) || errors.Is(err, apperrors.ErrCanceled) {
		return err
	}
	if _, ok := b.Current(); !ok {
		return err
	}
	printNotice(a.errOut, b)
	return reportedError{err}
}

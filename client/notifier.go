package client

import (
	"io"

	"github.com/fatih/color"
)

// Notifier shows short non-blocking messages, the CLI's version of a toast.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

type ConsoleNotifier struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	info    *color.Color
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgYellow),
	}
}

func (n *ConsoleNotifier) Success(msg string) { n.success.Fprintln(n.out, "✓ "+msg) }
func (n *ConsoleNotifier) Error(msg string)   { n.failure.Fprintln(n.out, "✗ "+msg) }
func (n *ConsoleNotifier) Info(msg string)    { n.info.Fprintln(n.out, "• "+msg) }

type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
func (NopNotifier) Info(string)    {}

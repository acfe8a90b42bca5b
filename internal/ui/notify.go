// Package ui renders user-visible notices for the CLI host.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Notifier surfaces notices the resolution engine wants the user to see:
// missing credentials, failed creations, successful links.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Console writes styled notices to a terminal.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, infoStyle.Render(msg))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, errorStyle.Render("error: "+msg))
}

// Nop discards all notices.
type Nop struct{}

func (Nop) Info(string)  {}
func (Nop) Error(string) {}

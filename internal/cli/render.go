package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"

	"ec/internal/interpreter"
)

// Styles holds the terminal styles used for session output.
type Styles struct {
	color bool
	err   lipgloss.Style
}

// NewStyles builds styles for w. mode is auto, always or never; auto colors
// only when w is a color-capable terminal.
func NewStyles(w io.Writer, mode string) *Styles {
	r := lipgloss.NewRenderer(w)
	color := false
	switch mode {
	case "always":
		r.SetColorProfile(termenv.ANSI)
		color = true
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		color = r.ColorProfile() != termenv.Ascii
	}
	return &Styles{
		color: color,
		err:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// ErrorLine styles a one-line error message.
func (s *Styles) ErrorLine(msg string) string {
	if !s.color {
		return msg
	}
	return s.err.Render(msg)
}

// varsRenderer picks the listing format for the vars command.
func varsRenderer(format string) interpreter.VarsRenderer {
	if format == "table" {
		return tableVars
	}
	return interpreter.PlainVars
}

func tableVars(w io.Writer, env *interpreter.Environment) error {
	if env.Len() == 0 {
		_, err := fmt.Fprintln(w, "(0 variables)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Value"})
	for name, val := range env.All() {
		t.AppendRow(table.Row{name, val})
	}
	t.Render()
	_, err := fmt.Fprintf(w, "(%d variables)\n", env.Len())
	return err
}

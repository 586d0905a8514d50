package interpreter

import (
	"io"

	"github.com/muesli/termenv"
)

// ScreenClearer clears whatever display the session is attached to.
type ScreenClearer interface {
	ClearScreen() error
}

// TerminalScreen clears an ANSI terminal.
type TerminalScreen struct {
	out *termenv.Output
}

func NewTerminalScreen(w io.Writer) *TerminalScreen {
	return &TerminalScreen{out: termenv.NewOutput(w)}
}

// ClearScreen erases the display and homes the cursor.
func (s *TerminalScreen) ClearScreen() error {
	s.out.ClearScreen()
	return nil
}

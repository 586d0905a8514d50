package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ec/internal/interpreter"
)

// ErrAborted is returned when a strict session stops on a fatal error.
var ErrAborted = errors.New("session aborted")

// REPL feeds lines from a LineSource to an interpreter and reports errors.
type REPL struct {
	Interp *interpreter.Interpreter
	Err    io.Writer
	Styles *Styles
	Logger *slog.Logger

	// Strict stops the session on undefined variables and invalid
	// expressions instead of reporting them and reading on.
	Strict bool
}

// Run reads lines until end of input or exit. It returns Halt when the exit
// command was executed, so callers chaining several sources can stop early.
func (r *REPL) Run(src LineSource) (interpreter.Outcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	lines := 0
	for {
		line, err := src.ReadLine()
		if errors.Is(err, io.EOF) {
			logger.Debug("end of input", slog.Int("lines", lines))
			return interpreter.Continue, nil
		}
		if err != nil {
			return interpreter.Continue, fmt.Errorf("read line: %w", err)
		}
		lines++

		outcome, err := r.Interp.Execute(line)
		if err != nil {
			r.report(err)
			if r.Strict && interpreter.Fatal(err) {
				logger.Info("stopping on fatal error", slog.Int("line", lines), slog.Any("error", err))
				return interpreter.Continue, fmt.Errorf("%w: %w", ErrAborted, err)
			}
			continue
		}
		if outcome == interpreter.Halt {
			logger.Debug("exit requested", slog.Int("line", lines))
			return interpreter.Halt, nil
		}
	}
}

func (r *REPL) report(err error) {
	msg := err.Error()
	if r.Styles != nil {
		msg = r.Styles.ErrorLine(msg)
	}
	_, _ = fmt.Fprintln(r.Err, msg)
}

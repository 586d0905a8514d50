package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ec/internal/config"
	"ec/internal/interpreter"
)

const banner = "Welcome to EC!\nSimple C dialect interpreter. Type 'exit' to quit.\n"

// runSession executes the given scripts in order, or reads standard input
// when there are none.
func runSession(cmd *cobra.Command, scripts []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)
	out := cmd.OutOrStdout()

	env := interpreter.NewBoundedEnvironment(cfg.MaxVars)
	interp := interpreter.New(env,
		interpreter.WithOutput(out),
		interpreter.WithScreen(interpreter.NewTerminalScreen(out)),
		interpreter.WithVarsRenderer(varsRenderer(cfg.VarsFormat)),
		interpreter.WithLogger(logger),
	)
	repl := &REPL{
		Interp: interp,
		Err:    cmd.ErrOrStderr(),
		Styles: NewStyles(cmd.ErrOrStderr(), cfg.Color),
		Logger: logger,
		Strict: cfg.Strict,
	}

	if len(scripts) > 0 {
		return runScripts(repl, scripts)
	}

	src, interactive, err := stdinSource(cmd, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	logger.Debug("session start", "interactive", interactive, "strict", cfg.Strict, "max_vars", cfg.MaxVars)
	if interactive && cfg.Banner {
		_, _ = io.WriteString(out, banner)
	}
	_, err = repl.Run(src)
	return err
}

func runScripts(repl *REPL, scripts []string) error {
	for _, path := range scripts {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		repl.Logger.Debug("running script", "path", path)
		outcome, err := repl.Run(newScannerSource(f))
		_ = f.Close()
		if err != nil {
			return err
		}
		if outcome == interpreter.Halt {
			return nil
		}
	}
	return nil
}

// stdinSource uses a line editor when standard input is a terminal and a
// plain scanner otherwise.
func stdinSource(cmd *cobra.Command, cfg *config.Config, env *interpreter.Environment) (LineSource, bool, error) {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return newScannerSource(in), false, nil
	}
	src, err := newReadlineSource(cfg.Prompt, cfg.HistoryFile, env, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return nil, false, err
	}
	return src, true, nil
}

// Package cli provides the ec command-line program.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ec/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ec [script ...]",
		Short: "EC - a tiny line-oriented command interpreter",
		Long: `EC reads one command per line and keeps integer variables in memory.

Commands:
  let <var> = <expr>   Set variable (expr is an integer or a variable)
  print <expr>         Print a value
  vars                 List all variables
  clearvars            Clear all variables
  clear                Clear the screen
  help                 Show help
  exit                 Exit the interpreter
  # comment            Ignored

With no arguments EC starts an interactive session on standard input.
With script arguments each file is executed in order.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help, version and completion commands
			switch cmd.Name() {
			case "help", "version", "completion", "__complete", "__completeNoDesc":
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			lvl, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
			if cfg.FileUsed != "" {
				logger.Info("using config file", slog.String("path", cfg.FileUsed))
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./ec.yaml)")
	pf.String("prompt", config.DefaultPrompt, "interactive prompt")
	pf.String("history", "", "readline history file")
	pf.Int("max-vars", 0, "maximum number of distinct variables (0 = unbounded)")
	pf.Bool("strict", false, "stop on undefined variables and invalid expressions")
	pf.Bool("no-banner", false, "do not print the welcome banner")
	pf.String("vars-format", config.DefaultVarsFormat, "variable listing format (plain|table)")
	pf.String("color", config.DefaultColor, "colorize errors (auto|always|never)")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("vars-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "table"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return execute(NewRootCmd(), os.Stderr)
}

func execute(rootCmd *cobra.Command, stderr io.Writer) error {
	if err := rootCmd.Execute(); err != nil {
		// An aborted session has already reported its error.
		if !errors.Is(err, ErrAborted) {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the EC interpreter version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "EC v%s\n", version)
		},
	}
}

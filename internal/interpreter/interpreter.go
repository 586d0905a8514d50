package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// MaxNameLen is the longest accepted variable name, in bytes.
const MaxNameLen = 31

// Outcome tells the host whether to keep reading lines.
type Outcome int

const (
	Continue Outcome = iota
	Halt
)

// VarsRenderer writes the variable listing for the vars command.
type VarsRenderer func(w io.Writer, env *Environment) error

// Interpreter executes lines against an Environment.
type Interpreter struct {
	Env *Environment

	out    io.Writer
	screen ScreenClearer
	vars   VarsRenderer
	logger *slog.Logger
}

type Option func(*Interpreter)

// WithOutput sets where print, vars, help and status messages go.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

func WithScreen(s ScreenClearer) Option {
	return func(in *Interpreter) { in.screen = s }
}

func WithVarsRenderer(r VarsRenderer) Option {
	return func(in *Interpreter) { in.vars = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// New returns an interpreter over env. A nil env gets a fresh unbounded one.
func New(env *Environment, opts ...Option) *Interpreter {
	if env == nil {
		env = NewEnvironment()
	}
	in := &Interpreter{Env: env, out: io.Discard, vars: PlainVars}
	for _, opt := range opts {
		opt(in)
	}
	if in.logger == nil {
		in.logger = slog.New(slog.DiscardHandler)
	}
	if in.screen == nil {
		in.screen = NewTerminalScreen(in.out)
	}
	return in
}

// Execute parses and runs one line.
func (in *Interpreter) Execute(line string) (Outcome, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Continue, err
	}
	return in.Run(cmd)
}

// Run executes an already classified command.
func (in *Interpreter) Run(cmd *Command) (Outcome, error) {
	in.logger.Debug("dispatch", slog.String("kind", cmd.Kind.String()), slog.String("line", cmd.Line))

	switch cmd.Kind {
	case Let:
		if cmd.Sep != "=" {
			return Continue, &InvalidExpressionError{Text: cmd.Sep, Reason: "expected '='"}
		}
		if err := validName(cmd.Name); err != nil {
			return Continue, err
		}
		val, err := in.Eval(cmd.Expr)
		if err != nil {
			return Continue, err
		}
		if err := in.Env.Set(cmd.Name, val); err != nil {
			return Continue, err
		}
		in.logger.Debug("set", slog.String("name", cmd.Name), slog.Int("value", int(val)), slog.Int("vars", in.Env.Len()))
	case Print:
		val, err := in.Eval(cmd.Expr)
		if err != nil {
			return Continue, err
		}
		_, _ = fmt.Fprintln(in.out, val)
	case Exit:
		_, _ = fmt.Fprintln(in.out, "Exiting EC...")
		return Halt, nil
	case Help:
		_, _ = io.WriteString(in.out, HelpText)
	case ListVars:
		if err := in.vars(in.out, in.Env); err != nil {
			return Continue, fmt.Errorf("list variables: %w", err)
		}
	case ClearVars:
		in.Env.Clear()
		_, _ = fmt.Fprintln(in.out, "All variables cleared!")
	case ClearScreen:
		if err := in.screen.ClearScreen(); err != nil {
			return Continue, fmt.Errorf("clear screen: %w", err)
		}
	case Comment, Empty:
	default:
		return Continue, &UnknownCommandError{Line: cmd.Line}
	}
	return Continue, nil
}

// Eval evaluates an expression: a signed decimal integer literal or the name
// of a bound variable.
func (in *Interpreter) Eval(expr string) (int32, error) {
	fields := strings.Fields(expr)
	switch {
	case len(fields) == 0:
		return 0, &InvalidExpressionError{Text: expr, Reason: "empty"}
	case len(fields) > 1:
		return 0, &InvalidExpressionError{Text: expr, Reason: "more than one token"}
	}
	tok := fields[0]

	if isIntLiteral(tok) {
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, &InvalidExpressionError{Text: tok, Reason: "out of range"}
			}
			return 0, &InvalidExpressionError{Text: tok, Reason: err.Error()}
		}
		return int32(n), nil
	}

	if err := validName(tok); err != nil {
		var ne *InvalidNameError
		if errors.As(err, &ne) {
			return 0, &InvalidExpressionError{Text: tok, Reason: ne.Reason}
		}
		return 0, err
	}
	return in.Env.Get(tok)
}

func isIntLiteral(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "empty"}
	case len(name) > MaxNameLen:
		return &InvalidNameError{Name: name, Reason: fmt.Sprintf("longer than %d characters", MaxNameLen)}
	case isIntLiteral(name):
		return &InvalidNameError{Name: name, Reason: "is a number"}
	case name == "=":
		return &InvalidNameError{Name: name, Reason: "reserved"}
	case strings.ContainsRune(name, '#') || strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return &InvalidNameError{Name: name, Reason: "contains whitespace or '#'"}
	}
	return nil
}

// PlainVars writes a "Variables:" header and one "name = value" line per
// variable.
func PlainVars(w io.Writer, env *Environment) error {
	if _, err := fmt.Fprintln(w, "Variables:"); err != nil {
		return err
	}
	for name, val := range env.All() {
		if _, err := fmt.Fprintf(w, "%s = %d\n", name, val); err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ec/internal/interpreter"
	"ec/internal/testutil"
)

func newTestREPL(t *testing.T, strict bool) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	logger := testutil.NewTestLogger(t)
	interp := interpreter.New(interpreter.NewEnvironment(),
		interpreter.WithOutput(out),
		interpreter.WithLogger(logger),
	)
	return &REPL{
		Interp: interp,
		Err:    errOut,
		Styles: NewStyles(errOut, "never"),
		Logger: logger,
		Strict: strict,
	}, out, errOut
}

func TestREPLRun(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOut string
		wantErr string
		outcome interpreter.Outcome
	}{
		{
			name:    "let and print",
			input:   "let x = 5\nprint x\n",
			wantOut: "5\n",
		},
		{
			name:    "let from variable",
			input:   "let x = 5\nlet y = x\nprint y\n",
			wantOut: "5\n",
		},
		{
			name:    "undefined keeps going",
			input:   "print z\nprint 1\n",
			wantOut: "1\n",
			wantErr: "Undefined variable: z\n",
		},
		{
			name:    "unknown keeps going",
			input:   "foobar\nprint 2",
			wantOut: "2\n",
			wantErr: "Unknown command: foobar\n",
		},
		{
			name:    "exit stops reading",
			input:   "print 1\nexit\nprint 2\n",
			wantOut: "1\nExiting EC...\n",
			outcome: interpreter.Halt,
		},
		{
			name:    "comments and blanks are silent",
			input:   "\n# note\n   \nprint 3\n",
			wantOut: "3\n",
		},
		{
			name:    "crlf input",
			input:   "let a = 4\r\nprint a\r\n",
			wantOut: "4\n",
		},
		{
			name:    "clearvars then vars",
			input:   "let a = 1\nlet b = 2\nclearvars\nvars\n",
			wantOut: "All variables cleared!\nVariables:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repl, out, errOut := newTestREPL(t, false)
			outcome, err := repl.Run(newScannerSource(strings.NewReader(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErr, errOut.String())
		})
	}
}

func TestREPLStrict(t *testing.T) {
	t.Run("undefined aborts", func(t *testing.T) {
		repl, out, errOut := newTestREPL(t, true)
		_, err := repl.Run(newScannerSource(strings.NewReader("print z\nprint 1\n")))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAborted)
		assert.ErrorIs(t, err, interpreter.ErrUndefinedVariable)
		assert.Empty(t, out.String())
		assert.Equal(t, "Undefined variable: z\n", errOut.String())
	})

	t.Run("invalid expression aborts", func(t *testing.T) {
		repl, _, _ := newTestREPL(t, true)
		_, err := repl.Run(newScannerSource(strings.NewReader("let x junk 5\n")))
		assert.ErrorIs(t, err, interpreter.ErrInvalidExpression)
	})

	t.Run("abort is logged with the line number", func(t *testing.T) {
		repl, _, _ := newTestREPL(t, true)
		logger, logs := testutil.NewCaptureLogger(t, slog.LevelInfo)
		repl.Logger = logger
		_, err := repl.Run(newScannerSource(strings.NewReader("print 1\nprint z\n")))
		require.ErrorIs(t, err, ErrAborted)
		assert.Contains(t, logs.String(), "stopping on fatal error")
		assert.Contains(t, logs.String(), "line=2")
		assert.NotContains(t, logs.String(), "end of input", "debug records are filtered")
	})

	t.Run("unknown command continues", func(t *testing.T) {
		repl, out, errOut := newTestREPL(t, true)
		_, err := repl.Run(newScannerSource(strings.NewReader("foobar\nprint 1\n")))
		require.NoError(t, err)
		assert.Equal(t, "1\n", out.String())
		assert.Contains(t, errOut.String(), "foobar")
	})
}

type failingSource struct{}

func (failingSource) ReadLine() (string, error) { return "", errors.New("boom") }
func (failingSource) Close() error              { return nil }

func TestREPLReadError(t *testing.T) {
	repl, _, _ := newTestREPL(t, false)
	_, err := repl.Run(failingSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read line: boom")
}

func TestScannerSource(t *testing.T) {
	src := newScannerSource(strings.NewReader("one\ntwo"))
	line, err := src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)
	line, err = src.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)
	_, err = src.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, src.Close())
}

func TestCompleter(t *testing.T) {
	env := interpreter.NewEnvironment()
	require.NoError(t, env.Set("alpha", 1))
	require.NoError(t, env.Set("beta", 2))

	c := newCompleter(env)
	got, _ := c.Do([]rune("print "), len("print "))
	var words []string
	for _, g := range got {
		words = append(words, strings.TrimSpace(string(g)))
	}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, words)

	got, _ = c.Do([]rune("cle"), 3)
	words = words[:0]
	for _, g := range got {
		words = append(words, strings.TrimSpace(string(g)))
	}
	assert.ElementsMatch(t, []string{"ar", "arvars"}, words)
}

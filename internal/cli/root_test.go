package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ec/internal/interpreter"
)

// runRoot executes the root command with the given stdin and arguments.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := execute(cmd, errOut)
	return out.String(), errOut.String(), err
}

func TestRootPipedSession(t *testing.T) {
	out, errOut, err := runRoot(t, "let x = 5\nlet y = x\nprint y\nprint nope\nvars\n", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "5\nVariables:\nx = 5\ny = 5\n", out, "no banner or prompt for piped input")
	assert.Equal(t, "Undefined variable: nope\n", errOut)
}

func TestRootStrict(t *testing.T) {
	out, errOut, err := runRoot(t, "print z\nprint 1\n", "--strict", "--color", "never")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, out)
	assert.Equal(t, "Undefined variable: z\n", errOut, "aborted sessions are reported once")
}

func TestRootMaxVars(t *testing.T) {
	out, errOut, err := runRoot(t, "let a = 1\nlet b = 2\nlet a = 3\nprint a\n", "--max-vars", "1", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Equal(t, "Capacity exceeded: at most 1 variables\n", errOut)
}

func TestRootTableVars(t *testing.T) {
	out, _, err := runRoot(t, "let a = 1\nvars\n", "--vars-format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 variables)")
}

func TestRootScripts(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.ec")
	second := filepath.Join(dir, "second.ec")
	third := filepath.Join(dir, "third.ec")
	require.NoError(t, os.WriteFile(first, []byte("# setup\nlet x = 7\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("print x\nexit\nprint 0\n"), 0o600))
	require.NoError(t, os.WriteFile(third, []byte("print 99\n"), 0o600))

	out, _, err := runRoot(t, "print 1\n", first, second, third)
	require.NoError(t, err)
	assert.Equal(t, "7\nExiting EC...\n", out, "variables carry across scripts and exit stops everything")
}

func TestRootMissingScript(t *testing.T) {
	_, errOut, err := runRoot(t, "", filepath.Join(t.TempDir(), "missing.ec"))
	require.Error(t, err)
	assert.Contains(t, errOut, "Error: failed to open script")
}

func TestRootBadConfig(t *testing.T) {
	_, errOut, err := runRoot(t, "", "--vars-format", "xml")
	require.Error(t, err)
	assert.Contains(t, errOut, "invalid vars_format")
}

func TestRootConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ec.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("strict: true\ncolor: never\n"), 0o600))

	_, _, err := runRoot(t, "print z\n", "--config", cfgPath)
	assert.ErrorIs(t, err, interpreter.ErrUndefinedVariable)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runRoot(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "EC v"+Version+"\n", out)
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "ec.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_vars: [oops\n"), 0o600))

	out, _, err := runRoot(t, "", "version", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "EC v"+Version+"\n", out)

	_, errOut, err := runRoot(t, "", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, errOut, "error reading config file")
}

func TestHelpFlag(t *testing.T) {
	out, _, err := runRoot(t, "", "--help")
	require.NoError(t, err)
	for _, want := range []string{"let <var> = <expr>", "clearvars", "--strict", "--max-vars"} {
		assert.Contains(t, out, want)
	}
}

func TestUnknownSubcommandIsAScript(t *testing.T) {
	_, errOut, err := runRoot(t, "", "no-such-file")
	require.Error(t, err)
	assert.Contains(t, errOut, "failed to open script")
}

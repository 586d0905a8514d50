package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"ec/internal/interpreter"
)

// LineSource supplies one line per call, without its terminator, and
// returns io.EOF at end of input.
type LineSource interface {
	ReadLine() (string, error)
	Close() error
}

// maxLineSize bounds a single input line from a script or pipe.
const maxLineSize = 1 << 20

type scannerSource struct {
	sc *bufio.Scanner
}

func newScannerSource(r io.Reader) *scannerSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &scannerSource{sc: sc}
}

func (s *scannerSource) ReadLine() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scannerSource) Close() error { return nil }

type readlineSource struct {
	rl *readline.Instance
}

// newReadlineSource opens an interactive line editor with history and
// completion of command words and bound variable names.
func newReadlineSource(prompt, historyFile string, env *interpreter.Environment, stdin io.ReadCloser, stdout, stderr io.Writer) (*readlineSource, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    newCompleter(env),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize line editor: %w", err)
	}
	return &readlineSource{rl: rl}, nil
}

func (s *readlineSource) ReadLine() (string, error) {
	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		// Ctrl-C drops the current line.
		return "", nil
	}
	return line, err
}

func (s *readlineSource) Close() error {
	return s.rl.Close()
}

func newCompleter(env *interpreter.Environment) *readline.PrefixCompleter {
	names := func(string) []string { return env.Names() }

	items := make([]readline.PrefixCompleterInterface, 0, len(interpreter.Keywords()))
	for _, kw := range interpreter.Keywords() {
		switch kw {
		case "let", "print":
			items = append(items, readline.PcItem(kw, readline.PcItemDynamic(names)))
		default:
			items = append(items, readline.PcItem(kw))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

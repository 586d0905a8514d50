package interpreter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A '#' starts a comment wherever it appears, so words never contain one.
// Whitespace is the unicode.IsSpace set: ASCII space, \v, U+0085 and the Z
// categories.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\r\n]*`},
	{Name: "Word", Pattern: `[^\s\v\x{85}\p{Z}#]+`},
	{Name: "Whitespace", Pattern: `[\s\v\x{85}\p{Z}]+`},
})

type Line struct {
	Words []*Word `parser:"@@*"`
}

type Word struct {
	Value string `parser:"@Word"`
}

var parser = participle.MustBuild[Line](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace", "Comment"),
)

// Kind identifies the form of a parsed line.
type Kind int

const (
	Unknown Kind = iota
	Let
	Print
	Exit
	Help
	ListVars
	ClearVars
	ClearScreen
	Comment
	Empty
)

var kindNames = [...]string{
	Unknown:     "unknown",
	Let:         "let",
	Print:       "print",
	Exit:        "exit",
	Help:        "help",
	ListVars:    "vars",
	ClearVars:   "clearvars",
	ClearScreen: "clear",
	Comment:     "comment",
	Empty:       "empty",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// keywords maps the first word of a line to its command and operand count.
var keywords = map[string]struct {
	kind  Kind
	arity int
}{
	"let":       {Let, 3},
	"print":     {Print, 1},
	"exit":      {Exit, 0},
	"help":      {Help, 0},
	"vars":      {ListVars, 0},
	"clearvars": {ClearVars, 0},
	"clear":     {ClearScreen, 0},
}

// Keywords returns the command words in the order help lists them.
func Keywords() []string {
	return []string{"let", "print", "exit", "help", "vars", "clearvars", "clear"}
}

// Command is one classified input line.
type Command struct {
	Kind Kind
	Line string

	// Name is the target of a let.
	Name string
	// Sep is the separator word of a let; only "=" executes.
	Sep string
	// Expr is the operand of a let or print.
	Expr string
}

// Tokenize splits line into words, dropping whitespace and comments.
func Tokenize(line string) ([]*Word, error) {
	ast, err := parser.ParseString("", line)
	if err != nil {
		return nil, err
	}
	return ast.Words, nil
}

// Parse classifies a single line. Trailing line terminators are ignored.
// Only tokenizer failures are reported as errors; operand checks happen when
// the command runs.
func Parse(line string) (*Command, error) {
	line = strings.TrimRight(line, "\r\n")
	cmd := &Command{Line: line}
	if line == "" {
		cmd.Kind = Empty
		return cmd, nil
	}

	words, err := Tokenize(line)
	if err != nil {
		return nil, fmt.Errorf("tokenize %q: %w", line, err)
	}
	if len(words) == 0 {
		if strings.Contains(line, "#") {
			cmd.Kind = Comment
		} else {
			cmd.Kind = Empty
		}
		return cmd, nil
	}

	args := make([]string, 0, len(words)-1)
	for _, w := range words[1:] {
		args = append(args, w.Value)
	}

	kw, ok := keywords[words[0].Value]
	if !ok || kw.arity != len(args) {
		cmd.Kind = Unknown
		return cmd, nil
	}
	cmd.Kind = kw.kind

	switch cmd.Kind {
	case Let:
		cmd.Name, cmd.Sep, cmd.Expr = args[0], args[1], args[2]
	case Print:
		cmd.Expr = args[0]
	}
	return cmd, nil
}

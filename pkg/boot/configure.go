package boot

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultBinary is the build configuration tool invoked when nothing else is configured.
const DefaultBinary = "cmake"

// Configurator runs the configure step of the build system.
type Configurator struct {
	// Binary is the name or path of the cmake executable
	Binary string
	// Generator is passed as -G if set
	Generator string
	// Defines are passed as -D NAME=VALUE cache entries
	Defines []string
	// DryRun only logs the command
	DryRun bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Exec replaces the interpreter's default exec handler if set.
	Exec interp.ExecHandlerFunc
}

// Command returns the argument list for the configure step, starting with the binary. Paths are
// relative to the base directory since the tool is started there.
func (c *Configurator) Command(layout Layout) []string {
	binary := c.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	output := layout.OutputRel
	if output == "" {
		output = DefaultOutput
	}

	args := []string{binary, "-S", ".", "-B", filepath.ToSlash(output)}
	if c.Generator != "" {
		args = append(args, "-G", c.Generator)
	}

	for _, def := range c.Defines {
		args = append(args, "-D", def)
	}

	return args
}

// safeLiteral reports whether arg can be used as an unquoted word
func safeLiteral(arg string) bool {
	if arg == "" {
		return false
	}

	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./=+,:@%", r):
		default:
			return false
		}
	}

	return true
}

// shellWord builds a word which expands to exactly arg. Anything but plain literals is single
// quoted; single quotes themselves are emitted as escaped literals between quoted parts.
func shellWord(arg string) *syntax.Word {
	if safeLiteral(arg) {
		return &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: arg}}}
	}

	chunks := strings.Split(arg, "'")
	parts := make([]syntax.WordPart, 0, 2*len(chunks))
	for idx, chunk := range chunks {
		if idx > 0 {
			parts = append(parts, &syntax.Lit{Value: `\'`})
		}

		if chunk != "" {
			parts = append(parts, &syntax.SglQuoted{Value: chunk})
		}
	}

	if len(parts) == 0 {
		parts = append(parts, &syntax.SglQuoted{})
	}

	return &syntax.Word{Parts: parts}
}

// commandStmt turns an argument list into a single shell statement without going through string
// interpolation.
func commandStmt(args []string) (*syntax.Stmt, error) {
	if len(args) == 0 {
		return nil, eris.New("empty command")
	}

	call := &syntax.CallExpr{
		Args: make([]*syntax.Word, len(args)),
	}

	for idx, arg := range args {
		call.Args[idx] = shellWord(arg)
	}

	return &syntax.Stmt{Cmd: call}, nil
}

func printStmt(stmt *syntax.Stmt) (string, error) {
	strBuffer := strings.Builder{}
	printer := syntax.NewPrinter(syntax.Minify(true))
	err := printer.Print(&strBuffer, stmt)
	if err != nil {
		return "", eris.Wrap(err, "failed to print command")
	}

	return strBuffer.String(), nil
}

// FormatCommand renders args the way they are handed to the interpreter.
func FormatCommand(args []string) (string, error) {
	stmt, err := commandStmt(args)
	if err != nil {
		return "", err
	}

	return printStmt(stmt)
}

func (c *Configurator) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	if c.Exec != nil {
		return c.Exec
	}

	return next
}

// Run executes the configure step inside layout.Base and blocks until the tool exits. The
// tool's output is passed through as is.
func (c *Configurator) Run(ctx context.Context, layout Layout) error {
	args := c.Command(layout)
	stmt, err := commandStmt(args)
	if err != nil {
		return &ToolError{Command: args[0], Err: err}
	}

	cmdline, err := printStmt(stmt)
	if err != nil {
		return &ToolError{Command: args[0], Err: err}
	}

	Log(ctx).Info().
		Str("path", layout.Base).
		Bool("command", true).
		Msg(cmdline)

	if c.DryRun {
		return nil
	}

	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(layout.Base),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.ExecHandlers(c.execHandler),
		interp.StdIO(c.Stdin, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return &ToolError{Command: cmdline, Err: eris.Wrap(err, "Failed to initialize runner")}
	}

	err = runner.Run(ctx, stmt)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return &ToolError{Command: cmdline, Status: int(status), Err: err}
		}

		return &ToolError{Command: cmdline, Err: err}
	}

	Log(ctx).Debug().Str("path", layout.Output).Msg("build system configured")
	return nil
}

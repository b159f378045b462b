package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"minipy/ast"
	"minipy/internals"
	"minipy/interpreter"
	"minipy/lexer"
	"minipy/object"
	"minipy/parser"
)

const (
	PROMPT      = ">>> "
	CONT_PROMPT = "... "
)

var DefaultExitCommands = []string{"exit", "quit", "q", "Q"}

type Options struct {
	Prompt             string
	ContinuationPrompt string
	ExitCommands       []string
	// printed once before the first prompt when not empty
	Banner string
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = PROMPT
	}
	if o.ContinuationPrompt == "" {
		o.ContinuationPrompt = CONT_PROMPT
	}
	if len(o.ExitCommands) == 0 {
		o.ExitCommands = DefaultExitCommands
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Session assembles input lines into logical units and runs them against
// one environment that lives as long as the session.
type Session struct {
	opts   Options
	interp *interpreter.Interpreter
	out    io.Writer
	errOut io.Writer

	// lines of the open compound statement, empty when none is open
	buffer       []string
	headerIndent int
}

func NewSession(out, errOut io.Writer, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		opts:   opts,
		interp: interpreter.NewInterpreter(nil, interpreter.WithLogger(opts.Logger)),
		out:    out,
		errOut: errOut,
	}
}

func (s *Session) Env() *object.Environment { return s.interp.Env() }

// Prompt returns the prompt for the next line
func (s *Session) Prompt() string {
	if len(s.buffer) > 0 {
		return s.opts.ContinuationPrompt
	}
	return s.opts.Prompt
}

// Feed handles one physical line and reports whether it asked to end the
// session.
func (s *Session) Feed(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)

	if len(s.buffer) == 0 {
		if slices.Contains(s.opts.ExitCommands, trimmed) {
			return true
		}
		if trimmed == "" {
			return false
		}
		if opensBlock(line) {
			s.buffer = append(s.buffer, line)
			s.headerIndent = indentOf(line)
			return false
		}
		s.execute(line)
		return false
	}

	if trimmed == "" {
		s.Flush()
		return false
	}
	if strings.HasPrefix(trimmed, "#") {
		s.buffer = append(s.buffer, line)
		return false
	}

	// a line back at the header indentation closes the block unless it
	// continues the same statement
	if indentOf(line) <= s.headerIndent && !continuesBlock(line) {
		s.Flush()
		return s.Feed(line)
	}

	s.buffer = append(s.buffer, line)
	return false
}

// Flush runs the open compound statement, if any
func (s *Session) Flush() {
	if len(s.buffer) == 0 {
		return
	}
	src := strings.Join(s.buffer, "\n") + "\n"
	s.opts.Logger.Debug("block assembled", "lines", len(s.buffer))
	s.buffer = s.buffer[:0]
	s.execute(src)
}

// Reset drops the open compound statement without running it
func (s *Session) Reset() {
	s.buffer = s.buffer[:0]
}

func (s *Session) execute(src string) {
	program, err := parser.ParseString("<stdin>", src)
	if err != nil {
		s.report(err)
		return
	}

	value, err := s.interp.Run(program)
	if err != nil {
		s.report(err)
		return
	}

	if !isBareExpression(program) || value == nil || value == object.NONE {
		return
	}
	fmt.Fprintln(s.out, value.Inspect())
}

func isBareExpression(program *ast.Program) bool {
	if len(program.Statements) != 1 {
		return false
	}
	_, ok := program.Statements[0].(*ast.ExpressionStatement)
	return ok
}

// report prints the first error of err as Kind: message
func (s *Session) report(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			err = errs[0]
		}
	}

	var langErr *internals.Error
	if errors.As(err, &langErr) {
		fmt.Fprintf(s.errOut, "%s: %s\n", langErr.Kind, langErr.Msg)
		return
	}
	fmt.Fprintln(s.errOut, err)
}

// a unit is buffered when it starts a compound statement, either with a
// header keyword or by ending in ':'
func opensBlock(line string) bool {
	tokens, err := lexer.NewLexer("", line).Tokenize()
	if err != nil {
		return false
	}

	var significant []lexer.Token
	for _, tok := range tokens {
		if tok.Kind != lexer.TokenNewline && tok.Kind != lexer.TokenEOF {
			significant = append(significant, tok)
		}
	}
	if len(significant) == 0 {
		return false
	}

	switch significant[0].Kind {
	case lexer.TokenIf, lexer.TokenWhile:
		return true
	}
	return significant[len(significant)-1].Kind == lexer.TokenColon
}

func continuesBlock(line string) bool {
	word := strings.TrimSpace(line)
	for _, keyword := range []string{lexer.TokenElif, lexer.TokenElse} {
		if strings.HasPrefix(word, keyword) {
			rest := word[len(keyword):]
			if rest == "" || !isIdentifierChar(rest[0]) {
				return true
			}
		}
	}
	return false
}

func isIdentifierChar(c byte) bool {
	return c == '_' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func indentOf(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width = (width/lexer.TabWidth + 1) * lexer.TabWidth
		default:
			return width
		}
	}
	return width
}

// Start runs the read-eval-print loop until an exit command or the end of
// input. Errors of the reader other than io.EOF end the loop and are
// returned.
func Start(reader LineReader, out, errOut io.Writer, opts Options) error {
	session := NewSession(out, errOut, opts)
	if session.opts.Banner != "" {
		fmt.Fprintln(out, session.opts.Banner)
	}

	for {
		line, err := reader.ReadLine(session.Prompt())
		switch {
		case errors.Is(err, io.EOF):
			session.Flush()
			return nil
		case errors.Is(err, ErrInterrupted):
			session.Reset()
			fmt.Fprintln(errOut, "KeyboardInterrupt")
			continue
		case err != nil:
			return err
		}

		if session.Feed(line) {
			session.opts.Logger.Debug("exit command received")
			return nil
		}
	}
}

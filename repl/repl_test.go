package repl

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"gopkg.in/yaml.v3"
)

type conformance struct {
	Expressions []struct {
		Input    string `yaml:"input"`
		Expected string `yaml:"expected"`
	} `yaml:"expressions"`
	Programs []struct {
		Name     string   `yaml:"name"`
		Lines    []string `yaml:"lines"`
		Expected string   `yaml:"expected"`
	} `yaml:"programs"`
}

func loadConformance(t *testing.T) conformance {
	t.Helper()
	data, err := os.ReadFile("testdata/conformance.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var c conformance
	if err := yaml.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}
	return c
}

// session feeds lines the way the integration harness does, an empty line and
// exit are appended
func session(t *testing.T, lines []string, opts Options) (string, string) {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n\nexit\n"

	var out, errOut bytes.Buffer
	if err := Start(NewScannerReader(strings.NewReader(input), &out), &out, &errOut, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String(), errOut.String()
}

// lastPayload returns the last non empty text found after a prompt
func lastPayload(stdout string) string {
	var payload string
	for _, raw := range strings.Split(stdout, "\n") {
		s := strings.TrimLeft(raw, " \t")
		if !strings.HasPrefix(s, PROMPT) && !strings.HasPrefix(s, CONT_PROMPT) {
			continue
		}
		s = strings.ReplaceAll(s, PROMPT, "###")
		s = strings.ReplaceAll(s, CONT_PROMPT, "###")
		parts := strings.Split(s, "###")
		if val := strings.TrimSpace(parts[len(parts)-1]); val != "" {
			payload = val
		}
	}
	return payload
}

func TestConformanceExpressions(t *testing.T) {
	for _, tt := range loadConformance(t).Expressions {
		stdout, stderr := session(t, []string{tt.Input}, Options{})
		if stderr != "" {
			t.Errorf("%q: unexpected error output %q", tt.Input, stderr)
		}
		if got := lastPayload(stdout); got != tt.Expected {
			t.Errorf("%q: expected=%s, got=%s", tt.Input, tt.Expected, got)
		}
	}
}

func TestConformancePrograms(t *testing.T) {
	for _, tt := range loadConformance(t).Programs {
		t.Run(tt.Name, func(t *testing.T) {
			stdout, _ := session(t, tt.Lines, Options{})
			if got := lastPayload(stdout); got != tt.Expected {
				t.Errorf("expected=%s, got=%s\nstdout: %q", tt.Expected, got, stdout)
			}
		})
	}
}

func TestPromptProtocol(t *testing.T) {
	stdout, stderr := session(t, []string{"x = 1", "if x:", "    y = 2", "", "y"}, Options{})

	// one prompt per line read, continuation while the block is open
	expected := ">>> >>> ... ... >>> 2\n>>> >>> "
	if stdout != expected {
		t.Errorf("expected=%q, got=%q", expected, stdout)
	}
	if stderr != "" {
		t.Errorf("unexpected error output %q", stderr)
	}
}

func TestOnlyBareExpressionsPrint(t *testing.T) {
	tests := []struct {
		lines    []string
		expected string
	}{
		{[]string{"x = 3"}, ">>> >>> >>> "},
		{[]string{"None"}, ">>> >>> >>> "},
		{[]string{`"it's"`}, ">>> \"it's\"\n>>> >>> "},
		{[]string{"if True:", "    5", ""}, ">>> ... ... >>> >>> "},
		{[]string{"x = 3", "x * 2"}, ">>> >>> 6\n>>> >>> "},
	}

	for _, tt := range tests {
		stdout, _ := session(t, tt.lines, Options{})
		if stdout != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.lines, tt.expected, stdout)
		}
	}
}

func TestErrorsAreReported(t *testing.T) {
	stdout, stderr := session(t, []string{
		"1 / 0",
		"x",
		"'a' + 1",
		"1 $ 2",
		"(1 + 2",
		"(1 +",
		"while x",
		"",
		"x = 2",
		"x",
	}, Options{})

	expected := strings.Join([]string{
		"ZeroDivisionError: division by zero",
		"NameError: name 'x' is not defined",
		`TypeError: can only concatenate str (not "int") to str`,
		"LexError: invalid character '$' (U+0024)",
		"ParseError: '(' was never closed",
		"ParseError: '(' was never closed",
		"ParseError: expected ':' after while condition, found newline",
	}, "\n") + "\n"

	if diff := deep.Equal(strings.Split(stderr, "\n"), strings.Split(expected, "\n")); diff != nil {
		t.Error(diff)
	}
	if got := lastPayload(stdout); got != "2" {
		t.Errorf("expected the session to survive the errors, got %q", got)
	}
}

func TestExitCommands(t *testing.T) {
	tests := []struct {
		input    string
		commands []string
		expected string
	}{
		{"1\nexit\n2\n", nil, ">>> 1\n>>> "},
		{"1\nquit\n2\n", nil, ">>> 1\n>>> "},
		{"1\n  exit  \n2\n", nil, ">>> 1\n>>> "},
		{"1\nq\n2\n", nil, ">>> 1\n>>> "},
		{"1\nQ\n2\n", nil, ">>> 1\n>>> "},
		// a custom list replaces the defaults
		{"1\nq\n2\nbye\n", []string{"bye"}, ">>> 1\n>>> >>> 2\n>>> "},
		// an exit command after an open block runs the block first
		{"if True:\n    x = 7\nexit\nx\n", nil, ">>> ... ... "},
	}

	for _, tt := range tests {
		var out, errOut bytes.Buffer
		err := Start(NewScannerReader(strings.NewReader(tt.input), &out), &out, &errOut, Options{ExitCommands: tt.commands})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if out.String() != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, out.String())
		}
	}
}

func TestCustomPromptsAndBanner(t *testing.T) {
	var out, errOut bytes.Buffer
	opts := Options{Prompt: "py> ", ContinuationPrompt: "  | ", Banner: "minipy"}
	input := "if 1:\n    a = 4\n\na\n"

	if err := Start(NewScannerReader(strings.NewReader(input), &out), &out, &errOut, opts); err != nil {
		t.Fatal(err)
	}

	expected := "minipy\npy>   |   | py> 4\npy> "
	if out.String() != expected {
		t.Errorf("expected=%q, got=%q", expected, out.String())
	}
}

func TestEndOfInputFlushesOpenBlock(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSession(&out, &errOut, Options{})

	for _, line := range []string{"x = 0", "while x < 4:", "    x += 1"} {
		if s.Feed(line) {
			t.Fatalf("%q ended the session", line)
		}
	}
	if s.Prompt() != CONT_PROMPT {
		t.Errorf("expected a continuation prompt while the block is open, got %q", s.Prompt())
	}
	if x, _ := s.Env().Resolve("x"); x.Inspect() != "0" {
		t.Fatalf("the loop ran before the block was closed")
	}

	s.Flush()
	if x, _ := s.Env().Resolve("x"); x.Inspect() != "4" {
		t.Errorf("expected x to be 4, got %s", x.Inspect())
	}
	if s.Prompt() != PROMPT {
		t.Errorf("expected the main prompt after the flush, got %q", s.Prompt())
	}
}

type step struct {
	line string
	err  error
}

type scriptedReader struct {
	steps   []step
	prompts []string
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.steps) == 0 {
		return "", io.EOF
	}
	next := r.steps[0]
	r.steps = r.steps[1:]
	return next.line, next.err
}

func TestInterruptDiscardsOpenBlock(t *testing.T) {
	reader := &scriptedReader{steps: []step{
		{line: "if True:"},
		{line: "    x = 1"},
		{err: ErrInterrupted},
		{line: "x"},
	}}

	var out, errOut bytes.Buffer
	if err := Start(reader, &out, &errOut, Options{}); err != nil {
		t.Fatal(err)
	}

	expected := "KeyboardInterrupt\nNameError: name 'x' is not defined\n"
	if errOut.String() != expected {
		t.Errorf("expected=%q, got=%q", expected, errOut.String())
	}
	if diff := deep.Equal(reader.prompts, []string{PROMPT, CONT_PROMPT, CONT_PROMPT, PROMPT, PROMPT}); diff != nil {
		t.Error(diff)
	}
}

func TestReaderErrorsEndTheLoop(t *testing.T) {
	failure := io.ErrUnexpectedEOF
	reader := &scriptedReader{steps: []step{{line: "x = 1"}, {err: failure}}}

	var out, errOut bytes.Buffer
	if err := Start(reader, &out, &errOut, Options{}); err != failure {
		t.Errorf("expected %v, got %v", failure, err)
	}
}

package repl

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// IsTerminal reports whether both ends of the session are attached to a tty
func IsTerminal(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// TerminalReader edits lines with liner: history, cursor keys and Ctrl+C
// aborting the current line.
type TerminalReader struct {
	state       *liner.State
	historyPath string
}

// NewTerminalReader loads the history kept at historyPath, an empty path
// keeps the history in memory only.
func NewTerminalReader(historyPath string) *TerminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	// history is best effort
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &TerminalReader{state: state, historyPath: historyPath}
}

func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal and persists the history
func (r *TerminalReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.state.Close()
}

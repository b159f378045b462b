package repl

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrInterrupted is returned by a LineReader when the user aborts the line
// being edited (Ctrl+C).
var ErrInterrupted = errors.New("interrupted")

// LineReader shows prompt and returns the next line without its line
// terminator, io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ScannerReader reads plain lines, prompts are written to out as is so a
// line based consumer of out sees them in front of every result.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", err
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(r.scanner.Text(), "\r"), nil
}

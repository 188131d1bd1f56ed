package cli

import (
	"bufio"
	"io"
	"math"
	"os"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// NewLineReader picks an interactive prompt for terminals and a plain
// line scanner for pipes and files
func NewLineReader(in *os.File) LineReader {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return newPromptReader()
	}
	return NewScannerReader(in)
}

// ScannerReader reads newline-terminated lines from any reader
type ScannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader wraps r. Lines of any length are accepted.
func NewScannerReader(r io.Reader) *ScannerReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	return &ScannerReader{scanner: scanner}
}

// ReadLine returns the next line without its terminator
func (r *ScannerReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// promptReader reads from the terminal with history and completion.
// go-prompt reports Ctrl+D as an empty line, so only exit words end
// an interactive session.
type promptReader struct {
	history []string
}

func newPromptReader() *promptReader {
	return &promptReader{}
}

func (r *promptReader) ReadLine() (string, error) {
	line := prompt.Input("You: ", completer,
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionHistory(r.history),
	)
	if line != "" {
		r.history = append(r.history, line)
	}
	return line, nil
}

var suggestions = []prompt.Suggest{
	{Text: "my name is", Description: "Tell me your name"},
	{Text: "tell me a joke", Description: "Hear a joke"},
	{Text: "what time is it", Description: "Current time"},
	{Text: "what's the date", Description: "Today's date"},
	{Text: "help", Description: "What I can do"},
	{Text: "bye", Description: "End the conversation"},
}

func completer(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if word == "" {
		return nil
	}
	return prompt.FilterHasPrefix(suggestions, d.TextBeforeCursor(), true)
}

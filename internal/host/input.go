package host

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// LineReader supplies lines typed by the user for TextWindow.Read and
// TextWindow.ReadNumber. It returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewInput returns a line editor when in is a terminal and a plain line
// reader otherwise. History is only kept by the line editor.
func NewInput(in *os.File, history string) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return &editor{history: history}
	}

	return NewReader(in)
}

// NewReader reads lines from r without any editing
func NewReader(r io.Reader) LineReader {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r *bufio.Reader
}

func (r *reader) ReadLine(string) (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (r *reader) Close() error {
	return nil
}

// editor wraps liner. The terminal is only taken over on the first read.
type editor struct {
	state   *liner.State
	history string
}

func (e *editor) open() {
	if e.state != nil {
		return
	}

	e.state = liner.NewLiner()
	e.state.SetCtrlCAborts(true)

	if e.history == "" {
		return
	}
	if f, err := os.Open(e.history); err == nil {
		_, _ = e.state.ReadHistory(f)
		_ = f.Close()
	}
}

func (e *editor) ReadLine(prompt string) (string, error) {
	e.open()

	line, err := e.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		e.state.AppendHistory(line)
	}
	return line, nil
}

func (e *editor) Close() error {
	if e.state == nil {
		return nil
	}

	if e.history != "" {
		if f, err := os.Create(e.history); err == nil {
			_, _ = e.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return e.state.Close()
}

package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tartampluch/go-genie/internal/config"
)

// ErrAborted is returned when the operator closes the input stream.
var ErrAborted = errors.New(config.ErrPromptAborted)

// Prompter asks the operator questions.
type Prompter interface {
	// Ask reads one line, re-asking until validate accepts it.
	Ask(question string, validate func(string) error) (string, error)
	// Choose shows numbered options and returns the chosen index.
	Choose(question string, options []string) (int, error)
	// Say prints a line.
	Say(text string)
}

// LinePrompter is a line-oriented Prompter over a reader and a writer.
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer
	tr  *Translator
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer, tr *Translator) *LinePrompter {
	return &LinePrompter{in: bufio.NewScanner(in), out: out, tr: tr}
}

func (p *LinePrompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Ask implements Prompter.
func (p *LinePrompter) Ask(question string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "? %s: ", question)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if validate == nil {
			return answer, nil
		}
		if err := validate(answer); err != nil {
			fmt.Fprintf(p.out, ">> %s\n", err)
			continue
		}
		return answer, nil
	}
}

// Choose implements Prompter.
func (p *LinePrompter) Choose(question string, options []string) (int, error) {
	data := map[string]any{"Max": len(options)}
	fmt.Fprintf(p.out, "? %s\n", question)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}

	answer, err := p.Ask(p.tr.T(config.TKeyChoiceHint, data), func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(options) {
			return errors.New(p.tr.T(config.TKeyErrChoice, data))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(answer)
	return n - 1, nil
}

// Say implements Prompter.
func (p *LinePrompter) Say(text string) {
	fmt.Fprintln(p.out, text)
}

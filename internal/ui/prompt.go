package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompter asks the operator for input. On a terminal choices use the
// interactive picker and passwords are read without echo; otherwise
// everything is read line by line, which keeps piped input and tests working.
type Prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
	fd     int
	tty    bool
}

// NewPrompter prompts on the given terminal file, usually os.Stdin
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	p := NewLinePrompter(in, out)
	p.fd = int(in.Fd())
	p.tty = term.IsTerminal(p.fd)
	return p
}

// NewLinePrompter reads answers line by line from in
func NewLinePrompter(in io.Reader, out io.Writer) *Prompter {
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
		fd:     -1,
	}
}

// Interactive reports whether the prompter talks to a terminal
func (p *Prompter) Interactive() bool {
	return p.tty
}

// Input prints prompt and returns the trimmed answer
func (p *Prompter) Input(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, PromptStyle.Render(prompt+": "))
	return p.readLine()
}

// Password reads a secret without echo when on a terminal
func (p *Prompter) Password(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, PromptStyle.Render(prompt+": "))
	if !p.tty {
		return p.readLine()
	}
	secret, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// Choose returns the index of the selected option. Without a terminal the
// options are numbered and the number is read from input.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	if p.tty {
		return Pick(p.in, p.out, title, options)
	}
	if len(options) == 0 {
		return -1, fmt.Errorf("%s: nothing to choose from", title)
	}

	_, _ = fmt.Fprintln(p.out, PromptStyle.Render(title))
	for i, opt := range options {
		_, _ = fmt.Fprintf(p.out, "  %3d  %s\n", i, opt)
	}

	answer, err := p.Input(title)
	if err != nil {
		return -1, err
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 0 || idx >= len(options) {
		return -1, fmt.Errorf("%q is not a number between 0 and %d", answer, len(options)-1)
	}
	return idx, nil
}

// Confirm shows a warning box listing what is about to happen and asks for a
// yes/no answer. Anything but y or yes declines.
func (p *Prompter) Confirm(title string, items []string, question string) (bool, error) {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  CONFIRM  ─  %s", WarningMarker, title)), ""}
	for _, item := range items {
		lines = append(lines, lipgloss.NewStyle().Foreground(TextColor).Render("   • "+item))
	}
	lines = append(lines, "")

	_, _ = fmt.Fprintln(p.out, boxStyle(WarningColor, width).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(p.out)

	answer, err := p.Input(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		_, _ = fmt.Fprintln(p.out, StepPendingStyle.Render("  Operation cancelled."))
		return false, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

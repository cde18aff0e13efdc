// Package prompt asks for a single line of input, prefilled with the
// current value, the way the edit command walks through a task's fields.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user abandons a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter asks for one value. Submitting an empty line returns "";
// escape or ctrl+c returns ErrCancelled.
type Prompter interface {
	Prompt(ctx context.Context, label, initial string) (string, error)
}

// Terminal runs prompts as bubbletea programs on the given streams.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal creates a Terminal prompter.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Prompt implements Prompter.
func (p *Terminal) Prompt(ctx context.Context, label, initial string) (string, error) {
	prog := tea.NewProgram(
		NewLine(label, initial),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("prompt %s: %w", label, err)
	}

	m, ok := final.(Line)
	if !ok {
		return "", fmt.Errorf("prompt %s: unexpected model %T", label, final)
	}
	if m.Cancelled() {
		return "", ErrCancelled
	}
	return m.Value(), nil
}

// Line is a single-line editor model.
type Line struct {
	label     string
	value     []rune
	done      bool
	cancelled bool
}

// NewLine creates a Line prefilled with initial.
func NewLine(label, initial string) Line {
	return Line{label: label, value: []rune(initial)}
}

// Value returns the current text.
func (m Line) Value() string { return string(m.value) }

// Cancelled reports whether the user abandoned the prompt.
func (m Line) Cancelled() bool { return m.cancelled }

// Done reports whether the user submitted the prompt.
func (m Line) Done() bool { return m.done }

func (m Line) Init() tea.Cmd { return nil }

func (m Line) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.value) > 0 {
			m.value = m.value[:len(m.value)-1]
		}
	case tea.KeyCtrlU:
		m.value = nil
	case tea.KeyRunes, tea.KeySpace:
		m.value = append(m.value, key.Runes...)
	}
	return m, nil
}

func (m Line) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", m.label, string(m.value))
	b.WriteString("█\n")
	b.WriteString("(enter to save, esc to cancel)\n")
	return b.String()
}

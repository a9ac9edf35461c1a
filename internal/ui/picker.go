package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the operator leaves a picker without choosing
var ErrCancelled = errors.New("selection cancelled")

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

func (k pickerKeys) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Up, k.Down, k.Select, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// PickerModel is a Bubble Tea model listing options for a single choice
type PickerModel struct {
	title     string
	options   []string
	cursor    int
	offset    int
	visible   int
	chosen    int
	cancelled bool
	keys      pickerKeys
}

// NewPickerModel creates a picker over options showing at most visible rows
func NewPickerModel(title string, options []string, visible int) PickerModel {
	if visible < 1 {
		visible = 10
	}
	return PickerModel{
		title:   title,
		options: options,
		visible: visible,
		chosen:  -1,
		keys:    defaultPickerKeys(),
	}
}

// Init implements tea.Model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if v := msg.Height - 4; v > 0 {
			m.visible = v
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.options) > 0 {
				m.chosen = m.cursor
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = len(m.options) - 1
		}
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.visible {
		m.offset = m.cursor - m.visible + 1
	}
	return m, nil
}

// View implements tea.Model
func (m PickerModel) View() string {
	if m.chosen >= 0 || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(PromptStyle.Render(m.title))
	b.WriteString("\n\n")

	end := m.offset + m.visible
	if end > len(m.options) {
		end = len(m.options)
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(PickerCursorStyle.Render("› " + m.options[i]))
		} else {
			b.WriteString("  " + m.options[i])
		}
		b.WriteString("\n")
	}
	if len(m.options) > m.visible {
		b.WriteString(StepNoteStyle.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.options))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(PickerHelpStyle.Render(m.keys.help()))
	return b.String()
}

// Chosen returns the selected index, or false when nothing was selected
func (m PickerModel) Chosen() (int, bool) {
	return m.chosen, m.chosen >= 0
}

// Pick runs a picker on the terminal and returns the chosen index
func Pick(in io.Reader, out io.Writer, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("%s: nothing to choose from", title)
	}

	model := NewPickerModel(title, options, GetTerminalHeight()-4)
	final, err := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return -1, err
	}

	idx, ok := final.(PickerModel).Chosen()
	if !ok {
		return -1, ErrCancelled
	}
	_, _ = fmt.Fprintln(out, PromptStyle.Render(title+": ")+options[idx])
	return idx, nil
}

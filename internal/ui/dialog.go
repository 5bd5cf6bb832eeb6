package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SaveDialog asks the user where to save a file. ok is false when the user cancelled.
type SaveDialog interface {
	Prompt(ctx context.Context, suggested string) (path string, ok bool, err error)
}

// FixedDialog accepts the suggested path without asking.
type FixedDialog struct{}

func (FixedDialog) Prompt(_ context.Context, suggested string) (string, bool, error) {
	return suggested, suggested != "", nil
}

// PromptDialog asks on the terminal with a text input prefilled with the suggested path.
type PromptDialog struct {
	Title string
	// In and Out default to the process's terminal.
	In    io.Reader
	Out   io.Writer
}

func (d *PromptDialog) Prompt(ctx context.Context, suggested string) (string, bool, error) {
	title := d.Title
	if title == "" {
		title = "Save File"
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if d.In != nil {
		opts = append(opts, tea.WithInput(d.In))
	}
	if d.Out != nil {
		opts = append(opts, tea.WithOutput(d.Out))
	}

	final, err := tea.NewProgram(newSaveModel(title, suggested), opts...).Run()
	if err != nil {
		return "", false, fmt.Errorf("save dialog failed: %w", err)
	}

	path, ok := final.(*saveModel).result()
	return path, ok, nil
}

// saveModel is the bubbletea model behind [PromptDialog].
type saveModel struct {
	title    string
	input    textinput.Model
	help     help.Model
	keys     keyMap
	accepted bool
	done     bool
}

func newSaveModel(title, suggested string) *saveModel {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 4096
	input.Width = 60
	input.SetValue(suggested)
	input.CursorEnd()
	input.Focus()

	return &saveModel{
		title: title,
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

func (m *saveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *saveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.accept):
			m.accepted = strings.TrimSpace(m.input.Value()) != ""
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.cancel):
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *saveModel) View() string {
	if m.done {
		return ""
	}
	body := fmt.Sprintf("%s\n%s\n\n%s", Styles.Title(m.title), m.input.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
	return Styles.Frame(body) + "\n"
}

func (m *saveModel) result() (string, bool) {
	if !m.accepted {
		return "", false
	}
	return strings.TrimSpace(m.input.Value()), true
}

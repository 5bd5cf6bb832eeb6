package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scandium/internal/models"
)

// History is the part of the download history the browser needs.
type History interface {
	List(criteria map[string]any) ([]*models.Download, error)
	Clear() (int64, error)
}

// HistoryModel browses saved downloads.
type HistoryModel struct {
	ctx     context.Context
	history History
	list    list.Model
	loaded  bool
	err     error
	width   int
	height  int
	help    help.Model
	keys    keyMap
	clear   key.Binding
}

// NewHistoryModel creates the history browser over h.
func NewHistoryModel(ctx context.Context, h History) *HistoryModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Downloads"
	l.SetShowHelp(false)

	return &HistoryModel{
		ctx:     ctx,
		history: h,
		list:    l,
		help:    help.New(),
		keys:    newKeyMap(),
		clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear history")),
	}
}

// BrowseHistory runs the history browser until the user quits.
func BrowseHistory(ctx context.Context, h History, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewHistoryModel(ctx, h), opts...).Run()
	if err != nil {
		return fmt.Errorf("history browser failed: %w", err)
	}
	return final.(*HistoryModel).err
}

// Init loads the history.
func (m *HistoryModel) Init() tea.Cmd {
	return m.load()
}

func (m *HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.clear):
			return m, m.clearAll()
		}

	case Msg:
		result := msg.data.(historyResult)
		switch msg.kind {
		case MsgHistoryLoaded:
			m.loaded = true
			if result.err != nil {
				m.err = result.err
				return m, tea.Quit
			}
			items := make([]list.Item, len(result.downloads))
			for i, d := range result.downloads {
				items[i] = downloadItem{download: d}
			}
			return m, m.list.SetItems(items)
		case MsgHistoryCleared:
			if result.err != nil {
				m.err = result.err
				return m, tea.Quit
			}
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *HistoryModel) View() string {
	if m.err != nil {
		return Styles.Err(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if !m.loaded {
		return Styles.Help("Loading downloads...")
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.clear, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

// Items returns the downloads currently listed.
func (m *HistoryModel) Items() []*models.Download {
	items := m.list.Items()
	downloads := make([]*models.Download, 0, len(items))
	for _, item := range items {
		downloads = append(downloads, item.(downloadItem).download)
	}
	return downloads
}

func (m *HistoryModel) load() tea.Cmd {
	return func() tea.Msg {
		if err := m.ctx.Err(); err != nil {
			return historyLoadedMsg(nil, err)
		}
		downloads, err := m.history.List(nil)
		return historyLoadedMsg(downloads, err)
	}
}

func (m *HistoryModel) clearAll() tea.Cmd {
	return func() tea.Msg {
		_, err := m.history.Clear()
		return historyClearedMsg(err)
	}
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scandium/internal/models"
)

// MsgKind enumerates the message types of the history browser.
type MsgKind int

// Msg is the history browser's message union.
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHistoryLoaded MsgKind = iota
	MsgHistoryCleared
)

type historyResult struct {
	downloads []*models.Download
	err       error
}

// historyLoadedMsg is the constructor for [MsgHistoryLoaded]
func historyLoadedMsg(downloads []*models.Download, err error) Msg {
	return Msg{kind: MsgHistoryLoaded, data: historyResult{downloads, err}}
}

// historyClearedMsg is the constructor for [MsgHistoryCleared]
func historyClearedMsg(err error) Msg {
	return Msg{kind: MsgHistoryCleared, data: historyResult{err: err}}
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoaded MsgKind = iota
	MsgSaved
	MsgDeleted
	MsgVoted
	MsgEvent
)

// result carries the outcome of one controller call.
type result struct {
	persona *models.Persona
	id      string
	err     error
}

// loadedMsg is the constructor for [MsgLoaded]
func loadedMsg(err error) Msg {
	return Msg{kind: MsgLoaded, data: result{err: err}}
}

// savedMsg is the constructor for [MsgSaved], sent after a create (id "") or an update
func savedMsg(id string, p *models.Persona, err error) Msg {
	return Msg{kind: MsgSaved, data: result{id: id, persona: p, err: err}}
}

// deletedMsg is the constructor for [MsgDeleted]
func deletedMsg(id string, err error) Msg {
	return Msg{kind: MsgDeleted, data: result{id: id, err: err}}
}

// votedMsg is the constructor for [MsgVoted]
func votedMsg(id string, p *models.Persona, err error) Msg {
	return Msg{kind: MsgVoted, data: result{id: id, persona: p, err: err}}
}

// eventMsg is the constructor for [MsgEvent], carrying one controller [directory.Event]
func eventMsg(e directory.Event) Msg {
	return Msg{kind: MsgEvent, data: e}
}

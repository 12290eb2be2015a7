package directory

import (
	"fmt"

	"github.com/desertthunder/personas/internal/models"
)

// EventKind names what happened to the entry list.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventCreated
	EventUpdated
	EventDeleted
	EventVoted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	case EventVoted:
		return "voted"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports a committed change or a failed operation.
//
// Op is the operation that produced the event ("load", "create", "update", "delete", "vote").
// Persona is set for create, update and vote; Err only for [EventFailed].
type Event struct {
	Kind    EventKind
	Op      string
	ID      string
	Persona *models.Persona
	Err     error
}

package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/directory"
)

// Engine runs bulk imports and exports through a [directory.Controller], so every persona
// created in bulk goes through the same path as one created by hand.
type Engine struct {
	ctrl   *directory.Controller
	logger *log.Logger
}

// NewEngine creates a new Engine over ctrl.
func NewEngine(ctrl *directory.Controller, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{ctrl: ctrl, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

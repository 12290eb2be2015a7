package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/personas/internal/formatter"
	"github.com/desertthunder/personas/internal/models"
)

var _ list.Item = personaItem{}

// personaItem wraps [models.Persona] to implement [list.Item].
type personaItem struct {
	persona models.Persona
	voted   bool
}

func (i personaItem) FilterValue() string { return i.persona.FullName() }
func (i personaItem) Title() string {
	if i.voted {
		return i.persona.FullName() + " ✓"
	}
	return i.persona.FullName()
}
func (i personaItem) Description() string {
	desc := fmt.Sprintf("%d • %s", i.persona.Age, i.persona.District)
	if i.persona.University != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.persona.University)
	}
	return fmt.Sprintf("%s • %s", desc, formatter.PercentLabel(i.persona.Tally()))
}

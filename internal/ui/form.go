package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/models"
)

// formModel holds one text input per [form.Fields] entry plus the terms checkbox,
// which sits at focus index len(inputs).
type formModel struct {
	inputs       []textinput.Model
	focus        int
	acknowledged bool
	editing      *models.Persona
	errs         map[string]string
}

func newFormModel(in form.Input, editing *models.Persona) formModel {
	inputs := make([]textinput.Model, len(form.Fields))
	for i, field := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.Label
		ti.CharLimit = 64
		if field.Key == form.FieldStory {
			ti.CharLimit = 1000
		}
		ti.Width = 60
		ti.SetValue(in.Get(field.Key))
		inputs[i] = ti
	}

	f := formModel{inputs: inputs, acknowledged: in.Acknowledged, editing: editing}
	f.focusOn(0)
	return f
}

// input collects the current values into a [form.Input].
func (f formModel) input() form.Input {
	var in form.Input
	for i, field := range form.Fields {
		in.Set(field.Key, f.inputs[i].Value())
	}
	in.Acknowledged = f.acknowledged
	return in
}

func (f *formModel) focusOn(i int) tea.Cmd {
	n := len(f.inputs) + 1
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	if f.focus < len(f.inputs) {
		return f.inputs[f.focus].Focus()
	}
	return nil
}

func (f formModel) onTerms() bool { return f.focus == len(f.inputs) }

// cycle steps the focused field through its enumeration when it has one.
func (f *formModel) cycle(step int) {
	if f.onTerms() {
		return
	}

	var options []string
	switch form.Fields[f.focus].Key {
	case form.FieldDistrict:
		options = models.Districts
	case form.FieldUniversity:
		options = models.Universities
	default:
		return
	}

	ti := &f.inputs[f.focus]
	ti.SetValue(models.Cycle(options, ti.Value(), step))
	ti.CursorEnd()
}

func (f *formModel) update(msg tea.Msg) tea.Cmd {
	if f.onTerms() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/formatter"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ListView:
		body = m.renderList()
	case DetailView:
		body = m.renderDetail()
	case FormView:
		body = m.renderForm()
	case ConfirmDeleteView:
		body = m.renderConfirm()
	}
	return body + m.renderStatus()
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return "\n" + styles.err.Render(shared.Describe(m.err))
	case m.notice != "":
		return "\n" + styles.ok.Render(m.notice)
	}
	return ""
}

func (m *Model) renderList() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(styles.help.Render("Loading directory...") + "\n")
	}
	if m.searching || m.filter.Search != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString(styles.help.Render(filterSummary(m.filter)) + "\n\n")

	if len(m.list.Items()) == 0 && !m.loading {
		if m.filter.IsZero() {
			b.WriteString(styles.warn.Render("No personas yet. Press a to add one.") + "\n")
		} else {
			b.WriteString(styles.warn.Render("No personas match the current filters.") + "\n")
		}
	} else {
		b.WriteString(m.list.View() + "\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.district, m.keys.university, m.keys.clear, m.keys.create, m.keys.reload, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	p, ok := m.ctrl.Find(m.selected)
	if !ok {
		return styles.warn.Render("That persona is no longer listed.") + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(p.FullName()) + "\n")
	b.WriteString(detailRow("Age", fmt.Sprintf("%d", p.Age)))
	b.WriteString(detailRow("District", p.District))
	if p.University != "" {
		b.WriteString(detailRow("University", p.University))
	}
	if p.InstagramHandle != "" {
		b.WriteString(detailRow("Instagram", p.InstagramHandle))
	}
	b.WriteString("\n" + styles.story.Render(p.Story) + "\n\n")
	b.WriteString(renderTally(p.Tally()) + "\n\n")

	helpKeys := []key.Binding{}
	switch {
	case m.busy(p.ID):
		b.WriteString(styles.help.Render("Working...") + "\n")
	case m.ctrl.HasVoted(m.ctx, p.ID):
		b.WriteString(styles.ok.Render("You already voted for this persona.") + "\n")
		helpKeys = append(helpKeys, m.keys.edit, m.keys.remove)
	default:
		helpKeys = append(helpKeys, m.keys.truth, m.keys.lie, m.keys.edit, m.keys.remove)
	}

	helpKeys = append(helpKeys, m.keys.back, m.keys.quit)
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderForm() string {
	var b strings.Builder

	title := "New persona"
	if m.form.editing != nil {
		title = "Edit " + m.form.editing.FullName()
	}
	b.WriteString(styles.title.Render(title) + "\n")

	for i, field := range form.Fields {
		label := field.Label
		if field.Required {
			label += "*"
		}
		b.WriteString(styles.label.Render(label) + " " + m.form.inputs[i].View() + "\n")
		if msg, ok := m.form.errs[field.Key]; ok {
			b.WriteString(strings.Repeat(" ", 13) + styles.err.Render(msg) + "\n")
		} else if hint := fieldHint(field.Key, m.form.inputs[i].Value()); hint != "" {
			b.WriteString(strings.Repeat(" ", 13) + styles.help.Render(hint) + "\n")
		}
	}

	box := "[ ]"
	if m.form.acknowledged {
		box = "[x]"
	}
	terms := box + " I accept the terms and confirm this story is fictional"
	if m.form.onTerms() {
		terms = styles.ok.Render(terms)
	}
	b.WriteString("\n" + terms + "\n")
	if msg, ok := m.form.errs[form.FieldTerms]; ok && !m.form.acknowledged {
		b.WriteString(styles.err.Render(msg) + "\n")
	}

	if m.saving() {
		b.WriteString("\n" + styles.help.Render("Saving...") + "\n")
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.cycle, m.keys.terms, m.keys.submit, m.keys.back}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderConfirm() string {
	name := m.selected
	if p, ok := m.ctrl.Find(m.selected); ok {
		name = p.FullName()
	}
	title := styles.warn.Render(fmt.Sprintf("Delete %s? This cannot be undone.", name))
	return fmt.Sprintf("%s\n\n%s", title, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

// fieldHint flags a university typed outside the suggestions. It is a hint, not an error.
func fieldHint(key, value string) string {
	value = strings.TrimSpace(value)
	if key != form.FieldUniversity || value == "" || models.IsUniversity(value) {
		return ""
	}
	return "Not a listed university (ctrl+n/ctrl+p to pick one)"
}

func detailRow(label, value string) string {
	return styles.label.Render(label) + " " + value + "\n"
}

// renderTally draws the truth/lie split, or a notice when nobody voted yet.
func renderTally(t models.Tally) string {
	truth, ok := t.PercentTruth()
	if !ok {
		return styles.help.Render(formatter.PercentLabel(t))
	}
	lie, _ := t.PercentLie()

	const width = 30
	filled := truth * width / 100
	bar := styles.ok.Render(strings.Repeat("█", filled)) + styles.err.Render(strings.Repeat("█", width-filled))
	return fmt.Sprintf("%s\n%d%% truth (%d) • %d%% lie (%d)", bar, truth, t.Truth, lie, t.Lie)
}

func filterSummary(f directory.Filter) string {
	district, university := f.District, f.University
	if district == "" {
		district = "any"
	}
	if university == "" {
		university = "any"
	}
	return fmt.Sprintf("district: %s • university: %s", district, university)
}

package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	FormView
	ConfirmDeleteView
)

// newEntry is the in-flight key of a create, which has no id yet.
const newEntry = ""

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	ctrl      *directory.Controller
	view      ViewState
	width     int
	height    int
	list      list.Model
	search    textinput.Model
	searching bool
	filter    directory.Filter
	selected  string
	form      formModel
	loading   bool
	notice    string
	err       error
	help      help.Model
	keys      keyMap

	// inflight holds the ids whose command was handed to bubbletea but has not reported back.
	inflight map[string]bool
	events   chan directory.Event
}

// NewModel creates a new TUI model driving ctrl.
func NewModel(ctx context.Context, ctrl *directory.Controller) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Personas"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search names"
	search.CharLimit = 64

	events := make(chan directory.Event, 32)
	ctrl.Subscribe(events)

	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		view:     ListView,
		list:     l,
		search:   search,
		help:     help.New(),
		keys:     newKeyMap(),
		inflight: map[string]bool{},
		events:   events,
	}
}

// Init loads the directory and starts listening for controller events.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.load(), m.listen())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.notice = ""
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleResult(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleResult(msg Msg) (tea.Model, tea.Cmd) {
	if e, ok := msg.data.(directory.Event); ok {
		return m.handleEvent(e)
	}

	res, _ := msg.data.(result)
	if msg.kind != MsgLoaded {
		delete(m.inflight, res.id)
	}

	switch msg.kind {
	case MsgLoaded:
		m.loading = false
		m.err = res.err

	case MsgSaved:
		var validationErr *shared.ValidationError
		if errors.As(res.err, &validationErr) {
			m.form.errs = validationErr.Fields
			return m, nil
		}
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.selected = res.persona.ID
		m.view = DetailView
		m.notice = "Saved."

	case MsgDeleted:
		if res.err != nil {
			m.err = res.err
			m.view = DetailView
			return m, nil
		}
		m.err = nil
		m.selected = ""
		m.view = ListView
		m.notice = "Deleted."

	case MsgVoted:
		m.err = res.err
		if res.err == nil {
			m.notice = "Vote recorded."
		}
	}

	m.refreshList()
	return m, nil
}

// handleEvent applies a change the controller committed, whoever started it, then waits
// for the next one.
func (m *Model) handleEvent(e directory.Event) (tea.Model, tea.Cmd) {
	switch e.Kind {
	case directory.EventFailed:
		return m, m.listen()
	case directory.EventDeleted:
		if e.ID == m.selected && (m.view == DetailView || m.view == ConfirmDeleteView) {
			m.selected = ""
			m.view = ListView
			m.notice = "Deleted."
		}
	}

	m.refreshList()
	return m, m.listen()
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.filter.Search = m.search.Value()
		m.refreshList()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.district):
		m.filter.District = models.Cycle(models.Districts, m.filter.District, step(msg, "D"))
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.university):
		m.filter.University = models.Cycle(models.Universities, m.filter.University, step(msg, "U"))
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.filter = directory.Filter{}
		m.search.SetValue("")
		m.refreshList()
		return m, nil
	case key.Matches(msg, m.keys.reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.create):
		return m, m.openForm(nil)
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.list.SelectedItem().(personaItem); ok {
			m.selected = item.persona.ID
			m.err = nil
			m.view = DetailView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, listed := m.ctrl.Find(m.selected)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.truth):
		return m, m.vote(models.Truth)
	case key.Matches(msg, m.keys.lie):
		return m, m.vote(models.Lie)
	case key.Matches(msg, m.keys.edit):
		if !listed || m.busy(p.ID) {
			return m, nil
		}
		return m, m.openForm(&p)
	case key.Matches(msg, m.keys.remove):
		if !listed || m.busy(p.ID) {
			return m, nil
		}
		m.view = ConfirmDeleteView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.err = nil
		if m.form.editing != nil {
			m.view = DetailView
		} else {
			m.view = ListView
		}
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.terms):
		m.form.acknowledged = !m.form.acknowledged
		return m, nil
	case key.Matches(msg, m.keys.cycle):
		m.form.cycle(step(msg, "ctrl+p"))
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.form.focusOn(m.form.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.form.focusOn(m.form.focus - 1)
	case msg.Type == tea.KeyEnter:
		if m.form.focus == len(m.form.inputs) {
			return m, m.submit()
		}
		return m, m.form.focusOn(m.form.focus + 1)
	case msg.Type == tea.KeySpace && m.form.onTerms():
		m.form.acknowledged = !m.form.acknowledged
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = DetailView
		return m, m.remove(m.selected)
	case key.Matches(msg, m.keys.no):
		m.view = DetailView
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// refreshList rebuilds the list items from the controller's filtered view.
func (m *Model) refreshList() {
	voted := map[string]bool{}
	for _, id := range m.ctrl.Voted(m.ctx) {
		voted[id] = true
	}

	personas := m.ctrl.View(m.filter)
	items := make([]list.Item, len(personas))
	for i, p := range personas {
		items[i] = personaItem{persona: p, voted: voted[p.ID]}
	}
	m.list.SetItems(items)
}

func (m *Model) openForm(editing *models.Persona) tea.Cmd {
	in := form.Input{}
	if editing != nil {
		in = form.FromPersona(*editing)
	}
	m.form = newFormModel(in, editing)
	m.err = nil
	m.view = FormView
	return textinput.Blink
}

// submit validates the form locally and only reaches the controller when it passes.
func (m *Model) submit() tea.Cmd {
	if m.saving() {
		return nil
	}

	draft, err := form.Submit(m.form.input(), m.form.editing)
	if err != nil {
		var validationErr *shared.ValidationError
		if errors.As(err, &validationErr) {
			m.form.errs = validationErr.Fields
		}
		return nil
	}
	m.form.errs = nil

	if m.form.editing == nil {
		m.inflight[newEntry] = true
		return func() tea.Msg {
			p, err := m.ctrl.Create(m.ctx, draft)
			return savedMsg(newEntry, p, err)
		}
	}

	id := m.form.editing.ID
	m.inflight[id] = true
	return func() tea.Msg {
		p, err := m.ctrl.Update(m.ctx, id, draft)
		return savedMsg(id, p, err)
	}
}

func (m *Model) saving() bool {
	if m.form.editing != nil {
		return m.busy(m.form.editing.ID)
	}
	return m.busy(newEntry)
}

// busy reports whether a call on id was requested and has not reported back yet. The
// controller only claims id once the command runs, so the model tracks the gap itself.
func (m *Model) busy(id string) bool {
	if m.inflight[id] {
		return true
	}
	if id == newEntry {
		return m.ctrl.Creating()
	}
	return m.ctrl.Pending(id)
}

// canVote reports whether the vote keys are live for id.
func (m *Model) canVote(id string) bool {
	return id != "" && !m.busy(id) && !m.ctrl.HasVoted(m.ctx, id)
}

func (m *Model) vote(choice models.Choice) tea.Cmd {
	id := m.selected
	if !m.canVote(id) {
		return nil
	}
	m.inflight[id] = true
	return func() tea.Msg {
		p, err := m.ctrl.Vote(m.ctx, id, choice)
		return votedMsg(id, p, err)
	}
}

func (m *Model) remove(id string) tea.Cmd {
	if m.busy(id) {
		return nil
	}
	m.inflight[id] = true
	return func() tea.Msg {
		err := m.ctrl.Delete(m.ctx, id, func(models.Persona) bool { return true })
		return deletedMsg(id, err)
	}
}

// listen waits for the next controller event. It gives up once ctx is done.
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.events:
			return eventMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg(m.ctrl.Load(m.ctx))
	}
}

// step is -1 when msg is the reverse key, 1 otherwise.
func step(msg tea.KeyMsg, reverse string) int {
	if msg.String() == reverse {
		return -1
	}
	return 1
}

package ui

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/ledger"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/services"
	tu "github.com/desertthunder/personas/internal/testing"
)

func newTestModel(t *testing.T) (*Model, *tu.FakeDirectory) {
	t.Helper()
	fake := tu.NewFakeDirectory(t, tu.SamplePersonas()...)
	ctrl := directory.NewController(services.NewDirectoryService(fake.BaseURL(), nil), ledger.NewMemory(), log.New(&strings.Builder{}))
	t.Cleanup(ctrl.Close)

	m := NewModel(context.Background(), ctrl)
	run(t, m, m.Init())
	return m, fake
}

// run executes cmd synchronously and feeds its message back into m. Batches run in order.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(t, m, c)
		}
		return
	}
	if msg == nil {
		return
	}
	_, _ = m.Update(msg)
}

// press sends k to m and returns the command it produced without running it.
func press(t *testing.T, m *Model, k tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func itemID(m *Model, i int) string {
	return m.list.Items()[i].(personaItem).persona.ID
}

// fillForm opens the create form with a valid persona and the terms accepted.
func fillForm(t *testing.T, m *Model) {
	t.Helper()
	press(t, m, runes("a"))
	values := map[string]string{
		form.FieldFirstNames: "Rosa",
		form.FieldLastNames:  "Flores",
		form.FieldAge:        "28",
		form.FieldDistrict:   "Lince",
		form.FieldStory:      "Nunca paga.",
	}
	for i, field := range form.Fields {
		m.form.inputs[i].SetValue(values[field.Key])
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.form.acknowledged {
		t.Fatal("expected ctrl+t to accept the terms")
	}
}

func TestModel(t *testing.T) {
	t.Run("Init Loads Directory", func(t *testing.T) {
		m, _ := newTestModel(t)

		if m.loading {
			t.Error("expected loading to finish")
		}
		if len(m.list.Items()) != 3 {
			t.Errorf("expected 3 items, got %d", len(m.list.Items()))
		}
		if !strings.Contains(m.View(), "Ana Gomez") {
			t.Errorf("expected view to list Ana Gomez, got:\n%s", m.View())
		}
	})

	t.Run("Load Failure Shows Notice", func(t *testing.T) {
		fake := tu.NewFakeDirectory(t)
		fake.Fail(tu.RouteList, http.StatusInternalServerError, "db down")
		ctrl := directory.NewController(services.NewDirectoryService(fake.BaseURL(), nil), nil, log.New(&strings.Builder{}))

		m := NewModel(context.Background(), ctrl)
		run(t, m, m.Init())

		if m.err == nil {
			t.Fatal("expected load error")
		}
		if !strings.Contains(m.View(), "db down") {
			t.Errorf("expected server message in view, got:\n%s", m.View())
		}
		if len(m.list.Items()) != 0 {
			t.Errorf("expected empty list, got %d items", len(m.list.Items()))
		}
	})

	t.Run("District Key Narrows List", func(t *testing.T) {
		m, _ := newTestModel(t)

		for m.filter.District != "Surco" {
			press(t, m, runes("d"))
		}
		if len(m.list.Items()) != 1 || itemID(m, 0) != "2" {
			t.Fatalf("expected only persona 2 in Surco, got %d items", len(m.list.Items()))
		}

		press(t, m, runes("c"))
		if !m.filter.IsZero() {
			t.Errorf("expected filters cleared, got %+v", m.filter)
		}
		if len(m.list.Items()) != 3 {
			t.Errorf("expected 3 items after clearing, got %d", len(m.list.Items()))
		}
	})

	t.Run("Search Filters By Name", func(t *testing.T) {
		m, _ := newTestModel(t)

		press(t, m, runes("/"))
		if !m.searching {
			t.Fatal("expected search box to open")
		}
		press(t, m, runes("luc"))
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.searching {
			t.Error("expected enter to close the search box")
		}
		if m.filter.Search != "luc" {
			t.Errorf("expected search 'luc', got %q", m.filter.Search)
		}
		if len(m.list.Items()) != 1 || itemID(m, 0) != "3" {
			t.Errorf("expected only persona 3, got %d items", len(m.list.Items()))
		}
	})

	t.Run("Vote Once", func(t *testing.T) {
		m, fake := newTestModel(t)

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != DetailView || m.selected != "1" {
			t.Fatalf("expected detail of persona 1, got view %d selected %q", m.view, m.selected)
		}

		run(t, m, press(t, m, runes("t")))
		if m.err != nil {
			t.Fatalf("unexpected error: %v", m.err)
		}
		if p, _ := m.ctrl.Find("1"); p.TruthVotes != 3 {
			t.Errorf("expected 3 truth votes, got %d", p.TruthVotes)
		}
		if !strings.Contains(m.View(), "already voted") {
			t.Errorf("expected already voted notice, got:\n%s", m.View())
		}

		if cmd := press(t, m, runes("l")); cmd != nil {
			t.Error("second vote must not start a call")
		}
		if calls := fake.Calls(tu.RouteVote); calls != 1 {
			t.Errorf("expected 1 vote call, got %d", calls)
		}
		if title := m.list.Items()[0].(personaItem).Title(); !strings.Contains(title, "✓") {
			t.Errorf("expected voted marker in %q", title)
		}
	})

	t.Run("Vote Keys Ignored Until Command Reports", func(t *testing.T) {
		m, fake := newTestModel(t)
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		first := press(t, m, runes("t"))
		if first == nil {
			t.Fatal("expected a vote command")
		}
		if cmd := press(t, m, runes("l")); cmd != nil {
			t.Error("expected no second vote command while the first is outstanding")
		}
		if !strings.Contains(m.View(), "Working...") {
			t.Errorf("expected working notice, got:\n%s", m.View())
		}

		run(t, m, first)
		if calls := fake.Calls(tu.RouteVote); calls != 1 {
			t.Errorf("expected 1 vote call, got %d", calls)
		}
		if m.busy("1") {
			t.Error("expected persona 1 to be idle after the result")
		}
	})

	t.Run("Form Blocks Invalid Submission", func(t *testing.T) {
		m, fake := newTestModel(t)

		press(t, m, runes("a"))
		if m.view != FormView {
			t.Fatalf("expected form view, got %d", m.view)
		}

		if cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
			t.Error("expected invalid form not to start a call")
		}
		for _, key := range []string{form.FieldFirstNames, form.FieldTerms} {
			if _, ok := m.form.errs[key]; !ok {
				t.Errorf("expected error for %s, got %v", key, m.form.errs)
			}
		}
		if calls := fake.Calls(tu.RouteCreate); calls != 0 {
			t.Errorf("expected no create call, got %d", calls)
		}
	})

	t.Run("Form Creates Persona", func(t *testing.T) {
		m, fake := newTestModel(t)
		fillForm(t, m)

		run(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}))

		if m.err != nil {
			t.Fatalf("unexpected error: %v", m.err)
		}
		if m.view != DetailView {
			t.Errorf("expected detail view after save, got %d", m.view)
		}
		if len(fake.Personas()) != 4 || len(m.list.Items()) != 4 {
			t.Errorf("expected 4 personas, got server %d list %d", len(fake.Personas()), len(m.list.Items()))
		}
		p, ok := m.ctrl.Find(m.selected)
		if !ok || p.FullName() != "Rosa Flores" {
			t.Errorf("expected Rosa Flores selected, got %+v", p)
		}
	})

	t.Run("Double Submit Creates Once", func(t *testing.T) {
		m, fake := newTestModel(t)
		fillForm(t, m)

		first := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
		second := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
		if first == nil {
			t.Fatal("expected a create command")
		}
		if second != nil {
			t.Error("expected no second create command while the first is outstanding")
		}
		if !strings.Contains(m.View(), "Saving...") {
			t.Errorf("expected saving notice, got:\n%s", m.View())
		}

		run(t, m, first)
		run(t, m, second)

		if calls := fake.Calls(tu.RouteCreate); calls != 1 {
			t.Errorf("expected 1 create call, got %d", calls)
		}
		if len(fake.Personas()) != 4 || len(m.ctrl.Entries()) != 4 {
			t.Errorf("expected 4 personas, got server %d list %d", len(fake.Personas()), len(m.ctrl.Entries()))
		}
		if m.saving() {
			t.Error("expected the form to be idle after the result")
		}
	})

	t.Run("Failed Save Can Be Retried", func(t *testing.T) {
		m, fake := newTestModel(t)
		fillForm(t, m)
		fake.Fail(tu.RouteCreate, http.StatusInternalServerError, "db down")

		run(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}))
		if m.err == nil || m.view != FormView {
			t.Fatalf("expected error on the form, got err %v view %d", m.err, m.view)
		}

		fake.Recover(tu.RouteCreate)
		run(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}))
		if m.err != nil {
			t.Fatalf("unexpected error on retry: %v", m.err)
		}
		if len(fake.Personas()) != 4 {
			t.Errorf("expected 4 personas after retry, got %d", len(fake.Personas()))
		}
	})

	t.Run("District Selector Cycles", func(t *testing.T) {
		m, _ := newTestModel(t)

		press(t, m, runes("a"))
		for m.form.focus < len(form.Fields) && form.Fields[m.form.focus].Key != form.FieldDistrict {
			press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		}
		press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

		if m.form.input().District == "" {
			t.Error("expected ctrl+n to pick a district")
		}
	})

	t.Run("Unlisted University Shows Hint", func(t *testing.T) {
		m, _ := newTestModel(t)
		press(t, m, runes("a"))

		for i, field := range form.Fields {
			if field.Key == form.FieldUniversity {
				m.form.inputs[i].SetValue("Academia del barrio")
			}
		}
		if !strings.Contains(m.View(), "Not a listed university") {
			t.Errorf("expected university hint, got:\n%s", m.View())
		}

		for i, field := range form.Fields {
			if field.Key == form.FieldUniversity {
				m.form.inputs[i].SetValue(models.Universities[0])
			}
		}
		if strings.Contains(m.View(), "Not a listed university") {
			t.Error("expected no hint for a listed university")
		}
	})

	t.Run("Edit Keeps Counters", func(t *testing.T) {
		m, fake := newTestModel(t)

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		press(t, m, runes("e"))
		if m.view != FormView || m.form.editing == nil {
			t.Fatalf("expected edit form, got view %d", m.view)
		}
		if m.form.input().FirstNames != "Ana" {
			t.Errorf("expected form pre-filled with Ana, got %q", m.form.input().FirstNames)
		}
		if m.form.acknowledged {
			t.Error("expected terms to need accepting again")
		}

		m.form.acknowledged = true
		run(t, m, press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}))

		if m.err != nil {
			t.Fatalf("unexpected error: %v", m.err)
		}
		stored := fake.Personas()[0]
		if stored.TruthVotes != 2 || stored.LieVotes != 2 {
			t.Errorf("expected counters 2/2 kept, got %d/%d", stored.TruthVotes, stored.LieVotes)
		}
	})

	t.Run("Delete Requires Confirmation", func(t *testing.T) {
		m, fake := newTestModel(t)

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		press(t, m, runes("x"))
		if m.view != ConfirmDeleteView {
			t.Fatalf("expected confirm view, got %d", m.view)
		}
		if !strings.Contains(m.View(), "Delete Ana Gomez?") {
			t.Errorf("expected prompt naming the persona, got:\n%s", m.View())
		}

		press(t, m, runes("n"))
		if m.view != DetailView {
			t.Errorf("expected detail view after declining, got %d", m.view)
		}
		if calls := fake.Calls(tu.RouteDelete); calls != 0 {
			t.Errorf("expected no delete call, got %d", calls)
		}

		press(t, m, runes("x"))
		run(t, m, press(t, m, runes("y")))
		if m.view != ListView {
			t.Errorf("expected list view after delete, got %d", m.view)
		}
		if len(m.list.Items()) != 2 || len(fake.Personas()) != 2 {
			t.Errorf("expected 2 personas, got list %d server %d", len(m.list.Items()), len(fake.Personas()))
		}
	})

	t.Run("Controller Events Refresh The View", func(t *testing.T) {
		m, _ := newTestModel(t)
		ctx := context.Background()
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if _, err := m.ctrl.Vote(ctx, "1", models.Truth); err != nil {
			t.Fatalf("vote: %v", err)
		}
		run(t, m, m.listen())
		if title := m.list.Items()[0].(personaItem).Title(); !strings.Contains(title, "✓") {
			t.Errorf("expected voted marker after the event, got %q", title)
		}

		if err := m.ctrl.Delete(ctx, "1", func(models.Persona) bool { return true }); err != nil {
			t.Fatalf("delete: %v", err)
		}
		run(t, m, m.listen())
		if m.view != ListView || m.selected != "" {
			t.Errorf("expected the detail of a deleted persona to close, got view %d selected %q", m.view, m.selected)
		}
		if len(m.list.Items()) != 2 {
			t.Errorf("expected 2 items, got %d", len(m.list.Items()))
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _ := newTestModel(t)

		cmd := press(t, m, runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected QuitMsg")
		}
	})
}

package directory

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
)

// MockDirectory is an in-memory [services.Directory] that counts calls and can be made to
// fail or to block until released.
type MockDirectory struct {
	mu       sync.Mutex
	personas []models.Persona
	calls    map[string]int
	errs     map[string]error
	replyIDs map[string]string
	gate     chan struct{}
	entered  chan string
	nextID   int
}

var _ services.Directory = (*MockDirectory)(nil)

func NewMockDirectory(personas ...models.Persona) *MockDirectory {
	return &MockDirectory{
		personas: slices.Clone(personas),
		calls:    map[string]int{},
		errs:     map[string]error{},
		replyIDs: map[string]string{},
	}
}

// FailWith makes op return err until cleared with a nil err.
func (m *MockDirectory) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
		return
	}
	m.errs[op] = err
}

// ReplyWithID makes op answer with a persona carrying id, whatever it stored.
func (m *MockDirectory) ReplyWithID(op, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replyIDs[op] = id
}

func (m *MockDirectory) reply(op string, p models.Persona) *models.Persona {
	if id, ok := m.replyIDs[op]; ok {
		p.ID = id
	}
	return &p
}

// Block makes every call wait for Release. Entered receives the op name as each call starts.
func (m *MockDirectory) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	m.entered = make(chan string, 16)
}

func (m *MockDirectory) Entered() <-chan string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entered
}

func (m *MockDirectory) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

func (m *MockDirectory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockDirectory) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	gate, entered, err := m.gate, m.entered, m.errs[op]
	m.mu.Unlock()

	if gate != nil {
		entered <- op
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockDirectory) index(id string) int {
	return slices.IndexFunc(m.personas, func(p models.Persona) bool { return p.ID == id })
}

func notFound() error { return &shared.HTTPError{Status: 404, Message: "Persona no encontrada"} }

func (m *MockDirectory) List(ctx context.Context) ([]models.Persona, error) {
	if err := m.enter(ctx, "list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.personas), nil
}

func (m *MockDirectory) Get(ctx context.Context, id string) (*models.Persona, error) {
	if err := m.enter(ctx, "get"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return nil, notFound()
	}
	p := m.personas[i]
	return &p, nil
}

func (m *MockDirectory) Create(ctx context.Context, draft models.Draft) (*models.Persona, error) {
	if err := m.enter(ctx, "create"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p := draft.WithID("new-" + strconv.Itoa(m.nextID))
	m.personas = append(m.personas, p)
	return m.reply("create", p), nil
}

func (m *MockDirectory) Update(ctx context.Context, id string, draft models.Draft) (*models.Persona, error) {
	if err := m.enter(ctx, "update"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return nil, notFound()
	}
	m.personas[i] = draft.WithID(id)
	return m.reply("update", m.personas[i]), nil
}

func (m *MockDirectory) Remove(ctx context.Context, id string) error {
	if err := m.enter(ctx, "remove"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return notFound()
	}
	m.personas = slices.Delete(m.personas, i, i+1)
	return nil
}

func (m *MockDirectory) Vote(ctx context.Context, id string, choice models.Choice) (*models.Persona, error) {
	if err := m.enter(ctx, "vote"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return nil, notFound()
	}
	if choice == models.Truth {
		m.personas[i].TruthVotes++
	} else {
		m.personas[i].LieVotes++
	}
	return m.reply("vote", m.personas[i]), nil
}

func (m *MockDirectory) Search(ctx context.Context, params services.SearchParams) ([]models.Persona, error) {
	if err := m.enter(ctx, "search"); err != nil {
		return nil, err
	}
	f := Filter{Search: params.Search, District: params.District, University: params.University}
	m.mu.Lock()
	defer m.mu.Unlock()
	return FilteredView(m.personas, f), nil
}

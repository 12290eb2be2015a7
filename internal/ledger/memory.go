package ledger

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps marks for the life of the process.
type Memory struct {
	mu    sync.Mutex
	order []string
	seen  map[string]bool
}

func NewMemory(ids ...string) *Memory {
	m := &Memory{seen: map[string]bool{}}
	for _, id := range ids {
		m.MarkVoted(context.Background(), id)
	}
	return m
}

func (m *Memory) HasVoted(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[id]
}

func (m *Memory) MarkVoted(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return
	}
	m.seen[id] = true
	m.order = append(m.order, id)
}

func (m *Memory) Voted(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.order == nil {
		return []string{}
	}
	return slices.Clone(m.order)
}

func (m *Memory) Close() error { return nil }

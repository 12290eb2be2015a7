// package directory holds the in-memory persona list and the operations that change it
package directory

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/ledger"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
)

// createPrefix marks pending-guard keys for create, which has no target id yet.
const createPrefix = "\x00create:"

// Controller owns the authoritative in-memory list of personas and keeps it in step with
// the remote directory.
//
// The mutex guards local state only and is never held across a remote call. Each target
// id can have at most one operation in flight; a second one fails with [shared.ErrPending].
type Controller struct {
	dir    services.Directory
	ledger ledger.Ledger
	logger *log.Logger

	mu      sync.Mutex
	entries []models.Persona
	loaded  bool
	pending map[string]struct{}
	closed  bool
	events  chan<- Event
}

// NewController creates a controller with an empty list. Call [Controller.Load] to fill it.
func NewController(dir services.Directory, l ledger.Ledger, logger *log.Logger) *Controller {
	if l == nil {
		l = ledger.NewMemory()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		dir:     dir,
		ledger:  l,
		logger:  logger,
		entries: []models.Persona{},
		pending: map[string]struct{}{},
	}
}

// Subscribe sends every later [Event] to ch. Sends never block: a full channel drops the event.
func (c *Controller) Subscribe(ch chan<- Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = ch
}

// Close discards the results of every call still in flight; they return [shared.ErrClosed].
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.events = nil
}

// Entries returns a copy of the current list.
func (c *Controller) Entries() []models.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// View returns the entries that match f, in list order.
func (c *Controller) View(f Filter) []models.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilteredView(c.entries, f)
}

// Find returns the persona with id from the current list.
func (c *Controller) Find(id string) (models.Persona, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.entries[i], true
	}
	return models.Persona{}, false
}

// Loaded reports whether a load has succeeded at least once.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Pending reports whether an operation on id is in flight.
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Creating reports whether any create is in flight.
func (c *Controller) Creating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.pending {
		if strings.HasPrefix(key, createPrefix) {
			return true
		}
	}
	return false
}

// HasVoted reports whether this client already voted on id.
func (c *Controller) HasVoted(ctx context.Context, id string) bool {
	return c.ledger.HasVoted(ctx, id)
}

// Voted lists the ids this client has voted on.
func (c *Controller) Voted(ctx context.Context) []string {
	return c.ledger.Voted(ctx)
}

// Load replaces the whole list with the directory's current contents.
//
// On failure the previous list is kept (empty before the first success).
func (c *Controller) Load(ctx context.Context) error {
	personas, err := c.dir.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return shared.ErrClosed
	}
	if err != nil {
		return c.fail("load", "", err)
	}

	c.entries = slices.Clone(personas)
	c.loaded = true
	c.logger.Info("loaded personas", "count", len(personas))
	c.publish(Event{Kind: EventLoaded, Op: "load"})
	return nil
}

// Create stores draft remotely and appends the stored persona to the end of the list. A reply
// whose id is already listed replaces that entry instead, so ids stay unique.
//
// Submitting a draft identical to one still in flight fails with [shared.ErrPending];
// different drafts may be created concurrently.
func (c *Controller) Create(ctx context.Context, draft models.Draft) (*models.Persona, error) {
	key := createKey(draft)
	if err := c.begin(key); err != nil {
		return nil, err
	}

	persona, err := c.dir.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
	if c.closed {
		return nil, shared.ErrClosed
	}
	if err != nil {
		return nil, c.fail("create", "", err)
	}

	if i := c.index(persona.ID); i >= 0 {
		c.entries[i] = *persona
	} else {
		c.entries = append(c.entries, *persona)
	}
	c.logger.Info("created persona", "id", persona.ID, "name", persona.FullName())
	c.publish(Event{Kind: EventCreated, Op: "create", ID: persona.ID, Persona: persona})
	return persona, nil
}

// Update replaces persona id remotely and swaps the stored result into the list at the same
// position. An id missing from the list is still sent; the list is then left as is.
// A reply carrying another id fails with [shared.ErrProtocol] and changes nothing.
func (c *Controller) Update(ctx context.Context, id string, draft models.Draft) (*models.Persona, error) {
	if err := c.begin(id); err != nil {
		return nil, err
	}

	persona, err := c.dir.Update(ctx, id, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if c.closed {
		return nil, shared.ErrClosed
	}
	if err != nil {
		return nil, c.fail("update", id, err)
	}
	if persona.ID != id {
		return nil, c.fail("update", id, mismatch(id, persona.ID))
	}

	c.replace(*persona)
	c.logger.Info("updated persona", "id", id)
	c.publish(Event{Kind: EventUpdated, Op: "update", ID: id, Persona: persona})
	return persona, nil
}

// Delete removes persona id after confirm approves it. A nil confirm, or one that returns
// false, fails with [shared.ErrNotConfirmed] and nothing is sent.
//
// confirm receives the listed persona, or one carrying only the id when it is not listed.
func (c *Controller) Delete(ctx context.Context, id string, confirm func(models.Persona) bool) error {
	target, ok := c.Find(id)
	if !ok {
		target = models.Persona{ID: id}
	}
	if confirm == nil || !confirm(target) {
		return fmt.Errorf("%w: delete %s", shared.ErrNotConfirmed, id)
	}

	if err := c.begin(id); err != nil {
		return err
	}

	err := c.dir.Remove(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if c.closed {
		return shared.ErrClosed
	}
	if err != nil {
		return c.fail("delete", id, err)
	}

	if i := c.index(id); i >= 0 {
		c.entries = slices.Delete(c.entries, i, i+1)
	}
	c.logger.Info("deleted persona", "id", id)
	c.publish(Event{Kind: EventDeleted, Op: "delete", ID: id})
	return nil
}

// Vote casts choice on persona id unless this client already voted on it, in which case
// it fails with [shared.ErrAlreadyVoted] before anything is sent.
//
// Once the call returns, id is marked in the ledger whatever the outcome, so a vote whose
// reply was lost is not cast twice.
func (c *Controller) Vote(ctx context.Context, id string, choice models.Choice) (*models.Persona, error) {
	if !choice.Valid() {
		return nil, fmt.Errorf("%w: unknown vote %q", shared.ErrInvalidArgument, choice)
	}
	if c.ledger.HasVoted(ctx, id) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlreadyVoted, id)
	}
	if err := c.begin(id); err != nil {
		return nil, err
	}

	persona, err := c.dir.Vote(ctx, id, choice)
	c.ledger.MarkVoted(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if c.closed {
		return nil, shared.ErrClosed
	}
	if err != nil {
		return nil, c.fail("vote", id, err)
	}
	if persona.ID != id {
		return nil, c.fail("vote", id, mismatch(id, persona.ID))
	}

	c.replace(*persona)
	c.logger.Info("voted", "id", id, "choice", choice)
	c.publish(Event{Kind: EventVoted, Op: "vote", ID: id, Persona: persona})
	return persona, nil
}

func mismatch(want, got string) error {
	return fmt.Errorf("%w: reply for %s carries id %q", shared.ErrProtocol, want, got)
}

func createKey(draft models.Draft) string {
	return fmt.Sprintf("%s%+v", createPrefix, draft)
}

// begin claims the pending slot for key.
func (c *Controller) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return shared.ErrClosed
	}
	if _, busy := c.pending[key]; busy {
		return shared.ErrPending
	}
	c.pending[key] = struct{}{}
	return nil
}

// The helpers below must be called with c.mu held.

func (c *Controller) index(id string) int {
	return slices.IndexFunc(c.entries, func(p models.Persona) bool { return p.ID == id })
}

func (c *Controller) replace(p models.Persona) {
	if i := c.index(p.ID); i >= 0 {
		c.entries[i] = p
	}
}

func (c *Controller) fail(op, id string, err error) error {
	c.logger.Warn("directory operation failed", "op", op, "id", id, "error", err)
	c.publish(Event{Kind: EventFailed, Op: op, ID: id, Err: err})
	return err
}

func (c *Controller) publish(e Event) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- e:
	default:
	}
}

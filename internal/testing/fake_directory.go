package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

// Route names accepted by [FakeDirectory.Fail] and [FakeDirectory.Calls].
const (
	RouteList   = "list"
	RouteGet    = "get"
	RouteCreate = "create"
	RouteUpdate = "update"
	RouteDelete = "delete"
	RouteVote   = "vote"
	RouteSearch = "search"
)

type failure struct {
	status  int
	message string
	raw     string
}

// FakeDirectory is an in-memory stand-in for the remote persona directory, served over httptest.
//
// Routes live under /api to mirror the real base URL; use [FakeDirectory.BaseURL].
type FakeDirectory struct {
	Server *httptest.Server

	mu       sync.Mutex
	personas []models.Persona
	calls    map[string]int
	failures map[string]failure
	requests []*http.Request
}

// NewFakeDirectory starts a fake directory seeded with personas and closes it when t ends.
func NewFakeDirectory(t *testing.T, personas ...models.Persona) *FakeDirectory {
	t.Helper()

	f := &FakeDirectory{
		personas: slices.Clone(personas),
		calls:    map[string]int{},
		failures: map[string]failure{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/personas", f.route(RouteList, f.list))
	mux.HandleFunc("GET /api/personas/search", f.route(RouteSearch, f.search))
	mux.HandleFunc("GET /api/personas/{id}", f.route(RouteGet, f.get))
	mux.HandleFunc("POST /api/personas", f.route(RouteCreate, f.create))
	mux.HandleFunc("PUT /api/personas/{id}", f.route(RouteUpdate, f.update))
	mux.HandleFunc("DELETE /api/personas/{id}", f.route(RouteDelete, f.remove))
	mux.HandleFunc("POST /api/personas/{id}/vote", f.route(RouteVote, f.vote))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the value to hand to services.NewDirectoryService.
func (f *FakeDirectory) BaseURL() string { return f.Server.URL + "/api" }

// Fail makes every later call to route answer with status and a failure envelope carrying message.
func (f *FakeDirectory) Fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: status, message: message}
}

// FailRaw makes every later call to route answer 200 with body written verbatim.
func (f *FakeDirectory) FailRaw(route, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: http.StatusOK, raw: body}
}

// Recover clears any failure configured for route.
func (f *FakeDirectory) Recover(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, route)
}

// Calls returns how many requests route has received.
func (f *FakeDirectory) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// Personas returns a copy of the stored personas.
func (f *FakeDirectory) Personas() []models.Persona {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.personas)
}

// LastRequest returns the most recent request received, or nil.
func (f *FakeDirectory) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *FakeDirectory) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[name]++
		f.requests = append(f.requests, r.Clone(r.Context()))
		fail, failing := f.failures[name]
		f.mu.Unlock()

		if failing {
			if fail.raw != "" {
				w.WriteHeader(fail.status)
				w.Write([]byte(fail.raw))
				return
			}
			writeEnvelope(w, fail.status, false, nil, fail.message)
			return
		}
		h(w, r)
	}
}

func (f *FakeDirectory) list(w http.ResponseWriter, r *http.Request) {
	personas := f.Personas()
	if personas == nil {
		personas = []models.Persona{}
	}
	writeEnvelope(w, http.StatusOK, true, personas, "")
}

func (f *FakeDirectory) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term, district, university := q.Get("search"), q.Get("distrito"), q.Get("universidad")

	matches := []models.Persona{}
	for _, p := range f.Personas() {
		if term != "" && !shared.ContainsFolded(p.FirstNames, term) && !shared.ContainsFolded(p.LastNames, term) {
			continue
		}
		if district != "" && p.District != district {
			continue
		}
		if university != "" && p.University != university {
			continue
		}
		matches = append(matches, p)
	}
	writeEnvelope(w, http.StatusOK, true, matches, "")
}

func (f *FakeDirectory) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.index(r.PathValue("id"))
	var p models.Persona
	if idx >= 0 {
		p = f.personas[idx]
	}
	f.mu.Unlock()

	if idx < 0 {
		writeEnvelope(w, http.StatusNotFound, false, nil, "Persona no encontrada")
		return
	}
	writeEnvelope(w, http.StatusOK, true, p, "")
}

func (f *FakeDirectory) create(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "JSON inválido")
		return
	}

	p := draft.WithID(shared.GenerateID())

	f.mu.Lock()
	f.personas = append(f.personas, p)
	f.mu.Unlock()

	writeEnvelope(w, http.StatusCreated, true, p, "Persona creada")
}

func (f *FakeDirectory) update(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "JSON inválido")
		return
	}

	f.mu.Lock()
	idx := f.index(r.PathValue("id"))
	var p models.Persona
	if idx >= 0 {
		p = draft.WithID(f.personas[idx].ID)
		f.personas[idx] = p
	}
	f.mu.Unlock()

	if idx < 0 {
		writeEnvelope(w, http.StatusNotFound, false, nil, "Persona no encontrada")
		return
	}
	writeEnvelope(w, http.StatusOK, true, p, "")
}

func (f *FakeDirectory) remove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.index(r.PathValue("id"))
	if idx >= 0 {
		f.personas = slices.Delete(f.personas, idx, idx+1)
	}
	f.mu.Unlock()

	if idx < 0 {
		writeEnvelope(w, http.StatusNotFound, false, nil, "Persona no encontrada")
		return
	}
	writeEnvelope(w, http.StatusOK, true, nil, "Persona eliminada")
}

func (f *FakeDirectory) vote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Vote string `json:"vote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, nil, "JSON inválido")
		return
	}

	f.mu.Lock()
	idx := f.index(r.PathValue("id"))
	var p models.Persona
	valid := true
	if idx >= 0 {
		switch strings.ToLower(body.Vote) {
		case "yala":
			f.personas[idx].TruthVotes++
		case "noyala":
			f.personas[idx].LieVotes++
		default:
			valid = false
		}
		p = f.personas[idx]
	}
	f.mu.Unlock()

	switch {
	case idx < 0:
		writeEnvelope(w, http.StatusNotFound, false, nil, "Persona no encontrada")
	case !valid:
		writeEnvelope(w, http.StatusBadRequest, false, nil, "Voto inválido")
	default:
		writeEnvelope(w, http.StatusOK, true, p, "")
	}
}

// index must be called with f.mu held.
func (f *FakeDirectory) index(id string) int {
	return slices.IndexFunc(f.personas, func(p models.Persona) bool { return p.ID == id })
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any, message string) {
	body := map[string]any{"success": success}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

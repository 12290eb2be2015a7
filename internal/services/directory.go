// Remote persona directory [Directory] implementation
//
// Every response is a JSON envelope: {"success": bool, "data": ..., "message": "..."}.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

var _ Directory = (*DirectoryService)(nil)

// envelope is the directory's response wrapper. Success is a pointer so a missing field can be told apart from false.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

type voteBody struct {
	Vote string `json:"vote"`
}

// DirectoryService implements [Directory] over HTTP.
type DirectoryService struct {
	api *APIService
}

// NewDirectoryService creates a client for the directory rooted at baseURL (e.g. http://localhost:5002/api).
func NewDirectoryService(baseURL string, client *http.Client) *DirectoryService {
	return &DirectoryService{api: NewAPIService(baseURL, client)}
}

// NewDirectoryServiceWithAPI wraps an existing [APIService].
func NewDirectoryServiceWithAPI(api *APIService) *DirectoryService {
	return &DirectoryService{api: api}
}

// SetLogger forwards l to the underlying [APIService].
func (s *DirectoryService) SetLogger(l *log.Logger) { s.api.SetLogger(l) }

// API exposes the raw transport for debugging commands.
func (s *DirectoryService) API() *APIService { return s.api }

// List fetches all personas.
func (s *DirectoryService) List(ctx context.Context) ([]models.Persona, error) {
	resp, err := s.api.Get(ctx, "/personas")
	if err != nil {
		return nil, err
	}

	var personas []models.Persona
	if err := decode(resp, &personas, true); err != nil {
		return nil, err
	}
	if personas == nil {
		personas = []models.Persona{}
	}
	return personas, nil
}

// Get fetches one persona by ID.
func (s *DirectoryService) Get(ctx context.Context, id string) (*models.Persona, error) {
	resp, err := s.api.Get(ctx, personaPath(id))
	if err != nil {
		return nil, err
	}

	var persona models.Persona
	if err := decode(resp, &persona, true); err != nil {
		return nil, err
	}
	return &persona, nil
}

// Create posts draft and returns the stored persona.
func (s *DirectoryService) Create(ctx context.Context, draft models.Draft) (*models.Persona, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode persona: %w", err)
	}

	resp, err := s.api.Post(ctx, "/personas", body)
	if err != nil {
		return nil, err
	}

	return decodePersona(resp)
}

// Update replaces persona id with draft and returns the stored persona.
func (s *DirectoryService) Update(ctx context.Context, id string, draft models.Draft) (*models.Persona, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode persona: %w", err)
	}

	resp, err := s.api.Put(ctx, personaPath(id), body)
	if err != nil {
		return nil, err
	}

	return decodePersona(resp)
}

// Remove deletes persona id.
func (s *DirectoryService) Remove(ctx context.Context, id string) error {
	resp, err := s.api.Delete(ctx, personaPath(id))
	if err != nil {
		return err
	}
	return decode(resp, nil, false)
}

// Vote records choice against persona id and returns the updated counters.
func (s *DirectoryService) Vote(ctx context.Context, id string, choice models.Choice) (*models.Persona, error) {
	if !choice.Valid() {
		return nil, fmt.Errorf("%w: unknown vote %q", shared.ErrInvalidArgument, choice)
	}

	body, err := json.Marshal(voteBody{Vote: choice.Wire()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode vote: %w", err)
	}

	resp, err := s.api.Post(ctx, personaPath(id)+"/vote", body)
	if err != nil {
		return nil, err
	}

	return decodePersona(resp)
}

// Search filters personas server-side.
func (s *DirectoryService) Search(ctx context.Context, params SearchParams) ([]models.Persona, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.District != "" {
		q.Set("distrito", params.District)
	}
	if params.University != "" {
		q.Set("universidad", params.University)
	}

	path := "/personas/search"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var personas []models.Persona
	if err := decode(resp, &personas, true); err != nil {
		return nil, err
	}
	if personas == nil {
		personas = []models.Persona{}
	}
	return personas, nil
}

func personaPath(id string) string {
	return "/personas/" + url.PathEscape(id)
}

func decodePersona(resp *APIResponse) (*models.Persona, error) {
	var persona models.Persona
	if err := decode(resp, &persona, true); err != nil {
		return nil, err
	}
	if persona.ID == "" {
		return nil, fmt.Errorf("%w: persona without id", shared.ErrProtocol)
	}
	return &persona, nil
}

// decode validates the envelope in resp and unmarshals its data into target.
//
// A non-2xx status or success=false becomes an [*shared.HTTPError]; a body that is not an
// envelope, or a success envelope lacking required data, becomes [shared.ErrProtocol].
func decode(resp *APIResponse, target any, needData bool) error {
	var env envelope
	envErr := json.Unmarshal(resp.Body, &env)

	if !resp.OK() {
		httpErr := &shared.HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(resp.Body))}
		if envErr == nil {
			httpErr.Message = env.Message
		}
		return httpErr
	}

	if envErr != nil {
		return fmt.Errorf("%w: %v", shared.ErrProtocol, envErr)
	}
	if env.Success == nil {
		return fmt.Errorf("%w: missing success field", shared.ErrProtocol)
	}
	if !*env.Success {
		return &shared.HTTPError{Status: resp.StatusCode, Message: env.Message, Body: strings.TrimSpace(string(resp.Body))}
	}

	if !needData {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data", shared.ErrProtocol)
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("%w: bad data: %v", shared.ErrProtocol, err)
	}
	return nil
}

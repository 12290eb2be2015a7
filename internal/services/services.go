// package services defines interface Directory for talking to the remote persona directory
package services

import (
	"context"

	"github.com/desertthunder/personas/internal/models"
)

// Directory is the boundary between the client and the remote persona directory.
//
// Every method makes exactly one remote call, never retries, and reports failures as
// [shared.ErrNetworkUnreachable], [*shared.HTTPError] or [shared.ErrProtocol].
type Directory interface {
	// List fetches every persona.
	List(ctx context.Context) ([]models.Persona, error)

	// Get fetches one persona; a missing ID matches [shared.ErrNotFound].
	Get(ctx context.Context, id string) (*models.Persona, error)

	// Create stores a new persona and returns it with its assigned ID.
	Create(ctx context.Context, draft models.Draft) (*models.Persona, error)

	// Update replaces the fields of an existing persona and returns the stored result.
	Update(ctx context.Context, id string, draft models.Draft) (*models.Persona, error)

	// Remove deletes a persona. Removing an absent ID reports [shared.ErrNotFound] every time.
	Remove(ctx context.Context, id string) error

	// Vote increments one counter server-side and returns the updated persona.
	Vote(ctx context.Context, id string, choice models.Choice) (*models.Persona, error)

	// Search asks the directory to filter server-side.
	Search(ctx context.Context, params SearchParams) ([]models.Persona, error)
}

// SearchParams are the query parameters of the directory's search endpoint. Empty fields are omitted.
type SearchParams struct {
	Search     string
	District   string
	University string
}

package directory

import (
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

// Filter narrows the entry list. Zero-valued fields match everything.
type Filter struct {
	// Search matches first or last names ignoring case and accents.
	Search string
	// District and University must match exactly.
	District   string
	University string
}

// IsZero reports whether f lets every entry through.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.District == "" && f.University == ""
}

// Matches reports whether p passes every criterion in f.
func (f Filter) Matches(p models.Persona) bool {
	if f.Search != "" && !shared.ContainsFolded(p.FirstNames, f.Search) && !shared.ContainsFolded(p.LastNames, f.Search) {
		return false
	}
	if f.District != "" && p.District != f.District {
		return false
	}
	if f.University != "" && p.University != f.University {
		return false
	}
	return true
}

// FilteredView returns the entries of list that match f, in their original order.
//
// list is never modified; the result is always a new slice.
func FilteredView(list []models.Persona, f Filter) []models.Persona {
	view := make([]models.Persona, 0, len(list))
	for _, p := range list {
		if f.Matches(p) {
			view = append(view, p)
		}
	}
	return view
}

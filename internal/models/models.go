// package models defines the data model for the persona directory
package models

import (
	"fmt"
	"strings"
	"time"
)

// Persona is one fictional-character entry held by the remote directory.
//
// ID is assigned by the directory and never changes. The vote counters are
// server-authoritative and only move through a successful vote.
type Persona struct {
	ID              string `json:"id"`
	FirstNames      string `json:"nombres"`
	LastNames       string `json:"apellidos"`
	Age             int    `json:"edad"`
	District        string `json:"distrito"`
	InstagramHandle string `json:"instagram,omitempty"`
	University      string `json:"universidad,omitempty"`
	Story           string `json:"historia"`
	TruthVotes      int    `json:"votosYala"`
	LieVotes        int    `json:"votosNoYala"`
}

// Draft is a persona's field set without its identifier, sent on create and update.
type Draft struct {
	FirstNames      string `json:"nombres"`
	LastNames       string `json:"apellidos"`
	Age             int    `json:"edad"`
	District        string `json:"distrito"`
	InstagramHandle string `json:"instagram"`
	University      string `json:"universidad"`
	Story           string `json:"historia"`
	TruthVotes      int    `json:"votosYala"`
	LieVotes        int    `json:"votosNoYala"`
}

// FullName joins first and last names for display.
func (p Persona) FullName() string {
	return strings.TrimSpace(p.FirstNames + " " + p.LastNames)
}

// Tally returns the persona's vote counters.
func (p Persona) Tally() Tally {
	return Tally{Truth: p.TruthVotes, Lie: p.LieVotes}
}

// Draft copies the editable fields of p, carrying the vote counters over unchanged.
func (p Persona) Draft() Draft {
	return Draft{
		FirstNames:      p.FirstNames,
		LastNames:       p.LastNames,
		Age:             p.Age,
		District:        p.District,
		InstagramHandle: p.InstagramHandle,
		University:      p.University,
		Story:           p.Story,
		TruthVotes:      p.TruthVotes,
		LieVotes:        p.LieVotes,
	}
}

// WithID builds the persona a directory would return for d under id.
func (d Draft) WithID(id string) Persona {
	return Persona{
		ID:              id,
		FirstNames:      d.FirstNames,
		LastNames:       d.LastNames,
		Age:             d.Age,
		District:        d.District,
		InstagramHandle: d.InstagramHandle,
		University:      d.University,
		Story:           d.Story,
		TruthVotes:      d.TruthVotes,
		LieVotes:        d.LieVotes,
	}
}

// Choice is the verdict cast in a vote.
type Choice string

const (
	Truth Choice = "truth"
	Lie   Choice = "lie"
)

// ParseChoice accepts truth/lie as well as the directory's yala/noyala spelling.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "truth", "true", "t", "yala":
		return Truth, nil
	case "lie", "false", "l", "noyala":
		return Lie, nil
	default:
		return "", fmt.Errorf("unknown vote %q (want truth or lie)", s)
	}
}

// Wire returns the value the directory expects in a vote body.
func (c Choice) Wire() string {
	if c == Lie {
		return "noyala"
	}
	return "yala"
}

func (c Choice) Valid() bool { return c == Truth || c == Lie }

// Tally holds a persona's vote counters.
type Tally struct {
	Truth int
	Lie   int
}

func (t Tally) Total() int { return t.Truth + t.Lie }

// PercentTruth returns round(100*truth/total) rounded half up.
//
// ok is false when nobody has voted yet; the caller shows a "no votes yet" state instead.
func (t Tally) PercentTruth() (percent int, ok bool) {
	total := t.Total()
	if total <= 0 {
		return 0, false
	}
	return (200*t.Truth + total) / (2 * total), true
}

// PercentLie mirrors [Tally.PercentTruth] for the lie counter.
func (t Tally) PercentLie() (percent int, ok bool) {
	return Tally{Truth: t.Lie, Lie: t.Truth}.PercentTruth()
}

// VoteRecord is a locally remembered vote: this client has voted on PersonaID.
//
// Sequence orders records by when they were written.
type VoteRecord struct {
	PersonaID string    `json:"persona_id"`
	Sequence  int       `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

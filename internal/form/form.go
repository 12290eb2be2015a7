// package form validates persona input before it is sent to the directory
package form

import (
	"strconv"
	"strings"

	"github.com/desertthunder/personas/internal/models"
)

// Field keys used in [shared.ValidationError] and by [Input.Get] / [Input.Set].
const (
	FieldFirstNames = "first_names"
	FieldLastNames  = "last_names"
	FieldAge        = "age"
	FieldDistrict   = "district"
	FieldInstagram  = "instagram"
	FieldUniversity = "university"
	FieldStory      = "story"
	FieldTerms      = "terms"
)

// TermsMessage is shown when the disclaimer has not been accepted.
const TermsMessage = "You must accept the terms and confirm the story is fictional"

// Field describes one text input of the form, in display order.
type Field struct {
	Key      string
	Label    string
	Required bool
}

// Fields lists the text inputs in the order they are presented.
var Fields = []Field{
	{FieldFirstNames, "First names", true},
	{FieldLastNames, "Last names", true},
	{FieldAge, "Age", true},
	{FieldDistrict, "District", true},
	{FieldInstagram, "Instagram", false},
	{FieldUniversity, "University", false},
	{FieldStory, "Story", true},
}

// Input is the raw, unvalidated content of the form. Age stays text until [Submit] parses it.
type Input struct {
	FirstNames      string
	LastNames       string
	Age             string
	District        string
	InstagramHandle string
	University      string
	Story           string

	// Acknowledged is the legal-disclaimer checkbox; submission is refused until it is set.
	Acknowledged bool
}

// FromPersona pre-fills an Input for editing p. The disclaimer must be accepted again.
func FromPersona(p models.Persona) Input {
	return Input{
		FirstNames:      p.FirstNames,
		LastNames:       p.LastNames,
		Age:             strconv.Itoa(p.Age),
		District:        p.District,
		InstagramHandle: p.InstagramHandle,
		University:      p.University,
		Story:           p.Story,
	}
}

// Get returns the value of the text field key, or "" for an unknown key.
func (in Input) Get(key string) string {
	switch key {
	case FieldFirstNames:
		return in.FirstNames
	case FieldLastNames:
		return in.LastNames
	case FieldAge:
		return in.Age
	case FieldDistrict:
		return in.District
	case FieldInstagram:
		return in.InstagramHandle
	case FieldUniversity:
		return in.University
	case FieldStory:
		return in.Story
	}
	return ""
}

// Set assigns value to the text field key. Unknown keys are ignored.
func (in *Input) Set(key, value string) {
	switch key {
	case FieldFirstNames:
		in.FirstNames = value
	case FieldLastNames:
		in.LastNames = value
	case FieldAge:
		in.Age = value
	case FieldDistrict:
		in.District = value
	case FieldInstagram:
		in.InstagramHandle = value
	case FieldUniversity:
		in.University = value
	case FieldStory:
		in.Story = value
	}
}

// Validate checks in without building a draft. It returns a [*shared.ValidationError]
// listing every failing field, or nil.
func Validate(in Input) error {
	v := newValidator()
	v.Required(FieldFirstNames, in.FirstNames).
		Required(FieldLastNames, in.LastNames).
		Required(FieldAge, in.Age).
		PositiveInt(FieldAge, in.Age).
		Required(FieldDistrict, in.District).
		OneOf(FieldDistrict, strings.TrimSpace(in.District), models.IsDistrict, "Must be one of the listed districts").
		Required(FieldStory, in.Story).
		Custom(FieldTerms, !in.Acknowledged, TermsMessage)
	return v.Err()
}

// Submit validates in and returns the draft to hand to the directory controller.
//
// When existing is non-nil the draft starts from it, so its vote counters carry over
// unchanged; otherwise they start at zero. Submit never talks to the directory itself.
func Submit(in Input, existing *models.Persona) (models.Draft, error) {
	if err := Validate(in); err != nil {
		return models.Draft{}, err
	}

	var draft models.Draft
	if existing != nil {
		draft = existing.Draft()
	}

	draft.FirstNames = strings.TrimSpace(in.FirstNames)
	draft.LastNames = strings.TrimSpace(in.LastNames)
	draft.Age, _ = strconv.Atoi(strings.TrimSpace(in.Age))
	draft.District = strings.TrimSpace(in.District)
	draft.InstagramHandle = strings.TrimSpace(in.InstagramHandle)
	draft.University = strings.TrimSpace(in.University)
	draft.Story = strings.TrimSpace(in.Story)
	return draft, nil
}

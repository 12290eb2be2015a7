package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/formatter"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
	"github.com/urfave/cli/v3"
)

// flagFields maps entry form keys to the flags that set them.
var flagFields = map[string]string{
	form.FieldFirstNames: "first-names",
	form.FieldLastNames:  "last-names",
	form.FieldAge:        "age",
	form.FieldDistrict:   "district",
	form.FieldInstagram:  "instagram",
	form.FieldUniversity: "university",
	form.FieldStory:      "story",
}

// List loads the directory and prints the locally filtered view.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	filter := filterFromFlags(cmd)
	view := ctrl.View(filter)
	r.logger.Debug("listing personas", "total", len(ctrl.Entries()), "shown", len(view))

	if len(view) == 0 && format == formatter.FormatTable {
		if filter.IsZero() {
			return r.writePlain("No personas yet.\n")
		}
		return r.writePlain("No personas match the given filters.\n")
	}
	return r.writeFormatted(format, view)
}

// Search filters on the directory service instead of locally.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	params := services.SearchParams{
		Search:     cmd.String("search"),
		District:   cmd.String("district"),
		University: cmd.String("university"),
	}
	r.logger.Info("searching directory", "search", params.Search, "district", params.District, "university", params.University)

	personas, err := r.directory.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(personas) == 0 && format == formatter.FormatTable {
		return r.writePlain("No personas found.\n")
	}
	return r.writeFormatted(format, personas)
}

// Show prints one persona with its story, tally and whether this client voted on it.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: persona id", shared.ErrMissingArgument)
	}

	p, err := r.directory.Get(ctx, id)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	r.writePersona(*p, ctrl.HasVoted(ctx, p.ID))
	return nil
}

// Create validates the flags with the entry form rules and creates the persona.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	in := form.Input{}
	applyFlags(cmd, &in)
	in.Acknowledged = cmd.Bool("accept-terms")

	draft, err := form.Submit(in, nil)
	if err != nil {
		r.writeValidation(err)
		return err
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	p, err := ctrl.Create(ctx, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created %s (id %s)\n", p.FullName(), p.ID)
	return nil
}

// Update fetches the persona, overlays the given flags and saves it. Vote counters carry over.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: persona id", shared.ErrMissingArgument)
	}

	existing, err := r.directory.Get(ctx, id)
	if err != nil {
		return err
	}

	in := form.FromPersona(*existing)
	applyFlags(cmd, &in)
	in.Acknowledged = cmd.Bool("accept-terms")

	draft, err := form.Submit(in, existing)
	if err != nil {
		r.writeValidation(err)
		return err
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	p, err := ctrl.Update(ctx, id, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Updated %s (id %s)\n", p.FullName(), p.ID)
	return nil
}

// Delete removes a persona once the user confirms, or straight away with --yes.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: persona id", shared.ErrMissingArgument)
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.Load(ctx); err != nil {
		r.logger.Warn("could not load personas, confirming by id", "error", err)
	}

	confirm := r.confirm
	if cmd.Bool("yes") {
		confirm = func(models.Persona) bool { return true }
	}

	if err := ctrl.Delete(ctx, id, confirm); err != nil {
		if errors.Is(err, shared.ErrNotConfirmed) {
			r.writePlain("Cancelled.\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Deleted %s\n", id)
	return nil
}

// Vote casts a truth or lie vote; a second vote on the same persona is refused locally.
func (r *Runner) Vote(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: persona id", shared.ErrMissingArgument)
	}
	choice, err := models.ParseChoice(cmd.StringArg("choice"))
	if err != nil {
		return err
	}

	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}
	p, err := ctrl.Vote(ctx, id, choice)
	if err != nil {
		return err
	}

	r.writePlain("✓ Voted %s on %s\n", choice, p.FullName())
	r.writePlain("%s\n", tallyLine(p.Tally()))
	return nil
}

// Votes lists the personas recorded in the local ledger, oldest first.
func (r *Runner) Votes(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.controller(ctx)
	if err != nil {
		return err
	}

	ids := ctrl.Voted(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(ids, true)
	}
	if len(ids) == 0 {
		return r.writePlain("No votes yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Voted on %d personas", len(ids)))
	for _, id := range ids {
		r.writePlain("  %s\n", id)
	}
	return nil
}

// Districts prints the accepted districts.
func (r *Runner) Districts(ctx context.Context, cmd *cli.Command) error {
	for _, d := range models.Districts {
		r.writePlain("%s\n", d)
	}
	return nil
}

// Universities prints the suggested universities.
func (r *Runner) Universities(ctx context.Context, cmd *cli.Command) error {
	for _, u := range models.Universities {
		r.writePlain("%s\n", u)
	}
	return nil
}

// confirm asks on the runner's input; anything but y or yes declines.
func (r *Runner) confirm(p models.Persona) bool {
	name := p.ID
	if p.FullName() != "" {
		name = fmt.Sprintf("%s (id %s)", p.FullName(), p.ID)
	}
	r.writePlain("Delete %s? This cannot be undone. [y/N] ", name)

	answer, _ := bufio.NewReader(r.input).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (r *Runner) writeFormatted(format formatter.Format, personas []models.Persona) error {
	data, err := formatter.Export(format, personas)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePersona(p models.Persona, voted bool) {
	r.writePlainHeader(p.FullName())
	r.writePlain("ID:         %s\n", p.ID)
	r.writePlain("Age:        %d\n", p.Age)
	r.writePlain("District:   %s\n", p.District)
	if p.University != "" {
		r.writePlain("University: %s\n", p.University)
	}
	if p.InstagramHandle != "" {
		r.writePlain("Instagram:  %s\n", p.InstagramHandle)
	}
	r.writePlainln("%s", p.Story)
	r.writePlainln("%s", tallyLine(p.Tally()))
	if voted {
		r.writePlain("You already voted for this persona.\n")
	}
}

func (r *Runner) writeValidation(err error) {
	var validationErr *shared.ValidationError
	if !errors.As(err, &validationErr) {
		return
	}

	keys := make([]string, 0, len(validationErr.Fields))
	for k := range validationErr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.writePlain("The persona was not saved:\n")
	for _, k := range keys {
		name := flagFields[k]
		if name == "" {
			name = "accept-terms"
		}
		r.writePlain("  --%s: %s\n", name, validationErr.Fields[k])
	}
}

func tallyLine(t models.Tally) string {
	if t.Total() == 0 {
		return "Votes: " + formatter.PercentLabel(t)
	}
	lie, _ := t.PercentLie()
	return fmt.Sprintf("Votes: %d truth / %d lie (%s, %d%% lie)", t.Truth, t.Lie, formatter.PercentLabel(t), lie)
}

func filterFromFlags(cmd *cli.Command) directory.Filter {
	return directory.Filter{
		Search:     cmd.String("search"),
		District:   cmd.String("district"),
		University: cmd.String("university"),
	}
}

// applyFlags copies every flag the user set into in, leaving the rest untouched.
func applyFlags(cmd *cli.Command, in *form.Input) {
	for _, field := range form.Fields {
		name := flagFields[field.Key]
		if cmd.IsSet(name) {
			in.Set(field.Key, cmd.String(name))
		}
	}
}

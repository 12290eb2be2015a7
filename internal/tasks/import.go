package tasks

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
	"golang.org/x/time/rate"
)

// ImportOpts contains configuration for bulk persona imports.
type ImportOpts struct {
	NumWorkers   int     // Concurrent workers (default: 3, max: 10)
	RateLimit    float64 // Creates per second (default: 5)
	AcceptTerms  bool    // Disclaimer acceptance applied to every entry
	ValidateOnly bool    // Validate without creating anything
}

// ImportItem is the outcome for one entry of the import file, in file order.
type ImportItem struct {
	Index   int
	Name    string
	Persona *models.Persona // Stored persona, nil unless created
	Err     error
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Total   int
	Created int
	Invalid int
	Failed  int
	Items   []ImportItem
}

type importJob struct {
	index int
	name  string
	draft models.Draft
}

// ReadImportFile reads a JSON array of personas written with the directory's field names.
// Any id or vote counters in the file are ignored.
func ReadImportFile(path string) ([]form.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var personas []models.Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("%w: import file must be a JSON array of personas: %v", shared.ErrInvalidInput, err)
	}

	inputs := make([]form.Input, 0, len(personas))
	for _, p := range personas {
		in := form.FromPersona(p)
		if p.Age == 0 {
			in.Age = ""
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// ImportFile reads path with [ReadImportFile] and runs [Engine.Import] on its entries.
func (e *Engine) ImportFile(ctx context.Context, prog chan<- ProgressUpdate, path string, opts ImportOpts) (*ImportResult, error) {
	inputs, err := ReadImportFile(path)
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, readImportUpdate(path, len(inputs)))
	return e.Import(ctx, prog, inputs, opts)
}

// Import validates every input with the entry form rules and creates the valid ones
// concurrently, throttled by a rate limiter.
//
// Invalid entries are reported without any remote call. A cancelled context stops
// dispatching; entries not yet sent are left out of the result.
func (e *Engine) Import(ctx context.Context, prog chan<- ProgressUpdate, inputs []form.Input, opts ImportOpts) (*ImportResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	total := len(inputs)
	result := &ImportResult{Total: total, Items: make([]ImportItem, 0, total)}

	var valid []importJob
	for i, in := range inputs {
		in.Acknowledged = opts.AcceptTerms
		name := displayName(in, i)

		draft, err := form.Submit(in, nil)
		if err != nil {
			result.Invalid++
			result.Items = append(result.Items, ImportItem{Index: i, Name: name, Err: err})
			e.sendProgress(prog, invalidDraftUpdate(i+1, total, name, err))
			continue
		}
		valid = append(valid, importJob{index: i, name: name, draft: draft})
	}

	if opts.ValidateOnly || len(valid) == 0 {
		sortItems(result.Items)
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob, len(valid))
	results := make(chan ImportItem, len(valid))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.importWorker(ctx, &wg, limiter, jobs, results)
	}

	go func() {
		for _, job := range valid {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- job:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for item := range results {
		completed++
		result.Items = append(result.Items, item)

		if item.Err != nil {
			result.Failed++
			e.sendProgress(prog, createFailedUpdate(completed, len(valid), item.Name, item.Err))
			continue
		}
		result.Created++
		e.sendProgress(prog, createdUpdate(completed, len(valid), item.Persona))
	}

	sortItems(result.Items)
	e.logger.Info("import finished", "total", total, "created", result.Created, "invalid", result.Invalid, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted: %w", err)
	}
	return result, nil
}

// importWorker creates personas from the jobs channel, waiting on the limiter before each call.
func (e *Engine) importWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan importJob,
	results chan<- ImportItem,
) {
	defer wg.Done()

	for job := range jobs {
		item := ImportItem{Index: job.index, Name: job.name}

		if err := limiter.Wait(ctx); err != nil {
			item.Err = err
			results <- item
			continue
		}

		item.Persona, item.Err = e.ctrl.Create(ctx, job.draft)
		results <- item
	}
}

func displayName(in form.Input, index int) string {
	name := in.FirstNames
	if in.LastNames != "" {
		name += " " + in.LastNames
	}
	if name == "" {
		return fmt.Sprintf("entry #%d", index+1)
	}
	return name
}

func sortItems(items []ImportItem) {
	slices.SortFunc(items, func(a, b ImportItem) int { return cmp.Compare(a.Index, b.Index) })
}

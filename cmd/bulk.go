package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/personas/internal/formatter"
	"github.com/desertthunder/personas/internal/shared"
	"github.com/desertthunder/personas/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the (filtered) persona list to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if _, err := r.controller(ctx); err != nil {
		return err
	}

	progressCh, done := r.printProgress()
	result, err := r.engine.Export(ctx, progressCh, tasks.ExportOpts{
		Format: format,
		Path:   cmd.String("output"),
		Filter: filterFromFlags(cmd),
		Reload: true,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d personas to %s\n", result.Count, result.Path)
	return nil
}

// Import creates personas from a JSON file, reporting each entry as it completes.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: import file path", shared.ErrMissingArgument)
	}

	if _, err := r.controller(ctx); err != nil {
		return err
	}

	r.logger.Info("starting import", "path", path)

	progressCh, done := r.printProgress()
	result, err := r.engine.ImportFile(ctx, progressCh, path, tasks.ImportOpts{
		NumWorkers:   cmd.Int("workers"),
		RateLimit:    cmd.Float("rate"),
		AcceptTerms:  cmd.Bool("accept-terms"),
		ValidateOnly: cmd.Bool("dry-run"),
	})
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Entries: %d\n", result.Total)
	r.writePlain("Created: %d\n", result.Created)
	r.writePlain("Invalid: %d\n", result.Invalid)
	r.writePlain("Failed:  %d\n", result.Failed)

	if result.Invalid+result.Failed > 0 {
		r.writePlain("\nNot imported:\n")
		for _, item := range result.Items {
			if item.Err != nil {
				r.writePlain("  - #%d %s: %s\n", item.Index+1, item.Name, shared.Describe(item.Err))
			}
		}
	}

	return err
}

// printProgress starts a goroutine that prints updates until the returned channel is closed;
// done is closed once everything has been written.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadDirectory, tasks.ReadImport:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ValidateDrafts:
				r.writePlain("⚠  %s\n", update.Message)
			case tasks.CreatePersonas:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.ExportPersonas:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	return progressCh, done
}

package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/formatter"
)

// ExportOpts configures [Engine.Export].
type ExportOpts struct {
	Format formatter.Format // Output format (default: table)
	Path   string           // Output file (default: personas{ext})
	Filter directory.Filter // Only matching personas are written
	Reload bool             // Load the directory even if the controller already holds a list
}

// ExportResult describes a finished export.
type ExportResult struct {
	Path  string
	Count int
}

// Export writes the filtered persona list to a file.
func (e *Engine) Export(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatTable
	}

	if opts.Reload || !e.ctrl.Loaded() {
		e.sendProgress(prog, loadDirectoryUpdate(1, 1))
		if err := e.ctrl.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load personas: %w", err)
		}
	}

	view := e.ctrl.View(opts.Filter)
	e.sendProgress(prog, exportingUpdate(len(view), string(opts.Format)))

	path, err := formatter.WriteExport(opts.Format, view, opts.Path)
	if err != nil {
		return nil, err
	}

	e.logger.Info("exported personas", "count", len(view), "path", path, "format", opts.Format)
	e.sendProgress(prog, exportedUpdate(path))
	return &ExportResult{Path: path, Count: len(view)}, nil
}

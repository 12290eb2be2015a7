package main

import (
	"context"

	"github.com/desertthunder/personas/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the directory service
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = "/personas"
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &shared.HTTPError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIHealth lists the directory once and reports how it answered.
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Checking %s ...\n", r.api.BaseURL())

	personas, err := r.directory.List(ctx)
	if err != nil {
		r.writePlain("✗ %s\n", shared.Describe(err))
		return err
	}

	r.writePlain("✓ Directory is up (%d personas)\n", len(personas))
	return nil
}

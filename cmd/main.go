package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config, configPath, err := loadConfig(os.Getenv("PERSONAS_CONFIG"), logger)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	shared.SetLogLevel(logger, config.Log.Level)

	api := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout.Duration})
	api.SetLogger(logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        api,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "personas",
		Usage:    "Browse, add and vote on personas in a remote directory",
		Version:  "0.1.0",
		Commands: runner.register(),
		After: func(ctx context.Context, cmd *cli.Command) error {
			return runner.Close()
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatal(shared.Describe(err), "error", err)
	}
}

// loadConfig reads the config file, then applies PERSONAS_* overrides.
//
// An explicit path must exist. Without one, config.toml is used when present and the
// embedded defaults otherwise.
func loadConfig(explicit string, logger *log.Logger) (*shared.Config, string, error) {
	path := explicit
	if path == "" {
		path = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			return nil, path, err
		}
		config = loaded
	} else if explicit != "" {
		return nil, path, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	} else {
		logger.Debug("no config file, using defaults", "path", path)
	}

	if err := shared.ApplyEnv(config); err != nil {
		return nil, path, err
	}
	return config, path, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/personas/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config file from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = r.configPath
	}
	if configPath == "" {
		configPath = "config.toml"
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Wrote %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point api.base_url at your directory service\n")
	r.writePlain("2. Run 'personas setup database' to create the vote database\n")
	return nil
}

// SetupDatabase initializes the vote database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.config

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("✓ Rolled back latest migration in %s\n", config.Database.Path)
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return nil
}

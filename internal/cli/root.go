// Package cli implements portalctl, the operator command line for the
// campus portal: schema migrations, default data and account recovery.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yigit/campusportal/internal/app/migrations"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/config"
	"github.com/yigit/campusportal/internal/db"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// Backend is the storage a command operates on.
type Backend struct {
	Repos *repositories.Repositories
	// Migrate applies pending schema migrations. Nil for the memory driver.
	Migrate func(ctx context.Context) error
	Close   func()
}

// OpenFunc opens the backend described by the config file at path.
type OpenFunc func(ctx context.Context, configPath string) (*Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	open       OpenFunc
}

func (o *RootOptions) backend(ctx context.Context) (*Backend, error) {
	return o.open(ctx, o.ConfigPath)
}

// NewRootCommand creates the portalctl root command. A nil open uses
// OpenConfigured.
func NewRootCommand(open OpenFunc) *cobra.Command {
	if open == nil {
		open = OpenConfigured
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Campus portal administration",
		Long:          "Operator tasks for the campus portal: apply migrations, seed default data and manage accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

// OpenConfigured loads the config, configures logging and opens the
// configured database driver.
func OpenConfigured(ctx context.Context, configPath string) (*Backend, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: true,
	})

	if cfg.Database.Driver == "memory" {
		return &Backend{Repos: memory.NewRepositories(), Close: func() {}}, nil
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	migrator := migrations.NewMigrator(database.Pool, migrations.Files())
	return &Backend{
		Repos:   repositories.NewRepositories(database),
		Migrate: migrator.Migrate,
		Close:   database.Close,
	}, nil
}

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/server"
)

// @title Campus Portal API
// @version 1.0
// @description API for the campus course registration portal

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:4000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Run the campus portal HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(configPath)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to initialize server")
				return err
			}
			if err := srv.Run(); err != nil {
				logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
				return err
			}
			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default term, courses, sections and demo accounts",
		Long:  "Create the default term, courses, sections and demo accounts. Existing rows are left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			if err := seed.CreateDefaultData(cmd.Context(), b.Repos, logger.Logger()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "default data in place")
			return nil
		},
	}
}

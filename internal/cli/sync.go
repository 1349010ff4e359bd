package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/app"
)

// NewSyncCommand runs one sync from the configured sources into the configured store.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync from the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := app.NewSyncService(cfg, store.Repo)
			if err != nil {
				return err
			}

			run, runErr := svc.Run(ctx, "cli")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(run); err != nil {
				return err
			}
			return runErr
		},
	}
}

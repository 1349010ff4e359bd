package cli

import (
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
}

func (o *RootOptions) Load() (*config.Config, error) {
	if o.EnvFile == "" {
		return config.Load(o.ConfigPath)
	}
	return config.Load(o.ConfigPath, o.EnvFile)
}

// NewRootCommand creates the root command for the streaks CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "streaks",
		Short: "Derive habit streaks from a daily tracker",
		Long: `Derive per-habit streak histories from a daily habit tracker and a calendar table.

Habits and tracker rows come from two Notion databases or from CSV exports;
the resulting streak table is stored and written as CSV.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "TOML configuration file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env)")

	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewDatabasesCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}

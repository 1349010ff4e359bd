package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/csvio"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-streaks/internal/config"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type deriveOptions struct {
	Habits   string
	Tracker  string
	Calendar string
	Out      string
	From     string
	To       string
}

// NewDeriveCommand derives the streak table offline from CSV files.
func NewDeriveCommand(_ *RootOptions) *cobra.Command {
	opts := &deriveOptions{}

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive streaks from CSV exports",
		Long: `Read the habits, tracker and calendar CSV files, derive the streak table and
write it as CSV to --out, or to stdout when --out is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Habits, "habits", "", "habits CSV (Short Name, Frequency, Check)")
	cmd.Flags().StringVar(&opts.Tracker, "tracker", "", "daily tracker CSV (Date plus one column per habit)")
	cmd.Flags().StringVar(&opts.Calendar, "calendar", "", "calendar CSV (date, day_of_week_name, week_number)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output CSV path")
	cmd.Flags().StringVar(&opts.From, "from", "", "first tracker date to replay (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last tracker date to replay (YYYY-MM-DD)")
	for _, name := range []string{"habits", "tracker", "calendar"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runDerive(cmd *cobra.Command, opts *deriveOptions) error {
	ctx := cmd.Context()

	cfg := config.Default()
	cfg.Window = config.WindowConfig{From: opts.From, To: opts.To}
	window, err := cfg.SyncWindow()
	if err != nil {
		return err
	}

	files := csvio.FileSource{
		HabitsPath:   opts.Habits,
		TrackerPath:  opts.Tracker,
		CalendarPath: opts.Calendar,
	}
	repo := repository.NewInMemoryStreakRepository()

	syncOpts := []services.SyncOption{services.WithWindow(window)}
	if opts.Out != "" {
		syncOpts = append(syncOpts, services.WithExporter(csvio.FileExporter{Path: opts.Out}))
	}

	run, err := services.NewSyncService(files, files, files, repo, syncOpts...).Run(ctx, "derive")
	if err != nil {
		return err
	}

	if opts.Out == "" {
		all, err := repo.List(ctx, domain.StreakFilter{})
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := csvio.WriteStreaks(&buf, all); err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d streaks (%d active) from %d observations written to %s\n",
		run.Streaks, run.Active, run.Observations, opts.Out)
	return nil
}

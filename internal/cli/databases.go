package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-streaks/internal/app"
)

// NewDatabasesCommand lists the Notion databases the integration token can see,
// to find the ids for the habits and tracker settings.
func NewDatabasesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List the Notion databases visible to the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.Load()
			if err != nil {
				return err
			}
			if cfg.Notion.Token == "" {
				return errors.New("notion token is not set (notion.token or NOTION_TOKEN)")
			}

			dbs, err := app.NewNotionClient(cfg.Notion).Search(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE")
			for _, db := range dbs {
				fmt.Fprintf(w, "%s\t%s\n", db.ID, db.Title)
			}
			return w.Flush()
		},
	}
}

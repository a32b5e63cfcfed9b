package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/cmd/helpers"
	"github.com/zinc-sig/pyramid/internal/store"
)

var (
	historyStore config.StoreConfig
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [--limit N]",
	Short: "List stored grading reports",
	Example: `  pyramid history --db-driver sqlite
  pyramid history --db-driver postgres --db-dsn postgres://localhost/pyramid --limit 50 --json`,
	RunE: historyCommand,
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if historyStore.Driver == "" {
		historyStore.Driver = string(store.DriverSQLite)
	}

	st, err := helpers.OpenStore(cmd.Context(), &historyStore)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		return helpers.OutputJSON(cmd.OutOrStdout(), list)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tSCORE\tTIER")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Status, r.Score, r.Tier)
	}
	return tw.Flush()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultLimit, "Maximum number of reports")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the list as JSON")
	helpers.SetupStoreFlags(historyCmd, &historyStore)
}

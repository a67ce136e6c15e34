package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/majorcontext/babeltrace/internal/export"
)

var (
	statsDB   string
	statsName string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise an event index by event name",
	Long: `Print the number of events and the first and last timestamp of every
event name stored in an index built with 'ctfread index'.

Examples:
  ctfread stats
  ctfread stats --name sched_switch
  ctfread stats --db /tmp/session.db`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsDB, "db", "", "index database path (default from config)")
	statsCmd.Flags().StringVar(&statsName, "name", "", "only show this event name")
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath := statsDB
	if dbPath == "" {
		dbPath = globalCfg.Index.Path
	}
	store, err := openIndex(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(statsName)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		if statsName != "" {
			return fmt.Errorf("no events named %s in %s", statsName, dbPath)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Index is empty")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOUNT\tFIRST\tLAST")
	for _, st := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", st.Name, st.Count,
			export.FormatTimestamp(export.Record{Timestamp: st.First, NoTimestamp: !st.Timed}),
			export.FormatTimestamp(export.Record{Timestamp: st.Last, NoTimestamp: !st.Timed}))
	}
	w.Flush()

	total, err := store.Count()
	if err != nil {
		return err
	}
	traces, err := store.Traces()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d indexed events, %d names shown, %d traces\n", total, len(stats), len(traces))
	return nil
}

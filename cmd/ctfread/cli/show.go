package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/majorcontext/babeltrace/internal/export"
	"github.com/majorcontext/babeltrace/internal/index"
)

var (
	showDB     string
	showFormat string
	showLimit  int
)

var showCmd = &cobra.Command{
	Use:   "show <event-name>",
	Short: "Print indexed events with a given name",
	Long: `Print events stored by 'ctfread index', in the order they were indexed.

Examples:
  ctfread show sched_switch
  ctfread show irq_handler_entry --limit 5 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showDB, "db", "", "index database path (default from config)")
	showCmd.Flags().StringVar(&showFormat, "format", "", "output format: text, json or msgpack (default from config)")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "maximum number of events to print")
}

func runShow(cmd *cobra.Command, args []string) error {
	dbPath := showDB
	if dbPath == "" {
		dbPath = globalCfg.Index.Path
	}
	format := showFormat
	if format == "" {
		format = globalCfg.Output.Format
	}
	if showLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", showLimit)
	}
	enc, err := export.NewEncoder(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	store, err := openIndex(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Events(args[0], showLimit)
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("no events named %s in %s", args[0], dbPath)
	}
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
	}
	return enc.Flush()
}

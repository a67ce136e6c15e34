package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/majorcontext/babeltrace"
	"github.com/majorcontext/babeltrace/internal/export"
	"github.com/majorcontext/babeltrace/internal/index"
	"github.com/majorcontext/babeltrace/internal/log"
)

var (
	indexDB    string
	indexBatch int
)

var indexCmd = &cobra.Command{
	Use:   "index <trace-dir>...",
	Short: "Store the events of one or more traces in an SQLite index",
	Long: `Store every event of the given trace directories, with all of its scopes,
in an SQLite index. Use 'ctfread stats' to summarise the index.

Examples:
  ctfread index ~/lttng-traces/session/kernel
  ctfread index kernel ust --db /tmp/session.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexDB, "db", "", "index database path (default from config)")
	indexCmd.Flags().IntVar(&indexBatch, "batch", 0, "events per transaction (default from config)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dbPath := indexDB
	if dbPath == "" {
		dbPath = globalCfg.Index.Path
	}
	batch := indexBatch
	if batch <= 0 {
		batch = globalCfg.Index.BatchSize
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	store, err := index.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer store.Close()

	n, err := indexTraces(cmd.Context(), store, args, batch)
	if err != nil {
		return err
	}
	log.Info("index complete", "events", n, "traces", len(args), "db", dbPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d events from %d traces into %s\n", n, len(args), dbPath)
	return nil
}

// indexTraces reads dirs on one goroutine and writes batches of batchSize
// records on another. The babeltrace session stays on the reading goroutine.
func indexTraces(ctx context.Context, store *index.Store, dirs []string, batchSize int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	records := make(chan export.Record, batchSize)

	g.Go(func() error {
		defer close(records)
		bt, err := openTraces(dirs)
		if err != nil {
			return err
		}
		defer bt.Close()

		it, err := bt.Iterator()
		if err != nil {
			return fmt.Errorf("creating iterator: %w", err)
		}
		defer it.Close()

		builder := export.Builder{Scopes: babeltrace.Scopes()}
		for ev := range it.All() {
			rec, err := builder.Build(ev)
			if err != nil {
				return fmt.Errorf("reading event %s: %w", ev.Name(), err)
			}
			select {
			case records <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	total := 0
	g.Go(func() error {
		batch := make([]export.Record, 0, batchSize)
		flush := func() error {
			if err := store.InsertBatch(batch); err != nil {
				return fmt.Errorf("storing events: %w", err)
			}
			total += len(batch)
			log.Debug("batch stored", "events", len(batch), "total", total)
			batch = batch[:0]
			return nil
		}
		for rec := range records {
			batch = append(batch, rec)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return total, err
	}
	if err := store.AddTraces(absPaths(dirs)...); err != nil {
		return total, fmt.Errorf("recording traces: %w", err)
	}
	return total, nil
}

package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/majorcontext/babeltrace/internal/export"
	"github.com/majorcontext/babeltrace/internal/log"
	"github.com/majorcontext/babeltrace/internal/ui"
)

var (
	dumpFormat string
	dumpScopes []string
	dumpNames  []string
	dumpFields []string
	dumpLimit  int
)

var dumpCmd = &cobra.Command{
	Use:   "dump <trace-dir>...",
	Short: "Print the events of one or more traces",
	Long: `Print the events of one or more CTF trace directories as a single stream
ordered by timestamp.

Examples:
  ctfread dump ~/lttng-traces/session/kernel
  ctfread dump kernel ust --name sched_switch --limit 20
  ctfread dump kernel --field prev_comm --field next_comm
  ctfread dump kernel --scope stream_event_context --scope event_fields
  ctfread dump kernel --format json | jq .name`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "", "output format: text, json or msgpack (default from config)")
	dumpCmd.Flags().StringArrayVar(&dumpScopes, "scope", nil, "event scope to print (repeatable, default from config)")
	dumpCmd.Flags().StringArrayVar(&dumpNames, "name", nil, "only print events with this name (repeatable)")
	dumpCmd.Flags().StringArrayVar(&dumpFields, "field", nil, "only print this event field (repeatable)")
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "stop after this many events (0 = no limit)")
}

func runDump(cmd *cobra.Command, args []string) error {
	format := dumpFormat
	if format == "" {
		format = globalCfg.Output.Format
	}
	scopeNames := dumpScopes
	if len(scopeNames) == 0 {
		scopeNames = globalCfg.Output.Scopes
	}
	scopes, err := parseScopes(scopeNames)
	if err != nil {
		return err
	}
	enc, err := export.NewEncoder(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	bt, err := openTraces(args)
	if err != nil {
		return err
	}
	defer bt.Close()

	it, err := bt.Iterator()
	if err != nil {
		return fmt.Errorf("creating iterator: %w", err)
	}
	defer it.Close()

	builder := export.Builder{Scopes: scopes, Fields: dumpFields}
	warned := make(map[string]bool)
	written := 0
	for ev := range it.All() {
		if len(dumpNames) > 0 && !slices.Contains(dumpNames, ev.Name()) {
			continue
		}
		rec, err := builder.Build(ev)
		if err != nil {
			return fmt.Errorf("reading event %s: %w", ev.Name(), err)
		}
		for _, field := range rec.Missing {
			key := rec.Name + "." + field
			if !warned[key] {
				warned[key] = true
				ui.Warnf("event %s has no field %s", rec.Name, field)
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		written++
		if dumpLimit > 0 && written >= dumpLimit {
			break
		}
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Debug("dump finished", "events", written, "traces", len(args))
	return nil
}

// Package cli implements the ctfread command-line interface using Cobra.
// It provides commands for dumping CTF traces, indexing their events into
// SQLite and summarising an index.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/majorcontext/babeltrace/internal/config"
	"github.com/majorcontext/babeltrace/internal/log"
)

var (
	verbose bool
	jsonOut bool

	// globalCfg is loaded before every command runs.
	globalCfg = config.DefaultGlobalConfig()
)

var rootCmd = &cobra.Command{
	Use:   "ctfread",
	Short: "ctfread - read CTF traces through babeltrace",
	Long: `ctfread reads Common Trace Format traces (LTTng and others) with the
babeltrace library. It prints the merged event stream of one or more trace
directories, stores events in a queryable SQLite index and summarises that
index by event name.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		globalCfg = cfg

		if err := log.Init(log.Options{
			Verbose:       verbose,
			JSONFormat:    jsonOut,
			DebugDir:      filepath.Join(config.GlobalConfigDir(), "debug"),
			RetentionDays: cfg.Debug.RetentionDays,
		}); err != nil {
			// Non-fatal: stderr logging is still configured
			log.Warn("debug logging disabled", "error", err)
		}
		log.SetCommand(cmd.Name())
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	defer log.Close()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	liner "github.com/float-ritual-stack/float-liner"
)

var (
	snapshotPath string
	replica      string
	interpreter  string
	logLevel     string
	logFormat    string

	app *liner.App
)

var rootCmd = &cobra.Command{
	Use:   "liner",
	Short: "Local-first mergeable outline store",
	Long: `liner keeps a tree of blocks in a conflict-free replicated document.

Every invocation loads the snapshot, runs one operation, and (for mutating
operations) writes the snapshot back. State, updates, and state vectors are
printed as text so they can be piped between replicas.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg := liner.DefaultConfig()
		if snapshotPath != "" {
			cfg.SnapshotPath = snapshotPath
		}
		cfg.Replica = replica
		if interpreter != "" {
			cfg.Shell.Interpreter = interpreter
		}
		cfg.Logging.Level = logLevel
		cfg.Logging.Format = logFormat

		var err error
		app, err = liner.New(cfg)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "", "path to the snapshot file (default ~/.float-liner/data.liner)")
	rootCmd.PersistentFlags().StringVar(&replica, "replica", "", "pin the replica identity (default random per invocation)")
	rootCmd.PersistentFlags().StringVar(&interpreter, "interpreter", "", "shell interpreter for sh blocks (default sh)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "logging level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "logging format (json, console, pretty)")
}

// persist writes the snapshot after a mutating command so changes survive
// the process.
func persist() error {
	_, err := app.Save()
	return err
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is stamped into "circulation version" output and the telemetry
// resource attributes.
const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "circulation",
	Short: "circulation manages a library's book lending",
	Long: `circulation is the command line interface of the library circulation
system. It keeps the catalog and the lending journal in a pluggable state
store backend (in-memory, SQLite, PostgreSQL or Redis) and offers commands
to add books, check them out, return them, and inspect availability.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if skipAppInit(cmd) {
			return nil
		}

		return initApp(cmd)
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeApp()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().String("backend", "", "state store backend: memory, sqlite, postgres or redis")
	rootCmd.PersistentFlags().String("log-level", "", "log verbosity: debug, info, warn or error")
}

// skipAppInit reports whether cmd runs without the application wired up, so
// help and completion never touch a database.
func skipAppInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "__complete", "__completeNoDesc":
		return true
	}

	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

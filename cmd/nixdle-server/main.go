// Package main provides the nixdle game server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/config"
	"github.com/joss/nixdle/internal/logging"
)

var logLevel string

func main() {
	env := config.Env()

	rootCmd := &cobra.Command{
		Use:   "nixdle-server",
		Short: "Serve the daily nixdle game",
		Long: `nixdle-server picks one function from the catalog in the data directory
and serves it as today's target until it is restarted.

The data directory holds functions.json and builtin_types.json.`,
		Version: api.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := logging.Init(os.Stderr, logLevel); err != nil {
				exitOnError(err)
			}
			if env.ConfigErr != nil {
				logging.New("cli").Warn("config_ignored", map[string]interface{}{
					"path": env.ConfigFile,
				}, env.ConfigErr)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "debug, info, warn or error (NIXDLE_LOG_LEVEL)")

	rootCmd.AddCommand(
		serveCmd(env),
		catalogCmd(env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// exitOnError logs err, prints it to stderr and exits.
func exitOnError(err error) {
	logging.New("cli").Error("command_failed", nil, err)
	logging.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

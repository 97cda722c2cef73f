// Package main provides the nixdle client CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/client"
	"github.com/joss/nixdle/internal/config"
	"github.com/joss/nixdle/internal/lockfile"
	"github.com/joss/nixdle/internal/logging"
	"github.com/joss/nixdle/internal/play"
	"github.com/joss/nixdle/internal/ui"
)

// options are the flags shared by every command.
type options struct {
	api       string
	theme     string
	hideRules bool
	lockfile  string
	verbose   bool
}

func main() {
	env := config.Env()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "nixdle",
		Short: "Guess today's Nix function",
		Long: `nixdle: a daily guessing game for Nix standard library functions.

Every guess tells you whether the argument count is too few or too many,
whether the input and output types match, and every few attempts reveals
one more segment of the function's attribute path.

Progress is saved next to a signature so it survives restarts, but not
hand edits.`,
		Version: api.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "error"
			if opts.verbose {
				level = "debug"
			}
			if err := logging.Init(os.Stderr, level); err != nil {
				exitOnError(err)
			}
			if env.ConfigErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: config: %v\n", env.ConfigErr)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			runPlay(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.api, "api", env.APIURL, "game server URL (NIXDLE_API)")
	rootCmd.PersistentFlags().StringVarP(&opts.theme, "theme", "t", env.Theme, "color theme: nix or lix (NIXDLE_THEME)")
	rootCmd.PersistentFlags().StringVar(&opts.lockfile, "lockfile", env.Lockfile, "progress file; its signature is stored alongside (NIXDLE_LOCKFILE)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug events to stderr")
	rootCmd.Flags().BoolVar(&opts.hideRules, "hide-rules", env.HideRules, "don't print the rules (NIXDLE_HIDE_RULES)")

	rootCmd.AddCommand(
		statusCmd(opts),
		resetCmd(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runPlay(ctx context.Context, opts *options) {
	theme, err := ui.ThemeByName(opts.theme)
	if err != nil {
		exitOnError(err)
	}

	runner := &play.Runner{
		Client:    client.New(opts.api, nil),
		Store:     lockfile.New(opts.lockfile, ""),
		UI:        ui.New(os.Stdout, os.Stderr, theme),
		Prompter:  ui.NewPrompter(os.Stdin, os.Stdout, theme),
		HideRules: opts.hideRules,
		APIURL:    opts.api,
	}

	res, err := runner.Run(ctx)
	if err != nil {
		exitOnError(err)
	}
	logging.New("cli").Debug("game_finished", map[string]interface{}{"result": res.String()})
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/nixdle/internal/client"
	"github.com/joss/nixdle/internal/lockfile"
	"github.com/joss/nixdle/internal/ui"
)

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show saved progress for today's game",
		Long: `Show saved progress for today's game.

The server is asked for today's session so the saved progress can be
verified; progress from another day or a tampered file shows as empty.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			theme, err := ui.ThemeByName(opts.theme)
			if err != nil {
				exitOnError(err)
			}

			start, err := client.New(opts.api, nil).Start(cmd.Context())
			if err != nil {
				exitOnError(fmt.Errorf("start game: %w", err))
			}

			store := lockfile.New(opts.lockfile, "")
			rec := store.Open(lockfile.DeriveKey(start.Date, start.Version, start.NixCommit))

			out := ui.New(os.Stdout, os.Stderr, theme)
			out.Progress(rec.Date, rec.Success, rec.Attempted)
		},
	}
}

func resetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete saved progress",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store := lockfile.New(opts.lockfile, "")
			if err := store.Reset(); err != nil {
				exitOnError(err)
			}
			fmt.Printf("removed %s and %s\n", store.Path(), store.SignaturePath())
		},
	}
}

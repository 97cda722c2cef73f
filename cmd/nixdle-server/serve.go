package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/nixdle/internal/catalog"
	"github.com/joss/nixdle/internal/config"
	"github.com/joss/nixdle/internal/game"
	"github.com/joss/nixdle/internal/logging"
	"github.com/joss/nixdle/internal/metrics"
	"github.com/joss/nixdle/internal/server"
)

func serveCmd(env *config.NixdleEnv) *cobra.Command {
	var (
		addr      string
		dataDir   string
		publicURL string
		commit    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Select today's function and serve the game API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			log := logging.New("server")

			cat, stats, err := catalog.LoadDir(dataDir)
			if err != nil {
				exitOnError(err)
			}
			log.Info("catalog_loaded", map[string]interface{}{
				"dir":      dataDir,
				"decoded":  stats.Decoded,
				"invalid":  stats.Invalid,
				"eligible": stats.Eligible,
				"builtins": stats.Builtins,
			})

			engine, err := game.NewEngine(cat, game.WithCommit(commit))
			if err != nil {
				exitOnError(err)
			}
			session := engine.Select()
			log.WithSession(session.Date()).Info("game_initialized", map[string]interface{}{
				"possible_clues": len(session.Clues()),
				"nix_commit":     commit,
			})

			m := metrics.New()
			m.CatalogSize.Set(float64(cat.Len()))

			srv := server.New(engine, m, addr, strings.TrimRight(publicURL, "/"))
			if err := srv.Serve(cmd.Context()); err != nil {
				exitOnError(fmt.Errorf("serve: %w", err))
			}
			log.Info("shutdown", nil)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", env.Addr, "listen address (NIXDLE_ADDR)")
	cmd.Flags().StringVar(&dataDir, "data-dir", env.DataDir, "directory with functions.json and builtin_types.json (DATA_DIR)")
	cmd.Flags().StringVar(&publicURL, "public-url", env.PublicURL, "externally visible base URL (NIXDLE_PUBLIC_URL)")
	cmd.Flags().StringVar(&commit, "commit", env.BuildCommit, "nixpkgs commit the data was generated from (NIXDLE_BUILD_COMMIT)")

	return cmd
}

func catalogCmd(env *config.NixdleEnv) *cobra.Command {
	var (
		dataDir string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check the data directory and report playable functions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cat, stats, err := catalog.LoadDir(dataDir)
			if err != nil {
				exitOnError(err)
			}

			fmt.Printf("CATALOG %s\n\n", dataDir)
			fmt.Printf("  decoded:   %d\n", stats.Decoded)
			fmt.Printf("  invalid:   %d\n", stats.Invalid)
			fmt.Printf("  eligible:  %d\n", stats.Eligible)
			fmt.Printf("  builtins:  %d\n", stats.Builtins)

			if list {
				fmt.Fprintln(os.Stdout)
				for i := range cat.Len() {
					rec := cat.At(i)
					in, out, _ := cat.Types(rec)
					fmt.Printf("  %-48s %d  %s -> %s\n", rec.Name(), cat.ArgCount(rec), in, out)
				}
			}
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", env.DataDir, "directory with functions.json and builtin_types.json (DATA_DIR)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list every eligible function with its arity and types")

	return cmd
}

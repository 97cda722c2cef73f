// Package play runs one client game: fetch the session, restore saved
// progress, and loop over guesses until the player wins or quits.
package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/client"
	"github.com/joss/nixdle/internal/lockfile"
	"github.com/joss/nixdle/internal/logging"
	"github.com/joss/nixdle/internal/ui"
)

// Client is the server API used by a game.
type Client interface {
	Start(ctx context.Context) (*api.StartMessage, error)
	Attempt(ctx context.Context, attemptURL string, attempt api.AttemptRequest) (*api.AttemptMessage, error)
}

var _ Client = (*client.Client)(nil)

// Result is how a game ended.
type Result int

const (
	// Abandoned means the player quit before solving.
	Abandoned Result = iota
	Solved
	AlreadySolved
)

func (r Result) String() string {
	switch r {
	case Solved:
		return "solved"
	case AlreadySolved:
		return "already_solved"
	default:
		return "abandoned"
	}
}

// Runner wires the pieces of one game together.
type Runner struct {
	Client    Client
	Store     *lockfile.Store
	UI        *ui.UI
	Prompter  ui.Prompter
	HideRules bool

	// APIURL is only used in status lines.
	APIURL string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Run plays until the target is found, the player quits, or ctx ends.
// Every evaluated guess is saved before the next prompt.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	log := logging.New("play")

	r.UI.Welcome(api.Version)
	r.UI.Status("connecting to " + r.APIURL)

	start, err := r.Client.Start(ctx)
	if err != nil {
		return Abandoned, fmt.Errorf("start game: %w", err)
	}
	if start.Version != api.Version {
		r.UI.VersionMismatch(start.Version, api.Version)
	}

	key := lockfile.DeriveKey(start.Date, start.Version, start.NixCommit)
	rec := r.Store.Open(key)
	log = log.WithSession(start.Date)

	if rec.Success {
		r.UI.AlreadySolved()
		return AlreadySolved, nil
	}

	if !r.HideRules {
		r.UI.Rules(start.Rules)
	}

	rec.Date = start.Date
	rec.Version = start.Version
	if err := r.Store.Save(rec, key); err != nil {
		return Abandoned, err
	}

	started := now()
	for {
		guess, err := r.Prompter.Prompt(fmt.Sprintf("guess#%d", rec.Attempts))
		if errors.Is(err, io.EOF) {
			log.Info("game_abandoned", map[string]interface{}{"attempts": rec.Attempts})
			return Abandoned, nil
		}
		if err != nil {
			return Abandoned, err
		}
		if err := ctx.Err(); err != nil {
			return Abandoned, err
		}

		r.UI.Status("sending to " + start.AttemptURL)
		msg, err := r.Client.Attempt(ctx, start.AttemptURL, api.AttemptRequest{
			Input:    guess,
			Attempts: rec.Attempts,
		})
		if err != nil {
			return Abandoned, fmt.Errorf("submit guess: %w", err)
		}
		if msg == nil {
			r.UI.Error("the server doesn't know this one :c")
			continue
		}

		r.UI.Status("saving")
		rec.Push(guess)

		if msg.Success {
			r.UI.Solved(deref(msg.Func), deref(msg.Description), rec.Attempts, now().Sub(started), rec.Date)
			rec.Success = true
			if err := r.Store.Save(rec, key); err != nil {
				return Solved, err
			}
			log.Info("game_solved", map[string]interface{}{"attempts": rec.Attempts})
			return Solved, nil
		}

		r.UI.Attempt(msg)
		if err := r.Store.Save(rec, key); err != nil {
			return Abandoned, err
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

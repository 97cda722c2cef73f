// Package game selects the day's target function and scores guesses
// against it.
package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/catalog"
	"github.com/joss/nixdle/internal/logging"
	"github.com/joss/nixdle/internal/nixtype"
)

// NextClueAttempts is how many attempts earn one more path clue.
const NextClueAttempts = 5

const dateLayout = "2006-01-02"

// State is the engine lifecycle. There is no lost state: the game has no
// attempt limit and an abandoned game simply stops being played.
type State int

const (
	Uninitialized State = iota
	Active
	Won
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Won:
		return "won"
	default:
		return "uninitialized"
	}
}

// Session is the secret target of one game. Its Func must only leave the
// engine inside a successful AttemptMessage.
type Session struct {
	Func        string
	Segments    []string
	Aliases     []string
	Description string
	Args        int
	Input       nixtype.Type
	Output      nixtype.Type
	Commit      string
	CreatedAt   time.Time
}

// Date is the session's calendar day, e.g. "2026-10-15".
func (s *Session) Date() string {
	return s.CreatedAt.Format(dateLayout)
}

// Clues returns every path segment except the function name.
func (s *Session) Clues() []string {
	if len(s.Segments) == 0 {
		return []string{}
	}
	clues := make([]string, len(s.Segments)-1)
	copy(clues, s.Segments[:len(s.Segments)-1])
	return clues
}

// Engine holds one catalog and at most one session.
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	now     func() time.Time
	commit  string
	log     *logging.Logger

	session *Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used to draw the target.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithClock sets the clock used to date the session.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCommit records the nixpkgs commit the catalog was built from.
func WithCommit(commit string) Option {
	return func(e *Engine) {
		e.commit = commit
	}
}

// NewEngine returns an uninitialized engine. The catalog must not be empty:
// selection could never finish.
func NewEngine(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	e := &Engine{
		catalog: cat,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		log:     logging.New("game"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State reports whether a target has been selected.
func (e *Engine) State() State {
	if e.session == nil {
		return Uninitialized
	}
	return Active
}

// Session returns a copy of the current session, or nil before Select.
func (e *Engine) Session() *Session {
	if e.session == nil {
		return nil
	}
	s := *e.session
	return &s
}

// Select draws random records until one is playable and makes it the
// target. Eligibility is checked again here rather than trusted from load.
func (e *Engine) Select() *Session {
	for {
		rec := e.catalog.At(e.rng.IntN(e.catalog.Len()))
		if s, ok := e.start(rec); ok {
			return s
		}
	}
}

func (e *Engine) start(rec *catalog.FunctionRecord) (*Session, bool) {
	desc := firstParagraph(rec.Description)
	if desc == "" {
		return nil, false
	}
	input, output, ok := e.catalog.Types(rec)
	if !ok {
		return nil, false
	}

	e.session = &Session{
		Func:        rec.Name(),
		Segments:    append([]string(nil), rec.Path...),
		Aliases:     rec.AliasNames(),
		Description: desc,
		Args:        e.catalog.ArgCount(rec),
		Input:       input,
		Output:      output,
		Commit:      e.commit,
		CreatedAt:   e.now(),
	}
	e.log.WithSession(e.session.Date()).Debug("target_selected", map[string]interface{}{
		"args":   e.session.Args,
		"input":  input.String(),
		"output": output.String(),
	})
	return e.Session(), true
}

// firstParagraph keeps the text before the first blank line on one line.
func firstParagraph(desc string) string {
	desc = strings.TrimSpace(desc)
	if before, _, found := strings.Cut(desc, "\n\n"); found {
		desc = before
	}
	return strings.TrimSpace(strings.ReplaceAll(desc, "\n", " "))
}

// Evaluate scores a guess made after attempts previous guesses. ok is false
// when the guess names no known function; that must not count as an attempt.
// Evaluate never changes engine state.
func (e *Engine) Evaluate(input string, attempts int) (msg *api.AttemptMessage, ok bool) {
	s := e.mustSession()
	input = strings.TrimSpace(input)

	guess, found := e.catalog.Find(input)
	if !found {
		return nil, false
	}

	if e.isTarget(input, guess) {
		fn, desc := s.Func, s.Description
		return &api.AttemptMessage{
			Success:     true,
			Func:        &fn,
			Description: &desc,
			Clues:       s.Clues(),
			Args:        api.JustRight,
			Input:       true,
			Output:      true,
		}, true
	}

	guessIn, guessOut, typed := e.catalog.Types(guess)
	if !typed {
		return nil, false
	}

	return &api.AttemptMessage{
		Success: false,
		Clues:   revealClues(s.Clues(), attempts),
		Args:    api.CompareArgs(e.catalog.ArgCount(guess), s.Args),
		Input:   guessIn.Equal(s.Input),
		Output:  guessOut.Equal(s.Output),
	}, true
}

func (e *Engine) isTarget(input string, guess *catalog.FunctionRecord) bool {
	s := e.session
	if input == s.Func || guess.Name() == s.Func {
		return true
	}
	for _, alias := range guess.AliasNames() {
		if alias == s.Func {
			return true
		}
	}
	for _, alias := range s.Aliases {
		if alias == guess.Name() {
			return true
		}
	}
	return false
}

// revealClues returns the leading clues earned after attempts guesses.
func revealClues(clues []string, attempts int) []string {
	n := ClueCount(attempts, len(clues))
	return clues[:n]
}

// ClueCount is how many of available clues are shown after attempts guesses.
func ClueCount(attempts, available int) int {
	if attempts < 0 {
		return 0
	}
	return min(attempts/NextClueAttempts, available)
}

// StartMessage describes the current session to a client.
func (e *Engine) StartMessage(attemptURL string) api.StartMessage {
	s := e.mustSession()
	return api.StartMessage{
		Date:          s.Date(),
		AttemptURL:    attemptURL,
		ClueAttempts:  NextClueAttempts,
		PossibleClues: len(s.Clues()),
		Rules:         Rules(),
		Version:       api.Version,
		NixCommit:     s.Commit,
	}
}

// Rules is the text shown to a player before the first guess.
func Rules() string {
	return fmt.Sprintf("you can guess by full path (e.g. 'lib.replaceStrings')\n"+
		"or by name (e.g. 'substring' for 'builtins.substring')\n"+
		"after each guess, you'll see how close you were to the actual function\n"+
		"every %d attempts, you'll get a new path clue", NextClueAttempts)
}

func (e *Engine) mustSession() *Session {
	if e.session == nil {
		panic("game: engine used before Select")
	}
	return e.session
}

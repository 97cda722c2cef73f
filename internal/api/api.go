// Package api defines the messages exchanged between the nixdle server and
// its clients.
package api

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol/software version. Overridden at build time with
// -ldflags "-X github.com/joss/nixdle/internal/api.Version=...".
var Version = "0.1.0"

// StartMessage bootstraps a client session for the day's game.
type StartMessage struct {
	Date          string `json:"date"`
	AttemptURL    string `json:"attempt_url"`
	ClueAttempts  int    `json:"clue_attempts"`
	PossibleClues int    `json:"possible_clues"`
	Rules         string `json:"rules"`
	Version       string `json:"version"`
	NixCommit     string `json:"nix_commit"`
}

// AttemptRequest is one guess submitted by a client.
type AttemptRequest struct {
	Input    string `json:"input" validate:"required"`
	Attempts int    `json:"attempts" validate:"gte=0"`
}

// AttemptMessage is the feedback for a recognized guess. An unrecognized
// guess gets no AttemptMessage at all.
type AttemptMessage struct {
	Success     bool     `json:"success"`
	Func        *string  `json:"func"`
	Description *string  `json:"description"`
	Clues       []string `json:"clues"`
	Args        Matches  `json:"args"`
	Input       bool     `json:"input"`
	Output      bool     `json:"output"`
}

// Matches compares the guessed argument count with the target's.
type Matches int

const (
	JustRight Matches = iota
	TooLow
	TooHigh
)

// CompareArgs reports guess relative to target.
func CompareArgs(guess, target int) Matches {
	switch {
	case guess < target:
		return TooLow
	case guess > target:
		return TooHigh
	default:
		return JustRight
	}
}

var matchesNames = map[Matches]string{
	JustRight: "just-right",
	TooLow:    "too-low",
	TooHigh:   "too-high",
}

func (m Matches) String() string {
	if s, ok := matchesNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Matches(%d)", int(m))
}

// Label is the wording shown to players.
func (m Matches) Label() string {
	switch m {
	case TooLow:
		return "too few"
	case TooHigh:
		return "too many"
	default:
		return "just right"
	}
}

func (m Matches) MarshalJSON() ([]byte, error) {
	s, ok := matchesNames[m]
	if !ok {
		return nil, fmt.Errorf("invalid args match %d", int(m))
	}
	return json.Marshal(s)
}

func (m *Matches) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, name := range matchesNames {
		if name == s {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown args match %q", s)
}

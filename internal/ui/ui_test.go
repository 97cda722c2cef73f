package ui

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/nixdle/internal/api"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut, Themes["nix"]), &out, &errOut
}

func TestThemeByName(t *testing.T) {
	nix, err := ThemeByName("nix")
	require.NoError(t, err)
	lix, err := ThemeByName(" LIX ")
	require.NoError(t, err)

	assert.Equal(t, nix.Base, lix.Alt)
	assert.Equal(t, nix.Alt, lix.Base)

	_, err = ThemeByName("guix")
	assert.ErrorContains(t, err, "nix, lix")
}

func TestWelcomeAndRules(t *testing.T) {
	u, out, _ := newTestUI()

	u.Welcome("0.1.0")
	u.Rules("guess stuff")

	s := out.String()
	assert.Contains(t, s, "nixdle v0.1.0")
	assert.Contains(t, s, "welcome to nixdle!")
	assert.Contains(t, s, "guess stuff good luck!!")
}

func TestDiagnosticsGoToErrOut(t *testing.T) {
	u, out, errOut := newTestUI()

	u.Status("connecting to http://x")
	u.Warning("careful")
	u.Error("the server doesn't know this one :c")
	u.VersionMismatch("0.2.0", "0.1.0")

	assert.Equal(t, "status: connecting to http://x...\n", out.String())
	assert.Equal(t,
		"warning: careful\n"+
			"error: the server doesn't know this one :c\n"+
			"warning: version mismatch (server: 0.2.0, client: 0.1.0)\n",
		errOut.String())
}

func TestAttempt(t *testing.T) {
	tests := []struct {
		name    string
		msg     api.AttemptMessage
		want    []string
		notWant []string
	}{
		{
			name:    "no clues",
			msg:     api.AttemptMessage{Clues: []string{}, Args: api.TooHigh, Input: false, Output: true},
			want:    []string{"arguments:   too many", "input type:   ✘", "output type:   ✔"},
			notWant: []string{"path:"},
		},
		{
			name: "with clues",
			msg:  api.AttemptMessage{Clues: []string{"lib", "strings"}, Args: api.TooLow, Input: true},
			want: []string{"path:        lib.strings", "arguments:   too few", "input type:   ✔", "output type:   ✘"},
		},
		{
			name: "matching arity",
			msg:  api.AttemptMessage{Clues: []string{}, Args: api.JustRight},
			want: []string{"arguments:   just right"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, out, _ := newTestUI()
			u.Attempt(&tt.msg)

			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out.String(), w)
			}
		})
	}
}

func TestSolved(t *testing.T) {
	u, out, _ := newTestUI()

	u.Solved("lib.strings.removeSuffix", "Return a string without the suffix.", 4, 93*time.Second+400*time.Millisecond, "2026-10-15")

	s := out.String()
	assert.Contains(t, s, "date:        2026-10-15")
	assert.Contains(t, s, "time:        93 seconds")
	assert.Contains(t, s, "attempts:    4")
	assert.Contains(t, s, "function:    lib.strings.removeSuffix")
	assert.Contains(t, s, "description: Return a string without the suffix.")
	assert.Contains(t, s, "whoa, you solved today's nixdle! congrats!")
	assert.Contains(t, s, "here's your reward: 🍪")
}

func TestAlreadySolved(t *testing.T) {
	u, out, _ := newTestUI()

	u.AlreadySolved()

	assert.Contains(t, out.String(), "you already solved today's nixdle")
	assert.Contains(t, out.String(), "come back tomorrow")
}

func TestProgress(t *testing.T) {
	u, out, _ := newTestUI()
	u.Progress("", false, nil)
	assert.Contains(t, out.String(), "no game in progress")

	out.Reset()
	u.Progress("2026-10-15", true, []string{"substring", "removeSuffix"})
	s := out.String()
	assert.Contains(t, s, "state:       solved")
	assert.Contains(t, s, "attempts:    2")
	assert.Contains(t, s, "#1 removeSuffix")
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("\n  substring \nlib.id"), &out, Themes["nix"])

	guess, err := p.Prompt("guess#0")
	require.NoError(t, err)
	assert.Equal(t, "substring", guess)
	assert.Contains(t, out.String(), "guess#0 ?")

	// last line without a newline still counts
	guess, err = p.Prompt("guess#1")
	require.NoError(t, err)
	assert.Equal(t, "lib.id", guess)

	_, err = p.Prompt("guess#2")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptModel(t *testing.T) {
	m := newPromptModel(Themes["lix"], "guess#0", lipgloss.NewRenderer(io.Discard))

	// blank input is ignored
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(promptModel)
	assert.False(t, m.done)
	assert.Nil(t, cmd)

	for _, r := range "  attrNames" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(promptModel)
	}
	assert.Contains(t, m.View(), "attrNames")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(promptModel)
	assert.True(t, m.done)
	assert.Equal(t, "attrNames", m.value)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestPromptModelAbort(t *testing.T) {
	m := newPromptModel(Themes["nix"], "guess#3", lipgloss.NewRenderer(io.Discard))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(promptModel)

	assert.True(t, m.aborted)
	assert.False(t, m.done)
}

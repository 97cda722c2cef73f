package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompter reads one guess. It returns io.EOF when the player quits.
type Prompter interface {
	Prompt(label string) (string, error)
}

const promptIcon = "󱄅 "

// NewPrompter returns an interactive prompt when in is a terminal and a
// plain line reader otherwise.
func NewPrompter(in *os.File, out io.Writer, theme Theme) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return &TeaPrompter{in: in, out: out, theme: theme}
	}
	return NewLinePrompter(in, out, theme)
}

// LinePrompter reads guesses line by line, skipping blank lines.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	theme Theme
}

// NewLinePrompter reads from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer, theme Theme) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, theme: theme}
}

func (p *LinePrompter) Prompt(label string) (string, error) {
	for {
		fmt.Fprint(p.out, promptLine(lipgloss.NewRenderer(p.out), p.theme, label))
		line, err := p.in.ReadString('\n')
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(p.out)
			}
			return "", err
		}
	}
}

func promptLine(r *lipgloss.Renderer, theme Theme, label string) string {
	base := r.NewStyle().Foreground(theme.Base)
	return base.Render(promptIcon) + r.NewStyle().Faint(true).Render(label) + " " + base.Render("?") + " "
}

// TeaPrompter runs a one-line bubbletea text input per guess.
type TeaPrompter struct {
	in    io.Reader
	out   io.Writer
	theme Theme
}

func (p *TeaPrompter) Prompt(label string) (string, error) {
	prog := tea.NewProgram(newPromptModel(p.theme, label, lipgloss.NewRenderer(p.out)),
		tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("read guess: %w", err)
	}

	m := final.(promptModel)
	if m.aborted {
		return "", io.EOF
	}
	// echo the accepted guess like the original prompt line
	fmt.Fprintln(p.out, m.base.Render(promptIcon)+m.base.Faint(true).Render(m.value))
	return m.value, nil
}

type promptModel struct {
	input   textinput.Model
	base    lipgloss.Style
	value   string
	done    bool
	aborted bool
}

func newPromptModel(theme Theme, label string, r *lipgloss.Renderer) promptModel {
	ti := textinput.New()
	ti.Prompt = promptLine(r, theme, label)
	ti.CharLimit = 256
	ti.Focus()
	return promptModel{
		input: ti,
		base:  r.NewStyle().Foreground(theme.Base),
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			v := strings.TrimSpace(m.input.Value())
			if v == "" {
				return m, nil
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.input.View()
}

// Package ui renders the nixdle client's terminal output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/joss/nixdle/internal/api"
)

// UI writes game output to out and diagnostics to errOut.
type UI struct {
	out    io.Writer
	errOut io.Writer
	theme  Theme

	base   lipgloss.Style
	alt    lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
	yes    lipgloss.Style
	no     lipgloss.Style
	green  lipgloss.Style
	strong lipgloss.Style

	statusColor  *color.Color
	warningColor *color.Color
	errorColor   *color.Color

	// statusLines is how many lines the last status message occupies on a
	// terminal; they are erased before the next output.
	statusLines int
	tty         bool
}

// New returns a UI for theme. Colors are only emitted to terminals.
func New(out, errOut io.Writer, theme Theme) *UI {
	r := lipgloss.NewRenderer(out)
	u := &UI{
		out:    out,
		errOut: errOut,
		theme:  theme,

		base:   r.NewStyle().Foreground(theme.Base),
		alt:    r.NewStyle().Foreground(theme.Alt).Bold(true),
		dim:    r.NewStyle().Faint(true),
		bold:   r.NewStyle().Bold(true),
		yes:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		no:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		green:  r.NewStyle().Foreground(lipgloss.Color("2")),
		strong: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),

		statusColor:  color.New(color.FgGreen, color.Bold),
		warningColor: color.New(color.FgYellow, color.Bold),
		errorColor:   color.New(color.FgRed, color.Bold),

		tty: isTerminal(out),
	}
	if !isTerminal(errOut) {
		u.statusColor.DisableColor()
		u.warningColor.DisableColor()
		u.errorColor.DisableColor()
	}
	return u
}

// Theme returns the active theme.
func (u *UI) Theme() Theme {
	return u.theme
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (u *UI) clearStatus() {
	if u.tty {
		for range u.statusLines {
			// cursor up, erase line
			fmt.Fprint(u.out, "\x1b[1A\x1b[2K")
		}
	}
	u.statusLines = 0
}

// Welcome prints the banner.
func (u *UI) Welcome(version string) {
	fmt.Fprintf(u.out, "%s v%s\n%s\ntry to guess today's nix function\n\n",
		u.base.Bold(true).Render("nixdle"),
		version,
		u.alt.Render("welcome to nixdle!"))
}

// Rules prints the server's rules text.
func (u *UI) Rules(text string) {
	fmt.Fprintf(u.out, "%s %s\n\n", u.dim.Render(text), u.bold.Render("good luck!!"))
}

// Status prints a transient progress line. It is erased by the next output.
func (u *UI) Status(text string) {
	u.clearStatus()
	fmt.Fprintf(u.out, "%s: %s...\n", u.statusColor.Sprint("status"), text)
	u.statusLines = strings.Count(text, "\n") + 1
}

// Warning prints a non-fatal problem to errOut.
func (u *UI) Warning(text string) {
	u.clearStatus()
	fmt.Fprintf(u.errOut, "%s: %s\n", u.warningColor.Sprint("warning"), text)
}

// Error prints a problem to errOut.
func (u *UI) Error(text string) {
	u.clearStatus()
	fmt.Fprintf(u.errOut, "%s: %s\n", u.errorColor.Sprint("error"), text)
}

// VersionMismatch warns that client and server versions differ.
func (u *UI) VersionMismatch(server, client string) {
	u.Warning(fmt.Sprintf("version mismatch (server: %s, client: %s)", server, client))
}

func (u *UI) mark(ok bool) string {
	if ok {
		return u.yes.Render("✔")
	}
	return u.no.Render("✘")
}

// Attempt prints the feedback for a wrong guess.
func (u *UI) Attempt(msg *api.AttemptMessage) {
	u.clearStatus()
	if len(msg.Clues) > 0 {
		fmt.Fprintf(u.out, "  %s        %s\n", u.base.Render("path:"), u.dim.Render(strings.Join(msg.Clues, ".")))
	}
	fmt.Fprintf(u.out, "  %s   %s\n  %s   %s\n  %s   %s\n",
		u.base.Render("arguments:"), u.dim.Render(msg.Args.Label()),
		u.base.Render("input type:"), u.mark(msg.Input),
		u.base.Render("output type:"), u.mark(msg.Output))
}

// Solved prints the win summary.
func (u *UI) Solved(fn, description string, attempts int, elapsed time.Duration, date string) {
	u.clearStatus()
	fmt.Fprintf(u.out, "  %s        %s\n  %s        %d seconds\n  %s    %d\n  %s    %s\n  %s %s\n\n",
		u.base.Render("date:"), date,
		u.base.Render("time:"), int(elapsed.Seconds()),
		u.base.Render("attempts:"), attempts,
		u.base.Render("function:"), u.bold.Render(fn),
		u.base.Render("description:"), u.dim.Render(description))
	fmt.Fprintf(u.out, "%s%s%s\nhere's your reward: 🍪\n",
		u.strong.Render("whoa"),
		u.green.Render(", you solved today's nixdle! "),
		u.strong.Render("congrats!"))
}

// AlreadySolved tells the player today's game is over for them.
func (u *UI) AlreadySolved() {
	u.clearStatus()
	fmt.Fprintf(u.out, "%s%s\ngo like %s or something??\nyou %s get another reward!!! (come back tomorrow)\n",
		u.green.Render("you already solved today's nixdle, "),
		u.strong.Underline(true).Render("dumbass"),
		u.bold.Render("touch grass"),
		u.no.Underline(true).Render("won't"))
}

// Progress prints a saved record for the status command.
func (u *UI) Progress(date string, success bool, attempted []string) {
	if date == "" {
		fmt.Fprintln(u.out, u.dim.Render("no game in progress"))
		return
	}
	state := u.dim.Render("in progress")
	if success {
		state = u.strong.Render("solved")
	}
	fmt.Fprintf(u.out, "  %s        %s\n  %s       %s\n  %s    %d\n",
		u.base.Render("date:"), date,
		u.base.Render("state:"), state,
		u.base.Render("attempts:"), len(attempted))
	for i, guess := range attempted {
		fmt.Fprintf(u.out, "    %s %s\n", u.dim.Render(fmt.Sprintf("#%d", i)), guess)
	}
}

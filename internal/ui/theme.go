package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a pair of accent colors.
type Theme struct {
	Name string
	Base lipgloss.Color
	Alt  lipgloss.Color
}

var (
	blue    = lipgloss.Color("4")
	magenta = lipgloss.Color("5")
)

// Themes lists the built-in themes by name.
var Themes = map[string]Theme{
	"nix": {Name: "nix", Base: blue, Alt: magenta},
	"lix": {Name: "lix", Base: magenta, Alt: blue},
}

// ThemeNames returns the accepted --theme values.
func ThemeNames() []string {
	return []string{"nix", "lix"}
}

// ThemeByName looks up a theme, case-insensitively.
func ThemeByName(name string) (Theme, error) {
	t, ok := Themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}

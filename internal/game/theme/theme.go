// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     theme
// Description: Terminal colour themes selectable by players
// Author:      Nexus Root Team
// Created:     2026-03-11
// License:     MIT
// ============================================================================

package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named terminal palette
type Theme struct {
	Name       string
	Foreground lipgloss.Color
	Background lipgloss.Color
	Prompt     lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
}

// Styles are the rendered lipgloss styles of a theme
type Styles struct {
	Output lipgloss.Style
	Prompt lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
	Header lipgloss.Style
	Box    lipgloss.Style
}

var themes = map[string]Theme{
	"default": {
		Name:       "default",
		Foreground: lipgloss.Color("#F9FAFB"),
		Background: lipgloss.Color("#000000"),
		Prompt:     lipgloss.Color("#10B981"),
		Accent:     lipgloss.Color("#7C3AED"),
		Error:      lipgloss.Color("#EF4444"),
		Muted:      lipgloss.Color("#6B7280"),
	},
	"cyberpunk": {
		Name:       "cyberpunk",
		Foreground: lipgloss.Color("#22D3EE"),
		Background: lipgloss.Color("#4A044E"),
		Prompt:     lipgloss.Color("#F0ABFC"),
		Accent:     lipgloss.Color("#FACC15"),
		Error:      lipgloss.Color("#FB7185"),
		Muted:      lipgloss.Color("#A78BFA"),
	},
	"retro": {
		Name:       "retro",
		Foreground: lipgloss.Color("#4ADE80"),
		Background: lipgloss.Color("#000000"),
		Prompt:     lipgloss.Color("#4ADE80"),
		Accent:     lipgloss.Color("#86EFAC"),
		Error:      lipgloss.Color("#FDE047"),
		Muted:      lipgloss.Color("#166534"),
	},
}

// Lookup returns the theme called name
func Lookup(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// Get returns the theme called name, or the default theme
func Get(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// Exists reports whether name is a known theme
func Exists(name string) bool {
	_, ok := themes[name]
	return ok
}

// Names returns the theme names, sorted
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles builds the lipgloss styles for t
func (t Theme) Styles() Styles {
	return Styles{
		Output: lipgloss.NewStyle().Foreground(t.Foreground),
		Prompt: lipgloss.NewStyle().Foreground(t.Prompt).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(t.Error),
		Muted:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			Background(t.Background).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, symbols and the panel border.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error lipgloss.Style
	Selected                             lipgloss.Style
	Border                               lipgloss.Border
	BorderColor                          lipgloss.TerminalColor
	SymOK, SymFail, Bullet               string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),
		SymOK:       "✔",
		SymFail:     "✖",
		Bullet:      "•",
	}
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
		Selected:    plain,
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.NoColor{},
		SymOK:       "ok",
		SymFail:     "error:",
		Bullet:      "-",
	}
}

// SetTheme selects "classic" (default) or "mono".
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }

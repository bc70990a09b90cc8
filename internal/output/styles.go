package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles maps semantic types to lipgloss styles.
type Styles map[SemanticType]lipgloss.Style

// DefaultStyles returns the styles used for test reports.
func DefaultStyles() Styles {
	return Styles{
		SemanticSuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		SemanticFailure:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		SemanticError:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		SemanticProgress: lipgloss.NewStyle().Faint(true),
		SemanticDetail:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// colorSupported reports whether the current terminal renders colors.
func colorSupported() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

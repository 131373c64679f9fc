// Package lipgloss renders comparison results for the terminal using the
// Lipgloss styling library.
package lipgloss

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	comparator "github.com/subrat-kp/response-comparator"
)

// Compile-time interface verification.
var _ comparator.ResultRenderer = (*Renderer)(nil)

// separatorWidth is the width of the rule under the header.
const separatorWidth = 50

// Renderer implements comparator.ResultRenderer with Lipgloss styles.
type Renderer struct {
	header    lipgloss.Style
	separator lipgloss.Style
	verdict   lipgloss.Style
}

// NewRenderer creates a Renderer. Styling is applied only when the terminal
// supports color; otherwise output is plain text.
func NewRenderer() *Renderer {
	if termenv.ColorProfile() == termenv.Ascii {
		return NewPlainRenderer()
	}
	return &Renderer{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")), // Blue
		separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#45475a")), // Muted gray
		verdict: lipgloss.NewStyle(),
	}
}

// NewPlainRenderer creates a Renderer that applies no styling.
func NewPlainRenderer() *Renderer {
	return &Renderer{
		header:    lipgloss.NewStyle(),
		separator: lipgloss.NewStyle(),
		verdict:   lipgloss.NewStyle(),
	}
}

// Render returns the result block: header, separator rule and verdict text.
func (r *Renderer) Render(result comparator.Result) string {
	var sb strings.Builder
	sb.WriteString(r.header.Render("Comparison Result:"))
	sb.WriteString("\n")
	sb.WriteString(r.separator.Render(strings.Repeat("-", separatorWidth)))
	sb.WriteString("\n")
	sb.WriteString(r.verdict.Render(result.ComparisonResult))
	return sb.String()
}

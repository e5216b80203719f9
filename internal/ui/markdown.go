package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer converts Markdown to styled terminal output.
// Uses glamour with auto-detected theme. A nil renderer degrades to
// plain text.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer with terminal-appropriate styling.
// Rendering failures degrade gracefully to plain text.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width <= 0 {
		width = 80 // Default terminal width
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Detect light/dark terminal
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &MarkdownRenderer{}
	}

	return &MarkdownRenderer{renderer: r}
}

// Render converts Markdown to styled terminal output.
// Returns the original text if rendering fails.
func (m *MarkdownRenderer) Render(markdown string) string {
	if m == nil || m.renderer == nil {
		return markdown
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	// Trim trailing newlines added by glamour
	return strings.TrimSuffix(rendered, "\n")
}

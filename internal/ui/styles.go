// Package ui provides terminal presentation helpers for the chat loop:
// lipgloss styles for the prompt and status lines, and a glamour-backed
// Markdown renderer for model output.
package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// BridgeDB green, loosely matching the project's web palette.
const accentColor = "#34A853"

var bannerArt = []string{
	` ___      _    _          ___ _         _   `,
	`| _ )_ _ (_)__| |__ _ ___/ __| |_  __ _| |_ `,
	`| _ \ '_|| / _` + "`" + ` / _` + "`" + ` / -_) (__| ' \/ _` + "`" + ` |  _|`,
	`|___/_|  |_\__,_\__, \___|\___|_||_\__,_|\__|`,
	`                |___/                        `,
}

// Styles contains all lipgloss styles for the chat loop.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentColor)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
	}
}

// RenderBanner returns the ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range bannerArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Tips for getting started:",
	"  - Ask about genes, compounds, or identifiers in plain language",
	"  - Try: \"Map the Ensembl ID ENSG00000139618 to other databases\"",
	"  - Try: \"Find mappings for Busulfan\"",
	"  - Use /help to see available commands, Ctrl+D to exit",
}

// RenderWelcomeTips returns the styled getting-started block.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.System.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

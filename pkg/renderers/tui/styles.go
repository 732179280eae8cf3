package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorPrimary     = lipgloss.Color("#00CB46")
	colorPrimaryDark = lipgloss.Color("#00B33E")
	colorError       = lipgloss.Color("#DC2626")
	colorMuted       = lipgloss.Color("#6B7280")

	progressWidth = 20
)

type styles struct {
	title    lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	errorMsg lipgloss.Style
	success  lipgloss.Style
	filled   lipgloss.Style
	empty    lipgloss.Style
	current  lipgloss.Style
	done     lipgloss.Style
}

// newStyles resolves styles against out so color output matches what the
// writer supports.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(colorPrimaryDark),
		text:     r.NewStyle(),
		muted:    r.NewStyle().Foreground(colorMuted),
		errorMsg: r.NewStyle().Foreground(colorError),
		success:  r.NewStyle().Foreground(colorPrimary),
		filled:   r.NewStyle().Foreground(colorPrimary),
		empty:    r.NewStyle().Foreground(colorMuted),
		current:  r.NewStyle().Bold(true).Foreground(colorPrimary),
		done:     r.NewStyle().Foreground(colorPrimaryDark),
	}
}

func (s styles) progressBar(percent int) string {
	filled := progressWidth * percent / 100
	return s.filled.Render(strings.Repeat("█", filled)) + s.empty.Render(strings.Repeat("░", progressWidth-filled))
}

func isHeading(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	default:
		return false
	}
}

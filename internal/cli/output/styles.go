package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Status markers; use String().
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#9D8CFF"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

func newStyles(lr *lipgloss.Renderer, color bool) *Styles {
	if !color {
		plain := lr.NewStyle()
		return &Styles{
			Header1:       plain,
			Header2:       plain,
			Bold:          plain,
			Muted:         plain,
			Success:       plain,
			Warning:       plain,
			Error:         plain,
			StatusSuccess: plain.SetString("ok"),
			StatusFailed:  plain.SetString("FAIL"),
		}
	}
	return &Styles{
		Header1:       lr.NewStyle().Bold(true).Foreground(colorAccent),
		Header2:       lr.NewStyle().Bold(true),
		Bold:          lr.NewStyle().Bold(true),
		Muted:         lr.NewStyle().Foreground(colorMuted),
		Success:       lr.NewStyle().Foreground(colorSuccess),
		Warning:       lr.NewStyle().Foreground(colorWarning),
		Error:         lr.NewStyle().Foreground(colorError),
		StatusSuccess: lr.NewStyle().Foreground(colorSuccess).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(colorError).SetString("✗"),
	}
}

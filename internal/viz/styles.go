package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the lipgloss style set derived from a Theme.
type Styles struct {
	Header     lipgloss.Style
	Subtle     lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Cell       lipgloss.Style
	InnerCell  lipgloss.Style
	NextCell   lipgloss.Style
	KeyCell    lipgloss.Style
	Inner      lipgloss.Style
	Next       lipgloss.Style
	Key        lipgloss.Style
	Code       lipgloss.Style
	CodeActive lipgloss.Style
	Running    lipgloss.Style
	Done       lipgloss.Style
	Help       lipgloss.Style
	Panel      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	cell := lipgloss.NewStyle().
		Width(5).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color("#ffffff")).
		Background(t.Cell).
		Margin(0, 1, 0, 0)

	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Subtle:     lipgloss.NewStyle().Foreground(t.Muted),
		Label:      lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:      lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Cell:       cell,
		InnerCell:  cell.Background(t.Inner),
		NextCell:   cell.Background(t.Next),
		KeyCell:    cell.Background(t.Key).Foreground(lipgloss.Color("#000000")),
		Inner:      lipgloss.NewStyle().Foreground(t.Inner).Bold(true),
		Next:       lipgloss.NewStyle().Foreground(t.Next).Bold(true),
		Key:        lipgloss.NewStyle().Foreground(t.Key).Bold(true),
		Code:       lipgloss.NewStyle().Foreground(t.Text).PaddingLeft(1),
		CodeActive: lipgloss.NewStyle().Foreground(t.Accent).Background(t.CodeLine).Bold(true).PaddingLeft(1),
		Running:    lipgloss.NewStyle().Foreground(t.Key).Bold(true),
		Done:       lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Help:       lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// SizeBar renders a slider position within [lo, hi].
func SizeBar(value, lo, hi, width int) string {
	if hi <= lo {
		return strings.Repeat("░", width)
	}
	filled := (value - lo) * width / (hi - lo)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Separator is a decorative rule of the given width.
func (s Styles) Separator(width int) string {
	if width < 8 {
		return s.Subtle.Render(strings.Repeat("─", width))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Subtle.Render(left + " ◆ " + right)
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	subtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

func (t Theme) title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
}

func (t Theme) status(running bool) lipgloss.Style {
	c := t.Accent
	if !running {
		c = t.Muted
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// ProgressBar renders frac in [0, 1] as a filled bar of the given width.
func ProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// CompositionBar splits width cells between the nucleotide counts in
// proportion, colored by theme.
func CompositionBar(t Theme, atp, adpPi, adp, width int) string {
	total := atp + adpPi + adp
	if total == 0 || width <= 0 {
		return subtle.Render(strings.Repeat("·", max(width, 0)))
	}
	a := atp * width / total
	p := adpPi * width / total
	d := width - a - p
	return lipgloss.NewStyle().Foreground(t.ATP).Render(strings.Repeat("█", a)) +
		lipgloss.NewStyle().Foreground(t.ADPPi).Render(strings.Repeat("█", p)) +
		lipgloss.NewStyle().Foreground(t.ADP).Render(strings.Repeat("█", d))
}

// Sparkline renders values as block heights, sampling to fit width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	chars := []rune("▁▂▃▄▅▆▇█")
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	stride := max(1, len(values)/width)
	var b strings.Builder
	for i := 0; i < width && i*stride < len(values); i++ {
		idx := int((values[i*stride] - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(len(chars)-1, idx))])
	}
	return b.String()
}

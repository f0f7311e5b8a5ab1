package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/euleretal/internal/step"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	// One color per physical quantity, shared by trees and plots.
	PositionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	VelocityStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	AccelerationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	ReferenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

func KindStyle(k step.Kind) lipgloss.Style {
	switch k {
	case step.KindPosition:
		return PositionStyle
	case step.KindVelocity:
		return VelocityStyle
	default:
		return AccelerationStyle
	}
}

// SparklineChart renders a one line overview of values, sampled to width.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	stride := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*stride < len(values); i++ {
		norm := (values[i*stride] - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

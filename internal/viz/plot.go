package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// ErrorPlot charts per-step errors. It returns an empty string for no data.
func ErrorPlot(errors []float64, width, height int, caption string) string {
	if len(errors) == 0 {
		return ""
	}
	return asciigraph.Plot(errors,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// CompareErrors overlays several error series in one chart.
func CompareErrors(series [][]float64, width, height int, caption string) string {
	data := slices.DeleteFunc(slices.Clone(series), func(s []float64) bool { return len(s) == 0 })
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Red, asciigraph.Blue, asciigraph.Magenta}
	seriesColors := make([]asciigraph.AnsiColor, len(data))
	for i := range data {
		seriesColors[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(seriesColors...),
		asciigraph.Caption(caption))
}

// RenderMetrics lists metric values sorted by name.
func RenderMetrics(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-20s", name)))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", values[name])))
		b.WriteString("\n")
	}
	return b.String()
}

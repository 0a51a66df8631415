package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders data as an ascii line chart, downsampled to width
// points.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return "(no data)"
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(downsample(data, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step)]
	}
	return out
}

// Summary renders metrics as a titled two-column panel, sorted by name.
func Summary(title string, metrics map[string]float64, st Styles) string {
	names := make([]string, 0, len(metrics))
	width := 0
	for name := range metrics {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	rows := []string{st.Header.Render(title)}
	for _, name := range names {
		label := st.Label.Render(fmt.Sprintf("%-*s", width, name))
		rows = append(rows, label+"  "+st.Value.Render(fmt.Sprintf("%.4f", metrics[name])))
	}
	if len(names) == 0 {
		rows = append(rows, st.Hint.Render("no metrics"))
	}
	return st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from one Theme.
type Styles struct {
	Panel  lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Hint   lipgloss.Style
	Header lipgloss.Style

	High lipgloss.Style
	Mid  lipgloss.Style
	Low  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Foreground(t.Muted),
		Value: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Hint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		High: lipgloss.NewStyle().Foreground(t.Success),
		Mid:  lipgloss.NewStyle().Foreground(t.Warning),
		Low:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Phase colours a controller phase name.
func (s Styles) Phase(phase string) string {
	switch phase {
	case "placing":
		return s.Mid.Bold(true).Render(phase)
	case "settling":
		return s.High.Bold(true).Render(phase)
	case "tossed":
		return s.Low.Bold(true).Render(phase)
	}
	return s.Label.Render(phase)
}

func (s Styles) Row(label, value string) string {
	return s.Label.Render(label+": ") + s.Value.Render(value)
}

// ProgressBar renders frac of width cells, coloured by how full it is.
func (s Styles) ProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(width, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case frac > 0.8:
		return s.High.Render(bar)
	case frac > 0.4:
		return s.Mid.Render(bar)
	}
	return s.Low.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled between their min and max.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := max(0, min(len(sparkChars)-1, int(norm*float64(len(sparkChars)-1))))
		c := string(sparkChars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(s.High.Render(c))
		case norm > 0.3:
			b.WriteString(s.Mid.Render(c))
		default:
			b.WriteString(s.Low.Render(c))
		}
	}
	return b.String()
}

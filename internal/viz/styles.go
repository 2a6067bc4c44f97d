package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// SparklineChart renders a mini sparkline from values, coloured by the
// theme: low values use Low, high values High.
func SparklineChart(values []float64, width int, theme Theme) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	// Sparkline characters from low to high
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

	// Keep the most recent values that fit.
	if len(values) > width {
		values = values[len(values)-width:]
	}

	high := lipgloss.NewStyle().Foreground(theme.High)
	mid := lipgloss.NewStyle().Foreground(theme.Mid)
	low := lipgloss.NewStyle().Foreground(theme.Low)

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(high.Render(c))
		case norm > 0.3:
			result.WriteString(mid.Render(c))
		default:
			result.WriteString(low.Render(c))
		}
	}
	return result.String()
}

// hexColor formats an 8-bit RGB triple as a lipgloss colour string.
func hexColor(r, g, b uint8) string {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

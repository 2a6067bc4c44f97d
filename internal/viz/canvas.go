package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fbmandel/internal/surface"
)

const halfBlock = "▀"

type cellColours struct {
	top, bottom string
}

// Canvas turns a surface into terminal lines, two pixel rows per line.
// Styles are cached per colour pair since fractal frames reuse few
// colours.
type Canvas struct {
	styles map[cellColours]lipgloss.Style
}

func NewCanvas() *Canvas {
	return &Canvas{styles: make(map[cellColours]lipgloss.Style)}
}

func (c *Canvas) style(k cellColours) lipgloss.Style {
	st, ok := c.styles[k]
	if !ok {
		st = lipgloss.NewStyle().
			Foreground(lipgloss.Color(k.top)).
			Background(lipgloss.Color(k.bottom))
		c.styles[k] = st
	}
	return st
}

// Lines renders s. An odd final pixel row is paired with black.
func (c *Canvas) Lines(s *surface.Surface) []string {
	rows := (s.Height() + 1) / 2
	lines := make([]string, rows)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		b.Reset()
		y := row * 2
		for x := 0; x < s.Width(); x++ {
			tr, tg, tb := s.ReadPixel(x, y)
			br, bg, bb := s.ReadPixel(x, y+1)
			k := cellColours{top: hexColor(tr, tg, tb), bottom: hexColor(br, bg, bb)}
			b.WriteString(c.style(k).Render(halfBlock))
		}
		lines[row] = b.String()
	}
	return lines
}

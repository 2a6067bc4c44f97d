package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/surface"
	"github.com/san-kum/fbmandel/internal/view"
)

const historyCapacity = 120

// Sink draws frames into a terminal. The surface is 24bpp with one
// column per cell and two rows per cell.
type Sink struct {
	surf    *surface.Surface
	canvas  *Canvas
	program *tea.Program
	zoomIn  float64
	zoomOut float64

	mu       sync.Mutex
	dispatch func(view.Action)
	lines    []string
	current  view.State
	elapsed  []float64
	closed   bool
}

type frameMsg struct{}

// New creates a sink for a terminal of cols x rows cells. One row is kept
// for the status line.
func New(cols, rows int) (*Sink, error) {
	if rows < 2 {
		rows = 2
	}
	surf, err := surface.NewBuffer(cols, (rows-1)*2, 24)
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}
	s := &Sink{
		surf:    surf,
		canvas:  NewCanvas(),
		zoomIn:  0.9,
		zoomOut: 2.0,
		elapsed: make([]float64, 0, historyCapacity),
	}
	return s, nil
}

func (s *Sink) SetZoom(in, out float64) {
	s.zoomIn, s.zoomOut = in, out
}

// OnAction sets the receiver of keyboard and mouse input.
func (s *Sink) OnAction(fn func(view.Action)) {
	s.mu.Lock()
	s.dispatch = fn
	s.mu.Unlock()
}

func (s *Sink) Surface() *surface.Surface { return s.surf }

// Observe records the statistics of the frame about to be presented.
func (s *Sink) Observe(stats render.Stats, v view.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = v
	if len(s.elapsed) == historyCapacity {
		copy(s.elapsed, s.elapsed[1:])
		s.elapsed = s.elapsed[:historyCapacity-1]
	}
	s.elapsed = append(s.elapsed, float64(stats.Elapsed)/float64(time.Millisecond))
}

func (s *Sink) Present() error {
	lines := s.canvas.Lines(s.surf)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("viz: closed")
	}
	s.lines = lines
	p := s.program
	s.mu.Unlock()

	if p != nil {
		p.Send(frameMsg{})
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Run takes over the terminal until the user quits or ctx is done.
func (s *Sink) Run(ctx context.Context) error {
	p := tea.NewProgram(newModel(s),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()

	_, err := p.Run()

	s.mu.Lock()
	s.program = nil
	s.mu.Unlock()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Sink) emit(a view.Action) {
	s.mu.Lock()
	fn := s.dispatch
	s.mu.Unlock()
	if fn != nil {
		fn(a)
	}
}

type model struct {
	sink  *Sink
	theme Theme
	frame string
	width int
}

func newModel(s *Sink) model {
	return model{sink: s, theme: ThemeCyberpunk, width: s.surf.Width()}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg { return frameMsg{} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.sink
	cx, cy := s.surf.Width()/2, s.surf.Height()/2

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			s.emit(view.Shutdown{})
			return m, tea.Quit
		case "r":
			s.emit(view.Reset{})
		case "c":
			s.emit(view.CyclePalette{})
		case "s":
			s.emit(view.SaveView{})
		case "o":
			s.emit(view.ZoomAt{X: cx, Y: cy, Factor: s.zoomOut})
		case "+", "=":
			s.emit(view.ZoomAt{X: cx, Y: cy, Factor: s.zoomIn})
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease {
			x, y := msg.X, msg.Y*2
			if s.surf.Contains(x, y) {
				s.emit(view.ZoomAt{X: x, Y: y, Factor: s.zoomIn})
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		s.mu.Lock()
		m.frame = strings.Join(s.lines, "\n")
		s.mu.Unlock()
	}
	return m, nil
}

func (m model) View() string {
	return m.frame + "\n" + m.status()
}

func (m model) status() string {
	s := m.sink
	s.mu.Lock()
	v := s.current
	elapsed := append([]float64(nil), s.elapsed...)
	s.mu.Unlock()

	label := lipgloss.NewStyle().Foreground(m.theme.Muted)
	value := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	last, zoom := 0.0, 1.0
	if len(elapsed) > 0 {
		last = elapsed[len(elapsed)-1]
	}
	if v.Scaling > 0 {
		zoom = view.DefaultScaling / v.Scaling
	}
	text := label.Render("zoom ") + value.Render(fmt.Sprintf("%.3g", zoom)) +
		label.Render("  colour ") + value.Render(fmt.Sprintf("%d", v.ColourOffset)) +
		label.Render("  render ") + value.Render(fmt.Sprintf("%.1fms ", last))

	room := m.width - lipgloss.Width(text) - 1
	if room > 0 {
		text += " " + SparklineChart(elapsed, min(room, 30), m.theme)
	}
	return text
}

package input

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fbmandel/internal/view"
)

// LineSource is a fixed set of binary input lines. A true level is the
// released (pulled-up) state.
type LineSource interface {
	Len() int
	Read(i int) (bool, error)
}

// ButtonTable maps a line index to its action. Nil entries are ignored.
type ButtonTable []view.Action

// DefaultButtonTable is the PiTFT layout: save, zoom out, reset, cycle.
func DefaultButtonTable(width, height int, zoomOut float64) ButtonTable {
	return ButtonTable{
		view.SaveView{},
		view.ZoomAt{X: width / 2, Y: height / 2, Factor: zoomOut},
		view.Reset{},
		view.CyclePalette{},
	}
}

// ButtonPoller reports presses on a set of lines. Only the high to low
// edge counts; releases and held buttons produce nothing.
type ButtonPoller struct {
	lines  LineSource
	table  ButtonTable
	prev   []bool
	primed bool
}

func NewButtonPoller(lines LineSource, table ButtonTable) (*ButtonPoller, error) {
	if lines == nil || lines.Len() == 0 {
		return nil, ErrNoLines
	}
	return &ButtonPoller{
		lines: lines,
		table: table,
		prev:  make([]bool, lines.Len()),
	}, nil
}

// Poll samples every line once. The first call only records levels.
func (p *ButtonPoller) Poll() ([]view.Action, error) {
	var actions []view.Action
	for i := range p.prev {
		level, err := p.lines.Read(i)
		if err != nil {
			return actions, fmt.Errorf("input: read line %d: %w", i, err)
		}
		if p.primed && p.prev[i] && !level && i < len(p.table) && p.table[i] != nil {
			actions = append(actions, p.table[i])
		}
		p.prev[i] = level
	}
	p.primed = true
	return actions, nil
}

// Run polls at interval until ctx is cancelled or a line read fails.
func (p *ButtonPoller) Run(ctx context.Context, interval time.Duration, emit func(view.Action)) error {
	if interval <= 0 {
		interval = DefaultButtonInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		actions, err := p.Poll()
		for _, a := range actions {
			emit(a)
		}
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

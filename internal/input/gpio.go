package input

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOLines reads buttons wired between a GPIO and ground, using the
// internal pull-ups.
type GPIOLines struct {
	pins []gpio.PinIO
}

func OpenGPIO(names []string) (*GPIOLines, error) {
	if len(names) == 0 {
		return nil, ErrNoLines
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("input: gpio host init: %w", err)
	}

	pins := make([]gpio.PinIO, 0, len(names))
	for _, name := range names {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("input: gpio %s not found", name)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("input: gpio %s: %w", name, err)
		}
		pins = append(pins, p)
	}
	return &GPIOLines{pins: pins}, nil
}

func (g *GPIOLines) Len() int { return len(g.pins) }

func (g *GPIOLines) Read(i int) (bool, error) {
	if i < 0 || i >= len(g.pins) {
		return true, fmt.Errorf("input: line %d out of range", i)
	}
	return g.pins[i].Read() == gpio.High, nil
}

func (g *GPIOLines) Names() []string {
	names := make([]string, len(g.pins))
	for i, p := range g.pins {
		names[i] = p.Name()
	}
	return names
}

package view

import "fmt"

// Action is a semantic input event. The concrete types are the only
// implementations.
type Action interface {
	action()
	fmt.Stringer
}

// ZoomAt rescales the view around a surface pixel.
type ZoomAt struct {
	X, Y   int
	Factor float64
}

// Reset restores the home view.
type Reset struct{}

// CyclePalette advances the colour offset by one band.
type CyclePalette struct{}

// SaveView appends the current view to the saved view store.
type SaveView struct{}

// Shutdown stops the program.
type Shutdown struct{}

func (ZoomAt) action()       {}
func (Reset) action()        {}
func (CyclePalette) action() {}
func (SaveView) action()     {}
func (Shutdown) action()     {}

func (a ZoomAt) String() string {
	return fmt.Sprintf("zoom(%d,%d x%.3g)", a.X, a.Y, a.Factor)
}
func (Reset) String() string        { return "reset" }
func (CyclePalette) String() string { return "cycle-palette" }
func (SaveView) String() string     { return "save-view" }
func (Shutdown) String() string     { return "shutdown" }

// ParseAction maps a config name to an action. Zoom actions centre on
// (cx, cy) with the given factor.
func ParseAction(name string, cx, cy int, factor float64) (Action, error) {
	switch name {
	case "save", "save_view":
		return SaveView{}, nil
	case "zoom_in", "zoom_out":
		return ZoomAt{X: cx, Y: cy, Factor: factor}, nil
	case "reset":
		return Reset{}, nil
	case "cycle", "cycle_palette":
		return CyclePalette{}, nil
	case "shutdown", "quit":
		return Shutdown{}, nil
	}
	return nil, fmt.Errorf("unknown action: %s", name)
}

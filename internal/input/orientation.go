package input

import (
	"fmt"
	"strings"
)

// Orientation maps raw touch coordinates onto surface pixels.
type Orientation int

const (
	// Direct scales each axis independently.
	Direct Orientation = iota
	// Rotate90 is for panels mounted a quarter turn from the digitiser.
	Rotate90
)

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return Direct, nil
	case "rotate90", "rot90", "90":
		return Rotate90, nil
	}
	return Direct, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

func (o Orientation) String() string {
	if o == Rotate90 {
		return "rotate90"
	}
	return "direct"
}

// Range is the digitiser's maximum X and Y value.
type Range struct {
	MaxX, MaxY int
}

// Map converts a touch point to surface coordinates for a width x height
// surface.
func (o Orientation) Map(tx, ty int, r Range, width, height int) (int, int) {
	if r.MaxX <= 0 || r.MaxY <= 0 {
		return -1, -1
	}
	switch o {
	case Rotate90:
		return (r.MaxY - ty) * width / r.MaxY, tx * height / r.MaxX
	default:
		return tx * width / r.MaxX, ty * height / r.MaxY
	}
}

package input

// Linux input event types and codes used by the touch tracker.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvAbs uint16 = 0x03

	AbsX uint16 = 0x00
	AbsY uint16 = 0x01

	BtnTouch uint16 = 0x14a
)

// Event is one evdev record without its timestamp.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

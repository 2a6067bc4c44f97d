// Package input turns raw touch and button activity into view actions.
//
// Device access and interpretation are kept apart: [TouchTracker] and
// [ButtonPoller] are pure state machines fed with events or line levels,
// while [TouchDevice] (Linux evdev) and [GPIOLines] (periph.io) talk to
// hardware. Both poll loops stop when their context is cancelled.
package input

// Package viz shows the explorer in a terminal using the Bubble Tea
// framework.
//
// Each character cell carries two vertically stacked pixels: the upper
// half block takes the top pixel as its foreground and the bottom pixel as
// its background, so a terminal of C columns and R rows shows a C x 2R
// surface.
//
// # Key Bindings
//
//	Click - Zoom in around the clicked cell
//	+     - Zoom in around the centre
//	O     - Zoom out around the centre
//	C     - Cycle the palette
//	S     - Save the current view
//	R     - Reset to the home view
//	T     - Cycle status line themes
//	Q/Esc - Quit
package viz

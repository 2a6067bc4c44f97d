// Package app wires input, animation, rendering and display into the
// running explorer.
//
// # Thread Safety
//
// [Dispatcher.Dispatch] may be called from any goroutine: the touch and
// button pollers and the window or terminal UI loop all feed it. The
// driving loop in [App.Run] is the only caller of the renderer, so the
// touch marker is drawn between renders and never races a band worker.
package app

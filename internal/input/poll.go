package input

import (
	"context"
	"time"

	"github.com/san-kum/fbmandel/internal/view"
)

const (
	DefaultTouchInterval  = 10 * time.Millisecond
	DefaultButtonInterval = 50 * time.Millisecond
)

// EventSource yields pending input events without blocking. It returns
// 0, nil when nothing is waiting; any error is unrecoverable.
type EventSource interface {
	ReadEvents(dst []Event) (int, error)
}

// PollTouch feeds events from src into t until ctx is cancelled or src
// fails. Actions are passed to emit from the polling goroutine.
func PollTouch(ctx context.Context, src EventSource, t *TouchTracker, interval time.Duration, emit func(view.Action)) error {
	if interval <= 0 {
		interval = DefaultTouchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make([]Event, 64)
	for {
		n, err := src.ReadEvents(events)
		if err != nil {
			return err
		}
		for _, ev := range events[:n] {
			if a, ok := t.Handle(ev); ok {
				emit(a)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

package app

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/storage"
	"github.com/san-kum/fbmandel/internal/view"
)

// Dispatcher applies actions from every input source to the shared view.
type Dispatcher struct {
	shared *view.Shared
	store  *storage.Store
	log    *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	animator *anim.Animator
	shutdown func()
	marker   image.Point
	marked   bool
}

func NewDispatcher(shared *view.Shared, store *storage.Store, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		shared: shared,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

func (d *Dispatcher) SetAnimator(a *anim.Animator) {
	d.mu.Lock()
	d.animator = a
	d.mu.Unlock()
}

// OnShutdown sets the function a Shutdown action calls.
func (d *Dispatcher) OnShutdown(fn func()) {
	d.mu.Lock()
	d.shutdown = fn
	d.mu.Unlock()
}

func (d *Dispatcher) Dispatch(a view.Action) {
	d.mu.Lock()
	animator := d.animator
	d.mu.Unlock()
	if animator != nil {
		animator.Interact(d.now())
	}

	d.log.Debug("action", "action", a)

	switch a := a.(type) {
	case view.ZoomAt:
		d.shared.Zoom(a.X, a.Y, a.Factor)
		d.mu.Lock()
		d.marker, d.marked = image.Pt(a.X, a.Y), true
		d.mu.Unlock()
	case view.Reset:
		d.shared.Reset()
	case view.CyclePalette:
		d.shared.CyclePalette()
	case view.SaveView:
		d.save()
	case view.Shutdown:
		d.mu.Lock()
		fn := d.shutdown
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	d.shared.RequestRedraw()
}

func (d *Dispatcher) save() {
	if d.store == nil {
		d.log.Warn("save ignored: no view store")
		return
	}
	st, ok := d.shared.TrySnapshot()
	if !ok {
		d.log.Warn("save skipped: view busy")
		return
	}
	if err := d.store.Append(st); err != nil {
		if errors.Is(err, storage.ErrFull) {
			d.log.Warn("save skipped: store full", "capacity", d.store.Capacity())
			return
		}
		d.log.Error("save failed", "err", err)
		return
	}
	d.log.Info("view saved", "index", d.store.Len()-1, "view", st)
}

// TakeMarker returns and clears the last zoom point.
func (d *Dispatcher) TakeMarker() (image.Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.marker, d.marked
	d.marked = false
	return p, ok
}

package view

import (
	"sync"
	"sync/atomic"
)

// Shared is the single lock-guarded view every goroutine reads and
// mutates. Critical sections only copy fields in or out.
type Shared struct {
	mu          sync.Mutex
	state       State
	home        State
	colourScale int
	redraw      atomic.Bool
}

func NewShared(home State, colourScale int) *Shared {
	if colourScale <= 0 {
		colourScale = 1
	}
	home.ColourOffset = wrap(home.ColourOffset, colourScale)
	return &Shared{state: home, home: home, colourScale: colourScale}
}

func (s *Shared) Home() State      { return s.home }
func (s *Shared) ColourScale() int { return s.colourScale }

func (s *Shared) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TrySnapshot copies the state without blocking. It reports false when
// another goroutine holds the lock.
func (s *Shared) TrySnapshot() (State, bool) {
	if !s.mu.TryLock() {
		return State{}, false
	}
	defer s.mu.Unlock()
	return s.state, true
}

// Update runs fn under the lock. Results that would break the view
// invariants are discarded.
func (s *Shared) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	fn(&next)
	if !next.IsValid() {
		return
	}
	next.ColourOffset = wrap(next.ColourOffset, s.colourScale)
	s.state = next
}

func (s *Shared) Set(st State) {
	s.Update(func(cur *State) { *cur = st })
}

func (s *Shared) Zoom(x, y int, factor float64) {
	s.Update(func(st *State) { *st = st.Zoom(x, y, factor) })
}

func (s *Shared) Reset() {
	s.Set(s.home)
}

func (s *Shared) CyclePalette() {
	s.Update(func(st *State) { st.ColourOffset++ })
}

func (s *Shared) RequestRedraw() { s.redraw.Store(true) }

// TakeRedraw reports and clears a pending redraw request.
func (s *Shared) TakeRedraw() bool { return s.redraw.Swap(false) }

func wrap(c, n int) int {
	c %= n
	if c < 0 {
		c += n
	}
	return c
}

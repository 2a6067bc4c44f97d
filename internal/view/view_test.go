package view

import (
	"math"
	"sync"
	"testing"
)

func TestZoomKeepsPointFixed(t *testing.T) {
	s := Default()
	u0, v0 := s.Point(100, 50)

	z := s.Zoom(100, 50, 0.9)

	u1, v1 := z.Point(100, 50)
	if math.Abs(u0-u1) > 1e-12 || math.Abs(v0-v1) > 1e-12 {
		t.Errorf("point moved: (%g,%g) -> (%g,%g)", u0, v0, u1, v1)
	}
	if math.Abs(z.Scaling-s.Scaling*0.9) > 1e-15 {
		t.Errorf("expected scaling %g, got %g", s.Scaling*0.9, z.Scaling)
	}
}

func TestZoomRejectsBadFactor(t *testing.T) {
	s := Default()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := s.Zoom(10, 10, f); got != s {
			t.Errorf("factor %v changed the state", f)
		}
	}
}

func TestSharedCyclePaletteWraps(t *testing.T) {
	sh := NewShared(Default(), 3)
	for i := 0; i < 4; i++ {
		sh.CyclePalette()
	}
	if c := sh.Snapshot().ColourOffset; c != 1 {
		t.Errorf("expected colour 1, got %d", c)
	}
}

func TestSharedRejectsInvalid(t *testing.T) {
	sh := NewShared(Default(), 18)
	sh.Update(func(s *State) { s.Scaling = 0 })
	if sh.Snapshot().Scaling != DefaultScaling {
		t.Error("non-positive scaling accepted")
	}
}

func TestSharedReset(t *testing.T) {
	sh := NewShared(Default(), 18)
	sh.Zoom(10, 10, 0.5)
	sh.CyclePalette()
	sh.Reset()
	if sh.Snapshot() != Default() {
		t.Errorf("expected home state, got %v", sh.Snapshot())
	}
}

func TestTrySnapshotContention(t *testing.T) {
	sh := NewShared(Default(), 18)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		sh.Update(func(*State) {
			close(held)
			<-release
		})
		close(done)
	}()
	<-held

	if _, ok := sh.TrySnapshot(); ok {
		t.Error("expected TrySnapshot to fail while locked")
	}
	close(release)
	<-done

	if _, ok := sh.TrySnapshot(); !ok {
		t.Error("expected TrySnapshot to succeed once unlocked")
	}
}

func TestRedrawFlag(t *testing.T) {
	sh := NewShared(Default(), 18)
	if sh.TakeRedraw() {
		t.Error("unexpected pending redraw")
	}
	sh.RequestRedraw()
	sh.RequestRedraw()
	if !sh.TakeRedraw() {
		t.Error("expected pending redraw")
	}
	if sh.TakeRedraw() {
		t.Error("redraw should be cleared after take")
	}
}

func TestSharedConcurrentUpdates(t *testing.T) {
	sh := NewShared(Default(), 18)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sh.CyclePalette()
				_ = sh.Snapshot()
			}
		}()
	}
	wg.Wait()
	if c := sh.Snapshot().ColourOffset; c != 800%18 {
		t.Errorf("expected colour %d, got %d", 800%18, c)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name     string
		expected Action
	}{
		{"save", SaveView{}},
		{"zoom_out", ZoomAt{X: 160, Y: 120, Factor: 2}},
		{"reset", Reset{}},
		{"cycle", CyclePalette{}},
		{"quit", Shutdown{}},
	}
	for _, tt := range tests {
		a, err := ParseAction(tt.name, 160, 120, 2)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if a != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, a)
		}
	}
	if _, err := ParseAction("explode", 0, 0, 1); err == nil {
		t.Error("expected error for unknown action")
	}
}

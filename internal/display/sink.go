// Package display provides the surfaces the renderer draws into and the
// means to show them.
package display

import (
	"sync"

	"github.com/san-kum/fbmandel/internal/surface"
)

// Sink owns a surface and makes finished frames visible.
type Sink interface {
	Surface() *surface.Surface
	Present() error
	Close() error
}

// Memory is an offscreen sink. It is used for snapshots, benchmarks and
// tests.
type Memory struct {
	surf *surface.Surface

	mu     sync.Mutex
	frames int
	closed bool
}

func NewMemory(width, height, bitsPerPixel int) (*Memory, error) {
	s, err := surface.NewBuffer(width, height, bitsPerPixel)
	if err != nil {
		return nil, err
	}
	return &Memory{surf: s}, nil
}

func (m *Memory) Surface() *surface.Surface { return m.surf }

func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.frames++
	return nil
}

// Frames is the number of successful Present calls.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/san-kum/fbmandel/internal/view"
)

const DefaultCapacity = 16

// Store is the bounded, append-only list of saved views. Insertion order
// is playback order. An empty path keeps the views in memory only.
type Store struct {
	path     string
	capacity int

	mu    sync.RWMutex
	views []view.State
}

func New(path string, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{path: path, capacity: capacity}
}

func (s *Store) Path() string  { return s.path }
func (s *Store) Capacity() int { return s.capacity }

func (s *Store) Init() error {
	if s.path == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(s.path), 0755)
}

// Load replaces the in-memory views with the records in the backing
// file. A missing file yields an empty store. Corrupt records and an
// unreadable tail are discarded rather than failing the load.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.views = nil
			s.mu.Unlock()
			return nil
		}
		return err
	}
	defer f.Close()

	// A read error ends the file early; what decoded before it is kept.
	views, _ := Decode(f, s.capacity)

	s.mu.Lock()
	s.views = views
	s.mu.Unlock()
	return nil
}

// Append adds v and persists it. It returns ErrFull at capacity.
func (s *Store) Append(v view.State) error {
	if !v.IsValid() {
		return ErrInvalidView
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.views) >= s.capacity {
		return ErrFull
	}
	if s.path != "" {
		if err := s.persist(v); err != nil {
			return err
		}
	}
	s.views = append(s.views, v)
	return nil
}

func (s *Store) persist(v view.State) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	if err := Encode(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// At returns the i-th view in playback order.
func (s *Store) At(i int) (view.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.views) {
		return view.State{}, false
	}
	return s.views[i], true
}

func (s *Store) All() []view.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]view.State, len(s.views))
	copy(out, s.views)
	return out
}

// maxLine bounds a single line of the saved view file.
const maxLine = 1 << 20

const (
	keyScaling = "scaling"
	keyXOffset = "x_offset"
	keyYOffset = "y_offset"
	keyColour  = "colour_offset"
)

// Encode writes one four-line record.
func Encode(w io.Writer, v view.State) error {
	_, err := fmt.Fprintf(w, "%s=%s\n%s=%s\n%s=%s\n%s=%d\n",
		keyScaling, strconv.FormatFloat(v.Scaling, 'g', -1, 64),
		keyXOffset, strconv.FormatFloat(v.XOffset, 'g', -1, 64),
		keyYOffset, strconv.FormatFloat(v.YOffset, 'g', -1, 64),
		keyColour, v.ColourOffset,
	)
	return err
}

// Decode reads up to max records. Fields may come in any order and a
// record commits once all four have been seen. Unknown lines are skipped.
// A value that does not parse still counts as seen but spoils its record,
// and a key repeated before the record completes starts a new record, so
// a corrupt record is dropped whole instead of merging into the next one.
// A trailing partial record is dropped. On a read error the records
// decoded so far are returned with the error.
func Decode(r io.Reader, max int) ([]view.State, error) {
	const (
		seenScaling = 1 << iota
		seenX
		seenY
		seenColour
		seenAll = seenScaling | seenX | seenY | seenColour
	)

	views := make([]view.State, 0)
	var cur view.State
	seen := 0
	bad := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		if max > 0 && len(views) >= max {
			break
		}
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		var bit int
		switch key {
		case keyScaling:
			bit = seenScaling
		case keyXOffset:
			bit = seenX
		case keyYOffset:
			bit = seenY
		case keyColour:
			bit = seenColour
		default:
			continue
		}

		if seen&bit != 0 {
			cur, seen, bad = view.State{}, 0, false
		}
		seen |= bit

		if key == keyColour {
			c, err := strconv.Atoi(val)
			if err != nil {
				bad = true
			}
			cur.ColourOffset = c
		} else {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				bad = true
			}
			switch key {
			case keyScaling:
				cur.Scaling = f
			case keyXOffset:
				cur.XOffset = f
			case keyYOffset:
				cur.YOffset = f
			}
		}

		if seen == seenAll {
			if !bad && cur.IsValid() {
				views = append(views, cur)
			}
			cur, seen, bad = view.State{}, 0, false
		}
	}

	return views, sc.Err()
}

package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fbmandel/internal/view"
)

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "views", "saved.txt")
	st := New(path, 8)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	saved := []view.State{
		{Scaling: 0.013, XOffset: 2.6, YOffset: 1.6, ColourOffset: 0},
		{Scaling: 1.234567890123e-5, XOffset: 0.8321, YOffset: -0.0417, ColourOffset: 7},
		{Scaling: 0.0004, XOffset: -0.211, YOffset: 0.048, ColourOffset: 17},
	}
	for _, v := range saved {
		if err := st.Append(v); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	reloaded := New(path, 8)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if reloaded.Len() != len(saved) {
		t.Fatalf("expected %d views, got %d", len(saved), reloaded.Len())
	}
	for i, want := range saved {
		got, _ := reloaded.At(i)
		if math.Abs(got.Scaling-want.Scaling) > 1e-15 ||
			math.Abs(got.XOffset-want.XOffset) > 1e-12 ||
			math.Abs(got.YOffset-want.YOffset) > 1e-12 ||
			got.ColourOffset != want.ColourOffset {
			t.Errorf("view %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestStoreCapacity(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "saved.txt"), 2)

	for i := 0; i < 2; i++ {
		if err := st.Append(view.Default()); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}
	if err := st.Append(view.Default()); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if st.Len() != 2 {
		t.Errorf("expected 2 views, got %d", st.Len())
	}
}

func TestStoreMissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope.txt"), 4)
	if err := st.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("expected empty store, got %d", st.Len())
	}
}

func TestStoreInMemory(t *testing.T) {
	st := New("", 4)
	if err := st.Append(view.Default()); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := st.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if st.Len() != 1 {
		t.Errorf("expected in-memory view to survive, got %d", st.Len())
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	st := New("", 4)
	if err := st.Append(view.State{Scaling: -1}); !errors.Is(err, ErrInvalidView) {
		t.Errorf("expected ErrInvalidView, got %v", err)
	}
}

func TestDecodeAnyOrderAndJunk(t *testing.T) {
	input := strings.Join([]string{
		"# saved views",
		"colour_offset=4",
		"y_offset=1.5",
		"garbage line",
		"x_offset=2.5",
		"scaling=0.01",
		"scaling=0.02",
		"x_offset=oops",
		"x_offset=1",
		"y_offset=1",
		"colour_offset=2",
		"scaling=0.5",
		"x_offset=1",
	}, "\n")

	views, err := Decode(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d: %v", len(views), views)
	}
	if views[0] != (view.State{Scaling: 0.01, XOffset: 2.5, YOffset: 1.5, ColourOffset: 4}) {
		t.Errorf("unexpected first view %v", views[0])
	}
	if views[1] != (view.State{Scaling: 0.5, XOffset: 1, YOffset: 1, ColourOffset: 2}) {
		t.Errorf("unexpected second view %v", views[1])
	}
}

func TestDecodeSkipsInvalidScaling(t *testing.T) {
	input := "scaling=0\nx_offset=1\ny_offset=1\ncolour_offset=0\n" +
		"scaling=0.1\nx_offset=1\ny_offset=1\ncolour_offset=0\n"
	views, err := Decode(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(views) != 1 || views[0].Scaling != 0.1 {
		t.Errorf("expected only the valid view, got %v", views)
	}
}

func TestDecodeStopsAtCapacity(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		if err := Encode(&b, view.Default()); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	views, err := Decode(strings.NewReader(b.String()), 3)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(views) != 3 {
		t.Errorf("expected 3 views, got %d", len(views))
	}
}

func TestLoadTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.txt")
	data := "scaling=0.1\nx_offset=1\ny_offset=1\ncolour_offset=3\nscaling=0.2\nx_off"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	st := New(path, 4)
	if err := st.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 view, got %d", st.Len())
	}
}

func TestDecodeDropsCorruptRecordWhole(t *testing.T) {
	input := strings.Join([]string{
		"scaling=BAD",
		"x_offset=1",
		"y_offset=1",
		"colour_offset=1",
		"scaling=0.2",
		"x_offset=2",
		"y_offset=2",
		"colour_offset=2",
		"scaling=0.3",
		"x_offset=3",
		"y_offset=3",
		"colour_offset=3",
	}, "\n")

	views, err := Decode(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := []view.State{
		{Scaling: 0.2, XOffset: 2, YOffset: 2, ColourOffset: 2},
		{Scaling: 0.3, XOffset: 3, YOffset: 3, ColourOffset: 3},
	}
	if len(views) != len(want) {
		t.Fatalf("expected %d views, got %d: %v", len(want), len(views), views)
	}
	for i := range want {
		if views[i] != want[i] {
			t.Errorf("view %d: expected %v, got %v", i, want[i], views[i])
		}
	}
}

func TestDecodeRestartsOnRepeatedKey(t *testing.T) {
	input := "scaling=0.1\nx_offset=1\n" +
		"scaling=0.4\nx_offset=4\ny_offset=4\ncolour_offset=4\n"
	views, err := Decode(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(views) != 1 || views[0] != (view.State{Scaling: 0.4, XOffset: 4, YOffset: 4, ColourOffset: 4}) {
		t.Errorf("expected only the complete record, got %v", views)
	}
}

func TestLoadKeepsRecordsBeforeOverlongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.txt")
	data := "scaling=0.1\nx_offset=1\ny_offset=1\ncolour_offset=3\n" +
		strings.Repeat("x", maxLine+16) + "\n" +
		"scaling=0.2\nx_offset=2\ny_offset=2\ncolour_offset=4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	views, err := Decode(strings.NewReader(data), 0)
	if err == nil {
		t.Errorf("expected a read error from the overlong line")
	}
	if len(views) != 1 {
		t.Errorf("expected decode to keep 1 view, got %d", len(views))
	}

	st := New(path, 4)
	if err := st.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 view, got %d", st.Len())
	}
	if got, _ := st.At(0); got.ColourOffset != 3 {
		t.Errorf("unexpected view %v", got)
	}
}

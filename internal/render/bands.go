package render

import "sync"

const DefaultWorkers = 4

// Band is the half-open row range [Start, End).
type Band struct {
	Start, End int
}

func (b Band) Rows() int { return b.End - b.Start }

// Bands splits [0, height) into workers contiguous bands of height/workers
// rows. The last band absorbs the remainder.
func Bands(height, workers int) []Band {
	if workers < 1 {
		workers = 1
	}
	if height < 0 {
		height = 0
	}
	size := height / workers
	bands := make([]Band, workers)
	for w := 0; w < workers; w++ {
		start := w * size
		end := start + size
		if w == workers-1 {
			end = height
		}
		bands[w] = Band{Start: start, End: end}
	}
	return bands
}

// parallelBands runs fn once per band, each in its own goroutine, and
// waits for all of them.
func parallelBands(bands []Band, fn func(b Band)) {
	if len(bands) == 1 {
		fn(bands[0])
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(bands))
	for _, b := range bands {
		go func(b Band) {
			defer wg.Done()
			fn(b)
		}(b)
	}
	wg.Wait()
}

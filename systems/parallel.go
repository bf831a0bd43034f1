package systems

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/bounce/components"
)

// parallelThreshold is the minimum particle count to fan out to workers.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk is a range of particle indices gathered into chunk slot index.
type workChunk struct {
	index      int
	start, end int
}

// ParallelResolver gathers contacts concurrently against a position snapshot
// and applies them serially in ascending particle order. The result does not
// depend on the worker count.
type ParallelResolver struct {
	solver     ContactSolver
	numWorkers int

	// Per-pass inputs, read-only while workers run.
	snapshot  []float32
	radii     []float32
	grid      *SpatialGrid
	maxRadius float32

	chunkContacts [][]Contact
	chunkStats    []CollisionStats
	scratches     [][]int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewParallelResolver creates a resolver applying solver with the given
// number of workers. workers <= 0 uses GOMAXPROCS.
func NewParallelResolver(solver ContactSolver, workers int) *ParallelResolver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([][]int, workers)
	for i := range scratches {
		scratches[i] = make([]int, 0, 64)
	}
	return &ParallelResolver{
		solver:        solver,
		numWorkers:    workers,
		chunkContacts: make([][]Contact, workers),
		chunkStats:    make([]CollisionStats, workers),
		scratches:     scratches,
	}
}

// Workers returns the configured worker count.
func (r *ParallelResolver) Workers() int { return r.numWorkers }

// Resolve runs one collision pass.
func (r *ParallelResolver) Resolve(p *components.ParticleSet, grid *SpatialGrid, dt float32) CollisionStats {
	n := p.Len()

	// Phase A: snapshot positions and bucket them
	r.snapshot = p.PositionsInto(r.snapshot)
	grid.Rebuild(r.snapshot, n)
	r.grid = grid
	r.radii = p.Radii
	r.maxRadius = p.MaxRadius()

	// Phase B: gather contacts (read-only)
	chunks := 1
	if n < parallelThreshold {
		r.chunkContacts[0], r.chunkStats[0] = r.gather(0, n, r.chunkContacts[0][:0], &r.scratches[0])
	} else {
		chunks = r.gatherParallel(n)
	}

	// Phase C: apply in chunk order (single-threaded, preserves determinism)
	var stats CollisionStats
	for c := 0; c < chunks; c++ {
		for _, contact := range r.chunkContacts[c] {
			r.solver.Solve(p, contact, dt)
		}
		stats.Add(r.chunkStats[c])
	}

	r.grid = nil
	r.radii = nil
	return stats
}

// gatherParallel dispatches contiguous index ranges to the worker pool and
// returns how many chunk slots were filled.
func (r *ParallelResolver) gatherParallel(n int) int {
	if !r.running {
		r.startWorkers()
	}

	chunkSize := (n + r.numWorkers - 1) / r.numWorkers

	chunks := 0
	for w := 0; w < r.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		r.workChan <- workChunk{index: w, start: start, end: end}
		chunks++
	}

	for i := 0; i < chunks; i++ {
		<-r.doneChan
	}
	return chunks
}

// gather appends the overlapping pairs (i, j > i) for i in [i0, i1) to dst.
func (r *ParallelResolver) gather(i0, i1 int, dst []Contact, scratch *[]int) ([]Contact, CollisionStats) {
	var stats CollisionStats
	for i := i0; i < i1; i++ {
		x, y := r.snapshot[2*i], r.snapshot[2*i+1]
		*scratch = r.grid.QueryInto((*scratch)[:0], x, y, r.radii[i]+r.maxRadius)
		for _, j := range *scratch {
			if j <= i {
				continue
			}
			c, res := testPair(r.snapshot, r.radii, i, j)
			stats.record(c, res)
			if res == pairOverlap {
				dst = append(dst, c)
			}
		}
	}
	return dst, stats
}

// startWorkers launches persistent worker goroutines.
func (r *ParallelResolver) startWorkers() {
	if r.running {
		return
	}

	r.workChan = make(chan workChunk, r.numWorkers)
	r.doneChan = make(chan struct{}, r.numWorkers)
	r.stopChan = make(chan struct{})
	r.running = true

	for i := 0; i < r.numWorkers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// worker runs in a goroutine, processing chunks until stopped.
func (r *ParallelResolver) worker(workerID int) {
	defer r.wg.Done()
	scratch := &r.scratches[workerID]

	for {
		select {
		case <-r.stopChan:
			return
		case chunk, ok := <-r.workChan:
			if !ok {
				return
			}
			r.chunkContacts[chunk.index], r.chunkStats[chunk.index] =
				r.gather(chunk.start, chunk.end, r.chunkContacts[chunk.index][:0], scratch)
			r.doneChan <- struct{}{}
		}
	}
}

// Close stops the worker pool. The resolver can still be used afterwards;
// workers are restarted on demand.
func (r *ParallelResolver) Close() {
	if !r.running {
		return
	}

	close(r.stopChan)
	r.wg.Wait()
	close(r.workChan)
	close(r.doneChan)
	r.running = false
}

package fractal

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Scheduler runs fn over [0, n) split into contiguous ranges and returns only
// after every range has completed. Ranges never overlap.
type Scheduler interface {
	Run(n int, fn func(start, end int))
}

// SerialScheduler runs the whole range on the calling goroutine.
type SerialScheduler struct{}

// Run implements Scheduler.
func (SerialScheduler) Run(n int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}

// PoolScheduler fans ranges out to a bounded pool of reusable workers.
type PoolScheduler struct {
	pool      worker.DynamicWorkerPool
	workers   int
	batchSize int

	// wg is reused across Run calls; Run is only called from the frame goroutine.
	// The pool's own Wait blocks until workers idle out, so it cannot serve
	// as a per-level barrier.
	wg     sync.WaitGroup
	closed bool
}

// NewPoolScheduler creates a scheduler with the given worker count.
// workers <= 0 uses one worker per CPU minus the control goroutine.
// Ranges are never split below batchSize items.
func NewPoolScheduler(workers, batchSize int) *PoolScheduler {
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}
	if batchSize <= 0 {
		batchSize = BranchFactor
	}
	return &PoolScheduler{
		pool:      worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers:   workers,
		batchSize: batchSize,
	}
}

// Workers returns the configured worker count.
func (p *PoolScheduler) Workers() int {
	return p.workers
}

// Close stops the pool workers. It is idempotent. A closed scheduler still
// runs, on the calling goroutine.
func (p *PoolScheduler) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.pool.Stop()
}

// Run implements Scheduler.
func (p *PoolScheduler) Run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	size := chunkSize(n, p.workers*4, p.batchSize)
	if size >= n || p.closed {
		fn(0, n)
		return
	}

	id := 0
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		p.wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer p.wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
		id++
	}
	p.wg.Wait()
}

// CloseScheduler releases the workers of s, if it has any.
func CloseScheduler(s Scheduler) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}

// chunkSize returns the range length that splits n items into at most
// maxChunks ranges, rounded up to a multiple of batch.
func chunkSize(n, maxChunks, batch int) int {
	batches := (n + batch - 1) / batch
	chunks := min(batches, max(maxChunks, 1))
	return (batches + chunks - 1) / chunks * batch
}

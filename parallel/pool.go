// Package parallel runs independent jobs on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Pool is a fork/join worker pool. Jobs submitted with Do run on one of the
// pool's workers; Wait closes the pool and blocks until every job is done.
// A pool of one worker runs jobs inline on the caller's goroutine.
type Pool struct {
	wg      sync.WaitGroup
	work    chan func()
	stop    func()
	workers int
}

// Workers resolves a requested worker count: values below one select
// runtime.GOMAXPROCS(0).
func Workers(n int) int {
	if n < 1 {
		return max(1, runtime.GOMAXPROCS(0))
	}
	return n
}

// Start launches a pool of Workers(numWorkers) goroutines.
func Start(numWorkers int) *Pool {
	pool := &Pool{workers: Workers(numWorkers), stop: func() {}}
	if pool.workers == 1 {
		return pool
	}

	pool.work = make(chan func(), pool.workers)
	for range pool.workers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.stop = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

func (p *Pool) Size() int {
	return p.workers
}

// Do schedules f. It must not be called after Wait.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting work and blocks until all scheduled jobs finish.
func (p *Pool) Wait() {
	p.stop()
	p.wg.Wait()
}

// Range is the half-open interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Split cuts [0, n) into at most parts contiguous, disjoint ranges of
// ceil(n/parts) elements; the last one may be shorter. Empty ranges are not
// returned.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = min(max(1, parts), n)
	step := (n + parts - 1) / parts

	res := make([]Range, 0, parts)
	for lo := 0; lo < n; lo += step {
		res = append(res, Range{Lo: lo, Hi: min(lo+step, n)})
	}
	return res
}

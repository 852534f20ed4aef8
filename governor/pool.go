package governor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool runs blocking snapshot and toggle work off the consumer goroutines
// while bounding how many sweeps run at once.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Do runs fn on a worker and waits for it to finish. It fails without running
// fn only if ctx ends while waiting for a free worker.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		done <- fn(ctx)
	}()
	return <-done
}

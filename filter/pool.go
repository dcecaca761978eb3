package filter

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolStopped is returned when work is submitted to a stopped pool
var ErrPoolStopped = errors.New("worker pool is stopped")

// workerPool runs submitted work on a fixed set of goroutines
type workerPool struct {
	work     chan func()
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers
func NewWorkerPool(workers int) WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	p := &workerPool{
		work: make(chan func(), workers*2),
	}

	p.wg.Add(workers)
	for range workers {
		go p.run()
	}

	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()

	for fn := range p.work {
		fn()
	}
}

// Submit queues work, blocking while the queue is full
func (p *workerPool) Submit(work func()) error {
	if work == nil {
		return nil
	}

	// Held across the send so Stop cannot close the channel underneath it
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}
	p.work <- work
	return nil
}

// Stop drains queued work and waits for the workers to exit
func (p *workerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.work)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

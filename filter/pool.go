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
	stop     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers
func NewWorkerPool(workers int) WorkerPool {
	if workers <= 0 {
		workers = 1
	}

	p := &workerPool{
		work: make(chan func(), workers*2),
		stop: make(chan struct{}),
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for work := range p.work {
		work()
	}
}

// Submit queues work, blocking while the queue is full
func (p *workerPool) Submit(work func()) error {
	if work == nil {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.stop:
		return ErrPoolStopped
	default:
	}

	select {
	case p.work <- work:
		return nil
	case <-p.stop:
		return ErrPoolStopped
	}
}

// Stop rejects new work and waits for queued work to finish or ctx to end
func (p *workerPool) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stop)

		// Wait for in-flight Submit calls before closing the queue.
		p.mu.Lock()
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

package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/logging"
)

// Task represents a unit of work to be executed by the pool.
// The context carries the pool's per-task deadline.
type Task func(ctx context.Context)

var (
	// ErrPoolClosed is returned when submitting to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")
	// ErrQueueFull is returned when the pool cannot accept more work.
	ErrQueueFull = errors.New("worker pool queue full")
)

const defaultTaskTimeout = 30 * time.Second

// Pool is a bounded worker pool executing submitted tasks.
type Pool struct {
	name        string
	size        int
	taskTimeout time.Duration
	queue       chan Task
	wg          sync.WaitGroup
	mu          sync.RWMutex
	closed      bool
	shutdown    sync.Once
	completed   atomic.Int64
	panics      atomic.Int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithTaskTimeout bounds the context handed to each task.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.taskTimeout = d
		}
	}
}

// New creates a new worker pool with given size and queue capacity.
func New(name string, size, queueCap int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueCap <= 0 {
		queueCap = 1
	}
	p := &Pool{
		name:        name,
		size:        size,
		taskTimeout: defaultTaskTimeout,
		queue:       make(chan Task, queueCap),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.start()
	return p
}

func (p *Pool) start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.queue {
				p.run(id, task)
			}
		}(i)
	}
}

func (p *Pool) run(id int, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			logging.ErrorLog("workerpool '%s' worker %d recovered from panic: %v", p.name, id, r)
		}
	}()
	task(ctx)
	p.completed.Add(1)
}

// Submit enqueues a task for execution without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- task:
		return nil
	default:
		logging.WarnLog("workerpool '%s' queue full; dropping task", p.name)
		return ErrQueueFull
	}
}

// Name returns the pool's name.
func (p *Pool) Name() string { return p.name }

// Completed reports how many tasks returned normally.
func (p *Pool) Completed() int64 { return p.completed.Load() }

// Panics reports how many tasks panicked.
func (p *Pool) Panics() int64 { return p.panics.Load() }

// Close stops accepting tasks, drains the queue and waits for workers to finish.
func (p *Pool) Close() {
	p.shutdown.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			logging.WarnLog("workerpool '%s' shutdown timed out", p.name)
		}
	})
}

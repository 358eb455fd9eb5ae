package manager

import (
	"context"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/config"
	"github.com/Goofygiraffe06/prepwise/internal/workerpool"
)

// WorkManager provides separate pools for account store, password hashing and mail work.
// Bcrypt and SQLite calls stay off the HTTP goroutines and cannot starve each other.
type WorkManager struct {
	store *workerpool.Pool
	hash  *workerpool.Pool
	mail  *workerpool.Pool
}

// Option configures the WorkManager.
type Option func(*options)

type options struct {
	storeWorkers int
	hashWorkers  int
	mailWorkers  int
	queueSize    int
}

// WithStoreWorkers sets the store worker count.
func WithStoreWorkers(n int) Option { return func(o *options) { o.storeWorkers = n } }

// WithHashWorkers sets the password hashing worker count.
func WithHashWorkers(n int) Option { return func(o *options) { o.hashWorkers = n } }

// WithMailWorkers sets the mail worker count.
func WithMailWorkers(n int) Option { return func(o *options) { o.mailWorkers = n } }

// WithQueueSize sets the shared queue size (per pool).
func WithQueueSize(n int) Option { return func(o *options) { o.queueSize = n } }

// NewWorkManager constructs the manager with the given options (or defaults from config).
func NewWorkManager(opts ...Option) *WorkManager {
	o := &options{
		storeWorkers: config.StoreWorkerCount(),
		hashWorkers:  config.HashWorkerCount(),
		mailWorkers:  config.MailWorkerCount(),
		queueSize:    config.WorkerQueueSize(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WorkManager{
		store: workerpool.New("store", o.storeWorkers, o.queueSize, workerpool.WithTaskTimeout(5*time.Second)),
		hash:  workerpool.New("hash", o.hashWorkers, o.queueSize, workerpool.WithTaskTimeout(5*time.Second)),
		mail:  workerpool.New("mail", o.mailWorkers, o.queueSize, workerpool.WithTaskTimeout(30*time.Second)),
	}
}

// Close shuts down all pools.
func (m *WorkManager) Close() {
	if m == nil {
		return
	}
	m.store.Close()
	m.hash.Close()
	m.mail.Close()
}

// RunStore runs fn on the store pool and waits for its result or ctx.
func (m *WorkManager) RunStore(ctx context.Context, fn func(ctx context.Context) error) error {
	return runAndWait(ctx, m.store, fn)
}

// RunHash runs fn on the hashing pool and waits for its result or ctx.
func (m *WorkManager) RunHash(ctx context.Context, fn func(ctx context.Context) error) error {
	return runAndWait(ctx, m.hash, fn)
}

// SubmitMail schedules a mail task without waiting for it.
func (m *WorkManager) SubmitMail(fn func(ctx context.Context)) error {
	return m.mail.Submit(fn)
}

func runAndWait(ctx context.Context, p *workerpool.Pool, fn func(ctx context.Context) error) error {
	// buffered so the worker never blocks once the caller has given up
	resultCh := make(chan error, 1)
	err := p.Submit(func(taskCtx context.Context) {
		taskCtx, cancel := mergeCancel(taskCtx, ctx)
		defer cancel()
		resultCh <- fn(taskCtx)
	})
	if err != nil {
		return err
	}
	select {
	case err := <-resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mergeCancel returns a context derived from base that is also cancelled with other.
func mergeCancel(base, other context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(base)
	stop := context.AfterFunc(other, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

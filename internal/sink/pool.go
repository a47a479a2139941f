package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

const (
	DefaultQueueCapacity = 8192
	stopTimeout          = 5 * time.Second
)

// PoolConfig parameterizes NewPool.
type PoolConfig struct {
	// Capacity bounds the number of queued jobs. Submit blocks while full.
	Capacity int
	Workers  int
	// Logger receives supervisor events.
	Logger zerolog.Logger
	// OnPanic is called with the recovered value when a job panics.
	OnPanic func(error)
}

// Pool runs submitted jobs on a fixed set of supervised workers.
type Pool struct {
	jobs     chan func()
	workers  int
	onPanic  func(error)
	cancel   context.CancelFunc
	done     <-chan error
	stopping chan struct{}
	stopOnce sync.Once
	// Submit holds the read side while enqueueing; Stop takes the write
	// side so no job lands in the queue after the final drain.
	mu sync.RWMutex
}

// NewPool starts the workers and returns the running pool.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultQueueCapacity
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	p := &Pool{
		jobs:     make(chan func(), cfg.Capacity),
		workers:  cfg.Workers,
		onPanic:  cfg.OnPanic,
		stopping: make(chan struct{}),
	}

	logger := cfg.Logger
	sup := suture.New("mlogger-pool", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn().Str("event", e.String()).Msg("worker pool event")
		},
		Timeout: stopTimeout,
	})
	for i := 0; i < cfg.Workers; i++ {
		sup.Add(&worker{id: i, pool: p})
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = sup.ServeBackground(ctx)
	return p
}

// Submit enqueues job, blocking while the queue is full.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.stopping:
		return ErrPoolStopped
	default:
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.stopping:
		return ErrPoolStopped
	}
}

// Stop halts the workers and runs whatever is still queued on the calling
// goroutine. It is safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopping)
		p.mu.Lock()
		defer p.mu.Unlock()

		p.cancel()
		<-p.done
		for {
			select {
			case job := <-p.jobs:
				p.run(job)
			default:
				return
			}
		}
	})
}

// Depth is the number of jobs waiting for a worker.
func (p *Pool) Depth() int {
	return len(p.jobs)
}

func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(errors.Errorf("job panicked: %v", r))
		}
	}()
	job()
}

type worker struct {
	id   int
	pool *Pool
}

func (w *worker) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.pool.jobs:
			w.pool.run(job)
		}
	}
}

func (w *worker) String() string {
	return fmt.Sprintf("mlogger-worker-%d", w.id)
}

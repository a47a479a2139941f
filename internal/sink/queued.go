package sink

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// Queued hands records to a Pool and writes them through a Direct sink on
// the pool's workers. Records submitted from one goroutine reach the file in
// submission order only when the pool has a single worker.
type Queued struct {
	direct  *Direct
	pool    *Pool
	onError func(error)
	closed  atomic.Bool

	mu      sync.Mutex
	drained *sync.Cond
	pending int
}

// NewQueued wraps d. onError receives failures that happen on a worker,
// after Write has already returned and after the failed record has left the
// pending count, so it may call Flush.
func NewQueued(d *Direct, p *Pool, onError func(error)) *Queued {
	q := &Queued{
		direct:  d,
		pool:    p,
		onError: onError,
	}
	q.drained = sync.NewCond(&q.mu)
	return q
}

func (q *Queued) Write(level Level, msg string) error {
	if !level.Valid() {
		return errors.Wrapf(ErrInvalidLevel, "level %d", int(level))
	}
	if q.closed.Load() {
		return ErrClosed
	}
	if level < q.direct.Threshold() {
		return nil
	}

	q.begin()
	err := q.pool.Submit(func() {
		if err := q.store(level, msg); err != nil && q.onError != nil {
			q.onError(err)
		}
	})
	if err != nil {
		q.done()
		return err
	}
	return nil
}

// store writes one record and retires it before returning, so onError never
// runs while its own record still counts as pending.
func (q *Queued) store(level Level, msg string) error {
	defer q.done()
	return q.direct.write(level, msg)
}

func (q *Queued) SetThreshold(level Level) error {
	return q.direct.SetThreshold(level)
}

func (q *Queued) Threshold() Level {
	return q.direct.Threshold()
}

// Flush waits until every accepted record has been written, then flushes
// the file.
func (q *Queued) Flush() error {
	q.wait()
	return q.direct.Flush()
}

func (q *Queued) Close() error {
	q.closed.Store(true)
	q.wait()
	return q.direct.Close()
}

// Pending is the number of accepted records not yet written.
func (q *Queued) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *Queued) begin() {
	q.mu.Lock()
	q.pending++
	q.mu.Unlock()
}

func (q *Queued) done() {
	q.mu.Lock()
	q.pending--
	if q.pending == 0 {
		q.drained.Broadcast()
	}
	q.mu.Unlock()
}

func (q *Queued) wait() {
	q.mu.Lock()
	for q.pending > 0 {
		q.drained.Wait()
	}
	q.mu.Unlock()
}

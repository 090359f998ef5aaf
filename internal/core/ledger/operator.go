package ledger

import (
	"context"
	"sync"

	"github.com/SscSPs/baki_khata/internal/apperrors"
)

// mutationItem is one queued unit of work for the session's writer goroutine.
type mutationItem struct {
	ctx      context.Context
	run      func(ctx context.Context) error
	response chan error
}

// operator runs queued mutations one at a time, in arrival order.
// Every write to a session's store goes through it.
type operator struct {
	queue    chan mutationItem
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newOperator(queueSize int) *operator {
	if queueSize < 1 {
		queueSize = 1
	}
	return &operator{queue: make(chan mutationItem, queueSize)}
}

func (o *operator) start() {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for item := range o.queue {
			// A started mutation always runs to completion so that a
			// failed write can still be rolled back.
			item.response <- item.run(context.WithoutCancel(item.ctx))
		}
	}()
}

// stop drains the queue and waits for the worker to exit.
func (o *operator) stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.queue)
		o.mu.Unlock()
		o.wg.Wait()
	})
}

// process enqueues fn and waits for its result. If ctx ends first the caller
// stops waiting but fn still runs.
func (o *operator) process(ctx context.Context, fn func(ctx context.Context) error) error {
	respCh := make(chan error, 1)
	item := mutationItem{ctx: ctx, run: fn, response: respCh}

	o.mu.RLock()
	if o.closed {
		o.mu.RUnlock()
		return apperrors.ErrNoSession
	}
	select {
	case o.queue <- item:
		o.mu.RUnlock()
	case <-ctx.Done():
		o.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-respCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

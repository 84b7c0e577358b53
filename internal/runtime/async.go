package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"borth.dev/borth/internal/lang"
)

// await blocks on v.Await(ctx) if v implements lang.Awaitable, otherwise
// returns v unchanged. This is the executor's only suspension point
// (spec.md §5): a primitive that wants to suspend just returns a value
// satisfying the interface, and the caller who eventually reads it pays
// the wait.
func await(ctx context.Context, v lang.Value) (lang.Value, error) {
	a, ok := v.(lang.Awaitable)
	if !ok {
		return v, nil
	}
	return a.Await(ctx)
}

// chron is a named, cancelable timer handle. chrons exist so a host
// vocabulary factory can schedule recurring or delayed work without the
// runtime itself needing to track goroutines one by one; re-registering a
// name stops whatever timer previously held it (spec.md §5).
type chron struct {
	id     string
	timer  *time.Timer
	ticker *time.Ticker
	stop   chan struct{}
}

// ChronRegistry is the runtime's named-timer registry, adapted from the
// teacher's AsyncRegistry/AsyncHandle (goroutine + channel + done) into a
// name-keyed rather than counter-keyed table, since chrons are meant to be
// re-registered by name (spec.md §5 "starting re-registration stops the
// prior").
type ChronRegistry struct {
	mu      sync.Mutex
	chrons  map[string]*chron
	counter atomic.Int64
	wg      sync.WaitGroup
}

// NewChronRegistry returns an empty registry.
func NewChronRegistry() *ChronRegistry {
	return &ChronRegistry{chrons: map[string]*chron{}}
}

// After schedules fn to run once after d, under name. A prior chron under
// the same name is stopped first.
func (r *ChronRegistry) After(name string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked(name)
	c := &chron{id: name, stop: make(chan struct{})}
	c.timer = time.AfterFunc(d, func() {
		r.wg.Add(1)
		defer r.wg.Done()
		fn()
	})
	r.chrons[name] = c
}

// Every schedules fn to run repeatedly every d, under name, until stopped.
func (r *ChronRegistry) Every(name string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked(name)
	c := &chron{id: name, ticker: time.NewTicker(d), stop: make(chan struct{})}
	r.chrons[name] = c
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-c.ticker.C:
				fn()
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop cancels the chron registered under name, if any. Idempotent.
func (r *ChronRegistry) Stop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked(name)
}

func (r *ChronRegistry) stopLocked(name string) {
	c, ok := r.chrons[name]
	if !ok {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.ticker != nil {
		c.ticker.Stop()
		close(c.stop)
	}
	delete(r.chrons, name)
}

// StopAll cancels every chron and waits (bounded) for in-flight callbacks
// to finish — the idempotent teardown spec.md §5 calls stop_all_chrons().
func (r *ChronRegistry) StopAll() {
	r.mu.Lock()
	for name := range r.chrons {
		r.stopLocked(name)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

// pendingResult is a simple Awaitable backing an async-style primitive: a
// goroutine computes a value and signals done, and Await blocks until
// either it finishes or ctx is canceled.
type pendingResult struct {
	done   chan struct{}
	value  lang.Value
	err    error
}

// Spawn runs fn in a goroutine and returns a Value that suspends the
// executor until fn completes — the primitive-author-facing building
// block for any "returns a pending value" primitive described in
// spec.md §5.
func Spawn(fn func() (lang.Value, error)) lang.Value {
	p := &pendingResult{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.value, p.err = fn()
	}()
	return p
}

func (p *pendingResult) Await(ctx context.Context) (lang.Value, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, fmt.Errorf("await canceled: %w", ctx.Err())
	}
}

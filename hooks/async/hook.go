// Package asynchook decouples hook consumers from the cache's single-mutator
// hot path: events are enqueued onto a bounded channel and delivered by
// worker goroutines; when the queue is full, events are dropped rather than
// blocking an update tick.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    EvictedEvery: 10, // sample: ~every 10th eviction
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := pointcache.New(pointcache.Options{
//	    Device: dev,
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/pointcache"
)

type Hooks struct {
	inner pointcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ pointcache.Hooks = (*Hooks)(nil)

func New(inner pointcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Evicted(hash uint64, reason string) {
	h.try(func() { h.inner.Evicted(hash, reason) })
}
func (h *Hooks) EvictionSkipped(hash uint64) {
	h.try(func() { h.inner.EvictionSkipped(hash) })
}
func (h *Hooks) DestroyFailed(hash uint64, err error) {
	h.try(func() { h.inner.DestroyFailed(hash, err) })
}
func (h *Hooks) CapacityClamped(requested, actual int) {
	h.try(func() { h.inner.CapacityClamped(requested, actual) })
}

// Package sloghooks implements pointcache.Hooks on log/slog with sampling
// for the high-frequency events.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/pointcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictedEvery uint64
	SkippedEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictedCtr atomic.Uint64
	skippedCtr atomic.Uint64
}

var _ pointcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Evicted(hash uint64, reason string) {
	if h.l == nil || !sample(h.opts.EvictedEvery, &h.evictedCtr) {
		return
	}
	h.l.Debug("pointcache.evicted",
		"hash", hash,
		"reason", reason)
}

func (h *Hooks) EvictionSkipped(hash uint64) {
	if h.l == nil || !sample(h.opts.SkippedEvery, &h.skippedCtr) {
		return
	}
	h.l.Debug("pointcache.eviction_skipped", "hash", hash)
}

func (h *Hooks) DestroyFailed(hash uint64, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("pointcache.destroy_failed",
		"hash", hash,
		"err", err)
}

func (h *Hooks) CapacityClamped(requested, actual int) {
	if h.l == nil {
		return
	}
	h.l.Warn("pointcache.capacity_clamped",
		"requested", requested,
		"actual", actual)
}

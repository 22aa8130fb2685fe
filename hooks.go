package pointcache

// Hooks are lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; the cache calls them on
// hot paths. See hooks/async for a bounded-queue wrapper and sloghooks for
// a slog-backed implementation.
type Hooks interface {
	// A buffer left the cache. reason is one of "lru", "expired",
	// "orphan", "clear", "torn".
	Evicted(hash uint64, reason string)

	// An entry selected for eviction was still referenced on final check
	// and was skipped with a refreshed lastUsed. A safety net, not an
	// expected steady-state path.
	EvictionSkipped(hash uint64)

	// Releasing a GPU allocation failed; the cache entry was removed
	// regardless.
	DestroyFailed(hash uint64, err error)

	// A capacity below 1 was requested and clamped.
	CapacityClamped(requested, actual int)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Evicted(uint64, string)      {}
func (NopHooks) EvictionSkipped(uint64)      {}
func (NopHooks) DestroyFailed(uint64, error) {}
func (NopHooks) CapacityClamped(int, int)    {}

package pointcache

import "time"

const (
	// DefaultCapacity bounds the number of distinct cached buffers.
	DefaultCapacity = 64

	// DefaultExpireAfter is how long an unreferenced buffer survives
	// without a touch before the sweep reclaims it.
	DefaultExpireAfter = 2 * time.Minute

	// DefaultSweepInterval is the minimum wall-clock gap between expiry
	// sweeps. Sweeps are gated on mutation, not run on every call.
	DefaultSweepInterval = 30 * time.Second
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

package pointcache

import (
	"time"

	"github.com/unkn0wn-root/pointcache/device"
)

// Cache is the public buffer-cache facade. It is NOT safe for concurrent
// use: all calls must come from one goroutine, typically the host's
// message-ingestion or render loop.
type Cache interface {
	// UpdateData submits the latest batch for an entity. Superseded batches
	// are discarded, not queued (last-writer-wins). On error the entity's
	// previous binding and buffer are left untouched, with one exception:
	// if an in-place overwrite fails partway and cannot be rolled back,
	// the buffer is dropped and the entity is not renderable until its
	// next successful update.
	UpdateData(entityID string, batch *Batch) error

	// UpdateConfig stores per-entity render configuration (pose,
	// color-mapping parameters) opaquely. Never touches buffer lifecycle.
	UpdateConfig(entityID string, config any)

	// GetRenderable returns the draw-ready handles for one entity, if it
	// has data. Refreshes the backing buffer's lastUsed.
	GetRenderable(entityID string) (Renderable, bool)

	// GetAllRenderable returns draw-ready handles for every entity with
	// data, in unspecified order.
	GetAllRenderable() []Renderable

	// RemoveComponent deletes an entity's binding and destroys its buffer
	// within the same tick if no other entity references it.
	RemoveComponent(entityID string)

	// ClearAll destroys every cached buffer and clears all bindings
	// (full scene reset / disconnect).
	ClearAll()

	// SetCapacity rebounds the cache, clamped to a minimum of 1, evicting
	// eagerly if shrinking below the current size.
	SetCapacity(n int)

	// Sweep runs the expiry pass immediately, regardless of the sweep
	// interval, and returns the number of buffers reclaimed. Sweeps also
	// run automatically on mutation at SweepInterval cadence.
	Sweep() int

	// Stats returns a snapshot of the tuning counters.
	Stats() Stats
}

// Renderable is what the draw layer binds directly into a draw call:
// physical buffer handles, count and format, with no further CPU-side
// transformation.
type Renderable struct {
	EntityID   string
	Count      int
	Format     Format
	PointSize  float32
	Positions  device.Buffer
	Attributes device.Buffer
	Config     any
}

// Options tune the cache. Only Device is required; others have sensible
// defaults.
type Options struct {
	// Required: the GPU allocation backend.
	Device device.Device

	Capacity      int              // max distinct cached buffers; 0 => 64, negatives clamped to 1
	ExpireAfter   time.Duration    // unreferenced-entry lifetime; 0 => 2m
	SweepInterval time.Duration    // min gap between expiry sweeps; 0 => 30s
	Logger        Logger           // nil => NopLogger
	Hooks         Hooks            // nil => NopHooks
	Now           func() time.Time // injectable clock; nil => time.Now
}

// New constructs an independently owned cache instance. There is no shared
// global state; multiple viewer instances do not cross-contaminate.
func New(opts Options) (Cache, error) {
	return newCache(opts)
}

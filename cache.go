package pointcache

import (
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/pointcache/device"
)

// errTornWrite marks an in-place update that failed after partially
// overwriting the buffer and could not be rolled back. The entry no longer
// holds the content its hash claims and must be dropped.
var errTornWrite = errors.New("pointcache: torn in-place write")

type cache struct {
	dev      device.Device
	store    *bufferStore
	bindings *bindingTable
	log      Logger
	hooks    Hooks
	now      func() time.Time

	expireAfter   time.Duration
	sweepInterval time.Duration
	lastSweep     time.Time

	stats Stats
}

func newCache(opts Options) (*cache, error) {
	if opts.Device == nil {
		return nil, fmt.Errorf("pointcache: device is required")
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})

	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 1 {
		log.Warn("capacity below minimum, clamped", Fields{"requested": capacity, "actual": 1})
		hooks.CapacityClamped(capacity, 1)
		capacity = 1
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &cache{
		dev:           opts.Device,
		bindings:      newBindingTable(),
		log:           log,
		hooks:         hooks,
		now:           now,
		expireAfter:   coalesce[time.Duration](opts.ExpireAfter, DefaultExpireAfter),
		sweepInterval: coalesce[time.Duration](opts.SweepInterval, DefaultSweepInterval),
	}
	c.store = newBufferStore(capacity, now, log, hooks)
	c.lastSweep = now()
	return c, nil
}

func (c *cache) UpdateData(entityID string, batch *Batch) error {
	if batch == nil {
		return ErrNilBatch
	}
	c.maybeSweep()

	newHash := batch.ContentHash()
	bd := c.bindings.get(entityID)

	// Steady-state fast path: new object, same content. Replace the batch
	// reference only; zero GPU work.
	if bd != nil && bd.batch != nil && bd.hash == newHash {
		bd.batch = batch
		c.store.touch(newHash)
		c.stats.NoOps++
		return nil
	}

	var oldHash uint64
	hadOld := bd != nil && bd.batch != nil
	if hadOld {
		oldHash = bd.hash
	}

	// In-place update: the single highest-value optimization. For a live
	// stream with a stable point count, overwriting beats
	// alloc+upload+free every frame. Valid only when size and format are
	// unchanged, no other entity shares the buffer, and the new content is
	// not already cached under its own hash.
	if hadOld {
		if cur := c.store.get(oldHash); cur != nil &&
			cur.count == batch.Count() && cur.format == batch.Format() &&
			!c.bindings.referencedByOther(oldHash, entityID) &&
			c.store.get(newHash) == nil {
			if err := c.writeInPlace(cur, bd.batch, batch); err != nil {
				if errors.Is(err, errTornWrite) {
					// content no longer matches the key; drop the
					// entry so the next update reallocates
					if c.store.destroy(oldHash, "torn") {
						c.stats.Destroys++
					}
					bd.batch = nil
				}
				return err
			}
			c.store.rekey(oldHash, newHash)
			bd.batch = batch
			bd.hash = newHash
			c.stats.InPlaceUpdates++
			return nil
		}
	}

	if cur := c.store.get(newHash); cur != nil {
		c.store.touch(newHash)
		c.stats.Hits++
	} else {
		c.stats.Misses++
		cb, err := c.allocate(entityID, batch)
		if err != nil {
			return err
		}
		// bind before put so capacity eviction sees the new buffer as live
		bd = c.bindings.getOrCreate(entityID)
		bd.batch = batch
		bd.hash = newHash
		evicted := c.store.put(cb, c.bindings.referenced)
		c.stats.Creations++
		c.stats.Evictions += uint64(evicted)
		c.stats.Destroys += uint64(evicted)
		c.destroyIfOrphaned(hadOld, oldHash, newHash)
		return nil
	}

	bd = c.bindings.getOrCreate(entityID)
	bd.batch = batch
	bd.hash = newHash
	c.destroyIfOrphaned(hadOld, oldHash, newHash)
	return nil
}

// destroyIfOrphaned reclaims the superseded buffer immediately instead of
// waiting for the next expiry sweep.
func (c *cache) destroyIfOrphaned(hadOld bool, oldHash, newHash uint64) {
	if !hadOld || oldHash == newHash {
		return
	}
	if c.bindings.referenced(oldHash) {
		return
	}
	if c.store.destroy(oldHash, "orphan") {
		c.stats.Destroys++
	}
}

// writeInPlace overwrites cb's streams with next's content. A failed
// position write leaves the buffer untouched. If the position write
// succeeds but the attribute write fails, the previous positions are
// written back so the entry still holds the content its hash claims; when
// even that rollback fails the returned error wraps errTornWrite.
func (c *cache) writeInPlace(cb *cachedBuffer, prev, next *Batch) error {
	positions, attributes := next.split()
	if err := cb.positions.Write(positions); err != nil {
		return fmt.Errorf("pointcache: in-place position write: %w", err)
	}
	if err := cb.attributes.Write(attributes); err != nil {
		prevPositions, _ := prev.split()
		if rerr := cb.positions.Write(prevPositions); rerr != nil {
			c.log.Warn("in-place rollback failed, dropping buffer", Fields{
				"hash": cb.hash, "err": rerr,
			})
			return fmt.Errorf("pointcache: in-place attribute write: %w: %w", err, errTornWrite)
		}
		return fmt.Errorf("pointcache: in-place attribute write: %w", err)
	}
	return nil
}

func (c *cache) allocate(entityID string, batch *Batch) (*cachedBuffer, error) {
	positions, attributes := batch.split()
	pbuf, err := c.dev.CreateBuffer(entityID+":pos", positions)
	if err != nil {
		return nil, fmt.Errorf("pointcache: allocate position buffer: %w", err)
	}
	abuf, err := c.dev.CreateBuffer(entityID+":attr", attributes)
	if err != nil {
		if rerr := pbuf.Release(); rerr != nil {
			c.log.Warn("position buffer release failed during rollback", Fields{"err": rerr})
		}
		return nil, fmt.Errorf("pointcache: allocate attribute buffer: %w", err)
	}
	return &cachedBuffer{
		hash:       batch.ContentHash(),
		count:      batch.Count(),
		format:     batch.Format(),
		positions:  pbuf,
		attributes: abuf,
	}, nil
}

func (c *cache) UpdateConfig(entityID string, config any) {
	c.bindings.getOrCreate(entityID).config = config
}

func (c *cache) GetRenderable(entityID string) (Renderable, bool) {
	bd := c.bindings.get(entityID)
	if bd == nil || bd.batch == nil {
		return Renderable{}, false
	}
	cb := c.store.get(bd.hash)
	if cb == nil {
		return Renderable{}, false
	}
	c.store.touch(bd.hash)
	return c.renderable(bd, cb), true
}

func (c *cache) GetAllRenderable() []Renderable {
	out := make([]Renderable, 0, c.bindings.len())
	c.bindings.each(func(bd *binding) {
		if bd.batch == nil {
			return
		}
		cb := c.store.get(bd.hash)
		if cb == nil {
			return
		}
		c.store.touch(bd.hash)
		out = append(out, c.renderable(bd, cb))
	})
	return out
}

func (c *cache) renderable(bd *binding, cb *cachedBuffer) Renderable {
	return Renderable{
		EntityID:   bd.entityID,
		Count:      cb.count,
		Format:     cb.format,
		PointSize:  bd.batch.PointSize(),
		Positions:  cb.positions,
		Attributes: cb.attributes,
		Config:     bd.config,
	}
}

func (c *cache) RemoveComponent(entityID string) {
	bd := c.bindings.get(entityID)
	if bd == nil {
		return
	}
	c.bindings.delete(entityID)
	if bd.batch == nil {
		return
	}
	if c.bindings.referenced(bd.hash) {
		return
	}
	if c.store.destroy(bd.hash, "orphan") {
		c.stats.Destroys++
	}
}

func (c *cache) ClearAll() {
	c.bindings.clear()
	n := c.store.clear()
	c.stats.Destroys += uint64(n)
}

func (c *cache) SetCapacity(n int) {
	if n < 1 {
		c.log.Warn("capacity below minimum, clamped", Fields{"requested": n, "actual": 1})
		c.hooks.CapacityClamped(n, 1)
		n = 1
	}
	c.store.capacity = n
	evicted := c.store.evictOverCapacity(c.bindings.referenced)
	c.stats.Evictions += uint64(evicted)
	c.stats.Destroys += uint64(evicted)
}

func (c *cache) Sweep() int {
	c.lastSweep = c.now()
	n := c.store.evictExpired(c.expireAfter, c.bindings.referenced)
	c.stats.Expirations += uint64(n)
	c.stats.Destroys += uint64(n)
	return n
}

// maybeSweep runs the expiry pass on a coarse wall-clock cadence rather
// than on every mutation.
func (c *cache) maybeSweep() {
	if c.now().Sub(c.lastSweep) < c.sweepInterval {
		return
	}
	c.Sweep()
}

func (c *cache) Stats() Stats {
	s := c.stats
	s.Size = c.store.len()
	s.Capacity = c.store.capacity
	return s
}

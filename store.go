package pointcache

import (
	"container/list"
	"time"

	"github.com/unkn0wn-root/pointcache/device"
)

// cachedBuffer is a physical GPU allocation: the position stream plus the
// intensity-or-color stream, keyed by content hash. Owned exclusively by
// bufferStore; never aliased outside the cache.
type cachedBuffer struct {
	hash       uint64
	count      int
	format     Format
	positions  device.Buffer
	attributes device.Buffer
	lastUsed   time.Time
}

// bufferStore is the content-addressable store of cached buffers: at most
// one entry per distinct hash, LRU-ordered for capacity eviction, with a
// time-based expiry sweep. Whether an entry is referenced is decided by the
// caller's predicate (a linear scan over the binding table), so the store
// itself stays policy-only.
type bufferStore struct {
	capacity int
	entries  map[uint64]*list.Element
	lru      *list.List // front = most recently used

	now   func() time.Time
	log   Logger
	hooks Hooks
}

func newBufferStore(capacity int, now func() time.Time, log Logger, hooks Hooks) *bufferStore {
	return &bufferStore{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element),
		lru:      list.New(),
		now:      now,
		log:      log,
		hooks:    hooks,
	}
}

func (s *bufferStore) len() int { return len(s.entries) }

// get is a pure lookup; it does not refresh lastUsed.
func (s *bufferStore) get(hash uint64) *cachedBuffer {
	el, ok := s.entries[hash]
	if !ok {
		return nil
	}
	return el.Value.(*cachedBuffer)
}

// put inserts cb and evicts least-recently-used unreferenced entries while
// over capacity. Returns the number of evictions. The caller must have the
// new hash referenced by a binding before calling, otherwise the fresh entry
// is itself an eviction candidate.
func (s *bufferStore) put(cb *cachedBuffer, referenced func(uint64) bool) int {
	if old, ok := s.entries[cb.hash]; ok {
		// one buffer per hash; replacing is a caller bug but must not leak
		s.log.Warn("replacing cached buffer with duplicate hash", Fields{"hash": cb.hash})
		s.release(old.Value.(*cachedBuffer))
		s.lru.Remove(old)
		delete(s.entries, cb.hash)
	}
	cb.lastUsed = s.now()
	s.entries[cb.hash] = s.lru.PushFront(cb)
	return s.evictOverCapacity(referenced)
}

// touch refreshes lastUsed and promotes the entry to most recently used.
func (s *bufferStore) touch(hash uint64) {
	el, ok := s.entries[hash]
	if !ok {
		return
	}
	el.Value.(*cachedBuffer).lastUsed = s.now()
	s.lru.MoveToFront(el)
}

// rekey moves an in-place-updated entry from oldHash to newHash and
// refreshes lastUsed. newHash must not already be present.
func (s *bufferStore) rekey(oldHash, newHash uint64) {
	el, ok := s.entries[oldHash]
	if !ok {
		return
	}
	cb := el.Value.(*cachedBuffer)
	delete(s.entries, oldHash)
	cb.hash = newHash
	cb.lastUsed = s.now()
	s.entries[newHash] = el
	s.lru.MoveToFront(el)
}

// destroy releases the entry's GPU allocations and removes it. Idempotent:
// destroying an absent hash is a no-op. Release failures are logged and the
// entry is removed regardless. Returns true if an entry was removed.
func (s *bufferStore) destroy(hash uint64, reason string) bool {
	el, ok := s.entries[hash]
	if !ok {
		return false
	}
	cb := el.Value.(*cachedBuffer)
	s.release(cb)
	s.lru.Remove(el)
	delete(s.entries, hash)
	s.hooks.Evicted(hash, reason)
	return true
}

// evictOverCapacity walks from the LRU end, destroying unreferenced entries
// until size fits capacity. Entries still referenced on final check are
// skipped with a refreshed lastUsed; the cap is soft and may be exceeded
// transiently when every candidate is live. Skipped entries are promoted
// only after the walk, so the walk visits each entry at most once.
func (s *bufferStore) evictOverCapacity(referenced func(uint64) bool) int {
	evicted := 0
	var skipped []*list.Element
	el := s.lru.Back()
	for el != nil && len(s.entries) > s.capacity {
		prev := el.Prev()
		cb := el.Value.(*cachedBuffer)
		if referenced(cb.hash) {
			cb.lastUsed = s.now()
			skipped = append(skipped, el)
			s.hooks.EvictionSkipped(cb.hash)
		} else if s.destroy(cb.hash, "lru") {
			evicted++
		}
		el = prev
	}
	// back-to-front collection order; moving in that order keeps the
	// entries' relative recency
	for _, el := range skipped {
		s.lru.MoveToFront(el)
	}
	if len(s.entries) > s.capacity {
		s.log.Debug("cache over capacity, all entries referenced", Fields{
			"size": len(s.entries), "capacity": s.capacity,
		})
	}
	return evicted
}

// evictExpired destroys every unreferenced entry untouched for longer than
// expiry. Still-referenced entries get a refreshed lastUsed instead.
func (s *bufferStore) evictExpired(expiry time.Duration, referenced func(uint64) bool) int {
	cutoff := s.now().Add(-expiry)
	removed := 0
	el := s.lru.Back()
	for el != nil {
		prev := el.Prev()
		cb := el.Value.(*cachedBuffer)
		if !cb.lastUsed.Before(cutoff) {
			// LRU order means everything from here forward is fresh
			break
		}
		if referenced(cb.hash) {
			cb.lastUsed = s.now()
			s.lru.MoveToFront(el)
		} else if s.destroy(cb.hash, "expired") {
			removed++
		}
		el = prev
	}
	return removed
}

// clear destroys every entry, returning the number destroyed.
func (s *bufferStore) clear() int {
	n := 0
	for el := s.lru.Front(); el != nil; el = el.Next() {
		cb := el.Value.(*cachedBuffer)
		s.release(cb)
		s.hooks.Evicted(cb.hash, "clear")
		n++
	}
	s.entries = make(map[uint64]*list.Element)
	s.lru.Init()
	return n
}

// release frees the physical allocations. A failed release (for example a
// handle already invalidated by an unrelated path) is a non-fatal warning.
func (s *bufferStore) release(cb *cachedBuffer) {
	if cb.positions != nil {
		if err := cb.positions.Release(); err != nil {
			s.log.Warn("position buffer release failed", Fields{"hash": cb.hash, "err": err})
			s.hooks.DestroyFailed(cb.hash, err)
		}
		cb.positions = nil
	}
	if cb.attributes != nil {
		if err := cb.attributes.Release(); err != nil {
			s.log.Warn("attribute buffer release failed", Fields{"hash": cb.hash, "err": err})
			s.hooks.DestroyFailed(cb.hash, err)
		}
		cb.attributes = nil
	}
}

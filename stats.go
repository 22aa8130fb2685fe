package pointcache

// Stats is a snapshot of cache counters for tuning. Counters are cumulative
// since construction; Size and Capacity reflect the moment of the snapshot.
type Stats struct {
	// Hits counts updates served by sharing an already-cached buffer.
	Hits uint64
	// Misses counts updates whose hash was not in the cache.
	Misses uint64
	// Creations counts physical buffer allocations.
	Creations uint64
	// InPlaceUpdates counts overwrites of an existing allocation.
	InPlaceUpdates uint64
	// NoOps counts updates with an unchanged content hash (zero GPU work).
	NoOps uint64
	// Destroys counts buffer destructions from any path (orphan, LRU,
	// expiry, clear).
	Destroys uint64
	// Evictions counts LRU capacity evictions (subset of Destroys).
	Evictions uint64
	// Expirations counts expiry-sweep destructions (subset of Destroys).
	Expirations uint64

	Size     int
	Capacity int
}

// HitRate is Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

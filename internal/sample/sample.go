// Package sample computes a cheap, order-sensitive fingerprint of a point
// batch from a bounded sample. The hash is the cache key for GPU buffer
// sharing: it must run in time independent of batch size, so only the first
// and last MaxPoints points are folded in, along with the count, stride and
// format tag. It is not collision-free; callers treat equal hashes as
// "almost certainly identical", which is acceptable because a false-positive
// reuse costs a minor visual discrepancy, not a correctness failure.
package sample

import "math"

// MaxPoints is the number of points sampled from each end of the batch.
// Batches with at most 2*MaxPoints points are hashed in full.
const MaxPoints = 50

// Empty is the reserved hash of an empty batch. Hash never returns Empty
// for a non-empty batch, so ingesting an empty batch can never falsely
// reuse a stale buffer.
const Empty uint64 = 0

// quantScale converts float32 coordinates to integers for hashing.
// Sub-millimeter jitter below 1/quantScale units does not change the hash.
const quantScale = 1000

// Hash fingerprints count points of the given stride (float32 values per
// point) in data, tagged with the payload format. Identical sampled content
// yields an identical hash.
func Hash(data []float32, stride, count int, tag uint8) uint64 {
	if count <= 0 || stride <= 0 || len(data) == 0 {
		return Empty
	}

	h := uint64(17)
	h = h*31 + uint64(count)
	h = h*31 + uint64(stride)
	h = h*31 + uint64(tag)

	if count <= 2*MaxPoints {
		h = foldPoints(h, data, stride, 0, count)
	} else {
		h = foldPoints(h, data, stride, 0, MaxPoints)
		h = foldPoints(h, data, stride, count-MaxPoints, count)
	}

	if h == Empty {
		h = 1
	}
	return h
}

// foldPoints folds points [from, to) into h, one quantized value at a time.
// Out-of-range indices are skipped so a short buffer never panics; length
// consistency is the caller's validation concern.
func foldPoints(h uint64, data []float32, stride, from, to int) uint64 {
	for p := from; p < to; p++ {
		off := p * stride
		end := off + stride
		if end > len(data) {
			break
		}
		for i := off; i < end; i++ {
			h = h*31 + quantize(data[i])
		}
	}
	return h
}

func quantize(v float32) uint64 {
	f := float64(v) * quantScale
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.MaxUint64
	}
	return uint64(int64(f))
}

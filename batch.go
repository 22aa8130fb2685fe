package pointcache

import (
	"github.com/unkn0wn-root/pointcache/internal/sample"
)

// Format tags the interleaved payload shape of a point batch. Every
// consuming path switches on it exhaustively; there are no optional fields.
type Format uint8

const (
	// FormatIntensity is x, y, z, intensity (4 float32 per point).
	FormatIntensity Format = 1
	// FormatColor is x, y, z, r, g, b, a (7 float32 per point), the legacy
	// per-point color shape.
	FormatColor Format = 2
)

// Stride is the number of float32 values per point.
func (f Format) Stride() int {
	switch f {
	case FormatIntensity:
		return 4
	case FormatColor:
		return 7
	default:
		return 0
	}
}

// attrDim is the number of non-position values per point.
func (f Format) attrDim() int { return f.Stride() - 3 }

func (f Format) valid() bool { return f == FormatIntensity || f == FormatColor }

func (f Format) String() string {
	switch f {
	case FormatIntensity:
		return "intensity"
	case FormatColor:
		return "color"
	default:
		return "unknown"
	}
}

// Batch is a validated, immutable batch of point-attribute data as submitted
// by ingestion: interleaved positions plus intensity or color, a point count,
// a render point size, and a precomputed content hash.
type Batch struct {
	data      []float32
	count     int
	pointSize float32
	format    Format
	hash      uint64
}

// NewBatch validates the raw sample buffer against the declared format and
// count and computes the content hash. The data slice is retained, not
// copied; callers must not mutate it afterwards.
func NewBatch(data []float32, count int, pointSize float32, format Format) (*Batch, error) {
	return newBatch(data, count, pointSize, format, 0)
}

// NewBatchWithHash is NewBatch for callers that already fingerprinted the
// buffer (for example on the ingestion side of a transport). The hash must
// have been produced by ContentHash over the same data.
func NewBatchWithHash(data []float32, count int, pointSize float32, format Format, hash uint64) (*Batch, error) {
	if hash == sample.Empty {
		return NewBatch(data, count, pointSize, format)
	}
	return newBatch(data, count, pointSize, format, hash)
}

func newBatch(data []float32, count int, pointSize float32, format Format, hash uint64) (*Batch, error) {
	if !format.valid() {
		return nil, &BatchError{Format: format, Count: count, Len: len(data), Reason: "unknown format tag"}
	}
	if count <= 0 {
		return nil, &BatchError{Format: format, Count: count, Len: len(data), Reason: "count must be positive"}
	}
	if len(data) != count*format.Stride() {
		return nil, &BatchError{Format: format, Count: count, Len: len(data), Reason: "buffer length inconsistent with format stride"}
	}
	if pointSize <= 0 {
		pointSize = 1
	}
	if hash == 0 {
		hash = sample.Hash(data, format.Stride(), count, uint8(format))
	}
	return &Batch{
		data:      data,
		count:     count,
		pointSize: pointSize,
		format:    format,
		hash:      hash,
	}, nil
}

func (b *Batch) Count() int         { return b.count }
func (b *Batch) PointSize() float32 { return b.pointSize }
func (b *Batch) Format() Format     { return b.format }

// ContentHash is the bounded-sample fingerprint used as the cache key.
func (b *Batch) ContentHash() uint64 { return b.hash }

// Data returns the interleaved sample buffer. Treat as read-only.
func (b *Batch) Data() []float32 { return b.data }

// split deinterleaves the batch into the position stream (3 per point) and
// the attribute stream (intensity or color, per format).
func (b *Batch) split() (positions, attributes []float32) {
	stride := b.format.Stride()
	ad := b.format.attrDim()
	positions = make([]float32, b.count*3)
	attributes = make([]float32, b.count*ad)
	for p := 0; p < b.count; p++ {
		off := p * stride
		copy(positions[p*3:p*3+3], b.data[off:off+3])
		copy(attributes[p*ad:p*ad+ad], b.data[off+3:off+stride])
	}
	return positions, attributes
}

// ContentHash fingerprints count points of interleaved data in the given
// format. Exposed so transports can precompute hashes before handing batches
// to the cache; see NewBatchWithHash.
func ContentHash(data []float32, count int, format Format) uint64 {
	return sample.Hash(data, format.Stride(), count, uint8(format))
}

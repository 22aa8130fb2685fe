// Package ingest is the boundary between a point-cloud transport and the
// cache. A Frame is the wire shape of one batch; a Pipeline decodes frames
// with a pluggable codec, validates them, and applies them to a cache with
// last-writer-wins semantics. Malformed frames are rejected with a clear
// error and the entity's previous binding and buffer are left untouched.
package ingest

import (
	"fmt"

	"github.com/unkn0wn-root/pointcache"
	"github.com/unkn0wn-root/pointcache/codec"
)

// Frame is one point batch as produced by a transport (rosbridge-style
// JSON/CBOR bridges, msgpack streams, or the raw binary framing in
// BinaryCodec).
type Frame struct {
	EntityID  string            `json:"entity_id" msgpack:"entity_id"`
	Format    pointcache.Format `json:"format" msgpack:"format"`
	Count     int               `json:"count" msgpack:"count"`
	PointSize float32           `json:"point_size" msgpack:"point_size"`
	Points    []float32         `json:"points" msgpack:"points"`
}

// Batch validates the frame and builds an immutable batch. All shape checks
// (positive count, payload length against the format stride) happen here;
// errors wrap pointcache.ErrMalformedBatch.
func (f Frame) Batch() (*pointcache.Batch, error) {
	if f.EntityID == "" {
		return nil, fmt.Errorf("ingest: frame without entity id: %w", pointcache.ErrMalformedBatch)
	}
	return pointcache.NewBatch(f.Points, f.Count, f.PointSize, f.Format)
}

// Pipeline feeds decoded frames into a cache. Like the cache itself it is
// single-mutator: call Apply from one goroutine. Rejections are reported
// through the returned error only; the transport loop owns logging.
type Pipeline struct {
	cache pointcache.Cache
	codec codec.Codec[Frame]
}

// NewPipeline wires a frame codec to a cache. Wrap the codec with
// codec.Limit to bound payload sizes from untrusted transports.
func NewPipeline(cache pointcache.Cache, c codec.Codec[Frame]) *Pipeline {
	return &Pipeline{cache: cache, codec: c}
}

// Apply decodes one raw frame and submits it. Only the latest batch per
// entity is retained; there is no queueing or backpressure, because stale
// data is irrelevant for live visualization.
func (p *Pipeline) Apply(raw []byte) error {
	f, err := p.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("ingest: decode frame: %w", err)
	}
	return p.ApplyFrame(f)
}

// ApplyFrame validates and submits an already-decoded frame.
func (p *Pipeline) ApplyFrame(f Frame) error {
	b, err := f.Batch()
	if err != nil {
		return err
	}
	return p.cache.UpdateData(f.EntityID, b)
}

package ingest

import (
	"github.com/unkn0wn-root/pointcache"
	"github.com/unkn0wn-root/pointcache/codec"
	"github.com/unkn0wn-root/pointcache/internal/wire"
)

// BinaryCodec is the codec.Codec[Frame] for the compact binary framing in
// internal/wire, for transports that skip self-describing formats. The zero
// value is ready to use.
type BinaryCodec struct{}

var _ codec.Codec[Frame] = BinaryCodec{}

func (BinaryCodec) Encode(f Frame) ([]byte, error) {
	return wire.EncodeFrame(wire.Frame{
		EntityID:  f.EntityID,
		Format:    uint8(f.Format),
		Count:     uint32(f.Count),
		PointSize: f.PointSize,
		Points:    f.Points,
	})
}

func (BinaryCodec) Decode(b []byte) (Frame, error) {
	wf, err := wire.DecodeFrame(b)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		EntityID:  wf.EntityID,
		Format:    pointcache.Format(wf.Format),
		Count:     int(wf.Count),
		PointSize: wf.PointSize,
		Points:    wf.Points,
	}, nil
}

// Package wire is the compact binary framing for point-cloud frames on raw
// byte transports:
//
//	magic(4) | ver(1) | format(1) | idLen(u16 be) | id(idLen) |
//	count(u32 be) | pointSize(f32 be) | n(u32 be) | n*f32(be)
//
// Strict validation: trailing bytes, bad magic, bad version, and length
// inconsistencies are all corruption.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("wire: corrupt frame")
	magic4     = [...]byte{'P', 'C', 'L', 'D'}
)

// Frame is the transport shape of one point batch. Format semantics
// (stride, payload layout) are owned by the consumer.
type Frame struct {
	EntityID  string
	Format    uint8
	Count     uint32
	PointSize float32
	Points    []float32
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

func EncodeFrame(f Frame) ([]byte, error) {
	if l := len(f.EntityID); l == 0 || l > 0xFFFF {
		return nil, errors.New("wire: invalid entity id length")
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 2 + len(f.EntityID) + 4 + 4 + 4 + 4*len(f.Points))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(f.Format)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(f.EntityID)))
	buf.Write(u2[:])
	buf.WriteString(f.EntityID)

	binary.BigEndian.PutUint32(u4[:], f.Count)
	buf.Write(u4[:])

	binary.BigEndian.PutUint32(u4[:], math.Float32bits(f.PointSize))
	buf.Write(u4[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(f.Points)))
	buf.Write(u4[:])
	for _, v := range f.Points {
		binary.BigEndian.PutUint32(u4[:], math.Float32bits(v))
		buf.Write(u4[:])
	}

	return buf.Bytes(), nil
}

func DecodeFrame(b []byte) (Frame, error) {
	const hdr = 4 + 1 + 1 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return Frame{}, ErrCorrupt
	}
	format := b[5]

	off := 6
	klen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if klen <= 0 || klen > len(b)-off {
		return Frame{}, ErrCorrupt
	}
	id := string(b[off : off+klen])
	off += klen

	if off+12 > len(b) {
		return Frame{}, ErrCorrupt
	}
	count := binary.BigEndian.Uint32(b[off : off+4])
	off += 4
	pointSize := math.Float32frombits(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4

	if n < 0 || n > (len(b)-off)/4 {
		return Frame{}, ErrCorrupt
	}
	points := make([]float32, n)
	for i := 0; i < n; i++ {
		points[i] = math.Float32frombits(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
	}
	if off != len(b) {
		return Frame{}, ErrCorrupt
	}

	return Frame{
		EntityID:  id,
		Format:    format,
		Count:     count,
		PointSize: pointSize,
		Points:    points,
	}, nil
}

// Package wgpu implements device.Device on top of WebGPU via
// github.com/cogentcore/webgpu. Buffers are created with vertex usage and
// CopyDst so the cache's in-place update path can go through the queue's
// WriteBuffer without reallocating.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/unkn0wn-root/pointcache/device"
)

var ErrReleased = errors.New("wgpu: buffer already released")

type Device struct {
	dev   *wgpu.Device
	queue *wgpu.Queue
}

// New wraps an existing WebGPU device. The caller owns the device and its
// surface/adapter setup; this package only allocates buffers on it.
func New(dev *wgpu.Device) *Device {
	return &Device{dev: dev, queue: dev.GetQueue()}
}

func (d *Device) CreateBuffer(label string, data []float32) (device.Buffer, error) {
	buf, err := d.dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}
	return &buffer{dev: d, label: label, buf: buf, n: len(data)}, nil
}

type buffer struct {
	dev   *Device
	label string
	buf   *wgpu.Buffer
	n     int
}

var _ device.Buffer = (*buffer)(nil)

func (b *buffer) Write(data []float32) error {
	if b.buf == nil {
		return fmt.Errorf("wgpu: write to released buffer %q", b.label)
	}
	if len(data) != b.n {
		return fmt.Errorf("wgpu: write size %d != allocated %d for %q", len(data), b.n, b.label)
	}
	if err := b.dev.queue.WriteBuffer(b.buf, 0, wgpu.ToBytes(data)); err != nil {
		return fmt.Errorf("wgpu: write buffer %q: %w", b.label, err)
	}
	return nil
}

func (b *buffer) Len() int { return b.n }

func (b *buffer) Release() error {
	if b.buf == nil {
		return fmt.Errorf("%w: %q", ErrReleased, b.label)
	}
	b.buf.Release()
	b.buf = nil
	return nil
}

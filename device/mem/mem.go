// Package mem provides an in-memory device.Device for headless use and
// tests. It mirrors GPU semantics: fixed-size allocations, in-place writes,
// and an error on double release.
package mem

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/pointcache/device"
)

var ErrReleased = errors.New("mem: buffer already released")

type Device struct {
	live    int
	created int
}

func New() *Device { return &Device{} }

func (d *Device) CreateBuffer(label string, data []float32) (device.Buffer, error) {
	b := &buffer{
		dev:   d,
		label: label,
		data:  append([]float32(nil), data...),
	}
	d.live++
	d.created++
	return b, nil
}

// Live reports currently allocated buffers; Created reports the total ever
// allocated. Both are test observability, not part of device.Device.
func (d *Device) Live() int    { return d.live }
func (d *Device) Created() int { return d.created }

type buffer struct {
	dev      *Device
	label    string
	data     []float32
	released bool
}

var _ device.Buffer = (*buffer)(nil)

func (b *buffer) Write(data []float32) error {
	if b.released {
		return fmt.Errorf("mem: write to released buffer %q", b.label)
	}
	if len(data) != len(b.data) {
		return fmt.Errorf("mem: write size %d != allocated %d for %q", len(data), len(b.data), b.label)
	}
	copy(b.data, data)
	return nil
}

func (b *buffer) Len() int { return len(b.data) }

func (b *buffer) Release() error {
	if b.released {
		return fmt.Errorf("%w: %q", ErrReleased, b.label)
	}
	b.released = true
	b.dev.live--
	return nil
}

// Data exposes the current contents for assertions in tests.
func (b *buffer) Data() []float32 { return b.data }

// Released reports whether the buffer has been freed.
func (b *buffer) Released() bool { return b.released }

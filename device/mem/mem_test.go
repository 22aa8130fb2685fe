package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWriteRelease(t *testing.T) {
	d := New()
	b, err := d.CreateBuffer("pos", []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 1, d.Live())
	assert.Equal(t, 1, d.Created())

	require.NoError(t, b.Write([]float32{4, 5, 6}))
	data := b.(interface{ Data() []float32 }).Data()
	assert.Equal(t, []float32{4, 5, 6}, data)

	require.NoError(t, b.Release())
	assert.Equal(t, 0, d.Live())
	assert.Equal(t, 1, d.Created())
}

func TestWriteSizeMismatch(t *testing.T) {
	d := New()
	b, err := d.CreateBuffer("pos", []float32{1, 2, 3})
	require.NoError(t, err)

	assert.Error(t, b.Write([]float32{1, 2, 3, 4}), "grow must be rejected")
	assert.Error(t, b.Write([]float32{1}), "shrink must be rejected")
}

func TestDoubleReleaseErrors(t *testing.T) {
	d := New()
	b, err := d.CreateBuffer("pos", []float32{1})
	require.NoError(t, err)

	require.NoError(t, b.Release())
	err = b.Release()
	require.ErrorIs(t, err, ErrReleased)
	assert.Equal(t, 0, d.Live(), "double release must not underflow live count")
}

func TestWriteAfterRelease(t *testing.T) {
	d := New()
	b, err := d.CreateBuffer("pos", []float32{1})
	require.NoError(t, err)
	require.NoError(t, b.Release())
	assert.Error(t, b.Write([]float32{2}))
}

func TestCreateCopiesData(t *testing.T) {
	d := New()
	src := []float32{1, 2, 3}
	b, err := d.CreateBuffer("pos", src)
	require.NoError(t, err)

	src[0] = 99
	data := b.(interface{ Data() []float32 }).Data()
	assert.Equal(t, float32(1), data[0], "buffer must not alias caller data")
}

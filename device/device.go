// Package device defines the GPU allocation backend used by pointcache.
//
// Implementations own physical allocations only; sharing, lifecycle and
// eviction policy live in the cache. A Buffer returned by CreateBuffer is
// fixed-size: Write must cover exactly the allocated extent, never beyond it.
// Release may fail when the underlying resource is already invalid (for
// example released by an unrelated path); callers treat that as a non-fatal
// warning and drop their bookkeeping regardless.
package device

// Buffer is a single fixed-size GPU allocation holding float32 data.
type Buffer interface {
	// Write overwrites the buffer contents in place. len(data) must equal
	// Len; implementations must never grow the allocation.
	Write(data []float32) error

	// Len is the allocated extent in float32 values.
	Len() int

	// Release frees the allocation. Releasing an already-released buffer
	// returns an error; it must not panic.
	Release() error
}

// Device allocates GPU buffers.
type Device interface {
	// CreateBuffer allocates a buffer sized to data and uploads data into it.
	// The label is advisory, used for debugging and driver tooling.
	CreateBuffer(label string, data []float32) (Buffer, error)
}

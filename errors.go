package pointcache

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBatch is returned by UpdateData when no batch is supplied.
	ErrNilBatch = errors.New("pointcache: nil batch")

	// ErrMalformedBatch is the sentinel wrapped by every BatchError.
	ErrMalformedBatch = errors.New("pointcache: malformed batch")
)

// BatchError reports a batch rejected at the ingestion boundary. The caller's
// previous binding and buffer are left untouched.
type BatchError struct {
	Format Format
	Count  int
	Len    int // length of the sample buffer, in float32 values
	Reason string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("pointcache: malformed batch (format=%s count=%d len=%d): %s",
		e.Format, e.Count, e.Len, e.Reason)
}

func (e *BatchError) Unwrap() error { return ErrMalformedBatch }

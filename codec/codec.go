// Package codec (de)serializes ingest frames and other values V <-> []byte
// for transports feeding the cache.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

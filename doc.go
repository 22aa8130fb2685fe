// Package pointcache implements a GPU-resident, content-addressable buffer
// cache for streaming point-cloud visualization. Incoming point batches are
// fingerprinted with a cheap bounded-sample hash; physical GPU buffers are
// shared between visualization entities with identical content, overwritten
// in place when a live stream resubmits with an unchanged point count and
// format, and destroyed deterministically when the last referencing entity
// moves on.
//
// Components:
//   - Batch: an immutable, validated point batch (interleaved positions plus
//     intensity or color, tagged by Format) with a content hash.
//   - device.Device: the GPU allocation backend (WebGPU via device/wgpu, or
//     device/mem for headless use and tests).
//   - Cache: the public facade; per-entity bindings, the hash-keyed buffer
//     store with LRU + expiry eviction, and hit/miss/creation counters.
//
// The cache is single-mutator by design: all mutation (UpdateData,
// RemoveComponent, sweeps) must run on one goroutine, typically the host's
// ingest or render loop. Only the latest batch per entity is retained;
// superseded batches are simply dropped.
//
// Update decision per batch:
//
//	same hash            -> no GPU work (steady-state fast path)
//	same count+format    -> overwrite the existing allocation in place
//	hash already cached  -> share the cached buffer
//	otherwise            -> allocate, insert, evict LRU unreferenced if over capacity
//
// A buffer is never destroyed while any binding references its hash; the
// capacity bound is a soft cap that can be exceeded transiently when every
// entry is live.
package pointcache

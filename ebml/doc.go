// Package ebml implements the low-level EBML wire format used by WebM:
// variable-length element IDs, variable-length unsigned integers (vints),
// and the handful of payload encodings (unsigned integers, 4-byte floats,
// strings, binary blobs) the muxer emits. It also defines the Writer
// contract every higher layer serializes into, plus the concrete sinks
// for files, streams, and in-memory buffers.
//
// All size computations are exposed as pure functions so callers can
// pre-compute a master element's payload size before emitting it, or
// reserve space for a later back-patch.
package ebml

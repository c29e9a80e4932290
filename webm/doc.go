// Package webm implements a single-pass WebM (Matroska subset) muxer.
// A Segment bound to an ebml.Writer accepts VP8 video and Vorbis audio
// frames in presentation order and emits one complete WebM stream:
// EBML header, SeekHead, Info, Tracks, Clusters of SimpleBlocks, and a
// Cues seek index. In file mode the finalize pass back-patches every
// reserved size field; in live mode unknown-size sentinels are left in
// place so the output can go to a non-seekable sink.
package webm

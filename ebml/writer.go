package ebml

import (
	"errors"
	"fmt"
	"io"
)

// ErrNotSeekable is returned by SetPosition on sinks that cannot seek.
var ErrNotSeekable = errors.New("ebml: writer is not seekable")

// Writer is the sink the muxer serializes into. Write appends bytes at
// the current position, Position reports the current byte offset, and
// SetPosition seeks absolutely. Seekable is consulted before any
// back-patch attempt; a non-seekable sink must return false and leave
// reserved size fields at their unknown-size sentinels.
type Writer interface {
	io.Writer
	Position() int64
	SetPosition(pos int64) error
	Seekable() bool
}

// Compile-time interface checks.
var (
	_ Writer = (*IOWriter)(nil)
	_ Writer = (*SeekWriter)(nil)
	_ Writer = (*Buffer)(nil)
)

// IOWriter adapts a plain io.Writer (pipe, socket, stdout) into a
// non-seekable Writer, tracking the byte offset itself.
type IOWriter struct {
	w   io.Writer
	pos int64
}

// NewIOWriter returns a non-seekable Writer appending to w.
func NewIOWriter(w io.Writer) *IOWriter {
	return &IOWriter{w: w}
}

func (w *IOWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	if err != nil {
		return n, fmt.Errorf("ebml: write: %w", err)
	}
	return n, nil
}

func (w *IOWriter) Position() int64 { return w.pos }

func (w *IOWriter) SetPosition(int64) error { return ErrNotSeekable }

func (w *IOWriter) Seekable() bool { return false }

// SeekWriter adapts an io.WriteSeeker (typically an *os.File) into a
// seekable Writer.
type SeekWriter struct {
	ws  io.WriteSeeker
	pos int64
}

// NewSeekWriter returns a seekable Writer over ws, starting at ws's
// current offset.
func NewSeekWriter(ws io.WriteSeeker) (*SeekWriter, error) {
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("ebml: seek: %w", err)
	}
	return &SeekWriter{ws: ws, pos: pos}, nil
}

func (w *SeekWriter) Write(p []byte) (int, error) {
	n, err := w.ws.Write(p)
	w.pos += int64(n)
	if err != nil {
		return n, fmt.Errorf("ebml: write: %w", err)
	}
	return n, nil
}

func (w *SeekWriter) Position() int64 { return w.pos }

func (w *SeekWriter) SetPosition(pos int64) error {
	if _, err := w.ws.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("ebml: seek: %w", err)
	}
	w.pos = pos
	return nil
}

func (w *SeekWriter) Seekable() bool { return true }

// Buffer is an in-memory seekable Writer. Writing past the end grows the
// buffer; writing inside it overwrites in place, which is what the
// finalize pass needs for size back-patches.
type Buffer struct {
	buf []byte
	pos int64
}

// NewBuffer returns an empty in-memory Writer.
func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.buf)) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Position() int64 { return b.pos }

func (b *Buffer) SetPosition(pos int64) error {
	if pos < 0 || pos > int64(len(b.buf)) {
		return fmt.Errorf("ebml: position %d out of range [0,%d]", pos, len(b.buf))
	}
	b.pos = pos
	return nil
}

func (b *Buffer) Seekable() bool { return true }

// Bytes returns the written contents. The slice aliases the internal
// buffer and is only valid until the next Write.
func (b *Buffer) Bytes() []byte { return b.buf }

// Len returns the total number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.buf) }

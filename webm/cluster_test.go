package webm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zsiec/webmmux/ebml"
)

func TestWriteSimpleBlockLayout(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	if err := writeSimpleBlock(b, 1, 0x0102, true, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("writeSimpleBlock failed: %v", err)
	}
	want := []byte{
		0xA3,                   // SimpleBlock ID
		0x10, 0x00, 0x00, 0x06, // 4-byte size vint: 4 + 2
		0x81,       // track 1
		0x01, 0x02, // relative timecode
		0x80,       // key flag
		0xAA, 0xBB, // payload
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("block bytes = %x, want %x", b.Bytes(), want)
	}
	if got := uint64(b.Len()); got != simpleBlockSize(2) {
		t.Errorf("wrote %d bytes, simpleBlockSize = %d", got, simpleBlockSize(2))
	}
}

func TestWriteSimpleBlockNonKey(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	if err := writeSimpleBlock(b, 2, 0, false, []byte{0x01}); err != nil {
		t.Fatalf("writeSimpleBlock failed: %v", err)
	}
	// flags byte is the 9th byte
	if flags := b.Bytes()[8]; flags != 0 {
		t.Errorf("flags = %#x, want 0", flags)
	}
}

func TestWriteSimpleBlockValidation(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	if err := writeSimpleBlock(b, 0, 0, false, []byte{1}); !errors.Is(err, ErrInvalidTrackNumber) {
		t.Errorf("track 0: err = %v, want ErrInvalidTrackNumber", err)
	}
	if err := writeSimpleBlock(b, 127, 0, false, []byte{1}); !errors.Is(err, ErrInvalidTrackNumber) {
		t.Errorf("track 127: err = %v, want ErrInvalidTrackNumber", err)
	}
	if err := writeSimpleBlock(b, 1, 0, false, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("empty data: err = %v, want ErrEmptyFrame", err)
	}
}

func TestClusterHeaderUnknownSize(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	c := newCluster(5, b.Position())
	if err := c.writeHeader(b); err != nil {
		t.Fatalf("writeHeader failed: %v", err)
	}
	got := b.Bytes()
	wantPrefix := []byte{
		0x1F, 0x43, 0xB6, 0x75, // Cluster ID
		0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // unknown size
		0xE7, 0x81, 0x05, // Timecode = 5
	}
	if !bytes.Equal(got, wantPrefix) {
		t.Errorf("header = %x, want %x", got, wantPrefix)
	}
	if c.PayloadSize() != 3 {
		t.Errorf("PayloadSize = %d, want 3", c.PayloadSize())
	}
}

func TestClusterAddFrameTimecodeRange(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	c := newCluster(100, b.Position())
	if err := c.writeHeader(b); err != nil {
		t.Fatal(err)
	}
	// 50ms is before the 100-tick base.
	early := &Frame{Data: []byte{1}, TrackNumber: 1, Timestamp: 50_000_000}
	if err := c.addFrame(b, early, 1_000_000); !errors.Is(err, ErrTimecodeOutOfRange) {
		t.Errorf("early frame: err = %v, want ErrTimecodeOutOfRange", err)
	}
	// 40s past the base overflows the signed 16-bit offset.
	late := &Frame{Data: []byte{1}, TrackNumber: 1, Timestamp: 40_100_000_000}
	if err := c.addFrame(b, late, 1_000_000); !errors.Is(err, ErrTimecodeOutOfRange) {
		t.Errorf("late frame: err = %v, want ErrTimecodeOutOfRange", err)
	}
	ok := &Frame{Data: []byte{1}, TrackNumber: 1, Timestamp: 100_000_000, IsKey: true}
	if err := c.addFrame(b, ok, 1_000_000); err != nil {
		t.Errorf("in-range frame: err = %v", err)
	}
	if c.BlocksAdded() != 1 {
		t.Errorf("BlocksAdded = %d, want 1", c.BlocksAdded())
	}
}

func TestClusterFinalizeBackpatch(t *testing.T) {
	t.Parallel()
	b := ebml.NewBuffer()
	c := newCluster(0, b.Position())
	if err := c.writeHeader(b); err != nil {
		t.Fatal(err)
	}
	f := &Frame{Data: []byte{0xDE, 0xAD}, TrackNumber: 1, IsKey: true}
	if err := c.addFrame(b, f, 1_000_000); err != nil {
		t.Fatal(err)
	}
	if err := c.finalize(b); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	// Size field sits right after the 4-byte Cluster ID. The payload is
	// the Timecode element (3 bytes) plus one SimpleBlock.
	payload := 3 + simpleBlockSize(2)
	sizeField := b.Bytes()[4:12]
	want := []byte{0x01, 0, 0, 0, 0, 0, 0, byte(payload)}
	if !bytes.Equal(sizeField, want) {
		t.Errorf("size field = %x, want %x", sizeField, want)
	}
	if err := c.finalize(b); !errors.Is(err, ErrFinalized) {
		t.Errorf("second finalize: err = %v, want ErrFinalized", err)
	}
	if err := c.addFrame(b, f, 1_000_000); !errors.Is(err, ErrFinalized) {
		t.Errorf("addFrame after finalize: err = %v, want ErrFinalized", err)
	}
}

func TestClusterFinalizeNotSeekable(t *testing.T) {
	t.Parallel()
	var sink bytes.Buffer
	w := ebml.NewIOWriter(&sink)
	c := newCluster(0, w.Position())
	if err := c.writeHeader(w); err != nil {
		t.Fatal(err)
	}
	f := &Frame{Data: []byte{1}, TrackNumber: 1, IsKey: true}
	if err := c.addFrame(w, f, 1_000_000); err != nil {
		t.Fatal(err)
	}
	if err := c.finalize(w); err != nil {
		t.Fatalf("finalize on pipe failed: %v", err)
	}
	// The unknown-size sentinel must survive.
	sizeField := sink.Bytes()[4:12]
	want := []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(sizeField, want) {
		t.Errorf("size field = %x, want unknown-size sentinel", sizeField)
	}
}

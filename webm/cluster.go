package webm

import (
	"github.com/zsiec/webmmux/ebml"
)

// Cluster is one Cluster element. Its size field is written as the
// unknown-size sentinel while blocks stream in; file mode back-patches
// it once the cluster closes.
type Cluster struct {
	// timecode is the cluster base in timecode-scale units. Block
	// timecodes are signed 16-bit offsets from it.
	timecode uint64

	// position is the stream offset of the Cluster ID byte. Cue points
	// reference this offset, not wherever the writer happens to be
	// when the cue is recorded.
	position int64

	sizePosition int64
	payload      uint64
	blocksAdded  int
	finalized    bool
}

func newCluster(timecode uint64, position int64) *Cluster {
	return &Cluster{timecode: timecode, position: position}
}

// Timecode returns the cluster base timecode in timecode-scale units.
func (c *Cluster) Timecode() uint64 { return c.timecode }

// Position returns the stream offset of the cluster header.
func (c *Cluster) Position() int64 { return c.position }

// BlocksAdded returns how many SimpleBlocks the cluster holds.
func (c *Cluster) BlocksAdded() int { return c.blocksAdded }

// PayloadSize returns the cluster payload bytes written so far.
func (c *Cluster) PayloadSize() uint64 { return c.payload }

// writeHeader emits the Cluster ID, an unknown-size sentinel, and the
// base Timecode element.
func (c *Cluster) writeHeader(w ebml.Writer) error {
	if err := ebml.WriteID(w, ebml.IDCluster); err != nil {
		return err
	}
	c.sizePosition = w.Position()
	if err := ebml.WriteUnknownSize(w); err != nil {
		return err
	}
	payloadStart := w.Position()
	if err := ebml.WriteUint(w, ebml.IDTimecode, c.timecode); err != nil {
		return err
	}
	c.payload = uint64(w.Position() - payloadStart)
	return nil
}

// addFrame appends one SimpleBlock. The relative timecode must be
// non-negative and fit a signed 16-bit field. The segment's boundary
// policy does not look at this range, so a frame more than 32767 ticks
// past the cluster base is rejected here with ErrTimecodeOutOfRange.
func (c *Cluster) addFrame(w ebml.Writer, f *Frame, timecodeScale uint64) error {
	if c.finalized {
		return ErrFinalized
	}
	relative := f.Timestamp/int64(timecodeScale) - int64(c.timecode)
	if relative < 0 || relative > 32767 {
		return ErrTimecodeOutOfRange
	}
	if err := writeSimpleBlock(w, f.TrackNumber, int16(relative), f.IsKey, f.Data); err != nil {
		return err
	}
	c.payload += simpleBlockSize(len(f.Data))
	c.blocksAdded++
	return nil
}

// finalize back-patches the cluster size when the writer is seekable.
// On a non-seekable sink the unknown-size sentinel stands. Finalizing
// twice is an error.
func (c *Cluster) finalize(w ebml.Writer) error {
	if c.finalized {
		return ErrFinalized
	}
	if w.Seekable() {
		end := w.Position()
		if err := w.SetPosition(c.sizePosition); err != nil {
			return err
		}
		if err := ebml.WriteVintWidth(w, c.payload, 8); err != nil {
			return err
		}
		if err := w.SetPosition(end); err != nil {
			return err
		}
	}
	c.finalized = true
	return nil
}

// writeSimpleBlock emits one SimpleBlock: a one-byte track vint, a
// signed 16-bit big-endian relative timecode, a flags byte, and the
// frame payload. The element size is always a 4-byte vint so block
// sizes stay predictable regardless of payload length.
func writeSimpleBlock(w ebml.Writer, trackNumber uint64, relative int16, isKey bool, data []byte) error {
	if trackNumber < 1 || trackNumber > 126 {
		return ErrInvalidTrackNumber
	}
	if len(data) == 0 {
		return ErrEmptyFrame
	}
	if err := ebml.WriteID(w, ebml.IDSimpleBlock); err != nil {
		return err
	}
	if err := ebml.WriteVintWidth(w, uint64(4+len(data)), 4); err != nil {
		return err
	}
	header := [4]byte{
		byte(0x80 | trackNumber),
		byte(uint16(relative) >> 8),
		byte(uint16(relative)),
		0,
	}
	if isKey {
		header[3] |= 0x80
	}
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// simpleBlockSize returns the serialized size of a SimpleBlock holding
// a payload of the given length: ID, 4-byte size vint, block header,
// payload.
func simpleBlockSize(payloadLen int) uint64 {
	return 1 + 4 + 4 + uint64(payloadLen)
}

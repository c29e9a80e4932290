package webm

import (
	"fmt"

	"github.com/zsiec/webmmux/ebml"
)

// CuePoint is one seek index entry: a cluster-relative position for the
// first block of the indexed track in a cluster.
type CuePoint struct {
	// Time is the cue time in timecode-scale units.
	Time uint64
	// Track is the indexed track's number.
	Track uint64
	// ClusterPosition is the cluster header offset relative to the
	// start of the segment payload.
	ClusterPosition uint64
	// BlockNumber is the 1-based index of the cued block within its
	// cluster.
	BlockNumber uint64
}

func (cp *CuePoint) positionsPayloadSize() uint64 {
	size := ebml.UintElementSize(ebml.IDCueTrack, cp.Track)
	size += ebml.UintElementSize(ebml.IDCueClusterPosition, cp.ClusterPosition)
	if cp.BlockNumber > 1 {
		size += ebml.UintElementSize(ebml.IDCueBlockNumber, cp.BlockNumber)
	}
	return size
}

func (cp *CuePoint) payloadSize() uint64 {
	size := ebml.UintElementSize(ebml.IDCueTime, cp.Time)
	size += ebml.MasterHeaderSize(ebml.IDCueTrackPositions) + cp.positionsPayloadSize()
	return size
}

func (cp *CuePoint) size() uint64 {
	return ebml.MasterHeaderSize(ebml.IDCuePoint) + cp.payloadSize()
}

func (cp *CuePoint) write(w ebml.Writer) error {
	if err := ebml.WriteMaster(w, ebml.IDCuePoint, cp.payloadSize()); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDCueTime, cp.Time); err != nil {
		return err
	}
	if err := ebml.WriteMaster(w, ebml.IDCueTrackPositions, cp.positionsPayloadSize()); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDCueTrack, cp.Track); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDCueClusterPosition, cp.ClusterPosition); err != nil {
		return err
	}
	if cp.BlockNumber > 1 {
		if err := ebml.WriteUint(w, ebml.IDCueBlockNumber, cp.BlockNumber); err != nil {
			return err
		}
	}
	return nil
}

// Cues accumulates cue points while clusters stream out and serializes
// the Cues element during finalize.
type Cues struct {
	points        []*CuePoint
	noBlockNumber bool
}

// Add appends a cue point. Points arrive in presentation order, so no
// sorting happens here.
func (c *Cues) Add(cp CuePoint) {
	c.points = append(c.points, &cp)
}

// Len returns the number of accumulated cue points.
func (c *Cues) Len() int { return len(c.points) }

// Points returns the accumulated cue points in insertion order.
func (c *Cues) Points() []*CuePoint { return c.points }

// OutputBlockNumber controls whether CueBlockNumber elements are
// serialized. Enabled by default. Block number 1 is omitted on the
// wire either way.
func (c *Cues) OutputBlockNumber(enabled bool) {
	c.noBlockNumber = !enabled
}

func (c *Cues) effective(cp *CuePoint) CuePoint {
	out := *cp
	if c.noBlockNumber {
		out.BlockNumber = 1
	}
	return out
}

func (c *Cues) payloadSize() uint64 {
	var size uint64
	for _, cp := range c.points {
		eff := c.effective(cp)
		size += eff.size()
	}
	return size
}

// Size returns the full serialized size of the Cues element.
func (c *Cues) Size() uint64 {
	return ebml.MasterHeaderSize(ebml.IDCues) + c.payloadSize()
}

// Write serializes the Cues element and cross-checks the written byte
// count against the size math.
func (c *Cues) Write(w ebml.Writer) error {
	payload := c.payloadSize()
	start := w.Position()
	if err := ebml.WriteMaster(w, ebml.IDCues, payload); err != nil {
		return err
	}
	for _, cp := range c.points {
		eff := c.effective(cp)
		if err := eff.write(w); err != nil {
			return err
		}
	}
	written := uint64(w.Position() - start)
	want := ebml.MasterHeaderSize(ebml.IDCues) + payload
	if written != want {
		return fmt.Errorf("%w: cues wrote %d bytes, computed %d", ErrSizeMismatch, written, want)
	}
	return nil
}

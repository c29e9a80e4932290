package webm

import (
	"fmt"

	"github.com/zsiec/webmmux/ebml"
)

const muxingApp = "webmmux"

// SegmentInfo models the Info element: the timecode scale that all
// cluster and cue timecodes are expressed in, the application tags, and
// an optional Duration that file mode reserves up front and patches
// during finalize.
type SegmentInfo struct {
	// TimecodeScale is nanoseconds per timecode tick. The default of
	// 1ms makes block timecodes millisecond offsets.
	TimecodeScale uint64
	MuxingApp     string
	WritingApp    string

	// duration holds the placeholder written at header time. A Duration
	// element is emitted only when hasDuration is set (never in live
	// mode); a set duration of zero is still written.
	duration    float64
	hasDuration bool
	durationPos int64
}

// NewSegmentInfo returns an info block with the 1ms default scale and
// the muxer's application tags.
func NewSegmentInfo() *SegmentInfo {
	return &SegmentInfo{
		TimecodeScale: 1000000,
		MuxingApp:     muxingApp,
		WritingApp:    muxingApp,
	}
}

// SetDuration arranges for a Duration element to be written. File mode
// calls this with a placeholder before the header goes out, then
// patches the real value in Finalize.
func (si *SegmentInfo) SetDuration(d float64) {
	si.duration = d
	si.hasDuration = true
}

// Duration returns the duration value and whether one is set.
func (si *SegmentInfo) Duration() (float64, bool) {
	return si.duration, si.hasDuration
}

func (si *SegmentInfo) payloadSize() uint64 {
	size := ebml.UintElementSize(ebml.IDTimecodeScale, si.TimecodeScale)
	if si.hasDuration {
		size += ebml.FloatElementSize(ebml.IDDuration)
	}
	size += ebml.StringElementSize(ebml.IDMuxingApp, si.MuxingApp)
	size += ebml.StringElementSize(ebml.IDWritingApp, si.WritingApp)
	return size
}

// Size returns the full serialized size of the Info element.
func (si *SegmentInfo) Size() uint64 {
	return ebml.MasterHeaderSize(ebml.IDInfo) + si.payloadSize()
}

// Write serializes the Info element, recording where the Duration value
// lands so Finalize can patch it.
func (si *SegmentInfo) Write(w ebml.Writer) error {
	payload := si.payloadSize()
	start := w.Position()
	if err := ebml.WriteMaster(w, ebml.IDInfo, payload); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDTimecodeScale, si.TimecodeScale); err != nil {
		return err
	}
	if si.hasDuration {
		si.durationPos = w.Position()
		if err := ebml.WriteFloat(w, ebml.IDDuration, si.duration); err != nil {
			return err
		}
	}
	if err := ebml.WriteString(w, ebml.IDMuxingApp, si.MuxingApp); err != nil {
		return err
	}
	if err := ebml.WriteString(w, ebml.IDWritingApp, si.WritingApp); err != nil {
		return err
	}
	written := uint64(w.Position() - start)
	want := ebml.MasterHeaderSize(ebml.IDInfo) + payload
	if written != want {
		return fmt.Errorf("%w: info wrote %d bytes, computed %d", ErrSizeMismatch, written, want)
	}
	return nil
}

// Finalize patches the Duration element with the real segment duration
// in timecode-scale units. The placeholder is always overwritten once
// it was reserved, so a zero-length segment reports 0 instead of the
// placeholder value.
func (si *SegmentInfo) Finalize(w ebml.Writer, duration float64) error {
	if !si.hasDuration || !w.Seekable() {
		return nil
	}
	si.duration = duration
	end := w.Position()
	if err := w.SetPosition(si.durationPos); err != nil {
		return err
	}
	if err := ebml.WriteFloat(w, ebml.IDDuration, duration); err != nil {
		return err
	}
	return w.SetPosition(end)
}

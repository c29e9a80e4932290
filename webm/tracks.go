package webm

import (
	"fmt"

	"github.com/zsiec/webmmux/ebml"
)

// Tracks is the ordered track registry. Track numbers are assigned
// sequentially starting at 1 so they always fit a one-byte block vint.
type Tracks struct {
	tracks []*Track
}

// Add registers a track, assigning the next track number and, when the
// track's UID is zero, a random UID. The single-byte block vint caps
// the registry at 126 tracks.
func (ts *Tracks) Add(t *Track) (*Track, error) {
	next := uint64(len(ts.tracks) + 1)
	if next > 126 {
		return nil, ErrInvalidTrackNumber
	}
	t.Number = next
	if t.UID == 0 {
		t.UID = newTrackUID()
	}
	ts.tracks = append(ts.tracks, t)
	return t, nil
}

// ByNumber returns the track with the given number, or nil.
func (ts *Tracks) ByNumber(n uint64) *Track {
	if n < 1 || n > uint64(len(ts.tracks)) {
		return nil
	}
	return ts.tracks[n-1]
}

// Len returns the number of registered tracks.
func (ts *Tracks) Len() int { return len(ts.tracks) }

// IsVideo reports whether track n exists and is a video track.
func (ts *Tracks) IsVideo(n uint64) bool {
	t := ts.ByNumber(n)
	return t != nil && t.Type == TrackTypeVideo
}

// IsAudio reports whether track n exists and is an audio track.
func (ts *Tracks) IsAudio(n uint64) bool {
	t := ts.ByNumber(n)
	return t != nil && t.Type == TrackTypeAudio
}

// FirstOfType returns the lowest-numbered track of the given type, or
// nil when none is registered.
func (ts *Tracks) FirstOfType(typ TrackType) *Track {
	for _, t := range ts.tracks {
		if t.Type == typ {
			return t
		}
	}
	return nil
}

func (ts *Tracks) payloadSize() uint64 {
	var size uint64
	for _, t := range ts.tracks {
		size += t.size()
	}
	return size
}

// Write serializes the Tracks master element. The written byte count is
// cross-checked against the precomputed size so a drift between the
// size math and the write path fails loudly instead of corrupting the
// stream.
func (ts *Tracks) Write(w ebml.Writer) error {
	payload := ts.payloadSize()
	start := w.Position()
	if err := ebml.WriteMaster(w, ebml.IDTracks, payload); err != nil {
		return err
	}
	for _, t := range ts.tracks {
		if err := t.write(w); err != nil {
			return err
		}
	}
	written := uint64(w.Position() - start)
	want := ebml.MasterHeaderSize(ebml.IDTracks) + payload
	if written != want {
		return fmt.Errorf("%w: tracks wrote %d bytes, computed %d", ErrSizeMismatch, written, want)
	}
	return nil
}

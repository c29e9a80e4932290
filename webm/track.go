package webm

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zsiec/webmmux/ebml"
)

// TrackType is the Matroska track class.
type TrackType uint64

const (
	TrackTypeVideo TrackType = 1
	TrackTypeAudio TrackType = 2
)

// Codec IDs for the WebM profile.
const (
	CodecVP8    = "V_VP8"
	CodecVorbis = "A_VORBIS"
)

// Track is one TrackEntry: the common identity and codec metadata plus
// exactly one of the Video or Audio settings variants. Tracks are
// immutable once the Tracks element has been written.
type Track struct {
	Number       uint64
	UID          uint64
	Type         TrackType
	CodecID      string
	CodecPrivate []byte
	Language     string
	Name         string

	Video *VideoSettings
	Audio *AudioSettings
}

// VideoSettings is the Video master of a video TrackEntry. Zero-valued
// optional fields are omitted on the wire.
type VideoSettings struct {
	Width         uint64
	Height        uint64
	DisplayWidth  uint64
	DisplayHeight uint64
	StereoMode    uint64
	FrameRate     float64
}

// SetStereoMode sets the stereo mode, restricted to the values Matroska
// defines for WebM: 0 mono, 1 side-by-side left first, 2 top-bottom
// right first, 3 top-bottom left first, 11 side-by-side right first.
func (v *VideoSettings) SetStereoMode(mode uint64) error {
	switch mode {
	case 0, 1, 2, 3, 11:
		v.StereoMode = mode
		return nil
	default:
		return ErrInvalidStereoMode
	}
}

func (v *VideoSettings) payloadSize() uint64 {
	size := ebml.UintElementSize(ebml.IDPixelWidth, v.Width)
	size += ebml.UintElementSize(ebml.IDPixelHeight, v.Height)
	if v.DisplayWidth > 0 {
		size += ebml.UintElementSize(ebml.IDDisplayWidth, v.DisplayWidth)
	}
	if v.DisplayHeight > 0 {
		size += ebml.UintElementSize(ebml.IDDisplayHeight, v.DisplayHeight)
	}
	if v.StereoMode > 0 {
		size += ebml.UintElementSize(ebml.IDStereoMode, v.StereoMode)
	}
	if v.FrameRate > 0 {
		size += ebml.FloatElementSize(ebml.IDFrameRate)
	}
	return size
}

func (v *VideoSettings) write(w ebml.Writer) error {
	if err := ebml.WriteMaster(w, ebml.IDVideo, v.payloadSize()); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDPixelWidth, v.Width); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDPixelHeight, v.Height); err != nil {
		return err
	}
	if v.DisplayWidth > 0 {
		if err := ebml.WriteUint(w, ebml.IDDisplayWidth, v.DisplayWidth); err != nil {
			return err
		}
	}
	if v.DisplayHeight > 0 {
		if err := ebml.WriteUint(w, ebml.IDDisplayHeight, v.DisplayHeight); err != nil {
			return err
		}
	}
	if v.StereoMode > 0 {
		if err := ebml.WriteUint(w, ebml.IDStereoMode, v.StereoMode); err != nil {
			return err
		}
	}
	if v.FrameRate > 0 {
		if err := ebml.WriteFloat(w, ebml.IDFrameRate, v.FrameRate); err != nil {
			return err
		}
	}
	return nil
}

// AudioSettings is the Audio master of an audio TrackEntry. The sample
// rate is stored as a 4-byte float on the wire.
type AudioSettings struct {
	SampleRate float64
	Channels   uint64
	BitDepth   uint64
}

func (a *AudioSettings) payloadSize() uint64 {
	size := ebml.FloatElementSize(ebml.IDSamplingFrequency)
	size += ebml.UintElementSize(ebml.IDChannels, a.Channels)
	if a.BitDepth > 0 {
		size += ebml.UintElementSize(ebml.IDBitDepth, a.BitDepth)
	}
	return size
}

func (a *AudioSettings) write(w ebml.Writer) error {
	if err := ebml.WriteMaster(w, ebml.IDAudio, a.payloadSize()); err != nil {
		return err
	}
	if err := ebml.WriteFloat(w, ebml.IDSamplingFrequency, a.SampleRate); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDChannels, a.Channels); err != nil {
		return err
	}
	if a.BitDepth > 0 {
		if err := ebml.WriteUint(w, ebml.IDBitDepth, a.BitDepth); err != nil {
			return err
		}
	}
	return nil
}

// payloadSize returns the TrackEntry payload size: the common fields
// plus the settings variant's master.
func (t *Track) payloadSize() uint64 {
	size := ebml.UintElementSize(ebml.IDTrackNumber, t.Number)
	size += ebml.UintElementSize(ebml.IDTrackUID, t.UID)
	size += ebml.UintElementSize(ebml.IDTrackType, uint64(t.Type))
	if t.CodecID != "" {
		size += ebml.StringElementSize(ebml.IDCodecID, t.CodecID)
	}
	if t.CodecPrivate != nil {
		size += ebml.BinaryElementSize(ebml.IDCodecPrivate, t.CodecPrivate)
	}
	if t.Language != "" {
		size += ebml.StringElementSize(ebml.IDLanguage, t.Language)
	}
	if t.Name != "" {
		size += ebml.StringElementSize(ebml.IDName, t.Name)
	}
	if t.Video != nil {
		size += ebml.MasterHeaderSize(ebml.IDVideo) + t.Video.payloadSize()
	}
	if t.Audio != nil {
		size += ebml.MasterHeaderSize(ebml.IDAudio) + t.Audio.payloadSize()
	}
	return size
}

// size returns the full serialized TrackEntry size, header included.
func (t *Track) size() uint64 {
	payload := t.payloadSize()
	return ebml.MasterHeaderSize(ebml.IDTrackEntry) + payload
}

func (t *Track) write(w ebml.Writer) error {
	if err := ebml.WriteMaster(w, ebml.IDTrackEntry, t.payloadSize()); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDTrackNumber, t.Number); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDTrackUID, t.UID); err != nil {
		return err
	}
	if err := ebml.WriteUint(w, ebml.IDTrackType, uint64(t.Type)); err != nil {
		return err
	}
	if t.CodecID != "" {
		if err := ebml.WriteString(w, ebml.IDCodecID, t.CodecID); err != nil {
			return err
		}
	}
	if t.CodecPrivate != nil {
		if err := ebml.WriteBinary(w, ebml.IDCodecPrivate, t.CodecPrivate); err != nil {
			return err
		}
	}
	if t.Language != "" {
		if err := ebml.WriteString(w, ebml.IDLanguage, t.Language); err != nil {
			return err
		}
	}
	if t.Name != "" {
		if err := ebml.WriteString(w, ebml.IDName, t.Name); err != nil {
			return err
		}
	}
	if t.Video != nil {
		if err := t.Video.write(w); err != nil {
			return err
		}
	}
	if t.Audio != nil {
		if err := t.Audio.write(w); err != nil {
			return err
		}
	}
	return nil
}

var (
	uidMu   sync.Mutex
	uidRand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())>>1))
)

// SeedTrackUIDs reseeds the track UID generator, pinning the sequence
// for deterministic output in tests.
func SeedTrackUIDs(seed uint64) {
	uidMu.Lock()
	defer uidMu.Unlock()
	uidRand = rand.New(rand.NewPCG(seed, 0))
}

// newTrackUID returns 56 random bits in the low seven bytes of a 64-bit
// word. The upper byte stays zero so the UID always fits an EBML uint
// without tripping over the vint top-bit ambiguity.
func newTrackUID() uint64 {
	uidMu.Lock()
	defer uidMu.Unlock()
	return uidRand.Uint64() & 0x00FFFFFFFFFFFFFF
}

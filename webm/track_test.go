package webm

import (
	"errors"
	"testing"

	"github.com/zsiec/webmmux/ebml"
)

func TestSetStereoMode(t *testing.T) {
	t.Parallel()
	for _, mode := range []uint64{0, 1, 2, 3, 11} {
		var v VideoSettings
		if err := v.SetStereoMode(mode); err != nil {
			t.Errorf("SetStereoMode(%d) = %v, want nil", mode, err)
		}
		if v.StereoMode != mode {
			t.Errorf("StereoMode = %d, want %d", v.StereoMode, mode)
		}
	}
	for _, mode := range []uint64{4, 5, 10, 12, 100} {
		var v VideoSettings
		if err := v.SetStereoMode(mode); !errors.Is(err, ErrInvalidStereoMode) {
			t.Errorf("SetStereoMode(%d) = %v, want ErrInvalidStereoMode", mode, err)
		}
	}
}

func TestTrackWriteMatchesSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		track *Track
	}{
		{
			name: "minimal_video",
			track: &Track{
				Number:  1,
				UID:     0x1234,
				Type:    TrackTypeVideo,
				CodecID: CodecVP8,
				Video:   &VideoSettings{Width: 640, Height: 480},
			},
		},
		{
			name: "full_video",
			track: &Track{
				Number:   2,
				UID:      0x56789A,
				Type:     TrackTypeVideo,
				CodecID:  CodecVP8,
				Language: "eng",
				Name:     "main",
				Video: &VideoSettings{
					Width:         1920,
					Height:        1080,
					DisplayWidth:  1280,
					DisplayHeight: 720,
					StereoMode:    1,
					FrameRate:     29.97,
				},
			},
		},
		{
			name: "audio_with_private",
			track: &Track{
				Number:       3,
				UID:          7,
				Type:         TrackTypeAudio,
				CodecID:      CodecVorbis,
				CodecPrivate: []byte{0x02, 0x01, 0x01},
				Audio:        &AudioSettings{SampleRate: 48000, Channels: 2, BitDepth: 16},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := ebml.NewBuffer()
			if err := tt.track.write(b); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if got, want := uint64(b.Len()), tt.track.size(); got != want {
				t.Errorf("wrote %d bytes, size() = %d", got, want)
			}
		})
	}
}

func TestTrackOptionalFieldsOmitted(t *testing.T) {
	t.Parallel()
	minimal := &Track{
		Number:  1,
		UID:     1,
		Type:    TrackTypeVideo,
		CodecID: CodecVP8,
		Video:   &VideoSettings{Width: 320, Height: 240},
	}
	withName := &Track{
		Number:  1,
		UID:     1,
		Type:    TrackTypeVideo,
		CodecID: CodecVP8,
		Name:    "cam",
		Video:   &VideoSettings{Width: 320, Height: 240},
	}
	delta := withName.size() - minimal.size()
	if want := ebml.StringElementSize(ebml.IDName, "cam"); delta != want {
		t.Errorf("size delta for Name = %d, want %d", delta, want)
	}
}

func TestNewTrackUIDDeterministic(t *testing.T) {
	SeedTrackUIDs(42)
	first := []uint64{newTrackUID(), newTrackUID(), newTrackUID()}
	SeedTrackUIDs(42)
	second := []uint64{newTrackUID(), newTrackUID(), newTrackUID()}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("draw %d: %#x != %#x after reseed", i, first[i], second[i])
		}
	}
}

func TestNewTrackUIDUpperByteZero(t *testing.T) {
	SeedTrackUIDs(7)
	for i := 0; i < 1000; i++ {
		if uid := newTrackUID(); uid&0xFF00000000000000 != 0 {
			t.Fatalf("UID %#x has non-zero upper byte", uid)
		}
	}
}

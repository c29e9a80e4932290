package webm

import "errors"

// Sentinel errors for muxer state and argument validation. These enable
// callers to programmatically distinguish failure modes using errors.Is.
var (
	ErrFinalized          = errors.New("webm: already finalized")
	ErrHeaderWritten      = errors.New("webm: segment header already written")
	ErrUnknownTrack       = errors.New("webm: unknown track")
	ErrInvalidTrackNumber = errors.New("webm: track number must be in 1..126")
	ErrInvalidStereoMode  = errors.New("webm: invalid stereo mode")
	ErrEmptyFrame         = errors.New("webm: empty frame")
	ErrNegativeTimestamp  = errors.New("webm: negative timestamp")
	ErrTimecodeOutOfRange = errors.New("webm: block timecode out of signed 16-bit range")
	ErrSeekHeadFull       = errors.New("webm: seek head slots exhausted")
	ErrSizeMismatch       = errors.New("webm: written payload does not match computed size")
)

package webm

import "bytes"

// Frame is one encoded payload with its track, timestamp and key flag.
// Frames held in the audio hold queue are built by newFrame and own a
// copy of the caller's buffer, because the caller's slice is only valid
// for the duration of the AddFrame call; a frame written straight away
// borrows the caller's slice.
type Frame struct {
	Data        []byte
	TrackNumber uint64
	Timestamp   int64 // nanoseconds
	IsKey       bool
}

func newFrame(data []byte, trackNumber uint64, timestamp int64, isKey bool) *Frame {
	return &Frame{
		Data:        bytes.Clone(data),
		TrackNumber: trackNumber,
		Timestamp:   timestamp,
		IsKey:       isKey,
	}
}

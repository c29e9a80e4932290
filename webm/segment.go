package webm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zsiec/webmmux/ebml"
)

// Mode selects how aggressively the muxer relies on seeking.
type Mode int

const (
	// ModeFile back-patches every reserved size field during Finalize
	// and emits the SeekHead, Duration, and Cues index.
	ModeFile Mode = iota
	// ModeLive leaves unknown-size sentinels in place and skips every
	// element that would require seeking, so output can stream to a
	// pipe or socket.
	ModeLive
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeLive:
		return "live"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Segment is the top-level muxer. Frames arrive in presentation order
// through AddFrame and come out as a single EBML header plus one
// Segment. Segment is not safe for concurrent use; callers that share
// one must serialize externally.
type Segment struct {
	w   ebml.Writer
	log *slog.Logger

	mode       Mode
	outputCues bool
	cuesTrack  uint64

	maxClusterDuration time.Duration
	maxClusterSize     int64

	info     *SegmentInfo
	tracks   Tracks
	cues     Cues
	seekHead SeekHead

	sizePosition int64
	payloadPos   int64

	cluster      *Cluster
	clusterCount int
	queued       []*Frame

	hasVideo      bool
	newCuepoint   bool
	lastTimestamp int64

	headerWritten bool
	finalized     bool
}

// NewSegment creates a muxer writing to w in file mode with cue output
// enabled.
func NewSegment(w ebml.Writer, opts ...func(*Segment)) *Segment {
	s := &Segment{
		w:          w,
		log:        slog.Default().With("component", "webm"),
		mode:       ModeFile,
		outputCues: true,
		info:       NewSegmentInfo(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SegmentOptMode selects file or live mode.
func SegmentOptMode(m Mode) func(*Segment) {
	return func(s *Segment) {
		s.mode = m
	}
}

// SegmentOptLogger sets the logger. A "component" attribute is added.
func SegmentOptLogger(log *slog.Logger) func(*Segment) {
	return func(s *Segment) {
		s.log = log.With("component", "webm")
	}
}

// SegmentOptOutputCues toggles the Cues index (default on).
func SegmentOptOutputCues(enabled bool) func(*Segment) {
	return func(s *Segment) {
		s.outputCues = enabled
	}
}

// SegmentOptCuesTrack pins the cued track. The default, zero, selects
// the first video track, or the first track when no video exists.
func SegmentOptCuesTrack(trackNumber uint64) func(*Segment) {
	return func(s *Segment) {
		s.cuesTrack = trackNumber
	}
}

// SegmentOptMaxClusterDuration caps cluster span; a frame at least this
// far past the cluster base opens a new cluster. Zero means unlimited.
func SegmentOptMaxClusterDuration(d time.Duration) func(*Segment) {
	return func(s *Segment) {
		s.maxClusterDuration = d
	}
}

// SegmentOptMaxClusterSize opens a new cluster once the current one's
// payload reaches this many bytes. Zero means unlimited.
func SegmentOptMaxClusterSize(bytes int64) func(*Segment) {
	return func(s *Segment) {
		s.maxClusterSize = bytes
	}
}

// Info returns the segment info block for pre-header adjustment of the
// timecode scale or application tags.
func (s *Segment) Info() *SegmentInfo { return s.info }

// Cues returns the accumulated cue index.
func (s *Segment) Cues() *Cues { return &s.cues }

// ClusterCount reports how many clusters have been opened so far.
func (s *Segment) ClusterCount() int { return s.clusterCount }

// TrackByNumber returns the registered track with the given number, or
// nil. Returned tracks may be customized until the segment header has
// been written.
func (s *Segment) TrackByNumber(n uint64) *Track { return s.tracks.ByNumber(n) }

// AddTrack registers a track. Tracks must be added before the first
// frame, because the Tracks element is serialized with the segment
// header.
func (s *Segment) AddTrack(t *Track) (*Track, error) {
	if s.finalized {
		return nil, ErrFinalized
	}
	if s.headerWritten {
		return nil, ErrHeaderWritten
	}
	return s.tracks.Add(t)
}

// AddVideoTrack registers a VP8 video track and returns it.
func (s *Segment) AddVideoTrack(width, height uint64) (*Track, error) {
	return s.AddTrack(&Track{
		Type:    TrackTypeVideo,
		CodecID: CodecVP8,
		Video:   &VideoSettings{Width: width, Height: height},
	})
}

// AddAudioTrack registers a Vorbis audio track and returns it.
func (s *Segment) AddAudioTrack(sampleRate float64, channels uint64) (*Track, error) {
	if channels == 0 {
		channels = 1
	}
	return s.AddTrack(&Track{
		Type:    TrackTypeAudio,
		CodecID: CodecVorbis,
		Audio:   &AudioSettings{SampleRate: sampleRate, Channels: channels},
	})
}

// AddFrame accepts one encoded frame in presentation order. The data
// slice is only borrowed for the duration of the call; if the frame is
// held for A/V alignment an owned copy is queued. The segment header is
// written lazily on the first frame.
func (s *Segment) AddFrame(data []byte, trackNumber uint64, timestamp int64, isKey bool) error {
	if s.finalized {
		return ErrFinalized
	}
	if len(data) == 0 {
		return ErrEmptyFrame
	}
	if timestamp < 0 {
		return ErrNegativeTimestamp
	}
	if s.tracks.ByNumber(trackNumber) == nil {
		return ErrUnknownTrack
	}
	if !s.headerWritten {
		if err := s.writeSegmentHeader(); err != nil {
			return err
		}
	}

	// Hold audio when video is present so the samples straddling a
	// video key-frame land in the same cluster as that key-frame.
	if s.hasVideo && s.tracks.IsAudio(trackNumber) {
		s.queued = append(s.queued, newFrame(data, trackNumber, timestamp, isKey))
		return nil
	}

	if s.shouldStartNewCluster(trackNumber, timestamp, isKey) {
		if err := s.makeNewCluster(timestamp); err != nil {
			return err
		}
	} else if err := s.flushQueuedLessThan(timestamp); err != nil {
		return err
	}

	f := &Frame{Data: data, TrackNumber: trackNumber, Timestamp: timestamp, IsKey: isKey}
	return s.writeFrame(f)
}

// shouldStartNewCluster applies the boundary policy: video key-frames,
// the duration cap, and the size cap each force a boundary, in that
// order.
func (s *Segment) shouldStartNewCluster(trackNumber uint64, timestamp int64, isKey bool) bool {
	if s.cluster == nil {
		return true
	}
	if isKey && s.tracks.IsVideo(trackNumber) {
		return true
	}
	clusterNs := int64(s.cluster.timecode * s.info.TimecodeScale)
	if s.maxClusterDuration > 0 && timestamp-clusterNs >= int64(s.maxClusterDuration) {
		return true
	}
	if s.maxClusterSize > 0 && int64(s.cluster.PayloadSize()) >= s.maxClusterSize {
		return true
	}
	return false
}

// makeNewCluster closes the current cluster and opens one sized for the
// frame at the given timestamp. Queued audio older than the boundary is
// flushed into the old cluster first, except the newest such frame,
// which flushQueuedLessThan keeps as its look-ahead; whatever remains is
// flushed into the new one, which may lower the new cluster's base
// timecode.
func (s *Segment) makeNewCluster(timestamp int64) error {
	if s.cluster != nil {
		if err := s.flushQueuedLessThan(timestamp); err != nil {
			return err
		}
		if s.mode == ModeFile {
			if err := s.cluster.finalize(s.w); err != nil {
				return err
			}
		}
	}
	if s.outputCues {
		s.newCuepoint = true
	}

	base := uint64(timestamp) / s.info.TimecodeScale
	if len(s.queued) > 0 {
		if head := uint64(s.queued[0].Timestamp) / s.info.TimecodeScale; head < base {
			base = head
		}
	}

	c := newCluster(base, s.w.Position())
	if err := c.writeHeader(s.w); err != nil {
		return err
	}
	s.cluster = c
	s.clusterCount++
	if s.clusterCount == 1 {
		if err := s.seekHead.AddEntry(ebml.IDCluster, uint64(c.position-s.payloadPos)); err != nil {
			return err
		}
	}
	s.log.Debug("cluster opened",
		"timecode", base,
		"position", c.position,
		"count", s.clusterCount)

	return s.flushQueuedAll()
}

// writeFrame emits one SimpleBlock into the current cluster, recording
// a cue point first when one is armed for this track.
func (s *Segment) writeFrame(f *Frame) error {
	if s.newCuepoint && s.cuesTrack == f.TrackNumber {
		s.cues.Add(CuePoint{
			Time:            uint64(f.Timestamp) / s.info.TimecodeScale,
			Track:           f.TrackNumber,
			ClusterPosition: uint64(s.cluster.position - s.payloadPos),
			BlockNumber:     uint64(s.cluster.blocksAdded + 1),
		})
		s.newCuepoint = false
	}
	if err := s.cluster.addFrame(s.w, f, s.info.TimecodeScale); err != nil {
		return err
	}
	if f.Timestamp > s.lastTimestamp {
		s.lastTimestamp = f.Timestamp
	}
	return nil
}

// flushQueuedLessThan writes held audio into the current cluster while
// the frame after the head is at or before the limit. The head itself
// is written and the look-ahead frame kept, so the newest held frame
// stays queued until a frame strictly past it arrives.
func (s *Segment) flushQueuedLessThan(limit int64) error {
	if s.cluster == nil {
		return nil
	}
	n := 0
	for i := 1; i < len(s.queued); i++ {
		if s.queued[i].Timestamp > limit {
			break
		}
		if err := s.writeFrame(s.queued[i-1]); err != nil {
			return err
		}
		n++
	}
	s.queued = s.queued[n:]
	return nil
}

// flushQueuedAll drains the hold queue into the current cluster.
func (s *Segment) flushQueuedAll() error {
	if s.cluster == nil || len(s.queued) == 0 {
		return nil
	}
	for _, f := range s.queued {
		if err := s.writeFrame(f); err != nil {
			return err
		}
	}
	s.queued = s.queued[:0]
	return nil
}

// writeSegmentHeader emits everything before the first cluster: the
// EBML header, the Segment ID with an unknown-size placeholder, the
// SeekHead reservation (file mode), Info, and Tracks.
func (s *Segment) writeSegmentHeader() error {
	if s.headerWritten {
		return ErrHeaderWritten
	}
	if s.cuesTrack != 0 && s.tracks.ByNumber(s.cuesTrack) == nil {
		return ErrUnknownTrack
	}

	if err := WriteEBMLHeader(s.w); err != nil {
		return err
	}
	if err := ebml.WriteID(s.w, ebml.IDSegment); err != nil {
		return err
	}
	s.sizePosition = s.w.Position()
	if err := ebml.WriteUnknownSize(s.w); err != nil {
		return err
	}
	s.payloadPos = s.w.Position()

	if s.mode == ModeFile && s.w.Seekable() {
		// Reserve a duration field now so Finalize can patch the real
		// value in place.
		s.info.SetDuration(1.0)
		if err := s.seekHead.Reserve(s.w); err != nil {
			return err
		}
	}

	if err := s.seekHead.AddEntry(ebml.IDInfo, uint64(s.w.Position()-s.payloadPos)); err != nil {
		return err
	}
	if err := s.info.Write(s.w); err != nil {
		return err
	}
	if err := s.seekHead.AddEntry(ebml.IDTracks, uint64(s.w.Position()-s.payloadPos)); err != nil {
		return err
	}
	if err := s.tracks.Write(s.w); err != nil {
		return err
	}

	s.hasVideo = s.tracks.FirstOfType(TrackTypeVideo) != nil
	if s.cuesTrack == 0 {
		if v := s.tracks.FirstOfType(TrackTypeVideo); v != nil {
			s.cuesTrack = v.Number
		} else if s.tracks.Len() > 0 {
			s.cuesTrack = 1
		}
	}

	s.headerWritten = true
	s.log.Debug("segment header written",
		"mode", s.mode.String(),
		"tracks", s.tracks.Len(),
		"payload_pos", s.payloadPos)
	return nil
}

// Finalize drains the hold queue, writes the Cues index, back-patches
// every reserved size field (file mode on a seekable writer), and seals
// the segment. No frames may be added afterwards.
func (s *Segment) Finalize() error {
	if s.finalized {
		return ErrFinalized
	}
	if !s.headerWritten {
		if err := s.writeSegmentHeader(); err != nil {
			return err
		}
	}

	if len(s.queued) > 0 && s.cluster == nil {
		if err := s.makeNewCluster(s.queued[0].Timestamp); err != nil {
			return err
		}
	}
	if err := s.flushQueuedAll(); err != nil {
		return err
	}

	if s.mode == ModeFile && s.w.Seekable() {
		if s.cluster != nil {
			if err := s.cluster.finalize(s.w); err != nil {
				return err
			}
		}
		if s.outputCues {
			if err := s.seekHead.AddEntry(ebml.IDCues, uint64(s.w.Position()-s.payloadPos)); err != nil {
				return err
			}
			if err := s.cues.Write(s.w); err != nil {
				return err
			}
		}
		duration := float64(s.lastTimestamp) / float64(s.info.TimecodeScale)
		if err := s.info.Finalize(s.w, duration); err != nil {
			return err
		}
		if err := s.seekHead.Finalize(s.w); err != nil {
			return err
		}
		end := s.w.Position()
		if err := s.w.SetPosition(s.sizePosition); err != nil {
			return err
		}
		if err := ebml.WriteVintWidth(s.w, uint64(end-s.sizePosition-8), 8); err != nil {
			return err
		}
		if err := s.w.SetPosition(end); err != nil {
			return err
		}
	}

	s.finalized = true
	s.log.Info("segment finalized",
		"mode", s.mode.String(),
		"clusters", s.clusterCount,
		"cues", s.cues.Len(),
		"duration_ns", s.lastTimestamp)
	return nil
}

// webmgen writes a synthetic WebM file or live stream. It feeds
// deterministic VP8/Vorbis-shaped payloads through the muxer, which
// makes it handy for exercising players and for producing fixtures.
//
// Usage:
//
//	webmgen -o out.webm -duration 10s
//	webmgen -live -duration 5s > pipe.webm
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/zsiec/webmmux/ebml"
	"github.com/zsiec/webmmux/webm"
)

var version = "dev"

func main() {
	var (
		output      = flag.String("o", "out.webm", "output path (ignored with -live)")
		duration    = flag.Duration("duration", 10*time.Second, "stream duration")
		fps         = flag.Int("fps", 30, "video frame rate")
		keyInterval = flag.Int("key-interval", 30, "frames between video key frames")
		width       = flag.Int("width", 640, "video width")
		height      = flag.Int("height", 480, "video height")
		sampleRate  = flag.Float64("rate", 48000, "audio sample rate")
		channels    = flag.Uint64("channels", 2, "audio channels")
		noAudio     = flag.Bool("no-audio", false, "omit the audio track")
		live        = flag.Bool("live", false, "live mode: stream to stdout, no seeking")
		maxClusterD = flag.Duration("max-cluster-duration", 0, "split clusters at this duration (0 = key frames only)")
		maxClusterS = flag.Int64("max-cluster-size", 0, "split clusters at this payload size (0 = unlimited)")
		seed        = flag.Int64("seed", 42, "payload RNG seed")
	)
	flag.Parse()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("webmgen starting",
		"version", version,
		"duration", *duration,
		"fps", *fps,
		"live", *live,
	)

	var w ebml.Writer
	if *live {
		w = ebml.NewIOWriter(os.Stdout)
	} else {
		f, err := os.Create(*output)
		if err != nil {
			slog.Error("failed to create output", "path", *output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		sw, err := ebml.NewSeekWriter(f)
		if err != nil {
			slog.Error("output is not seekable", "path", *output, "error", err)
			os.Exit(1)
		}
		w = sw
	}

	opts := []func(*webm.Segment){}
	if *live {
		opts = append(opts, webm.SegmentOptMode(webm.ModeLive))
	}
	if *maxClusterD > 0 {
		opts = append(opts, webm.SegmentOptMaxClusterDuration(*maxClusterD))
	}
	if *maxClusterS > 0 {
		opts = append(opts, webm.SegmentOptMaxClusterSize(*maxClusterS))
	}
	s := webm.NewSegment(w, opts...)

	video, err := s.AddVideoTrack(uint64(*width), uint64(*height))
	if err != nil {
		slog.Error("failed to add video track", "error", err)
		os.Exit(1)
	}
	var audioTrack uint64
	if !*noAudio {
		audio, err := s.AddAudioTrack(*sampleRate, *channels)
		if err != nil {
			slog.Error("failed to add audio track", "error", err)
			os.Exit(1)
		}
		audioTrack = audio.Number
	}

	gen := newFrameGen(*seed, *fps, *keyInterval, !*noAudio)
	frames := 0
	for fr := gen.next(); fr.ts < duration.Nanoseconds(); fr = gen.next() {
		track := video.Number
		if !fr.video {
			track = audioTrack
		}
		if err := s.AddFrame(fr.data, track, fr.ts, fr.key); err != nil {
			slog.Error("failed to mux frame", "track", track, "timestamp", fr.ts, "error", err)
			os.Exit(1)
		}
		frames++
	}

	if err := s.Finalize(); err != nil {
		slog.Error("failed to finalize segment", "error", err)
		os.Exit(1)
	}
	slog.Info("done", "frames", frames, "clusters", s.ClusterCount())
}

type frame struct {
	data  []byte
	ts    int64
	video bool
	key   bool
}

// frameGen produces video and audio frames in presentation order.
// Video ticks at the configured rate, audio every 20ms the way a
// Vorbis encoder with 960-sample packets at 48kHz would.
type frameGen struct {
	rng         *rand.Rand
	frameDur    int64
	keyInterval int
	audio       bool

	videoIdx int
	audioIdx int
}

func newFrameGen(seed int64, fps, keyInterval int, audio bool) *frameGen {
	return &frameGen{
		rng:         rand.New(rand.NewSource(seed)),
		frameDur:    time.Second.Nanoseconds() / int64(fps),
		keyInterval: keyInterval,
		audio:       audio,
	}
}

func (g *frameGen) next() frame {
	videoTS := int64(g.videoIdx) * g.frameDur
	audioTS := int64(g.audioIdx) * 20 * time.Millisecond.Nanoseconds()
	if g.audio && audioTS < videoTS {
		g.audioIdx++
		return frame{data: g.payload(64), ts: audioTS}
	}
	key := g.videoIdx%g.keyInterval == 0
	g.videoIdx++
	size := 256
	if key {
		size = 2048
	}
	return frame{data: g.payload(size), ts: videoTS, video: true, key: key}
}

func (g *frameGen) payload(n int) []byte {
	b := make([]byte, n)
	if _, err := g.rng.Read(b); err != nil {
		panic(fmt.Sprintf("rand.Read: %v", err))
	}
	return b
}

package webm

import (
	"bytes"
	"testing"

	"github.com/zsiec/webmmux/ebml"
)

func TestCuePointBlockNumberOmittedWhenOne(t *testing.T) {
	t.Parallel()
	first := CuePoint{Time: 0, Track: 1, ClusterPosition: 100, BlockNumber: 1}
	second := CuePoint{Time: 0, Track: 1, ClusterPosition: 100, BlockNumber: 2}

	b1 := ebml.NewBuffer()
	if err := first.write(b1); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(b1.Bytes(), []byte{0x53, 0x78}) {
		t.Error("BlockNumber 1 should not be serialized")
	}

	b2 := ebml.NewBuffer()
	if err := second.write(b2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b2.Bytes(), []byte{0x53, 0x78, 0x81, 0x02}) {
		t.Errorf("BlockNumber 2 missing from %x", b2.Bytes())
	}
}

func TestCuesWriteMatchesSize(t *testing.T) {
	t.Parallel()
	var cues Cues
	cues.Add(CuePoint{Time: 0, Track: 1, ClusterPosition: 152, BlockNumber: 1})
	cues.Add(CuePoint{Time: 33, Track: 1, ClusterPosition: 4096, BlockNumber: 2})
	cues.Add(CuePoint{Time: 66, Track: 1, ClusterPosition: 1 << 20, BlockNumber: 1})

	b := ebml.NewBuffer()
	if err := cues.Write(b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got, want := uint64(b.Len()), cues.Size(); got != want {
		t.Errorf("wrote %d bytes, Size() = %d", got, want)
	}
	if cues.Len() != 3 {
		t.Errorf("Len = %d, want 3", cues.Len())
	}
}

func TestCuesOutputBlockNumberDisabled(t *testing.T) {
	t.Parallel()
	var cues Cues
	cues.Add(CuePoint{Time: 33, Track: 1, ClusterPosition: 4096, BlockNumber: 2})
	cues.OutputBlockNumber(false)

	b := ebml.NewBuffer()
	if err := cues.Write(b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if bytes.Contains(b.Bytes(), []byte{0x53, 0x78}) {
		t.Error("CueBlockNumber serialized with output disabled")
	}
	if got, want := uint64(b.Len()), cues.Size(); got != want {
		t.Errorf("wrote %d bytes, Size() = %d", got, want)
	}
	// The stored point keeps its block number for re-enabling.
	if got := cues.Points()[0].BlockNumber; got != 2 {
		t.Errorf("stored BlockNumber = %d, want 2", got)
	}
}

func TestCuesWriteEmpty(t *testing.T) {
	t.Parallel()
	var cues Cues
	b := ebml.NewBuffer()
	if err := cues.Write(b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := []byte{
		0x1C, 0x53, 0xBB, 0x6B, // Cues ID
		0x01, 0, 0, 0, 0, 0, 0, 0, // zero payload, 8-byte vint
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("empty cues = %x, want %x", b.Bytes(), want)
	}
}

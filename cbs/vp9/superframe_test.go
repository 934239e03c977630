package vp9

import (
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestSuperframeIndexRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	idx := &SuperframeIndex{
		SuperframeMarker:         superframeMarkerValue,
		BytesPerFramesizeMinus1:  1,
		FramesInSuperframeMinus1: 2,
		FrameSizes:               []uint32{100, 2000, 300},
	}

	buf := make([]byte, 32)
	w := bits.NewWriter(buf)
	if err := writeSuperframeIndex(trace, w, idx); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	got, err := readSuperframeIndex(trace, r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.FrameSizes) != 3 {
		t.Fatalf("got %d frame sizes, want 3", len(got.FrameSizes))
	}
	for i, want := range idx.FrameSizes {
		if got.FrameSizes[i] != want {
			t.Errorf("frame size[%d] = %d, want %d", i, got.FrameSizes[i], want)
		}
	}
}

func TestDetectSuperframeIndex(t *testing.T) {
	idx := &SuperframeIndex{
		SuperframeMarker:         superframeMarkerValue,
		BytesPerFramesizeMinus1:  0,
		FramesInSuperframeMinus1: 1,
		FrameSizes:               []uint32{3, 4},
	}
	buf := make([]byte, 8)
	w := bits.NewWriter(buf)
	if err := writeSuperframeIndex(&cbs.Trace{}, w, idx); err != nil {
		t.Fatalf("write index: %v", err)
	}
	idxBytes := w.Bytes()

	frame0 := []byte{0xaa, 0xbb, 0xcc}
	frame1 := []byte{0xdd, 0xee, 0xff, 0x11}
	data := append(append(append([]byte{}, frame0...), frame1...), idxBytes...)

	got, size, err := detectSuperframeIndex(data)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if got == nil {
		t.Fatal("expected a detected superframe index")
	}
	if size != len(idxBytes) {
		t.Errorf("size = %d, want %d", size, len(idxBytes))
	}
	if len(got.FrameSizes) != 2 || got.FrameSizes[0] != 3 || got.FrameSizes[1] != 4 {
		t.Errorf("frame sizes = %v, want [3 4]", got.FrameSizes)
	}
}

func TestDetectSuperframeIndexAbsent(t *testing.T) {
	got, size, err := detectSuperframeIndex([]byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if got != nil || size != 0 {
		t.Errorf("expected no index detected, got %+v size %d", got, size)
	}
}

func TestBuildSuperframeIndexSizeLen(t *testing.T) {
	idx, err := buildSuperframeIndex([]uint32{10, 20, 300})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if idx.BytesPerFramesizeMinus1 != 1 {
		t.Errorf("BytesPerFramesizeMinus1 = %d, want 1 (300 needs 2 bytes)", idx.BytesPerFramesizeMinus1)
	}
	if idx.FramesInSuperframeMinus1 != 2 {
		t.Errorf("FramesInSuperframeMinus1 = %d, want 2", idx.FramesInSuperframeMinus1)
	}
}

func TestBuildSuperframeIndexTooManyFrames(t *testing.T) {
	sizes := make([]uint32, maxFramesInSuperframe+1)
	if _, err := buildSuperframeIndex(sizes); err == nil {
		t.Fatal("expected error for too many frames")
	}
}

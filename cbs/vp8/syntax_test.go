package vp8

import (
	"testing"

	"github.com/ausocean/cbs"
)

func TestLEReaderReadBits(t *testing.T) {
	r := newLEReader([]byte{0x35, 0x07, 0x06})
	v, err := r.ReadBits(1)
	if err != nil || v != 1 {
		t.Fatalf("frame_type bit: got (%d,%v), want (1,nil)", v, err)
	}
	v, err = r.ReadBits(3)
	if err != nil || v != 2 {
		t.Fatalf("profile bits: got (%d,%v), want (2,nil)", v, err)
	}
}

func TestReadFrameTagNonKeyFrame(t *testing.T) {
	trace := &cbs.Trace{}
	r := newLEReader([]byte{0x35, 0x07, 0x06})
	var h FrameHeader
	if err := readFrameTag(trace, r, &h); err != nil {
		t.Fatalf("readFrameTag: %v", err)
	}
	if h.FrameType != NonKeyFrame {
		t.Errorf("FrameType = %d, want %d", h.FrameType, NonKeyFrame)
	}
	if h.Profile != 2 {
		t.Errorf("Profile = %d, want 2", h.Profile)
	}
	if h.ShowFrame != 1 {
		t.Errorf("ShowFrame = %d, want 1", h.ShowFrame)
	}
	if h.FirstPartitionLengthInBytes != 12345 {
		t.Errorf("FirstPartitionLengthInBytes = %d, want 12345", h.FirstPartitionLengthInBytes)
	}
}

func TestReadFrameTagKeyFrame(t *testing.T) {
	trace := &cbs.Trace{}
	data := []byte{0x90, 0x0c, 0x00, 0x9d, 0x01, 0x2a, 0x80, 0x02, 0xe0, 0x01}
	r := newLEReader(data)
	var h FrameHeader
	if err := readFrameTag(trace, r, &h); err != nil {
		t.Fatalf("readFrameTag: %v", err)
	}
	if h.FrameType != KeyFrame {
		t.Errorf("FrameType = %d, want %d", h.FrameType, KeyFrame)
	}
	if h.FirstPartitionLengthInBytes != 100 {
		t.Errorf("FirstPartitionLengthInBytes = %d, want 100", h.FirstPartitionLengthInBytes)
	}
	if h.Width != 640 || h.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", h.Width, h.Height)
	}
	if h.HorizontalScale != 0 || h.VerticalScale != 0 {
		t.Errorf("scale = %d/%d, want 0/0", h.HorizontalScale, h.VerticalScale)
	}
}

func TestReadFrameTagBadStartCode(t *testing.T) {
	trace := &cbs.Trace{}
	data := []byte{0x90, 0x0c, 0x00, 0xff, 0x01, 0x2a, 0x80, 0x02, 0xe0, 0x01}
	r := newLEReader(data)
	var h FrameHeader
	if err := readFrameTag(trace, r, &h); err == nil {
		t.Fatal("expected error for corrupt start code")
	}
}

func TestBoolDecoderReadBool(t *testing.T) {
	d := newBoolDecoder(newLEReader([]byte{200, 0xff}))
	b1, err := d.readBool(defaultProb)
	if err != nil {
		t.Fatalf("readBool 1: %v", err)
	}
	b2, err := d.readBool(defaultProb)
	if err != nil {
		t.Fatalf("readBool 2: %v", err)
	}
	if b1 != 1 || b2 != 1 {
		t.Errorf("got (%d,%d), want (1,1)", b1, b2)
	}
}

func TestBoolDecoderReadLiteral(t *testing.T) {
	d := newBoolDecoder(newLEReader([]byte{200, 0xff}))
	v, err := d.readLiteral(defaultProb, 2)
	if err != nil {
		t.Fatalf("readLiteral: %v", err)
	}
	if v != 3 {
		t.Errorf("readLiteral(2) = %d, want 3", v)
	}
}

func TestBoolDecoderInsufficientData(t *testing.T) {
	d := newBoolDecoder(newLEReader(nil))
	if _, err := d.readBool(defaultProb); err == nil {
		t.Fatal("expected error reading from empty source")
	}
}

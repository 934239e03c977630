package mpeg2

import (
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestSequenceHeaderRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	sh := &SequenceHeader{
		HorizontalSizeValue:       720,
		VerticalSizeValue:         576,
		AspectRatioInformation:    2,
		FrameRateCode:             3,
		BitRateValue:              5000,
		VBVBufferSizeValue:        112,
		ConstrainedParametersFlag: false,
	}

	buf := make([]byte, 64)
	w := bits.NewWriter(buf)
	priv := newPrivateState()
	if err := writeSequenceHeader(trace, w, sh, priv); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	priv2 := newPrivateState()
	got, err := readSequenceHeader(trace, r, priv2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.HorizontalSizeValue != sh.HorizontalSizeValue || got.VerticalSizeValue != sh.VerticalSizeValue {
		t.Errorf("size mismatch: got %dx%d, want %dx%d",
			got.HorizontalSizeValue, got.VerticalSizeValue, sh.HorizontalSizeValue, sh.VerticalSizeValue)
	}
	if priv2.horizontalSize != 720 || priv2.verticalSize != 576 {
		t.Errorf("private state not updated: got %dx%d", priv2.horizontalSize, priv2.verticalSize)
	}
}

func TestPictureCodingExtensionFrameCentreOffsets(t *testing.T) {
	cases := []struct {
		progressive, repeat, top bool
		structure                uint64
		want                     int
	}{
		{progressive: true, repeat: false, want: 1},
		{progressive: true, repeat: true, top: true, want: 3},
		{progressive: true, repeat: true, top: false, want: 2},
		{progressive: false, structure: pictureStructureTop, want: 1},
		{progressive: false, structure: pictureStructureFrame, repeat: true, want: 3},
		{progressive: false, structure: pictureStructureFrame, repeat: false, want: 2},
	}
	for _, c := range cases {
		p := &PictureCodingExtension{
			RepeatFirstField: c.repeat,
			TopFieldFirst:    c.top,
			PictureStructure: c.structure,
		}
		got := deriveFrameCentreOffsetCount(c.progressive, p)
		if got != c.want {
			t.Errorf("case %+v: got %d, want %d", c, got, c.want)
		}
	}
}

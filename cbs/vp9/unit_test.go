package vp9

import (
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestSplitFragmentSingleFrame(t *testing.T) {
	c := codec{}
	frag := &cbs.Fragment{Data: []byte{0x01, 0x02, 0x03, 0x04}}
	if err := c.SplitFragment(nil, frag, false); err != nil {
		t.Fatalf("SplitFragment: %v", err)
	}
	if len(frag.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(frag.Units))
	}
	if frag.Units[0].Type != frameUnitType {
		t.Errorf("unit type = %v, want %v", frag.Units[0].Type, frameUnitType)
	}
}

func TestSplitFragmentEmpty(t *testing.T) {
	c := codec{}
	frag := &cbs.Fragment{}
	if err := c.SplitFragment(nil, frag, false); err == nil {
		t.Fatal("expected error for empty fragment")
	}
}

func TestSplitFragmentSuperframe(t *testing.T) {
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

	frame0 := []byte{0xaa, 0xbb, 0xcc}
	frame1 := []byte{0xdd, 0xee, 0xff, 0x11}
	data := append(append(append([]byte{}, frame0...), frame1...), w.Bytes()...)

	c := codec{}
	frag := &cbs.Fragment{Data: data}
	if err := c.SplitFragment(nil, frag, false); err != nil {
		t.Fatalf("SplitFragment: %v", err)
	}
	if len(frag.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(frag.Units))
	}
	if string(frag.Units[0].Data) != string(frame0) {
		t.Errorf("unit 0 data = %v, want %v", frag.Units[0].Data, frame0)
	}
	if string(frag.Units[1].Data) != string(frame1) {
		t.Errorf("unit 1 data = %v, want %v", frag.Units[1].Data, frame1)
	}
}

func TestAssembleFragmentSingleUnit(t *testing.T) {
	c := codec{}
	buf := cbs.NewBuffer([]byte{1, 2, 3})
	frag := &cbs.Fragment{Units: []cbs.Unit{{Type: frameUnitType, Data: buf.Bytes(), DataRef: buf}}}
	ctx := &cbs.Context{Private: newPrivateState()}
	if err := c.AssembleFragment(ctx, frag); err != nil {
		t.Fatalf("AssembleFragment: %v", err)
	}
	if string(frag.Data) != string([]byte{1, 2, 3}) {
		t.Errorf("assembled data = %v, want [1 2 3]", frag.Data)
	}
}

func TestAssembleFragmentMultiUnitRoundTrip(t *testing.T) {
	c := codec{}
	buf := cbs.NewBuffer(nil)
	frag := &cbs.Fragment{Units: []cbs.Unit{
		{Type: frameUnitType, Data: []byte{0xaa, 0xbb, 0xcc}, DataRef: buf},
		{Type: frameUnitType, Data: []byte{0xdd, 0xee, 0xff, 0x11}, DataRef: buf},
	}}

	ctx, err := cbs.Init(cbs.CodecVP9, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := c.AssembleFragment(ctx, frag); err != nil {
		t.Fatalf("AssembleFragment: %v", err)
	}

	split := &cbs.Fragment{Data: frag.Data}
	if err := c.SplitFragment(ctx, split, false); err != nil {
		t.Fatalf("SplitFragment of assembled data: %v", err)
	}
	if len(split.Units) != 2 {
		t.Fatalf("got %d units after round trip, want 2", len(split.Units))
	}
	if string(split.Units[0].Data) != string([]byte{0xaa, 0xbb, 0xcc}) {
		t.Errorf("unit 0 data = %v", split.Units[0].Data)
	}
	if string(split.Units[1].Data) != string([]byte{0xdd, 0xee, 0xff, 0x11}) {
		t.Errorf("unit 1 data = %v", split.Units[1].Data)
	}
}

package mpeg2

import (
	"bytes"
	"testing"

	"github.com/ausocean/cbs"
)

func startCodeUnit(typ byte, payload []byte) []byte {
	b := []byte{0, 0, 1, typ}
	return append(b, payload...)
}

func TestSplitFragmentRoundTrip(t *testing.T) {
	seq := startCodeUnit(byte(startSequenceHeader), []byte{0xaa, 0xbb})
	end := startCodeUnit(byte(startSequenceEnd), nil)
	data := append(append([]byte{}, seq...), end...)

	frag := &cbs.Fragment{Data: data}
	if err := splitFragment(nil, frag, false); err != nil {
		t.Fatalf("splitFragment: %v", err)
	}
	if len(frag.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(frag.Units))
	}
	if frag.Units[0].Type != startSequenceHeader {
		t.Errorf("unit 0 type = %v, want startSequenceHeader", frag.Units[0].Type)
	}
	if frag.Units[1].Type != startSequenceEnd {
		t.Errorf("unit 1 type = %v, want startSequenceEnd", frag.Units[1].Type)
	}

	if err := assembleFragment(nil, frag); err != nil {
		t.Fatalf("assembleFragment: %v", err)
	}
	if !bytes.Equal(frag.Data, data) {
		t.Errorf("assembled bytes = %x, want %x", frag.Data, data)
	}
}

func TestSplitFragmentNoStartCode(t *testing.T) {
	frag := &cbs.Fragment{Data: []byte{1, 2, 3, 4}}
	if err := splitFragment(nil, frag, false); err == nil {
		t.Fatal("expected error for data with no start code")
	}
}

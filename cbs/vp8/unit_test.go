package vp8

import (
	"errors"
	"testing"

	"github.com/ausocean/cbs"
)

func TestSplitFragmentSingleUnit(t *testing.T) {
	c := codec{}
	frag := &cbs.Fragment{Data: []byte{0x35, 0x07, 0x06, 0xaa, 0xbb}}
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

func TestWriteAndAssembleUnsupported(t *testing.T) {
	c := codec{}
	if _, err := c.WriteUnit(nil, &cbs.Unit{}, nil); !errors.Is(err, cbs.ErrUnsupported) {
		t.Errorf("WriteUnit error = %v, want ErrUnsupported", err)
	}
	if err := c.AssembleFragment(nil, &cbs.Fragment{}); !errors.Is(err, cbs.ErrUnsupported) {
		t.Errorf("AssembleFragment error = %v, want ErrUnsupported", err)
	}
}

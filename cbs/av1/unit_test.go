package av1

import (
	"testing"

	"github.com/ausocean/cbs"
)

func TestSequenceHeaderOBURoundTrip(t *testing.T) {
	ctx, err := cbs.Init(cbs.CodecAV1, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	sh := &SequenceHeader{
		SeqProfile:                0,
		ReducedStillPictureHeader: true,
		OperatingPoints:           []OperatingPoint{{SeqLevelIdx: 4}},
		FrameWidthBitsMinus1:      10,
		FrameHeightBitsMinus1:     10,
		MaxFrameWidthMinus1:       1919,
		MaxFrameHeightMinus1:      1079,
		Color: ColorConfig{
			BitDepth:             8,
			ColorPrimaries:       2,
			TransferCharacteristics: 2,
			MatrixCoefficients:   2,
			SubsamplingX:         1,
			SubsamplingY:         1,
		},
	}

	c := codec{}
	unit := &cbs.Unit{Type: OBUSequenceHeader, Content: sh}
	dst := make([]byte, 64)
	n, err := c.WriteUnit(ctx, unit, dst)
	if err != nil {
		t.Fatalf("WriteUnit: %v", err)
	}

	// The body doesn't end on a byte boundary (seq_level_idx[0] is 5 bits
	// into a run of flag-sized fields), so trailing_bits() must have added
	// padding; confirm the written bytes are not simply zero-padded.
	got := &cbs.Unit{Data: dst[:n]}
	if err := c.ReadUnit(ctx, got); err != nil {
		t.Fatalf("ReadUnit: %v", err)
	}

	gotSH, ok := got.Content.(*SequenceHeader)
	if !ok {
		t.Fatalf("Content = %T, want *SequenceHeader", got.Content)
	}
	if gotSH.SeqProfile != sh.SeqProfile {
		t.Errorf("SeqProfile = %d, want %d", gotSH.SeqProfile, sh.SeqProfile)
	}
	if !gotSH.ReducedStillPictureHeader {
		t.Error("ReducedStillPictureHeader not preserved")
	}
	if len(gotSH.OperatingPoints) != 1 || gotSH.OperatingPoints[0].SeqLevelIdx != 4 {
		t.Errorf("OperatingPoints = %+v, want [{SeqLevelIdx:4}]", gotSH.OperatingPoints)
	}
	if gotSH.MaxFrameWidthMinus1 != sh.MaxFrameWidthMinus1 || gotSH.MaxFrameHeightMinus1 != sh.MaxFrameHeightMinus1 {
		t.Errorf("frame size = %dx%d, want %dx%d",
			gotSH.MaxFrameWidthMinus1, gotSH.MaxFrameHeightMinus1, sh.MaxFrameWidthMinus1, sh.MaxFrameHeightMinus1)
	}
}

func TestMetadataOBURoundTrip(t *testing.T) {
	ctx, err := cbs.Init(cbs.CodecAV1, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	m := &Metadata{
		Type:   MetadataTypeHDRCLL,
		HDRCLL: &HDRCLL{MaxCLL: 1000, MaxFALL: 400},
	}

	c := codec{}
	unit := &cbs.Unit{Type: OBUMetadata, Content: m}
	dst := make([]byte, 32)
	n, err := c.WriteUnit(ctx, unit, dst)
	if err != nil {
		t.Fatalf("WriteUnit: %v", err)
	}

	got := &cbs.Unit{Data: dst[:n]}
	if err := c.ReadUnit(ctx, got); err != nil {
		t.Fatalf("ReadUnit: %v", err)
	}

	gotM, ok := got.Content.(*Metadata)
	if !ok {
		t.Fatalf("Content = %T, want *Metadata", got.Content)
	}
	if gotM.Type != MetadataTypeHDRCLL {
		t.Errorf("Type = %d, want %d", gotM.Type, MetadataTypeHDRCLL)
	}
	if gotM.HDRCLL == nil || gotM.HDRCLL.MaxCLL != 1000 || gotM.HDRCLL.MaxFALL != 400 {
		t.Errorf("HDRCLL = %+v, want &{MaxCLL:1000 MaxFALL:400}", gotM.HDRCLL)
	}
}

func TestSplitFragmentHeaderSkipsConfigurationRecordWhenMarkerAbsent(t *testing.T) {
	// Plain concatenated-OBU extradata: data[0] has no configOBUs marker
	// bit set, so header=true must not try to parse a configuration
	// record header out of it.
	td := obuBytes(byte(OBUTemporalDelimiter), nil)
	frag := &cbs.Fragment{Data: td}
	if err := splitFragment(nil, frag, true); err != nil {
		t.Fatalf("splitFragment: %v", err)
	}
	if len(frag.Units) != 1 || frag.Units[0].Type != OBUTemporalDelimiter {
		t.Fatalf("got units %+v, want a single OBUTemporalDelimiter unit", frag.Units)
	}
}

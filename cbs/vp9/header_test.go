package vp9

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestUncompressedHeaderKeyFrameRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	h := &FrameHeader{
		FrameMarker:         2,
		FrameType:           KeyFrame,
		ShowFrame:           true,
		ErrorResilientMode:  false,
		ColorSpace:          csBT601,
		ColorRange:          0,
		FrameWidthMinus1:    63,
		FrameHeightMinus1:   63,
		RefreshFrameContext: true,
		LoopFilterLevel:     10,
		LoopFilterSharpness: 2,
		BaseQIdx:            20,
		HeaderSizeInBytes:   100,
	}

	buf := make([]byte, 64)
	w := bits.NewWriter(buf)
	priv := newPrivateState()
	if err := writeUncompressedHeader(trace, w, h, priv); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeTrailingBits(trace, w); err != nil {
		t.Fatalf("write trailing bits: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	priv2 := newPrivateState()
	var got FrameHeader
	if err := readUncompressedHeader(trace, r, &got, priv2); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := readTrailingBits(trace, r); err != nil {
		t.Fatalf("read trailing bits: %v", err)
	}

	if got.FrameType != h.FrameType || got.ShowFrame != h.ShowFrame {
		t.Errorf("frame type/show mismatch: got %+v", got)
	}
	if got.FrameWidthMinus1 != h.FrameWidthMinus1 || got.FrameHeightMinus1 != h.FrameHeightMinus1 {
		t.Errorf("size mismatch: got %dx%d, want %dx%d",
			got.FrameWidthMinus1, got.FrameHeightMinus1, h.FrameWidthMinus1, h.FrameHeightMinus1)
	}
	if got.RefreshFrameFlags != 0xff {
		t.Errorf("RefreshFrameFlags = %#x, want 0xff (key frame inferred)", got.RefreshFrameFlags)
	}
	if got.BaseQIdx != h.BaseQIdx {
		t.Errorf("BaseQIdx = %d, want %d", got.BaseQIdx, h.BaseQIdx)
	}
	if got.HeaderSizeInBytes != h.HeaderSizeInBytes {
		t.Errorf("HeaderSizeInBytes = %d, want %d", got.HeaderSizeInBytes, h.HeaderSizeInBytes)
	}
	if priv2.sb64Cols == 0 {
		t.Errorf("private dimensions not updated")
	}
}

// TestNonKeyFrameHeaderFullRoundTrip exercises a non-key, non-intra-only
// frame (the path with ref_frame_idx/sign_bias and frame_size_with_refs),
// comparing the whole decomposed structure with go-cmp the way a content
// tree comparison would in a round-trip test.
func TestNonKeyFrameHeaderFullRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	h := &FrameHeader{
		FrameMarker:               2,
		FrameType:                 NonKeyFrame,
		ShowFrame:                 true,
		ErrorResilientMode:        false,
		IntraOnly:                 false,
		RefreshFrameFlags:         0x0f,
		RefFrameIdx:               [refsPerFrame]uint8{0, 1, 2},
		RefFrameSignBias:          [maxRefFrames]bool{false, true, false, true},
		FoundRef:                 [refsPerFrame]bool{false, true, false},
		AllowHighPrecisionMV:     true,
		IsFilterSwitchable:       false,
		RawInterpolationFilterType: 2,
		RefreshFrameContext:       true,
		FrameParallelDecodingMode: false,
		FrameContextIdx:           1,
		LoopFilterLevel:           5,
		BaseQIdx:                  30,
		HeaderSizeInBytes:         42,
	}

	buf := make([]byte, 64)
	w := bits.NewWriter(buf)
	priv := newPrivateState()
	priv.updateFrameDimensions(63, 63) // seed sb64Cols for the writer's tile_info.
	if err := writeUncompressedHeader(trace, w, h, priv); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writeTrailingBits(trace, w); err != nil {
		t.Fatalf("write trailing bits: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	priv2 := newPrivateState()
	var got FrameHeader
	if err := readUncompressedHeader(trace, r, &got, priv2); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := readTrailingBits(trace, r); err != nil {
		t.Fatalf("read trailing bits: %v", err)
	}

	// FoundRef[1] true means frame_size() was skipped on read, so the
	// decoded width/height keep got's zero value; copy the fields the skip
	// makes incomparable into h before diffing the rest.
	h.FrameWidthMinus1, h.FrameHeightMinus1 = got.FrameWidthMinus1, got.FrameHeightMinus1
	h.RenderAndFrameSizeDifferent = got.RenderAndFrameSizeDifferent
	h.RenderWidthMinus1, h.RenderHeightMinus1 = got.RenderWidthMinus1, got.RenderHeightMinus1

	if diff := cmp.Diff(h, &got); diff != "" {
		t.Errorf("uncompressed_header round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUncompressedHeaderShowExistingFrame(t *testing.T) {
	trace := &cbs.Trace{}
	h := &FrameHeader{
		FrameMarker:       2,
		ShowExistingFrame: true,
		FrameToShowMapIdx: 3,
	}

	buf := make([]byte, 8)
	w := bits.NewWriter(buf)
	priv := newPrivateState()
	if err := writeUncompressedHeader(trace, w, h, priv); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	priv2 := newPrivateState()
	var got FrameHeader
	if err := readUncompressedHeader(trace, r, &got, priv2); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.ShowExistingFrame {
		t.Fatal("ShowExistingFrame not set")
	}
	if got.FrameToShowMapIdx != 3 {
		t.Errorf("FrameToShowMapIdx = %d, want 3", got.FrameToShowMapIdx)
	}
}

func TestSegmentationParamsRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	h := &FrameHeader{
		SegmentationEnabled:          true,
		SegmentationUpdateData:       true,
		SegmentationAbsOrDeltaUpdate: true,
	}
	h.FeatureEnabled[0][0] = true
	h.FeatureValue[0][0] = 7
	h.FeatureSign[0][0] = true
	h.FeatureEnabled[2][3] = true // SEG_LVL_SKIP, 0 bits wide.

	buf := make([]byte, 32)
	w := bits.NewWriter(buf)
	if err := writeSegmentationParams(trace, w, h); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	var got FrameHeader
	if err := readSegmentationParams(trace, r, &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.SegmentationEnabled || !got.SegmentationUpdateData {
		t.Fatalf("flags lost: %+v", got)
	}
	if got.FeatureValue[0][0] != 7 || !got.FeatureSign[0][0] {
		t.Errorf("feature[0][0] = %d/%v, want 7/true", got.FeatureValue[0][0], got.FeatureSign[0][0])
	}
	if !got.FeatureEnabled[2][3] {
		t.Errorf("feature[2][3] (skip) not preserved")
	}
}

func TestTileInfoDerivation(t *testing.T) {
	cases := []struct {
		sb64Cols       uint16
		wantMinLog2    uint64
		wantMaxLog2    uint64
	}{
		{sb64Cols: 1, wantMinLog2: 0, wantMaxLog2: 0},
		{sb64Cols: 10, wantMinLog2: 0, wantMaxLog2: 1},
		{sb64Cols: 100, wantMinLog2: 1, wantMaxLog2: 4},
	}
	for _, c := range cases {
		priv := &privateState{sb64Cols: c.sb64Cols}
		h := &FrameHeader{TileColsLog2: c.wantMinLog2, TileRowsLog2: 0}

		buf := make([]byte, 8)
		w := bits.NewWriter(buf)
		trace := &cbs.Trace{}
		if err := writeTileInfo(trace, w, h, priv); err != nil {
			t.Fatalf("case %+v: write: %v", c, err)
		}

		r := bits.NewReader(w.Bytes())
		var got FrameHeader
		if err := readTileInfo(trace, r, &got, priv); err != nil {
			t.Fatalf("case %+v: read: %v", c, err)
		}
		if got.TileColsLog2 != c.wantMinLog2 {
			t.Errorf("case %+v: TileColsLog2 = %d, want %d", c, got.TileColsLog2, c.wantMinLog2)
		}
	}
}

func TestDeltaQAndProbRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	buf := make([]byte, 8)
	w := bits.NewWriter(buf)
	if err := writeDeltaQ(trace, w, "delta_q_y_dc", -5); err != nil {
		t.Fatalf("writeDeltaQ: %v", err)
	}
	if err := writeProb(trace, w, "tree_prob", nil, 17); err != nil {
		t.Fatalf("writeProb: %v", err)
	}
	if err := writeProb(trace, w, "tree_prob2", nil, 255); err != nil {
		t.Fatalf("writeProb default: %v", err)
	}

	r := bits.NewReader(w.Bytes())
	dq, err := readDeltaQ(trace, r, "delta_q_y_dc")
	if err != nil || dq != -5 {
		t.Errorf("readDeltaQ = (%d,%v), want (-5,nil)", dq, err)
	}
	p, err := readProb(trace, r, "tree_prob", nil)
	if err != nil || p != 17 {
		t.Errorf("readProb = (%d,%v), want (17,nil)", p, err)
	}
	p2, err := readProb(trace, r, "tree_prob2", nil)
	if err != nil || p2 != 255 {
		t.Errorf("readProb default = (%d,%v), want (255,nil)", p2, err)
	}
}

/*
NAME
  header.go

DESCRIPTION
  header.go implements VP9's uncompressed_header and the structures it
  calls: frame_sync_code, color_config, frame_size, render_size,
  frame_size_with_refs, interpolation_filter, loop_filter_params,
  quantization_params, segmentation_params and tile_info, plus
  trailing_bits. Unlike VP8's compressed header, none of this is
  probability-coded: every field is a plain fixed-width or specialised
  (increment/delta_q/prob) read straight off the bitstream, which is why
  a VP9 frame's compressed entropy/prediction data (following
  header_size_in_bytes) can be carried opaquely without needing a
  matching boolean decoder here.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp9

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// Frame types for FrameHeader.FrameType.
const (
	KeyFrame    = 0
	NonKeyFrame = 1
)

// Frame sync bytes (uncompressed_header's frame_sync_code).
const (
	frameSync0 = 0x49
	frameSync1 = 0x83
	frameSync2 = 0x42
)

// Color space values for FrameHeader.ColorSpace.
const (
	csUnknown  = 0
	csBT601    = 1
	csBT709    = 2
	csSMPTE170 = 3
	csSMPTE240 = 4
	csBT2020   = 5
	csReserved = 6
	csRGB      = 7
)

// segmentationFeatureBits and segmentationFeatureSigned are
// segmentation_params' per-feature bit width and signedness, indexed by
// feature (0: alt quantiser, 1: alt loop filter, 2: reference frame,
// 3: skip).
var segmentationFeatureBits = [segLvlMax]int{8, 6, 2, 0}
var segmentationFeatureSigned = [segLvlMax]bool{true, true, false, false}

// FrameHeader is VP9's uncompressed_header, the one syntax structure this
// package decomposes; everything from header_size_in_bytes on is the
// compressed (entropy-coded) header and residual data, carried opaquely
// in Frame.Data.
type FrameHeader struct {
	FrameMarker     uint8
	ProfileLowBit   uint8
	ProfileHighBit  uint8
	Profile         int

	ShowExistingFrame  bool
	FrameToShowMapIdx  uint8

	FrameType           uint8
	ShowFrame           bool
	ErrorResilientMode  bool

	// Color config.
	TenOrTwelveBit uint8
	ColorSpace     uint8
	ColorRange     uint8
	SubsamplingX   uint8
	SubsamplingY   uint8

	RefreshFrameFlags uint8

	IntraOnly          bool
	ResetFrameContext  uint8

	RefFrameIdx      [refsPerFrame]uint8
	RefFrameSignBias [maxRefFrames]bool

	AllowHighPrecisionMV bool

	RefreshFrameContext       bool
	FrameParallelDecodingMode bool

	FrameContextIdx uint8

	FoundRef              [refsPerFrame]bool
	FrameWidthMinus1      uint16
	FrameHeightMinus1     uint16
	RenderAndFrameSizeDifferent bool
	RenderWidthMinus1     uint16
	RenderHeightMinus1    uint16

	IsFilterSwitchable        bool
	RawInterpolationFilterType uint8

	LoopFilterLevel          uint8
	LoopFilterSharpness      uint8
	LoopFilterDeltaEnabled   bool
	LoopFilterDeltaUpdate    bool
	UpdateRefDelta           [maxRefFrames]bool
	LoopFilterRefDeltas      [maxRefFrames]int8
	UpdateModeDelta          [2]bool
	LoopFilterModeDeltas     [2]int8

	BaseQIdx    uint8
	DeltaQYDC   int8
	DeltaQUVDC  int8
	DeltaQUVAC  int8

	SegmentationEnabled            bool
	SegmentationUpdateMap          bool
	SegmentationTreeProbs          [7]uint8
	SegmentationTemporalUpdate     bool
	SegmentationPredProb           [3]uint8
	SegmentationUpdateData         bool
	SegmentationAbsOrDeltaUpdate   bool
	FeatureEnabled                 [maxSegments][segLvlMax]bool
	FeatureValue                   [maxSegments][segLvlMax]uint8
	FeatureSign                     [maxSegments][segLvlMax]bool

	TileColsLog2 uint64
	TileRowsLog2 uint64

	HeaderSizeInBytes uint16
}

// Frame is a unit's decomposed content: the uncompressed header plus a
// zero-copy view of everything after it (the compressed header and
// residual data), which this package does not itself decode.
type Frame struct {
	Header FrameHeader

	Data    []byte
	DataRef *cbs.Buffer
}

func (f *Frame) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }

func (f *Frame) Clone() cbs.Content {
	clone := *f
	clone.DataRef = f.DataRef.Ref()
	return &clone
}

func (f *Frame) BufferRef() *cbs.Buffer { return f.DataRef }

func readFrameSyncCode(t *cbs.Trace, r *bits.Reader) error {
	for i, want := range [3]uint64{frameSync0, frameSync1, frameSync2} {
		v, err := cbs.ReadUnsigned(t, r, 8, "frame_sync_byte", []int{i}, 0, 0xff)
		if err != nil {
			return err
		}
		if v != want {
			return cbs.ErrInvalidData
		}
	}
	return nil
}

func writeFrameSyncCode(t *cbs.Trace, w *bits.Writer) error {
	for i, b := range [3]uint64{frameSync0, frameSync1, frameSync2} {
		if err := cbs.WriteUnsigned(t, w, 8, "frame_sync_byte", []int{i}, b, 0, 0xff); err != nil {
			return err
		}
	}
	return nil
}

func readColorConfig(t *cbs.Trace, r *bits.Reader, h *FrameHeader, profile int) error {
	if profile >= 2 {
		v, err := cbs.ReadUnsigned(t, r, 1, "ten_or_twelve_bit", nil, 0, 1)
		if err != nil {
			return err
		}
		h.TenOrTwelveBit = uint8(v)
	}

	v, err := cbs.ReadUnsigned(t, r, 3, "color_space", nil, 0, 7)
	if err != nil {
		return err
	}
	h.ColorSpace = uint8(v)

	if h.ColorSpace != csRGB {
		cr, err := cbs.ReadUnsigned(t, r, 1, "color_range", nil, 0, 1)
		if err != nil {
			return err
		}
		h.ColorRange = uint8(cr)

		if profile == 1 || profile == 3 {
			sx, err := cbs.ReadUnsigned(t, r, 1, "subsampling_x", nil, 0, 1)
			if err != nil {
				return err
			}
			h.SubsamplingX = uint8(sx)
			sy, err := cbs.ReadUnsigned(t, r, 1, "subsampling_y", nil, 0, 1)
			if err != nil {
				return err
			}
			h.SubsamplingY = uint8(sy)
			if _, err := cbs.ReadUnsigned(t, r, 1, "color_config_reserved_zero", nil, 0, 0); err != nil {
				return err
			}
		} else {
			h.SubsamplingX, h.SubsamplingY = 1, 1
		}
	} else {
		h.ColorRange = 1
		if profile == 1 || profile == 3 {
			h.SubsamplingX, h.SubsamplingY = 0, 0
		}
	}

	return nil
}

func writeColorConfig(t *cbs.Trace, w *bits.Writer, h *FrameHeader, profile int) error {
	if profile >= 2 {
		if err := cbs.WriteUnsigned(t, w, 1, "ten_or_twelve_bit", nil, uint64(h.TenOrTwelveBit), 0, 1); err != nil {
			return err
		}
	}
	if err := cbs.WriteUnsigned(t, w, 3, "color_space", nil, uint64(h.ColorSpace), 0, 7); err != nil {
		return err
	}
	if h.ColorSpace != csRGB {
		if err := cbs.WriteUnsigned(t, w, 1, "color_range", nil, uint64(h.ColorRange), 0, 1); err != nil {
			return err
		}
		if profile == 1 || profile == 3 {
			if err := cbs.WriteUnsigned(t, w, 1, "subsampling_x", nil, uint64(h.SubsamplingX), 0, 1); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 1, "subsampling_y", nil, uint64(h.SubsamplingY), 0, 1); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 1, "color_config_reserved_zero", nil, 0, 0, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func readFrameSize(t *cbs.Trace, r *bits.Reader, h *FrameHeader, priv *privateState) error {
	v, err := cbs.ReadUnsigned(t, r, 16, "frame_width_minus_1", nil, 0, 0xffff)
	if err != nil {
		return err
	}
	h.FrameWidthMinus1 = uint16(v)

	v, err = cbs.ReadUnsigned(t, r, 16, "frame_height_minus_1", nil, 0, 0xffff)
	if err != nil {
		return err
	}
	h.FrameHeightMinus1 = uint16(v)

	priv.updateFrameDimensions(h.FrameWidthMinus1, h.FrameHeightMinus1)
	return nil
}

func writeFrameSize(t *cbs.Trace, w *bits.Writer, h *FrameHeader, priv *privateState) error {
	if err := cbs.WriteUnsigned(t, w, 16, "frame_width_minus_1", nil, uint64(h.FrameWidthMinus1), 0, 0xffff); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 16, "frame_height_minus_1", nil, uint64(h.FrameHeightMinus1), 0, 0xffff); err != nil {
		return err
	}
	priv.updateFrameDimensions(h.FrameWidthMinus1, h.FrameHeightMinus1)
	return nil
}

func readRenderSize(t *cbs.Trace, r *bits.Reader, h *FrameHeader) error {
	v, err := cbs.ReadFlag(t, r, "render_and_frame_size_different", nil)
	if err != nil {
		return err
	}
	h.RenderAndFrameSizeDifferent = v
	if !v {
		return nil
	}
	rw, err := cbs.ReadUnsigned(t, r, 16, "render_width_minus_1", nil, 0, 0xffff)
	if err != nil {
		return err
	}
	h.RenderWidthMinus1 = uint16(rw)
	rh, err := cbs.ReadUnsigned(t, r, 16, "render_height_minus_1", nil, 0, 0xffff)
	if err != nil {
		return err
	}
	h.RenderHeightMinus1 = uint16(rh)
	return nil
}

func writeRenderSize(t *cbs.Trace, w *bits.Writer, h *FrameHeader) error {
	if err := cbs.WriteFlag(t, w, "render_and_frame_size_different", nil, h.RenderAndFrameSizeDifferent); err != nil {
		return err
	}
	if !h.RenderAndFrameSizeDifferent {
		return nil
	}
	if err := cbs.WriteUnsigned(t, w, 16, "render_width_minus_1", nil, uint64(h.RenderWidthMinus1), 0, 0xffff); err != nil {
		return err
	}
	return cbs.WriteUnsigned(t, w, 16, "render_height_minus_1", nil, uint64(h.RenderHeightMinus1), 0, 0xffff)
}

func readFrameSizeWithRefs(t *cbs.Trace, r *bits.Reader, h *FrameHeader, priv *privateState) error {
	found := false
	for i := 0; i < refsPerFrame; i++ {
		v, err := cbs.ReadFlag(t, r, "found_ref[i]", []int{i})
		if err != nil {
			return err
		}
		h.FoundRef[i] = v
		if v {
			found = true
			break
		}
	}
	if !found {
		if err := readFrameSize(t, r, h, priv); err != nil {
			return err
		}
	}
	return readRenderSize(t, r, h)
}

func writeFrameSizeWithRefs(t *cbs.Trace, w *bits.Writer, h *FrameHeader, priv *privateState) error {
	found := false
	for i := 0; i < refsPerFrame; i++ {
		if err := cbs.WriteFlag(t, w, "found_ref[i]", []int{i}, h.FoundRef[i]); err != nil {
			return err
		}
		if h.FoundRef[i] {
			found = true
			break
		}
	}
	if !found {
		if err := writeFrameSize(t, w, h, priv); err != nil {
			return err
		}
	}
	return writeRenderSize(t, w, h)
}

func readInterpolationFilter(t *cbs.Trace, r *bits.Reader, h *FrameHeader) error {
	v, err := cbs.ReadFlag(t, r, "is_filter_switchable", nil)
	if err != nil {
		return err
	}
	h.IsFilterSwitchable = v
	if v {
		return nil
	}
	f, err := cbs.ReadUnsigned(t, r, 2, "raw_interpolation_filter_type", nil, 0, 3)
	if err != nil {
		return err
	}
	h.RawInterpolationFilterType = uint8(f)
	return nil
}

func writeInterpolationFilter(t *cbs.Trace, w *bits.Writer, h *FrameHeader) error {
	if err := cbs.WriteFlag(t, w, "is_filter_switchable", nil, h.IsFilterSwitchable); err != nil {
		return err
	}
	if h.IsFilterSwitchable {
		return nil
	}
	return cbs.WriteUnsigned(t, w, 2, "raw_interpolation_filter_type", nil, uint64(h.RawInterpolationFilterType), 0, 3)
}

func readLoopFilterParams(t *cbs.Trace, r *bits.Reader, h *FrameHeader) error {
	v, err := cbs.ReadUnsigned(t, r, 6, "loop_filter_level", nil, 0, 63)
	if err != nil {
		return err
	}
	h.LoopFilterLevel = uint8(v)

	s, err := cbs.ReadUnsigned(t, r, 3, "loop_filter_sharpness", nil, 0, 7)
	if err != nil {
		return err
	}
	h.LoopFilterSharpness = uint8(s)

	enabled, err := cbs.ReadFlag(t, r, "loop_filter_delta_enabled", nil)
	if err != nil {
		return err
	}
	h.LoopFilterDeltaEnabled = enabled
	if !enabled {
		return nil
	}

	update, err := cbs.ReadFlag(t, r, "loop_filter_delta_update", nil)
	if err != nil {
		return err
	}
	h.LoopFilterDeltaUpdate = update
	if !update {
		return nil
	}

	for i := 0; i < maxRefFrames; i++ {
		v, err := cbs.ReadFlag(t, r, "update_ref_delta[i]", []int{i})
		if err != nil {
			return err
		}
		h.UpdateRefDelta[i] = v
		if v {
			sv, err := cbs.ReadSigned(t, r, 6, "loop_filter_ref_deltas[i]", []int{i}, -63, 63)
			if err != nil {
				return err
			}
			h.LoopFilterRefDeltas[i] = int8(sv)
		}
	}
	for i := 0; i < 2; i++ {
		v, err := cbs.ReadFlag(t, r, "update_mode_delta[i]", []int{i})
		if err != nil {
			return err
		}
		h.UpdateModeDelta[i] = v
		if v {
			sv, err := cbs.ReadSigned(t, r, 6, "loop_filter_mode_deltas[i]", []int{i}, -63, 63)
			if err != nil {
				return err
			}
			h.LoopFilterModeDeltas[i] = int8(sv)
		}
	}
	return nil
}

func writeLoopFilterParams(t *cbs.Trace, w *bits.Writer, h *FrameHeader) error {
	if err := cbs.WriteUnsigned(t, w, 6, "loop_filter_level", nil, uint64(h.LoopFilterLevel), 0, 63); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 3, "loop_filter_sharpness", nil, uint64(h.LoopFilterSharpness), 0, 7); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "loop_filter_delta_enabled", nil, h.LoopFilterDeltaEnabled); err != nil {
		return err
	}
	if !h.LoopFilterDeltaEnabled {
		return nil
	}
	if err := cbs.WriteFlag(t, w, "loop_filter_delta_update", nil, h.LoopFilterDeltaUpdate); err != nil {
		return err
	}
	if !h.LoopFilterDeltaUpdate {
		return nil
	}
	for i := 0; i < maxRefFrames; i++ {
		if err := cbs.WriteFlag(t, w, "update_ref_delta[i]", []int{i}, h.UpdateRefDelta[i]); err != nil {
			return err
		}
		if h.UpdateRefDelta[i] {
			if err := cbs.WriteSigned(t, w, 6, "loop_filter_ref_deltas[i]", []int{i}, int64(h.LoopFilterRefDeltas[i]), -63, 63); err != nil {
				return err
			}
		}
	}
	for i := 0; i < 2; i++ {
		if err := cbs.WriteFlag(t, w, "update_mode_delta[i]", []int{i}, h.UpdateModeDelta[i]); err != nil {
			return err
		}
		if h.UpdateModeDelta[i] {
			if err := cbs.WriteSigned(t, w, 6, "loop_filter_mode_deltas[i]", []int{i}, int64(h.LoopFilterModeDeltas[i]), -63, 63); err != nil {
				return err
			}
		}
	}
	return nil
}

func readQuantizationParams(t *cbs.Trace, r *bits.Reader, h *FrameHeader) error {
	v, err := cbs.ReadUnsigned(t, r, 8, "base_q_idx", nil, 0, 255)
	if err != nil {
		return err
	}
	h.BaseQIdx = uint8(v)

	if h.DeltaQYDC, err = readDeltaQ(t, r, "delta_q_y_dc"); err != nil {
		return err
	}
	if h.DeltaQUVDC, err = readDeltaQ(t, r, "delta_q_uv_dc"); err != nil {
		return err
	}
	if h.DeltaQUVAC, err = readDeltaQ(t, r, "delta_q_uv_ac"); err != nil {
		return err
	}
	return nil
}

func writeQuantizationParams(t *cbs.Trace, w *bits.Writer, h *FrameHeader) error {
	if err := cbs.WriteUnsigned(t, w, 8, "base_q_idx", nil, uint64(h.BaseQIdx), 0, 255); err != nil {
		return err
	}
	if err := writeDeltaQ(t, w, "delta_q_y_dc", h.DeltaQYDC); err != nil {
		return err
	}
	if err := writeDeltaQ(t, w, "delta_q_uv_dc", h.DeltaQUVDC); err != nil {
		return err
	}
	return writeDeltaQ(t, w, "delta_q_uv_ac", h.DeltaQUVAC)
}

func readSegmentationParams(t *cbs.Trace, r *bits.Reader, h *FrameHeader) error {
	enabled, err := cbs.ReadFlag(t, r, "segmentation_enabled", nil)
	if err != nil {
		return err
	}
	h.SegmentationEnabled = enabled
	if !enabled {
		return nil
	}

	updateMap, err := cbs.ReadFlag(t, r, "segmentation_update_map", nil)
	if err != nil {
		return err
	}
	h.SegmentationUpdateMap = updateMap
	if updateMap {
		for i := 0; i < 7; i++ {
			p, err := readProb(t, r, "segmentation_tree_probs[i]", []int{i})
			if err != nil {
				return err
			}
			h.SegmentationTreeProbs[i] = p
		}
		temporal, err := cbs.ReadFlag(t, r, "segmentation_temporal_update", nil)
		if err != nil {
			return err
		}
		h.SegmentationTemporalUpdate = temporal
		for i := 0; i < 3; i++ {
			if temporal {
				p, err := readProb(t, r, "segmentation_pred_prob[i]", []int{i})
				if err != nil {
					return err
				}
				h.SegmentationPredProb[i] = p
			} else {
				h.SegmentationPredProb[i] = 255
			}
		}
	}

	updateData, err := cbs.ReadFlag(t, r, "segmentation_update_data", nil)
	if err != nil {
		return err
	}
	h.SegmentationUpdateData = updateData
	if updateData {
		abs, err := cbs.ReadFlag(t, r, "segmentation_abs_or_delta_update", nil)
		if err != nil {
			return err
		}
		h.SegmentationAbsOrDeltaUpdate = abs

		for i := 0; i < maxSegments; i++ {
			for j := 0; j < segLvlMax; j++ {
				fe, err := cbs.ReadFlag(t, r, "feature_enabled[i][j]", []int{i, j})
				if err != nil {
					return err
				}
				h.FeatureEnabled[i][j] = fe
				if fe && segmentationFeatureBits[j] > 0 {
					v, err := cbs.ReadUnsigned(t, r, segmentationFeatureBits[j], "feature_value[i][j]", []int{i, j}, 0, maxUint(segmentationFeatureBits[j]))
					if err != nil {
						return err
					}
					h.FeatureValue[i][j] = uint8(v)
					if segmentationFeatureSigned[j] {
						sv, err := cbs.ReadFlag(t, r, "feature_sign[i][j]", []int{i, j})
						if err != nil {
							return err
						}
						h.FeatureSign[i][j] = sv
					}
				}
			}
		}
	}

	return nil
}

func writeSegmentationParams(t *cbs.Trace, w *bits.Writer, h *FrameHeader) error {
	if err := cbs.WriteFlag(t, w, "segmentation_enabled", nil, h.SegmentationEnabled); err != nil {
		return err
	}
	if !h.SegmentationEnabled {
		return nil
	}

	if err := cbs.WriteFlag(t, w, "segmentation_update_map", nil, h.SegmentationUpdateMap); err != nil {
		return err
	}
	if h.SegmentationUpdateMap {
		for i := 0; i < 7; i++ {
			if err := writeProb(t, w, "segmentation_tree_probs[i]", []int{i}, h.SegmentationTreeProbs[i]); err != nil {
				return err
			}
		}
		if err := cbs.WriteFlag(t, w, "segmentation_temporal_update", nil, h.SegmentationTemporalUpdate); err != nil {
			return err
		}
		for i := 0; i < 3; i++ {
			if h.SegmentationTemporalUpdate {
				if err := writeProb(t, w, "segmentation_pred_prob[i]", []int{i}, h.SegmentationPredProb[i]); err != nil {
					return err
				}
			}
		}
	}

	if err := cbs.WriteFlag(t, w, "segmentation_update_data", nil, h.SegmentationUpdateData); err != nil {
		return err
	}
	if !h.SegmentationUpdateData {
		return nil
	}
	if err := cbs.WriteFlag(t, w, "segmentation_abs_or_delta_update", nil, h.SegmentationAbsOrDeltaUpdate); err != nil {
		return err
	}
	for i := 0; i < maxSegments; i++ {
		for j := 0; j < segLvlMax; j++ {
			if err := cbs.WriteFlag(t, w, "feature_enabled[i][j]", []int{i, j}, h.FeatureEnabled[i][j]); err != nil {
				return err
			}
			if h.FeatureEnabled[i][j] && segmentationFeatureBits[j] > 0 {
				if err := cbs.WriteUnsigned(t, w, segmentationFeatureBits[j], "feature_value[i][j]", []int{i, j}, uint64(h.FeatureValue[i][j]), 0, maxUint(segmentationFeatureBits[j])); err != nil {
					return err
				}
				if segmentationFeatureSigned[j] {
					if err := cbs.WriteFlag(t, w, "feature_sign[i][j]", []int{i, j}, h.FeatureSign[i][j]); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// maxUint returns the largest value representable in width unsigned bits.
func maxUint(width int) uint64 {
	if width <= 0 {
		return 0
	}
	return (uint64(1) << uint(width)) - 1
}

func readTileInfo(t *cbs.Trace, r *bits.Reader, h *FrameHeader, priv *privateState) error {
	minLog2 := 0
	for (maxTileWidthB64 << uint(minLog2)) < int(priv.sb64Cols) {
		minLog2++
	}
	maxLog2 := 0
	for int(priv.sb64Cols)>>uint(maxLog2+1) >= minTileWidthB64 {
		maxLog2++
	}

	v, err := readIncrement(t, r, "tile_cols_log2", uint64(minLog2), uint64(maxLog2))
	if err != nil {
		return err
	}
	h.TileColsLog2 = v

	v, err = readIncrement(t, r, "tile_rows_log2", 0, 2)
	if err != nil {
		return err
	}
	h.TileRowsLog2 = v
	return nil
}

func writeTileInfo(t *cbs.Trace, w *bits.Writer, h *FrameHeader, priv *privateState) error {
	minLog2 := 0
	for (maxTileWidthB64 << uint(minLog2)) < int(priv.sb64Cols) {
		minLog2++
	}
	maxLog2 := 0
	for int(priv.sb64Cols)>>uint(maxLog2+1) >= minTileWidthB64 {
		maxLog2++
	}

	if err := writeIncrement(t, w, "tile_cols_log2", h.TileColsLog2, uint64(minLog2), uint64(maxLog2)); err != nil {
		return err
	}
	return writeIncrement(t, w, "tile_rows_log2", h.TileRowsLog2, 0, 2)
}

const (
	minTileWidthB64 = 4
	maxTileWidthB64 = 64
)

// readUncompressedHeader reads uncompressed_header into h, updating priv's
// profile and, when frame_size is read, its frame dimensions. The
// reference frame table in priv is not updated.
func readUncompressedHeader(t *cbs.Trace, r *bits.Reader, h *FrameHeader, priv *privateState) error {
	v, err := cbs.ReadUnsigned(t, r, 2, "frame_marker", nil, 0, 3)
	if err != nil {
		return err
	}
	h.FrameMarker = uint8(v)

	lo, err := cbs.ReadUnsigned(t, r, 1, "profile_low_bit", nil, 0, 1)
	if err != nil {
		return err
	}
	h.ProfileLowBit = uint8(lo)
	hi, err := cbs.ReadUnsigned(t, r, 1, "profile_high_bit", nil, 0, 1)
	if err != nil {
		return err
	}
	h.ProfileHighBit = uint8(hi)
	profile := int(hi)<<1 + int(lo)
	h.Profile = profile
	if profile == 3 {
		if _, err := cbs.ReadUnsigned(t, r, 1, "profile_reserved_zero", nil, 0, 0); err != nil {
			return err
		}
	}
	priv.profile = profile

	see, err := cbs.ReadFlag(t, r, "show_existing_frame", nil)
	if err != nil {
		return err
	}
	h.ShowExistingFrame = see
	if see {
		idx, err := cbs.ReadUnsigned(t, r, 3, "frame_to_show_map_idx", nil, 0, 7)
		if err != nil {
			return err
		}
		h.FrameToShowMapIdx = uint8(idx)
		h.HeaderSizeInBytes = 0
		h.RefreshFrameFlags = 0
		h.LoopFilterLevel = 0
		return nil
	}

	ft, err := cbs.ReadUnsigned(t, r, 1, "frame_type", nil, 0, 1)
	if err != nil {
		return err
	}
	h.FrameType = uint8(ft)

	sf, err := cbs.ReadFlag(t, r, "show_frame", nil)
	if err != nil {
		return err
	}
	h.ShowFrame = sf

	erm, err := cbs.ReadFlag(t, r, "error_resilient_mode", nil)
	if err != nil {
		return err
	}
	h.ErrorResilientMode = erm

	if h.FrameType == KeyFrame {
		if err := readFrameSyncCode(t, r); err != nil {
			return err
		}
		if err := readColorConfig(t, r, h, profile); err != nil {
			return err
		}
		if err := readFrameSize(t, r, h, priv); err != nil {
			return err
		}
		if err := readRenderSize(t, r, h); err != nil {
			return err
		}
		h.RefreshFrameFlags = 0xff
	} else {
		if !h.ShowFrame {
			io, err := cbs.ReadFlag(t, r, "intra_only", nil)
			if err != nil {
				return err
			}
			h.IntraOnly = io
		} else {
			h.IntraOnly = false
		}

		if !h.ErrorResilientMode {
			rfc, err := cbs.ReadUnsigned(t, r, 2, "reset_frame_context", nil, 0, 3)
			if err != nil {
				return err
			}
			h.ResetFrameContext = uint8(rfc)
		} else {
			h.ResetFrameContext = 0
		}

		if h.IntraOnly {
			if err := readFrameSyncCode(t, r); err != nil {
				return err
			}
			if profile > 0 {
				if err := readColorConfig(t, r, h, profile); err != nil {
					return err
				}
			} else {
				h.ColorSpace = csBT601
				h.SubsamplingX, h.SubsamplingY = 1, 1
			}

			rff, err := cbs.ReadUnsigned(t, r, 8, "refresh_frame_flags", nil, 0, 0xff)
			if err != nil {
				return err
			}
			h.RefreshFrameFlags = uint8(rff)

			if err := readFrameSize(t, r, h, priv); err != nil {
				return err
			}
			if err := readRenderSize(t, r, h); err != nil {
				return err
			}
		} else {
			rff, err := cbs.ReadUnsigned(t, r, 8, "refresh_frame_flags", nil, 0, 0xff)
			if err != nil {
				return err
			}
			h.RefreshFrameFlags = uint8(rff)

			for i := 0; i < refsPerFrame; i++ {
				idx, err := cbs.ReadUnsigned(t, r, 3, "ref_frame_idx[i]", []int{i}, 0, 7)
				if err != nil {
					return err
				}
				h.RefFrameIdx[i] = uint8(idx)
				sb, err := cbs.ReadFlag(t, r, "ref_frame_sign_bias[i]", []int{1 + i})
				if err != nil {
					return err
				}
				h.RefFrameSignBias[1+i] = sb
			}

			if err := readFrameSizeWithRefs(t, r, h, priv); err != nil {
				return err
			}

			hp, err := cbs.ReadFlag(t, r, "allow_high_precision_mv", nil)
			if err != nil {
				return err
			}
			h.AllowHighPrecisionMV = hp

			if err := readInterpolationFilter(t, r, h); err != nil {
				return err
			}
		}
	}

	if !h.ErrorResilientMode {
		rfx, err := cbs.ReadFlag(t, r, "refresh_frame_context", nil)
		if err != nil {
			return err
		}
		h.RefreshFrameContext = rfx
		fp, err := cbs.ReadFlag(t, r, "frame_parallel_decoding_mode", nil)
		if err != nil {
			return err
		}
		h.FrameParallelDecodingMode = fp
	} else {
		h.RefreshFrameContext = false
		h.FrameParallelDecodingMode = true
	}

	fci, err := cbs.ReadUnsigned(t, r, 2, "frame_context_idx", nil, 0, 3)
	if err != nil {
		return err
	}
	h.FrameContextIdx = uint8(fci)

	if err := readLoopFilterParams(t, r, h); err != nil {
		return err
	}
	if err := readQuantizationParams(t, r, h); err != nil {
		return err
	}
	if err := readSegmentationParams(t, r, h); err != nil {
		return err
	}
	if err := readTileInfo(t, r, h, priv); err != nil {
		return err
	}

	hs, err := cbs.ReadUnsigned(t, r, 16, "header_size_in_bytes", nil, 0, 0xffff)
	if err != nil {
		return err
	}
	h.HeaderSizeInBytes = uint16(hs)

	return nil
}

// writeUncompressedHeader is readUncompressedHeader's write counterpart.
func writeUncompressedHeader(t *cbs.Trace, w *bits.Writer, h *FrameHeader, priv *privateState) error {
	if err := cbs.WriteUnsigned(t, w, 2, "frame_marker", nil, uint64(h.FrameMarker), 0, 3); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 1, "profile_low_bit", nil, uint64(h.ProfileLowBit), 0, 1); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 1, "profile_high_bit", nil, uint64(h.ProfileHighBit), 0, 1); err != nil {
		return err
	}
	profile := int(h.ProfileHighBit)<<1 + int(h.ProfileLowBit)
	if profile == 3 {
		if err := cbs.WriteUnsigned(t, w, 1, "profile_reserved_zero", nil, 0, 0, 0); err != nil {
			return err
		}
	}
	priv.profile = profile

	if err := cbs.WriteFlag(t, w, "show_existing_frame", nil, h.ShowExistingFrame); err != nil {
		return err
	}
	if h.ShowExistingFrame {
		return cbs.WriteUnsigned(t, w, 3, "frame_to_show_map_idx", nil, uint64(h.FrameToShowMapIdx), 0, 7)
	}

	if err := cbs.WriteUnsigned(t, w, 1, "frame_type", nil, uint64(h.FrameType), 0, 1); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "show_frame", nil, h.ShowFrame); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "error_resilient_mode", nil, h.ErrorResilientMode); err != nil {
		return err
	}

	if h.FrameType == KeyFrame {
		if err := writeFrameSyncCode(t, w); err != nil {
			return err
		}
		if err := writeColorConfig(t, w, h, profile); err != nil {
			return err
		}
		if err := writeFrameSize(t, w, h, priv); err != nil {
			return err
		}
		if err := writeRenderSize(t, w, h); err != nil {
			return err
		}
	} else {
		if !h.ShowFrame {
			if err := cbs.WriteFlag(t, w, "intra_only", nil, h.IntraOnly); err != nil {
				return err
			}
		}
		if !h.ErrorResilientMode {
			if err := cbs.WriteUnsigned(t, w, 2, "reset_frame_context", nil, uint64(h.ResetFrameContext), 0, 3); err != nil {
				return err
			}
		}

		if h.IntraOnly {
			if err := writeFrameSyncCode(t, w); err != nil {
				return err
			}
			if profile > 0 {
				if err := writeColorConfig(t, w, h, profile); err != nil {
					return err
				}
			}
			if err := cbs.WriteUnsigned(t, w, 8, "refresh_frame_flags", nil, uint64(h.RefreshFrameFlags), 0, 0xff); err != nil {
				return err
			}
			if err := writeFrameSize(t, w, h, priv); err != nil {
				return err
			}
			if err := writeRenderSize(t, w, h); err != nil {
				return err
			}
		} else {
			if err := cbs.WriteUnsigned(t, w, 8, "refresh_frame_flags", nil, uint64(h.RefreshFrameFlags), 0, 0xff); err != nil {
				return err
			}
			for i := 0; i < refsPerFrame; i++ {
				if err := cbs.WriteUnsigned(t, w, 3, "ref_frame_idx[i]", []int{i}, uint64(h.RefFrameIdx[i]), 0, 7); err != nil {
					return err
				}
				if err := cbs.WriteFlag(t, w, "ref_frame_sign_bias[i]", []int{1 + i}, h.RefFrameSignBias[1+i]); err != nil {
					return err
				}
			}
			if err := writeFrameSizeWithRefs(t, w, h, priv); err != nil {
				return err
			}
			if err := cbs.WriteFlag(t, w, "allow_high_precision_mv", nil, h.AllowHighPrecisionMV); err != nil {
				return err
			}
			if err := writeInterpolationFilter(t, w, h); err != nil {
				return err
			}
		}
	}

	if !h.ErrorResilientMode {
		if err := cbs.WriteFlag(t, w, "refresh_frame_context", nil, h.RefreshFrameContext); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "frame_parallel_decoding_mode", nil, h.FrameParallelDecodingMode); err != nil {
			return err
		}
	}

	if err := cbs.WriteUnsigned(t, w, 2, "frame_context_idx", nil, uint64(h.FrameContextIdx), 0, 3); err != nil {
		return err
	}

	if err := writeLoopFilterParams(t, w, h); err != nil {
		return err
	}
	if err := writeQuantizationParams(t, w, h); err != nil {
		return err
	}
	if err := writeSegmentationParams(t, w, h); err != nil {
		return err
	}
	if err := writeTileInfo(t, w, h, priv); err != nil {
		return err
	}

	return cbs.WriteUnsigned(t, w, 16, "header_size_in_bytes", nil, uint64(h.HeaderSizeInBytes), 0, 0xffff)
}

// readTrailingBits consumes zero bits up to the next byte boundary.
func readTrailingBits(t *cbs.Trace, r *bits.Reader) error {
	for !r.ByteAligned() {
		if _, err := cbs.ReadUnsigned(t, r, 1, "zero_bit", nil, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// writeTrailingBits pads with zero bits up to the next byte boundary.
func writeTrailingBits(t *cbs.Trace, w *bits.Writer) error {
	for w.Pos()%8 != 0 {
		if err := cbs.WriteUnsigned(t, w, 1, "zero_bit", nil, 0, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

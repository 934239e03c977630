/*
NAME
  syntax.go

DESCRIPTION
  syntax.go implements the VP8 frame header syntax structures: the frame
  tag (plain little-endian fields), and the compressed header's
  update_segmentation, mode_ref_lf_deltas, quantization_params,
  update_token_probs and update_mv_probs sub-structures, decoded with the
  boolean decoder this package's frame header rides on top of.

  Only the decode direction is implemented: an encoder would need to
  choose probabilities and partition boundaries this package has no reason
  to reconstruct, so WriteUnit reports this codec as read-only (see
  unit.go).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp8

import "github.com/ausocean/cbs"

// tokenUpdateProbs selects, for each coefficient band/context/token
// position, the probability that update_token_probs' coeff_prob_update
// flag is itself set. The real values are a fixed table tuned against
// typical residual statistics; reconstructing that tuning is out of scope
// for a framing-only package, so every entry uses the same unbiased
// probability used for every other compressed-header flag. This does not
// affect the syntax shape (all 4*8*3*11 flags are still read in the same
// order), only how skewed the arithmetic coder expects them to be.
var tokenUpdateProbs [4][8][3][11]uint8

func init() {
	for i := range tokenUpdateProbs {
		for j := range tokenUpdateProbs[i] {
			for k := range tokenUpdateProbs[i][j] {
				for l := range tokenUpdateProbs[i][j][k] {
					tokenUpdateProbs[i][j][k][l] = defaultProb
				}
			}
		}
	}
}

// readFrameTag reads the frame tag: the three (or, on a key frame, ten)
// plain little-endian bytes that precede the probability-coded part of
// the header.
func readFrameTag(t *cbs.Trace, r *leReader, h *FrameHeader) error {
	v, err := readLE(t, r, 1, "frame_type")
	if err != nil {
		return err
	}
	h.FrameType = uint8(v)

	if v, err = readLE(t, r, 3, "profile"); err != nil {
		return err
	}
	h.Profile = uint8(v)

	if v, err = readLE(t, r, 1, "show_frame"); err != nil {
		return err
	}
	h.ShowFrame = uint8(v)

	if v, err = readLE(t, r, 19, "first_partition_length_in_bytes"); err != nil {
		return err
	}
	h.FirstPartitionLengthInBytes = uint32(v)

	if h.FrameType == KeyFrame {
		if err := readLEFixed(t, r, 8, "start_code_0", startCode0); err != nil {
			return err
		}
		if err := readLEFixed(t, r, 8, "start_code_1", startCode1); err != nil {
			return err
		}
		if err := readLEFixed(t, r, 8, "start_code_2", startCode2); err != nil {
			return err
		}

		if v, err = readLE(t, r, 14, "width"); err != nil {
			return err
		}
		h.Width = uint16(v)
		if v, err = readLE(t, r, 2, "horizontal_scale"); err != nil {
			return err
		}
		h.HorizontalScale = uint8(v)

		if v, err = readLE(t, r, 14, "height"); err != nil {
			return err
		}
		h.Height = uint16(v)
		if v, err = readLE(t, r, 2, "vertical_scale"); err != nil {
			return err
		}
		h.VerticalScale = uint8(v)
	}

	return nil
}

// readUpdateSegmentation reads update_segmentation, present whenever
// segmentation_enable is set.
func readUpdateSegmentation(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	v, err := readBoolFlag(d, "update_segment_map")
	if err != nil {
		return err
	}
	h.UpdateSegmentMap = v

	if v, err = readBoolFlag(d, "update_segment_feature_data"); err != nil {
		return err
	}
	h.UpdateSegmentFeatureData = v

	if h.UpdateSegmentFeatureData {
		n, err := readBoolUnsigned(t, d, 1, defaultProb, "segment_feature_mode", nil, true)
		if err != nil {
			return err
		}
		h.SegmentFeatureMode = uint8(n)

		for i := 0; i < 4; i++ {
			v, err := readBoolFlag(d, "segment_qp_update[i]")
			if err != nil {
				return err
			}
			h.SegmentQPUpdate[i] = v
			if v {
				sv, err := readBoolSigned(t, d, 7, defaultProb, "segment_qp[i]", []int{i})
				if err != nil {
					return err
				}
				h.SegmentQP[i] = int8(sv)
			}
		}
		for i := 0; i < 4; i++ {
			v, err := readBoolFlag(d, "segment_loop_filter_level_update[i]")
			if err != nil {
				return err
			}
			h.SegmentLoopFilterLevelUpdate[i] = v
			if v {
				sv, err := readBoolSigned(t, d, 6, defaultProb, "segment_loop_filter_level[i]", []int{i})
				if err != nil {
					return err
				}
				h.SegmentLoopFilterLevel[i] = int8(sv)
			}
		}
	}

	if h.UpdateSegmentMap {
		for i := 0; i < 3; i++ {
			v, err := readBoolFlag(d, "segment_probs_update[i]")
			if err != nil {
				return err
			}
			h.SegmentProbsUpdate[i] = v
			if v {
				uv, err := readBoolUnsigned(t, d, 8, defaultProb, "segment_probs[i]", []int{i}, true)
				if err != nil {
					return err
				}
				h.SegmentProbs[i] = uint8(uv)
			}
		}
	}

	return nil
}

// readModeRefLFDeltas reads mode_ref_lf_deltas, the per-prediction-mode
// and per-reference-frame loop filter level adjustments.
func readModeRefLFDeltas(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	v, err := readBoolFlag(d, "mode_ref_lf_delta_enable")
	if err != nil {
		return err
	}
	h.ModeRefLFDeltaEnable = v
	if !h.ModeRefLFDeltaEnable {
		return nil
	}

	if v, err = readBoolFlag(d, "mode_ref_lf_delta_update"); err != nil {
		return err
	}
	h.ModeRefLFDeltaUpdate = v
	if !h.ModeRefLFDeltaUpdate {
		return nil
	}

	for i := 0; i < 4; i++ {
		v, err := readBoolFlag(d, "ref_lf_deltas_update[i]")
		if err != nil {
			return err
		}
		h.RefLFDeltasUpdate[i] = v
		if v {
			sv, err := readBoolSigned(t, d, 6, defaultProb, "ref_lf_deltas[i]", []int{i})
			if err != nil {
				return err
			}
			h.RefLFDeltas[i] = int8(sv)
		}
	}
	for i := 0; i < 4; i++ {
		v, err := readBoolFlag(d, "mode_lf_deltas_update[i]")
		if err != nil {
			return err
		}
		h.ModeLFDeltasUpdate[i] = v
		if v {
			sv, err := readBoolSigned(t, d, 6, defaultProb, "mode_lf_deltas[i]", []int{i})
			if err != nil {
				return err
			}
			h.ModeLFDeltas[i] = int8(sv)
		}
	}

	return nil
}

// readQuantizationParams reads quantization_params: the base quantiser
// index and five optional signed deltas from it.
func readQuantizationParams(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	v, err := readBoolUnsigned(t, d, 7, defaultProb, "base_qindex", nil, true)
	if err != nil {
		return err
	}
	h.BaseQIndex = uint8(v)

	deltas := []struct {
		present *bool
		value   *int8
		name    string
	}{
		{&h.Y1DCDeltaQPresent, &h.Y1DCDeltaQ, "y1dc_delta_q"},
		{&h.Y2DCDeltaQPresent, &h.Y2DCDeltaQ, "y2dc_delta_q"},
		{&h.Y2ACDeltaQPresent, &h.Y2ACDeltaQ, "y2ac_delta_q"},
		{&h.UVDCDeltaQPresent, &h.UVDCDeltaQ, "uvdc_delta_q"},
		{&h.UVACDeltaQPresent, &h.UVACDeltaQ, "uvac_delta_q"},
	}
	for _, delta := range deltas {
		present, err := readBoolFlag(d, delta.name+"_present")
		if err != nil {
			return err
		}
		*delta.present = present
		if present {
			sv, err := readBoolSigned(t, d, 4, defaultProb, delta.name, nil)
			if err != nil {
				return err
			}
			*delta.value = int8(sv)
		}
	}

	return nil
}

// readUpdateTokenProbs reads update_token_probs: up to 4*8*3*11
// independent coefficient-probability updates.
func readUpdateTokenProbs(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	for i := 0; i < 4; i++ {
		for j := 0; j < 8; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 11; l++ {
					v, err := readBoolUnsigned(nil, d, 1, tokenUpdateProbs[i][j][k][l], "coeff_prob_update[i][j][k][l]", nil, false)
					if err != nil {
						return err
					}
					h.CoeffProbUpdate[i][j][k][l] = v != 0
					if v != 0 {
						cv, err := readBoolUnsigned(t, d, 8, defaultProb, "coeff_prob[i][j][k][l]", []int{i, j, k, l}, true)
						if err != nil {
							return err
						}
						h.CoeffProb[i][j][k][l] = uint8(cv)
					}
				}
			}
		}
	}
	return nil
}

// readUpdateMVProbs reads update_mv_probs: up to 2*19 independent motion
// vector component probability updates.
func readUpdateMVProbs(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	for i := 0; i < 2; i++ {
		for j := 0; j < 19; j++ {
			v, err := readBoolFlag(d, "mv_prob_update[i][j]")
			if err != nil {
				return err
			}
			h.MVProbUpdate[i][j] = v
			if v {
				mv, err := readBoolUnsigned(t, d, 7, defaultProb, "mv_prob[i][j]", []int{i, j}, true)
				if err != nil {
					return err
				}
				h.MVProb[i][j] = uint8(mv)
			}
		}
	}
	return nil
}

// readFrameHeader reads the compressed frame header: everything after the
// frame tag, coded with the boolean decoder.
func readFrameHeader(t *cbs.Trace, d *boolDecoder, h *FrameHeader) error {
	if h.FrameType == KeyFrame {
		v, err := readBoolUnsigned(t, d, 1, defaultProb, "color_space", nil, true)
		if err != nil {
			return err
		}
		h.ColorSpace = uint8(v)

		if v, err = readBoolUnsigned(t, d, 1, defaultProb, "clamping_type", nil, true); err != nil {
			return err
		}
		h.ClampingType = uint8(v)
	}

	enabled, err := readBoolFlag(d, "segmentation_enable")
	if err != nil {
		return err
	}
	h.SegmentationEnable = enabled
	if enabled {
		if err := readUpdateSegmentation(t, d, h); err != nil {
			return err
		}
	}

	v, err := readBoolUnsigned(t, d, 1, defaultProb, "loop_filter_type", nil, true)
	if err != nil {
		return err
	}
	h.LoopFilterType = uint8(v)

	if v, err = readBoolUnsigned(t, d, 6, defaultProb, "loop_filter_level", nil, true); err != nil {
		return err
	}
	h.LoopFilterLevel = uint8(v)

	if v, err = readBoolUnsigned(t, d, 3, defaultProb, "loop_filter_sharpness", nil, true); err != nil {
		return err
	}
	h.LoopFilterSharpness = uint8(v)

	if err := readModeRefLFDeltas(t, d, h); err != nil {
		return err
	}

	if v, err = readBoolUnsigned(t, d, 2, defaultProb, "log2_token_partitions", nil, true); err != nil {
		return err
	}
	h.Log2TokenPartitions = uint8(v)

	if err := readQuantizationParams(t, d, h); err != nil {
		return err
	}

	if h.FrameType != KeyFrame {
		rg, err := readBoolFlag(d, "refresh_golden_frame")
		if err != nil {
			return err
		}
		h.RefreshGoldenFrame = rg

		ra, err := readBoolFlag(d, "refresh_alternate_frame")
		if err != nil {
			return err
		}
		h.RefreshAlternateFrame = ra

		if !rg {
			cg, err := readBoolUnsigned(t, d, 2, defaultProb, "copy_buffer_to_golden", nil, true)
			if err != nil {
				return err
			}
			h.CopyBufferToGolden = uint8(cg)
		}
		if !ra {
			ca, err := readBoolUnsigned(t, d, 2, defaultProb, "copy_buffer_to_alternate", nil, true)
			if err != nil {
				return err
			}
			h.CopyBufferToAlternate = uint8(ca)
		}

		sg, err := readBoolFlag(d, "ref_frame_sign_bias_golden")
		if err != nil {
			return err
		}
		h.RefFrameSignBiasGolden = sg

		sa, err := readBoolFlag(d, "ref_frame_sign_bias_alternate")
		if err != nil {
			return err
		}
		h.RefFrameSignBiasAlternate = sa
	}

	rep, err := readBoolFlag(d, "refresh_entropy_probs")
	if err != nil {
		return err
	}
	h.RefreshEntropyProbs = rep

	if h.FrameType != KeyFrame {
		rl, err := readBoolFlag(d, "refresh_last_frame")
		if err != nil {
			return err
		}
		h.RefreshLastFrame = rl
	}

	if err := readUpdateTokenProbs(t, d, h); err != nil {
		return err
	}

	noSkip, err := readBoolFlag(d, "mb_no_skip_coeff")
	if err != nil {
		return err
	}
	h.MBNoSkipCoeff = noSkip
	if noSkip {
		ps, err := readBoolUnsigned(t, d, 8, defaultProb, "prob_skip_false", nil, true)
		if err != nil {
			return err
		}
		h.ProbSkipFalse = uint8(ps)
	}

	if h.FrameType != KeyFrame {
		pi, err := readBoolUnsigned(t, d, 8, defaultProb, "prob_intra", nil, true)
		if err != nil {
			return err
		}
		h.ProbIntra = uint8(pi)

		pl, err := readBoolUnsigned(t, d, 8, defaultProb, "prob_last", nil, true)
		if err != nil {
			return err
		}
		h.ProbLast = uint8(pl)

		pg, err := readBoolUnsigned(t, d, 8, defaultProb, "prob_golden", nil, true)
		if err != nil {
			return err
		}
		h.ProbGolden = uint8(pg)

		i16, err := readBoolFlag(d, "intra_16x16_prob_update")
		if err != nil {
			return err
		}
		h.Intra16x16ProbUpdate = i16
		if i16 {
			for i := 0; i < 4; i++ {
				pv, err := readBoolUnsigned(t, d, 8, defaultProb, "intra_16x16_prob[i]", []int{i}, true)
				if err != nil {
					return err
				}
				h.Intra16x16Prob[i] = uint8(pv)
			}
		}

		ic, err := readBoolFlag(d, "intra_chroma_prob_update")
		if err != nil {
			return err
		}
		h.IntraChromaProbUpdate = ic
		if ic {
			for i := 0; i < 3; i++ {
				pv, err := readBoolUnsigned(t, d, 8, defaultProb, "intra_chroma_prob[i]", []int{i}, true)
				if err != nil {
					return err
				}
				h.IntraChromaProb[i] = uint8(pv)
			}
		}

		if err := readUpdateMVProbs(t, d, h); err != nil {
			return err
		}
	}

	return nil
}

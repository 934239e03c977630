/*
NAME
  sequence.go

DESCRIPTION
  sequence.go implements the sequence_header_obu() syntax structure: the
  AV1 unit type carrying stream-wide parameters (profile, operating
  points, frame size limits, colour configuration) that every subsequent
  frame header in the sequence is parsed against. A Context tracks the
  most recently decoded sequence header in its private state (state.go)
  so frame headers can refer back to it.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package av1

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

const (
	selectScreenContentTools = 2
	selectIntegerMV          = 2
	cspUnknown               = 0
)

// TimingInfo is timing_info().
type TimingInfo struct {
	NumUnitsInDisplayTick   uint64
	TimeScale               uint64
	EqualPictureInterval    bool
	NumTicksPerPictureMinus1 uint64
}

// DecoderModelInfo is decoder_model_info().
type DecoderModelInfo struct {
	BufferDelayLengthMinus1      uint64
	NumUnitsInDecodingTick       uint64
	BufferRemovalTimeLengthMinus1 uint64
	FramePresentationTimeLengthMinus1 uint64
}

// OperatingPoint is one entry of a sequence header's operating point table.
type OperatingPoint struct {
	IDC                            uint64
	SeqLevelIdx                    uint64
	SeqTier                        uint64
	DecoderModelPresent            bool
	DecoderBufferDelay             uint64
	EncoderBufferDelay             uint64
	LowDelayModeFlag               bool
	InitialDisplayDelayPresent     bool
	InitialDisplayDelayMinus1      uint64
}

// ColorConfig is color_config().
type ColorConfig struct {
	BitDepth              int
	MonoChrome            bool
	ColorPrimaries        uint64
	TransferCharacteristics uint64
	MatrixCoefficients    uint64
	ColorRange            bool
	SubsamplingX          uint64
	SubsamplingY          uint64
	ChromaSamplePosition  uint64
	SeparateUVDeltaQ      bool
}

// SequenceHeader is the decomposed content of an OBUSequenceHeader unit.
type SequenceHeader struct {
	SeqProfile                  uint64
	StillPicture                bool
	ReducedStillPictureHeader   bool

	TimingInfoPresent  bool
	Timing             TimingInfo
	DecoderModelInfoPresent bool
	DecoderModel       DecoderModelInfo

	InitialDisplayDelayPresent bool
	OperatingPoints            []OperatingPoint

	FrameWidthBitsMinus1  uint64
	FrameHeightBitsMinus1 uint64
	MaxFrameWidthMinus1   uint64
	MaxFrameHeightMinus1  uint64

	FrameIDNumbersPresent       bool
	DeltaFrameIDLengthMinus2    uint64
	AdditionalFrameIDLengthMinus1 uint64

	Use128x128Superblock bool
	EnableFilterIntra    bool
	EnableIntraEdgeFilter bool

	EnableInterintraCompound bool
	EnableMaskedCompound     bool
	EnableWarpedMotion       bool
	EnableDualFilter         bool
	EnableOrderHint          bool
	EnableJntComp            bool
	EnableRefFrameMVs        bool

	SeqForceScreenContentTools uint64
	SeqForceIntegerMV          uint64
	OrderHintBits              int

	EnableSuperres    bool
	EnableCDEF        bool
	EnableRestoration bool

	Color ColorConfig

	FilmGrainParamsPresent bool
}

func (s *SequenceHeader) Kind() cbs.ContentKind { return cbs.ContentPlain }
func (s *SequenceHeader) Clone() cbs.Content    { c := *s; return &c }
func (s *SequenceHeader) BufferRef() *cbs.Buffer { return nil }

func readTimingInfo(t *cbs.Trace, r *bits.Reader) (TimingInfo, error) {
	var ti TimingInfo
	t.Header("timing_info")
	v, err := cbs.ReadUnsigned(t, r, 32, "num_units_in_display_tick", nil, 1, 0xffffffff)
	if err != nil {
		return ti, err
	}
	ti.NumUnitsInDisplayTick = v
	v, err = cbs.ReadUnsigned(t, r, 32, "time_scale", nil, 1, 0xffffffff)
	if err != nil {
		return ti, err
	}
	ti.TimeScale = v
	eq, err := cbs.ReadFlag(t, r, "equal_picture_interval", nil)
	if err != nil {
		return ti, err
	}
	ti.EqualPictureInterval = eq
	if eq {
		v, err = readUvlc(t, r, "num_ticks_per_picture_minus_1", 0, 0xffffffff)
		if err != nil {
			return ti, err
		}
		ti.NumTicksPerPictureMinus1 = v
	}
	return ti, nil
}

func writeTimingInfo(t *cbs.Trace, w *bits.Writer, ti TimingInfo) error {
	t.Header("timing_info")
	if err := cbs.WriteUnsigned(t, w, 32, "num_units_in_display_tick", nil, ti.NumUnitsInDisplayTick, 1, 0xffffffff); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 32, "time_scale", nil, ti.TimeScale, 1, 0xffffffff); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "equal_picture_interval", nil, ti.EqualPictureInterval); err != nil {
		return err
	}
	if ti.EqualPictureInterval {
		if err := writeUvlc(t, w, "num_ticks_per_picture_minus_1", ti.NumTicksPerPictureMinus1, 0, 0xffffffff); err != nil {
			return err
		}
	}
	return nil
}

func readDecoderModelInfo(t *cbs.Trace, r *bits.Reader) (DecoderModelInfo, error) {
	var dm DecoderModelInfo
	t.Header("decoder_model_info")
	v, err := cbs.ReadUnsigned(t, r, 5, "buffer_delay_length_minus_1", nil, 0, 31)
	if err != nil {
		return dm, err
	}
	dm.BufferDelayLengthMinus1 = v
	v, err = cbs.ReadUnsigned(t, r, 32, "num_units_in_decoding_tick", nil, 0, 0xffffffff)
	if err != nil {
		return dm, err
	}
	dm.NumUnitsInDecodingTick = v
	v, err = cbs.ReadUnsigned(t, r, 5, "buffer_removal_time_length_minus_1", nil, 0, 31)
	if err != nil {
		return dm, err
	}
	dm.BufferRemovalTimeLengthMinus1 = v
	v, err = cbs.ReadUnsigned(t, r, 5, "frame_presentation_time_length_minus_1", nil, 0, 31)
	if err != nil {
		return dm, err
	}
	dm.FramePresentationTimeLengthMinus1 = v
	return dm, nil
}

func writeDecoderModelInfo(t *cbs.Trace, w *bits.Writer, dm DecoderModelInfo) error {
	t.Header("decoder_model_info")
	if err := cbs.WriteUnsigned(t, w, 5, "buffer_delay_length_minus_1", nil, dm.BufferDelayLengthMinus1, 0, 31); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 32, "num_units_in_decoding_tick", nil, dm.NumUnitsInDecodingTick, 0, 0xffffffff); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 5, "buffer_removal_time_length_minus_1", nil, dm.BufferRemovalTimeLengthMinus1, 0, 31); err != nil {
		return err
	}
	return cbs.WriteUnsigned(t, w, 5, "frame_presentation_time_length_minus_1", nil, dm.FramePresentationTimeLengthMinus1, 0, 31)
}

func readColorConfig(t *cbs.Trace, r *bits.Reader, seqProfile uint64) (ColorConfig, error) {
	var cc ColorConfig
	t.Header("color_config")

	highBitdepth, err := cbs.ReadFlag(t, r, "high_bitdepth", nil)
	if err != nil {
		return cc, err
	}
	switch {
	case seqProfile == 2 && highBitdepth:
		twelve, err := cbs.ReadFlag(t, r, "twelve_bit", nil)
		if err != nil {
			return cc, err
		}
		if twelve {
			cc.BitDepth = 12
		} else {
			cc.BitDepth = 10
		}
	case seqProfile <= 2:
		if highBitdepth {
			cc.BitDepth = 10
		} else {
			cc.BitDepth = 8
		}
	}

	if seqProfile == 1 {
		cc.MonoChrome = false
	} else {
		mono, err := cbs.ReadFlag(t, r, "mono_chrome", nil)
		if err != nil {
			return cc, err
		}
		cc.MonoChrome = mono
	}

	descPresent, err := cbs.ReadFlag(t, r, "color_description_present_flag", nil)
	if err != nil {
		return cc, err
	}
	if descPresent {
		v, err := cbs.ReadUnsigned(t, r, 8, "color_primaries", nil, 0, 255)
		if err != nil {
			return cc, err
		}
		cc.ColorPrimaries = v
		v, err = cbs.ReadUnsigned(t, r, 8, "transfer_characteristics", nil, 0, 255)
		if err != nil {
			return cc, err
		}
		cc.TransferCharacteristics = v
		v, err = cbs.ReadUnsigned(t, r, 8, "matrix_coefficients", nil, 0, 255)
		if err != nil {
			return cc, err
		}
		cc.MatrixCoefficients = v
	} else {
		cc.ColorPrimaries = 2
		cc.TransferCharacteristics = 2
		cc.MatrixCoefficients = 2
	}

	if cc.MonoChrome {
		rng, err := cbs.ReadFlag(t, r, "color_range", nil)
		if err != nil {
			return cc, err
		}
		cc.ColorRange = rng
		cc.SubsamplingX, cc.SubsamplingY = 1, 1
		cc.ChromaSamplePosition = cspUnknown
		return cc, nil
	}

	if cc.ColorPrimaries == 1 && cc.TransferCharacteristics == 13 && cc.MatrixCoefficients == 0 {
		cc.ColorRange = true
		cc.SubsamplingX, cc.SubsamplingY = 0, 0
	} else {
		rng, err := cbs.ReadFlag(t, r, "color_range", nil)
		if err != nil {
			return cc, err
		}
		cc.ColorRange = rng
		switch {
		case seqProfile == 0:
			cc.SubsamplingX, cc.SubsamplingY = 1, 1
		case seqProfile == 1:
			cc.SubsamplingX, cc.SubsamplingY = 0, 0
		default:
			if cc.BitDepth == 12 {
				sx, err := cbs.ReadFlag(t, r, "subsampling_x", nil)
				if err != nil {
					return cc, err
				}
				cc.SubsamplingX = b2u(sx)
				if sx {
					sy, err := cbs.ReadFlag(t, r, "subsampling_y", nil)
					if err != nil {
						return cc, err
					}
					cc.SubsamplingY = b2u(sy)
				}
			} else {
				cc.SubsamplingX, cc.SubsamplingY = 1, 0
			}
		}
		if cc.SubsamplingX == 1 && cc.SubsamplingY == 1 {
			v, err := cbs.ReadUnsigned(t, r, 2, "chroma_sample_position", nil, 0, 3)
			if err != nil {
				return cc, err
			}
			cc.ChromaSamplePosition = v
		}
	}

	sep, err := cbs.ReadFlag(t, r, "separate_uv_delta_q", nil)
	if err != nil {
		return cc, err
	}
	cc.SeparateUVDeltaQ = sep
	return cc, nil
}

func writeColorConfig(t *cbs.Trace, w *bits.Writer, seqProfile uint64, cc ColorConfig) error {
	t.Header("color_config")

	var highBitdepth, twelve bool
	switch {
	case seqProfile == 2:
		highBitdepth = cc.BitDepth >= 10
		twelve = cc.BitDepth == 12
	default:
		highBitdepth = cc.BitDepth == 10
	}
	if err := cbs.WriteFlag(t, w, "high_bitdepth", nil, highBitdepth); err != nil {
		return err
	}
	if seqProfile == 2 && highBitdepth {
		if err := cbs.WriteFlag(t, w, "twelve_bit", nil, twelve); err != nil {
			return err
		}
	}

	if seqProfile != 1 {
		if err := cbs.WriteFlag(t, w, "mono_chrome", nil, cc.MonoChrome); err != nil {
			return err
		}
	}

	descPresent := cc.ColorPrimaries != 2 || cc.TransferCharacteristics != 2 || cc.MatrixCoefficients != 2
	if err := cbs.WriteFlag(t, w, "color_description_present_flag", nil, descPresent); err != nil {
		return err
	}
	if descPresent {
		if err := cbs.WriteUnsigned(t, w, 8, "color_primaries", nil, cc.ColorPrimaries, 0, 255); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 8, "transfer_characteristics", nil, cc.TransferCharacteristics, 0, 255); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 8, "matrix_coefficients", nil, cc.MatrixCoefficients, 0, 255); err != nil {
			return err
		}
	}

	if cc.MonoChrome {
		return cbs.WriteFlag(t, w, "color_range", nil, cc.ColorRange)
	}

	srgb := cc.ColorPrimaries == 1 && cc.TransferCharacteristics == 13 && cc.MatrixCoefficients == 0
	if !srgb {
		if err := cbs.WriteFlag(t, w, "color_range", nil, cc.ColorRange); err != nil {
			return err
		}
		if seqProfile >= 2 && cc.BitDepth == 12 {
			if err := cbs.WriteFlag(t, w, "subsampling_x", nil, cc.SubsamplingX == 1); err != nil {
				return err
			}
			if cc.SubsamplingX == 1 {
				if err := cbs.WriteFlag(t, w, "subsampling_y", nil, cc.SubsamplingY == 1); err != nil {
					return err
				}
			}
		}
		if cc.SubsamplingX == 1 && cc.SubsamplingY == 1 {
			if err := cbs.WriteUnsigned(t, w, 2, "chroma_sample_position", nil, cc.ChromaSamplePosition, 0, 3); err != nil {
				return err
			}
		}
	}

	return cbs.WriteFlag(t, w, "separate_uv_delta_q", nil, cc.SeparateUVDeltaQ)
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// readSequenceHeader parses sequence_header_obu().
func readSequenceHeader(t *cbs.Trace, r *bits.Reader) (*SequenceHeader, error) {
	s := &SequenceHeader{}
	t.Header("Sequence Header")

	v, err := cbs.ReadUnsigned(t, r, 3, "seq_profile", nil, 0, 7)
	if err != nil {
		return nil, err
	}
	s.SeqProfile = v

	still, err := cbs.ReadFlag(t, r, "still_picture", nil)
	if err != nil {
		return nil, err
	}
	s.StillPicture = still

	reduced, err := cbs.ReadFlag(t, r, "reduced_still_picture_header", nil)
	if err != nil {
		return nil, err
	}
	s.ReducedStillPictureHeader = reduced

	if reduced {
		op := OperatingPoint{}
		v, err := cbs.ReadUnsigned(t, r, 5, "seq_level_idx[0]", nil, 0, 31)
		if err != nil {
			return nil, err
		}
		op.SeqLevelIdx = v
		s.OperatingPoints = []OperatingPoint{op}
		s.SeqForceScreenContentTools = selectScreenContentTools
		s.SeqForceIntegerMV = selectIntegerMV
	} else {
		timingPresent, err := cbs.ReadFlag(t, r, "timing_info_present_flag", nil)
		if err != nil {
			return nil, err
		}
		s.TimingInfoPresent = timingPresent
		if timingPresent {
			ti, err := readTimingInfo(t, r)
			if err != nil {
				return nil, err
			}
			s.Timing = ti
			dmPresent, err := cbs.ReadFlag(t, r, "decoder_model_info_present_flag", nil)
			if err != nil {
				return nil, err
			}
			s.DecoderModelInfoPresent = dmPresent
			if dmPresent {
				dm, err := readDecoderModelInfo(t, r)
				if err != nil {
					return nil, err
				}
				s.DecoderModel = dm
			}
		}

		idPresent, err := cbs.ReadFlag(t, r, "initial_display_delay_present_flag", nil)
		if err != nil {
			return nil, err
		}
		s.InitialDisplayDelayPresent = idPresent

		cntMinus1, err := cbs.ReadUnsigned(t, r, 5, "operating_points_cnt_minus_1", nil, 0, 31)
		if err != nil {
			return nil, err
		}
		ops := make([]OperatingPoint, cntMinus1+1)
		for i := range ops {
			op := &ops[i]
			v, err := cbs.ReadUnsigned(t, r, 12, "operating_point_idc", []int{i}, 0, 0xfff)
			if err != nil {
				return nil, err
			}
			op.IDC = v
			v, err = cbs.ReadUnsigned(t, r, 5, "seq_level_idx", []int{i}, 0, 31)
			if err != nil {
				return nil, err
			}
			op.SeqLevelIdx = v
			if v > 7 {
				tier, err := cbs.ReadFlag(t, r, "seq_tier", []int{i})
				if err != nil {
					return nil, err
				}
				op.SeqTier = b2u(tier)
			}
			if s.DecoderModelInfoPresent {
				present, err := cbs.ReadFlag(t, r, "decoder_model_present_for_this_op", []int{i})
				if err != nil {
					return nil, err
				}
				op.DecoderModelPresent = present
				if present {
					n := int(s.DecoderModel.BufferDelayLengthMinus1) + 1
					v, err := cbs.ReadUnsigned(t, r, n, "decoder_buffer_delay", []int{i}, 0, (uint64(1)<<uint(n))-1)
					if err != nil {
						return nil, err
					}
					op.DecoderBufferDelay = v
					v, err = cbs.ReadUnsigned(t, r, n, "encoder_buffer_delay", []int{i}, 0, (uint64(1)<<uint(n))-1)
					if err != nil {
						return nil, err
					}
					op.EncoderBufferDelay = v
					ldm, err := cbs.ReadFlag(t, r, "low_delay_mode_flag", []int{i})
					if err != nil {
						return nil, err
					}
					op.LowDelayModeFlag = ldm
				}
			}
			if idPresent {
				present, err := cbs.ReadFlag(t, r, "initial_display_delay_present_for_this_op", []int{i})
				if err != nil {
					return nil, err
				}
				op.InitialDisplayDelayPresent = present
				if present {
					v, err := cbs.ReadUnsigned(t, r, 4, "initial_display_delay_minus_1", []int{i}, 0, 15)
					if err != nil {
						return nil, err
					}
					op.InitialDisplayDelayMinus1 = v
				}
			}
		}
		s.OperatingPoints = ops
	}

	v, err = cbs.ReadUnsigned(t, r, 4, "frame_width_bits_minus_1", nil, 0, 15)
	if err != nil {
		return nil, err
	}
	s.FrameWidthBitsMinus1 = v
	v, err = cbs.ReadUnsigned(t, r, 4, "frame_height_bits_minus_1", nil, 0, 15)
	if err != nil {
		return nil, err
	}
	s.FrameHeightBitsMinus1 = v

	v, err = cbs.ReadUnsigned(t, r, int(s.FrameWidthBitsMinus1)+1, "max_frame_width_minus_1", nil, 0, 0xffffffff)
	if err != nil {
		return nil, err
	}
	s.MaxFrameWidthMinus1 = v
	v, err = cbs.ReadUnsigned(t, r, int(s.FrameHeightBitsMinus1)+1, "max_frame_height_minus_1", nil, 0, 0xffffffff)
	if err != nil {
		return nil, err
	}
	s.MaxFrameHeightMinus1 = v

	if !reduced {
		fip, err := cbs.ReadFlag(t, r, "frame_id_numbers_present_flag", nil)
		if err != nil {
			return nil, err
		}
		s.FrameIDNumbersPresent = fip
		if fip {
			v, err := cbs.ReadUnsigned(t, r, 4, "delta_frame_id_length_minus_2", nil, 0, 15)
			if err != nil {
				return nil, err
			}
			s.DeltaFrameIDLengthMinus2 = v
			v, err = cbs.ReadUnsigned(t, r, 3, "additional_frame_id_length_minus_1", nil, 0, 7)
			if err != nil {
				return nil, err
			}
			s.AdditionalFrameIDLengthMinus1 = v
		}
	}

	sb, err := cbs.ReadFlag(t, r, "use_128x128_superblock", nil)
	if err != nil {
		return nil, err
	}
	s.Use128x128Superblock = sb
	fi, err := cbs.ReadFlag(t, r, "enable_filter_intra", nil)
	if err != nil {
		return nil, err
	}
	s.EnableFilterIntra = fi
	ief, err := cbs.ReadFlag(t, r, "enable_intra_edge_filter", nil)
	if err != nil {
		return nil, err
	}
	s.EnableIntraEdgeFilter = ief

	if reduced {
		s.SeqForceScreenContentTools = selectScreenContentTools
		s.SeqForceIntegerMV = selectIntegerMV
	} else {
		ic, err := cbs.ReadFlag(t, r, "enable_interintra_compound", nil)
		if err != nil {
			return nil, err
		}
		s.EnableInterintraCompound = ic
		mc, err := cbs.ReadFlag(t, r, "enable_masked_compound", nil)
		if err != nil {
			return nil, err
		}
		s.EnableMaskedCompound = mc
		wm, err := cbs.ReadFlag(t, r, "enable_warped_motion", nil)
		if err != nil {
			return nil, err
		}
		s.EnableWarpedMotion = wm
		df, err := cbs.ReadFlag(t, r, "enable_dual_filter", nil)
		if err != nil {
			return nil, err
		}
		s.EnableDualFilter = df
		oh, err := cbs.ReadFlag(t, r, "enable_order_hint", nil)
		if err != nil {
			return nil, err
		}
		s.EnableOrderHint = oh
		if oh {
			jc, err := cbs.ReadFlag(t, r, "enable_jnt_comp", nil)
			if err != nil {
				return nil, err
			}
			s.EnableJntComp = jc
			rm, err := cbs.ReadFlag(t, r, "enable_ref_frame_mvs", nil)
			if err != nil {
				return nil, err
			}
			s.EnableRefFrameMVs = rm
		}

		choose, err := cbs.ReadFlag(t, r, "seq_choose_screen_content_tools", nil)
		if err != nil {
			return nil, err
		}
		if choose {
			s.SeqForceScreenContentTools = selectScreenContentTools
		} else {
			v, err := cbs.ReadUnsigned(t, r, 1, "seq_force_screen_content_tools", nil, 0, 1)
			if err != nil {
				return nil, err
			}
			s.SeqForceScreenContentTools = v
		}
		if s.SeqForceScreenContentTools > 0 {
			chooseMV, err := cbs.ReadFlag(t, r, "seq_choose_integer_mv", nil)
			if err != nil {
				return nil, err
			}
			if chooseMV {
				s.SeqForceIntegerMV = selectIntegerMV
			} else {
				v, err := cbs.ReadUnsigned(t, r, 1, "seq_force_integer_mv", nil, 0, 1)
				if err != nil {
					return nil, err
				}
				s.SeqForceIntegerMV = v
			}
		} else {
			s.SeqForceIntegerMV = selectIntegerMV
		}
		if oh {
			v, err := cbs.ReadUnsigned(t, r, 3, "order_hint_bits_minus_1", nil, 0, 7)
			if err != nil {
				return nil, err
			}
			s.OrderHintBits = int(v) + 1
		}
	}

	sr, err := cbs.ReadFlag(t, r, "enable_superres", nil)
	if err != nil {
		return nil, err
	}
	s.EnableSuperres = sr
	cdef, err := cbs.ReadFlag(t, r, "enable_cdef", nil)
	if err != nil {
		return nil, err
	}
	s.EnableCDEF = cdef
	restoration, err := cbs.ReadFlag(t, r, "enable_restoration", nil)
	if err != nil {
		return nil, err
	}
	s.EnableRestoration = restoration

	cc, err := readColorConfig(t, r, s.SeqProfile)
	if err != nil {
		return nil, err
	}
	s.Color = cc

	fg, err := cbs.ReadFlag(t, r, "film_grain_params_present", nil)
	if err != nil {
		return nil, err
	}
	s.FilmGrainParamsPresent = fg

	return s, nil
}

// writeSequenceHeader serialises s with writeSequenceHeader(sequence_header_obu()).
func writeSequenceHeader(t *cbs.Trace, w *bits.Writer, s *SequenceHeader) error {
	t.Header("Sequence Header")

	if err := cbs.WriteUnsigned(t, w, 3, "seq_profile", nil, s.SeqProfile, 0, 7); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "still_picture", nil, s.StillPicture); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "reduced_still_picture_header", nil, s.ReducedStillPictureHeader); err != nil {
		return err
	}

	if s.ReducedStillPictureHeader {
		if err := cbs.WriteUnsigned(t, w, 5, "seq_level_idx[0]", nil, s.OperatingPoints[0].SeqLevelIdx, 0, 31); err != nil {
			return err
		}
	} else {
		if err := cbs.WriteFlag(t, w, "timing_info_present_flag", nil, s.TimingInfoPresent); err != nil {
			return err
		}
		if s.TimingInfoPresent {
			if err := writeTimingInfo(t, w, s.Timing); err != nil {
				return err
			}
			if err := cbs.WriteFlag(t, w, "decoder_model_info_present_flag", nil, s.DecoderModelInfoPresent); err != nil {
				return err
			}
			if s.DecoderModelInfoPresent {
				if err := writeDecoderModelInfo(t, w, s.DecoderModel); err != nil {
					return err
				}
			}
		}
		if err := cbs.WriteFlag(t, w, "initial_display_delay_present_flag", nil, s.InitialDisplayDelayPresent); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 5, "operating_points_cnt_minus_1", nil, uint64(len(s.OperatingPoints)-1), 0, 31); err != nil {
			return err
		}
		for i := range s.OperatingPoints {
			op := &s.OperatingPoints[i]
			if err := cbs.WriteUnsigned(t, w, 12, "operating_point_idc", []int{i}, op.IDC, 0, 0xfff); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 5, "seq_level_idx", []int{i}, op.SeqLevelIdx, 0, 31); err != nil {
				return err
			}
			if op.SeqLevelIdx > 7 {
				if err := cbs.WriteFlag(t, w, "seq_tier", []int{i}, op.SeqTier == 1); err != nil {
					return err
				}
			}
			if s.DecoderModelInfoPresent {
				if err := cbs.WriteFlag(t, w, "decoder_model_present_for_this_op", []int{i}, op.DecoderModelPresent); err != nil {
					return err
				}
				if op.DecoderModelPresent {
					n := int(s.DecoderModel.BufferDelayLengthMinus1) + 1
					if err := cbs.WriteUnsigned(t, w, n, "decoder_buffer_delay", []int{i}, op.DecoderBufferDelay, 0, (uint64(1)<<uint(n))-1); err != nil {
						return err
					}
					if err := cbs.WriteUnsigned(t, w, n, "encoder_buffer_delay", []int{i}, op.EncoderBufferDelay, 0, (uint64(1)<<uint(n))-1); err != nil {
						return err
					}
					if err := cbs.WriteFlag(t, w, "low_delay_mode_flag", []int{i}, op.LowDelayModeFlag); err != nil {
						return err
					}
				}
			}
			if s.InitialDisplayDelayPresent {
				if err := cbs.WriteFlag(t, w, "initial_display_delay_present_for_this_op", []int{i}, op.InitialDisplayDelayPresent); err != nil {
					return err
				}
				if op.InitialDisplayDelayPresent {
					if err := cbs.WriteUnsigned(t, w, 4, "initial_display_delay_minus_1", []int{i}, op.InitialDisplayDelayMinus1, 0, 15); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := cbs.WriteUnsigned(t, w, 4, "frame_width_bits_minus_1", nil, s.FrameWidthBitsMinus1, 0, 15); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 4, "frame_height_bits_minus_1", nil, s.FrameHeightBitsMinus1, 0, 15); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, int(s.FrameWidthBitsMinus1)+1, "max_frame_width_minus_1", nil, s.MaxFrameWidthMinus1, 0, 0xffffffff); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, int(s.FrameHeightBitsMinus1)+1, "max_frame_height_minus_1", nil, s.MaxFrameHeightMinus1, 0, 0xffffffff); err != nil {
		return err
	}

	if !s.ReducedStillPictureHeader {
		if err := cbs.WriteFlag(t, w, "frame_id_numbers_present_flag", nil, s.FrameIDNumbersPresent); err != nil {
			return err
		}
		if s.FrameIDNumbersPresent {
			if err := cbs.WriteUnsigned(t, w, 4, "delta_frame_id_length_minus_2", nil, s.DeltaFrameIDLengthMinus2, 0, 15); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 3, "additional_frame_id_length_minus_1", nil, s.AdditionalFrameIDLengthMinus1, 0, 7); err != nil {
				return err
			}
		}
	}

	if err := cbs.WriteFlag(t, w, "use_128x128_superblock", nil, s.Use128x128Superblock); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "enable_filter_intra", nil, s.EnableFilterIntra); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "enable_intra_edge_filter", nil, s.EnableIntraEdgeFilter); err != nil {
		return err
	}

	if !s.ReducedStillPictureHeader {
		if err := cbs.WriteFlag(t, w, "enable_interintra_compound", nil, s.EnableInterintraCompound); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "enable_masked_compound", nil, s.EnableMaskedCompound); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "enable_warped_motion", nil, s.EnableWarpedMotion); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "enable_dual_filter", nil, s.EnableDualFilter); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "enable_order_hint", nil, s.EnableOrderHint); err != nil {
			return err
		}
		if s.EnableOrderHint {
			if err := cbs.WriteFlag(t, w, "enable_jnt_comp", nil, s.EnableJntComp); err != nil {
				return err
			}
			if err := cbs.WriteFlag(t, w, "enable_ref_frame_mvs", nil, s.EnableRefFrameMVs); err != nil {
				return err
			}
		}

		choose := s.SeqForceScreenContentTools == selectScreenContentTools
		if err := cbs.WriteFlag(t, w, "seq_choose_screen_content_tools", nil, choose); err != nil {
			return err
		}
		if !choose {
			if err := cbs.WriteUnsigned(t, w, 1, "seq_force_screen_content_tools", nil, s.SeqForceScreenContentTools, 0, 1); err != nil {
				return err
			}
		}
		if s.SeqForceScreenContentTools > 0 {
			chooseMV := s.SeqForceIntegerMV == selectIntegerMV
			if err := cbs.WriteFlag(t, w, "seq_choose_integer_mv", nil, chooseMV); err != nil {
				return err
			}
			if !chooseMV {
				if err := cbs.WriteUnsigned(t, w, 1, "seq_force_integer_mv", nil, s.SeqForceIntegerMV, 0, 1); err != nil {
					return err
				}
			}
		}
		if s.EnableOrderHint {
			if err := cbs.WriteUnsigned(t, w, 3, "order_hint_bits_minus_1", nil, uint64(s.OrderHintBits-1), 0, 7); err != nil {
				return err
			}
		}
	}

	if err := cbs.WriteFlag(t, w, "enable_superres", nil, s.EnableSuperres); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "enable_cdef", nil, s.EnableCDEF); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "enable_restoration", nil, s.EnableRestoration); err != nil {
		return err
	}

	if err := writeColorConfig(t, w, s.SeqProfile, s.Color); err != nil {
		return err
	}

	return cbs.WriteFlag(t, w, "film_grain_params_present", nil, s.FilmGrainParamsPresent)
}

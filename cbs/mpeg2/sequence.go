/*
NAME
  sequence.go

DESCRIPTION
  sequence.go implements sequence_header(), sequence_extension() and
  sequence_display_extension() (the latter two arrive wrapped in an
  extension_data() unit but are decomposed here since their fields
  feed back into the private state that later units need), plus
  group_of_pictures_header().

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// SequenceHeader is the decomposed content of a startSequenceHeader unit.
type SequenceHeader struct {
	HorizontalSizeValue uint64
	VerticalSizeValue   uint64

	AspectRatioInformation uint64
	FrameRateCode          uint64
	BitRateValue           uint64
	VBVBufferSizeValue     uint64

	ConstrainedParametersFlag bool

	LoadIntraQuantiserMatrix bool
	IntraQuantiserMatrix     [64]uint8

	LoadNonIntraQuantiserMatrix bool
	NonIntraQuantiserMatrix     [64]uint8
}

func (s *SequenceHeader) Kind() cbs.ContentKind { return cbs.ContentPlain }
func (s *SequenceHeader) Clone() cbs.Content    { c := *s; return &c }
func (s *SequenceHeader) BufferRef() *cbs.Buffer { return nil }

func readQuantMatrix(t *cbs.Trace, r *bits.Reader, name string, m *[64]uint8) error {
	for i := range m {
		v, err := cbs.ReadUnsigned(t, r, 8, name, []int{i}, 1, 255)
		if err != nil {
			return err
		}
		m[i] = uint8(v)
	}
	return nil
}

func writeQuantMatrix(t *cbs.Trace, w *bits.Writer, name string, m [64]uint8) error {
	for i, v := range m {
		if err := cbs.WriteUnsigned(t, w, 8, name, []int{i}, uint64(v), 1, 255); err != nil {
			return err
		}
	}
	return nil
}

func readSequenceHeader(t *cbs.Trace, r *bits.Reader, priv *privateState) (*SequenceHeader, error) {
	t.Header("Sequence Header")
	s := &SequenceHeader{}

	if _, err := readUI(t, r, 8, "sequence_header_code", nil); err != nil {
		return nil, err
	}

	v, err := readUIR(t, r, 12, "horizontal_size_value", nil)
	if err != nil {
		return nil, err
	}
	s.HorizontalSizeValue = v
	v, err = readUIR(t, r, 12, "vertical_size_value", nil)
	if err != nil {
		return nil, err
	}
	s.VerticalSizeValue = v
	priv.horizontalSize = s.HorizontalSizeValue
	priv.verticalSize = s.VerticalSizeValue

	if s.AspectRatioInformation, err = readUIR(t, r, 4, "aspect_ratio_information", nil); err != nil {
		return nil, err
	}
	if s.FrameRateCode, err = readUIR(t, r, 4, "frame_rate_code", nil); err != nil {
		return nil, err
	}
	if s.BitRateValue, err = readUI(t, r, 18, "bit_rate_value", nil); err != nil {
		return nil, err
	}
	if err := readMarkerBit(t, r); err != nil {
		return nil, err
	}
	if s.VBVBufferSizeValue, err = readUI(t, r, 10, "vbv_buffer_size_value", nil); err != nil {
		return nil, err
	}
	flag, err := cbs.ReadFlag(t, r, "constrained_parameters_flag", nil)
	if err != nil {
		return nil, err
	}
	s.ConstrainedParametersFlag = flag

	if s.LoadIntraQuantiserMatrix, err = cbs.ReadFlag(t, r, "load_intra_quantiser_matrix", nil); err != nil {
		return nil, err
	}
	if s.LoadIntraQuantiserMatrix {
		if err := readQuantMatrix(t, r, "intra_quantiser_matrix", &s.IntraQuantiserMatrix); err != nil {
			return nil, err
		}
	}

	if s.LoadNonIntraQuantiserMatrix, err = cbs.ReadFlag(t, r, "load_non_intra_quantiser_matrix", nil); err != nil {
		return nil, err
	}
	if s.LoadNonIntraQuantiserMatrix {
		if err := readQuantMatrix(t, r, "non_intra_quantiser_matrix", &s.NonIntraQuantiserMatrix); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func writeSequenceHeader(t *cbs.Trace, w *bits.Writer, s *SequenceHeader, priv *privateState) error {
	t.Header("Sequence Header")

	if err := writeUI(t, w, 8, "sequence_header_code", nil, uint64(startSequenceHeader)); err != nil {
		return err
	}
	if err := writeUIR(t, w, 12, "horizontal_size_value", nil, s.HorizontalSizeValue); err != nil {
		return err
	}
	if err := writeUIR(t, w, 12, "vertical_size_value", nil, s.VerticalSizeValue); err != nil {
		return err
	}
	priv.horizontalSize = s.HorizontalSizeValue
	priv.verticalSize = s.VerticalSizeValue

	if err := writeUIR(t, w, 4, "aspect_ratio_information", nil, s.AspectRatioInformation); err != nil {
		return err
	}
	if err := writeUIR(t, w, 4, "frame_rate_code", nil, s.FrameRateCode); err != nil {
		return err
	}
	if err := writeUI(t, w, 18, "bit_rate_value", nil, s.BitRateValue); err != nil {
		return err
	}
	if err := writeMarkerBit(t, w); err != nil {
		return err
	}
	if err := writeUI(t, w, 10, "vbv_buffer_size_value", nil, s.VBVBufferSizeValue); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "constrained_parameters_flag", nil, s.ConstrainedParametersFlag); err != nil {
		return err
	}

	if err := cbs.WriteFlag(t, w, "load_intra_quantiser_matrix", nil, s.LoadIntraQuantiserMatrix); err != nil {
		return err
	}
	if s.LoadIntraQuantiserMatrix {
		if err := writeQuantMatrix(t, w, "intra_quantiser_matrix", s.IntraQuantiserMatrix); err != nil {
			return err
		}
	}
	if err := cbs.WriteFlag(t, w, "load_non_intra_quantiser_matrix", nil, s.LoadNonIntraQuantiserMatrix); err != nil {
		return err
	}
	if s.LoadNonIntraQuantiserMatrix {
		if err := writeQuantMatrix(t, w, "non_intra_quantiser_matrix", s.NonIntraQuantiserMatrix); err != nil {
			return err
		}
	}
	return nil
}

// SequenceExtension is the decomposed content of the sequence extension,
// carried inside an extension_data() unit.
type SequenceExtension struct {
	ProfileAndLevelIndication uint64
	ProgressiveSequence       bool
	ChromaFormat              uint64
	HorizontalSizeExtension   uint64
	VerticalSizeExtension     uint64
	BitRateExtension          uint64
	VBVBufferSizeExtension    uint64
	LowDelay                  bool
	FrameRateExtensionN       uint64
	FrameRateExtensionD       uint64
}

func readSequenceExtension(t *cbs.Trace, r *bits.Reader, priv *privateState) (*SequenceExtension, error) {
	t.Header("Sequence Extension")
	s := &SequenceExtension{}
	var err error

	if s.ProfileAndLevelIndication, err = readUI(t, r, 8, "profile_and_level_indication", nil); err != nil {
		return nil, err
	}
	if s.ProgressiveSequence, err = cbs.ReadFlag(t, r, "progressive_sequence", nil); err != nil {
		return nil, err
	}
	if s.ChromaFormat, err = readUI(t, r, 2, "chroma_format", nil); err != nil {
		return nil, err
	}
	if s.HorizontalSizeExtension, err = readUI(t, r, 2, "horizontal_size_extension", nil); err != nil {
		return nil, err
	}
	if s.VerticalSizeExtension, err = readUI(t, r, 2, "vertical_size_extension", nil); err != nil {
		return nil, err
	}

	priv.horizontalSize = (priv.horizontalSize & 0xfff) | s.HorizontalSizeExtension<<12
	priv.verticalSize = (priv.verticalSize & 0xfff) | s.VerticalSizeExtension<<12
	priv.progressiveSequence = s.ProgressiveSequence

	if s.BitRateExtension, err = readUI(t, r, 12, "bit_rate_extension", nil); err != nil {
		return nil, err
	}
	if err := readMarkerBit(t, r); err != nil {
		return nil, err
	}
	if s.VBVBufferSizeExtension, err = readUI(t, r, 8, "vbv_buffer_size_extension", nil); err != nil {
		return nil, err
	}
	if s.LowDelay, err = cbs.ReadFlag(t, r, "low_delay", nil); err != nil {
		return nil, err
	}
	if s.FrameRateExtensionN, err = readUI(t, r, 2, "frame_rate_extension_n", nil); err != nil {
		return nil, err
	}
	if s.FrameRateExtensionD, err = readUI(t, r, 5, "frame_rate_extension_d", nil); err != nil {
		return nil, err
	}
	return s, nil
}

func writeSequenceExtension(t *cbs.Trace, w *bits.Writer, s *SequenceExtension, priv *privateState) error {
	t.Header("Sequence Extension")

	if err := writeUI(t, w, 8, "profile_and_level_indication", nil, s.ProfileAndLevelIndication); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "progressive_sequence", nil, s.ProgressiveSequence); err != nil {
		return err
	}
	if err := writeUI(t, w, 2, "chroma_format", nil, s.ChromaFormat); err != nil {
		return err
	}
	if err := writeUI(t, w, 2, "horizontal_size_extension", nil, s.HorizontalSizeExtension); err != nil {
		return err
	}
	if err := writeUI(t, w, 2, "vertical_size_extension", nil, s.VerticalSizeExtension); err != nil {
		return err
	}

	priv.horizontalSize = (priv.horizontalSize & 0xfff) | s.HorizontalSizeExtension<<12
	priv.verticalSize = (priv.verticalSize & 0xfff) | s.VerticalSizeExtension<<12
	priv.progressiveSequence = s.ProgressiveSequence

	if err := writeUI(t, w, 12, "bit_rate_extension", nil, s.BitRateExtension); err != nil {
		return err
	}
	if err := writeMarkerBit(t, w); err != nil {
		return err
	}
	if err := writeUI(t, w, 8, "vbv_buffer_size_extension", nil, s.VBVBufferSizeExtension); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "low_delay", nil, s.LowDelay); err != nil {
		return err
	}
	if err := writeUI(t, w, 2, "frame_rate_extension_n", nil, s.FrameRateExtensionN); err != nil {
		return err
	}
	if err := writeUI(t, w, 5, "frame_rate_extension_d", nil, s.FrameRateExtensionD); err != nil {
		return err
	}
	return nil
}

// SequenceDisplayExtension is the decomposed content of the sequence
// display extension.
type SequenceDisplayExtension struct {
	VideoFormat             uint64
	ColourDescription       bool
	ColourPrimaries         uint64
	TransferCharacteristics uint64
	MatrixCoefficients      uint64
	DisplayHorizontalSize   uint64
	DisplayVerticalSize     uint64
}

func readSequenceDisplayExtension(t *cbs.Trace, r *bits.Reader) (*SequenceDisplayExtension, error) {
	t.Header("Sequence Display Extension")
	s := &SequenceDisplayExtension{}
	var err error

	if s.VideoFormat, err = readUI(t, r, 3, "video_format", nil); err != nil {
		return nil, err
	}
	if s.ColourDescription, err = cbs.ReadFlag(t, r, "colour_description", nil); err != nil {
		return nil, err
	}
	if s.ColourDescription {
		// A conforming encoder never emits zero here (the value is
		// reserved), but broken streams do; patch to 2 ("unspecified")
		// rather than failing decode entirely.
		for _, f := range []struct {
			name string
			dst  *uint64
		}{
			{"colour_primaries", &s.ColourPrimaries},
			{"transfer_characteristics", &s.TransferCharacteristics},
			{"matrix_coefficients", &s.MatrixCoefficients},
		} {
			v, err := readUI(t, r, 8, f.name, nil)
			if err != nil {
				return nil, err
			}
			if v == 0 {
				v = 2
			}
			*f.dst = v
		}
	} else {
		s.ColourPrimaries = 2
		s.TransferCharacteristics = 2
		s.MatrixCoefficients = 2
	}

	if s.DisplayHorizontalSize, err = readUI(t, r, 14, "display_horizontal_size", nil); err != nil {
		return nil, err
	}
	if err := readMarkerBit(t, r); err != nil {
		return nil, err
	}
	if s.DisplayVerticalSize, err = readUI(t, r, 14, "display_vertical_size", nil); err != nil {
		return nil, err
	}
	return s, nil
}

func writeSequenceDisplayExtension(t *cbs.Trace, w *bits.Writer, s *SequenceDisplayExtension) error {
	t.Header("Sequence Display Extension")

	if err := writeUI(t, w, 3, "video_format", nil, s.VideoFormat); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "colour_description", nil, s.ColourDescription); err != nil {
		return err
	}
	if s.ColourDescription {
		if err := writeUIR(t, w, 8, "colour_primaries", nil, s.ColourPrimaries); err != nil {
			return err
		}
		if err := writeUIR(t, w, 8, "transfer_characteristics", nil, s.TransferCharacteristics); err != nil {
			return err
		}
		if err := writeUIR(t, w, 8, "matrix_coefficients", nil, s.MatrixCoefficients); err != nil {
			return err
		}
	}
	if err := writeUI(t, w, 14, "display_horizontal_size", nil, s.DisplayHorizontalSize); err != nil {
		return err
	}
	if err := writeMarkerBit(t, w); err != nil {
		return err
	}
	if err := writeUI(t, w, 14, "display_vertical_size", nil, s.DisplayVerticalSize); err != nil {
		return err
	}
	return nil
}

// GroupOfPicturesHeader is the decomposed content of a startGroup unit.
type GroupOfPicturesHeader struct {
	TimeCode   uint64
	ClosedGOP  bool
	BrokenLink bool
}

func (g *GroupOfPicturesHeader) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (g *GroupOfPicturesHeader) Clone() cbs.Content     { c := *g; return &c }
func (g *GroupOfPicturesHeader) BufferRef() *cbs.Buffer { return nil }

func readGroupOfPicturesHeader(t *cbs.Trace, r *bits.Reader) (*GroupOfPicturesHeader, error) {
	t.Header("Group of Pictures Header")
	g := &GroupOfPicturesHeader{}

	if _, err := readUI(t, r, 8, "group_start_code", nil); err != nil {
		return nil, err
	}
	v, err := readUI(t, r, 25, "time_code", nil)
	if err != nil {
		return nil, err
	}
	g.TimeCode = v
	if g.ClosedGOP, err = cbs.ReadFlag(t, r, "closed_gop", nil); err != nil {
		return nil, err
	}
	if g.BrokenLink, err = cbs.ReadFlag(t, r, "broken_link", nil); err != nil {
		return nil, err
	}
	return g, nil
}

func writeGroupOfPicturesHeader(t *cbs.Trace, w *bits.Writer, g *GroupOfPicturesHeader) error {
	t.Header("Group of Pictures Header")

	if err := writeUI(t, w, 8, "group_start_code", nil, uint64(startGroup)); err != nil {
		return err
	}
	if err := writeUI(t, w, 25, "time_code", nil, g.TimeCode); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "closed_gop", nil, g.ClosedGOP); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "broken_link", nil, g.BrokenLink); err != nil {
		return err
	}
	return nil
}

/*
NAME
  picture.go

DESCRIPTION
  picture.go implements picture_header() and the extra_information()
  element it (and slice_header()) embeds: a marker-delimited run of
  bytes of unspecified meaning that a conforming decoder must skip but
  a conforming encoder need not emit.

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

const (
	codingTypeI = 1
	codingTypeP = 2
	codingTypeB = 3
	codingTypeD = 4
)

// readExtraInformation reads a marker-delimited byte run: a '1' bit
// before each byte, terminated by a '0' bit.
func readExtraInformation(t *cbs.Trace, r *bits.Reader, elementName, markerName string) ([]byte, error) {
	var data []byte
	for {
		more, err := cbs.ReadUnsigned(t, r, 1, markerName, nil, 0, 1)
		if err != nil {
			return nil, err
		}
		if more == 0 {
			break
		}
		v, err := cbs.ReadUnsigned(t, r, 8, elementName, []int{len(data)}, 0, 255)
		if err != nil {
			return nil, err
		}
		data = append(data, byte(v))
	}
	return data, nil
}

func writeExtraInformation(t *cbs.Trace, w *bits.Writer, data []byte, elementName, markerName string) error {
	for i, v := range data {
		if err := writeBit(t, w, markerName, 1); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 8, elementName, []int{i}, uint64(v), 0, 255); err != nil {
			return err
		}
	}
	return writeBit(t, w, markerName, 0)
}

// PictureHeader is the decomposed content of a startPicture unit.
type PictureHeader struct {
	TemporalReference uint64
	PictureCodingType uint64
	VBVDelay          uint64

	FullPelForwardVector bool
	ForwardFCode         uint64

	FullPelBackwardVector bool
	BackwardFCode         uint64

	ExtraInformation []byte
}

func (p *PictureHeader) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (p *PictureHeader) Clone() cbs.Content     { c := *p; c.ExtraInformation = append([]byte(nil), p.ExtraInformation...); return &c }
func (p *PictureHeader) BufferRef() *cbs.Buffer { return nil }

func readPictureHeader(t *cbs.Trace, r *bits.Reader) (*PictureHeader, error) {
	t.Header("Picture Header")
	p := &PictureHeader{}
	var err error

	if _, err = readUI(t, r, 8, "picture_start_code", nil); err != nil {
		return nil, err
	}
	if p.TemporalReference, err = readUI(t, r, 10, "temporal_reference", nil); err != nil {
		return nil, err
	}
	if p.PictureCodingType, err = readUIR(t, r, 3, "picture_coding_type", nil); err != nil {
		return nil, err
	}
	if p.VBVDelay, err = readUI(t, r, 16, "vbv_delay", nil); err != nil {
		return nil, err
	}

	if p.PictureCodingType == codingTypeP || p.PictureCodingType == codingTypeB {
		if p.FullPelForwardVector, err = cbs.ReadFlag(t, r, "full_pel_forward_vector", nil); err != nil {
			return nil, err
		}
		if p.ForwardFCode, err = readUI(t, r, 3, "forward_f_code", nil); err != nil {
			return nil, err
		}
	}
	if p.PictureCodingType == codingTypeB {
		if p.FullPelBackwardVector, err = cbs.ReadFlag(t, r, "full_pel_backward_vector", nil); err != nil {
			return nil, err
		}
		if p.BackwardFCode, err = readUI(t, r, 3, "backward_f_code", nil); err != nil {
			return nil, err
		}
	}

	p.ExtraInformation, err = readExtraInformation(t, r, "extra_information_picture[k]", "extra_bit_picture")
	if err != nil {
		return nil, err
	}
	return p, nil
}

func writePictureHeader(t *cbs.Trace, w *bits.Writer, p *PictureHeader) error {
	t.Header("Picture Header")

	if err := writeUI(t, w, 8, "picture_start_code", nil, uint64(startPicture)); err != nil {
		return err
	}
	if err := writeUI(t, w, 10, "temporal_reference", nil, p.TemporalReference); err != nil {
		return err
	}
	if err := writeUIR(t, w, 3, "picture_coding_type", nil, p.PictureCodingType); err != nil {
		return err
	}
	if err := writeUI(t, w, 16, "vbv_delay", nil, p.VBVDelay); err != nil {
		return err
	}

	if p.PictureCodingType == codingTypeP || p.PictureCodingType == codingTypeB {
		if err := cbs.WriteFlag(t, w, "full_pel_forward_vector", nil, p.FullPelForwardVector); err != nil {
			return err
		}
		if err := writeUI(t, w, 3, "forward_f_code", nil, p.ForwardFCode); err != nil {
			return err
		}
	}
	if p.PictureCodingType == codingTypeB {
		if err := cbs.WriteFlag(t, w, "full_pel_backward_vector", nil, p.FullPelBackwardVector); err != nil {
			return err
		}
		if err := writeUI(t, w, 3, "backward_f_code", nil, p.BackwardFCode); err != nil {
			return err
		}
	}

	return writeExtraInformation(t, w, p.ExtraInformation, "extra_information_picture[k]", "extra_bit_picture")
}

// PictureCodingExtension is the decomposed content of the picture coding
// extension, carried inside an extension_data() unit.
type PictureCodingExtension struct {
	FCode [2][2]uint64 // [forward/backward][horizontal/vertical]

	IntraDCPrecision        uint64
	PictureStructure        uint64
	TopFieldFirst           bool
	FramePredFrameDCT       bool
	ConcealmentMotionVectors bool
	QScaleType              bool
	IntraVLCFormat          bool
	AlternateScan           bool
	RepeatFirstField        bool
	Chroma420Type           bool
	ProgressiveFrame        bool

	CompositeDisplayFlag bool
	VAxis                bool
	FieldSequence        uint64
	SubCarrier           bool
	BurstAmplitude       uint64
	SubCarrierPhase      uint64
}

// pictureStructureTop/Bottom/Frame are the picture_structure values.
const (
	pictureStructureTop    = 1
	pictureStructureBottom = 2
	pictureStructureFrame  = 3
)

func readPictureCodingExtension(t *cbs.Trace, r *bits.Reader, priv *privateState) (*PictureCodingExtension, error) {
	t.Header("Picture Coding Extension")
	p := &PictureCodingExtension{}
	var err error

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if p.FCode[i][j], err = readUIR(t, r, 4, "f_code", []int{i, j}); err != nil {
				return nil, err
			}
		}
	}

	if p.IntraDCPrecision, err = readUI(t, r, 2, "intra_dc_precision", nil); err != nil {
		return nil, err
	}
	if p.PictureStructure, err = readUI(t, r, 2, "picture_structure", nil); err != nil {
		return nil, err
	}
	if p.TopFieldFirst, err = cbs.ReadFlag(t, r, "top_field_first", nil); err != nil {
		return nil, err
	}
	if p.FramePredFrameDCT, err = cbs.ReadFlag(t, r, "frame_pred_frame_dct", nil); err != nil {
		return nil, err
	}
	if p.ConcealmentMotionVectors, err = cbs.ReadFlag(t, r, "concealment_motion_vectors", nil); err != nil {
		return nil, err
	}
	if p.QScaleType, err = cbs.ReadFlag(t, r, "q_scale_type", nil); err != nil {
		return nil, err
	}
	if p.IntraVLCFormat, err = cbs.ReadFlag(t, r, "intra_vlc_format", nil); err != nil {
		return nil, err
	}
	if p.AlternateScan, err = cbs.ReadFlag(t, r, "alternate_scan", nil); err != nil {
		return nil, err
	}
	if p.RepeatFirstField, err = cbs.ReadFlag(t, r, "repeat_first_field", nil); err != nil {
		return nil, err
	}
	if p.Chroma420Type, err = cbs.ReadFlag(t, r, "chroma_420_type", nil); err != nil {
		return nil, err
	}
	if p.ProgressiveFrame, err = cbs.ReadFlag(t, r, "progressive_frame", nil); err != nil {
		return nil, err
	}

	priv.numberOfFrameCentreOffsets = deriveFrameCentreOffsetCount(priv.progressiveSequence, p)

	if p.CompositeDisplayFlag, err = cbs.ReadFlag(t, r, "composite_display_flag", nil); err != nil {
		return nil, err
	}
	if p.CompositeDisplayFlag {
		if p.VAxis, err = cbs.ReadFlag(t, r, "v_axis", nil); err != nil {
			return nil, err
		}
		if p.FieldSequence, err = readUI(t, r, 3, "field_sequence", nil); err != nil {
			return nil, err
		}
		if p.SubCarrier, err = cbs.ReadFlag(t, r, "sub_carrier", nil); err != nil {
			return nil, err
		}
		if p.BurstAmplitude, err = readUI(t, r, 7, "burst_amplitude", nil); err != nil {
			return nil, err
		}
		if p.SubCarrierPhase, err = readUI(t, r, 8, "sub_carrier_phase", nil); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// deriveFrameCentreOffsetCount implements the number_of_frame_centre_offsets
// derivation from ISO/IEC 13818-2 section 6.3.12: how many offset pairs a
// following picture_display_extension() carries, depending on whether the
// sequence is progressive and how this picture repeats/interlaces fields.
func deriveFrameCentreOffsetCount(progressiveSequence bool, p *PictureCodingExtension) int {
	if progressiveSequence {
		if p.RepeatFirstField {
			if p.TopFieldFirst {
				return 3
			}
			return 2
		}
		return 1
	}
	if p.PictureStructure == pictureStructureTop || p.PictureStructure == pictureStructureBottom {
		return 1
	}
	if p.RepeatFirstField {
		return 3
	}
	return 2
}

func writePictureCodingExtension(t *cbs.Trace, w *bits.Writer, p *PictureCodingExtension, priv *privateState) error {
	t.Header("Picture Coding Extension")

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if err := writeUIR(t, w, 4, "f_code", []int{i, j}, p.FCode[i][j]); err != nil {
				return err
			}
		}
	}

	if err := writeUI(t, w, 2, "intra_dc_precision", nil, p.IntraDCPrecision); err != nil {
		return err
	}
	if err := writeUI(t, w, 2, "picture_structure", nil, p.PictureStructure); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "top_field_first", nil, p.TopFieldFirst); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "frame_pred_frame_dct", nil, p.FramePredFrameDCT); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "concealment_motion_vectors", nil, p.ConcealmentMotionVectors); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "q_scale_type", nil, p.QScaleType); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "intra_vlc_format", nil, p.IntraVLCFormat); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "alternate_scan", nil, p.AlternateScan); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "repeat_first_field", nil, p.RepeatFirstField); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "chroma_420_type", nil, p.Chroma420Type); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "progressive_frame", nil, p.ProgressiveFrame); err != nil {
		return err
	}

	priv.numberOfFrameCentreOffsets = deriveFrameCentreOffsetCount(priv.progressiveSequence, p)

	if err := cbs.WriteFlag(t, w, "composite_display_flag", nil, p.CompositeDisplayFlag); err != nil {
		return err
	}
	if p.CompositeDisplayFlag {
		if err := cbs.WriteFlag(t, w, "v_axis", nil, p.VAxis); err != nil {
			return err
		}
		if err := writeUI(t, w, 3, "field_sequence", nil, p.FieldSequence); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "sub_carrier", nil, p.SubCarrier); err != nil {
			return err
		}
		if err := writeUI(t, w, 7, "burst_amplitude", nil, p.BurstAmplitude); err != nil {
			return err
		}
		if err := writeUI(t, w, 8, "sub_carrier_phase", nil, p.SubCarrierPhase); err != nil {
			return err
		}
	}

	return nil
}

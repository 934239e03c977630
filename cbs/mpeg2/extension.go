/*
NAME
  extension.go

DESCRIPTION
  extension.go implements extension_data(): the generic wrapper unit
  that carries one of several extension payloads selected by a 4-bit
  extension_start_code_identifier, plus the two extension payloads not
  already covered by sequence.go/picture.go: quant_matrix_extension()
  and picture_display_extension().

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

// ExtensionData is the decomposed content of a startExtension unit.
// Exactly one of the pointer fields is non-nil, selected by Identifier.
type ExtensionData struct {
	Identifier uint64

	Sequence        *SequenceExtension
	SequenceDisplay *SequenceDisplayExtension
	QuantMatrix     *QuantMatrixExtension
	PictureDisplay  *PictureDisplayExtension
	PictureCoding   *PictureCodingExtension
}

func (e *ExtensionData) Kind() cbs.ContentKind { return cbs.ContentPlain }
func (e *ExtensionData) Clone() cbs.Content {
	c := *e
	if e.Sequence != nil {
		s := *e.Sequence
		c.Sequence = &s
	}
	if e.SequenceDisplay != nil {
		s := *e.SequenceDisplay
		c.SequenceDisplay = &s
	}
	if e.QuantMatrix != nil {
		s := *e.QuantMatrix
		c.QuantMatrix = &s
	}
	if e.PictureDisplay != nil {
		s := *e.PictureDisplay
		c.PictureDisplay = &s
	}
	if e.PictureCoding != nil {
		s := *e.PictureCoding
		c.PictureCoding = &s
	}
	return &c
}
func (e *ExtensionData) BufferRef() *cbs.Buffer { return nil }

func readExtensionData(t *cbs.Trace, r *bits.Reader, priv *privateState) (*ExtensionData, error) {
	t.Header("Extension Data")
	e := &ExtensionData{}

	if _, err := readUI(t, r, 8, "extension_start_code", nil); err != nil {
		return nil, err
	}
	id, err := readUI(t, r, 4, "extension_start_code_identifier", nil)
	if err != nil {
		return nil, err
	}
	e.Identifier = id

	switch id {
	case extensionSequence:
		e.Sequence, err = readSequenceExtension(t, r, priv)
	case extensionSequenceDisplay:
		e.SequenceDisplay, err = readSequenceDisplayExtension(t, r)
	case extensionQuantMatrix:
		e.QuantMatrix, err = readQuantMatrixExtension(t, r)
	case extensionPictureDisplay:
		e.PictureDisplay, err = readPictureDisplayExtension(t, r, priv)
	case extensionPictureCoding:
		e.PictureCoding, err = readPictureCodingExtension(t, r, priv)
	default:
		return nil, cbs.ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func writeExtensionData(t *cbs.Trace, w *bits.Writer, e *ExtensionData, priv *privateState) error {
	t.Header("Extension Data")

	if err := writeUI(t, w, 8, "extension_start_code", nil, uint64(startExtension)); err != nil {
		return err
	}
	if err := writeUI(t, w, 4, "extension_start_code_identifier", nil, e.Identifier); err != nil {
		return err
	}

	switch e.Identifier {
	case extensionSequence:
		return writeSequenceExtension(t, w, e.Sequence, priv)
	case extensionSequenceDisplay:
		return writeSequenceDisplayExtension(t, w, e.SequenceDisplay)
	case extensionQuantMatrix:
		return writeQuantMatrixExtension(t, w, e.QuantMatrix)
	case extensionPictureDisplay:
		return writePictureDisplayExtension(t, w, e.PictureDisplay, priv)
	case extensionPictureCoding:
		return writePictureCodingExtension(t, w, e.PictureCoding, priv)
	default:
		return cbs.ErrUnsupported
	}
}

// QuantMatrixExtension is the decomposed content of the quant matrix
// extension.
type QuantMatrixExtension struct {
	LoadIntraQuantiserMatrix bool
	IntraQuantiserMatrix     [64]uint8

	LoadNonIntraQuantiserMatrix bool
	NonIntraQuantiserMatrix     [64]uint8

	LoadChromaIntraQuantiserMatrix bool
	ChromaIntraQuantiserMatrix     [64]uint8

	LoadChromaNonIntraQuantiserMatrix bool
	ChromaNonIntraQuantiserMatrix     [64]uint8
}

func readQuantMatrixExtension(t *cbs.Trace, r *bits.Reader) (*QuantMatrixExtension, error) {
	t.Header("Quant Matrix Extension")
	q := &QuantMatrixExtension{}
	var err error

	for _, m := range []struct {
		flag *bool
		name string
		dst  *[64]uint8
	}{
		{&q.LoadIntraQuantiserMatrix, "intra_quantiser_matrix", &q.IntraQuantiserMatrix},
		{&q.LoadNonIntraQuantiserMatrix, "non_intra_quantiser_matrix", &q.NonIntraQuantiserMatrix},
		{&q.LoadChromaIntraQuantiserMatrix, "chroma_intra_quantiser_matrix", &q.ChromaIntraQuantiserMatrix},
		{&q.LoadChromaNonIntraQuantiserMatrix, "chroma_non_intra_quantiser_matrix", &q.ChromaNonIntraQuantiserMatrix},
	} {
		name := "load_" + m.name
		if *m.flag, err = cbs.ReadFlag(t, r, name, nil); err != nil {
			return nil, err
		}
		if *m.flag {
			if err := readQuantMatrix(t, r, m.name, m.dst); err != nil {
				return nil, err
			}
		}
	}
	return q, nil
}

func writeQuantMatrixExtension(t *cbs.Trace, w *bits.Writer, q *QuantMatrixExtension) error {
	t.Header("Quant Matrix Extension")

	for _, m := range []struct {
		flag bool
		name string
		data [64]uint8
	}{
		{q.LoadIntraQuantiserMatrix, "intra_quantiser_matrix", q.IntraQuantiserMatrix},
		{q.LoadNonIntraQuantiserMatrix, "non_intra_quantiser_matrix", q.NonIntraQuantiserMatrix},
		{q.LoadChromaIntraQuantiserMatrix, "chroma_intra_quantiser_matrix", q.ChromaIntraQuantiserMatrix},
		{q.LoadChromaNonIntraQuantiserMatrix, "chroma_non_intra_quantiser_matrix", q.ChromaNonIntraQuantiserMatrix},
	} {
		if err := cbs.WriteFlag(t, w, "load_"+m.name, nil, m.flag); err != nil {
			return err
		}
		if m.flag {
			if err := writeQuantMatrix(t, w, m.name, m.data); err != nil {
				return err
			}
		}
	}
	return nil
}

// PictureDisplayExtension is the decomposed content of the picture
// display extension: a variable-length run of frame-centre offset pairs
// whose count is derived from the picture coding extension that
// precedes it in the same picture (see deriveFrameCentreOffsetCount).
type PictureDisplayExtension struct {
	FrameCentreHorizontalOffset []int64
	FrameCentreVerticalOffset   []int64
}

func readPictureDisplayExtension(t *cbs.Trace, r *bits.Reader, priv *privateState) (*PictureDisplayExtension, error) {
	t.Header("Picture Display Extension")
	p := &PictureDisplayExtension{}

	n := priv.numberOfFrameCentreOffsets
	p.FrameCentreHorizontalOffset = make([]int64, n)
	p.FrameCentreVerticalOffset = make([]int64, n)
	for i := 0; i < n; i++ {
		h, err := readSI(t, r, 16, "frame_centre_horizontal_offset", []int{i})
		if err != nil {
			return nil, err
		}
		p.FrameCentreHorizontalOffset[i] = h
		if err := readMarkerBit(t, r); err != nil {
			return nil, err
		}
		v, err := readSI(t, r, 16, "frame_centre_vertical_offset", []int{i})
		if err != nil {
			return nil, err
		}
		p.FrameCentreVerticalOffset[i] = v
		if err := readMarkerBit(t, r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func writePictureDisplayExtension(t *cbs.Trace, w *bits.Writer, p *PictureDisplayExtension, priv *privateState) error {
	t.Header("Picture Display Extension")

	n := priv.numberOfFrameCentreOffsets
	for i := 0; i < n; i++ {
		if err := writeSI(t, w, 16, "frame_centre_horizontal_offset", []int{i}, p.FrameCentreHorizontalOffset[i]); err != nil {
			return err
		}
		if err := writeMarkerBit(t, w); err != nil {
			return err
		}
		if err := writeSI(t, w, 16, "frame_centre_vertical_offset", []int{i}, p.FrameCentreVerticalOffset[i]); err != nil {
			return err
		}
		if err := writeMarkerBit(t, w); err != nil {
			return err
		}
	}
	return nil
}

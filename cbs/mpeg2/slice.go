/*
NAME
  slice.go

DESCRIPTION
  slice.go implements slice_header() and the zero-copy capture of the
  slice data that follows it: unlike every other MPEG-2 unit, a slice's
  payload is not itself further decomposed into syntax elements (it is
  a run of variable-length-coded macroblock data this package has no
  need to interpret), and the header need not end on a byte boundary,
  so the captured range is tracked as (byte offset, bit offset within
  that first byte) exactly as the original's data_bit_start.

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

// SliceHeader is slice_header()'s decomposed fields.
type SliceHeader struct {
	VerticalPosition          uint64
	VerticalPositionExtension uint64
	PriorityBreakpoint        uint64
	QuantiserScaleCode        uint64

	SliceExtensionFlag   bool
	IntraSlice           bool
	SlicePictureIDEnable bool
	SlicePictureID       uint64

	ExtraInformation []byte
}

func readSliceHeader(t *cbs.Trace, r *bits.Reader, priv *privateState) (*SliceHeader, error) {
	t.Header("Slice Header")
	h := &SliceHeader{}
	var err error

	if h.VerticalPosition, err = readUI(t, r, 8, "slice_vertical_position", nil); err != nil {
		return nil, err
	}
	if priv.verticalSize > 2800 {
		if h.VerticalPositionExtension, err = readUI(t, r, 3, "slice_vertical_position_extension", nil); err != nil {
			return nil, err
		}
	}
	if priv.scalable && priv.scalableMode == 0 {
		if h.PriorityBreakpoint, err = readUI(t, r, 7, "priority_breakpoint", nil); err != nil {
			return nil, err
		}
	}
	if h.QuantiserScaleCode, err = readUIR(t, r, 5, "quantiser_scale_code", nil); err != nil {
		return nil, err
	}

	if peek, err := r.PeekBits(1); err == nil && peek == 1 {
		if h.SliceExtensionFlag, err = cbs.ReadFlag(t, r, "slice_extension_flag", nil); err != nil {
			return nil, err
		}
		if h.IntraSlice, err = cbs.ReadFlag(t, r, "intra_slice", nil); err != nil {
			return nil, err
		}
		if h.SlicePictureIDEnable, err = cbs.ReadFlag(t, r, "slice_picture_id_enable", nil); err != nil {
			return nil, err
		}
		if h.SlicePictureID, err = readUI(t, r, 6, "slice_picture_id", nil); err != nil {
			return nil, err
		}
	}

	h.ExtraInformation, err = readExtraInformation(t, r, "extra_information_slice[k]", "extra_bit_slice")
	if err != nil {
		return nil, err
	}
	return h, nil
}

func writeSliceHeader(t *cbs.Trace, w *bits.Writer, h *SliceHeader, priv *privateState) error {
	t.Header("Slice Header")

	if err := writeUI(t, w, 8, "slice_vertical_position", nil, h.VerticalPosition); err != nil {
		return err
	}
	if priv.verticalSize > 2800 {
		if err := writeUI(t, w, 3, "slice_vertical_position_extension", nil, h.VerticalPositionExtension); err != nil {
			return err
		}
	}
	if priv.scalable && priv.scalableMode == 0 {
		if err := writeUI(t, w, 7, "priority_breakpoint", nil, h.PriorityBreakpoint); err != nil {
			return err
		}
	}
	if err := writeUIR(t, w, 5, "quantiser_scale_code", nil, h.QuantiserScaleCode); err != nil {
		return err
	}

	if h.SliceExtensionFlag {
		if err := cbs.WriteFlag(t, w, "slice_extension_flag", nil, true); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "intra_slice", nil, h.IntraSlice); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "slice_picture_id_enable", nil, h.SlicePictureIDEnable); err != nil {
			return err
		}
		if err := writeUI(t, w, 6, "slice_picture_id", nil, h.SlicePictureID); err != nil {
			return err
		}
	}

	return writeExtraInformation(t, w, h.ExtraInformation, "extra_information_slice[k]", "extra_bit_slice")
}

// Slice is the decomposed content of a picture-slice unit: a header
// followed by an opaque, zero-copy view of its macroblock data.
type Slice struct {
	Header SliceHeader

	Data         []byte
	DataRef      *cbs.Buffer
	DataBitStart int // bits of Data[0] already consumed by the header.
}

func (s *Slice) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }
func (s *Slice) Clone() cbs.Content {
	c := *s
	c.Header.ExtraInformation = append([]byte(nil), s.Header.ExtraInformation...)
	c.DataRef = c.DataRef.Ref()
	return &c
}
func (s *Slice) BufferRef() *cbs.Buffer { return s.DataRef }

// readSliceData captures the zero-copy tail of r as the slice's
// macroblock payload: the byte containing the current bit position
// onward, along with how many of that first byte's bits the header
// already consumed.
func readSliceData(r *bits.Reader, owner *cbs.Buffer) ([]byte, *cbs.Buffer, int, error) {
	if r.BitsLeft() == 0 {
		return nil, nil, 0, cbs.ErrInvalidData
	}
	bitStart := r.Pos() % 8
	data := r.Bytes()[r.Pos()/8:]
	return data, owner.Ref(), bitStart, nil
}

// writeSliceData appends a slice's opaque payload to w, merging its
// partially-consumed first byte (the bits before DataBitStart belong to
// whatever preceded it and must not be rewritten) and zero-padding to a
// byte boundary afterwards.
func writeSliceData(w *bits.Writer, data []byte, dataBitStart int) error {
	if len(data) == 0 {
		return nil
	}
	first := data[0]
	if dataBitStart%8 != 0 {
		rem := 8 - dataBitStart%8
		mask := byte(1<<uint(rem) - 1)
		if err := w.WriteBits(rem, uint64(first&mask)); err != nil {
			return err
		}
		data = data[1:]
	}
	for _, b := range data {
		if err := w.WriteBits(8, uint64(b)); err != nil {
			return err
		}
	}
	w.AlignToByte()
	return nil
}

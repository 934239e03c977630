/*
NAME
  unit.go

DESCRIPTION
  unit.go wires this package into the Codec interface: detecting and
  splitting a superframe's constituent frames on read, decomposing one
  frame unit's uncompressed_header, and rebuilding a superframe index on
  assemble when a fragment holds more than one unit.

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
	"errors"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func init() {
	cbs.RegisterCodec(&codec{})
}

// frameUnitType is the only unit type this codec produces: one frame.
const frameUnitType cbs.UnitType = 0

type codec struct{}

func (codec) ID() cbs.CodecID { return cbs.CodecVP9 }

func (codec) NewPrivate() interface{} { return newPrivateState() }

// SplitFragment detects a trailing superframe index and, if present,
// splits frag.Data into one unit per indexed frame; otherwise the whole
// fragment becomes a single unit, matching a lone displayed frame with no
// container-level grouping.
func (codec) SplitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	if len(frag.Data) == 0 {
		return cbs.ErrInvalidData
	}

	buf := cbs.NewBuffer(frag.Data)

	idx, size, err := detectSuperframeIndex(frag.Data)
	if err != nil {
		return err
	}
	if idx == nil {
		frag.Units = append(frag.Units, cbs.Unit{
			Type:    frameUnitType,
			Data:    frag.Data,
			DataRef: buf,
		})
		return nil
	}

	framesData := frag.Data[:len(frag.Data)-size]
	var total int
	for _, sz := range idx.FrameSizes {
		total += int(sz)
	}
	if total > len(framesData) {
		return cbs.ErrInvalidData
	}
	if total < len(framesData) && ctx != nil {
		ctx.Trace().Element(0, "superframe_padding", nil, "", int64(len(framesData)-total))
	}

	pos := 0
	for _, sz := range idx.FrameSizes {
		frag.Units = append(frag.Units, cbs.Unit{
			Type:    frameUnitType,
			Data:    framesData[pos : pos+int(sz)],
			DataRef: buf.Ref(),
		})
		pos += int(sz)
	}
	buf.Unref()
	return nil
}

// ReadUnit decomposes one frame unit into its uncompressed header and a
// zero-copy view of whatever follows (the compressed header and residual
// data, which this package does not itself decode).
func (codec) ReadUnit(ctx *cbs.Context, unit *cbs.Unit) error {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()
	t.Header("Frame")

	frame := &Frame{}

	r := bits.NewReader(unit.Data)
	if err := readUncompressedHeader(t, r, &frame.Header, priv); err != nil {
		return err
	}
	if err := readTrailingBits(t, r); err != nil {
		return err
	}

	pos := r.BytesRead()
	if pos > len(unit.Data) {
		return cbs.ErrInvalidData
	}
	if pos < len(unit.Data) {
		frame.Data = unit.Data[pos:]
		frame.DataRef = unit.DataRef.Ref()
	}
	// pos == len(unit.Data): no data, e.g. a show-existing-frame frame.

	unit.Content = frame
	unit.ContentRef = frame.DataRef
	return nil
}

func (codec) WriteUnit(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	n, err := writeUnitBody(ctx, unit, dst)
	if err != nil && errors.Is(err, bits.ErrOverflow) {
		return 0, cbs.ErrOverflow
	}
	return n, err
}

// writeUnitBody writes uncompressed_header()+trailing_bits() followed by
// the content's residual Data, returning ErrOverflow (via bits.Writer) if
// dst is too small for WriteUnit to translate for the dispatcher's
// double-and-retry loop.
func writeUnitBody(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()

	frame, ok := unit.Content.(*Frame)
	if !ok {
		return 0, cbs.ErrUnsupported
	}

	w := bits.NewWriter(dst)
	if err := writeUncompressedHeader(t, w, &frame.Header, priv); err != nil {
		return 0, err
	}
	if err := writeTrailingBits(t, w); err != nil {
		return 0, err
	}

	headerLen := w.BitsWritten() / 8
	total := headerLen + len(frame.Data)
	if total > len(dst) {
		return 0, cbs.ErrOverflow
	}
	copy(dst[headerLen:total], frame.Data)
	return total, nil
}

// AssembleFragment concatenates unit data; a fragment with more than one
// unit gets a superframe index appended so a later SplitFragment call can
// recover the same units.
func (codec) AssembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	if len(frag.Units) == 0 {
		return cbs.ErrInvalidData
	}
	if len(frag.Units) == 1 {
		u := frag.Units[0]
		frag.Data = u.Data
		frag.DataRef = u.DataRef.Ref()
		return nil
	}

	sizes := make([]uint32, len(frag.Units))
	var total int
	for i, u := range frag.Units {
		sizes[i] = uint32(len(u.Data))
		total += len(u.Data)
	}

	idx, err := buildSuperframeIndex(sizes)
	if err != nil {
		return err
	}

	out := make([]byte, 0, total+indexSize(idx.BytesPerFramesizeMinus1, idx.FramesInSuperframeMinus1))
	for _, u := range frag.Units {
		out = append(out, u.Data...)
	}

	w := bits.NewWriter(make([]byte, indexSize(idx.BytesPerFramesizeMinus1, idx.FramesInSuperframeMinus1)))
	t := ctx.Trace()
	if err := writeSuperframeIndex(t, w, idx); err != nil {
		return err
	}
	out = append(out, w.Bytes()...)

	frag.Data = out
	frag.DataRef = cbs.NewBuffer(out)
	return nil
}

// Flush clears cross-fragment dimension/reference state.
func (codec) Flush(ctx *cbs.Context) {
	priv := ctx.Private.(*privateState)
	priv.reset()
}

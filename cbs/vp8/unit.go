/*
NAME
  unit.go

DESCRIPTION
  unit.go wires this package into the Codec interface. VP8 has no start
  code or container framing of its own below the whole-frame level: every
  fragment presented to this codec (one packet, one frame) is exactly one
  unit, which is why SplitFragment never loops the way AV1's and MPEG-2's
  do. Only decode is implemented: WriteUnit and AssembleFragment report
  ErrUnsupported, since re-encoding a frame header this package never
  chose probabilities or partition sizes for isn't something a bitstream
  framing layer can do on its own.

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

func init() {
	cbs.RegisterCodec(&codec{})
}

// frameUnitType is the only unit type this codec produces: a whole frame.
const frameUnitType cbs.UnitType = 0

type codec struct{}

func (codec) ID() cbs.CodecID { return cbs.CodecVP8 }

func (codec) NewPrivate() interface{} { return nil }

// SplitFragment wraps the whole of frag.Data as a single frame unit.
func (codec) SplitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	if len(frag.Data) == 0 {
		return cbs.ErrInvalidData
	}
	buf := cbs.NewBuffer(frag.Data)
	frag.Units = append(frag.Units, cbs.Unit{
		Type:    frameUnitType,
		Data:    frag.Data,
		DataRef: buf,
	})
	return nil
}

// ReadUnit decomposes a frame unit's raw bytes into a Frame: the frame
// tag, the compressed header, and a zero-copy view of whatever data
// follows (the first partition and token partitions, which this package
// does not itself decode).
func (codec) ReadUnit(ctx *cbs.Context, unit *cbs.Unit) error {
	t := ctx.Trace()
	t.Header("Frame")

	frame := &Frame{}

	le := newLEReader(unit.Data)
	if err := readFrameTag(t, le, &frame.Header); err != nil {
		return err
	}

	pos := le.BytePos()
	if pos*8 != le.bitPos {
		return cbs.ErrInvalidData
	}

	bd := newBoolDecoder(newLEReader(unit.Data[pos:]))
	if err := readFrameHeader(t, bd, &frame.Header); err != nil {
		return err
	}

	// The compressed header need not end on a byte boundary; the residual
	// data that follows is always byte-aligned regardless; round up.
	headerBytes := pos + bd.src.BytePos()
	if headerBytes > len(unit.Data) {
		return cbs.ErrInvalidData
	}

	frame.Data = unit.Data[headerBytes:]
	frame.DataRef = unit.DataRef.Ref()

	unit.Content = frame
	unit.ContentRef = frame.DataRef
	return nil
}

// WriteUnit is unimplemented: see the package doc comment.
func (codec) WriteUnit(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	return 0, cbs.ErrUnsupported
}

// AssembleFragment is unimplemented: see the package doc comment.
func (codec) AssembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	return cbs.ErrUnsupported
}

// Flush is a no-op: this codec carries no cross-fragment state.
func (codec) Flush(ctx *cbs.Context) {}

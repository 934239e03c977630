/*
NAME
  unit.go

DESCRIPTION
  unit.go wires the MPEG-2 syntax structures in the rest of this
  package into the Codec interface: per-start-code dispatch for
  ReadUnit/WriteUnit.

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
	"errors"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func init() {
	cbs.RegisterCodec(&codec{})
}

type codec struct{}

func (codec) ID() cbs.CodecID { return cbs.CodecMPEG2 }

func (codec) NewPrivate() interface{} { return newPrivateState() }

func (codec) SplitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	return splitFragment(ctx, frag, header)
}

func (codec) AssembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	return assembleFragment(ctx, frag)
}

func (codec) Flush(ctx *cbs.Context) {
	ctx.Private.(*privateState).reset()
}

func (codec) ReadUnit(ctx *cbs.Context, unit *cbs.Unit) error {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()
	r := bits.NewReader(unit.Data)

	if isSlice(unit.Type) {
		h, err := readSliceHeader(t, r, priv)
		if err != nil {
			return err
		}
		data, ref, bitStart, err := readSliceData(r, unit.DataRef)
		if err != nil {
			return err
		}
		s := &Slice{Header: *h, Data: data, DataRef: ref, DataBitStart: bitStart}
		unit.Content = s
		unit.ContentRef = ref
		return nil
	}

	switch unit.Type {
	case startSequenceHeader:
		c, err := readSequenceHeader(t, r, priv)
		if err != nil {
			return err
		}
		unit.Content = c

	case startUserData:
		c, err := readUserData(t, r, unit.DataRef)
		if err != nil {
			return err
		}
		unit.Content = c
		unit.ContentRef = c.DataRef

	case startExtension:
		c, err := readExtensionData(t, r, priv)
		if err != nil {
			return err
		}
		unit.Content = c

	case startGroup:
		c, err := readGroupOfPicturesHeader(t, r)
		if err != nil {
			return err
		}
		unit.Content = c

	case startSequenceEnd:
		c, err := readSequenceEnd(t, r)
		if err != nil {
			return err
		}
		unit.Content = c

	case startPicture:
		c, err := readPictureHeader(t, r)
		if err != nil {
			return err
		}
		unit.Content = c

	default:
		return cbs.ErrUnsupported
	}
	return nil
}

func (codec) WriteUnit(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	n, err := writeUnitBody(ctx, unit, dst)
	if err != nil && errors.Is(err, bits.ErrOverflow) {
		return 0, cbs.ErrOverflow
	}
	return n, err
}

func writeUnitBody(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()
	w := bits.NewWriter(dst)

	switch c := unit.Content.(type) {
	case *SequenceHeader:
		if err := writeSequenceHeader(t, w, c, priv); err != nil {
			return 0, err
		}

	case *UserData:
		if err := writeUserData(t, w, c); err != nil {
			return 0, err
		}

	case *ExtensionData:
		if err := writeExtensionData(t, w, c, priv); err != nil {
			return 0, err
		}

	case *GroupOfPicturesHeader:
		if err := writeGroupOfPicturesHeader(t, w, c); err != nil {
			return 0, err
		}

	case *SequenceEnd:
		if err := writeSequenceEnd(t, w, c); err != nil {
			return 0, err
		}

	case *PictureHeader:
		if err := writePictureHeader(t, w, c); err != nil {
			return 0, err
		}

	case *Slice:
		if err := writeSliceHeader(t, w, &c.Header, priv); err != nil {
			return 0, err
		}
		if err := writeSliceData(w, c.Data, c.DataBitStart); err != nil {
			return 0, err
		}

	default:
		return 0, cbs.ErrUnsupported
	}

	return len(w.Bytes()), nil
}

/*
NAME
  dispatch.go

DESCRIPTION
  dispatch.go implements the CBS dispatcher (component E): the read and
  write entry points that drive a codec plug-in's split_fragment,
  read_unit, write_unit and assemble_fragment hooks.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cbs

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ReadExtradata reads data into frag with header=true, i.e. the bytes may
// carry container parameter-block framing (the AV1CodecConfigurationRecord
// prefix).
func (ctx *Context) ReadExtradata(frag *Fragment, data []byte) error {
	return ctx.read(frag, data, true)
}

// ReadPacket reads data into frag with header=false: a plain packet of
// bitstream bytes with no container parameter-block framing.
func (ctx *Context) ReadPacket(frag *Fragment, data []byte) error {
	return ctx.read(frag, data, false)
}

// Read is an alias for ReadPacket, matching the framework API's
// container-agnostic raw byte-range entry point.
func (ctx *Context) Read(frag *Fragment, data []byte) error {
	return ctx.ReadPacket(frag, data)
}

func (ctx *Context) read(frag *Fragment, data []byte, header bool) error {
	frag.Reset()
	buf := NewBuffer(data)
	// Seed the fragment with (data, data_size) but no owning buffer, so
	// split may reference it in-place. buf is not handed to the codec:
	// each codec's split creates its own owner buffer over data for the
	// units' DataRef.
	frag.Data = data

	if err := ctx.codec.SplitFragment(ctx, frag, header); err != nil {
		buf.Unref()
		return err
	}
	// Units now own slices into data via buffer refs; clear the
	// fragment-level pointer per the framework's read path step 3.
	frag.Data = nil
	buf.Unref() // drop the dispatcher's own buffer; units reference the codec's.

	for i := range frag.Units {
		u := &frag.Units[i]
		if !ctx.shouldDecompose(u.Type) {
			continue
		}
		err := ctx.codec.ReadUnit(ctx, u)
		switch {
		case err == nil:
			// Decomposed successfully.
		case errors.Is(err, ErrTryAgain):
			return err
		case errors.Is(err, ErrUnsupported):
			if ctx.log != nil {
				ctx.log.Warning("unit type unsupported, keeping raw bytes", "type", u.Type)
			}
		default:
			return err
		}
	}
	return nil
}

// WriteFragmentData produces fresh bitstream bytes from every unit that
// carries decomposed content, then assembles the fragment's final
// contiguous output buffer.
func (ctx *Context) WriteFragmentData(frag *Fragment) error {
	for i := range frag.Units {
		u := &frag.Units[i]
		if u.Content == nil {
			continue
		}
		if err := ctx.writeUnit(u); err != nil {
			return err
		}
	}
	return ctx.codec.AssembleFragment(ctx, frag)
}

// writeUnit serialises u.Content into the Context's reusable write buffer,
// doubling it on ErrOverflow, and replaces u.Data with the result.
func (ctx *Context) writeUnit(u *Unit) error {
	for {
		n, err := ctx.codec.WriteUnit(ctx, u, ctx.writeBuf)
		if err == nil {
			out := make([]byte, n)
			copy(out, ctx.writeBuf[:n])
			buf := NewBuffer(out)
			u.DataRef.Unref()
			u.Data = out
			u.DataRef = buf
			return nil
		}
		if errors.Is(err, ErrOverflow) {
			ctx.growWriteBuffer()
			continue
		}
		return pkgerrors.Wrap(err, "write_unit")
	}
}

// WriteExtradata assembles frag and copies the result into a fresh
// parameter-block byte slice.
func (ctx *Context) WriteExtradata(frag *Fragment) ([]byte, error) {
	if err := ctx.WriteFragmentData(frag); err != nil {
		return nil, err
	}
	out := make([]byte, len(frag.Data))
	copy(out, frag.Data)
	return out, nil
}

// WritePacket assembles frag and copies the result into a fresh packet
// byte slice.
func (ctx *Context) WritePacket(frag *Fragment) ([]byte, error) {
	return ctx.WriteExtradata(frag)
}

/*
NAME
  codec.go

DESCRIPTION
  codec.go defines the Codec interface that each codec plug-in (AV1,
  MPEG-2, VP8, VP9) implements, and the process-wide registry of codec
  descriptors that ff_cbs_init's codec lookup corresponds to. Plug-ins
  register themselves from an init() function in their own package, so
  importing e.g. github.com/ausocean/cbs/av1 for its side effect is enough
  to make Context.Init recognise CodecAV1.

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

// CodecID identifies which coded bitstream format a Context operates on.
type CodecID uint32

const (
	CodecAV1 CodecID = iota + 1
	CodecMPEG2
	CodecVP8
	CodecVP9
)

func (c CodecID) String() string {
	switch c {
	case CodecAV1:
		return "AV1"
	case CodecMPEG2:
		return "MPEG-2"
	case CodecVP8:
		return "VP8"
	case CodecVP9:
		return "VP9"
	default:
		return "unknown codec"
	}
}

// Codec is implemented once per supported bitstream format and registered
// via RegisterCodec. It provides the four hooks the dispatcher (component
// E) drives: split/read/write/assemble.
type Codec interface {
	// ID reports the codec this implementation handles.
	ID() CodecID

	// NewPrivate allocates this codec's private per-Context state (e.g.
	// AV1's active sequence header and reference-frame table).
	NewPrivate() interface{}

	// SplitFragment carves frag.Data into raw-bytes units. header is true
	// when the bytes originate from a container parameter-block region
	// (AV1CodecConfigurationRecord detection); codecs that don't use
	// container framing ignore it.
	SplitFragment(ctx *Context, frag *Fragment, header bool) error

	// ReadUnit decomposes unit.Data into unit.Content. Returning
	// ErrUnsupported leaves the unit in raw form and is recovered by the
	// dispatcher; returning ErrTryAgain drops the unit (AV1 operating
	// point filtering) and is bubbled to the caller unchanged.
	ReadUnit(ctx *Context, unit *Unit) error

	// WriteUnit serialises unit.Content into dst, returning the number of
	// bytes written. If dst is too small it returns ErrOverflow; the
	// dispatcher doubles dst and retries.
	WriteUnit(ctx *Context, unit *Unit, dst []byte) (int, error)

	// AssembleFragment concatenates (codec-specific framing included) all
	// units' Data into frag.Data.
	AssembleFragment(ctx *Context, frag *Fragment) error

	// Flush clears any cross-fragment state (sequence headers, reference
	// frames) carried in private state, used when a decoder is seeked.
	Flush(ctx *Context)
}

var registry = map[CodecID]Codec{}

// RegisterCodec adds c to the process-wide codec descriptor table. Plug-in
// packages call this from their own init().
func RegisterCodec(c Codec) {
	registry[c.ID()] = c
}

// lookupCodec returns the registered Codec for id, or nil if none is
// registered (the caller, Init, turns that into ErrUnsupported).
func lookupCodec(id CodecID) Codec {
	return registry[id]
}

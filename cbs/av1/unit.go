/*
NAME
  unit.go

DESCRIPTION
  unit.go wires the AV1 syntax structures in the rest of this package into
  the Codec interface: per-OBU-type dispatch for ReadUnit/WriteUnit, the
  operating-point drop_obu() filter, and the seen_frame_header state
  machine governing frame_header_obu / redundant_frame_header /
  tile_group_obu sequencing within one frame.

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
	"errors"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func init() {
	cbs.RegisterCodec(&codec{})
}

// OpaquePayload is used for unit types this package locates but does not
// decompose further (padding, tile lists): a zero-copy byte range.
type OpaquePayload struct {
	Data    []byte
	DataRef *cbs.Buffer
}

func (p *OpaquePayload) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }
func (p *OpaquePayload) Clone() cbs.Content {
	c := *p
	c.DataRef = c.DataRef.Ref()
	return &c
}
func (p *OpaquePayload) BufferRef() *cbs.Buffer { return p.DataRef }

// FrameContent is the decomposed content of an OBUFrame unit: a frame
// header immediately followed (after byte_alignment()) by its tile group.
type FrameContent struct {
	Header *FrameHeader
	Tiles  *TileGroup
}

func (f *FrameContent) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }
func (f *FrameContent) Clone() cbs.Content {
	h := *f.Header
	tg := *f.Tiles
	tg.DataRef = tg.DataRef.Ref()
	return &FrameContent{Header: &h, Tiles: &tg}
}
func (f *FrameContent) BufferRef() *cbs.Buffer { return f.Tiles.DataRef }

type codec struct{}

func (codec) ID() cbs.CodecID { return cbs.CodecAV1 }

func (codec) NewPrivate() interface{} { return newPrivateState() }

func (codec) SplitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	return splitFragment(ctx, frag, header)
}

func (codec) AssembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	return assembleFragment(ctx, frag)
}

func (codec) Flush(ctx *cbs.Context) {
	priv := ctx.Private.(*privateState)
	priv.reset()
}

// dropOBU implements drop_obu(): an OBU outside the active operating
// point's temporal/spatial layers is skipped. Only applies to OBUs
// carrying an extension header; a zero operating point IDC (the default,
// meaning "decode everything") never drops anything.
func dropOBU(priv *privateState, h obuHeader) bool {
	if priv.operatingPointIDC == 0 || !h.ExtensionFlag {
		return false
	}
	if h.Type == OBUTemporalDelimiter || h.Type == OBUSequenceHeader || h.Type == OBUPadding {
		return false
	}
	inTemporal := (priv.operatingPointIDC>>h.TemporalID)&1 != 0
	inSpatial := (priv.operatingPointIDC>>(h.SpatialID+8))&1 != 0
	return !(inTemporal && inSpatial)
}

func (codec) ReadUnit(ctx *cbs.Context, unit *cbs.Unit) error {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()

	r := bits.NewReader(unit.Data)
	h, err := readOBUHeader(t, r)
	if err != nil {
		return err
	}
	if dropOBU(priv, h) {
		return cbs.ErrTryAgain
	}

	if h.HasSizeField {
		if _, err := readLeb128(t, r, "obu_size"); err != nil {
			return err
		}
	}

	switch h.Type {
	case OBUTemporalDelimiter:
		priv.seenFrameHeader = false

	case OBUSequenceHeader:
		sh, err := readSequenceHeader(t, r)
		if err != nil {
			return err
		}
		if err := readTrailingBits(r, r.Len()*8); err != nil {
			return err
		}
		priv.sequenceHeader = sh
		unit.Content = sh
		unit.ContentRef = nil

	case OBUFrameHeader, OBURedundantFrameHeader:
		if priv.sequenceHeader == nil {
			return cbs.ErrInvalidData
		}
		if priv.seenFrameHeader {
			// redundant_frame_header: bits repeat the current frame
			// header verbatim. We reuse the already-decoded structure
			// rather than re-parsing.
			unit.Content = priv.currentFrameHeader
			unit.ContentRef = nil
			break
		}
		fh, err := readFrameHeader(t, r, priv.sequenceHeader, priv)
		if err != nil {
			return err
		}
		priv.currentFrameHeader = fh
		if !fh.ShowExistingFrame {
			priv.seenFrameHeader = true
		} else {
			updateRefsOnShowExisting(priv, fh)
		}
		updateRefsOnFrameHeader(priv, fh)
		unit.Content = fh
		unit.ContentRef = nil

	case OBUTileGroup:
		if priv.sequenceHeader == nil || priv.currentFrameHeader == nil {
			return cbs.ErrInvalidData
		}
		g, err := readTileGroup(t, r, unit.DataRef, priv.currentFrameHeader.Tile)
		if err != nil {
			return err
		}
		if g.TgEnd == g.NumTiles-1 {
			priv.seenFrameHeader = false
		}
		unit.Content = g
		unit.ContentRef = g.DataRef

	case OBUFrame:
		if priv.sequenceHeader == nil {
			return cbs.ErrInvalidData
		}
		fh, err := readFrameHeader(t, r, priv.sequenceHeader, priv)
		if err != nil {
			return err
		}
		r.AlignToByte()
		priv.currentFrameHeader = fh
		updateRefsOnFrameHeader(priv, fh)
		g, err := readTileGroup(t, r, unit.DataRef, fh.Tile)
		if err != nil {
			return err
		}
		if g.TgEnd == g.NumTiles-1 {
			priv.seenFrameHeader = false
		} else {
			priv.seenFrameHeader = true
		}
		unit.Content = &FrameContent{Header: fh, Tiles: g}
		unit.ContentRef = g.DataRef

	case OBUMetadata:
		m, err := readMetadata(t, r, unit.DataRef)
		if err != nil {
			return err
		}
		if err := readTrailingBits(r, r.Len()*8); err != nil {
			return err
		}
		unit.Content = m
		if m.ITUT35 != nil {
			unit.ContentRef = m.ITUT35.PayloadRef
		}

	case OBUPadding, OBUTileList:
		r.AlignToByte()
		data := r.Remaining()
		op := &OpaquePayload{Data: data, DataRef: unit.DataRef.Ref()}
		unit.Content = op
		unit.ContentRef = op.DataRef

	default:
		return cbs.ErrUnsupported
	}

	return nil
}

// updateRefsOnFrameHeader records the decoded frame's dimensions and
// order hint into every reference slot it refreshes, so a later frame can
// resolve frame_size_with_refs().
func updateRefsOnFrameHeader(priv *privateState, fh *FrameHeader) {
	if fh.ShowExistingFrame {
		return
	}
	state := refFrameState{
		valid:     true,
		width:     int(fh.UpscaledWidth()),
		height:    int(fh.frameHeight()),
		orderHint: int(fh.OrderHint),
		frameType: fh.FrameType,
	}
	for i := 0; i < refFrameSlots; i++ {
		if fh.RefreshFrameFlags&(1<<uint(i)) != 0 {
			priv.refFrames[i] = state
		}
	}
}

// updateRefsOnShowExisting propagates the shown reference's recorded
// state when show_existing_frame re-displays a stored frame without
// decoding new frame data.
func updateRefsOnShowExisting(priv *privateState, fh *FrameHeader) {
	shown := priv.refFrames[fh.FrameToShowMapIdx]
	if fh.FrameType == frameTypeKey {
		for i := range priv.refFrames {
			priv.refFrames[i] = shown
		}
	}
}

func (codec) WriteUnit(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	n, err := writeUnitBody(ctx, unit, dst)
	if err != nil && errors.Is(err, bits.ErrOverflow) {
		return 0, cbs.ErrOverflow
	}
	return n, err
}

// writeUnitBody does the actual per-content-type dispatch; its only job
// beyond that is to let WriteUnit translate a body that didn't fit in
// dst into the sentinel the dispatcher's double-and-retry loop expects.
func writeUnitBody(ctx *cbs.Context, unit *cbs.Unit, dst []byte) (int, error) {
	priv := ctx.Private.(*privateState)
	t := ctx.Trace()

	h := obuHeader{Type: unit.Type}
	bodyBuf := make([]byte, len(dst))
	bw := bits.NewWriter(bodyBuf)

	switch c := unit.Content.(type) {
	case *SequenceHeader:
		if err := writeSequenceHeader(t, bw, c); err != nil {
			return 0, err
		}
		if err := writeTrailingBits(bw); err != nil {
			return 0, err
		}
		priv.sequenceHeader = c

	case *FrameHeader:
		if priv.sequenceHeader == nil {
			return 0, cbs.ErrInvalidData
		}
		if err := writeFrameHeader(t, bw, priv.sequenceHeader, c, priv); err != nil {
			return 0, err
		}
		if err := writeTrailingBits(bw); err != nil {
			return 0, err
		}

	case *TileGroup:
		if priv.currentFrameHeader == nil {
			return 0, cbs.ErrInvalidData
		}
		if err := writeTileGroup(t, bw, priv.currentFrameHeader.Tile, c); err != nil {
			return 0, err
		}

	case *FrameContent:
		if priv.sequenceHeader == nil {
			return 0, cbs.ErrInvalidData
		}
		if err := writeFrameHeader(t, bw, priv.sequenceHeader, c.Header, priv); err != nil {
			return 0, err
		}
		bw.AlignToByte()
		if err := writeTileGroup(t, bw, c.Header.Tile, c.Tiles); err != nil {
			return 0, err
		}

	case *Metadata:
		if err := writeMetadata(t, bw, c); err != nil {
			return 0, err
		}
		if err := writeTrailingBits(bw); err != nil {
			return 0, err
		}

	case *OpaquePayload:
		bw.AlignToByte()
		if err := bw.WriteBytes(c.Data); err != nil {
			return 0, err
		}

	default:
		return 0, cbs.ErrUnsupported
	}

	body := bw.Bytes()
	h.HasSizeField = true
	return assembleOBU(dst, h, body)
}

// assembleOBU writes obu_header() + leb128(obu_size) + body into dst,
// returning the number of bytes written, or ErrOverflow if dst is too
// small (the dispatcher's write_unit then doubles its buffer and retries
// the whole WriteUnit call).
func assembleOBU(dst []byte, h obuHeader, body []byte) (int, error) {
	headerLen := h.headerSize()
	sizeLen := leb128Length(uint64(len(body)))
	total := headerLen + sizeLen + len(body)
	if total > len(dst) {
		return 0, cbs.ErrOverflow
	}
	for i := range dst[:total] {
		dst[i] = 0
	}
	w := bits.NewWriter(dst)
	t := &cbs.Trace{}
	if err := writeOBUHeader(t, w, h); err != nil {
		return 0, err
	}
	if err := writeLeb128(t, w, "obu_size", uint64(len(body))); err != nil {
		return 0, err
	}
	w.AlignToByte()
	if err := w.WriteBytes(body); err != nil {
		return 0, err
	}
	return total, nil
}

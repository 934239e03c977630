/*
NAME
  obu.go

DESCRIPTION
  obu.go defines the AV1 Open Bitstream Unit types and the OBU header
  syntax structure shared by every unit.

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
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// OBU types, as assigned by the AV1 bitstream specification's obu_type
// table. cbs.UnitType values for this codec are these constants directly.
const (
	OBUSequenceHeader        cbs.UnitType = 1
	OBUTemporalDelimiter     cbs.UnitType = 2
	OBUFrameHeader           cbs.UnitType = 3
	OBUTileGroup             cbs.UnitType = 4
	OBUMetadata              cbs.UnitType = 5
	OBUFrame                 cbs.UnitType = 6
	OBURedundantFrameHeader  cbs.UnitType = 7
	OBUTileList              cbs.UnitType = 8
	OBUPadding               cbs.UnitType = 15
)

// Metadata types, as assigned by metadata_type in a metadata OBU.
const (
	MetadataTypeHDRCLL        = 1
	MetadataTypeHDRMDCV       = 2
	MetadataTypeScalability   = 3
	MetadataTypeITUT35        = 4
	MetadataTypeTimecode      = 5
)

// obuHeader is the obu_header() syntax structure preceding every OBU's
// payload.
type obuHeader struct {
	Type           cbs.UnitType
	ExtensionFlag  bool
	HasSizeField   bool
	TemporalID     uint64
	SpatialID      uint64
}

// readOBUHeader parses obu_header() from r, tracing as it goes.
func readOBUHeader(t *cbs.Trace, r *bits.Reader) (obuHeader, error) {
	var h obuHeader
	t.Header("OBU header")

	if _, err := cbs.ReadFlag(t, r, "obu_forbidden_bit", nil); err != nil {
		return h, err
	}
	typ, err := cbs.ReadUnsigned(t, r, 4, "obu_type", nil, 0, 15)
	if err != nil {
		return h, err
	}
	h.Type = cbs.UnitType(typ)

	ext, err := cbs.ReadFlag(t, r, "obu_extension_flag", nil)
	if err != nil {
		return h, err
	}
	h.ExtensionFlag = ext

	sz, err := cbs.ReadFlag(t, r, "obu_has_size_field", nil)
	if err != nil {
		return h, err
	}
	h.HasSizeField = sz

	if _, err := cbs.ReadFlag(t, r, "obu_reserved_1bit", nil); err != nil {
		return h, err
	}

	if h.ExtensionFlag {
		tid, err := cbs.ReadUnsigned(t, r, 3, "temporal_id", nil, 0, 7)
		if err != nil {
			return h, err
		}
		h.TemporalID = tid
		sid, err := cbs.ReadUnsigned(t, r, 2, "spatial_id", nil, 0, 3)
		if err != nil {
			return h, err
		}
		h.SpatialID = sid
		if _, err := cbs.ReadUnsigned(t, r, 3, "extension_header_reserved_3bits", nil, 0, 7); err != nil {
			return h, err
		}
	}
	return h, nil
}

// writeOBUHeader writes obu_header() to w.
func writeOBUHeader(t *cbs.Trace, w *bits.Writer, h obuHeader) error {
	t.Header("OBU header")
	if err := cbs.WriteFlag(t, w, "obu_forbidden_bit", nil, false); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 4, "obu_type", nil, uint64(h.Type), 0, 15); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "obu_extension_flag", nil, h.ExtensionFlag); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "obu_has_size_field", nil, h.HasSizeField); err != nil {
		return err
	}
	if err := cbs.WriteFlag(t, w, "obu_reserved_1bit", nil, false); err != nil {
		return err
	}
	if h.ExtensionFlag {
		if err := cbs.WriteUnsigned(t, w, 3, "temporal_id", nil, h.TemporalID, 0, 7); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 2, "spatial_id", nil, h.SpatialID, 0, 3); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 3, "extension_header_reserved_3bits", nil, 0, 0, 7); err != nil {
			return err
		}
	}
	return nil
}

// headerSize reports the size in bytes of h's obu_header() field (1 or 2
// bytes depending on ExtensionFlag), used by split/assemble to locate the
// payload without a full bit-level re-parse.
func (h obuHeader) headerSize() int {
	if h.ExtensionFlag {
		return 2
	}
	return 1
}

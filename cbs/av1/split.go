/*
NAME
  split.go

DESCRIPTION
  split.go implements AV1's split_fragment hook: carving a byte range into
  raw-bytes OBU units, recognising the AV1CodecConfigurationRecord framing
  used when header is true (container extradata) and the plain
  concatenated-OBU framing used for packet payloads.

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

// configRecordMinSize is the fixed portion of an AV1CodecConfigurationRecord
// preceding its configOBUs: marker/version (1 byte), profile/level/tier/
// bitdepth/monochrome/subsampling (2 bytes) and the presentation-delay byte.
const configRecordMinSize = 4

// splitFragment implements Codec.SplitFragment.
func splitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	data := frag.Data
	owner := cbs.NewBuffer(data)
	defer owner.Unref()

	offset := 0
	if header && len(data) > 0 && data[0]&0x80 != 0 {
		n, err := checkConfigurationRecord(data)
		if err != nil {
			return err
		}
		offset = n
	}

	for offset < len(data) {
		remaining := data[offset:]
		h, headerLen, err := peekOBUHeader(remaining)
		if err != nil {
			return err
		}

		unitLen := headerLen
		if h.HasSizeField {
			size, sizeLen, err := peekLeb128(remaining[headerLen:])
			if err != nil {
				return err
			}
			unitLen = headerLen + sizeLen + int(size)
		} else {
			// No size field: per the low-overhead packet format, this OBU
			// (and it must be the fragment's last) runs to the end of the
			// available bytes.
			unitLen = len(remaining)
		}
		if unitLen > len(remaining) {
			return cbs.ErrInvalidData
		}

		unitBytes := remaining[:unitLen]
		if err := frag.InsertUnitData(-1, h.Type, unitBytes, owner); err != nil {
			return err
		}
		offset += unitLen
	}
	return nil
}

// checkConfigurationRecord validates and skips the AV1CodecConfigurationRecord's
// fixed header, returning the byte offset of the first configOBU.
func checkConfigurationRecord(data []byte) (int, error) {
	if len(data) < configRecordMinSize {
		return 0, cbs.ErrInvalidData
	}
	t := &cbs.Trace{}
	r := bits.NewReader(data)

	marker, err := cbs.ReadUnsigned(t, r, 1, "marker", nil, 1, 1)
	if err != nil {
		return 0, err
	}
	_ = marker
	if _, err := cbs.ReadUnsigned(t, r, 7, "version", nil, 1, 1); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 3, "seq_profile", nil, 0, 7); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 5, "seq_level_idx_0", nil, 0, 31); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "seq_tier_0", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "high_bitdepth", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "twelve_bit", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "monochrome", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "chroma_subsampling_x", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadFlag(t, r, "chroma_subsampling_y", nil); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 2, "chroma_sample_position", nil, 0, 3); err != nil {
		return 0, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 3, "reserved", nil, 0, 7); err != nil {
		return 0, err
	}
	delayPresent, err := cbs.ReadFlag(t, r, "initial_presentation_delay_present", nil)
	if err != nil {
		return 0, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 4, "initial_presentation_delay_or_reserved", nil, 0, 15); err != nil {
		return 0, err
	}
	_ = delayPresent
	return configRecordMinSize, nil
}

// peekOBUHeader parses just the obu_header() byte(s) at the start of data,
// without consuming trace output, returning the parsed header and its
// length in bytes (1 or 2).
func peekOBUHeader(data []byte) (obuHeader, int, error) {
	if len(data) < 1 {
		return obuHeader{}, 0, cbs.ErrInsufficientData
	}
	t := &cbs.Trace{}
	r := bits.NewReader(data)
	h, err := readOBUHeader(t, r)
	if err != nil {
		return obuHeader{}, 0, err
	}
	return h, h.headerSize(), nil
}

// peekLeb128 decodes a leb128 value at the start of data, returning the
// value and the number of bytes it occupied.
func peekLeb128(data []byte) (uint64, int, error) {
	t := &cbs.Trace{}
	r := bits.NewReader(data)
	v, err := readLeb128(t, r, "obu_size")
	if err != nil {
		return 0, 0, err
	}
	return v, r.BytesRead(), nil
}

// assembleFragment implements Codec.AssembleFragment: concatenate every
// unit's raw bytes back to back. AV1 carries no inter-unit framing beyond
// what each OBU already contains.
func assembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	total := 0
	for i := range frag.Units {
		total += len(frag.Units[i].Data)
	}
	out := make([]byte, 0, total)
	for i := range frag.Units {
		out = append(out, frag.Units[i].Data...)
	}
	frag.Data = out
	frag.DataRef.Unref()
	frag.DataRef = cbs.NewBuffer(out)
	return nil
}

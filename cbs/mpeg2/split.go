/*
NAME
  split.go

DESCRIPTION
  split.go implements split_fragment: carving a byte range at MPEG-2's
  start codes (any "00 00 01 XX" four-byte sequence) into raw-bytes
  units, and assemble_fragment, which re-prefixes each unit with its
  three-byte start code on the way back out.

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

import "github.com/ausocean/cbs"

// findStartCodes returns the byte offset of the "00 00 01" prefix of
// every start code in data, in order.
func findStartCodes(data []byte) []int {
	var positions []int
	for i := 0; i+2 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			positions = append(positions, i)
			i += 2 // the next possible start code cannot overlap this one.
		}
	}
	return positions
}

// splitFragment implements Codec.SplitFragment. header (container
// extradata vs. packet payload) makes no difference to MPEG-2 Video
// framing: both are a plain run of start-code-prefixed units.
func splitFragment(ctx *cbs.Context, frag *cbs.Fragment, header bool) error {
	data := frag.Data
	positions := findStartCodes(data)
	if len(positions) == 0 {
		return cbs.ErrInvalidData
	}

	owner := cbs.NewBuffer(data)
	defer owner.Unref()

	for i, pos := range positions {
		unitStart := pos + 3
		if unitStart >= len(data) {
			return cbs.ErrInvalidData
		}
		unitEnd := len(data)
		if i+1 < len(positions) {
			unitEnd = positions[i+1]
		}
		typ := cbs.UnitType(data[unitStart])
		if err := frag.InsertUnitData(-1, typ, data[unitStart:unitEnd], owner); err != nil {
			return err
		}
	}
	return nil
}

// assembleFragment implements Codec.AssembleFragment: re-emit every
// unit with its three-byte 00 00 01 start code prefix.
func assembleFragment(ctx *cbs.Context, frag *cbs.Fragment) error {
	total := 0
	for i := range frag.Units {
		total += 3 + len(frag.Units[i].Data)
	}
	out := make([]byte, 0, total)
	for i := range frag.Units {
		out = append(out, 0, 0, 1)
		out = append(out, frag.Units[i].Data...)
	}
	frag.Data = out
	frag.DataRef.Unref()
	frag.DataRef = cbs.NewBuffer(out)
	return nil
}

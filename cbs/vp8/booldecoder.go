/*
NAME
  booldecoder.go

DESCRIPTION
  booldecoder.go implements the VP8 boolean arithmetic decoder that the
  compressed part of the frame header (everything after the frame tag) is
  packed with: every field, down to individual update flags, is coded as
  one or more arithmetic-coded bools against an explicit or default
  probability, rather than a plain fixed-width bit field. This package
  only ever needs the decode direction (see unit.go), so there is no
  matching bool encoder.

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

import (
	"github.com/ausocean/cbs"
)

// defaultProb is the probability used for every plain (non-entropy-table)
// bool in the compressed header: 128/256, i.e. an unbiased coin.
const defaultProb = 0x80

// boolDecoder is the single-byte-register arithmetic decoder: value and
// range are both kept as 8 bits; value is topped up from src whenever it
// drains below 8 significant bits, taking each source byte's bits most
// significant first.
type boolDecoder struct {
	src   *leReader
	value uint8
	rng   uint8
	count uint8 // number of valid bits currently held in value.
}

// newBoolDecoder returns a decoder reading from src, which must already be
// positioned at the start of the compressed header (byte-aligned).
func newBoolDecoder(src *leReader) *boolDecoder {
	return &boolDecoder{src: src, rng: 255}
}

// fill tops value up to a full 8 bits from src, reporting whether it
// succeeded; it is a no-op once count is already 8.
func (d *boolDecoder) fill() bool {
	if d.count == 8 {
		return true
	}
	need := int(8 - d.count)
	if d.src.BitsLeft() < need {
		return false
	}
	for i := 0; i < need; i++ {
		pos := d.src.bitPos
		bit := (d.src.data[pos/8] >> uint(7-pos%8)) & 1
		d.value |= bit << uint(need-1-i)
		d.src.bitPos++
	}
	d.count += uint8(need)
	return d.count == 8
}

// readBool decodes a single bool against prob (out of 256).
func (d *boolDecoder) readBool(prob uint8) (uint8, error) {
	split := uint8(1 + (((int(d.rng) - 1) * int(prob)) >> 8))

	if !d.fill() {
		return 0, cbs.ErrInsufficientData
	}

	var out uint8
	if d.value >= split {
		out = 1
		d.rng -= split
		d.value -= split
	} else {
		out = 0
		d.rng = split
	}

	for d.rng < 128 {
		d.value <<= 1
		d.rng <<= 1
		d.count--
	}

	return out, nil
}

// readLiteral decodes numBits independent bools against prob, most
// significant bit first, and assembles them into an unsigned value.
func (d *boolDecoder) readLiteral(prob uint8, numBits int) (uint32, error) {
	var v uint32
	for ; numBits > 0; numBits-- {
		bit, err := d.readBool(prob)
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint32(bit)
	}
	return v, nil
}

/*
NAME
  codings.go

DESCRIPTION
  codings.go implements the two families of named, traced syntax-element
  reads the frame header is built from: plain little-endian fixed-width
  fields in the frame tag (readLE/readLEFixed) and probability-coded bools
  in the compressed header (readBoolUnsigned/readBoolSigned/readBoolFlag),
  mirroring cbs.ReadUnsigned/ReadSigned's range-checking and trace
  behaviour for a source that isn't a plain cbs/bits.Reader.

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

// maxUint returns the largest value representable in width unsigned bits.
func maxUint(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// readLE reads a width-bit little-endian field named name from r, checked
// against [0, maxUint(width)], and traces it.
func readLE(t *cbs.Trace, r *leReader, width int, name string) (uint64, error) {
	pos := r.bitPos
	v, err := r.ReadBits(width)
	if err != nil {
		return 0, err
	}
	t.Element(pos, name, nil, "", int64(v))
	return v, nil
}

// readLEFixed reads a width-bit little-endian field and requires it to
// equal want, the way fixed() checks a literal start-code byte.
func readLEFixed(t *cbs.Trace, r *leReader, width int, name string, want uint64) error {
	v, err := readLE(t, r, width, name)
	if err != nil {
		return err
	}
	if v != want {
		return &cbs.RangeError{Name: name, Value: int64(v), Min: int64(want), Max: int64(want)}
	}
	return nil
}

// readBoolUnsigned decodes a width-bit unsigned value bit-by-bit against
// prob, checked against [0, maxUint(width)]. When trace is false the
// element is decoded but not traced, matching the compressed header's
// untraced update-flag reads (bc_b/bc_b_prob in the source this is
// grounded on).
func readBoolUnsigned(t *cbs.Trace, d *boolDecoder, width int, prob uint8, name string, subs []int, trace bool) (uint64, error) {
	pos := d.src.bitPos
	v, err := d.readLiteral(prob, width)
	if err != nil {
		return 0, err
	}
	if trace {
		t.Element(pos, name, subs, "", int64(v))
	}
	return uint64(v), nil
}

// readBoolFlag decodes a single untraced bool against defaultProb as a
// bool, the compressed header's "is the following field present/updated"
// idiom.
func readBoolFlag(d *boolDecoder, name string) (bool, error) {
	v, err := readBoolUnsigned(nil, d, 1, defaultProb, name, nil, false)
	return v != 0, err
}

// readBoolSigned decodes a width-bit sign-magnitude value against prob: a
// width-bit literal magnitude followed by one sign bool (1 meaning
// negative).
func readBoolSigned(t *cbs.Trace, d *boolDecoder, width int, prob uint8, name string, subs []int) (int64, error) {
	pos := d.src.bitPos
	mag, err := d.readLiteral(prob, width)
	if err != nil {
		return 0, err
	}
	sign, err := d.readBool(prob)
	if err != nil {
		return 0, err
	}
	v := int64(mag)
	if sign != 0 {
		v = -v
	}
	t.Element(pos, name, subs, "", v)
	return v, nil
}

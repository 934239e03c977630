/*
NAME
  codings.go

DESCRIPTION
  codings.go implements VP9's specialised syntax-element codings beyond
  cbs.ReadUnsigned/ReadSigned (which already cover f()/s()): increment
  (unary-coded value in a small range, same idiom as AV1's tile_cols_log2),
  le (byte-granular little-endian multi-byte fields, used only by the
  superframe index), delta_q (an optional signed 4-bit delta) and prob (an
  optional 8-bit probability, defaulting to 255 when not coded).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp9

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// readIncrement reads a unary-coded value in [min, max]: a run of one-bits
// incrementing from min, terminated by a zero bit or by reaching max.
func readIncrement(t *cbs.Trace, r *bits.Reader, name string, min, max uint64) (uint64, error) {
	pos := r.Pos()
	value := min
	for value < max {
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		value++
	}
	t.Element(pos, name, nil, "", int64(value))
	return value, nil
}

// writeIncrement writes value-min one-bits, then a terminating zero unless
// value==max.
func writeIncrement(t *cbs.Trace, w *bits.Writer, name string, value, min, max uint64) error {
	if value < min || value > max {
		return cbs.ErrInvalidData
	}
	pos := w.Pos()
	for i := min; i < value; i++ {
		if err := w.WriteBits(1, 1); err != nil {
			return err
		}
	}
	if value < max {
		if err := w.WriteBits(1, 0); err != nil {
			return err
		}
	}
	t.Element(pos, name, nil, "", int64(value))
	return nil
}

// readLE reads a width-bit (width a multiple of 8) field as a sequence of
// whole bytes, the first byte read landing in the low 8 bits of the
// result: the superframe index's only surprise, called out in the source
// this is grounded on as "surprise little-endian".
func readLE(t *cbs.Trace, r *bits.Reader, width int, name string, subs []int) (uint64, error) {
	pos := r.Pos()
	var value uint64
	for b := 0; b < width; b += 8 {
		v, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		value |= v << uint(b)
	}
	t.Element(pos, name, subs, "", int64(value))
	return value, nil
}

// writeLE is readLE's write counterpart.
func writeLE(t *cbs.Trace, w *bits.Writer, width int, name string, subs []int, value uint64) error {
	pos := w.Pos()
	for b := 0; b < width; b += 8 {
		if err := w.WriteBits(8, (value>>uint(b))&0xff); err != nil {
			return err
		}
	}
	t.Element(pos, name, subs, "", int64(value))
	return nil
}

// readDeltaQ reads an optional signed 4-bit quantiser delta, 0 when the
// presence flag is unset.
func readDeltaQ(t *cbs.Trace, r *bits.Reader, name string) (int8, error) {
	coded, err := cbs.ReadFlag(t, r, name+"_delta_coded", nil)
	if err != nil {
		return 0, err
	}
	if !coded {
		return 0, nil
	}
	v, err := cbs.ReadSigned(t, r, 4, name+"_delta_q", nil, -15, 15)
	if err != nil {
		return 0, err
	}
	return int8(v), nil
}

// writeDeltaQ is readDeltaQ's write counterpart.
func writeDeltaQ(t *cbs.Trace, w *bits.Writer, name string, value int8) error {
	if err := cbs.WriteFlag(t, w, name+"_delta_coded", nil, value != 0); err != nil {
		return err
	}
	if value != 0 {
		return cbs.WriteSigned(t, w, 4, name+"_delta_q", nil, int64(value), -15, 15)
	}
	return nil
}

// readProb reads an optional 8-bit probability, defaulting to 255 (always
// true) when the presence flag is unset.
func readProb(t *cbs.Trace, r *bits.Reader, name string, subs []int) (uint8, error) {
	coded, err := cbs.ReadFlag(t, r, name+"_prob_coded", subs)
	if err != nil {
		return 0, err
	}
	if !coded {
		return 255, nil
	}
	v, err := cbs.ReadUnsigned(t, r, 8, name+"_prob", subs, 0, 255)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// writeProb is readProb's write counterpart.
func writeProb(t *cbs.Trace, w *bits.Writer, name string, subs []int, value uint8) error {
	if err := cbs.WriteFlag(t, w, name+"_prob_coded", subs, value != 255); err != nil {
		return err
	}
	if value != 255 {
		return cbs.WriteUnsigned(t, w, 8, name+"_prob", subs, uint64(value), 0, 255)
	}
	return nil
}

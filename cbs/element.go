/*
NAME
  element.go

DESCRIPTION
  element.go implements the range-checked readers/writers (component C):
  named, optionally-subscripted syntax elements with a declared
  [range_min, range_max], built over the bit I/O primitives in cbs/bits and
  reporting to the trace sink. This is the layer every codec plug-in's
  syntax routines call instead of touching bits.Reader/Writer directly, so
  that every element in every plug-in gets range checking and tracing for
  free, mirroring ff_cbs_read_unsigned / ff_cbs_write_unsigned.

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

import "github.com/ausocean/cbs/bits"

// ReadUnsigned reads a width-bit unsigned syntax element named name (with
// optional subs for array elements), checks it against [min, max], and
// traces it. Range violations fail with a *RangeError (which satisfies
// errors.Is(err, ErrInvalidData)).
func ReadUnsigned(t *Trace, r *bits.Reader, width int, name string, subs []int, min, max uint64) (uint64, error) {
	pos := r.Pos()
	v, err := r.ReadBits(width)
	if err != nil {
		return 0, err
	}
	t.Element(pos, name, subs, bitString(v, width), int64(v))
	if v < min || v > max {
		return 0, &RangeError{Name: name, Subs: subs, Value: int64(v), Min: int64(min), Max: int64(max)}
	}
	return v, nil
}

// WriteUnsigned validates value against [min, max], writes it as width
// bits, and traces it.
func WriteUnsigned(t *Trace, w *bits.Writer, width int, name string, subs []int, value, min, max uint64) error {
	if value < min || value > max {
		return &RangeError{Name: name, Subs: subs, Value: int64(value), Min: int64(min), Max: int64(max)}
	}
	pos := w.Pos()
	if err := w.WriteBits(width, value); err != nil {
		return err
	}
	t.Element(pos, name, subs, bitString(value, width), int64(value))
	return nil
}

// ReadSigned reads a sign-magnitude syntax element: width magnitude bits
// followed by a sign bit (1 meaning negative), checked against [min, max].
func ReadSigned(t *Trace, r *bits.Reader, width int, name string, subs []int, min, max int64) (int64, error) {
	pos := r.Pos()
	mag, err := r.ReadBits(width)
	if err != nil {
		return 0, err
	}
	sign, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	v := int64(mag)
	if sign != 0 {
		v = -v
	}
	t.Element(pos, name, subs, bitString(mag, width)+bitString(sign, 1), v)
	if v < min || v > max {
		return 0, &RangeError{Name: name, Subs: subs, Value: v, Min: min, Max: max}
	}
	return v, nil
}

// WriteSigned validates value against [min, max] and writes it as width
// magnitude bits followed by a sign bit.
func WriteSigned(t *Trace, w *bits.Writer, width int, name string, subs []int, value, min, max int64) error {
	if value < min || value > max {
		return &RangeError{Name: name, Subs: subs, Value: value, Min: min, Max: max}
	}
	mag := value
	var sign uint64
	if mag < 0 {
		mag = -mag
		sign = 1
	}
	pos := w.Pos()
	if err := w.WriteBits(width, uint64(mag)); err != nil {
		return err
	}
	if err := w.WriteBits(1, sign); err != nil {
		return err
	}
	t.Element(pos, name, subs, bitString(uint64(mag), width)+bitString(sign, 1), value)
	return nil
}

// Flag reads/writes a single unsigned bit interpreted as a bool.
func ReadFlag(t *Trace, r *bits.Reader, name string, subs []int) (bool, error) {
	v, err := ReadUnsigned(t, r, 1, name, subs, 0, 1)
	return v != 0, err
}

func WriteFlag(t *Trace, w *bits.Writer, name string, subs []int, value bool) error {
	v := uint64(0)
	if value {
		v = 1
	}
	return WriteUnsigned(t, w, 1, name, subs, v, 0, 1)
}

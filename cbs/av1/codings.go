/*
NAME
  codings.go

DESCRIPTION
  codings.go implements AV1's specialised syntax-element codings beyond
  plain fixed-width unsigned/signed: leb128, uvlc, ns (non-symmetric),
  increment (unary-in-range), subexp (subexponential) and delta_q. Each
  comes as a read/write pair sharing the same bit-packing rules so that
  round-tripping is exact by construction.

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

// readLeb128 reads a little-endian base-128 value, at most 8 bytes, with a
// continuation bit in the MSB of every byte but the last. Values decoding
// to more than 2^32-1 fail with ErrInvalidData.
func readLeb128(t *cbs.Trace, r *bits.Reader, name string) (uint64, error) {
	pos := r.Pos()
	var value uint64
	for i := 0; i < 8; i++ {
		b, err := cbs.ReadUnsigned(t, r, 8, "leb128_byte", []int{i}, 0x00, 0xff)
		if err != nil {
			return 0, err
		}
		value |= (b & 0x7f) << uint(i*7)
		if b&0x80 == 0 {
			break
		}
	}
	if value > 0xffffffff {
		return 0, cbs.ErrInvalidData
	}
	t.Element(pos, name, nil, "", int64(value))
	return value, nil
}

// writeLeb128 writes value using the minimal number of leb128 bytes.
func writeLeb128(t *cbs.Trace, w *bits.Writer, name string, value uint64) error {
	pos := w.Pos()
	length := leb128Length(value)
	for i := 0; i < length; i++ {
		b := (value >> uint(7*i)) & 0x7f
		if i < length-1 {
			b |= 0x80
		}
		if err := cbs.WriteUnsigned(t, w, 8, "leb128_byte", []int{i}, b, 0x00, 0xff); err != nil {
			return err
		}
	}
	t.Element(pos, name, nil, "", int64(value))
	return nil
}

// writeLeb128Fixed writes value using exactly n leb128 bytes (padding with
// continuation bits as needed). Nothing in this package calls it at
// present.
func writeLeb128Fixed(w *bits.Writer, value uint64, n int) error {
	for i := 0; i < n; i++ {
		b := byte(value>>uint(7*i)) & 0x7f
		if i < n-1 {
			b |= 0x80
		}
		if err := w.WriteBits(8, uint64(b)); err != nil {
			return err
		}
	}
	return nil
}

// leb128Length returns the minimal number of bytes needed to encode value.
func leb128Length(value uint64) int {
	n := 1
	for value >>= 7; value != 0; value >>= 7 {
		n++
	}
	return n
}

// readUvlc reads an unsigned VLC value: a unary run of zero bits
// terminated by a one bit (or 32 zero bits, saturating), followed by that
// many low-order bits. 32 or more leading zeros means the maximum value
// 2^32-1; the leading-zero run is traced in chunks of up to 32 bits.
func readUvlc(t *cbs.Trace, r *bits.Reader, name string, min, max uint64) (uint64, error) {
	pos := r.Pos()
	var zeroes int
	for {
		if r.BitsLeft() < 1 {
			return 0, cbs.ErrInvalidData
		}
		b, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeroes++
		if zeroes >= 32 {
			break
		}
	}

	var value uint64
	if zeroes >= 32 {
		value = 0xffffffff
	} else {
		if r.BitsLeft() < zeroes {
			return 0, cbs.ErrInvalidData
		}
		low, err := r.ReadBits(zeroes)
		if err != nil {
			return 0, err
		}
		value = low + (uint64(1)<<uint(zeroes) - 1)
	}

	traceUvlc(t, pos, name, zeroes, value)

	if value < min || value > max {
		return 0, cbs.ErrInvalidData
	}
	return value, nil
}

// traceUvlc emits the uvlc trace in the same >32-zero chunking the
// original FFmpeg implementation uses: chunks of up to 32 zero bits are
// traced individually before the final terminating-one-plus-low-bits
// chunk.
func traceUvlc(t *cbs.Trace, pos int, name string, zeroes int, value uint64) {
	remaining := zeroes
	for remaining > 32 {
		chunk := remaining - 32
		if chunk > 32 {
			chunk = 32
		}
		zerosOnly := make([]byte, chunk)
		for i := range zerosOnly {
			zerosOnly[i] = '0'
		}
		t.Element(pos, name, nil, string(zerosOnly), 0)
		remaining -= chunk
		pos += chunk
	}
	bits := make([]byte, 0, remaining+1)
	for i := 0; i < remaining; i++ {
		bits = append(bits, '0')
	}
	bits = append(bits, '1')
	t.Element(pos, name, nil, string(bits), int64(value))
}

// writeUvlc writes value as zeroes 0-bits, a terminating 1-bit, then
// zeroes low-order bits of value-(2^zeroes-1).
func writeUvlc(t *cbs.Trace, w *bits.Writer, name string, value, min, max uint64) error {
	if value < min || value > max {
		return cbs.ErrInvalidData
	}
	pos := w.Pos()
	zeroes := log2Floor(value + 1)
	low := value - (uint64(1)<<uint(zeroes) - 1)
	for i := 0; i < zeroes; i++ {
		if err := w.WriteBits(1, 0); err != nil {
			return err
		}
	}
	if err := w.WriteBits(1, 1); err != nil {
		return err
	}
	if err := w.WriteBits(zeroes, low); err != nil {
		return err
	}
	t.Element(pos, name, nil, "", int64(value))
	return nil
}

// log2Floor returns floor(log2(v)) for v >= 1, and 0 for v == 0.
func log2Floor(v uint64) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// readNS reads a non-symmetric value in [0, n), using floor(log2(n)) or
// ceil(log2(n)) bits per the AV1 spec's ns(n) coding.
func readNS(t *cbs.Trace, r *bits.Reader, name string, n uint64) (uint64, error) {
	if n == 0 {
		return 0, cbs.ErrInvalidData
	}
	w := log2Floor(n) + 1
	m := (uint64(1) << uint(w)) - n
	pos := r.Pos()
	v, err := r.ReadBits(w - 1)
	if err != nil {
		return 0, err
	}
	if v < m {
		t.Element(pos, name, nil, "", int64(v))
		return v, nil
	}
	extra, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	value := (v << 1) - m + extra
	t.Element(pos, name, nil, "", int64(value))
	return value, nil
}

// writeNS writes value in [0, n) using the ns(n) coding.
func writeNS(t *cbs.Trace, w *bits.Writer, name string, value, n uint64) error {
	if n == 0 || value >= n {
		return cbs.ErrInvalidData
	}
	wBits := log2Floor(n) + 1
	m := (uint64(1) << uint(wBits)) - n
	pos := w.Pos()
	if value < m {
		if err := w.WriteBits(wBits-1, value); err != nil {
			return err
		}
		t.Element(pos, name, nil, "", int64(value))
		return nil
	}
	v := (value + m) >> 1
	extra := (value + m) & 1
	if err := w.WriteBits(wBits-1, v); err != nil {
		return err
	}
	if err := w.WriteBits(1, extra); err != nil {
		return err
	}
	t.Element(pos, name, nil, "", int64(value))
	return nil
}

// readIncrement reads a unary-encoded value in [min, max]: one-bits until
// either a terminating zero or (when value==max) the bits simply stop.
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

// readSubexp reads a subexponential-coded value in [0, rangeMax), using an
// increment-coded prefix in [0, maxLen] followed by either a fixed-width
// or ns-coded tail depending on whether the prefix saturated.
func readSubexp(t *cbs.Trace, r *bits.Reader, name string, rangeMax uint64) (uint64, error) {
	maxLen := log2Floor(rangeMax-1) - 3
	if maxLen < 0 {
		maxLen = 0
	}
	prefix, err := readIncrement(t, r, name+".prefix", 0, uint64(maxLen))
	if err != nil {
		return 0, err
	}
	if prefix == 0 {
		v, err := readNS(t, r, name+".tail", rangeMax)
		if err != nil {
			return 0, err
		}
		return v, nil
	}
	k := prefix + 2
	bitsN := int(k - 1)
	extra, err := r.ReadBits(bitsN)
	if err != nil {
		return 0, err
	}
	mk := (uint64(1) << uint(k-1))
	value := mk - 1 + extra
	// When the prefix saturated at maxLen, the remaining range is coded
	// with ns instead of a fixed-width field.
	if prefix == uint64(maxLen) {
		rest, err := readNS(t, r, name+".tail", rangeMax-value)
		if err != nil {
			return 0, err
		}
		value += rest
	}
	return value, nil
}

// writeSubexp writes value in [0, rangeMax) using the inverse of
// readSubexp.
func writeSubexp(t *cbs.Trace, w *bits.Writer, name string, value, rangeMax uint64) error {
	maxLen := log2Floor(rangeMax-1) - 3
	if maxLen < 0 {
		maxLen = 0
	}
	// Determine the prefix length the same way the decoder infers it: the
	// smallest k such that value < (1<<(k+1))-1, capped at maxLen.
	var prefix uint64
	for prefix < uint64(maxLen) {
		k := prefix + 2
		if value < (uint64(1)<<uint(k-1))-1+(uint64(1)<<uint(k-1)) {
			break
		}
		prefix++
	}
	if err := writeIncrement(t, w, name+".prefix", prefix, 0, uint64(maxLen)); err != nil {
		return err
	}
	if prefix == 0 {
		return writeNS(t, w, name+".tail", value, rangeMax)
	}
	k := prefix + 2
	mk := uint64(1) << uint(k-1)
	if prefix == uint64(maxLen) {
		extra := mk - 1
		if err := w.WriteBits(int(k-1), extra); err != nil {
			return err
		}
		return writeNS(t, w, name+".tail", value-(mk-1), rangeMax-(mk-1))
	}
	extra := value - (mk - 1)
	return w.WriteBits(int(k-1), extra)
}

// readDeltaQ reads AV1's delta_q(name): a flag bit, then (if set) a signed
// 6-bit sign-magnitude delta; 0 is inferred when the flag is clear.
func readDeltaQ(t *cbs.Trace, r *bits.Reader, name string) (int, error) {
	coded, err := cbs.ReadFlag(t, r, name+".delta_coded", nil)
	if err != nil {
		return 0, err
	}
	if !coded {
		return 0, nil
	}
	v, err := cbs.ReadSigned(t, r, 6, name+".delta_q", nil, -63, 63)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// writeDeltaQ writes the delta_coded flag and, if value != 0, value as a
// signed 6-bit field.
func writeDeltaQ(t *cbs.Trace, w *bits.Writer, name string, value int) error {
	if err := cbs.WriteFlag(t, w, name+".delta_coded", nil, value != 0); err != nil {
		return err
	}
	if value == 0 {
		return nil
	}
	return cbs.WriteSigned(t, w, 6, name+".delta_q", nil, int64(value), -63, 63)
}

// writeTrailingBits writes a single one-bit followed by enough zero-bits
// to reach byte alignment.
func writeTrailingBits(w *bits.Writer) error {
	if err := w.WriteBits(1, 1); err != nil {
		return err
	}
	for !w.ByteAligned() {
		if err := w.WriteBits(1, 0); err != nil {
			return err
		}
	}
	return nil
}

// readTrailingBits consumes a trailing-bits block: a one-bit followed by
// zero-bits up to the given absolute bit position (start+8*size), checking
// the leading bit is indeed set.
func readTrailingBits(r *bits.Reader, endPos int) error {
	if r.Pos() >= endPos {
		return nil
	}
	b, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	if b != 1 {
		return cbs.ErrInvalidData
	}
	for r.Pos() < endPos {
		if _, err := r.ReadBits(1); err != nil {
			return err
		}
	}
	return nil
}

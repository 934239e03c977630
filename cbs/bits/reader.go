/*
DESCRIPTION
  reader.go provides a bit reader implementation that reads from a fixed
  []byte source. Unlike an io.Reader-backed reader it never copies the
  source bytes, so slices handed out of it (e.g. opaque tile or slice
  payloads) can point directly into the caller's buffer.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides bit-level reading and writing over a fixed []byte,
// with MSB-first packing within each byte.
package bits

import "github.com/pkg/errors"

// ErrInsufficientData is returned when a read requests more bits than
// remain in the source.
var ErrInsufficientData = errors.New("insufficient data")

// Reader reads bits MSB-first from a []byte source without copying it.
type Reader struct {
	data   []byte
	bitPos int // absolute bit offset from the start of data.
}

// NewReader returns a new Reader over data. data is not copied; it must
// outlive the Reader and anything derived from it.
func NewReader(data []byte) *Reader { return &Reader{data: data} }

// ReadBits reads n bits (0 <= n <= 32) and returns them in the
// least-significant part of the result. Reading 32 bits in one call
// produces the same result as two 16 bit reads.
func (r *Reader) ReadBits(n int) (uint64, error) {
	v, err := r.bitsAt(r.bitPos, n)
	if err != nil {
		return 0, err
	}
	r.bitPos += n
	return v, nil
}

// PeekBits returns the next n bits without advancing the reader.
func (r *Reader) PeekBits(n int) (uint64, error) {
	return r.bitsAt(r.bitPos, n)
}

// bitsAt extracts n bits (0 <= n <= 32) starting at absolute bit offset pos.
func (r *Reader) bitsAt(pos, n int) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if pos+n > len(r.data)*8 {
		return 0, ErrInsufficientData
	}
	byteIdx := pos / 8
	bitOff := pos % 8
	nBytes := (bitOff + n + 7) / 8
	var v uint64
	for i := 0; i < nBytes; i++ {
		v = v<<8 | uint64(r.data[byteIdx+i])
	}
	shift := uint(nBytes*8 - bitOff - n)
	v = (v >> shift) & ((1 << uint(n)) - 1)
	return v, nil
}

// SkipBits advances the reader by n bits without returning a value.
func (r *Reader) SkipBits(n int) error {
	if r.bitPos+n > len(r.data)*8 {
		return ErrInsufficientData
	}
	r.bitPos += n
	return nil
}

// SkipBytes advances the reader by n bytes. The reader must currently be
// byte aligned.
func (r *Reader) SkipBytes(n int) error { return r.SkipBits(n * 8) }

// ByteAligned reports whether the reader is currently positioned at the
// start of a byte.
func (r *Reader) ByteAligned() bool { return r.bitPos%8 == 0 }

// AlignToByte advances to the next byte boundary, if not already aligned.
func (r *Reader) AlignToByte() { r.bitPos = (r.bitPos + 7) &^ 7 }

// Pos returns the current absolute bit position.
func (r *Reader) Pos() int { return r.bitPos }

// BytesRead returns the number of whole bytes consumed so far.
func (r *Reader) BytesRead() int { return r.bitPos / 8 }

// BitsLeft returns the number of unread bits remaining in the source.
func (r *Reader) BitsLeft() int { return len(r.data)*8 - r.bitPos }

// Len returns the total length of the underlying source in bytes.
func (r *Reader) Len() int { return len(r.data) }

// Bytes returns the underlying source slice, unmodified.
func (r *Reader) Bytes() []byte { return r.data }

// Remaining returns a zero-copy slice of the source from the current
// (byte-aligned) position to the end.
func (r *Reader) Remaining() []byte {
	return r.data[r.bitPos/8:]
}

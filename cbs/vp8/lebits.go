/*
NAME
  lebits.go

DESCRIPTION
  lebits.go implements a little-endian bit reader: bits come out of each
  source byte least-significant-bit first, bytes in stream order. VP8's
  frame tag is packed this way (the boolean decoder that follows it takes
  its bits from the same source most significant first), unlike every other codec this
  framework supports, which is why it gets its own reader instead of
  reusing cbs/bits.Reader's MSB-first packing.

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

// leReader reads bits LSB-first within each byte from a fixed []byte
// source, without copying it.
type leReader struct {
	data   []byte
	bitPos int
}

// newLEReader returns a new leReader over data.
func newLEReader(data []byte) *leReader { return &leReader{data: data} }

// ReadBits reads n bits (0 <= n <= 32), the first bit read landing in the
// least-significant position of the result.
func (r *leReader) ReadBits(n int) (uint64, error) {
	if r.bitPos+n > len(r.data)*8 {
		return 0, cbs.ErrInsufficientData
	}
	var v uint64
	for i := 0; i < n; i++ {
		byteIdx := (r.bitPos + i) / 8
		bitIdx := uint((r.bitPos + i) % 8)
		bit := (r.data[byteIdx] >> bitIdx) & 1
		v |= uint64(bit) << uint(i)
	}
	r.bitPos += n
	return v, nil
}

// BitsLeft returns the number of unread bits remaining in the source.
func (r *leReader) BitsLeft() int { return len(r.data)*8 - r.bitPos }

// BytePos returns the current position rounded up to a whole byte, used
// once the uncompressed header (always a whole number of bytes) ends.
func (r *leReader) BytePos() int { return (r.bitPos + 7) / 8 }

/*
NAME
  superframe.go

DESCRIPTION
  superframe.go implements VP9's superframe index: the optional trailer
  a container can append after concatenating several frames (typically a
  shown frame preceded by one or more no-show alt-ref frames) so a
  demuxer can split them back apart without parsing any frame header.
  The index is bracketed by an identical marker byte at both ends,
  letting a reader detect and skip it from either direction.

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

const superframeMarkerValue = 6

// SuperframeIndex is VP9's superframe_index trailer.
type SuperframeIndex struct {
	SuperframeMarker         uint8
	BytesPerFramesizeMinus1  uint8
	FramesInSuperframeMinus1 uint8
	FrameSizes               []uint32
}

// readSuperframeIndex reads superframe_index, including its repeated
// trailing marker byte.
func readSuperframeIndex(t *cbs.Trace, r *bits.Reader) (*SuperframeIndex, error) {
	var idx SuperframeIndex

	m, err := cbs.ReadUnsigned(t, r, 3, "superframe_marker", nil, superframeMarkerValue, superframeMarkerValue)
	if err != nil {
		return nil, err
	}
	idx.SuperframeMarker = uint8(m)

	bpf, err := cbs.ReadUnsigned(t, r, 2, "bytes_per_framesize_minus_1", nil, 0, 3)
	if err != nil {
		return nil, err
	}
	idx.BytesPerFramesizeMinus1 = uint8(bpf)

	fis, err := cbs.ReadUnsigned(t, r, 3, "frames_in_superframe_minus_1", nil, 0, 7)
	if err != nil {
		return nil, err
	}
	idx.FramesInSuperframeMinus1 = uint8(fis)

	n := int(idx.FramesInSuperframeMinus1) + 1
	width := (int(idx.BytesPerFramesizeMinus1) + 1) * 8
	idx.FrameSizes = make([]uint32, n)
	for i := 0; i < n; i++ {
		v, err := readLE(t, r, width, "frame_sizes[i]", []int{i})
		if err != nil {
			return nil, err
		}
		idx.FrameSizes[i] = uint32(v)
	}

	m2, err := cbs.ReadUnsigned(t, r, 3, "superframe_marker2", nil, superframeMarkerValue, superframeMarkerValue)
	if err != nil {
		return nil, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 2, "bytes_per_framesize_minus_1_2", nil, uint64(idx.BytesPerFramesizeMinus1), uint64(idx.BytesPerFramesizeMinus1)); err != nil {
		return nil, err
	}
	if _, err := cbs.ReadUnsigned(t, r, 3, "frames_in_superframe_minus_1_2", nil, uint64(idx.FramesInSuperframeMinus1), uint64(idx.FramesInSuperframeMinus1)); err != nil {
		return nil, err
	}
	_ = m2

	return &idx, nil
}

// writeSuperframeIndex is readSuperframeIndex's write counterpart.
func writeSuperframeIndex(t *cbs.Trace, w *bits.Writer, idx *SuperframeIndex) error {
	if err := cbs.WriteUnsigned(t, w, 3, "superframe_marker", nil, superframeMarkerValue, superframeMarkerValue, superframeMarkerValue); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 2, "bytes_per_framesize_minus_1", nil, uint64(idx.BytesPerFramesizeMinus1), 0, 3); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 3, "frames_in_superframe_minus_1", nil, uint64(idx.FramesInSuperframeMinus1), 0, 7); err != nil {
		return err
	}

	width := (int(idx.BytesPerFramesizeMinus1) + 1) * 8
	for i, size := range idx.FrameSizes {
		if err := writeLE(t, w, width, "frame_sizes[i]", []int{i}, uint64(size)); err != nil {
			return err
		}
	}

	if err := cbs.WriteUnsigned(t, w, 3, "superframe_marker2", nil, superframeMarkerValue, superframeMarkerValue, superframeMarkerValue); err != nil {
		return err
	}
	if err := cbs.WriteUnsigned(t, w, 2, "bytes_per_framesize_minus_1_2", nil, uint64(idx.BytesPerFramesizeMinus1), 0, 3); err != nil {
		return err
	}
	return cbs.WriteUnsigned(t, w, 3, "frames_in_superframe_minus_1_2", nil, uint64(idx.FramesInSuperframeMinus1), 0, 7)
}

// indexSize returns the total byte length of a superframe index with the
// given bytes-per-framesize and frame count, including both marker bytes.
func indexSize(bytesPerFramesizeMinus1, framesInSuperframeMinus1 uint8) int {
	return 2 + (int(bytesPerFramesizeMinus1)+1)*(int(framesInSuperframeMinus1)+1)
}

// detectSuperframeIndex inspects the trailing byte of a fragment's data
// and, if it looks like a superframe marker, parses the index from the
// tail and returns it along with its total byte size. It returns (nil, 0,
// nil) when no marker is present.
func detectSuperframeIndex(data []byte) (*SuperframeIndex, int, error) {
	if len(data) < 1 {
		return nil, 0, nil
	}
	last := data[len(data)-1]
	if last&0xe0 != 0xc0 {
		return nil, 0, nil
	}

	bytesPerFramesizeMinus1 := (last >> 3) & 0x3
	framesInSuperframeMinus1 := last & 0x7
	size := indexSize(bytesPerFramesizeMinus1, framesInSuperframeMinus1)
	if size > len(data) {
		return nil, 0, nil
	}

	r := bits.NewReader(data[len(data)-size:])
	idx, err := readSuperframeIndex(nil, r)
	if err != nil {
		return nil, 0, nil
	}
	return idx, size, nil
}

// buildSuperframeIndex derives the minimal-width superframe index needed
// to describe sizes, the way assemble_fragment computes size_len from the
// largest unit.
func buildSuperframeIndex(sizes []uint32) (*SuperframeIndex, error) {
	if len(sizes) == 0 || len(sizes) > maxFramesInSuperframe {
		return nil, cbs.ErrInvalidData
	}

	var max uint32
	for _, s := range sizes {
		if s > max {
			max = s
		}
	}

	sizeLen := 1
	if max >= 2 {
		bits := 0
		for v := max; v != 0; v >>= 1 {
			bits++
		}
		sizeLen = (bits-1)/8 + 1
	}

	return &SuperframeIndex{
		SuperframeMarker:         superframeMarkerValue,
		BytesPerFramesizeMinus1:  uint8(sizeLen - 1),
		FramesInSuperframeMinus1: uint8(len(sizes) - 1),
		FrameSizes:               sizes,
	}, nil
}

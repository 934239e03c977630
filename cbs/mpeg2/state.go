/*
NAME
  state.go

DESCRIPTION
  state.go holds the cross-unit state a stream's sequence/sequence
  extension/picture coding extension carry forward: the picture
  dimensions (needed to know whether a slice carries
  slice_vertical_position_extension), the scalability mode (affecting
  slice_header()'s priority_breakpoint), progressive_sequence (affecting
  picture_coding_extension()'s derivation of
  number_of_frame_centre_offsets), and that derived count itself, which
  picture_display_extension() needs to know how many offset pairs to
  read.

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

// privateState is the codec's cross-unit state, analogous to
// CodedBitstreamMPEG2Context.
type privateState struct {
	horizontalSize uint64
	verticalSize   uint64

	progressiveSequence bool

	// scalable/scalableMode are not derived from any syntax this package
	// decomposes (sequence scalable extension is not a recognised
	// extension id here); they default to false/0, meaning slice_header()
	// never reads priority_breakpoint. A stream using MPEG-2's
	// scalability profiles would need that extension added.
	scalable     bool
	scalableMode uint64

	// numberOfFrameCentreOffsets is derived by picture_coding_extension()
	// and consumed by the picture_display_extension() that (if present)
	// immediately follows it in the same picture's extension_and_user_data().
	numberOfFrameCentreOffsets int
}

func newPrivateState() *privateState { return &privateState{} }

func (p *privateState) reset() { *p = privateState{} }

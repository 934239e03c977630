/*
NAME
  state.go

DESCRIPTION
  state.go defines the AV1 codec plug-in's private per-Context state: the
  active sequence header, the most recently seen frame header (needed to
  decode a redundant_frame_header OBU, which repeats the prior frame
  header's bits verbatim), the operating point selection used to drop
  OBUs outside it, and the seen_frame_header flag governing whether a
  following tile_group OBU continues the current frame or starts a new
  one.

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

// refFrameSlots is the number of reference-frame slots (NUM_REF_FRAMES in
// the AV1 spec).
const refFrameSlots = 8

// refFrameState is the subset of a decoded reference frame's properties
// later frame headers need: its dimensions and order hint, used to
// resolve frame_size_with_refs() and order-hint-dependent inference.
type refFrameState struct {
	valid      bool
	width      int
	height     int
	orderHint  int
	frameType  int
}

// privateState is the AV1 plug-in's Context.Private value.
type privateState struct {
	sequenceHeader *SequenceHeader

	// operatingPointIDC selects which spatial/temporal layers survive
	// drop_obu() filtering; zero means "no filtering" (decode everything).
	operatingPointIDC uint64

	seenFrameHeader   bool
	currentFrameHeader *FrameHeader
	frameHeaderBytes  []byte // not populated; redundant frame headers reuse currentFrameHeader.

	refFrames [refFrameSlots]refFrameState
}

func newPrivateState() *privateState {
	return &privateState{}
}

// reset clears all cross-fragment state, used by Flush (e.g. on seek).
func (p *privateState) reset() {
	*p = privateState{}
}

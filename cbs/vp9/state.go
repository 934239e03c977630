/*
NAME
  state.go

DESCRIPTION
  state.go defines this codec's private per-Context state: the active
  frame's dimensions in mode-info/superblock units (needed by tile_info's
  min/max tile column derivation) and the 8-slot reference frame table
  (dimensions, subsampling, bit depth) that a frame's
  frame_size_with_refs/intra_only path could be validated against. This
  package declares the table but never fills or consults it (see
  DESIGN.md).

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

const (
	numRefFrames  = 8
	refsPerFrame  = 3
	maxRefFrames  = 4
	maxSegments   = 8
	segLvlMax     = 4
	maxFramesInSuperframe = 8
)

// referenceFrameState is the subset of a reference frame slot's properties
// later frames' headers are checked or inferred against.
type referenceFrameState struct {
	frameWidth, frameHeight   int
	subsamplingX, subsamplingY uint8
	bitDepth                  int
	valid                     bool
}

// privateState is this codec's per-Context state, threaded through every
// read/write the way CodedBitstreamVP9Context is in the original.
type privateState struct {
	profile int

	miCols, miRows     uint16
	sb64Cols, sb64Rows uint16

	frameWidth, frameHeight int
	subsamplingX, subsamplingY uint8
	bitDepth int

	ref [numRefFrames]referenceFrameState
}

func newPrivateState() *privateState { return &privateState{} }

// reset clears all cross-fragment state, used on Flush.
func (p *privateState) reset() { *p = privateState{} }

// updateFrameDimensions recomputes the mode-info and superblock grid sizes
// from a newly read frame_size, the way frame_size() does inline.
func (p *privateState) updateFrameDimensions(widthMinus1, heightMinus1 uint16) {
	p.frameWidth = int(widthMinus1) + 1
	p.frameHeight = int(heightMinus1) + 1
	p.miCols = (widthMinus1 + 8) >> 3
	p.miRows = (heightMinus1 + 8) >> 3
	p.sb64Cols = (p.miCols + 7) >> 3
	p.sb64Rows = (p.miRows + 7) >> 3
}

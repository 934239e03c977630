/*
NAME
  frame.go

DESCRIPTION
  frame.go defines FrameHeader (the frame tag plus the full compressed
  frame header) and Frame, the decomposed content of the one and only unit
  type this package produces: a VP8 frame is, in this framework's terms,
  both the unit and the frame.

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

// Frame type values for FrameHeader.FrameType.
const (
	KeyFrame    = 0
	NonKeyFrame = 1
)

// VP8 key frame start code, a fixed 3-byte marker following the frame tag.
const (
	startCode0 = 0x9d
	startCode1 = 0x01
	startCode2 = 0x2a
)

// FrameHeader holds every syntax element of the frame tag (always present)
// and the compressed frame header (the probability-coded part following
// it), laid out as one flat struct the way the original combines both
// into a single type.
type FrameHeader struct {
	// Frame tag.
	FrameType                   uint8
	Profile                     uint8
	ShowFrame                   uint8
	FirstPartitionLengthInBytes uint32

	Width           uint16
	HorizontalScale uint8
	Height          uint16
	VerticalScale   uint8

	// Frame header.
	ColorSpace   uint8
	ClampingType uint8

	SegmentationEnable           bool
	UpdateSegmentMap             bool
	UpdateSegmentFeatureData     bool
	SegmentFeatureMode           uint8
	SegmentQPUpdate              [4]bool
	SegmentQP                    [4]int8
	SegmentLoopFilterLevelUpdate [4]bool
	SegmentLoopFilterLevel       [4]int8
	SegmentProbsUpdate           [3]bool
	SegmentProbs                [3]uint8

	LoopFilterType       uint8
	LoopFilterLevel      uint8
	LoopFilterSharpness  uint8
	ModeRefLFDeltaEnable bool
	ModeRefLFDeltaUpdate bool
	RefLFDeltasUpdate    [4]bool
	RefLFDeltas          [4]int8
	ModeLFDeltasUpdate   [4]bool
	ModeLFDeltas         [4]int8

	Log2TokenPartitions uint8

	BaseQIndex        uint8
	Y1DCDeltaQPresent bool
	Y1DCDeltaQ        int8
	Y2DCDeltaQPresent bool
	Y2DCDeltaQ        int8
	Y2ACDeltaQPresent bool
	Y2ACDeltaQ        int8
	UVDCDeltaQPresent bool
	UVDCDeltaQ        int8
	UVACDeltaQPresent bool
	UVACDeltaQ        int8

	RefreshGoldenFrame        bool
	RefreshAlternateFrame     bool
	CopyBufferToGolden        uint8
	CopyBufferToAlternate     uint8
	RefFrameSignBiasGolden    bool
	RefFrameSignBiasAlternate bool
	RefreshLastFrame          bool

	RefreshEntropyProbs bool

	CoeffProbUpdate [4][8][3][11]bool
	CoeffProb       [4][8][3][11]uint8

	MBNoSkipCoeff bool
	ProbSkipFalse uint8

	ProbIntra  uint8
	ProbLast   uint8
	ProbGolden uint8

	Intra16x16ProbUpdate bool
	Intra16x16Prob       [4]uint8

	IntraChromaProbUpdate bool
	IntraChromaProb       [3]uint8

	MVProbUpdate [2][19]bool
	MVProb       [2][19]uint8
}

// Frame is a unit's decomposed content: its header plus a zero-copy view
// of the residual (first- and token-partition) bytes following it, which
// this package carries but does not itself decode.
type Frame struct {
	Header FrameHeader

	Data    []byte
	DataRef *cbs.Buffer
}

func (f *Frame) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }

func (f *Frame) Clone() cbs.Content {
	clone := *f
	clone.DataRef = f.DataRef.Ref()
	return &clone
}

func (f *Frame) BufferRef() *cbs.Buffer { return f.DataRef }

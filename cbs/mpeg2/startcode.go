/*
NAME
  startcode.go

DESCRIPTION
  startcode.go defines the MPEG-2 Video start code values (ISO/IEC
  13818-2 table 6-1) and the helpers used to tell a slice start code
  apart from the fixed ones.

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

import "github.com/ausocean/cbs"

const (
	startPicture        cbs.UnitType = 0x00
	startSliceMin        cbs.UnitType = 0x01
	startSliceMax        cbs.UnitType = 0xaf
	startUserData       cbs.UnitType = 0xb2
	startSequenceHeader cbs.UnitType = 0xb3
	startExtension      cbs.UnitType = 0xb5
	startSequenceEnd    cbs.UnitType = 0xb7
	startGroup          cbs.UnitType = 0xb8
)

// Extension start code identifiers, carried in the 4 bits following
// extension_start_code in an extension_data() unit.
const (
	extensionSequence        = 1
	extensionSequenceDisplay = 2
	extensionQuantMatrix     = 3
	extensionPictureDisplay  = 7
	extensionPictureCoding   = 8
)

// isSlice reports whether t falls in the picture-slice start code range.
func isSlice(t cbs.UnitType) bool { return t >= startSliceMin && t <= startSliceMax }

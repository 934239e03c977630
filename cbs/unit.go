/*
NAME
  unit.go

DESCRIPTION
  unit.go implements the Unit type: the smallest independently parseable
  element of a coded bitstream (an AV1 OBU, an MPEG-2 start-code-prefixed
  segment, a VP8 or VP9 frame). A unit may carry its raw bitstream bytes,
  its decomposed content, or both.

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

// UnitType is a codec-specific numeric unit type: an AV1 obu_type, an
// MPEG-2 start code value, or (for VP8/VP9, where every unit is a frame)
// zero.
type UnitType uint32

// Unit is the smallest independently parseable element of a stream.
type Unit struct {
	Type UnitType

	// Data is a zero-copy view into DataRef's bytes, or nil if the unit
	// currently only exists in decomposed form.
	Data           []byte
	DataRef        *Buffer
	DataBitPadding int // bits to ignore in the last byte of Data.

	// Content is the decomposed form of this unit, or nil if the unit
	// currently only exists in raw bitstream form. Its concrete type
	// depends on (codec, Type).
	Content Content

	// ContentRef mirrors Content.BufferRef(): the buffer the content
	// borrows bytes from, or nil for plain, externally-owned content.
	// Kept alongside Content so free() can Unref it even after Content has
	// been set to nil.
	ContentRef *Buffer
}

// free releases a unit's owned resources: its content and both buffer
// references.
func (u *Unit) free() {
	u.Content = nil
	u.ContentRef.Unref()
	u.ContentRef = nil
	u.Data = nil
	u.DataRef.Unref()
	u.DataRef = nil
}

// MakeRefCounted ensures u.Content is not sharing its backing buffer with
// any other unit, cloning it if the buffer is currently referenced more
// than once. This is the framework's make_unit_refcounted /
// make-unit-writable operation, required before in-place mutation of
// decomposed content in a pipeline that may have aliased units elsewhere.
func (u *Unit) MakeRefCounted() {
	if u.Content == nil || u.ContentRef == nil {
		return
	}
	if u.ContentRef.RefCount() <= 1 {
		return
	}
	clone := u.Content.Clone()
	u.ContentRef.Unref()
	u.Content = clone
	u.ContentRef = clone.BufferRef()
}

/*
NAME
  fragment.go

DESCRIPTION
  fragment.go implements the Fragment type: an ordered sequence of units
  that together form some meaningful whole (an AV1 Temporal Unit, an
  MPEG-2 picture, a VP9 superframe), together with the insert/delete/reset
  operations the framework exposes on it.

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

import "github.com/pkg/errors"

// Fragment is an ordered sequence of units, with an optional assembled
// byte buffer mirroring the units' data.
type Fragment struct {
	Data           []byte
	DataRef        *Buffer
	DataBitPadding int

	Units []Unit
}

// InsertUnitData splices a new raw-bytes unit at pos (-1 means append).
// The unit takes a new reference to owner; the byte view data must be a
// sub-range of owner.Bytes() (or otherwise be valid for as long as owner
// lives) for the zero-copy invariant to hold.
func (f *Fragment) InsertUnitData(pos int, typ UnitType, data []byte, owner *Buffer) error {
	u := Unit{Type: typ, Data: data, DataRef: owner.Ref()}
	return f.insert(pos, u)
}

// InsertUnitContent splices a new unit carrying decomposed content. If
// owner is nil, the content is externally owned: CBS will never free it,
// and the caller is responsible for its lifetime (used by metadata-
// inserting processors that construct content from scratch).
func (f *Fragment) InsertUnitContent(pos int, typ UnitType, content Content, owner *Buffer) error {
	u := Unit{Type: typ, Content: content}
	if owner != nil {
		u.ContentRef = owner.Ref()
	}
	return f.insert(pos, u)
}

func (f *Fragment) insert(pos int, u Unit) error {
	if pos == -1 || pos == len(f.Units) {
		f.Units = append(f.Units, u)
		return nil
	}
	if pos < 0 || pos > len(f.Units) {
		return errors.Errorf("insert position %d out of range [0,%d]", pos, len(f.Units))
	}
	f.Units = append(f.Units, Unit{})
	copy(f.Units[pos+1:], f.Units[pos:])
	f.Units[pos] = u
	return nil
}

// DeleteUnit drops the unit at pos, freeing its content and releasing its
// buffer references.
func (f *Fragment) DeleteUnit(pos int) error {
	if pos < 0 || pos >= len(f.Units) {
		return errors.Errorf("delete position %d out of range [0,%d)", pos, len(f.Units))
	}
	f.Units[pos].free()
	f.Units = append(f.Units[:pos], f.Units[pos+1:]...)
	return nil
}

// Reset clears all units (freeing their owned resources) but keeps the
// underlying slice capacity for reuse across fragments.
func (f *Fragment) Reset() {
	for i := range f.Units {
		f.Units[i].free()
	}
	f.Units = f.Units[:0]
	f.Data = nil
	f.DataRef.Unref()
	f.DataRef = nil
	f.DataBitPadding = 0
}

// Uninit releases everything, including the units slice itself.
func (f *Fragment) Uninit() {
	f.Reset()
	f.Units = nil
}

/*
NAME
  misc.go

DESCRIPTION
  misc.go implements the two trivial unit types: user_data() (an
  opaque, zero-copy byte run of unspecified meaning following the
  start code) and sequence_end() (a bare marker with no payload).

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

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// UserData is the decomposed content of a startUserData unit: the start
// code plus an opaque, byte-aligned run to the end of the unit.
type UserData struct {
	Data    []byte
	DataRef *cbs.Buffer
}

func (u *UserData) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }
func (u *UserData) Clone() cbs.Content {
	c := *u
	c.DataRef = c.DataRef.Ref()
	return &c
}
func (u *UserData) BufferRef() *cbs.Buffer { return u.DataRef }

func readUserData(t *cbs.Trace, r *bits.Reader, owner *cbs.Buffer) (*UserData, error) {
	t.Header("User Data")

	if _, err := readUI(t, r, 8, "user_data_start_code", nil); err != nil {
		return nil, err
	}
	if !r.ByteAligned() {
		return nil, cbs.ErrInvalidData
	}
	return &UserData{Data: r.Remaining(), DataRef: owner.Ref()}, nil
}

func writeUserData(t *cbs.Trace, w *bits.Writer, u *UserData) error {
	t.Header("User Data")

	if err := writeUI(t, w, 8, "user_data_start_code", nil, uint64(startUserData)); err != nil {
		return err
	}
	return w.WriteBytes(u.Data)
}

// SequenceEnd is the decomposed content of a startSequenceEnd unit: it
// carries no fields beyond the start code itself.
type SequenceEnd struct{}

func (s *SequenceEnd) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (s *SequenceEnd) Clone() cbs.Content     { return &SequenceEnd{} }
func (s *SequenceEnd) BufferRef() *cbs.Buffer { return nil }

func readSequenceEnd(t *cbs.Trace, r *bits.Reader) (*SequenceEnd, error) {
	t.Header("Sequence End")
	if _, err := readUI(t, r, 8, "sequence_end_code", nil); err != nil {
		return nil, err
	}
	return &SequenceEnd{}, nil
}

func writeSequenceEnd(t *cbs.Trace, w *bits.Writer, _ *SequenceEnd) error {
	t.Header("Sequence End")
	return writeUI(t, w, 8, "sequence_end_code", nil, uint64(startSequenceEnd))
}

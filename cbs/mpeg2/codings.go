/*
NAME
  codings.go

DESCRIPTION
  codings.go provides the thin per-element helpers the rest of this
  package calls instead of cbs.ReadUnsigned/WriteUnsigned directly:
  plain unsigned fields (ui), unsigned fields required to be non-zero
  (uir, matching the original's "reserved" range of [1, max]), and the
  marker_bit() convention of a literal-valued single bit used
  throughout MPEG-2 to guard against start-code emulation.

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

func maxUint(width int) uint64 { return 1<<uint(width) - 1 }

// ui reads/writes a plain width-bit unsigned field with no range
// restriction beyond its bit width.
func readUI(t *cbs.Trace, r *bits.Reader, width int, name string, subs []int) (uint64, error) {
	return cbs.ReadUnsigned(t, r, width, name, subs, 0, maxUint(width))
}

func writeUI(t *cbs.Trace, w *bits.Writer, width int, name string, subs []int, v uint64) error {
	return cbs.WriteUnsigned(t, w, width, name, subs, v, 0, maxUint(width))
}

// uir reads/writes a width-bit unsigned field whose value of zero would
// be a reserved/invalid encoding; the original tags these "uir" for
// "unsigned int, reserved zero disallowed".
func readUIR(t *cbs.Trace, r *bits.Reader, width int, name string, subs []int) (uint64, error) {
	return cbs.ReadUnsigned(t, r, width, name, subs, 1, maxUint(width))
}

func writeUIR(t *cbs.Trace, w *bits.Writer, width int, name string, subs []int, v uint64) error {
	return cbs.WriteUnsigned(t, w, width, name, subs, v, 1, maxUint(width))
}

// readSI/writeSI mirror the original's signed integer element: width
// magnitude bits, a sign bit, full range for the given width.
func readSI(t *cbs.Trace, r *bits.Reader, width int, name string, subs []int) (int64, error) {
	max := int64(maxUint(width))
	return cbs.ReadSigned(t, r, width, name, subs, -max, max)
}

func writeSI(t *cbs.Trace, w *bits.Writer, width int, name string, subs []int, v int64) error {
	max := int64(maxUint(width))
	return cbs.WriteSigned(t, w, width, name, subs, v, -max, max)
}

// readMarkerBit/writeMarkerBit read/write the literal-valued single bit
// used throughout MPEG-2 as a start-code emulation guard.
func readMarkerBit(t *cbs.Trace, r *bits.Reader) error {
	_, err := cbs.ReadUnsigned(t, r, 1, "marker_bit", nil, 1, 1)
	return err
}

func writeMarkerBit(t *cbs.Trace, w *bits.Writer) error {
	return cbs.WriteUnsigned(t, w, 1, "marker_bit", nil, 1, 1, 1)
}

// readBit/writeBit mirror the original's bit(string, value) macro: a
// literal-valued single bit with a caller-chosen trace name, used for
// the extra_information continuation flag.
func readBit(t *cbs.Trace, r *bits.Reader, name string, value uint64) error {
	_, err := cbs.ReadUnsigned(t, r, 1, name, nil, value, value)
	return err
}

func writeBit(t *cbs.Trace, w *bits.Writer, name string, value uint64) error {
	return cbs.WriteUnsigned(t, w, 1, name, nil, value, value, value)
}

/*
NAME
  buffer.go

DESCRIPTION
  buffer.go implements the shared-immutable byte buffer that backs unit
  data and any decomposed content which borrows bytes from it (tile
  groups, slice payloads, metadata blobs). It is the Go stand-in for the
  framework's Arc<[u8]>: a Buffer is created once around a []byte, handed
  out by reference, and its bytes are never mutated through a shared
  reference. Refcounts are manipulated with sync/atomic rather than a
  mutex because a Context (and everything reachable from it) is used by a
  single goroutine at a time; see the concurrency model in SPEC_FULL.md §5.

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

import "sync/atomic"

// Buffer is a reference-counted owner of a byte slice. Multiple units, and
// multiple fragments, may hold a Ref to the same Buffer; the underlying
// bytes are logically freed only once every reference has been dropped.
// Go's garbage collector would reclaim the backing array regardless, but
// the refcount is kept explicit so CBS's ownership invariants (unit
// content must not outlive the buffer it borrows from, round-trip tests
// that free the input packet before the fragment) are checkable and so the
// model matches the originating C design that this framework is ported
// from.
type Buffer struct {
	data []byte
	refs int32
}

// NewBuffer wraps data in a Buffer with an initial reference count of one.
// data is not copied.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data, refs: 1}
}

// Bytes returns the buffer's underlying bytes. Callers must not retain a
// reference to the Buffer obtained like this.
func (b *Buffer) Bytes() []byte { return b.data }

// Ref increments the reference count and returns b, so that
//
//	unit.DataRef = srcBuf.Ref()
//
// reads naturally as "take a reference".
func (b *Buffer) Ref() *Buffer {
	if b == nil {
		return nil
	}
	atomic.AddInt32(&b.refs, 1)
	return b
}

// Unref decrements the reference count. Once it reaches zero the Buffer's
// data is released (set to nil) so that a use-after-unref shows up
// immediately rather than silently working by accident.
func (b *Buffer) Unref() {
	if b == nil {
		return
	}
	if atomic.AddInt32(&b.refs, -1) == 0 {
		b.data = nil
	}
}

// RefCount reports the current reference count; exposed for tests that
// check reference-counting soundness across Clone/Unref sequences.
func (b *Buffer) RefCount() int32 {
	if b == nil {
		return 0
	}
	return atomic.LoadInt32(&b.refs)
}

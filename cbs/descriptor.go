/*
NAME
  descriptor.go

DESCRIPTION
  descriptor.go defines the per-(codec, unit type) descriptor type (no
  table of descriptors is built), and the Content interface every
  codec's decomposed content type implements. The C original drives
  clone/free by walking descriptor-declared buffer-ref offsets with unsafe
  pointer arithmetic; Go gives a cleaner equivalent via Clone/BufferRef
  methods on the content value itself, so the descriptor type here covers
  only the parts of the data model that are genuinely descriptive (content
  kind, for trace/debugging) rather than to drive unsafe field walks.

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

// ContentKind classifies a unit type's decomposed content for documentation
// and trace purposes.
type ContentKind int

const (
	// ContentPlain content has no owned sub-buffers.
	ContentPlain ContentKind = iota
	// ContentInternalRefs content holds a pointer into a single referenced
	// buffer, e.g. a tile group's opaque payload.
	ContentInternalRefs
	// ContentComplex content owns an independent buffer of its own. No
	// content type in this module reports it; AV1 ITU-T T.35 payloads are
	// views into the unit's buffer and report ContentInternalRefs.
	ContentComplex
)

// Content is implemented by every codec's decomposed unit content type.
type Content interface {
	// Kind reports this content's ContentKind, for trace/debugging only.
	Kind() ContentKind

	// Clone returns an independently mutable copy of the content. Any
	// Buffer the content borrows bytes from is Ref'd by the clone so the
	// underlying bytes continue to be shared rather than copied.
	Clone() Content

	// BufferRef returns the Buffer this content borrows bytes from, or nil
	// if the content is ContentPlain and owns no sub-buffer.
	BufferRef() *Buffer
}

// UnitTypeDescriptor is a static, descriptive table entry for a
// (codec, unit type) pair, used by trace/debugging tools that want a
// human-readable name and content kind without needing a live content
// instance.
type UnitTypeDescriptor struct {
	Kind ContentKind
	Name string
}

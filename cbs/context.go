/*
NAME
  context.go

DESCRIPTION
  context.go implements Context: process-wide state for one decode/encode
  session on one codec. A Context is created with a codec id, used across
  many fragments, optionally flushed between streams, and finally closed.
  It is not shareable between goroutines; a caller wanting parallelism
  creates one Context per goroutine.

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

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// defaultWriteBufferSize is the initial size of a Context's reusable write
// buffer, doubled on ErrOverflow during write_unit.
const defaultWriteBufferSize = 4096

// Context is per-session state for one codec.
type Context struct {
	codec   Codec
	Private interface{}

	log logging.Logger

	// DecomposeUnitTypes restricts which unit types ReadUnit is called for
	// on read. A nil/empty set (the zero value) means "decompose every
	// type", matching the framework default.
	DecomposeUnitTypes map[UnitType]bool

	// TraceEnable and TraceLevel configure the trace sink used by every
	// range-checked element read/write.
	TraceEnable bool
	TraceLevel  int8
	trace       *Trace

	writeBuf []byte
}

// Init creates and initialises a new Context for codec id, using log for
// all trace and diagnostic output. It fails with ErrUnsupported if no
// plug-in for id has been registered (the plug-in package must have been
// imported for its init() side effect to run).
func Init(id CodecID, log logging.Logger) (*Context, error) {
	c := lookupCodec(id)
	if c == nil {
		return nil, errors.Wrapf(ErrUnsupported, "codec %s not registered", id)
	}
	ctx := &Context{
		codec:      c,
		Private:    c.NewPrivate(),
		log:        log,
		TraceLevel: logging.Debug,
		writeBuf:   make([]byte, defaultWriteBufferSize),
	}
	ctx.trace = &Trace{Log: log}
	return ctx, nil
}

// Close releases the Context's private state. After Close the Context
// must not be used again.
func (ctx *Context) Close() {
	ctx.Private = nil
}

// Flush forwards to the codec's Flush hook, clearing cross-fragment state
// such as AV1's active sequence header and reference frames, or VP9's
// reference-frame dimension table. Used when a decoder is seeked.
func (ctx *Context) Flush() {
	ctx.codec.Flush(ctx)
}

// ID reports the codec this Context operates on.
func (ctx *Context) ID() CodecID { return ctx.codec.ID() }

// shouldDecompose reports whether unit type t should be decomposed on
// read, per the decompose filter (component E: "the decompose filter").
func (ctx *Context) shouldDecompose(t UnitType) bool {
	if len(ctx.DecomposeUnitTypes) == 0 {
		return true
	}
	return ctx.DecomposeUnitTypes[t]
}

// syncTrace refreshes the trace sink's enable/level flags from the
// Context's public TraceEnable/TraceLevel fields; called at the start of
// every dispatcher entry point so mid-stream toggles take effect
// immediately.
func (ctx *Context) syncTrace() *Trace {
	ctx.trace.Enable = ctx.TraceEnable
	ctx.trace.Level = ctx.TraceLevel
	return ctx.trace
}

// Trace returns the Context's trace sink, for use by codec plug-ins.
func (ctx *Context) Trace() *Trace { return ctx.syncTrace() }

// growWriteBuffer doubles the Context's reusable write buffer, used by the
// write_unit double-and-retry loop on ErrOverflow.
func (ctx *Context) growWriteBuffer() {
	ctx.writeBuf = make([]byte, len(ctx.writeBuf)*2)
}

/*
NAME
  trace.go

DESCRIPTION
  trace.go provides the structured trace sink used by the range-checked
  element readers/writers (component B of the framework): a "header" line
  per syntax structure and a "position | name[subs] | bits | value" line
  per syntax element. Framing reads (split_fragment) are not traced: the
  codecs' splits read without a trace or with a disabled one.

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

import "github.com/ausocean/utils/logging"

// Trace is the structured side-channel written to during read and write of
// every named syntax element.
type Trace struct {
	Enable bool
	Level  int8
	Log    logging.Logger
}

// Header writes a banner line for the start of a syntax structure, e.g.
// "Sequence Header".
func (t *Trace) Header(name string) {
	if t == nil || !t.Enable || t.Log == nil {
		return
	}
	t.Log.Log(t.Level, "--- "+name+" ---")
}

// Element writes one "position | name[subs] | bits | value" trace line.
func (t *Trace) Element(pos int, name string, subs []int, bitString string, value int64) {
	if t == nil || !t.Enable || t.Log == nil {
		return
	}
	t.Log.Log(t.Level, name+formatSubscripts(subs), "pos", pos, "bits", bitString, "value", value)
}

// suppress disables tracing for the duration of fn and restores the prior
// state afterwards. Nothing in this module calls it.
func (t *Trace) suppress(fn func()) {
	if t == nil {
		fn()
		return
	}
	was := t.Enable
	t.Enable = false
	fn()
	t.Enable = was
}

// bitString renders the low n bits of v as a string of '0'/'1' characters,
// most significant bit first.
func bitString(v uint64, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		if v&(1<<uint(n-1-i)) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

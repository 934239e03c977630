package av1

import (
	"bytes"
	"testing"

	"github.com/ausocean/cbs"
)

// obuBytes hand-assembles a minimal one-byte-header, single-byte-leb128-size
// OBU: [forbidden=0][type:4][ext=0][has_size=1][reserved=0], size, payload.
func obuBytes(typ byte, payload []byte) []byte {
	header := (typ&0xf)<<3 | 1<<1
	b := []byte{header, byte(len(payload))}
	return append(b, payload...)
}

func TestSplitFragmentRoundTrip(t *testing.T) {
	td := obuBytes(byte(OBUTemporalDelimiter), nil)
	pad := obuBytes(byte(OBUPadding), []byte{0xaa, 0xbb, 0xcc})
	data := append(append([]byte{}, td...), pad...)

	frag := &cbs.Fragment{Data: data}
	if err := splitFragment(nil, frag, false); err != nil {
		t.Fatalf("splitFragment: %v", err)
	}
	if len(frag.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(frag.Units))
	}
	if frag.Units[0].Type != OBUTemporalDelimiter {
		t.Errorf("unit 0 type = %v, want OBUTemporalDelimiter", frag.Units[0].Type)
	}
	if frag.Units[1].Type != OBUPadding {
		t.Errorf("unit 1 type = %v, want OBUPadding", frag.Units[1].Type)
	}

	if err := assembleFragment(nil, frag); err != nil {
		t.Fatalf("assembleFragment: %v", err)
	}
	if !bytes.Equal(frag.Data, data) {
		t.Errorf("assembled bytes = %x, want %x", frag.Data, data)
	}
}

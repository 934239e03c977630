package av1

import (
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func roundTripLeb128(t *testing.T, value uint64) {
	t.Helper()
	trace := &cbs.Trace{}
	buf := make([]byte, 16)
	w := bits.NewWriter(buf)
	if err := writeLeb128(trace, w, "v", value); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bits.NewReader(w.Bytes())
	got, err := readLeb128(trace, r, "v")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != value {
		t.Errorf("leb128 round trip: got %d, want %d", got, value)
	}
}

func TestLeb128RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 16383, 16384, 0xffffffff} {
		roundTripLeb128(t, v)
	}
}

func TestUvlcRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	for _, v := range []uint64{0, 1, 2, 7, 8, 1000, 0xffffffff} {
		buf := make([]byte, 16)
		w := bits.NewWriter(buf)
		if err := writeUvlc(trace, w, "v", v, 0, 0xffffffff); err != nil {
			t.Fatalf("write(%d): %v", v, err)
		}
		r := bits.NewReader(w.Bytes())
		got, err := readUvlc(trace, r, "v", 0, 0xffffffff)
		if err != nil {
			t.Fatalf("read(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("uvlc round trip: got %d, want %d", got, v)
		}
	}
}

func TestNSRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	const n = 11
	for v := uint64(0); v < n; v++ {
		buf := make([]byte, 4)
		w := bits.NewWriter(buf)
		if err := writeNS(trace, w, "v", v, n); err != nil {
			t.Fatalf("write(%d): %v", v, err)
		}
		r := bits.NewReader(w.Bytes())
		got, err := readNS(trace, r, "v", n)
		if err != nil {
			t.Fatalf("read(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ns round trip: got %d, want %d", got, v)
		}
	}
}

func TestDeltaQRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	for _, v := range []int{0, 1, -1, 63, -63} {
		buf := make([]byte, 4)
		w := bits.NewWriter(buf)
		if err := writeDeltaQ(trace, w, "dq", v); err != nil {
			t.Fatalf("write(%d): %v", v, err)
		}
		r := bits.NewReader(w.Bytes())
		got, err := readDeltaQ(trace, r, "dq")
		if err != nil {
			t.Fatalf("read(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("delta_q round trip: got %d, want %d", got, v)
		}
	}
}

package mpeg2

import (
	"bytes"
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestSliceHeaderRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	priv := newPrivateState()
	priv.verticalSize = 3000 // exercise slice_vertical_position_extension

	h := &SliceHeader{
		VerticalPosition:          1,
		VerticalPositionExtension: 5,
		QuantiserScaleCode:        16,
	}

	buf := make([]byte, 16)
	w := bits.NewWriter(buf)
	if err := writeSliceHeader(trace, w, h, priv); err != nil {
		t.Fatalf("write: %v", err)
	}

	priv2 := newPrivateState()
	priv2.verticalSize = 3000
	r := bits.NewReader(w.Bytes())
	got, err := readSliceHeader(trace, r, priv2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.VerticalPosition != h.VerticalPosition ||
		got.VerticalPositionExtension != h.VerticalPositionExtension ||
		got.QuantiserScaleCode != h.QuantiserScaleCode {
		t.Errorf("slice header round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestSliceDataRoundTrip(t *testing.T) {
	payload := []byte{0xf0, 0x0f, 0xaa, 0x55}
	for _, bitStart := range []int{0, 3, 7} {
		buf := make([]byte, 32)
		w := bits.NewWriter(buf)
		// Simulate a header occupying the leading bitStart bits of the
		// writer before the slice data itself is appended.
		if bitStart > 0 {
			if err := w.WriteBits(bitStart, 0); err != nil {
				t.Fatalf("header bits: %v", err)
			}
		}
		if err := writeSliceData(w, payload, bitStart); err != nil {
			t.Fatalf("writeSliceData(%d): %v", bitStart, err)
		}

		r := bits.NewReader(w.Bytes())
		if bitStart > 0 {
			if _, err := r.ReadBits(bitStart); err != nil {
				t.Fatalf("skip header bits: %v", err)
			}
		}
		owner := cbs.NewBuffer(r.Bytes())
		data, ref, gotBitStart, err := readSliceData(r, owner)
		if err != nil {
			t.Fatalf("readSliceData(%d): %v", bitStart, err)
		}
		if gotBitStart != bitStart {
			t.Errorf("bitStart: got %d, want %d", gotBitStart, bitStart)
		}
		ref.Unref()

		// Reconstruct the original payload bits from the captured range
		// the same way writeSliceData would re-emit them.
		buf2 := make([]byte, 32)
		w2 := bits.NewWriter(buf2)
		if bitStart > 0 {
			if err := w2.WriteBits(bitStart, 0); err != nil {
				t.Fatalf("re-header bits: %v", err)
			}
		}
		if err := writeSliceData(w2, data, bitStart); err != nil {
			t.Fatalf("re-write: %v", err)
		}
		if !bytes.Equal(w2.Bytes(), w.Bytes()) {
			t.Errorf("bitStart=%d: re-emitted bytes = %x, want %x", bitStart, w2.Bytes(), w.Bytes())
		}
	}
}

package mpeg2

import (
	"bytes"
	"testing"

	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

func TestQuantMatrixRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	var m [64]uint8
	for i := range m {
		m[i] = uint8(i + 1)
	}

	buf := make([]byte, 64)
	w := bits.NewWriter(buf)
	if err := writeQuantMatrix(trace, w, "m", m); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got [64]uint8
	r := bits.NewReader(w.Bytes())
	if err := readQuantMatrix(trace, r, "m", &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != m {
		t.Errorf("quant matrix round trip mismatch")
	}
}

func TestExtraInformationRoundTrip(t *testing.T) {
	trace := &cbs.Trace{}
	for _, data := range [][]byte{nil, {1}, {1, 2, 3, 4, 5}} {
		buf := make([]byte, 16)
		w := bits.NewWriter(buf)
		if err := writeExtraInformation(trace, w, data, "e[k]", "bit"); err != nil {
			t.Fatalf("write(%v): %v", data, err)
		}
		r := bits.NewReader(w.Bytes())
		got, err := readExtraInformation(trace, r, "e[k]", "bit")
		if err != nil {
			t.Fatalf("read(%v): %v", data, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("extra_information round trip: got %v, want %v", got, data)
		}
	}
}

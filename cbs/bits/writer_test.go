package bits

import "testing"

func TestWriteBitsRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)

	if err := w.WriteBits(4, 0x8); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(2, 0x3); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(4, 0xf); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(6, 0x23); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x8f, 0xe3}
	got := w.Bytes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %x, want %x", got, want)
	}

	r := NewReader(got)
	for _, n := range []int{4, 2, 4, 6} {
		if _, err := r.ReadBits(n); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWriteBitsOverflow(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf)
	if err := w.WriteBits(9, 0); err != ErrOverflow {
		t.Errorf("got %v, want ErrOverflow", err)
	}
}

func TestAlignToByte(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	if err := w.WriteBits(3, 0x5); err != nil {
		t.Fatal(err)
	}
	w.AlignToByte()
	if w.Pos() != 8 {
		t.Errorf("pos = %d, want 8", w.Pos())
	}
	if err := w.WriteBytes([]byte{0xaa}); err != nil {
		t.Fatal(err)
	}
	if got := w.Bytes(); got[1] != 0xaa {
		t.Errorf("got %x, want second byte 0xaa", got)
	}
}

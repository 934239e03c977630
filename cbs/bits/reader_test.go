package bits

import "testing"

func TestReadBits(t *testing.T) {
	// 1000 1111, 1110 0011
	r := NewReader([]byte{0x8f, 0xe3})

	cases := []struct {
		n    int
		want uint64
	}{
		{4, 0x8},
		{2, 0x3},
		{4, 0xf},
		{6, 0x23},
	}
	for i, c := range cases {
		got, err := r.ReadBits(c.n)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if got != c.want {
			t.Errorf("case %d: got 0x%x, want 0x%x", i, got, c.want)
		}
	}
}

func TestReadBits32MatchesTwo16BitReads(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78}

	r1 := NewReader(data)
	want, err := r1.ReadBits(32)
	if err != nil {
		t.Fatal(err)
	}

	r2 := NewReader(data)
	hi, err := r2.ReadBits(16)
	if err != nil {
		t.Fatal(err)
	}
	lo, err := r2.ReadBits(16)
	if err != nil {
		t.Fatal(err)
	}
	got := hi<<16 | lo

	if got != want {
		t.Errorf("got 0x%x, want 0x%x", got, want)
	}
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0x8f, 0xe3})

	peek, err := r.PeekBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if peek != 0x8f {
		t.Errorf("peek: got 0x%x, want 0x8f", peek)
	}

	read, err := r.ReadBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if read != 0x8f {
		t.Errorf("read after peek: got 0x%x, want 0x8f", read)
	}

	peek16, err := r.PeekBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if peek16 != 0xe3 {
		t.Errorf("second peek: got 0x%x, want 0xe3", peek16)
	}
}

func TestReadBitsInsufficientData(t *testing.T) {
	r := NewReader([]byte{0xff})
	if _, err := r.ReadBits(9); err != ErrInsufficientData {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}
}

func TestByteAlignedAndSkip(t *testing.T) {
	r := NewReader([]byte{0xff, 0x00, 0x11})
	if !r.ByteAligned() {
		t.Fatal("expected initial reader to be byte aligned")
	}
	if _, err := r.ReadBits(4); err != nil {
		t.Fatal(err)
	}
	if r.ByteAligned() {
		t.Fatal("expected reader to be unaligned after 4 bit read")
	}
	r.AlignToByte()
	if !r.ByteAligned() {
		t.Fatal("expected reader to be aligned after AlignToByte")
	}
	if err := r.SkipBytes(1); err != nil {
		t.Fatal(err)
	}
	v, err := r.ReadBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x11 {
		t.Errorf("got 0x%x, want 0x11", v)
	}
}

func TestRemainingIsZeroCopy(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data)
	r.SkipBytes(2)
	rem := r.Remaining()
	if &rem[0] != &data[2] {
		t.Error("Remaining did not return a view into the original backing array")
	}
}

package cbs

import "testing"

func TestBufferRefUnref(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	if b.RefCount() != 1 {
		t.Fatalf("RefCount = %d, want 1", b.RefCount())
	}

	b.Ref()
	b.Ref()
	if b.RefCount() != 3 {
		t.Fatalf("RefCount = %d, want 3 after two Ref calls", b.RefCount())
	}

	b.Unref()
	b.Unref()
	if b.RefCount() != 1 {
		t.Fatalf("RefCount = %d, want 1 after two Unref calls", b.RefCount())
	}
	if b.Bytes() == nil {
		t.Error("Bytes() went nil while a reference remains outstanding")
	}

	b.Unref()
	if b.RefCount() != 0 {
		t.Fatalf("RefCount = %d, want 0", b.RefCount())
	}
	if b.Bytes() != nil {
		t.Error("Bytes() should be nil once the last reference is dropped")
	}
}

func TestBufferNilSafe(t *testing.T) {
	var b *Buffer
	if b.Ref() != nil {
		t.Error("Ref on a nil Buffer should return nil")
	}
	b.Unref() // must not panic
	if b.RefCount() != 0 {
		t.Errorf("RefCount on nil Buffer = %d, want 0", b.RefCount())
	}
}

func TestFragmentInsertDelete(t *testing.T) {
	var f Fragment
	owner := NewBuffer([]byte{0xaa, 0xbb, 0xcc, 0xdd})

	if err := f.InsertUnitData(-1, UnitType(1), owner.Bytes()[0:2], owner); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := f.InsertUnitData(-1, UnitType(2), owner.Bytes()[2:4], owner); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := f.InsertUnitData(1, UnitType(3), nil, owner); err != nil {
		t.Fatalf("insert middle: %v", err)
	}
	if len(f.Units) != 3 || f.Units[1].Type != UnitType(3) {
		t.Fatalf("unexpected unit order: %+v", f.Units)
	}
	if owner.RefCount() != 4 { // 1 initial + 3 units.
		t.Errorf("RefCount = %d, want 4", owner.RefCount())
	}

	if err := f.InsertUnitData(10, UnitType(4), nil, owner); err == nil {
		t.Error("expected out-of-range insert to fail")
	}

	if err := f.DeleteUnit(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.Units) != 2 || f.Units[1].Type != UnitType(2) {
		t.Fatalf("unexpected units after delete: %+v", f.Units)
	}

	if err := f.DeleteUnit(5); err == nil {
		t.Error("expected out-of-range delete to fail")
	}

	f.Reset()
	if len(f.Units) != 0 || f.Data != nil {
		t.Errorf("fragment not cleared by Reset: %+v", f)
	}
}

func TestFragmentInsertContentExternallyOwned(t *testing.T) {
	var f Fragment
	if err := f.InsertUnitContent(-1, UnitType(1), nil, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if f.Units[0].ContentRef != nil {
		t.Error("ContentRef should stay nil for an externally owned content unit")
	}
}

package blob

import "testing"

func TestZeroBlobIsNull(t *testing.T) {
	var b Blob
	if !b.IsNull() {
		t.Error("zero Blob should be null")
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d; want 0", b.Len())
	}
}

func TestEmptyBackedBlobIsNotNull(t *testing.T) {
	b := New([]byte{})
	if b.IsNull() {
		t.Error("empty backed Blob should not be null")
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d; want 0", b.Len())
	}
}

func TestAtIsTotal(t *testing.T) {
	b := New([]byte{0x10, 0x20, 0x30})

	tests := []struct {
		pos  int
		want byte
	}{
		{0, 0x10},
		{2, 0x30},
		{3, 0x00},  // past the end
		{-1, 0x00}, // negative
		{1 << 20, 0x00},
	}
	for _, tt := range tests {
		if got := b.At(tt.pos); got != tt.want {
			t.Errorf("At(%d) = %#x; want %#x", tt.pos, got, tt.want)
		}
	}

	var null Blob
	if null.At(0) != 0x00 {
		t.Error("At on null Blob should yield 0x00")
	}
}

func TestFromString(t *testing.T) {
	b := FromString("alice@EXAMPLE.COM")
	if b.Len() != len("alice@EXAMPLE.COM") {
		t.Errorf("Len() = %d; want %d", b.Len(), len("alice@EXAMPLE.COM"))
	}
	if b.String() != "alice@EXAMPLE.COM" {
		t.Errorf("String() = %q", b.String())
	}
	if b.IsNull() {
		t.Error("FromString result should not be null")
	}

	empty := FromString("")
	if empty.IsNull() {
		t.Error("FromString(\"\") should be empty, not null")
	}
}

func TestCloneOwnsItsBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	cp := New(src).Clone()
	src[0] = 99
	if cp.At(0) != 1 {
		t.Error("Clone should not observe mutations of the source buffer")
	}

	var null Blob
	if !null.Clone().IsNull() {
		t.Error("Clone of null Blob should stay null")
	}
}

func TestBytesSharesBacking(t *testing.T) {
	src := []byte{1, 2, 3}
	b := New(src)
	b.Bytes()[1] = 42
	if src[1] != 42 {
		t.Error("Bytes should expose the backing buffer without copying")
	}
}

// Package blob provides a small value type describing a region of bytes.
//
// A Blob never owns the memory it describes; it is a view over a buffer
// allocated and kept alive by someone else. The accessors are total: reading
// past the end yields 0x00 instead of panicking, so upper layers can consume
// tokens and identity strings without null checks.
//
// The zero Blob is the null view: no backing buffer, zero length. A null Blob
// and an empty-but-backed Blob are distinct; wire.Conn uses the former to
// signal "nothing was received" and the latter for legal zero-length frames.
package blob

// Blob is a view over an externally owned byte region.
type Blob struct {
	data []byte
}

// New returns a Blob viewing data. The caller keeps ownership of data and
// must keep it alive for as long as the Blob is in use.
func New(data []byte) Blob {
	return Blob{data: data}
}

// FromString returns a Blob viewing the bytes of s.
func FromString(s string) Blob {
	if s == "" {
		return Blob{data: []byte{}}
	}
	return Blob{data: []byte(s)}
}

// Len returns the length of the region in bytes.
func (b Blob) Len() int {
	return len(b.data)
}

// At returns the byte at position i, or 0x00 when i is out of range.
func (b Blob) At(i int) byte {
	if i < 0 || i >= len(b.data) {
		return 0x00
	}
	return b.data[i]
}

// IsNull reports whether the Blob has no backing buffer at all.
// An empty view over a real buffer is not null.
func (b Blob) IsNull() bool {
	return b.data == nil
}

// Bytes returns the underlying bytes without copying. Callers must not hold
// the slice past the lifetime of the owning buffer.
func (b Blob) Bytes() []byte {
	return b.data
}

// Clone returns a Blob over a freshly owned copy of the region. Use it when
// a view must cross a module boundary that outlives the source buffer.
func (b Blob) Clone() Blob {
	if b.data == nil {
		return Blob{}
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return Blob{data: cp}
}

// String renders the region as a string. Intended for principal names and
// diagnostics, not for binary tokens.
func (b Blob) String() string {
	return string(b.data)
}

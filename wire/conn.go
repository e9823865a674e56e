package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/smnsjas/go-winauth/blob"
)

// MaxFrameSize bounds the payload of a single frame. Negotiation tokens are
// a few KiB at most; anything larger indicates a confused or hostile peer.
const MaxFrameSize = 64 * 1024

var (
	// ErrClosed is recorded when the transport reports closure mid-frame.
	ErrClosed = errors.New("wire: transport closed")

	// ErrFrameTooLarge is recorded when an inbound frame exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")
)

// Conn frames logical messages over a caller-owned byte-stream transport.
//
// Each frame is a 4-byte little-endian payload length followed by the payload
// itself. Zero-length frames are legal and carry meaning (absent principal,
// empty final token). The companion server implementation must use the same
// framing.
//
// Conn records the first transport error it observes and fails every later
// call without touching the transport again. It never closes the transport;
// transport lifetime belongs to the caller.
type Conn struct {
	rw  io.ReadWriter
	err error

	hdr [4]byte
	buf []byte // inbound payload buffer, reused across reads
}

// NewConn wraps an open transport. The transport is borrowed, not owned.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// Write sends one framed message. It reports the sticky error, if any,
// without performing I/O.
func (c *Conn) Write(b blob.Blob) error {
	if c.err != nil {
		return c.err
	}
	if b.Len() > MaxFrameSize {
		c.err = ErrFrameTooLarge
		return c.err
	}

	// Single transport write per frame so a stream peer never observes a
	// header without its payload.
	frame := make([]byte, 4+b.Len())
	binary.LittleEndian.PutUint32(frame[:4], uint32(b.Len()))
	copy(frame[4:], b.Bytes())

	if _, err := c.rw.Write(frame); err != nil {
		c.err = fmt.Errorf("wire: write frame: %w", err)
		return c.err
	}
	return nil
}

// Read blocks until one complete frame arrives and returns a view over an
// internal buffer. The view stays valid until the next Read. On transport
// failure it returns the null Blob and records the sticky error.
func (c *Conn) Read() blob.Blob {
	if c.err != nil {
		return blob.Blob{}
	}

	if _, err := io.ReadFull(c.rw, c.hdr[:]); err != nil {
		c.err = c.readErr("read frame header", err)
		return blob.Blob{}
	}

	n := binary.LittleEndian.Uint32(c.hdr[:])
	if n > MaxFrameSize {
		c.err = ErrFrameTooLarge
		return blob.Blob{}
	}

	if cap(c.buf) < int(n) {
		c.buf = make([]byte, n)
	}
	c.buf = c.buf[:n]
	if c.buf == nil {
		// Keep zero-length frames distinguishable from the null Blob.
		c.buf = []byte{}
	}

	if _, err := io.ReadFull(c.rw, c.buf); err != nil {
		c.err = c.readErr("read frame payload", err)
		return blob.Blob{}
	}
	return blob.New(c.buf)
}

// Err returns the first transport error observed, or nil while healthy.
// Once non-nil it never resets; callers must abandon the session.
func (c *Conn) Err() error {
	return c.err
}

func (c *Conn) readErr(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("wire: %s: %w", op, ErrClosed)
	}
	return fmt.Errorf("wire: %s: %w", op, err)
}

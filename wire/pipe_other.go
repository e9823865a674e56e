//go:build !windows

package wire

import (
	"context"
	"errors"
	"net"
)

// ErrPipeUnsupported is returned by DialPipe on platforms without named pipes.
var ErrPipeUnsupported = errors.New("wire: named pipes are only supported on windows")

// DialPipe is not available on this platform; use a TCP or Unix socket
// transport instead.
func DialPipe(ctx context.Context, path string) (net.Conn, error) {
	return nil, ErrPipeUnsupported
}

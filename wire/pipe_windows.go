//go:build windows

package wire

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// DialPipe connects to a server's named pipe, e.g.
// `\\.\pipe\MySQL`. The returned connection is ready to hand to NewConn.
func DialPipe(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

package writers

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsBrokenPipe reports whether err means the reader went away: a closed
// pipe (grna ... | head) or a peer that reset its connection mid-response.
// Output stops quietly in both cases.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{syscall.EPIPE, syscall.ECONNRESET, io.ErrClosedPipe, net.ErrClosed} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

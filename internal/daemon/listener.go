package daemon

import (
	"fmt"
	"net"
)

// newListener binds the API socket up front so bind failures surface from
// Start instead of from the serve goroutine.
func newListener(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind api listener on %s: %w", addr, err)
	}
	return ln, nil
}

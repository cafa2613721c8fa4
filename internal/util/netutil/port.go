// Package netutil provides small TCP reachability helpers.
package netutil

import (
	"context"
	"fmt"
	"net"
	"time"
)

const (
	// pollInterval is the pause between connection attempts.
	pollInterval = time.Second
	// dialTimeout bounds each individual attempt.
	dialTimeout = 2 * time.Second
)

// WaitForPort polls a TCP port until it accepts a connection or the
// timeout elapses. The first attempt is immediate, then one per second.
// Accepting TCP only proves the listener is up, not that the service
// behind it authenticates; callers needing more must probe the protocol.
func WaitForPort(ctx context.Context, ip string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(ip, fmt.Sprintf("%d", port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if conn, err := net.DialTimeout("tcp", address, dialTimeout); err == nil {
		_ = conn.Close()
		return nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s", address)
			}
			return ctx.Err()
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", address, dialTimeout)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

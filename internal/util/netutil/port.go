// Package netutil provides network utility functions for port checking.
package netutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPollInterval is the delay between connection attempts.
	DefaultPollInterval = time.Second
	// dialTimeout bounds a single connection attempt.
	dialTimeout = 2 * time.Second
)

// WaitForPort waits for a TCP port to accept connections on host.
// It tries immediately and then every DefaultPollInterval until the port is
// reachable, timeout elapses, or ctx is done.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	return WaitForPortEvery(ctx, host, port, DefaultPollInterval, timeout)
}

// WaitForPortEvery is WaitForPort with a custom poll interval.
func WaitForPortEvery(ctx context.Context, host string, port int, interval, timeout time.Duration) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var dialer net.Dialer
	for {
		attemptCtx, attemptCancel := context.WithTimeout(ctx, dialTimeout)
		conn, err := dialer.DialContext(attemptCtx, "tcp", address)
		attemptCancel()
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return fmt.Errorf("timeout waiting for %s: %w", address, err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

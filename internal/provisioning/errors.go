package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors that decide the process exit status.
var (
	// ErrAllocationForbidden means the cloud refused to allocate a floating IP
	// (authorization or quota).
	ErrAllocationForbidden = errors.New("floating IP allocation forbidden")

	// ErrNoFloatingIP means no floating IP could be obtained.
	ErrNoFloatingIP = errors.New("unable to get a floating IP")

	// ErrProvisionTimeout means an instance did not leave BUILD in time.
	ErrProvisionTimeout = errors.New("timed out waiting for instance")

	// ErrInstanceFailed means an instance ended in a non-active state.
	ErrInstanceFailed = errors.New("instance failed to become active")
)

// Exit codes.
const (
	ExitOK                  = 0
	ExitAllocationForbidden = 1
	ExitNoFloatingIP        = 2
	ExitFailure             = 3
)

// TimeoutError reports a resource that did not reach its target state in time.
// It matches ErrProvisionTimeout with errors.Is.
type TimeoutError struct {
	Resource string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: %s not ready after %v: %v", ErrProvisionTimeout, e.Resource, e.Timeout, e.Err)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProvisionTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrProvisionTimeout
}

// ExitCode maps a run result to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrAllocationForbidden):
		return ExitAllocationForbidden
	case errors.Is(err, ErrNoFloatingIP):
		return ExitNoFloatingIP
	default:
		return ExitFailure
	}
}

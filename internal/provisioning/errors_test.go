package provisioning

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	timeout := &TimeoutError{Resource: "alice-qserv-0", Timeout: time.Minute, Err: errors.New("timed out")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"forbidden", ErrAllocationForbidden, 1},
		{"wrapped forbidden", fmt.Errorf("address phase failed: %w", ErrAllocationForbidden), 1},
		{"no floating ip", ErrNoFloatingIP, 2},
		{"wrapped no floating ip", fmt.Errorf("x: %w", fmt.Errorf("y: %w", ErrNoFloatingIP)), 2},
		{"timeout", timeout, 3},
		{"instance failed", fmt.Errorf("%w: ERROR", ErrInstanceFailed), 3},
		{"other", errors.New("connection refused"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	cause := errors.New("poll budget exhausted")
	err := fmt.Errorf("gateway phase failed: %w", &TimeoutError{Resource: "alice-qserv-0", Timeout: 15 * time.Minute, Err: cause})

	assert.ErrorIs(t, err, ErrProvisionTimeout)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInstanceFailed)
	assert.Contains(t, err.Error(), "alice-qserv-0")
	assert.Contains(t, err.Error(), "15m0s")

	var te *TimeoutError
	assert.ErrorAs(t, err, &te)
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the polling and retry budget of a provisioning run.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Interval between instance status polls
	Build             time.Duration // Ceiling for one instance to leave the build state
	SSH               time.Duration // Ceiling for the optional gateway SSH check
	RetryMaxAttempts  int           // Maximum retries for transient status-poll errors
	RetryInitialDelay time.Duration // Initial delay between those retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - QSERV_POLL_INTERVAL (default: 5s)
//   - QSERV_TIMEOUT_BUILD (default: 15m)
//   - QSERV_TIMEOUT_SSH (default: 5m)
//   - QSERV_RETRY_MAX_ATTEMPTS (default: 5)
//   - QSERV_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("QSERV_POLL_INTERVAL", 5*time.Second),
		Build:             parseDuration("QSERV_TIMEOUT_BUILD", 15*time.Minute),
		SSH:               parseDuration("QSERV_TIMEOUT_SSH", 5*time.Minute),
		RetryMaxAttempts:  parseInt("QSERV_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("QSERV_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// TestTimeouts returns short timeouts for use in tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      5 * time.Millisecond,
		Build:             2 * time.Second,
		SSH:               time.Second,
		RetryMaxAttempts:  2,
		RetryInitialDelay: time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

package cloud

import "errors"

var (
	// ErrForbidden is returned when the provider refuses a request for
	// authorization or quota reasons.
	ErrForbidden = errors.New("forbidden by provider")

	// ErrNotFound is returned when a named resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// IsForbidden reports whether err is a provider authorization or quota refusal.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

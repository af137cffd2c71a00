package openstack

import (
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// classify wraps a gophercloud error with the matching cloud sentinel.
// Errors that do not correspond to a sentinel are returned unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case gophercloud.ResponseCodeIs(err, http.StatusForbidden):
		return fmt.Errorf("%w: %w", cloud.ErrForbidden, err)
	case gophercloud.ResponseCodeIs(err, http.StatusNotFound):
		return fmt.Errorf("%w: %w", cloud.ErrNotFound, err)
	}
	return err
}

// classifyAllocation is classify plus Neutron's quota responses, which
// refuse an allocation the same way a policy denial does.
func classifyAllocation(err error) error {
	if isQuotaExceeded(err) {
		return fmt.Errorf("%w: %w", cloud.ErrForbidden, err)
	}
	return classify(err)
}

// isQuotaExceeded checks if an error is an over-quota response.
func isQuotaExceeded(err error) bool {
	return gophercloud.ResponseCodeIs(err, http.StatusConflict) ||
		gophercloud.ResponseCodeIs(err, http.StatusRequestEntityTooLarge)
}

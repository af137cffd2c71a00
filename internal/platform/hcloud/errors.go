package hcloud

import (
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur while another action runs on them.
// These errors are retryable.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,   // Item is locked (action running)
		hcloud.ErrorCodeConflict, // Resource changed during request
		hcloud.ErrorCodeResourceUnavailable,
	)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// classify wraps an hcloud error with the matching cloud sentinel.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isHCloudErrorCode(err, hcloud.ErrorCodeForbidden):
		return fmt.Errorf("%w: %w", cloud.ErrForbidden, err)
	case isHCloudErrorCode(err, hcloud.ErrorCodeNotFound):
		return fmt.Errorf("%w: %w", cloud.ErrNotFound, err)
	}
	return err
}

// classifyAllocation is classify plus the project limit refusal returned
// when no more floating IPs may be created.
func classifyAllocation(err error) error {
	if isHCloudErrorCode(err, hcloud.ErrorCodeResourceLimitExceeded) {
		return fmt.Errorf("%w: %w", cloud.ErrForbidden, err)
	}
	return classify(err)
}

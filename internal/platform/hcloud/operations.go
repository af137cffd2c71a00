package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/util/retry"
)

// DeleteOperation encapsulates deletion logic for any hcloud resource.
// It provides consistent retry and error handling across resource types.
//
// Usage example:
//
//	func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
//	    return (&DeleteOperation[*hcloud.SSHKey]{
//	        Key:          name,
//	        ResourceType: "ssh key",
//	        Get:          c.client.SSHKey.Get,
//	        Delete:       c.client.SSHKey.Delete,
//	    }).Execute(ctx, c)
//	}
type DeleteOperation[T any] struct {
	// Key is the ID or name passed to Get.
	Key          string
	ResourceType string

	// Get retrieves the resource by ID or name
	Get func(ctx context.Context, idOrName string) (T, *hcloud.Response, error)

	// Delete removes the resource
	Delete func(ctx context.Context, resource T) (*hcloud.Response, error)
}

// Execute performs the delete operation with retry logic.
// It fails with cloud.ErrNotFound if the resource does not exist.
// Locked resources are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		resource, _, err := op.Get(ctx, op.Key)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to get %s %s: %w", op.ResourceType, op.Key, classify(err)))
		}

		if reflect.ValueOf(resource).IsNil() {
			return retry.Fatal(fmt.Errorf("%s %s: %w", op.ResourceType, op.Key, cloud.ErrNotFound))
		}

		if _, err := op.Delete(ctx, resource); err != nil {
			if isResourceLocked(err) {
				return err // Retryable
			}
			return retry.Fatal(fmt.Errorf("failed to delete %s %s: %w", op.ResourceType, op.Key, classify(err)))
		}
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay))
}

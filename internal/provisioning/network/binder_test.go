package network

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

func TestBinder_Attach(t *testing.T) {
	t.Parallel()
	var gotServer string
	mock := &cloud.MockClient{
		AttachFloatingIPFunc: func(_ context.Context, _ *cloud.FloatingIP, serverID string) error {
			gotServer = serverID
			return nil
		},
	}
	fip := &cloud.FloatingIP{ID: "fip", Address: "203.0.113.5"}

	err := NewBinder(mock).Attach(context.Background(), fip, &cloud.Server{ID: "srv-0", Name: "alice-qserv-0"})

	require.NoError(t, err)
	assert.Equal(t, "srv-0", gotServer)
	assert.Equal(t, "srv-0", fip.AttachedTo)
}

func TestBinder_Attach_Errors(t *testing.T) {
	t.Parallel()
	boom := errors.New("port not found")
	mock := &cloud.MockClient{
		AttachFloatingIPFunc: func(_ context.Context, _ *cloud.FloatingIP, _ string) error {
			return boom
		},
	}
	b := NewBinder(mock)
	fip := &cloud.FloatingIP{ID: "fip", Address: "203.0.113.5"}

	err := b.Attach(context.Background(), fip, &cloud.Server{ID: "srv-0", Name: "alice-qserv-0"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, provisioning.ExitCode(err))

	assert.Error(t, b.Attach(context.Background(), nil, &cloud.Server{ID: "srv-0"}))
	assert.Error(t, b.Attach(context.Background(), fip, nil))
}

package destroy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

func newContext(mock *cloud.MockClient, workers int) *provisioning.Context {
	cfg := config.Default()
	cfg.Username = "alice"
	cfg.Workers = workers
	return provisioning.NewContext(context.Background(), cfg, mock, nil)
}

func TestProvisionerName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "destroy", NewProvisioner().Name())
}

func TestProvision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		existing      map[string]string
		deleteErr     map[string]error
		findErr       error
		deleteKeyPair bool
		wantDeleted   []string
		wantKeyPair   bool
		errorContains string
	}{
		{
			name:        "deletes all existing instances",
			existing:    map[string]string{"alice-qserv-0": "srv-0", "alice-qserv-1": "srv-1", "alice-qserv-2": "srv-2"},
			wantDeleted: []string{"srv-0", "srv-1", "srv-2"},
		},
		{
			name:        "skips missing instances",
			existing:    map[string]string{"alice-qserv-1": "srv-1"},
			wantDeleted: []string{"srv-1"},
		},
		{
			name:          "continues after a failed delete",
			existing:      map[string]string{"alice-qserv-0": "srv-0", "alice-qserv-1": "srv-1", "alice-qserv-2": "srv-2"},
			deleteErr:     map[string]error{"srv-1": errors.New("locked")},
			wantDeleted:   []string{"srv-0", "srv-1", "srv-2"},
			errorContains: "failed to delete alice-qserv-1",
		},
		{
			name:          "reports lookup failures",
			findErr:       errors.New("unauthorized"),
			errorContains: "failed to look up alice-qserv-0",
		},
		{
			name:          "deletes keypair when asked",
			existing:      map[string]string{"alice-qserv-0": "srv-0"},
			deleteKeyPair: true,
			wantDeleted:   []string{"srv-0"},
			wantKeyPair:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var deleted []string
			var keyPairDeleted bool
			mock := &cloud.MockClient{
				FindServerFunc: func(_ context.Context, name string) (*cloud.Server, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					if id, ok := tt.existing[name]; ok {
						return &cloud.Server{ID: id, Name: name}, nil
					}
					return nil, nil
				},
				DeleteServerFunc: func(_ context.Context, id string) error {
					deleted = append(deleted, id)
					return tt.deleteErr[id]
				},
				DeleteKeyPairFunc: func(_ context.Context, name string) error {
					assert.Equal(t, "alice-qserv", name)
					keyPairDeleted = true
					return nil
				},
			}

			p := NewProvisioner()
			p.DeleteKeyPair = tt.deleteKeyPair
			err := p.Provision(newContext(mock, 2))

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantDeleted, deleted)
			assert.Equal(t, tt.wantKeyPair, keyPairDeleted)
		})
	}
}

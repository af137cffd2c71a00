package keys

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/util/keygen"
)

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGq+wDEjbrvkNYBSAgqoGE0ikEtPx1kwr21XTQIq7vj+ alice@laptop\n"

func writeKey(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id_ed25519.pub")
	require.NoError(t, os.WriteFile(path, []byte(testPublicKey), 0o600))
	return path
}

func TestManager_EnsurePublicKey_ReplacesExactMatches(t *testing.T) {
	t.Parallel()
	var calls []string

	mock := &cloud.MockClient{
		ListKeyPairsFunc: func(_ context.Context) ([]cloud.KeyPair, error) {
			calls = append(calls, "list")
			return []cloud.KeyPair{
				{Name: "alice-qserv"},
				{Name: "alice-qserv-old"},
				{Name: "bob-qserv"},
			}, nil
		},
		DeleteKeyPairFunc: func(_ context.Context, name string) error {
			calls = append(calls, "delete:"+name)
			return nil
		},
		CreateKeyPairFunc: func(_ context.Context, name, publicKey string) (*cloud.KeyPair, error) {
			calls = append(calls, "create:"+name)
			assert.Equal(t, "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGq+wDEjbrvkNYBSAgqoGE0ikEtPx1kwr21XTQIq7vj+ alice@laptop", publicKey)
			return &cloud.KeyPair{Name: name, PublicKey: publicKey}, nil
		},
	}

	kp, key, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", writeKey(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"list", "delete:alice-qserv", "create:alice-qserv"}, calls)
	assert.Equal(t, "alice-qserv", kp.Name)
	assert.Equal(t, key.Fingerprint, kp.Fingerprint)
	assert.Equal(t, "ssh-ed25519", key.Type)
}

func TestManager_EnsurePublicKey_NoExisting(t *testing.T) {
	t.Parallel()
	var deleted int

	mock := &cloud.MockClient{
		DeleteKeyPairFunc: func(_ context.Context, _ string) error {
			deleted++
			return nil
		},
	}

	kp, _, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", writeKey(t))

	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Equal(t, "alice-qserv", kp.Name)
}

func TestManager_EnsurePublicKey_DeleteFailurePropagates(t *testing.T) {
	t.Parallel()
	var created bool

	mock := &cloud.MockClient{
		ListKeyPairsFunc: func(_ context.Context) ([]cloud.KeyPair, error) {
			return []cloud.KeyPair{{Name: "alice-qserv"}}, nil
		},
		DeleteKeyPairFunc: func(_ context.Context, _ string) error {
			return errors.New("conflict")
		},
		CreateKeyPairFunc: func(_ context.Context, name, _ string) (*cloud.KeyPair, error) {
			created = true
			return &cloud.KeyPair{Name: name}, nil
		},
	}

	_, _, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", writeKey(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete keypair alice-qserv")
	assert.False(t, created)
}

func TestManager_EnsurePublicKey_ListFailure(t *testing.T) {
	t.Parallel()
	mock := &cloud.MockClient{
		ListKeyPairsFunc: func(_ context.Context) ([]cloud.KeyPair, error) {
			return nil, errors.New("unauthorized")
		},
	}

	_, _, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", writeKey(t))
	assert.ErrorContains(t, err, "failed to list keypairs")
}

func TestManager_EnsurePublicKey_UnreadableKey(t *testing.T) {
	t.Parallel()
	var created bool
	mock := &cloud.MockClient{
		CreateKeyPairFunc: func(_ context.Context, name, _ string) (*cloud.KeyPair, error) {
			created = true
			return &cloud.KeyPair{Name: name}, nil
		},
	}

	_, _, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", filepath.Join(t.TempDir(), "missing.pub"))

	assert.ErrorContains(t, err, "failed to read public key")
	assert.False(t, created)
}

func TestManager_EnsurePublicKey_InvalidKey(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.pub")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, _, err := NewManager(&cloud.MockClient{}, nil).EnsurePublicKey(context.Background(), "alice-qserv", path)
	assert.ErrorContains(t, err, "invalid SSH public key")
}

func TestManager_EnsurePublicKey_CreateFailure(t *testing.T) {
	t.Parallel()
	mock := &cloud.MockClient{
		CreateKeyPairFunc: func(_ context.Context, _, _ string) (*cloud.KeyPair, error) {
			return nil, cloud.ErrForbidden
		},
	}

	_, _, err := NewManager(mock, nil).EnsurePublicKey(context.Background(), "alice-qserv", writeKey(t))
	assert.ErrorIs(t, err, cloud.ErrForbidden)
}

func TestManager_Replace(t *testing.T) {
	t.Parallel()
	key, err := keygen.ParsePublicKey([]byte(testPublicKey))
	require.NoError(t, err)

	kp, err := NewManager(&cloud.MockClient{}, nil).Replace(context.Background(), "alice-qserv", key)

	require.NoError(t, err)
	assert.Equal(t, "alice-qserv", kp.Name)
}

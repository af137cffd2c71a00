package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/logging"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGq+wDEjbrvkNYBSAgqoGE0ikEtPx1kwr21XTQIq7vj+ alice@laptop"

// saveAndRestoreFactories saves all factory variables and restores them after the test.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origNewInfraClient := newInfraClient
	origLoadConfigFile := loadConfigFile
	origLoadCredentials := loadCredentials
	origNewLogger := newLogger
	origNewProvisioningContext := newProvisioningContext
	origNewDestroyProvisioner := newDestroyProvisioner
	origNewUpPhases := newUpPhases
	origLookupEnv := lookupEnv
	origNow := now

	t.Cleanup(func() {
		newInfraClient = origNewInfraClient
		loadConfigFile = origLoadConfigFile
		loadCredentials = origLoadCredentials
		newLogger = origNewLogger
		newProvisioningContext = origNewProvisioningContext
		newDestroyProvisioner = origNewDestroyProvisioner
		newUpPhases = origNewUpPhases
		lookupEnv = origLookupEnv
		now = origNow
	})
}

// testEnv points every factory at in-memory fakes and returns the observed log.
func testEnv(t *testing.T, user string, infra cloud.InfrastructureManager) *observer.ObservedLogs {
	t.Helper()
	saveAndRestoreFactories(t)

	core, logs := observer.New(zap.DebugLevel)
	newLogger = func(logging.Config) (*zap.Logger, error) {
		return zap.New(core), nil
	}
	loadCredentials = func(config.Provider) (*config.Credentials, error) {
		return &config.Credentials{Username: user, AuthURL: "https://keystone.example:5000/v3"}, nil
	}
	newInfraClient = func(context.Context, *config.Config, *config.Credentials) (cloud.InfrastructureManager, error) {
		return infra, nil
	}
	newProvisioningContext = func(ctx context.Context, cfg *config.Config, infra cloud.InfrastructureManager, obs provisioning.Observer) *provisioning.Context {
		pctx := provisioning.NewContext(ctx, cfg, infra, obs)
		pctx.Timeouts = config.TestTimeouts()
		return pctx
	}
	return logs
}

// testFiles writes a public key into a temp dir and returns overrides pointing at it.
func testFiles(t *testing.T) (Overrides, string) {
	t.Helper()
	dir := t.TempDir()
	pub := filepath.Join(dir, "id_rsa.pub")
	require.NoError(t, os.WriteFile(pub, []byte(testPublicKey+"\n"), 0o600))

	identity := filepath.Join(dir, "id_rsa")
	output := filepath.Join(dir, "ssh_config")
	return Overrides{
		PublicKey:    &pub,
		IdentityFile: &identity,
		Output:       &output,
	}, dir
}

// fakeCloud is an in-memory project: it records every mutating call and
// reports each instance as BUILD once before it turns ACTIVE.
type fakeCloud struct {
	cloud.MockClient

	mu         sync.Mutex
	keyPairs   []cloud.KeyPair
	fips       []cloud.FloatingIP
	pools      []cloud.FloatingIPPool
	servers    map[string]*cloud.Server
	polls      map[string]int
	created    []string
	deletedKPs []string
	attached   map[string]string
	createFIP  func(pool string) (*cloud.FloatingIP, error)
}

func newFakeCloud() *fakeCloud {
	f := &fakeCloud{
		pools:    []cloud.FloatingIPPool{{ID: "ext-net-id", Name: "ext-net"}},
		servers:  map[string]*cloud.Server{},
		polls:    map[string]int{},
		attached: map[string]string{},
	}
	f.createFIP = func(pool string) (*cloud.FloatingIP, error) {
		return &cloud.FloatingIP{ID: "fip-1", Address: "203.0.113.5", Pool: pool}, nil
	}

	f.ListKeyPairsFunc = func(context.Context) ([]cloud.KeyPair, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		return append([]cloud.KeyPair(nil), f.keyPairs...), nil
	}
	f.DeleteKeyPairFunc = func(_ context.Context, name string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deletedKPs = append(f.deletedKPs, name)
		kept := f.keyPairs[:0]
		for _, kp := range f.keyPairs {
			if kp.Name != name {
				kept = append(kept, kp)
			}
		}
		f.keyPairs = kept
		return nil
	}
	f.CreateKeyPairFunc = func(_ context.Context, name, publicKey string) (*cloud.KeyPair, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kp := cloud.KeyPair{Name: name, PublicKey: publicKey}
		f.keyPairs = append(f.keyPairs, kp)
		return &kp, nil
	}
	f.ListFloatingIPsFunc = func(context.Context) ([]cloud.FloatingIP, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		return append([]cloud.FloatingIP(nil), f.fips...), nil
	}
	f.ListFloatingIPPoolsFunc = func(context.Context) ([]cloud.FloatingIPPool, error) {
		return f.pools, nil
	}
	f.CreateFloatingIPFunc = func(_ context.Context, pool string) (*cloud.FloatingIP, error) {
		return f.createFIP(pool)
	}
	f.AttachFloatingIPFunc = func(_ context.Context, fip *cloud.FloatingIP, serverID string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.attached[fip.Address] = serverID
		return nil
	}
	f.CreateServerFunc = func(_ context.Context, opts cloud.ServerCreateOpts) (*cloud.Server, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := "srv-" + opts.Name
		f.servers[id] = &cloud.Server{
			ID:     id,
			Name:   opts.Name,
			Status: cloud.StatusBuild,
			Addresses: map[string][]string{
				opts.Network: {fmt.Sprintf("10.0.0.%d", 10+len(f.created))},
			},
		}
		f.created = append(f.created, opts.Name)
		return &cloud.Server{ID: id, Name: opts.Name, Status: cloud.StatusBuild}, nil
	}
	f.GetServerFunc = func(_ context.Context, id string) (*cloud.Server, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		s, ok := f.servers[id]
		if !ok {
			return nil, cloud.ErrNotFound
		}
		f.polls[id]++
		if f.polls[id] > 1 {
			s.Status = cloud.StatusActive
		}
		cp := *s
		return &cp, nil
	}
	f.FindServerFunc = func(_ context.Context, name string) (*cloud.Server, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, s := range f.servers {
			if s.Name == name {
				cp := *s
				return &cp, nil
			}
		}
		return nil, nil
	}
	f.DeleteServerFunc = func(_ context.Context, id string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.servers, id)
		return nil
	}
	return f
}

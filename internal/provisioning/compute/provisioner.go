package compute

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qserv/qserv-cloud/internal/cloudinit"
	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/metrics"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/util/labels"
	"github.com/qserv/qserv-cloud/internal/util/naming"
	"github.com/qserv/qserv-cloud/internal/util/retry"
)

const resourceType = "instance"

// Settings holds everything an instance is created with.
type Settings struct {
	Username  string
	ImageID   string
	FlavorID  string
	KeyName   string
	Network   string
	PublicKey string
	Timezone  string
	SSHUser   string
	Policy    config.ErrorStatusPolicy

	PollInterval time.Duration
	BuildTimeout time.Duration
	// MaxPollErrors is the number of consecutive failed status reads
	// tolerated while polling.
	MaxPollErrors int
}

// Provisioner creates instances and waits for them to finish building.
type Provisioner struct {
	client   cloud.ServerProvisioner
	settings Settings
	observer provisioning.Observer
	metrics  *metrics.Recorder
}

// NewProvisioner creates an instance provisioner.
func NewProvisioner(client cloud.ServerProvisioner, settings Settings, observer provisioning.Observer, recorder *metrics.Recorder) *Provisioner {
	if observer == nil {
		observer = provisioning.NewNopObserver()
	}
	if settings.Policy == "" {
		settings.Policy = config.ErrorStatusFail
	}
	return &Provisioner{client: client, settings: settings, observer: observer, metrics: recorder}
}

// NewProvisionerFromContext builds a provisioner from the results of the keys
// and catalog phases.
func NewProvisionerFromContext(ctx *provisioning.Context) (*Provisioner, error) {
	state := ctx.State
	if state.PublicKey == nil || state.KeyPair == nil {
		return nil, fmt.Errorf("keypair not registered in provisioning state")
	}
	if state.ImageID == "" || state.FlavorID == "" {
		return nil, fmt.Errorf("image and flavor not resolved in provisioning state")
	}

	cfg := ctx.Config
	settings := Settings{
		Username:      ctx.Username(),
		ImageID:       state.ImageID,
		FlavorID:      state.FlavorID,
		KeyName:       state.KeyPair.Name,
		Network:       cfg.Network,
		PublicKey:     state.PublicKey.AuthorizedKey,
		Timezone:      cfg.Timezone,
		SSHUser:       cfg.SSHUser,
		Policy:        cfg.OnErrorStatus,
		PollInterval:  ctx.Timeouts.PollInterval,
		BuildTimeout:  ctx.Timeouts.Build,
		MaxPollErrors: ctx.Timeouts.RetryMaxAttempts,
	}
	return NewProvisioner(ctx.Infra, settings, ctx.Observer, ctx.Metrics), nil
}

// UserData renders the cloud-config for the instance with the given name.
func (p *Provisioner) UserData(hostname string) (string, error) {
	cc, err := cloudinit.NewQservConfig(p.settings.PublicKey, hostname,
		cloudinit.WithTimezone(p.settings.Timezone),
		cloudinit.WithUser(p.settings.SSHUser),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build cloud-config for %s: %w", hostname, err)
	}
	data, err := cc.Render()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CreateInstance creates the instance with the given role and index and
// polls it until it leaves BUILD. The create request itself is not retried.
func (p *Provisioner) CreateInstance(ctx context.Context, role string, index int) (*cloud.Server, error) {
	name := naming.Instance(p.settings.Username, index)

	userData, err := p.UserData(name)
	if err != nil {
		return nil, err
	}

	provisioning.LogResourceCreating(p.observer, role, resourceType, name)
	server, err := p.client.CreateServer(ctx, cloud.ServerCreateOpts{
		Name:     name,
		ImageID:  p.settings.ImageID,
		FlavorID: p.settings.FlavorID,
		UserData: userData,
		KeyName:  p.settings.KeyName,
		Network:  p.settings.Network,
		Labels:   labels.ForCluster(naming.KeyPair(p.settings.Username)).WithRole(role).Build(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s: %w", role, name, err)
	}
	if server == nil || server.ID == "" {
		return nil, fmt.Errorf("failed to create %s %s: provider returned no instance ID", role, name)
	}

	server, err = p.waitForBuild(ctx, server)
	if err != nil {
		return nil, err
	}
	if server.Name == "" {
		server.Name = name
	}

	if server.Status != cloud.StatusActive {
		provisioning.LogResourceFailed(p.observer, role, resourceType, name, string(server.Status))
		if p.settings.Policy == config.ErrorStatusFail {
			return nil, fmt.Errorf("%w: %s %s (%s) ended in status %s", provisioning.ErrInstanceFailed, role, name, server.ID, server.Status)
		}
		p.observer.Printf("[%s] Instance %s is %s, continuing", role, name, server.Status)
	}

	provisioning.LogResourceCreated(p.observer, role, resourceType, name, server.ID)
	p.metrics.InstanceCreated(role)
	return server, nil
}

// waitForBuild polls the instance while its status is BUILD. The first poll
// happens immediately so the returned instance carries its addresses.
func (p *Provisioner) waitForBuild(ctx context.Context, server *cloud.Server) (*cloud.Server, error) {
	var current *cloud.Server
	var consecutiveErrors int
	err := retry.Until(ctx, p.settings.PollInterval, p.settings.BuildTimeout, func(ctx context.Context) (bool, error) {
		latest, err := p.client.GetServer(ctx, server.ID)
		if err != nil {
			consecutiveErrors++
			if cloud.IsForbidden(err) || consecutiveErrors > p.settings.MaxPollErrors {
				return false, fmt.Errorf("failed to get status of %s: %w", server.Name, err)
			}
			p.observer.Printf("Status of %s unavailable (%d/%d): %v", server.Name, consecutiveErrors, p.settings.MaxPollErrors, err)
			return false, nil
		}
		consecutiveErrors = 0
		current = latest
		return !latest.IsBuilding(), nil
	})

	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, retry.ErrTimeout):
		return nil, &provisioning.TimeoutError{Resource: server.Name, Timeout: p.settings.BuildTimeout, Err: err}
	default:
		return nil, err
	}
}

package access

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/qserv/qserv-cloud/internal/platform/ssh"
	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/sshconfig"
	"github.com/qserv/qserv-cloud/internal/util/netutil"
)

// SSHConfigPhase writes the ssh_config for all created instances.
type SSHConfigPhase struct{}

// NewSSHConfigPhase creates the ssh_config phase.
func NewSSHConfigPhase() *SSHConfigPhase {
	return &SSHConfigPhase{}
}

// Name implements provisioning.Phase.
func (p *SSHConfigPhase) Name() string {
	return "sshconfig"
}

// Provision implements provisioning.Phase.
func (p *SSHConfigPhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	emitter := NewEmitter(cfg.Network, cfg.SSHUser, cfg.IdentityFile)

	if err := emitter.Write(ctx.State.Instances, ctx.State.FloatingIP, cfg.OutputPath); err != nil {
		return err
	}
	ctx.Logger.Printf("[%s] Wrote %d hosts to %s", p.Name(), len(ctx.State.Instances), cfg.OutputPath)
	return nil
}

// Executor runs a command on a host, directly or through the jump host.
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
	ExecuteVia(ctx context.Context, target, command string) (string, error)
}

// ExecutorFactory builds an Executor for the jump host.
type ExecutorFactory func(cfg *ssh.Config) (Executor, error)

// DefaultExecutorFactory dials with golang.org/x/crypto/ssh.
func DefaultExecutorFactory(cfg *ssh.Config) (Executor, error) {
	client, err := ssh.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// VerifyPhase checks that every instance answers over SSH through the
// floating IP.
type VerifyPhase struct {
	NewExecutor ExecutorFactory
	// WaitForPort blocks until the jump host accepts TCP connections.
	// Nil skips the wait.
	WaitForPort func(ctx context.Context, host string, port int, interval, timeout time.Duration) error
}

// NewVerifyPhase creates the verification phase.
func NewVerifyPhase() *VerifyPhase {
	return &VerifyPhase{
		NewExecutor: DefaultExecutorFactory,
		WaitForPort: netutil.WaitForPortEvery,
	}
}

// Name implements provisioning.Phase.
func (p *VerifyPhase) Name() string {
	return "verify"
}

// Provision implements provisioning.Phase.
func (p *VerifyPhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	fip := ctx.State.FloatingIP
	if fip == nil || fip.Address == "" {
		return fmt.Errorf("floating IP not acquired in provisioning state")
	}

	// #nosec G304
	key, err := os.ReadFile(cfg.IdentityFile)
	if err != nil {
		return fmt.Errorf("failed to read identity file: %w", err)
	}

	if p.WaitForPort != nil {
		ctx.Logger.Printf("[%s] Waiting for SSH on %s...", p.Name(), fip.Address)
		if err := p.WaitForPort(ctx, fip.Address, sshconfig.DefaultPort, ctx.Timeouts.PollInterval, ctx.Timeouts.SSH); err != nil {
			return fmt.Errorf("gateway %s is not reachable over SSH: %w", fip.Address, err)
		}
	}

	exec, err := p.NewExecutor(&ssh.Config{
		Host:       fip.Address,
		User:       cfg.SSHUser,
		PrivateKey: key,
		MaxRetries: ctx.Timeouts.RetryMaxAttempts,
		RetryDelay: ctx.Timeouts.RetryInitialDelay,
	})
	if err != nil {
		return err
	}

	sshCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.SSH)
	defer cancel()

	for _, server := range ctx.State.Instances {
		var out string
		if ctx.State.Gateway != nil && server.ID == ctx.State.Gateway.ID {
			out, err = exec.Execute(sshCtx, "hostname")
		} else {
			out, err = exec.ExecuteVia(sshCtx, server.PrivateAddress(cfg.Network), "hostname")
		}
		if err != nil {
			return fmt.Errorf("failed to reach %s over SSH: %w", server.Name, err)
		}
		ctx.Logger.Printf("[%s] %s answered as %q", p.Name(), server.Name, strings.TrimSpace(out))
	}
	return nil
}

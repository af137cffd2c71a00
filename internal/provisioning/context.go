package provisioning

import (
	"context"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/metrics"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    cloud.InfrastructureManager
	Observer Observer
	Logger   Logger
	Timeouts *config.Timeouts
	Metrics  *metrics.Recorder
}

// NewContext creates a new provisioning context. A nil observer falls back to
// a no-op observer.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	infra cloud.InfrastructureManager,
	observer Observer,
) *Context {
	if observer == nil {
		observer = NewNopObserver()
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		Observer: observer,
		Logger:   observer,
		Timeouts: config.LoadTimeouts(),
	}
}

// Username returns the cloud username used for resource naming.
func (c *Context) Username() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.Username
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/provisioning/compute"
	"github.com/qserv/qserv-cloud/internal/util/keygen"
	"github.com/qserv/qserv-cloud/internal/util/naming"
)

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

// Render writes the cloud-config of one instance to w without contacting the cloud.
func Render(w io.Writer, opts RenderOptions) error {
	if opts.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", opts.Index)
	}

	cfg, err := resolveConfig(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return err
	}

	user := opts.Username
	if user == "" {
		user = envUsername()
	}
	if user == "" {
		return errors.New("username is required: pass --user or set " + config.EnvOSUsername)
	}

	key, err := keygen.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return err
	}

	p := compute.NewProvisioner(nil, compute.Settings{
		Username:  user,
		PublicKey: key.AuthorizedKey,
		Timezone:  cfg.Timezone,
		SSHUser:   cfg.SSHUser,
	}, nil, nil)

	data, err := p.UserData(naming.Instance(user, opts.Index))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, data)
	return err
}

func envUsername() string {
	for _, name := range []string{config.EnvOSUsername, config.EnvQservUsername, config.EnvUser} {
		if v, ok := lookupEnv(name); ok && v != "" {
			return v
		}
	}
	return ""
}

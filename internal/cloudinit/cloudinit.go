package cloudinit

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Header is the first line cloud-init requires to treat user data as cloud-config.
const Header = "#cloud-config"

// Defaults for the qserv bootstrap document.
const (
	DefaultTimezone = "Europe/Paris"
	DefaultUser     = "qserv"
	DockerGroup     = "docker"
)

// Config is a cloud-config document.
type Config struct {
	Groups                  []Group   `yaml:"groups,omitempty"`
	Users                   []User    `yaml:"users,omitempty"`
	Packages                []string  `yaml:"packages,omitempty"`
	RunCmd                  []Command `yaml:"runcmd,omitempty"`
	ManageEtcHosts          bool      `yaml:"manage_etc_hosts"`
	PackageUpgrade          bool      `yaml:"package_upgrade"`
	PackageRebootIfRequired bool      `yaml:"package_reboot_if_required"`
	Timezone                string    `yaml:"timezone,omitempty"`
}

// Group is a group to create and its initial members.
type Group struct {
	Name    string
	Members []string
}

// MarshalYAML renders a group as "name: [member, ...]".
func (g Group) MarshalYAML() (any, error) {
	members := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, m := range g.Members {
		members.Content = append(members.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m})
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: g.Name},
			members,
		},
	}, nil
}

// User is a user entry. A User with only Name set to "default" stands for the
// distribution's default user.
type User struct {
	Name              string   `yaml:"name"`
	Gecos             string   `yaml:"gecos,omitempty"`
	Sudo              string   `yaml:"sudo,omitempty"`
	Shell             string   `yaml:"shell,omitempty"`
	LockPasswd        bool     `yaml:"lock_passwd,omitempty"`
	SSHAuthorizedKeys []string `yaml:"ssh_authorized_keys,omitempty"`
}

// DistroDefaultUser keeps the image's default user alongside the declared ones.
var DistroDefaultUser = User{Name: "default"}

// MarshalYAML renders the distribution default user as a bare "default".
func (u User) MarshalYAML() (any, error) {
	if u.Name == DistroDefaultUser.Name && u.Gecos == "" && u.Sudo == "" && u.Shell == "" &&
		!u.LockPasswd && len(u.SSHAuthorizedKeys) == 0 {
		return u.Name, nil
	}
	type plain User
	return plain(u), nil
}

// Command is a runcmd entry executed without a shell.
type Command []string

// MarshalYAML renders a command as a flow sequence of quoted arguments.
func (c Command) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, arg := range c {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Style: yaml.DoubleQuotedStyle,
			Value: arg,
		})
	}
	return node, nil
}

// Render serializes the document with its cloud-config header.
func (c *Config) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal cloud-config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal cloud-config: %w", err)
	}
	return buf.Bytes(), nil
}

// Option customizes the qserv bootstrap document.
type Option func(*options)

type options struct {
	timezone string
	user     string
}

// WithTimezone sets the instance timezone.
func WithTimezone(tz string) Option {
	return func(o *options) {
		o.timezone = tz
	}
}

// WithUser sets the name of the administrative user. Empty keeps DefaultUser.
func WithUser(name string) Option {
	return func(o *options) {
		if name != "" {
			o.user = name
		}
	}
}

// NewQservConfig builds the bootstrap document for one qserv instance: a
// passwordless-sudo qserv user authorized with publicKey and member of the
// docker group, docker and mDNS packages and services, and hostname set to
// hostname.
func NewQservConfig(publicKey, hostname string, opts ...Option) (*Config, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return nil, errors.New("public key is required")
	}
	if strings.ContainsAny(publicKey, "\r\n") {
		return nil, errors.New("public key must be a single line")
	}
	if hostname == "" {
		return nil, errors.New("hostname is required")
	}

	o := options{timezone: DefaultTimezone, user: DefaultUser}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.ContainsAny(o.user, " \t\r\n:") {
		return nil, fmt.Errorf("invalid user name %q", o.user)
	}

	return &Config{
		Groups: []Group{{Name: DockerGroup, Members: []string{o.user}}},
		Users: []User{
			DistroDefaultUser,
			{
				Name:              o.user,
				Gecos:             "Qserv daemon",
				Sudo:              "ALL=(ALL) NOPASSWD:ALL",
				Shell:             "/bin/bash",
				LockPasswd:        true,
				SSHAuthorizedKeys: []string{publicKey},
			},
		},
		Packages: []string{"docker", "epel-release"},
		RunCmd: []Command{
			{"yum", "-y", "update"},
			// nss-mdns comes from epel-release, so it cannot be a package entry
			{"yum", "-y", "install", "nss-mdns"},
			{"service", "avahi-daemon", "start"},
			{"hostname", hostname},
			{"usermod", "-aG", DockerGroup, o.user},
			{"service", "docker", "start"},
		},
		ManageEtcHosts:          true,
		PackageUpgrade:          true,
		PackageRebootIfRequired: true,
		Timezone:                o.timezone,
	}, nil
}

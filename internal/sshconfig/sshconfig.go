package sshconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Defaults shared by every generated stanza.
const (
	DefaultPort         = 22
	DefaultIdentityFile = "~/.ssh/id_rsa"
	DefaultLogLevel     = "FATAL"
)

// Host is one "Host" stanza.
type Host struct {
	Alias        string
	HostName     string
	User         string
	Port         int
	ProxyCommand string
	IdentityFile string
	LogLevel     string

	// StrictHostKeyChecking, when false, disables host key verification and
	// discards known hosts. Instances are recreated on every run, so their
	// keys change.
	StrictHostKeyChecking bool
}

// JumpHost returns a ProxyCommand that tunnels through user@address.
func JumpHost(user, address string) string {
	return fmt.Sprintf("ssh -W %%h:%%p %s@%s", user, address)
}

// Validate checks that every value is present and fits on one line.
func (h Host) Validate() error {
	if h.Alias == "" {
		return fmt.Errorf("host alias is required")
	}
	if h.HostName == "" {
		return fmt.Errorf("host %s: HostName is required", h.Alias)
	}
	if strings.ContainsAny(h.Alias, " \t") {
		return fmt.Errorf("host alias %q must not contain whitespace", h.Alias)
	}
	for field, value := range map[string]string{
		"Host":         h.Alias,
		"HostName":     h.HostName,
		"User":         h.User,
		"ProxyCommand": h.ProxyCommand,
		"IdentityFile": h.IdentityFile,
		"LogLevel":     h.LogLevel,
	} {
		if strings.ContainsAny(value, "\r\n") {
			return fmt.Errorf("host %s: %s must not contain line breaks", h.Alias, field)
		}
	}
	return nil
}

// directives returns the stanza body in file order.
func (h Host) directives() [][2]string {
	port := h.Port
	if port == 0 {
		port = DefaultPort
	}

	d := [][2]string{{"HostName", h.HostName}}
	if h.User != "" {
		d = append(d, [2]string{"User", h.User})
	}
	d = append(d, [2]string{"Port", strconv.Itoa(port)})
	if !h.StrictHostKeyChecking {
		d = append(d,
			[2]string{"StrictHostKeyChecking", "no"},
			[2]string{"UserKnownHostsFile", "/dev/null"},
		)
	}
	d = append(d, [2]string{"PasswordAuthentication", "no"})
	if h.ProxyCommand != "" {
		d = append(d, [2]string{"ProxyCommand", h.ProxyCommand})
	}
	if h.IdentityFile != "" {
		d = append(d,
			[2]string{"IdentityFile", h.IdentityFile},
			[2]string{"IdentitiesOnly", "yes"},
		)
	}
	if h.LogLevel != "" {
		d = append(d, [2]string{"LogLevel", h.LogLevel})
	}
	return d
}

// Config is an ordered list of host stanzas.
type Config struct {
	Hosts []Host
}

// Add appends a host stanza.
func (c *Config) Add(h Host) {
	c.Hosts = append(c.Hosts, h)
}

// WriteTo renders all stanzas, separated by blank lines. It implements io.WriterTo.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	for _, h := range c.Hosts {
		if err := h.Validate(); err != nil {
			return 0, err
		}
	}

	cw := &countingWriter{w: bufio.NewWriter(w)}
	for i, h := range c.Hosts {
		if i > 0 {
			fmt.Fprintln(cw)
		}
		fmt.Fprintf(cw, "Host %s\n", h.Alias)
		for _, kv := range h.directives() {
			fmt.Fprintf(cw, "    %s %s\n", kv[0], kv[1])
		}
	}
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// String renders the configuration, or returns "" if it is invalid.
func (c *Config) String() string {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// WriteFile renders the configuration to path with mode 0600, replacing any
// existing file.
func (c *Config) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render ssh config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write ssh config %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set ssh config permissions: %w", err)
	}
	return nil
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}

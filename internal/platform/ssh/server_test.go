package ssh

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// startServer runs an SSH server on 127.0.0.1 that accepts only authorized,
// answers "hostname" with hostname, and forwards direct-tcpip channels.
func startServer(t *testing.T, authorized ssh.PublicKey, hostname string) (string, int) {
	t.Helper()

	_, hostKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(hostKey)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if bytes.Equal(key.Marshal(), authorized.Marshal()) {
				return nil, nil
			}
			return nil, errors.New("unauthorized")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, cfg, hostname)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, hostname string) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		switch newCh.ChannelType() {
		case "session":
			ch, requests, err := newCh.Accept()
			if err != nil {
				continue
			}
			go serveSession(ch, requests, hostname)
		case "direct-tcpip":
			var p struct {
				Host     string
				Port     uint32
				OrigHost string
				OrigPort uint32
			}
			if err := ssh.Unmarshal(newCh.ExtraData(), &p); err != nil {
				_ = newCh.Reject(ssh.ConnectionFailed, err.Error())
				continue
			}
			target, err := net.Dial("tcp", net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port))))
			if err != nil {
				_ = newCh.Reject(ssh.ConnectionFailed, err.Error())
				continue
			}
			ch, requests, err := newCh.Accept()
			if err != nil {
				_ = target.Close()
				continue
			}
			go ssh.DiscardRequests(requests)
			go func() {
				_, _ = io.Copy(ch, target)
				_ = ch.Close()
			}()
			go func() {
				_, _ = io.Copy(target, ch)
				_ = target.Close()
			}()
		default:
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported")
		}
	}
}

func serveSession(ch ssh.Channel, requests <-chan *ssh.Request, hostname string) {
	defer func() { _ = ch.Close() }()
	for req := range requests {
		if req.Type != "exec" {
			_ = req.Reply(false, nil)
			continue
		}
		var payload struct{ Command string }
		_ = ssh.Unmarshal(req.Payload, &payload)
		_ = req.Reply(true, nil)

		status := uint32(0)
		if payload.Command == "hostname" {
			_, _ = fmt.Fprintln(ch, hostname)
		} else {
			_, _ = fmt.Fprintf(ch, "%s: command not found\n", payload.Command)
			status = 127
		}
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
		return
	}
}

func newLocalClient(t *testing.T, hostname string) (*Client, ssh.PublicKey) {
	t.Helper()
	kp := generateTestKey(t)
	pub, _, _, _, err := ssh.ParseAuthorizedKey(kp.PublicKey)
	require.NoError(t, err)

	host, port := startServer(t, pub, hostname)
	client, err := NewClient(&Config{
		Host:        host,
		Port:        port,
		User:        "qserv",
		PrivateKey:  kp.PrivateKey,
		DialTimeout: time.Second,
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
	})
	require.NoError(t, err)
	return client, pub
}

func TestClient_Hostname(t *testing.T) {
	t.Parallel()
	client, _ := newLocalClient(t, "alice-qserv-0")

	name, err := client.Hostname(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "alice-qserv-0", name)
}

func TestClient_Execute_CommandFails(t *testing.T) {
	t.Parallel()
	client, _ := newLocalClient(t, "alice-qserv-0")

	out, err := client.Execute(context.Background(), "qserv-status")

	require.Error(t, err)
	assert.Contains(t, out, "command not found")
	var exitErr *ssh.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 127, exitErr.ExitStatus())
}

func TestClient_ExecuteVia(t *testing.T) {
	t.Parallel()
	client, pub := newLocalClient(t, "alice-qserv-0")
	workerHost, workerPort := startServer(t, pub, "alice-qserv-1")

	out, err := client.ExecuteVia(context.Background(), net.JoinHostPort(workerHost, strconv.Itoa(workerPort)), "hostname")

	require.NoError(t, err)
	assert.Equal(t, "alice-qserv-1\n", out)
}

func TestClient_Execute_Unauthorized(t *testing.T) {
	t.Parallel()
	other := generateTestKey(t)
	otherPub, _, _, _, err := ssh.ParseAuthorizedKey(other.PublicKey)
	require.NoError(t, err)
	host, port := startServer(t, otherPub, "alice-qserv-0")

	client, err := NewClient(&Config{
		Host:       host,
		Port:       port,
		User:       "qserv",
		PrivateKey: generateTestKey(t).PrivateKey,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.Execute(context.Background(), "hostname")
	assert.ErrorContains(t, err, "failed to establish SSH connection")
}

func TestClient_Execute_NothingListening(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	client, err := NewClient(&Config{
		Host:       "127.0.0.1",
		Port:       port,
		User:       "qserv",
		PrivateKey: generateTestKey(t).PrivateKey,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.Execute(context.Background(), "hostname")
	assert.ErrorContains(t, err, "after 1 retry attempts")
}

package native

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/arthur-debert/piplayer/pkg/transport"
)

// defaultIdentities are tried, in order, when no identity is configured.
var defaultIdentities = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// authMethods collects non-interactive credentials: private keys that need
// no passphrase, then the ssh agent. Passwords and keyboard-interactive are
// never offered, so a rejected key fails instead of prompting.
func (t *Transport) authMethods() ([]ssh.AuthMethod, error) {
	var signers []ssh.Signer

	identities := t.cfg.IdentityFiles
	explicit := len(identities) > 0
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			for _, name := range defaultIdentities {
				identities = append(identities, filepath.Join(home, ".ssh", name))
			}
		}
	}

	for _, path := range identities {
		signer, err := loadSigner(path)
		if err != nil {
			if explicit {
				return nil, fmt.Errorf("load key %s: %w", path, err)
			}
			if !os.IsNotExist(err) {
				t.logger.Debug().Err(err).Str("key", path).Msg("Skipping unusable key")
			}
			continue
		}
		signers = append(signers, signer)
	}

	var auths []ssh.AuthMethod
	if len(signers) > 0 {
		auths = append(auths, ssh.PublicKeys(signers...))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			ag := agent.NewClient(conn)
			auths = append(auths, ssh.PublicKeysCallback(ag.Signers))
		}
	}

	if len(auths) == 0 {
		return nil, stderrors.New("no ssh credentials: no usable key file and no ssh agent")
	}
	return auths, nil
}

// loadSigner loads an unencrypted private key. Encrypted keys are rejected
// because asking for a passphrase would block an unattended run.
func loadSigner(path string) (ssh.Signer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ssh.ParsePrivateKey(b)
	if err == nil {
		return s, nil
	}
	var passphraseMissingError *ssh.PassphraseMissingError
	if stderrors.As(err, &passphraseMissingError) {
		return nil, fmt.Errorf("private key is encrypted; load it into ssh-agent instead")
	}
	return nil, err
}

func (t *Transport) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if !t.cfg.StrictHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	path := t.cfg.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("known_hosts file not found at %s and strict host key checking is enabled", path)
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("known_hosts: %w", err)
	}
	return cb, nil
}

// dialSSH connects and authenticates within the connect timeout.
func (t *Transport) dialSSH(ctx context.Context, ep transport.Endpoint) (client, error) {
	auths, err := t.authMethods()
	if err != nil {
		return nil, err
	}
	hostKeyCB, err := t.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            ep.User,
		Auth:            auths,
		HostKeyCallback: hostKeyCB,
		Timeout:         t.cfg.ConnectTimeout,
	}

	addr := ep.Address()
	d := net.Dialer{Timeout: t.cfg.ConnectTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// the handshake shares the connect budget
	_ = conn.SetDeadline(time.Now().Add(t.cfg.ConnectTimeout))
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})

	return sshClient{c: ssh.NewClient(c, chans, reqs)}, nil
}

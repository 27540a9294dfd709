// Package openssh reaches players through the system ssh and rsync
// binaries, honouring the user's ~/.ssh/config.
package openssh

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/fragment"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Config controls the ssh options passed on every call.
type Config struct {
	ConnectTimeout time.Duration
	// Identity is an explicit private key file, passed as ssh -i.
	Identity string
	// StrictHostKey refuses unknown host keys instead of accepting them.
	StrictHostKey bool
	SSHBinary     string
	RsyncBinary   string
}

// Transport shells out to ssh and rsync.
type Transport struct {
	cfg    Config
	run    func(cmd *exec.Cmd) error
	logger zerolog.Logger
}

// New creates an OpenSSH transport.
func New(cfg Config) *Transport {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = transport.DefaultConnectTimeout
	}
	if cfg.SSHBinary == "" {
		cfg.SSHBinary = "ssh"
	}
	if cfg.RsyncBinary == "" {
		cfg.RsyncBinary = "rsync"
	}
	return &Transport{
		cfg:    cfg,
		run:    (*exec.Cmd).Run,
		logger: logging.GetLogger("transport.openssh"),
	}
}

// sshOptions are shared by ssh and rsync's remote shell. BatchMode keeps
// ssh from ever prompting for a password or passphrase.
func (t *Transport) sshOptions(ep transport.Endpoint) []string {
	timeout := int(t.cfg.ConnectTimeout.Round(time.Second) / time.Second)
	if timeout < 1 {
		timeout = 1
	}
	strict := "no"
	if t.cfg.StrictHostKey {
		strict = "yes"
	}

	opts := []string{
		"-o", "ConnectTimeout=" + strconv.Itoa(timeout),
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=" + strict,
	}
	if ep.Port != 0 && ep.Port != 22 {
		opts = append(opts, "-p", strconv.Itoa(ep.Port))
	}
	if t.cfg.Identity != "" {
		opts = append(opts, "-i", t.cfg.Identity)
	}
	return opts
}

func (t *Transport) sshCommand(ctx context.Context, ep transport.Endpoint, script string) *exec.Cmd {
	args := append(t.sshOptions(ep), "--", ep.User+"@"+ep.Host, "sh", "-s")
	cmd := exec.CommandContext(ctx, t.cfg.SSHBinary, args...)
	cmd.Stdin = strings.NewReader(script)
	return cmd
}

func (t *Transport) rsyncCommand(ctx context.Context, localPath string, ep transport.Endpoint, remoteDir string) *exec.Cmd {
	rsh := make([]string, 0, 8)
	rsh = append(rsh, fragment.Quote(t.cfg.SSHBinary))
	for _, opt := range t.sshOptions(ep) {
		rsh = append(rsh, fragment.Quote(opt))
	}

	dir := strings.TrimSuffix(remoteDir, "/")
	args := []string{
		"-az",
		"--ignore-existing",
		"-e", strings.Join(rsh, " "),
		// create the media directory before the remote rsync starts
		"--rsync-path", "mkdir -p " + fragment.Quote(dir) + " && rsync",
		localPath,
		fmt.Sprintf("%s@%s:%s/", ep.User, rsyncHost(ep.Host), dir),
	}
	return exec.CommandContext(ctx, t.cfg.RsyncBinary, args...)
}

// rsyncHost brackets IPv6 literals so rsync can tell the host from the
// path that follows the colon.
func rsyncHost(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

// Execute runs script on ep through `ssh user@host sh -s`.
func (t *Transport) Execute(ctx context.Context, ep transport.Endpoint, script string) error {
	logger := t.logger.With().Str("host", ep.Host).Logger()
	cmd := t.sshCommand(ctx, ep, script)
	if err := t.exec(logger, cmd); err != nil {
		return errors.Wrapf(err, errors.ErrTransport, "ssh to %s failed", ep).
			WithDetail("host", ep.Host)
	}
	return nil
}

// Sync copies localPath with rsync --ignore-existing.
func (t *Transport) Sync(ctx context.Context, localPath string, ep transport.Endpoint, remoteDir string) error {
	logger := t.logger.With().Str("host", ep.Host).Str("file", localPath).Logger()
	cmd := t.rsyncCommand(ctx, localPath, ep, remoteDir)
	if err := t.exec(logger, cmd); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "rsync of %s to %s failed", localPath, ep).
			WithDetail("host", ep.Host).
			WithDetail("file", localPath).
			WithDetail("dest", remoteDir)
	}
	return nil
}

func (t *Transport) exec(logger zerolog.Logger, cmd *exec.Cmd) error {
	stdout := logging.LineWriter(logger, zerolog.DebugLevel, "stdout")
	stderr := logging.LineWriter(logger, zerolog.InfoLevel, "stderr")
	defer stdout.Close()
	defer stderr.Close()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logging.LogCommand(logger, cmd.Path, cmd.Args[1:])
	return t.run(cmd)
}

// Close is a no-op; every call starts its own process.
func (t *Transport) Close() error {
	return nil
}

var _ transport.Transport = (*Transport)(nil)

// Package native reaches players over SSH with golang.org/x/crypto/ssh, so
// no ssh or rsync binary is needed on the machine running piplayer.
package native

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/fragment"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Config controls authentication and connection setup.
type Config struct {
	ConnectTimeout time.Duration
	// IdentityFiles replaces the default ~/.ssh keys when set.
	IdentityFiles []string
	// StrictHostKey verifies host keys against KnownHostsPath
	// (default ~/.ssh/known_hosts) instead of accepting any key.
	StrictHostKey  bool
	KnownHostsPath string
}

// Transport keeps one SSH connection per endpoint for the lifetime of a run.
type Transport struct {
	cfg     Config
	dial    func(ctx context.Context, ep transport.Endpoint) (client, error)
	open    func(name string) (io.ReadCloser, error)
	mu      sync.Mutex
	clients map[string]client
	logger  zerolog.Logger
}

// New creates a native SSH transport.
func New(cfg Config) *Transport {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = transport.DefaultConnectTimeout
	}
	t := &Transport{
		cfg:     cfg,
		clients: make(map[string]client),
		open:    openFile,
		logger:  logging.GetLogger("transport.native"),
	}
	t.dial = t.dialSSH
	return t
}

func (t *Transport) client(ctx context.Context, ep transport.Endpoint) (client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := ep.String()
	if c, ok := t.clients[key]; ok {
		return c, nil
	}

	start := time.Now()
	c, err := t.dial(ctx, ep)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTransport, "cannot connect to %s", ep).
			WithDetail("host", ep.Host)
	}
	t.logger.Debug().
		Str("host", ep.Host).
		Dur("duration", time.Since(start)).
		Msg("Connected")
	t.clients[key] = c
	return c, nil
}

// run executes cmd in a fresh session. Cancelling ctx closes the session.
func (t *Transport) run(ctx context.Context, ep transport.Endpoint, cmd string, stdin io.Reader) error {
	c, err := t.client(ctx, ep)
	if err != nil {
		return err
	}
	s, err := c.NewSession()
	if err != nil {
		return errors.Wrapf(err, errors.ErrTransport, "cannot open session on %s", ep).
			WithDetail("host", ep.Host)
	}
	defer s.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	logger := t.logger.With().Str("host", ep.Host).Logger()
	stdout := logging.LineWriter(logger, zerolog.DebugLevel, "stdout")
	stderr := logging.LineWriter(logger, zerolog.InfoLevel, "stderr")
	defer stdout.Close()
	defer stderr.Close()

	return s.Run(cmd, stdin, stdout, stderr)
}

// Execute feeds script to `sh -s` on the player.
func (t *Transport) Execute(ctx context.Context, ep transport.Endpoint, script string) error {
	err := t.run(ctx, ep, "sh -s", strings.NewReader(script))
	if err == nil {
		return nil
	}
	if errors.IsErrorCode(err, errors.ErrTransport) {
		return err
	}
	return errors.Wrapf(err, errors.ErrTransport, "remote script failed on %s", ep).
		WithDetail("host", ep.Host)
}

// Sync copies localPath into remoteDir unless a file with that name exists.
// The upload goes to a temporary name and is renamed once complete, so an
// interrupted copy is never mistaken for a finished one.
func (t *Transport) Sync(ctx context.Context, localPath string, ep transport.Endpoint, remoteDir string) error {
	dest := path.Join(remoteDir, filepath.Base(localPath))
	logger := t.logger.With().Str("host", ep.Host).Str("file", localPath).Logger()

	err := t.run(ctx, ep, "test -e "+fragment.Quote(dest), nil)
	if err == nil {
		logger.Debug().Str("dest", dest).Msg("Already present, skipping")
		return nil
	}
	if status, ok := exitStatus(err); !ok || status != 1 {
		return errors.Wrapf(err, errors.ErrSync, "cannot check %s on %s", dest, ep).
			WithDetail("host", ep.Host).
			WithDetail("file", localPath)
	}

	f, err := t.open(localPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSync, "cannot read %s", localPath).
			WithDetail("file", localPath)
	}
	defer f.Close()

	part := dest + ".part"
	upload := "mkdir -p " + fragment.Quote(remoteDir) +
		" && cat > " + fragment.Quote(part) +
		" && mv " + fragment.Quote(part) + " " + fragment.Quote(dest)
	if err := t.run(ctx, ep, upload, f); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "cannot copy %s to %s", localPath, ep).
			WithDetail("host", ep.Host).
			WithDetail("file", localPath)
	}

	logger.Info().Str("dest", dest).Msg("Copied video")
	return nil
}

// Close closes every cached connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for key, c := range t.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(t.clients, key)
	}
	return stderrors.Join(errs...)
}

// exitStatus extracts the remote exit status from a session error.
func exitStatus(err error) (int, bool) {
	var exit interface{ ExitStatus() int }
	if stderrors.As(err, &exit) {
		return exit.ExitStatus(), true
	}
	return 0, false
}

func openFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

var _ transport.Transport = (*Transport)(nil)

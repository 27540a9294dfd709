// Package local provisions the machine piplayer runs on. Scripts run under
// sh and media is copied within the local filesystem, which makes it usable
// both on the player itself and in tests.
package local

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/logging"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Transport runs everything on the local machine.
type Transport struct {
	home   string
	shell  string
	fs     afero.Fs
	logger zerolog.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithHome makes home the player user's home directory.
func WithHome(home string) Option {
	return func(t *Transport) { t.home = home }
}

// WithFs sets the filesystem media is read from and copied into.
func WithFs(fs afero.Fs) Option {
	return func(t *Transport) { t.fs = fs }
}

// WithShell overrides the shell used to run scripts.
func WithShell(shell string) Option {
	return func(t *Transport) { t.shell = shell }
}

// New creates a local transport. The home directory defaults to the
// current user's.
func New(opts ...Option) (*Transport, error) {
	t := &Transport{
		shell:  "sh",
		fs:     afero.NewOsFs(),
		logger: logging.GetLogger("transport.local"),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrTransport, "cannot determine home directory")
		}
		t.home = home
	}
	return t, nil
}

// Execute runs script with sh -s, feeding it on stdin.
func (t *Transport) Execute(ctx context.Context, ep transport.Endpoint, script string) error {
	logger := t.logger.With().Str("host", ep.Host).Logger()

	cmd := exec.CommandContext(ctx, t.shell, "-s")
	cmd.Dir = t.home
	cmd.Env = append(os.Environ(), "HOME="+t.home)
	cmd.Stdin = strings.NewReader(script)

	stdout := logging.LineWriter(logger, zerolog.DebugLevel, "stdout")
	stderr := logging.LineWriter(logger, zerolog.DebugLevel, "stderr")
	defer stdout.Close()
	defer stderr.Close()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logging.LogCommand(logger, t.shell, cmd.Args[1:])
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, errors.ErrTransport, "local script failed").
			WithDetail("host", ep.Host)
	}
	return nil
}

// Sync copies localPath into remoteDir under the home directory unless a
// file with the same name is already there.
func (t *Transport) Sync(ctx context.Context, localPath string, ep transport.Endpoint, remoteDir string) error {
	dir := filepath.Join(t.home, remoteDir)
	dest := filepath.Join(dir, filepath.Base(localPath))
	logger := t.logger.With().Str("host", ep.Host).Str("file", localPath).Logger()

	if _, err := t.fs.Stat(dest); err == nil {
		logger.Debug().Str("dest", dest).Msg("Already present, skipping")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrSync, "sync cancelled")
	}

	if err := t.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "cannot create %s", dir)
	}
	if err := copyFile(t.fs, localPath, dest); err != nil {
		return errors.Wrapf(err, errors.ErrSync, "cannot copy %s", localPath).
			WithDetail("file", localPath)
	}

	logger.Info().Str("dest", dest).Msg("Copied video")
	return nil
}

// Close is a no-op; the local transport holds no connections.
func (t *Transport) Close() error {
	return nil
}

func copyFile(fs afero.Fs, src, dest string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dest + ".part"
	out, err := fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = fs.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	return fs.Rename(tmp, dest)
}

var _ transport.Transport = (*Transport)(nil)

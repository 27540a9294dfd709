// Package preview implements a dry-run transport that prints what would be
// sent to each player instead of connecting to it.
package preview

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/piplayer/pkg/transport"
)

// Transport writes scripts and sync plans to an io.Writer.
type Transport struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a preview transport writing to out.
func New(out io.Writer) *Transport {
	return &Transport{out: out}
}

// Execute prints the script that would run on ep.
func (t *Transport) Execute(ctx context.Context, ep transport.Endpoint, script string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := fmt.Fprintf(t.out, "# script for %s\n%s\n\n", ep, script)
	return err
}

// Sync prints the copy that would happen. Remote state is unknown in a dry
// run, so every file is listed.
func (t *Transport) Sync(ctx context.Context, localPath string, ep transport.Endpoint, remoteDir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	dest := path.Join(remoteDir, filepath.Base(localPath))
	_, err := fmt.Fprintf(t.out, "# copy %s to %s:~/%s (unless present)\n", localPath, ep, dest)
	return err
}

// Close is a no-op.
func (t *Transport) Close() error {
	return nil
}

var _ transport.Transport = (*Transport)(nil)

package local

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/transport"
)

var ep = transport.Endpoint{User: "pi", Host: "localhost"}

func TestSyncCopiesOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/media/clip.mp4", []byte("new"), 0644))

	tr, err := New(WithHome("/home/pi"), WithFs(fs))
	require.NoError(t, err)

	require.NoError(t, tr.Sync(context.Background(), "/media/clip.mp4", ep, "videos"))
	got, err := afero.ReadFile(fs, "/home/pi/videos/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	exists, err := afero.Exists(fs, "/home/pi/videos/clip.mp4.part")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSyncSkipsExistingByName(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/media/clip.mp4", []byte("new"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/home/pi/videos/clip.mp4", []byte("old"), 0644))

	tr, err := New(WithHome("/home/pi"), WithFs(fs))
	require.NoError(t, err)

	require.NoError(t, tr.Sync(context.Background(), "/media/clip.mp4", ep, "videos"))
	got, err := afero.ReadFile(fs, "/home/pi/videos/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got), "existing files are never overwritten")
}

func TestSyncMissingSource(t *testing.T) {
	tr, err := New(WithHome("/home/pi"), WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	err = tr.Sync(context.Background(), "/media/missing.mp4", ep, "videos")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSync))
}

func TestExecute(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	home := t.TempDir()
	tr, err := New(WithHome(home), WithShell(sh))
	require.NoError(t, err)

	require.NoError(t, tr.Execute(context.Background(), ep, "echo hello > \"$HOME/out\"\necho world >> out"))
	got, err := os.ReadFile(filepath.Join(home, "out"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(got))

	err = tr.Execute(context.Background(), ep, "exit 3")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
	assert.NoError(t, tr.Close())
}

func TestExecuteMissingShell(t *testing.T) {
	tr, err := New(WithHome(t.TempDir()), WithShell(filepath.Join(t.TempDir(), "no-such-shell")))
	require.NoError(t, err)

	err = tr.Execute(context.Background(), ep, "true")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
}

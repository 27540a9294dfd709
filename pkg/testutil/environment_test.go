package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEnvironment(t *testing.T) {
	env := NewTestEnvironment(t, EnvMemoryOnly)

	paths := env.WriteMedia("b.mp4", "a.mp4")
	assert.Equal(t, []string{"/media/b.mp4", "/media/a.mp4"}, paths)
	assert.Equal(t, "video:a.mp4", env.ReadFile("/media/a.mp4"))
	assert.Equal(t, "/home/pi/playlist.m3u", env.HomePath("playlist.m3u"))
}

func TestIsolatedEnvironment(t *testing.T) {
	env := NewTestEnvironment(t, EnvIsolated)

	paths := env.WriteMedia("clip.mp4")
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "video:clip.mp4", string(data))

	info, err := os.Stat(env.HomeDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(env.HomeDir, ".bashrc"), env.HomePath(".bashrc"))
}

func TestEnvironmentClearsSettingsOverrides(t *testing.T) {
	t.Setenv("PIPLAYER_LOOP", "false")

	env := NewTestEnvironment(t, EnvMemoryOnly)

	_, set := os.LookupEnv("PIPLAYER_LOOP")
	assert.False(t, set)
	assert.FileExists(t, env.UserConfig)
	assert.NotEmpty(t, os.Getenv("XDG_STATE_HOME"))
}

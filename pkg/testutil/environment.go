package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// envPrefix matches the settings override variables read by config.
const envPrefix = "PIPLAYER_"

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Media and home live in a MemMapFs
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment is a player home plus a local media directory.
type TestEnvironment struct {
	HomeDir    string
	MediaDir   string
	UserConfig string

	FS   afero.Fs
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.FS = afero.NewMemMapFs()
		env.HomeDir = "/home/pi"
		env.MediaDir = "/media"
	case EnvIsolated:
		tempDir := t.TempDir()
		env.FS = afero.NewOsFs()
		env.HomeDir = filepath.Join(tempDir, "home")
		env.MediaDir = filepath.Join(tempDir, "media")
	}

	require.NoError(t, env.FS.MkdirAll(env.HomeDir, 0755))
	require.NoError(t, env.FS.MkdirAll(env.MediaDir, 0755))

	// Logs and the user config file always live on disk
	xdg := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(xdg, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(xdg, "config"))
	env.UserConfig = filepath.Join(xdg, "config.toml")
	require.NoError(t, os.WriteFile(env.UserConfig, nil, 0644))

	clearSettingsEnv(t)

	return env
}

func clearSettingsEnv(t *testing.T) {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

// WriteMedia creates video files in MediaDir and returns their paths in
// the given order.
func (env *TestEnvironment) WriteMedia(names ...string) []string {
	env.t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(env.MediaDir, name)
		env.WriteFile(p, "video:"+name)
		paths = append(paths, p)
	}
	return paths
}

// WriteFile creates a file, and its parent directories, in FS.
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	require.NoError(env.t, env.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, afero.WriteFile(env.FS, path, []byte(content), 0644))
}

// ReadFile returns the content of a file in FS.
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := afero.ReadFile(env.FS, path)
	require.NoError(env.t, err)
	return string(data)
}

// HomePath joins rel onto the player home.
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// RequireShell skips the test when no POSIX shell is available.
func RequireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

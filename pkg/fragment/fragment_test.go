package fragment

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"clip.mp4", "clip.mp4"},
		{"/home/pi/videos/a-b_c+d.mp4", "/home/pi/videos/a-b_c+d.mp4"},
		{"my clip.mp4", "'my clip.mp4'"},
		{"it's.mp4", `'it'\''s.mp4'`},
		{"$(reboot)", "'$(reboot)'"},
		{"~/start_player.sh", "'~/start_player.sh'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestHome(t *testing.T) {
	assert.Equal(t, `"$HOME"`, Home(""))
	assert.Equal(t, `"$HOME/videos"`, Home("videos"))
	assert.Equal(t, `"$HOME/videos"`, Home("/videos"))
	assert.Equal(t, `"$HOME/videos/a \"b\" \$c \`+"`"+`d\`+"`"+`.mp4"`, Home("videos/a \"b\" $c `d`.mp4"))
}

func TestCommand(t *testing.T) {
	f := Command("chmod", "u+x", HomeWord("start_player.sh"))
	assert.Equal(t, Fragment(`chmod u+x "$HOME/start_player.sh"`), f)

	f = Command("systemctl", "--user", "enable", Arg("player.service"))
	assert.Equal(t, "systemctl --user enable player.service", f.String())
}

func TestNoStdin(t *testing.T) {
	f := NoStdin(Command("sudo", "apt-get", "update"))
	assert.Equal(t, "sudo apt-get update </dev/null", f.String())
}

func TestIfMissing(t *testing.T) {
	f := IfMissing("vlc", Raw("sudo apt-get update"), Raw("sudo apt-get -y install vlc"))
	want := "if ! command -v vlc >/dev/null 2>&1\n" +
		"then\n" +
		"    sudo apt-get update\n" +
		"    sudo apt-get -y install vlc\n" +
		"fi"
	assert.Equal(t, want, f.String())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "set -e\nmkdir -p \"$HOME/videos\"", Join([]Fragment{Strict(), MkdirAll(HomeWord("videos"))}))
	assert.Equal(t, "", Join(nil))
}

// runShell executes script with sh in a scratch HOME and returns that HOME.
func runShell(t *testing.T, home string, script string) {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	cmd := exec.Command(sh, "-c", script)
	cmd.Env = []string{"HOME=" + home, "PATH=" + os.Getenv("PATH")}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "script failed: %s", out)
}

func TestAppendLineOnceIsIdempotent(t *testing.T) {
	home := t.TempDir()
	bashrc := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(bashrc, []byte("export EDITOR=vi\n"), 0644))

	f := AppendLineOnce("~/start_player.sh", HomeWord(".bashrc"))
	runShell(t, home, f.String())
	runShell(t, home, f.String())

	content, err := os.ReadFile(bashrc)
	require.NoError(t, err)
	assert.Equal(t, "export EDITOR=vi\n~/start_player.sh\n", string(content))
}

func TestAppendLineOnceCreatesFile(t *testing.T) {
	home := t.TempDir()

	runShell(t, home, AppendLineOnce("~/start_player.sh", HomeWord(".bashrc")).String())

	content, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "~/start_player.sh\n", string(content))
}

func TestWriteFileOverwrites(t *testing.T) {
	home := t.TempDir()
	content := "line one\nit's \"quoted\" $HOME `x`"

	runShell(t, home, WriteFile(HomeWord("out.txt"), "stale").String())
	runShell(t, home, WriteFile(HomeWord("out.txt"), content).String())

	got, err := os.ReadFile(filepath.Join(home, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, content+"\n", string(got))
}

func TestWriteLinesExpandsHome(t *testing.T) {
	home := t.TempDir()

	runShell(t, home, WriteLines(HomeWord("playlist.m3u"), HomeWord("videos/a.mp4"), HomeWord("videos/b c.mp4")).String())

	got, err := os.ReadFile(filepath.Join(home, "playlist.m3u"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	assert.Equal(t, []string{home + "/videos/a.mp4", home + "/videos/b c.mp4"}, lines)

	runShell(t, home, WriteLines(HomeWord("playlist.m3u")).String())
	got, err = os.ReadFile(filepath.Join(home, "playlist.m3u"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

package provision

import (
	"path"
	"path/filepath"

	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/fragment"
)

// Remote layout, relative to the player user's home.
const (
	MediaDir     = "videos"
	PlaylistFile = "playlist.m3u"
	StartScript  = "start_player.sh"
	ShellRC      = ".bashrc"
	UnitDir      = ".local/share/systemd/user"
	UnitName     = "player.service"
)

// Media player details.
const (
	PlayerPackage = "vlc"
	PlayerProcess = "vlc"
	PlayerBinary  = "cvlc"
	// PlayerPath is where the Debian package installs PlayerBinary.
	PlayerPath = "/usr/bin/cvlc"
)

// Invocation describes how the media player is launched.
type Invocation struct {
	Loop   bool
	Random bool
}

// InvocationFor derives the player flags from a target's settings.
func InvocationFor(t config.Target) Invocation {
	return Invocation{Loop: t.Loop, Random: t.Random}
}

// args renders the player arguments after the binary.
func (inv Invocation) args(daemon bool, playlist fragment.Word) []fragment.Word {
	var args []fragment.Word
	if daemon {
		args = append(args, "--daemon")
	}
	args = append(args, "--no-osd", playlist)
	if inv.Loop {
		args = append(args, "--loop")
	}
	if inv.Random {
		args = append(args, "--random")
	}
	return args
}

// RemoteVideoPath is where a local file lands on the player, relative to
// the player user's home.
func RemoteVideoPath(local string) string {
	return path.Join(MediaDir, filepath.Base(local))
}

package provision

import (
	"fmt"
	"path"
	"strings"

	"github.com/arthur-debert/piplayer/pkg/batch"
	"github.com/arthur-debert/piplayer/pkg/config"
	"github.com/arthur-debert/piplayer/pkg/fragment"
)

// Autostart is a way of starting playback when the player boots. The set is
// closed: LoginShell and ServiceManager are the only implementations.
type Autostart interface {
	// Name is the service type the strategy implements.
	Name() config.ServiceType
	// Install queues the fragments that make playback start on boot.
	Install(b *batch.Batch, inv Invocation)
	// Activate queues the fragments that restart playback now.
	Activate(b *batch.Batch)

	isAutostart()
}

// AutostartFor returns the strategy for a service type.
func AutostartFor(st config.ServiceType) (Autostart, error) {
	switch st {
	case config.ServiceLoginShell:
		return LoginShell{}, nil
	case config.ServiceManager:
		return ServiceManager{}, nil
	default:
		return nil, fmt.Errorf("unknown service type %q", st)
	}
}

// LoginShell starts the player from ~/.bashrc on login, unless it is
// already running.
type LoginShell struct{}

func (LoginShell) Name() config.ServiceType { return config.ServiceLoginShell }

func (LoginShell) isAutostart() {}

// StartScriptContent renders the script that launches the player only when
// no player process is running.
func (LoginShell) StartScriptContent(inv Invocation) string {
	launch := fragment.Command(PlayerBinary, inv.args(true, fragment.HomeWord(PlaylistFile))...)
	return strings.Join([]string{
		"#!/bin/sh",
		"if pgrep -x " + fragment.Quote(PlayerProcess) + " >/dev/null",
		"then",
		"    echo 'playing'",
		"else",
		"    echo 'starting'",
		"    " + launch.String(),
		"fi",
	}, "\n")
}

// Install writes the start script and hooks it into the login shell once.
func (s LoginShell) Install(b *batch.Batch, inv Invocation) {
	script := fragment.HomeWord(StartScript)
	b.Append(
		fragment.WriteFile(script, s.StartScriptContent(inv)),
		fragment.Command("chmod", "u+x", script),
		fragment.AppendLineOnce("~/"+StartScript, fragment.HomeWord(ShellRC)),
	)
}

// Activate kills any running player and starts it again with the current
// options.
func (LoginShell) Activate(b *batch.Batch) {
	b.Append(
		fragment.IgnoreFailure(fragment.Command("killall", "-9", fragment.Arg(PlayerProcess))),
		fragment.Raw(fragment.Home(StartScript)),
	)
}

// ServiceManager runs the player as a systemd user service.
type ServiceManager struct{}

func (ServiceManager) Name() config.ServiceType { return config.ServiceManager }

func (ServiceManager) isAutostart() {}

// UnitContent renders the unit file. systemd supervises the player in the
// foreground, so it is not daemonized; %h expands to the user's home.
func (ServiceManager) UnitContent(inv Invocation) string {
	exec := fragment.Command(PlayerPath, inv.args(false, "%h/"+PlaylistFile)...)
	return strings.Join([]string{
		"[Unit]",
		"Description=Video Player",
		"",
		"[Service]",
		"Type=simple",
		"ExecStart=" + exec.String(),
		"Restart=on-failure",
		"",
		"[Install]",
		"WantedBy=default.target",
	}, "\n")
}

// Install writes the unit file, always replacing the previous one.
func (s ServiceManager) Install(b *batch.Batch, inv Invocation) {
	b.Append(
		fragment.MkdirAll(fragment.HomeWord(UnitDir)),
		fragment.WriteFile(fragment.HomeWord(path.Join(UnitDir, UnitName)), s.UnitContent(inv)),
	)
}

// Activate enables the unit and restarts it so new options take effect.
func (ServiceManager) Activate(b *batch.Batch) {
	b.Append(
		fragment.Command("systemctl", "--user", "enable", fragment.Arg(UnitName)),
		fragment.Command("systemctl", "--user", "daemon-reload"),
		fragment.Command("systemctl", "--user", "restart", fragment.Arg(UnitName)),
	)
}

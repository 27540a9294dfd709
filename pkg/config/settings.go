package config

import (
	"fmt"
)

// ServiceType selects how playback is started on boot.
type ServiceType string

const (
	// ServiceLoginShell hooks a start script into the login shell's ~/.bashrc.
	ServiceLoginShell ServiceType = "bashrc"
	// ServiceManager installs a systemd user unit.
	ServiceManager ServiceType = "systemd"
)

// ParseServiceType validates a service type name.
func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceLoginShell, ServiceManager:
		return ServiceType(s), nil
	default:
		return "", fmt.Errorf("unknown service type %q (want %q or %q)", s, ServiceLoginShell, ServiceManager)
	}
}

// Option names as they appear in project files and environment variables.
const (
	KeyLoop        = "loop"
	KeyUser        = "user"
	KeyGap         = "gap"
	KeyStartAt     = "start_at"
	KeyRandom      = "random"
	KeyServiceType = "service_type"
	KeyPort        = "port"

	KeyHost   = "host"
	KeyVideos = "videos"
)

// SettingKeys lists every option a settings layer may carry.
var SettingKeys = []string{KeyLoop, KeyUser, KeyGap, KeyStartAt, KeyRandom, KeyServiceType, KeyPort}

// Settings holds the playback and connection options shared by all players.
//
// Gap and StartAt are accepted and carried through resolution but no
// provisioning step consumes them yet.
type Settings struct {
	Loop        bool        `koanf:"loop" yaml:"loop" toml:"loop"`
	User        string      `koanf:"user" yaml:"user" toml:"user"`
	Gap         float64     `koanf:"gap" yaml:"gap" toml:"gap"`
	StartAt     float64     `koanf:"start_at" yaml:"start_at" toml:"start_at"`
	Random      bool        `koanf:"random" yaml:"random" toml:"random"`
	ServiceType ServiceType `koanf:"service_type" yaml:"service_type" toml:"service_type"`
	Port        int         `koanf:"port" yaml:"port" toml:"port"`
}

var defaults = Settings{
	Loop:        true,
	User:        "pi",
	Gap:         0.0,
	StartAt:     0.0,
	Random:      false,
	ServiceType: ServiceLoginShell,
	Port:        22,
}

// Defaults returns a copy of the built-in settings.
func Defaults() Settings {
	return defaults
}

// toMap renders settings as the lowest merge layer. A fresh map is built on
// every call so no layer can leak into another merge.
func (s Settings) toMap() map[string]interface{} {
	return map[string]interface{}{
		KeyLoop:        s.Loop,
		KeyUser:        s.User,
		KeyGap:         s.Gap,
		KeyStartAt:     s.StartAt,
		KeyRandom:      s.Random,
		KeyServiceType: string(s.ServiceType),
		KeyPort:        s.Port,
	}
}

// Target is one fully merged player. Videos holds the player's patterns
// after merging and the concrete file list once expanded by the media
// resolver.
type Target struct {
	Host     string   `koanf:"host" yaml:"host" toml:"host"`
	Videos   []string `koanf:"videos" yaml:"videos" toml:"videos"`
	Settings `koanf:",squash" yaml:",inline"`
}

// WithVideos returns a copy of the target carrying the given video list.
func (t Target) WithVideos(videos []string) Target {
	t.Videos = append([]string(nil), videos...)
	return t
}

// Address returns the user@host login the target is reached at.
func (t Target) Address() string {
	return t.User + "@" + t.Host
}

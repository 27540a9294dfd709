package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/piplayer/pkg/errors"
	"github.com/arthur-debert/piplayer/pkg/logging"
)

const (
	// EnvPrefix prefixes environment variables that override settings.
	EnvPrefix = "PIPLAYER_"

	userConfigName = "piplayer/config.toml"
)

// Project is the raw content of a project file: shared settings and the
// ordered list of players.
type Project struct {
	Settings map[string]interface{}
	Players  []map[string]interface{}
}

// ProjectFromHosts builds a project with one player per host, each playing
// the same video patterns.
func ProjectFromHosts(hosts, videos []string) *Project {
	p := &Project{Settings: map[string]interface{}{}}
	for _, h := range hosts {
		p.Players = append(p.Players, map[string]interface{}{
			KeyHost:   h,
			KeyVideos: append([]string(nil), videos...),
		})
	}
	return p
}

// LoadProject reads a YAML or TOML project file. Both top-level fields are
// optional and default to empty.
func LoadProject(path string) (*Project, error) {
	logger := logging.GetLogger("config")

	k, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	p := &Project{Settings: map[string]interface{}{}}

	if raw := k.Get("settings"); raw != nil {
		settings, ok := raw.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigInvalid, "settings in %s must be a mapping", path).
				WithDetail("path", path)
		}
		p.Settings = settings
	}

	if raw := k.Get("players"); raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigInvalid, "players in %s must be a list", path).
				WithDetail("path", path)
		}
		for i, item := range list {
			player, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigInvalid, "player %d in %s must be a mapping", i+1, path).
					WithDetail("path", path)
			}
			p.Players = append(p.Players, player)
		}
	}

	logger.Debug().
		Str("path", path).
		Int("players", len(p.Players)).
		Int("settings", len(p.Settings)).
		Msg("Loaded project file")

	return p, nil
}

// LoadUserSettings reads the [settings] table of the user config file. An
// empty path searches the XDG config directories; a missing file yields no
// settings.
func LoadUserSettings(path string) (map[string]interface{}, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(userConfigName)
		if err != nil {
			return map[string]interface{}{}, nil
		}
		path = found
	}

	k, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	raw := k.Get("settings")
	if raw == nil {
		return map[string]interface{}{}, nil
	}
	settings, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigInvalid, "settings in %s must be a table", path).
			WithDetail("path", path)
	}
	return settings, nil
}

// EnvSettings collects PIPLAYER_<OPTION> variables for known options.
// Unrelated PIPLAYER_ variables are ignored.
func EnvSettings() (map[string]interface{}, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	settings := make(map[string]interface{})
	for _, key := range SettingKeys {
		if k.Exists(key) {
			settings[key] = k.Get(key)
		}
	}
	return settings, nil
}

// Options controls which settings layers Resolve consults.
type Options struct {
	// UserConfig is an explicit user config file; empty searches XDG dirs.
	UserConfig string
	// SkipUserConfig disables the user config layer.
	SkipUserConfig bool
	// SkipEnv disables the environment layer.
	SkipEnv bool
}

// Resolve merges every settings layer with the project's players.
func Resolve(p *Project, opts Options) ([]Target, error) {
	layers := make([]map[string]interface{}, 0, 3)

	if !opts.SkipUserConfig {
		user, err := LoadUserSettings(opts.UserConfig)
		if err != nil {
			return nil, err
		}
		if err := validateSettingsLayer("user config", user); err != nil {
			return nil, err
		}
		layers = append(layers, user)
	}

	if err := validateSettingsLayer("project settings", p.Settings); err != nil {
		return nil, err
	}
	layers = append(layers, p.Settings)

	if !opts.SkipEnv {
		envSettings, err := EnvSettings()
		if err != nil {
			return nil, err
		}
		layers = append(layers, envSettings)
	}

	settings, err := MergeLayers(layers...)
	if err != nil {
		return nil, err
	}
	return Merge(Defaults(), settings, p.Players)
}

func loadFile(path string) (*koanf.Koanf, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
			WithDetail("path", path)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "unsupported config file").
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}
	return k, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unknown extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

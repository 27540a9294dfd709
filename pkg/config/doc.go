// Package config resolves player configuration for piplayer.
//
// Settings are layered, lowest precedence first:
//
//  1. built-in defaults (Defaults)
//  2. the user config file ($XDG_CONFIG_HOME/piplayer/config.toml, [settings] table)
//  3. the project file "settings" map (YAML or TOML)
//  4. PIPLAYER_<OPTION> environment variables
//  5. fields set on an individual player
//
// Layering is shallow: every option is a scalar, and a higher layer replaces
// a lower one key by key. The "host" and "videos" fields are never defaulted.
package config

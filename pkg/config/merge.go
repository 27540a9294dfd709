package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/piplayer/pkg/errors"
)

// Merge combines the built-in defaults, user settings and per-player fields
// into one Target per player, preserving player order. Each target starts
// from a fresh copy of the lower layers, so no player can observe another
// player's overrides.
func Merge(defaults Settings, settings map[string]interface{}, players []map[string]interface{}) ([]Target, error) {
	if err := validateSettingsLayer("settings", settings); err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(players))
	for i, player := range players {
		host, _ := player[KeyHost].(string)
		if host == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "player %d has no host", i+1).
				WithDetail("index", i)
		}
		if _, ok := player[KeyVideos]; !ok {
			return nil, errors.Newf(errors.ErrConfigInvalid, "player %s has no videos", host).
				WithDetail("host", host)
		}

		layer, err := MergeLayers(defaults.toMap(), settings, player)
		if err != nil {
			return nil, err
		}

		target, err := decodeTarget(layer)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid configuration for player %s", host).
				WithDetail("host", host)
		}
		if err := target.validate(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid configuration for player %s", host).
				WithDetail("host", host)
		}
		targets = append(targets, target)
	}

	return targets, nil
}

// MergeLayers folds layers left to right, later layers winning. Keys are
// never split on dots, and the result shares no values with the inputs.
func MergeLayers(layers ...map[string]interface{}) (map[string]interface{}, error) {
	k := koanf.New(".")
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := k.Load(confmap.Provider(layer, ""), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to merge settings")
		}
	}
	return k.Raw(), nil
}

func decodeTarget(layer map[string]interface{}) (Target, error) {
	var target Target
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &target,
		TagName:          "koanf",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(
			scalarToSliceHookFunc(),
			yamlBoolHookFunc(),
		),
	})
	if err != nil {
		return Target{}, err
	}
	if err := decoder.Decode(layer); err != nil {
		return Target{}, err
	}
	return target, nil
}

// scalarToSliceHookFunc turns a lone string into a one-element list. Unlike
// mapstructure.StringToSliceHookFunc it never splits: a video path may
// legitimately contain commas.
func scalarToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String {
			return []string{data.(string)}, nil
		}
		return data, nil
	}
}

// yamlBoolHookFunc accepts the YAML 1.1 spellings of booleans (yes/no,
// on/off, y/n) that hand-written project files commonly use.
func yamlBoolHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
		return data, nil
	}
}

func (t Target) validate() error {
	if t.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	if err := checkLoginPart("user", t.User); err != nil {
		return err
	}
	if err := checkLoginPart("host", t.Host); err != nil {
		return err
	}
	if _, err := ParseServiceType(string(t.ServiceType)); err != nil {
		return err
	}
	if t.Port < 1 || t.Port > 65535 {
		return fmt.Errorf("port %d out of range", t.Port)
	}
	return nil
}

// checkLoginPart rejects user and host values that ssh would read as an
// option or that would change which login user@host names.
func checkLoginPart(field, value string) error {
	if strings.HasPrefix(value, "-") {
		return fmt.Errorf("%s %q must not start with '-'", field, value)
	}
	if strings.Contains(value, "@") || strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%s %q must not contain '@' or whitespace", field, value)
	}
	return nil
}

// validateSettingsLayer rejects keys that are not settings. Host and videos
// belong to individual players and are never inherited.
func validateSettingsLayer(source string, layer map[string]interface{}) error {
	var unknown []string
	for k := range layer {
		if !isSettingKey(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Newf(errors.ErrConfigInvalid, "unknown %s option(s): %v", source, unknown).
		WithDetail("source", source)
}

func isSettingKey(k string) bool {
	for _, key := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}

package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/schemagen/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/schemagen/config.toml
	SourceUser        ConfigSource = "user"        // ~/.schemagen/config.toml
	SourceProject     ConfigSource = "project"     // nearest schemagen.toml
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // SCHEMAGEN_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo is one effective setting and its origin
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      any          `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspect lists every effective setting, sorted by key, with the source
// that supplied it.
func Introspect() ([]SettingInfo, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	mu.Lock()
	defer mu.Unlock()

	var settings []SettingInfo
	flattenSettingsWithSources(viperInstance.AllSettings(), "", ConfigSources, &settings)
	return settings, nil
}

// markSettingsFromSource records source for every leaf key of settings.
// Later calls overwrite earlier ones, matching merge precedence.
func markSettingsFromSource(settings map[string]any, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

func flattenSettingsWithSources(settings map[string]any, prefix string, sourceMap map[string]SourceInfo, out *[]SettingInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			flattenSettingsWithSources(nested, fullKey, sourceMap, out)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}

		envKey := EnvKey(fullKey)
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// EnvKey returns the environment variable that overrides a dotted key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitPath  string

	// ConfigSources records which file set each dotted key during the last load
	ConfigSources = make(map[string]SourceInfo)
)

// Load reads the schemagen configuration using Viper. The result is cached
// until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// SetConfigFile makes Load read only path (plus defaults and environment)
// instead of searching the standard locations. An empty path restores the search.
func SetConfigFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	explicitPath = path
	globalConfig = nil
	viperInstance = nil
}

// GetViper returns the Viper instance behind Load
func GetViper() (*viper.Viper, error) {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	explicitPath = ""
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold mu.
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	sources := make(map[string]SourceInfo)
	if explicitPath != "" {
		if err := mergeConfigFile(v, explicitPath, SourceExplicit, sources); err != nil {
			return nil, err
		}
	} else {
		mergeConfigFiles(v, sources)
	}

	ConfigSources = sources
	viperInstance = v
	return v, nil
}

// findProjectConfig searches for schemagen.toml by walking up the directory
// tree. Returns the first path found, or empty string.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

type configLocation struct {
	path   string
	source ConfigSource
}

// configLocations lists the files merged by Load, lowest precedence first
func configLocations() []configLocation {
	locations := []configLocation{{path: SystemConfigPath, source: SourceSystem}}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, configLocation{
			path:   filepath.Join(home, UserConfigDir, UserConfigName),
			source: SourceUser,
		})
	}

	if project := findProjectConfig(); project != "" {
		locations = append(locations, configLocation{path: project, source: SourceProject})
	}
	return locations
}

// mergeConfigFiles merges the existing files of configLocations in precedence
// order. Unreadable files are logged and skipped.
func mergeConfigFiles(v *viper.Viper, sources map[string]SourceInfo) {
	for _, loc := range configLocations() {
		if _, err := os.Stat(loc.path); err != nil {
			continue
		}
		if err := mergeConfigFile(v, loc.path, loc.source, sources); err != nil {
			logger.Warnw("skipping config file",
				logger.FieldFile, loc.path,
				logger.FieldError, err.Error())
		}
	}
}

func mergeConfigFile(v *viper.Viper, path string, source ConfigSource, sources map[string]SourceInfo) error {
	tempViper := viper.New()
	tempViper.SetConfigFile(path)
	tempViper.SetConfigType("toml")

	if err := tempViper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	settings := tempViper.AllSettings()
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	markSettingsFromSource(settings, "", source, path, sources)

	logger.Debugw("merged config file",
		logger.FieldFile, path,
		"source", string(source))
	return nil
}

package am

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

const starterHeader = `# schemagen configuration
# Every key can be overridden with a SCHEMAGEN_* environment variable,
# e.g. SCHEMAGEN_GENERATE_FORMAT=json.

`

// WriteDefault writes StarterConfig to path. An existing file is kept unless
// force is set, in which case it is rotated into backups first.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to overwrite it; the old file is kept as a .back1 backup")
	}

	data, err := MarshalTOML(StarterConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	logger.Infow("wrote config", logger.FieldFile, path)
	return nil
}

// MarshalTOML renders c as a commented TOML document
func MarshalTOML(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(starterHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return buf.Bytes(), nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("failed to delete old backup",
			logger.FieldFile, back3,
			logger.FieldError, err.Error())
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

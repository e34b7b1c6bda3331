package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// SupportedFormats lists the config file formats we support.
var SupportedFormats = []string{"yaml", "toml", "json"}

// GenerateConfigFile creates a default configuration file in the user config
// directory and returns its path. It refuses to overwrite an existing file.
func GenerateConfigFile(format string) (string, error) {
	if !isValidFormat(format) {
		return "", fmt.Errorf("unsupported format %q, supported: %v", format, SupportedFormats)
	}

	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, fmt.Sprintf("config.%s", format))
	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("config file already exists: %s", configPath)
	}

	v := newViper()
	setViperDefaults(v, Default())
	v.SetConfigType(format)

	if err := v.SafeWriteConfigAs(configPath); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// GenerateConfigIfNotExists creates a default config file if one doesn't
// exist in any supported format. It returns the path to the config file
// (existing or newly created) and whether it was created.
func GenerateConfigIfNotExists(format string) (string, bool, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", false, err
	}

	for _, ext := range SupportedFormats {
		path := filepath.Join(configDir, fmt.Sprintf("config.%s", ext))
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}

	path, err := GenerateConfigFile(format)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func isValidFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

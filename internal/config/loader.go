package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is the shared config namespace for both binaries: they read the
// same file so one project configures extraction and generation together.
const AppName = "intlpipe"

// configSearchPaths returns the paths to search for config files in order of
// precedence (later paths have higher priority in Viper).
func configSearchPaths() []string {
	paths := []string{filepath.Join("/etc", AppName)}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", AppName))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	return paths
}

// UserConfigDir returns the user-specific config directory.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// newViper creates and configures a new Viper instance.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml") // default, but will auto-detect

	for _, path := range configSearchPaths() {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration, layering defaults, an optional config file,
// and environment variables. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := newViper()

	setViperDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setViperDefaults registers every default value so Unmarshal sees the full
// tree even with no config file present.
func setViperDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
	v.SetDefault("log.file_path", cfg.Log.FilePath)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.enable_caller", cfg.Log.EnableCaller)
	v.SetDefault("log.no_color", cfg.Log.NoColor)

	v.SetDefault("extract.functions", cfg.Extract.Functions)
	v.SetDefault("extract.out", cfg.Extract.Out)
	v.SetDefault("extract.suppress_metadata", cfg.Extract.SuppressMetadata)
	v.SetDefault("extract.suppress_warnings", cfg.Extract.SuppressWarnings)
	v.SetDefault("extract.warnings_as_errors", cfg.Extract.WarningsAsErrors)
	v.SetDefault("extract.require_description", cfg.Extract.RequireDescription)
	v.SetDefault("extract.watch", cfg.Extract.Watch)

	v.SetDefault("generate.sources", cfg.Generate.Sources)
	v.SetDefault("generate.dir", cfg.Generate.Dir)
	v.SetDefault("generate.prefix", cfg.Generate.Prefix)
	v.SetDefault("generate.package", cfg.Generate.Package)
	v.SetDefault("generate.mode", cfg.Generate.Mode)
	v.SetDefault("generate.lazy", cfg.Generate.Lazy)
	v.SetDefault("generate.suppress_warnings", cfg.Generate.SuppressWarnings)
	v.SetDefault("generate.warnings_as_errors", cfg.Generate.WarningsAsErrors)
}

// Package config provides configuration loading and management for intlx
// and intlgen.
package config

// LogConfig holds logging configuration shared by both tools.
type LogConfig struct {
	Level        string `mapstructure:"level"`        // debug, info, warn, error
	Format       string `mapstructure:"format"`       // text, json, pretty
	Output       string `mapstructure:"output"`       // stdout, stderr, or file path
	FilePath     string `mapstructure:"file_path"`    // path to log file (in addition to output)
	MaxSizeMB    int    `mapstructure:"max_size_mb"`  // max size in MB before rotation
	MaxBackups   int    `mapstructure:"max_backups"`  // max number of old log files to keep
	MaxAgeDays   int    `mapstructure:"max_age_days"` // max days to retain old log files
	EnableCaller bool   `mapstructure:"enable_caller"`
	NoColor      bool   `mapstructure:"no_color"`
}

// ExtractConfig holds settings for the extraction tool.
type ExtractConfig struct {
	// Functions lists the translation call-sites to match, as pkg.Func or
	// pkg.Type.Method.
	Functions []string `mapstructure:"functions"`

	// Out is the interchange JSON file to write.
	Out string `mapstructure:"out"`

	SuppressMetadata   bool `mapstructure:"suppress_metadata"`
	SuppressWarnings   bool `mapstructure:"suppress_warnings"`
	WarningsAsErrors   bool `mapstructure:"warnings_as_errors"`
	RequireDescription bool `mapstructure:"require_description"`

	// Watch keeps the tool running and re-extracts on source changes.
	Watch bool `mapstructure:"watch"`
}

// GenerateConfig holds settings for the generation tool.
type GenerateConfig struct {
	// Sources are the Go package patterns rescanned for the original
	// message definitions.
	Sources []string `mapstructure:"sources"`

	// Dir is the output directory for generated files.
	Dir string `mapstructure:"dir"`

	// Prefix names the generated files (<prefix>_<locale>.go).
	Prefix string `mapstructure:"prefix"`

	// Package overrides the generated package name; defaults to Prefix.
	Package string `mapstructure:"package"`

	// Mode is "release" or "debug".
	Mode string `mapstructure:"mode"`

	// Lazy selects on-demand locale loading in the generated code.
	Lazy bool `mapstructure:"lazy"`

	SuppressWarnings bool `mapstructure:"suppress_warnings"`
	WarningsAsErrors bool `mapstructure:"warnings_as_errors"`
}

// Config is the on-disk configuration shared by both binaries.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Generate GenerateConfig `mapstructure:"generate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
			Output: "stderr",
		},
		Extract: ExtractConfig{
			Functions: []string{"intl.T"},
			Out:       "messages.json",
		},
		Generate: GenerateConfig{
			Sources: []string{"."},
			Dir:     ".",
			Prefix:  "messages",
			Mode:    "release",
		},
	}
}

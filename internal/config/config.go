package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"conditionscript/internal/store"
)

const (
	// EnvPrefix is prepended to every environment override
	EnvPrefix = "CONDITIONSCRIPT_"

	// DefaultFile is read when no config path is given
	DefaultFile = "conditionscript.yaml"
)

// Config holds the settings of the command line tool
type Config struct {
	Database string    `yaml:"database"` // answer store location
	Flow     string    `yaml:"flow"`     // default flow document
	Log      LogConfig `yaml:"log"`
}

// LogConfig selects logger level and encoding
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Database: store.DefaultPath(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setting binds a dotted config path to its field
type setting struct {
	path string
	set  func(*Config, string)
}

var settings = []setting{
	{"database", func(c *Config, v string) { c.Database = v }},
	{"flow", func(c *Config, v string) { c.Flow = v }},
	{"log.level", func(c *Config, v string) { c.Log.Level = v }},
	{"log.format", func(c *Config, v string) { c.Log.Format = v }},
}

// PathToEnvVar converts a config path (dot-notation) to its environment variable.
// e.g., "log.level" -> "CONDITIONSCRIPT_LOG_LEVEL"
func PathToEnvVar(path string) string {
	if path == "" {
		return ""
	}
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// ResolvePath returns the config file path from the environment or the default
func ResolvePath(environ []string) string {
	if path, ok := parseEnviron(environ)[EnvPrefix+"CONFIG"]; ok && path != "" {
		return path
	}
	return DefaultFile
}

// Load reads the config file at path, then applies environment overrides.
// An empty path falls back to ResolvePath; a missing default file is not an error.
func Load(path string, environ []string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = ResolvePath(environ)
		explicit = path != DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(parseEnviron(environ))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format %q: want json or console", c.Log.Format)
	}
	return nil
}

func (c *Config) applyEnv(env map[string]string) {
	for _, s := range settings {
		if v, ok := env[PathToEnvVar(s.path)]; ok && v != "" {
			s.set(c, v)
		}
	}
}

// parseEnviron converts an environ slice (["KEY=VALUE", ...]) into a map.
// Values may themselves contain "=".
func parseEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		result[key] = value
	}
	return result
}

package apiscope

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.followtheprocess.codes/apiscope/internal/table"
)

// configFile is the name of the config file under the user config directory.
const configFile = "config.toml"

// Config is the contents of the apiscope config file.
//
// Every setting may be overridden by the matching command line flag.
//
//	max-rows = 50
//	timeout = "10s"
//	connection-timeout = "5s"
//
//	[presets.github]
//	description = "Public GitHub repos"
//	url = "https://api.github.com/repositories"
type Config struct {
	// Presets are extra named examples, usable with --example
	Presets map[string]Preset `toml:"presets"`

	// MaxRows is the maximum number of rows shown per table
	MaxRows int `toml:"max-rows"`

	// Timeout bounds an entire live call
	Timeout time.Duration `toml:"timeout"`

	// ConnectionTimeout bounds connection setup and the TLS handshake
	ConnectionTimeout time.Duration `toml:"connection-timeout"`
}

// DefaultConfigPath returns the default location of the config file,
// $XDG_CONFIG_HOME/apiscope/config.toml on Linux.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not locate user config directory: %w", err)
	}

	return filepath.Join(dir, "apiscope", configFile), nil
}

// LoadConfig reads the config file at path.
//
// An empty path means [DefaultConfigPath], in which case a missing file is not an
// error and the zero Config is returned. A path given explicitly must exist.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""

	if !explicit {
		var err error

		path, err = DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
	}

	var config Config

	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("could not load config file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}

		return Config{}, fmt.Errorf("unknown key(s) in config file %s: %s", path, strings.Join(keys, ", "))
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	for name, preset := range config.Presets {
		preset.Name = name
		config.Presets[name] = preset
	}

	return config, nil
}

// Validate reports whether the Config is valid, returning a non-nil error if it's not.
func (c Config) Validate() error {
	switch {
	case c.MaxRows < 0:
		return fmt.Errorf("max-rows cannot be negative, got %d", c.MaxRows)
	case c.Timeout < 0:
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout)
	case c.ConnectionTimeout < 0:
		return fmt.Errorf("connection-timeout cannot be negative, got %s", c.ConnectionTimeout)
	}

	seen := make(map[string]string, len(c.Presets))
	for _, name := range slices.Sorted(maps.Keys(c.Presets)) {
		if c.Presets[name].URL == "" {
			return fmt.Errorf("preset %q has no url", name)
		}

		folded := strings.ToLower(name)
		if other, ok := seen[folded]; ok {
			return fmt.Errorf("presets %q and %q differ only in case", other, name)
		}

		seen[folded] = name
	}

	return nil
}

// Settings are the effective call settings once flags, the config file and
// defaults have been combined.
type Settings struct {
	Timeout           time.Duration
	ConnectionTimeout time.Duration
	MaxRows           int
}

// Resolve combines the values of command line flags with the config file, flags win
// over the config file which wins over the defaults. A zero flag value means the flag
// was not given.
func (c Config) Resolve(timeout, connectionTimeout time.Duration, maxRows int) (Settings, error) {
	settings := Settings{
		Timeout:           first(timeout, c.Timeout, DefaultTimeout),
		ConnectionTimeout: first(connectionTimeout, c.ConnectionTimeout, DefaultConnectionTimeout),
		MaxRows:           first(maxRows, c.MaxRows, table.DefaultMaxRows),
	}

	if settings.ConnectionTimeout > settings.Timeout {
		return Settings{}, fmt.Errorf(
			"connection-timeout (%s) cannot be larger than timeout (%s)",
			settings.ConnectionTimeout,
			settings.Timeout,
		)
	}

	return settings, nil
}

// first returns the first non-zero value in values, or the zero value if they are all zero.
func first[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}

	return zero
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/paths"
)

// ErrConfigValidation wraps config validation failures
// (as opposed to TOML syntax or filesystem errors).
var ErrConfigValidation = errors.New("config validation failed")

var (
	osReadFile = os.ReadFile
	getenv     = os.Getenv
)

// Load reads the config at path. An empty path reads the default location,
// where a missing file yields Default(); an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = paths.ConfigFile()
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}

	data, err := osReadFile(expanded)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFileFmt, expanded, err)
	}
	cfg, err := Parse(data, expanded)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Parse decodes and validates config TOML. source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

func (c *Config) applyEnv() {
	if base := strings.TrimSpace(getenv(EnvAPIBase)); base != "" {
		c.APIBaseURL = base
	}
}

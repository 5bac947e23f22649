// Package config loads the toolsync configuration file.
package config

import (
	"strings"
	"time"

	"github.com/conn-castle/toolsync/internal/protect"
	"github.com/conn-castle/toolsync/internal/release"
)

// DefaultArtifact is the release asset installed when none is configured.
const DefaultArtifact = "yt-dlp.exe"

// EnvAPIBase overrides api_base_url.
const EnvAPIBase = "TOOLSYNC_API_BASE"

// Config is the contents of config.toml. Every field is optional.
type Config struct {
	ManagedDir        string     `toml:"managed_dir"`
	Artifact          string     `toml:"artifact"`
	Repo              string     `toml:"repo"`
	APIBaseURL        string     `toml:"api_base_url"`
	MaxDownloadBytes  int64      `toml:"max_download_bytes"`
	Timeout           string     `toml:"timeout"`
	MinisignPublicKey string     `toml:"minisign_public_key"`
	LogLevel          string     `toml:"log_level"`
	Tier              TierConfig `toml:"tier"`
}

// TierConfig selects the protection tier command.
// An empty Command uses the platform default; "none" disables the tier.
type TierConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Artifact) == "" {
		c.Artifact = DefaultArtifact
	}
	if strings.TrimSpace(c.Repo) == "" {
		c.Repo = release.DefaultOwner + "/" + release.DefaultRepo
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		c.APIBaseURL = release.DefaultBaseURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Owner returns the owner half of Repo.
func (c *Config) Owner() string {
	owner, _, _ := strings.Cut(c.Repo, "/")
	return owner
}

// RepoName returns the name half of Repo.
func (c *Config) RepoName() string {
	_, name, _ := strings.Cut(c.Repo, "/")
	return name
}

// RunTimeout returns the bound on one run; 0 means none. Validate guarantees Timeout parses.
func (c *Config) RunTimeout() time.Duration {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// TierApplier returns the protection tier selected by the [tier] table.
func (c *Config) TierApplier() protect.TierApplier {
	switch strings.TrimSpace(c.Tier.Command) {
	case "":
		return protect.DefaultTier()
	case "none":
		return protect.NoopTier{}
	default:
		return protect.CommandTier{Name: strings.TrimSpace(c.Tier.Command), Args: c.Tier.Args}
	}
}

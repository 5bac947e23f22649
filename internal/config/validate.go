package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/toolsync/internal/messages"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// ValidateArtifact requires name to be a plain file name inside the managed directory.
// source names where the value came from in the error.
func ValidateArtifact(name string, source string) error {
	artifact := strings.TrimSpace(name)
	if artifact == "" {
		return fmt.Errorf(messages.ConfigArtifactRequiredFmt, source)
	}
	if artifact != name || artifact == "." || artifact == ".." || strings.ContainsAny(artifact, `/\`) || filepath.Base(artifact) != artifact {
		return fmt.Errorf(messages.ConfigArtifactInvalidFmt, source, name)
	}
	return nil
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if err := ValidateArtifact(c.Artifact, path); err != nil {
		return err
	}

	owner, name, ok := strings.Cut(c.Repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf(messages.ConfigRepoInvalidFmt, path, c.Repo)
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf(messages.ConfigAPIBaseInvalidFmt, path, c.APIBaseURL)
	}

	if c.MaxDownloadBytes < 0 {
		return fmt.Errorf(messages.ConfigMaxBytesInvalidFmt, path)
	}
	if strings.TrimSpace(c.Timeout) != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf(messages.ConfigTimeoutInvalidFmt, path, c.Timeout)
		}
	}
	if _, ok := validLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path, c.LogLevel)
	}
	if strings.TrimSpace(c.Tier.Command) == "" && len(c.Tier.Args) > 0 {
		return fmt.Errorf(messages.ConfigTierArgsWithoutCmdFmt, path)
	}
	return nil
}

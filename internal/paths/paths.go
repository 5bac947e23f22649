// Package paths locates the managed directory and the files the updater keeps in it.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/toolsync/internal/messages"
)

// EnvManagedDir overrides the default managed directory.
const EnvManagedDir = "TOOLSYNC_MANAGED_DIR"

const appName = "toolsync"

var (
	getenv             = os.Getenv
	defaultManagedFunc = defaultManagedDir
)

// Layout names the files of one artifact inside a managed directory.
type Layout struct {
	Dir      string
	Artifact string
}

// NewLayout returns the layout of artifact inside dir.
func NewLayout(dir string, artifact string) Layout {
	return Layout{Dir: dir, Artifact: artifact}
}

// ArtifactPath is the installed executable.
func (l Layout) ArtifactPath() string {
	return filepath.Join(l.Dir, l.Artifact)
}

// Stem is the artifact name without its extension; yt-dlp.exe reads yt-dlp.conf from its own directory.
func (l Layout) Stem() string {
	if stem := strings.TrimSuffix(l.Artifact, filepath.Ext(l.Artifact)); stem != "" {
		return stem
	}
	return l.Artifact
}

// MarkerPath is the file recording the installed version.
func (l Layout) MarkerPath() string {
	return filepath.Join(l.Dir, l.Stem()+"-version.txt")
}

// ConfPath is the options file written by the configuration wizard.
func (l Layout) ConfPath() string {
	return filepath.Join(l.Dir, l.Stem()+".conf")
}

// ManagedDir returns explicit when set, then the EnvManagedDir value, then the platform default.
// A leading ~ is expanded to the home directory.
func ManagedDir(explicit string) (string, error) {
	dir := strings.TrimSpace(explicit)
	if dir == "" {
		dir = strings.TrimSpace(getenv(EnvManagedDir))
	}
	if dir == "" {
		return defaultManagedFunc()
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf(messages.PathsExpandFmt, dir, err)
	}
	return filepath.Clean(expanded), nil
}

// ConfigFile returns the default configuration file path under the XDG config home.
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

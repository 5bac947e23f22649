//go:build !windows

package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// defaultManagedDir is the tools directory under the XDG data home.
func defaultManagedDir() (string, error) {
	return filepath.Join(xdg.DataHome, appName, "tools"), nil
}

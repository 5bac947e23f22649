//go:build windows

package paths

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/conn-castle/toolsync/internal/messages"
)

// defaultManagedDir is the VRChat tools directory under LocalLow.
func defaultManagedDir() (string, error) {
	localLow, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppDataLow, 0)
	if err != nil {
		return "", fmt.Errorf(messages.PathsKnownFolderFmt, err)
	}
	return filepath.Join(localLow, "VRChat", "VRChat", "Tools"), nil
}

// Package marker reads and writes the one-line file recording the installed version.
package marker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

var (
	osReadFile   = os.ReadFile
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// Read returns the first line of the marker at path.
// found is false when the marker does not exist.
func Read(path string) (version string, found bool, err error) {
	data, err := osReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, failure.Filesystem(messages.MarkerReadOp, path, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSuffix(line, "\r"), true, nil
}

// Write replaces the marker at path with exactly version.
// The content is staged in a sibling file and renamed into place so readers never see a partial write.
func Write(path string, version string) error {
	tmp, err := osCreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return failure.Filesystem(messages.MarkerCreateTempOp, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(version); err != nil {
		_ = tmp.Close()
		return failure.Filesystem(messages.MarkerWriteOp, path, err)
	}
	if err := tmp.Close(); err != nil {
		return failure.Filesystem(messages.MarkerWriteOp, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return failure.Filesystem(messages.MarkerWriteOp, path, err)
	}
	if err := osRename(tmpName, path); err != nil {
		return failure.Filesystem(messages.MarkerReplaceOp, path, err)
	}
	committed = true
	return nil
}

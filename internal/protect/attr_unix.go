//go:build unix

package protect

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileAttributes treats a file with every write bit cleared as protected.
type FileAttributes struct{}

// Protected reports whether no write permission bit is set on path.
func (FileAttributes) Protected(path string) (bool, error) {
	mode, err := fileMode(path)
	if err != nil {
		return false, err
	}
	return mode&0o222 == 0, nil
}

// SetProtected clears all write bits, or restores the owner write bit.
func (FileAttributes) SetProtected(path string, protected bool) error {
	mode, err := fileMode(path)
	if err != nil {
		return err
	}
	if protected {
		mode &^= 0o222
	} else {
		mode |= 0o200
	}
	if err := unix.Chmod(path, mode); err != nil {
		return &os.PathError{Op: "chmod", Path: path, Err: err}
	}
	return nil
}

func fileMode(path string) (uint32, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return uint32(st.Mode) & 0o7777, nil
}

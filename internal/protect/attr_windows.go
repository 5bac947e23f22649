//go:build windows

package protect

import (
	"os"

	"golang.org/x/sys/windows"
)

// FileAttributes maps protection to FILE_ATTRIBUTE_READONLY.
type FileAttributes struct{}

// Protected reports whether the read-only attribute is set on path.
func (FileAttributes) Protected(path string) (bool, error) {
	attrs, err := fileAttributes(path)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_READONLY != 0, nil
}

// SetProtected sets or clears the read-only attribute, keeping the other attributes.
func (FileAttributes) SetProtected(path string, protected bool) error {
	attrs, err := fileAttributes(path)
	if err != nil {
		return err
	}
	if protected {
		attrs |= windows.FILE_ATTRIBUTE_READONLY
	} else {
		attrs &^= windows.FILE_ATTRIBUTE_READONLY
	}
	if attrs == 0 {
		attrs = windows.FILE_ATTRIBUTE_NORMAL
	}
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return &os.PathError{Op: "SetFileAttributes", Path: path, Err: err}
	}
	if err := windows.SetFileAttributes(name, attrs); err != nil {
		return &os.PathError{Op: "SetFileAttributes", Path: path, Err: err}
	}
	return nil
}

func fileAttributes(path string) (uint32, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, &os.PathError{Op: "GetFileAttributes", Path: path, Err: err}
	}
	attrs, err := windows.GetFileAttributes(name)
	if err != nil {
		return 0, &os.PathError{Op: "GetFileAttributes", Path: path, Err: err}
	}
	return attrs, nil
}

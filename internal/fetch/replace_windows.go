//go:build windows

package fetch

import (
	"os"

	"golang.org/x/sys/windows"
)

// replaceFile moves src over dst in a single MoveFileEx call and waits for the move to reach disk.
func replaceFile(src string, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return &os.LinkError{Op: "replace", Old: src, New: dst, Err: err}
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return &os.LinkError{Op: "replace", Old: src, New: dst, Err: err}
	}
	if err := windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH); err != nil {
		return &os.LinkError{Op: "replace", Old: src, New: dst, Err: err}
	}
	return nil
}

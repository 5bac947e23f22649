//go:build !windows

package fetch

import "os"

// replaceFile renames src over dst; rename(2) replaces dst atomically on the same filesystem.
func replaceFile(src string, dst string) error {
	return os.Rename(src, dst)
}

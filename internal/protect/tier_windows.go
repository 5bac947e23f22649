//go:build windows

package protect

// DefaultTier lowers the mandatory integrity level of the artifact to medium.
func DefaultTier() TierApplier {
	return CommandTier{Name: "icacls", Args: []string{PathPlaceholder, "/setintegritylevel", "medium"}}
}

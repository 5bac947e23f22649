//go:build !windows

package protect

// DefaultTier returns NoopTier; only Windows has a protection tier.
func DefaultTier() TierApplier {
	return NoopTier{}
}

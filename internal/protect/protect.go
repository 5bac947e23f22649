// Package protect manages the write-protection attribute and platform protection tier of the managed artifact.
//
// The artifact moves through Locked (attribute set, tier reduced), Unlocked
// (attribute cleared), Writable (replaced by the caller), TierApplied and back
// to Locked. No step restores earlier state when a later one fails.
package protect

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

// Tier is the platform trust classification of the artifact.
type Tier int

// Protection tiers. TierUnknown is reported when this process has not observed the tier.
const (
	TierUnknown Tier = iota
	TierStandard
	TierReduced
)

func (t Tier) String() string {
	switch t {
	case TierStandard:
		return "standard"
	case TierReduced:
		return "reduced"
	default:
		return "unknown"
	}
}

// State is the protection state of one artifact.
type State struct {
	Path      string
	Protected bool
	Tier      Tier
}

// Locked reports whether the state satisfies the between-transactions invariant.
func (s State) Locked() bool {
	return s.Protected && s.Tier == TierReduced
}

// Attributes reads and changes the platform write-protection attribute.
type Attributes interface {
	Protected(path string) (bool, error)
	SetProtected(path string, protected bool) error
}

// TierApplier applies the platform protection tier to a file.
type TierApplier interface {
	ApplyProtectionTier(ctx context.Context, path string) error
}

var (
	osLstat      = os.Lstat
	evalSymlinks = filepath.EvalSymlinks
)

// Protector applies protection to files inside one managed directory.
type Protector struct {
	managedDir string
	tier       TierApplier
	attrs      Attributes
	tiers      map[string]Tier
}

// New returns a Protector for managedDir. A nil tier uses DefaultTier and nil attrs uses the platform attribute.
func New(managedDir string, tier TierApplier, attrs Attributes) *Protector {
	if tier == nil {
		tier = DefaultTier()
	}
	if attrs == nil {
		attrs = FileAttributes{}
	}
	return &Protector{managedDir: managedDir, tier: tier, attrs: attrs, tiers: map[string]Tier{}}
}

// Unlock clears the protection attribute of path. It is a no-op when the attribute is already clear.
func (p *Protector) Unlock(path string) error {
	if err := requireRegular(path); err != nil {
		return err
	}
	protected, err := p.attrs.Protected(path)
	if err != nil {
		return failure.Filesystem(messages.ProtectInspectOp, path, err)
	}
	if !protected {
		return nil
	}
	if err := p.attrs.SetProtected(path, false); err != nil {
		return failure.Filesystem(messages.ProtectUnlockOp, path, err)
	}
	return nil
}

// MarkReplaced records that path now holds a freshly written file carrying the standard tier.
func (p *Protector) MarkReplaced(path string) {
	p.tiers[p.key(path)] = TierStandard
}

// ApplyTier applies the protection tier to path after confirming it resolves inside the managed directory.
// The tier applier is never invoked for a path outside the directory.
func (p *Protector) ApplyTier(ctx context.Context, path string) error {
	resolved, err := p.contain(path)
	if err != nil {
		return err
	}
	if err := requireRegular(path); err != nil {
		return err
	}
	if err := p.tier.ApplyProtectionTier(ctx, resolved); err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) {
			return err
		}
		return failure.New(failure.KindExternalTool, messages.ProtectTierOp, resolved, err)
	}
	p.tiers[p.key(path)] = TierReduced
	return nil
}

// Lock sets the protection attribute of path.
func (p *Protector) Lock(path string) error {
	if err := requireRegular(path); err != nil {
		return err
	}
	if err := p.attrs.SetProtected(path, true); err != nil {
		return failure.Filesystem(messages.ProtectLockOp, path, err)
	}
	return nil
}

// Inspect reports the current protection state of path.
func (p *Protector) Inspect(path string) (State, error) {
	if err := requireRegular(path); err != nil {
		return State{}, err
	}
	protected, err := p.attrs.Protected(path)
	if err != nil {
		return State{}, failure.Filesystem(messages.ProtectInspectOp, path, err)
	}
	return State{Path: path, Protected: protected, Tier: p.tiers[p.key(path)]}, nil
}

func (p *Protector) key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// contain resolves path and the managed directory through symlinks and
// requires the result to be a strict descendant of the directory.
func (p *Protector) contain(path string) (string, error) {
	dir, err := resolve(p.managedDir)
	if err != nil {
		return "", failure.Filesystem(messages.ProtectResolveDirOp, p.managedDir, err)
	}
	target, err := resolve(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", failure.New(failure.KindInvalidTarget, messages.ProtectContainOp, path, err)
		}
		return "", failure.Filesystem(messages.ProtectContainOp, path, err)
	}
	rel, err := filepath.Rel(dir, target)
	if err != nil || !isDescendant(rel) {
		return "", failure.Newf(failure.KindSecurity, messages.ProtectContainOp, path, messages.ProtectOutsideDirFmt, target, dir)
	}
	return target, nil
}

func resolve(path string) (string, error) {
	resolved, err := evalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func isDescendant(rel string) bool {
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// requireRegular rejects anything but an existing regular file, without following symlinks.
func requireRegular(path string) error {
	info, err := osLstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failure.New(failure.KindInvalidTarget, messages.ProtectInspectOp, path, err)
		}
		return failure.Filesystem(messages.ProtectInspectOp, path, err)
	}
	if !info.Mode().IsRegular() {
		return failure.New(failure.KindInvalidTarget, messages.ProtectInspectOp, path, errors.New(messages.ProtectNotRegularFile))
	}
	return nil
}

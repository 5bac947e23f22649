// Package updater runs the update transaction that keeps the managed artifact at the latest release.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/fetch"
	"github.com/conn-castle/toolsync/internal/marker"
	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/paths"
	"github.com/conn-castle/toolsync/internal/protect"
	"github.com/conn-castle/toolsync/internal/release"
	"github.com/conn-castle/toolsync/internal/signature"
)

// Oracle reports the latest release of the upstream project.
type Oracle interface {
	FetchLatest(ctx context.Context, artifactName string) (release.Release, error)
}

// Installer downloads and atomically installs artifacts.
type Installer interface {
	Install(ctx context.Context, url string, destPath string, verifiers ...fetch.Verifier) error
	FetchBytes(ctx context.Context, url string, limit int64) ([]byte, error)
}

// Guard manages the protection state of the artifact.
type Guard interface {
	Unlock(path string) error
	MarkReplaced(path string)
	ApplyTier(ctx context.Context, path string) error
	Lock(path string) error
	Inspect(path string) (protect.State, error)
}

var (
	osMkdirAll  = os.MkdirAll
	osStat      = os.Stat
	markerRead  = marker.Read
	markerWrite = marker.Write
)

// Status is the result kind of a run.
type Status int

// Run results.
const (
	StatusUpToDate Status = iota
	StatusUpdated
)

func (s Status) String() string {
	if s == StatusUpdated {
		return "updated"
	}
	return "up-to-date"
}

// Outcome describes a successful run. OldVersion is empty when no version was recorded.
type Outcome struct {
	Status     Status
	OldVersion string
	NewVersion string
}

// Updater composes the oracle, installer, and guard into one transaction.
type Updater struct {
	oracle    Oracle
	installer Installer
	newGuard  func(managedDir string) Guard
	key       *signature.Key
	logger    zerolog.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithGuard sets the constructor of the protection guard for a managed directory.
func WithGuard(newGuard func(managedDir string) Guard) Option {
	return func(u *Updater) {
		if newGuard != nil {
			u.newGuard = newGuard
		}
	}
}

// WithTier makes the default guard apply tier.
func WithTier(tier protect.TierApplier) Option {
	return func(u *Updater) {
		u.newGuard = func(managedDir string) Guard {
			return protect.New(managedDir, tier, nil)
		}
	}
}

// WithSignatureKey requires every installed artifact to carry a valid minisign signature made with key.
func WithSignatureKey(key *signature.Key) Option {
	return func(u *Updater) {
		u.key = key
	}
}

// WithLogger sets the logger for transaction events.
func WithLogger(logger zerolog.Logger) Option {
	return func(u *Updater) {
		u.logger = logger
	}
}

// New returns an Updater.
func New(oracle Oracle, installer Installer, opts ...Option) *Updater {
	u := &Updater{
		oracle:    oracle,
		installer: installer,
		newGuard: func(managedDir string) Guard {
			return protect.New(managedDir, nil, nil)
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run brings artifactName in managedDir up to the latest release.
//
// The version marker is written last, only after the artifact was installed,
// tier-applied and re-locked. Any failure aborts the run and is returned as a
// *PhaseError; nothing is retried and earlier steps are not undone.
func (u *Updater) Run(ctx context.Context, managedDir string, artifactName string) (Outcome, error) {
	layout := paths.NewLayout(managedDir, artifactName)
	tx := &transaction{committed: PhaseNone}
	log := u.logger.With().Str("artifact", artifactName).Str("dir", managedDir).Logger()

	if err := osMkdirAll(managedDir, 0o755); err != nil {
		return Outcome{}, tx.fail(StepPrepare, failure.Filesystem(messages.UpdaterPrepareDirOp, managedDir, err))
	}

	rel, err := u.oracle.FetchLatest(ctx, artifactName)
	if err != nil {
		return Outcome{}, tx.fail(StepFetchLatest, err)
	}
	tx.release = rel
	log.Debug().Str("latest", rel.Version).Str("url", rel.ArtifactURL).Msg("latest release")

	current, found, err := markerRead(layout.MarkerPath())
	if err != nil {
		return Outcome{}, tx.fail(StepReadMarker, err)
	}
	if found && current == rel.Version {
		log.Info().Str("version", current).Msg("artifact is up to date")
		return Outcome{Status: StatusUpToDate, OldVersion: current, NewVersion: rel.Version}, nil
	}
	if !found {
		current = ""
	}

	verifiers, err := u.verifiers(ctx, rel, artifactName)
	if err != nil {
		return Outcome{}, tx.fail(StepFetchSignature, err)
	}

	artifactPath := layout.ArtifactPath()
	guard := u.newGuard(managedDir)

	exists, err := artifactExists(artifactPath)
	if err != nil {
		return Outcome{}, tx.fail(StepUnlock, err)
	}
	if exists {
		if err := guard.Unlock(artifactPath); err != nil {
			return Outcome{}, tx.fail(StepUnlock, err)
		}
	}
	tx.commit(log, PhaseUnlocked)

	if err := u.installer.Install(ctx, rel.ArtifactURL, artifactPath, verifiers...); err != nil {
		return Outcome{}, tx.fail(StepInstall, err)
	}
	guard.MarkReplaced(artifactPath)
	tx.commit(log, PhaseFetched)

	if err := guard.ApplyTier(ctx, artifactPath); err != nil {
		return Outcome{}, tx.fail(StepApplyTier, err)
	}
	tx.commit(log, PhaseTierApplied)

	if err := guard.Lock(artifactPath); err != nil {
		return Outcome{}, tx.fail(StepLock, err)
	}
	tx.commit(log, PhaseRelocked)

	if err := markerWrite(layout.MarkerPath(), rel.Version); err != nil {
		return Outcome{}, tx.fail(StepWriteMarker, err)
	}
	tx.commit(log, PhaseVersionPersisted)

	log.Info().Str("old", current).Str("new", rel.Version).Msg("artifact updated")
	return Outcome{Status: StatusUpdated, OldVersion: current, NewVersion: rel.Version}, nil
}

// verifiers returns the signature check for the release, or nothing when no key is configured.
// The signature is fetched before the transaction mutates anything.
func (u *Updater) verifiers(ctx context.Context, rel release.Release, artifactName string) ([]fetch.Verifier, error) {
	if u.key == nil {
		return nil, nil
	}
	name := signature.AssetName(artifactName)
	asset, ok := rel.FindAsset(name)
	if !ok {
		return nil, failure.Newf(failure.KindNotFound, messages.ReleaseAssetLookupOp, "", messages.ReleaseAssetNotFoundFmt, name, rel.Version)
	}
	data, err := u.installer.FetchBytes(ctx, asset.DownloadURL, signature.MaxSignatureBytes)
	if err != nil {
		return nil, err
	}
	verify, err := u.key.Verifier(data)
	if err != nil {
		return nil, err
	}
	return []fetch.Verifier{verify}, nil
}

func artifactExists(path string) (bool, error) {
	if _, err := osStat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, failure.Filesystem(messages.UpdaterStatArtifactOp, path, err)
	}
	return true, nil
}

// transaction tracks the last committed phase of one run. It is never persisted.
type transaction struct {
	release   release.Release
	committed Phase
}

func (tx *transaction) commit(log zerolog.Logger, phase Phase) {
	tx.committed = phase
	log.Debug().Str("phase", string(phase)).Str("version", tx.release.Version).Msg("phase committed")
}

func (tx *transaction) fail(step Step, err error) error {
	return &PhaseError{Step: step, Committed: tx.committed, Err: err}
}

// PhaseError is a run failure annotated with the step that failed and the last committed phase.
type PhaseError struct {
	Step      Step
	Committed Phase
	Err       error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf(messages.UpdaterPhaseErrFmt, e.Step, e.Err)
}

// Unwrap returns the component error.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

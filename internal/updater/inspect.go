package updater

import (
	"context"

	"github.com/conn-castle/toolsync/internal/paths"
	"github.com/conn-castle/toolsync/internal/protect"
	"github.com/conn-castle/toolsync/internal/release"
)

// CheckResult compares the recorded version with the latest release.
type CheckResult struct {
	Current      string
	CurrentFound bool
	Latest       release.Release
}

// UpToDate reports whether a run would return StatusUpToDate.
func (r CheckResult) UpToDate() bool {
	return r.CurrentFound && r.Current == r.Latest.Version
}

// Check queries the latest release and reads the marker without modifying anything.
func (u *Updater) Check(ctx context.Context, managedDir string, artifactName string) (CheckResult, error) {
	tx := &transaction{committed: PhaseNone}
	rel, err := u.oracle.FetchLatest(ctx, artifactName)
	if err != nil {
		return CheckResult{}, tx.fail(StepFetchLatest, err)
	}
	current, found, err := markerRead(paths.NewLayout(managedDir, artifactName).MarkerPath())
	if err != nil {
		return CheckResult{}, tx.fail(StepReadMarker, err)
	}
	return CheckResult{Current: current, CurrentFound: found, Latest: rel}, nil
}

// Report is the local state of the managed artifact.
type Report struct {
	Layout       paths.Layout
	Version      string
	VersionFound bool
	Present      bool
	Protection   protect.State
}

// Status reports the marker and protection state without contacting the registry.
func (u *Updater) Status(managedDir string, artifactName string) (Report, error) {
	layout := paths.NewLayout(managedDir, artifactName)
	report := Report{Layout: layout}

	version, found, err := markerRead(layout.MarkerPath())
	if err != nil {
		return Report{}, err
	}
	report.Version, report.VersionFound = version, found

	present, err := artifactExists(layout.ArtifactPath())
	if err != nil {
		return Report{}, err
	}
	report.Present = present
	if !present {
		return report, nil
	}
	state, err := u.newGuard(managedDir).Inspect(layout.ArtifactPath())
	if err != nil {
		return Report{}, err
	}
	report.Protection = state
	return report, nil
}

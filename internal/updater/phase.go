package updater

// Phase is the last step of the transaction that completed.
type Phase string

// Transaction phases, in commit order.
const (
	PhaseNone             Phase = "none"
	PhaseUnlocked         Phase = "unlocked"
	PhaseFetched          Phase = "fetched"
	PhaseTierApplied      Phase = "tier-applied"
	PhaseRelocked         Phase = "relocked"
	PhaseVersionPersisted Phase = "version-persisted"
)

// Step names the operation a run was performing when it failed.
type Step string

// Run steps.
const (
	StepPrepare        Step = "prepare"
	StepFetchLatest    Step = "fetch-latest"
	StepReadMarker     Step = "read-marker"
	StepFetchSignature Step = "fetch-signature"
	StepUnlock         Step = "unlock"
	StepInstall        Step = "install"
	StepApplyTier      Step = "apply-tier"
	StepLock           Step = "lock"
	StepWriteMarker    Step = "write-marker"
)

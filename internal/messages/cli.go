package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse   = "toolsync"
	RootShort = "Keep a managed tool at its latest release"
	RootLong  = "Update yt-dlp in the VRChat tools directory to the latest upstream release, keeping it protected between runs."

	RootVersionFlag   = "Print version and exit"
	RootFlagConfig    = "Path to the configuration file"
	RootFlagDir       = "Managed directory (overrides config and TOOLSYNC_MANAGED_DIR)"
	RootFlagVerbose   = "Log debug detail to the console"
	RootFlagNoColor   = "Disable colored output"
	RootFlagPause     = "Wait for a key press before exiting"
	RootFlagNoWizard  = "Skip the options wizard after updating"
	RootFlagArtifact  = "Release asset to manage"
	RootPausePrompt   = "Press any key to exit..."
	RootConfigLoadFmt = "load config: %w"
	RootLoggingFmt    = "set up logging: %w"

	// RootArtifactFlagSource names the --artifact flag in validation errors.
	RootArtifactFlagSource = "--artifact flag"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"
	UserAgentFmt     = "toolsync/%s"

	// UpdateUse is the update command name.
	UpdateUse            = "update"
	UpdateShort          = "Install the latest release when the recorded version differs"
	UpdateCurrentFmt     = "Current version: %s\n"
	UpdateUnknownVersion = "Unknown"
	UpdateUpToDateFmt    = "%s is already up to date (version %s)\n"
	UpdateNeededFmt      = "Update needed: %s -> %s\n"
	UpdateDoneFmt        = "Updated %s to version %s\n"
	UpdateFailedFmt      = "Update failed during %s (last completed phase: %s)\n"

	// CheckUse is the check command name.
	CheckUse          = "check"
	CheckShort        = "Report whether an update is available without changing anything"
	CheckUpToDateFmt  = "Up to date: %s\n"
	CheckAvailableFmt = "Update available: %s -> %s\n"

	// StatusUse is the status command name.
	StatusUse           = "status"
	StatusShort         = "Show the managed directory, recorded version, and protection state"
	StatusDirFmt        = "Directory:  %s\n"
	StatusArtifactFmt   = "Artifact:   %s\n"
	StatusVersionFmt    = "Version:    %s\n"
	StatusProtectionFmt = "Protection: %s\n"
	StatusMissing       = "not installed"
	StatusProtectedFmt  = "read-only=%t tier=%s"
	StatusLogFileFmt    = "Log file:   %s\n"

	// StatusTierUnobserved replaces the tier when no ACL tier was applied in this process.
	StatusTierUnobserved = "not observed by this run"

	// ConfigureUse is the configure command name.
	ConfigureUse        = "configure"
	ConfigureShort      = "Create the yt-dlp options file with a cookie browser"
	ConfigureExistsFmt  = "%s already exists\n"
	ConfigureCreatedFmt = "Created %s with selected browser: %s\n"
	ConfigureSkipped    = "Configuration skipped"
)

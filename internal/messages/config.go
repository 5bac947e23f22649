package messages

// Config messages for configuration loading and validation.
const (
	// ConfigReadFileFmt formats config read errors.
	ConfigReadFileFmt         = "read config %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigExpandPathFmt       = "expand config path %s: %w"

	ConfigArtifactRequiredFmt   = "%s: artifact is required"
	ConfigArtifactInvalidFmt    = "%s: artifact %q must be a plain file name"
	ConfigRepoInvalidFmt        = "%s: repo %q must be owner/name"
	ConfigAPIBaseInvalidFmt     = "%s: api_base_url %q must be an absolute http or https URL"
	ConfigMaxBytesInvalidFmt    = "%s: max_download_bytes must not be negative"
	ConfigTimeoutInvalidFmt     = "%s: timeout %q is not a valid duration"
	ConfigLogLevelInvalidFmt    = "%s: log_level %q is invalid (allowed: debug, info, warn, error)"
	ConfigTierArgsWithoutCmdFmt = "%s: tier.args requires tier.command"

	// ConfigValidationGuidance is appended to validation errors to direct users to the config file.
	ConfigValidationGuidance = "(edit the file or pass --config to use another one)"
)

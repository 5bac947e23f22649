package messages

// Operation names and error formats used by the update transaction.
const (
	// ReleaseCreateRequestOp names registry request construction.
	ReleaseCreateRequestOp     = "create latest release request"
	ReleaseFetchOp             = "fetch latest release"
	ReleaseUnexpectedStatusFmt = "unexpected status %s"
	ReleaseReadBodyOp          = "read latest release"
	ReleaseDecodeOp            = "decode latest release"
	ReleaseSchemaOp            = "validate latest release"
	ReleaseCompileSchemaOp     = "compile release schema"
	ReleaseAssetNotFoundFmt    = "asset %q not found in release %s"
	ReleaseAssetLookupOp       = "find release asset"

	// FetchCreateStagingOp names staging file creation.
	FetchCreateStagingOp     = "create staging file"
	FetchCreateRequestOp     = "create download request"
	FetchDownloadOp          = "download"
	FetchUnexpectedStatusFmt = "unexpected status %s"
	FetchTruncatedFmt        = "connection closed after %d bytes"
	FetchTooLargeFmt         = "download exceeds %d bytes"
	FetchEmpty               = "downloaded file is empty"
	FetchSizeMismatchFmt     = "downloaded %d bytes, expected %d"
	FetchValidateOp          = "validate download"
	FetchSyncStagingOp       = "sync staging file"
	FetchCloseStagingOp      = "close staging file"
	FetchStatStagingOp       = "stat staging file"
	FetchChmodStagingOp      = "chmod staging file"
	FetchReplaceOp           = "replace artifact"

	// ProtectNotRegularFile indicates an operation targeted something other than a regular file.
	ProtectNotRegularFile  = "not a regular file"
	ProtectInspectOp       = "inspect artifact"
	ProtectUnlockOp        = "clear protection attribute"
	ProtectLockOp          = "set protection attribute"
	ProtectTierOp          = "apply protection tier"
	ProtectContainOp       = "check artifact location"
	ProtectOutsideDirFmt   = "resolves to %s, outside managed directory %s"
	ProtectResolveDirOp    = "resolve managed directory"
	ProtectToolFailedFmt   = "%s: %s"
	ProtectTierCommandNone = "none"

	// MarkerReadOp names version marker reads.
	MarkerReadOp       = "read version marker"
	MarkerWriteOp      = "write version marker"
	MarkerCreateTempOp = "create version marker temp file"
	MarkerReplaceOp    = "replace version marker"

	// SignatureParseKeyOp names public key parsing.
	SignatureParseKeyOp  = "parse minisign public key"
	SignatureDecodeOp    = "decode minisign signature"
	SignatureReadOp      = "read staged artifact"
	SignatureVerifyOp    = "verify minisign signature"
	SignatureInvalid     = "signature does not match artifact"
	SignatureAssetSuffix = ".minisig"

	// UpdaterPhaseErrFmt formats an error with the transaction step it occurred in.
	UpdaterPhaseErrFmt    = "%s: %v"
	UpdaterPrepareDirOp   = "create managed directory"
	UpdaterStatArtifactOp = "stat artifact"

	// PathsExpandFmt formats a managed directory expansion failure.
	PathsExpandFmt      = "expand managed directory %s: %w"
	PathsKnownFolderFmt = "locate LocalLow folder: %w"
)

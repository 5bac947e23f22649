package messages

// Wizard prompts and results.
const (
	// WizardRequiresTerminal is returned when the wizard runs without a terminal.
	WizardRequiresTerminal = "wizard requires an interactive terminal"
	WizardNoteTitle        = "yt-dlp configuration"
	WizardNoteBody         = "Firefox is preferred as Chrome-based browsers may fail to work if they are running while loading videos."
	WizardBrowserTitle     = "Select the browser yt-dlp should read cookies from"
	WizardWriteOp          = "write options file"
	WizardCreateTempOp     = "create options temp file"
	WizardReplaceOp        = "replace options file"
	WizardStatOp           = "check options file"

	// WizardBaseOptions are written ahead of the browser selection.
	WizardBaseOptions      = "--no-playlist\n--no-warnings\n--quiet\n--no-progress\n"
	WizardCookiesOptionFmt = "--cookies-from-browser %s\n"
)

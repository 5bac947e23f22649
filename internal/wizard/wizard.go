// Package wizard creates the yt-dlp options file next to the managed artifact.
package wizard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

var (
	errWizardBack      = errors.New("wizard back requested")
	errWizardCancelled = errors.New("wizard cancelled")
)

// Browsers lists the browsers yt-dlp can read cookies from, in prompt order.
var Browsers = []string{"firefox", "brave", "chrome", "chromium", "edge", "opera", "safari", "vivaldi", "whale"}

var (
	osStat       = os.Stat
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// Result reports what Run did.
type Result struct {
	Browser string
	Created bool
	Existed bool
}

// Run writes the options file at confPath after asking which browser to take cookies from.
// An existing file is left untouched. Backing out of a prompt writes nothing and is not an error.
func Run(ui UI, confPath string) (Result, error) {
	if _, err := osStat(confPath); err == nil {
		return Result{Existed: true}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{}, failure.Filesystem(messages.WizardStatOp, confPath, err)
	}

	if err := ui.Note(messages.WizardNoteTitle, messages.WizardNoteBody); err != nil {
		return abandoned(err)
	}
	browser := Browsers[0]
	if err := ui.Select(messages.WizardBrowserTitle, Browsers, &browser); err != nil {
		return abandoned(err)
	}

	if err := writeOptions(confPath, Options(browser)); err != nil {
		return Result{}, err
	}
	return Result{Browser: browser, Created: true}, nil
}

// Options returns the options file content for browser.
func Options(browser string) string {
	return messages.WizardBaseOptions + fmt.Sprintf(messages.WizardCookiesOptionFmt, browser)
}

func abandoned(err error) (Result, error) {
	if errors.Is(err, errWizardBack) || errors.Is(err, errWizardCancelled) {
		return Result{}, nil
	}
	return Result{}, err
}

func writeOptions(path string, content string) error {
	dir := filepath.Dir(path)
	tmp, err := osCreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return failure.Filesystem(messages.WizardCreateTempOp, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return failure.Filesystem(messages.WizardWriteOp, path, err)
	}
	if err := tmp.Close(); err != nil {
		return failure.Filesystem(messages.WizardWriteOp, path, err)
	}
	if err := osRename(tmpName, path); err != nil {
		return failure.Filesystem(messages.WizardReplaceOp, path, err)
	}
	committed = true
	return nil
}

package wizard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

type fakeUI struct {
	choice    string
	noteErr   error
	selectErr error
	notes     []string
	options   []string
	selects   int
}

func (f *fakeUI) Select(_ string, options []string, current *string) error {
	f.selects++
	f.options = options
	if f.selectErr != nil {
		return f.selectErr
	}
	if f.choice != "" {
		*current = f.choice
	}
	return nil
}

func (f *fakeUI) Note(_ string, body string) error {
	f.notes = append(f.notes, body)
	return f.noteErr
}

func TestRunWritesOptions(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "yt-dlp.conf")
	ui := &fakeUI{choice: "brave"}

	res, err := Run(ui, conf)
	require.NoError(t, err)
	assert.Equal(t, Result{Browser: "brave", Created: true}, res)

	data, err := os.ReadFile(conf)
	require.NoError(t, err)
	assert.Equal(t, "--no-playlist\n--no-warnings\n--quiet\n--no-progress\n--cookies-from-browser brave\n", string(data))
	assert.Equal(t, Browsers, ui.options)
	assert.Equal(t, []string{messages.WizardNoteBody}, ui.notes)

	entries, err := os.ReadDir(filepath.Dir(conf))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

func TestRunDefaultsToFirefox(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "yt-dlp.conf")

	res, err := Run(&fakeUI{}, conf)
	require.NoError(t, err)
	assert.Equal(t, "firefox", res.Browser)
}

func TestRunLeavesExistingFile(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "yt-dlp.conf")
	require.NoError(t, os.WriteFile(conf, []byte("--custom\n"), 0o644))
	ui := &fakeUI{choice: "chrome"}

	res, err := Run(ui, conf)
	require.NoError(t, err)
	assert.True(t, res.Existed)
	assert.False(t, res.Created)
	assert.Empty(t, ui.notes)
	assert.Zero(t, ui.selects)

	data, err := os.ReadFile(conf)
	require.NoError(t, err)
	assert.Equal(t, "--custom\n", string(data))
}

func TestRunBackOutWritesNothing(t *testing.T) {
	for _, abort := range []error{errWizardBack, errWizardCancelled} {
		dir := t.TempDir()
		conf := filepath.Join(dir, "yt-dlp.conf")

		res, err := Run(&fakeUI{selectErr: abort}, conf)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		_, statErr := os.Stat(conf)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	}
}

func TestRunNoteFailure(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "yt-dlp.conf")
	ui := &fakeUI{noteErr: errors.New(messages.WizardRequiresTerminal)}

	_, err := Run(ui, conf)
	assert.EqualError(t, err, messages.WizardRequiresTerminal)
	assert.Zero(t, ui.selects)
}

func TestRunStatFailure(t *testing.T) {
	orig := osStat
	osStat = func(string) (os.FileInfo, error) { return nil, os.ErrPermission }
	t.Cleanup(func() { osStat = orig })

	_, err := Run(&fakeUI{}, "yt-dlp.conf")
	assert.ErrorIs(t, err, failure.ErrFilesystem)
}

func TestRunReplaceFailureRemovesTemp(t *testing.T) {
	orig := osRename
	osRename = func(string, string) error { return os.ErrPermission }
	t.Cleanup(func() { osRename = orig })
	dir := t.TempDir()

	_, err := Run(&fakeUI{}, filepath.Join(dir, "yt-dlp.conf"))
	assert.ErrorIs(t, err, failure.ErrFilesystem)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunCreateTempFailure(t *testing.T) {
	_, err := Run(&fakeUI{}, filepath.Join(t.TempDir(), "missing", "yt-dlp.conf"))
	assert.ErrorIs(t, err, failure.ErrFilesystem)
}

func TestOptions(t *testing.T) {
	assert.Equal(t, "--no-playlist\n--no-warnings\n--quiet\n--no-progress\n--cookies-from-browser whale\n", Options("whale"))
}

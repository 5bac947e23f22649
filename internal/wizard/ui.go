package wizard

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/terminal"
)

// UI defines the interaction methods the wizard needs.
type UI interface {
	Select(title string, options []string, current *string) error
	Note(title string, body string) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
	ctrlCAbort bool // set by key filter during form.Run(); reset before each form
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI that requires an interactive terminal.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return errors.New(messages.WizardRequiresTerminal)
}

// wizardKeyMap maps Esc to back and Ctrl+C to exit. Both abort the form;
// runForm tells them apart through the ctrlCAbort flag. Prev and Next are
// display-only hints.
func wizardKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))

	escBack := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	km.Select.Prev = escBack
	km.Note.Prev = escBack

	ctrlCExit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit"))
	km.Select.Next = ctrlCExit
	km.Note.Next = ctrlCExit

	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)

	return km
}

// hintField keeps the Prev and Next hints visible in single-field forms,
// where huh's WithPosition would otherwise disable both.
type hintField struct {
	huh.Field
	km *huh.KeyMap
}

// Update delegates to the inner field and returns the wrapper so it stays in the group.
func (f *hintField) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := f.Field.Update(msg)
	if field, ok := model.(huh.Field); ok {
		f.Field = field
	}
	return f, cmd
}

// WithPosition applies the position and then restores the hint bindings.
func (f *hintField) WithPosition(p huh.FieldPosition) huh.Field {
	f.Field.WithPosition(p)
	f.WithKeyMap(f.km)
	return f
}

func newHintField(field huh.Field) huh.Field {
	return &hintField{Field: field, km: wizardKeyMap()}
}

// formFilter records Ctrl+C key presses and turns InterruptMsg into QuitMsg
// so bubbletea clears the form on the way out.
func (ui *HuhUI) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			ui.ctrlCAbort = true
		}
		if _, ok := msg.(tea.InterruptMsg); ok {
			return tea.QuitMsg{}
		}
		return msg
	}
}

// runForm runs form on stderr. Esc returns errWizardBack; Ctrl+C returns errWizardCancelled.
func (ui *HuhUI) runForm(form *huh.Form) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}

	ui.ctrlCAbort = false
	form.WithKeyMap(wizardKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithReportFocus(),
		tea.WithFilter(ui.formFilter()),
	)

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		if ui.ctrlCAbort {
			return errWizardCancelled
		}
		return errWizardBack
	}
	return err
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}

	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(current)),
		),
	))
}

// Note renders an informational note screen.
func (ui *HuhUI) Note(title string, body string) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			newHintField(huh.NewNote().
				Title(title).
				Description(body)),
		),
	))
}

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/updater"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}
}

// runUpdate offers the options wizard when it is needed, then runs the update transaction.
func runUpdate(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()
	out := cmd.OutOrStdout()

	if !opts.noWizard && isInteractive() {
		if err := configure(out, s.layout().ConfPath()); err != nil {
			return err
		}
	}

	ctx, cancel := s.runContext(cmd.Context())
	defer cancel()
	outcome, err := s.updater.Run(ctx, s.dir, s.artifact)
	if err != nil {
		var phaseErr *updater.PhaseError
		if errors.As(err, &phaseErr) {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), color.RedString(messages.UpdateFailedFmt, phaseErr.Step, phaseErr.Committed))
		}
		return err
	}
	printOutcome(out, s.artifact, outcome)
	return nil
}

func printOutcome(out io.Writer, artifact string, outcome updater.Outcome) {
	current := outcome.OldVersion
	if current == "" {
		current = messages.UpdateUnknownVersion
	}
	_, _ = fmt.Fprintf(out, messages.UpdateCurrentFmt, current)
	if outcome.Status == updater.StatusUpToDate {
		_, _ = fmt.Fprint(out, color.GreenString(messages.UpdateUpToDateFmt, artifact, outcome.NewVersion))
		return
	}
	_, _ = fmt.Fprint(out, color.YellowString(messages.UpdateNeededFmt, current, outcome.NewVersion))
	_, _ = fmt.Fprint(out, color.GreenString(messages.UpdateDoneFmt, artifact, outcome.NewVersion))
}

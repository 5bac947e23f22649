package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolsync/internal/logging"
	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/protect"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			report, err := s.updater.Status(s.dir, s.artifact)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.StatusDirFmt, report.Layout.Dir)
			_, _ = fmt.Fprintf(out, messages.StatusArtifactFmt, report.Layout.ArtifactPath())
			version := report.Version
			if !report.VersionFound || version == "" {
				version = messages.UpdateUnknownVersion
			}
			_, _ = fmt.Fprintf(out, messages.StatusVersionFmt, version)

			protection := color.RedString(messages.StatusMissing)
			if report.Present {
				tier := report.Protection.Tier.String()
				if report.Protection.Tier == protect.TierUnknown {
					tier = messages.StatusTierUnobserved
				}
				detail := fmt.Sprintf(messages.StatusProtectedFmt, report.Protection.Protected, tier)
				if report.Protection.Protected {
					protection = color.GreenString(detail)
				} else {
					protection = color.YellowString(detail)
				}
			}
			_, _ = fmt.Fprintf(out, messages.StatusProtectionFmt, protection)
			if logToFile {
				_, _ = fmt.Fprintf(out, messages.StatusLogFileFmt, logging.LogFilePath())
			}
			return nil
		},
	}
}

func disableColor() {
	color.NoColor = true
}

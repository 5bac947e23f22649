package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolsync/internal/messages"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.CheckUse,
		Short: messages.CheckShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, cancel := s.runContext(cmd.Context())
			defer cancel()
			result, err := s.updater.Check(ctx, s.dir, s.artifact)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.UpToDate() {
				_, _ = fmt.Fprint(out, color.GreenString(messages.CheckUpToDateFmt, result.Current))
				return nil
			}
			current := result.Current
			if !result.CurrentFound || current == "" {
				current = messages.UpdateUnknownVersion
			}
			_, _ = fmt.Fprint(out, color.YellowString(messages.CheckAvailableFmt, current, result.Latest.Version))
			return nil
		},
	}
}

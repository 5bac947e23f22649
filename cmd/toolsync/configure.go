package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/wizard"
)

var (
	runWizard = wizard.Run
	newUI     = func() wizard.UI { return wizard.NewHuhUI() }
	mkdirAll  = os.MkdirAll
)

func newConfigureCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ConfigureUse,
		Short: messages.ConfigureShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()
			return configure(cmd.OutOrStdout(), s.layout().ConfPath())
		},
	}
}

// configure runs the options wizard for confPath and reports the result.
func configure(out io.Writer, confPath string) error {
	if err := mkdirAll(filepath.Dir(confPath), 0o755); err != nil {
		return failure.Filesystem(messages.UpdaterPrepareDirOp, filepath.Dir(confPath), err)
	}
	res, err := runWizard(newUI(), confPath)
	if err != nil {
		return err
	}
	name := filepath.Base(confPath)
	switch {
	case res.Existed:
		_, _ = fmt.Fprintf(out, messages.ConfigureExistsFmt, name)
	case res.Created:
		_, _ = fmt.Fprint(out, color.GreenString(messages.ConfigureCreatedFmt, name, res.Browser))
	default:
		_, _ = fmt.Fprintln(out, messages.ConfigureSkipped)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/conn-castle/toolsync/internal/config"
	"github.com/conn-castle/toolsync/internal/fetch"
	"github.com/conn-castle/toolsync/internal/logging"
	"github.com/conn-castle/toolsync/internal/messages"
	"github.com/conn-castle/toolsync/internal/paths"
	"github.com/conn-castle/toolsync/internal/release"
	"github.com/conn-castle/toolsync/internal/signature"
	"github.com/conn-castle/toolsync/internal/terminal"
	"github.com/conn-castle/toolsync/internal/updater"
)

var (
	loadConfig    = config.Load
	setupLogging  = logging.Setup
	managedDir    = paths.ManagedDir
	isInteractive = terminal.IsInteractive
	logToFile     = true
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dir        string
	artifact   string
	verbose    bool
	noColor    bool
	noWizard   bool
	pause      bool
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)
	flags.StringVar(&opts.dir, "dir", "", messages.RootFlagDir)
	flags.StringVar(&opts.artifact, "artifact", "", messages.RootFlagArtifact)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	flags.BoolVar(&opts.noColor, "no-color", false, messages.RootFlagNoColor)
	flags.BoolVar(&opts.pause, "pause", false, messages.RootFlagPause)
	flags.BoolVar(&opts.noWizard, "no-wizard", false, messages.RootFlagNoWizard)
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	cmd.AddCommand(
		newUpdateCmd(opts),
		newCheckCmd(opts),
		newStatusCmd(opts),
		newConfigureCmd(opts),
	)
	return cmd
}

// session is the configuration and collaborators resolved for one command.
type session struct {
	cfg      *config.Config
	logger   zerolog.Logger
	closer   io.Closer
	dir      string
	artifact string
	updater  *updater.Updater
}

// openSession loads config, sets up logging and builds the updater.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf(messages.RootConfigLoadFmt, err)
	}
	if opts.noColor {
		disableColor()
	}
	logger, closer, err := setupLogging(cmd.ErrOrStderr(), logging.Options{
		Level:   cfg.LogLevel,
		Verbose: opts.verbose,
		NoColor: opts.noColor,
		File:    logToFile,
	})
	if err != nil {
		return nil, fmt.Errorf(messages.RootLoggingFmt, err)
	}
	s := &session{cfg: cfg, logger: logger, closer: closer}

	explicit := opts.dir
	if strings.TrimSpace(explicit) == "" {
		explicit = cfg.ManagedDir
	}
	dir, err := managedDir(explicit)
	if err != nil {
		s.close()
		return nil, err
	}
	s.dir = dir

	s.artifact = cfg.Artifact
	if opts.artifact != "" {
		if err := config.ValidateArtifact(opts.artifact, messages.RootArtifactFlagSource); err != nil {
			s.close()
			return nil, err
		}
		s.artifact = opts.artifact
	}

	var key *signature.Key
	if strings.TrimSpace(cfg.MinisignPublicKey) != "" {
		key, err = signature.ParseKey(cfg.MinisignPublicKey)
		if err != nil {
			s.close()
			return nil, err
		}
	}

	userAgent := fmt.Sprintf(messages.UserAgentFmt, Version)
	oracle := release.New(
		release.WithBaseURL(cfg.APIBaseURL),
		release.WithRepo(cfg.Owner(), cfg.RepoName()),
		release.WithUserAgent(userAgent),
	)
	fetcher := fetch.New(
		fetch.WithUserAgent(userAgent),
		fetch.WithMaxBytes(cfg.MaxDownloadBytes),
	)
	s.updater = updater.New(oracle, fetcher,
		updater.WithTier(cfg.TierApplier()),
		updater.WithSignatureKey(key),
		updater.WithLogger(logging.Component(logger, "updater")),
	)
	s.logger.Debug().Str("dir", dir).Str("artifact", s.artifact).Str("repo", cfg.Repo).Msg("session ready")
	return s, nil
}

func (s *session) layout() paths.Layout {
	return paths.NewLayout(s.dir, s.artifact)
}

// runContext bounds ctx by the configured timeout, if any.
func (s *session) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d := s.cfg.RunTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (s *session) close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

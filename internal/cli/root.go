// Package cli holds the go-genie command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
)

// RootOptions holds global flags and the state shared by every command.
type RootOptions struct {
	ConfigPath string
	Debug      bool

	// LogDir overrides the cache directory holding the log file.
	LogDir string
	// Clock defaults to engine.RealClock.
	Clock engine.Clock

	// Set by the root pre-run hook.
	Settings     *config.Settings
	SettingsPath string

	logCloser io.Closer
}

func (o *RootOptions) clock() engine.Clock {
	if o.Clock == nil {
		return engine.RealClock{}
	}
	return o.Clock
}

// Close releases the log file, if any.
func (o *RootOptions) Close() error {
	if o.logCloser == nil {
		return nil
	}
	err := o.logCloser.Close()
	o.logCloser = nil
	return err
}

// NewRootCommand creates the root command. Without a subcommand it behaves
// like "run".
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.CmdName,
		Short:         config.DescRoot,
		Long:          config.DescRun,
		Version:       config.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logCloser = SetupLogging(opts.LogDir, opts.Debug, cmd.ErrOrStderr())
			logStartupInfo()

			if err := godotenv.Load(config.EnvFileName); err != nil {
				slog.Debug(config.MsgEnvFileSkipped,
					config.LogKeyComponent, config.CompCLI,
					config.LogKeyError, err)
			}
			return loadSettings(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf(config.MsgVersionOutput,
		config.AppName, config.Version, runtime.GOOS, runtime.GOARCH))

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, config.FlagConfig, "", config.FlagDescConfig)
	cmd.PersistentFlags().BoolVar(&opts.Debug, config.FlagDebug, false, config.FlagDescDebug)
	cmd.Flags().Bool(config.FlagVersion, false, config.FlagDescVersion)

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDispatchCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))

	return cmd
}

// loadSettings resolves the settings file and loads it. The directory of an
// explicit --config file becomes the data directory.
func loadSettings(opts *RootOptions) error {
	path := opts.ConfigPath
	var dataDir string
	if path == "" {
		dir, err := config.DefaultDataDir()
		if err != nil {
			return WrapExitError(config.ExitCodeConfig, config.ErrSettingsRead, err)
		}
		dataDir = dir
		path = filepath.Join(dir, config.DefaultSettingsFile)
	} else {
		dataDir = filepath.Dir(path)
	}

	s, err := config.LoadSettings(path, dataDir)
	if err != nil {
		return WrapExitError(config.ExitCodeConfig, config.ErrSettingsRead, err)
	}
	opts.Settings = s
	opts.SettingsPath = path
	return nil
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	opts := &RootOptions{}
	defer func() { _ = opts.Close() }()

	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyError, err,
		)
		fmt.Fprintf(errOut, config.OutError, err)
		return GetExitCode(err)
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompCLI)
	return config.ExitCodeSuccess
}

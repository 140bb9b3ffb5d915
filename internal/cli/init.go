package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/store"
	"github.com/tartampluch/go-genie/internal/transport"
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	Login    string
	Password string
	Force    bool
}

// NewInitCommand creates the init command. It writes default settings, an
// empty fetch guard and, with --login, the credentials file.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	initOpts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   config.CmdInit,
		Short: config.DescInit,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, initOpts)
		},
	}

	cmd.Flags().StringVar(&initOpts.Login, config.FlagLogin, "", config.FlagDescLogin)
	cmd.Flags().StringVar(&initOpts.Password, config.FlagPassword, "", config.FlagDescPassword)
	cmd.Flags().BoolVar(&initOpts.Force, config.FlagForce, false, config.FlagDescForce)
	return cmd
}

func runInit(cmd *cobra.Command, opts *RootOptions, initOpts *InitOptions) error {
	out := cmd.OutOrStdout()
	s := opts.Settings

	if initOpts.Password != "" && initOpts.Login == "" {
		return NewExitError(config.ExitCodeConfig, config.ErrPasswordNoLogin)
	}

	_, err := os.Stat(opts.SettingsPath)
	switch {
	case err == nil && !initOpts.Force:
		return NewExitError(config.ExitCodeConfig, config.ErrSettingsExists+": "+opts.SettingsPath)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return WrapExitError(config.ExitCodeConfig, config.ErrSettingsRead, err)
	}

	// Defaults keep file names relative to the data directory.
	if err := config.SaveSettings(opts.SettingsPath, config.DefaultSettings(s.DataDir)); err != nil {
		return err
	}
	slog.Info(config.MsgSettingsWritten,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyFile, opts.SettingsPath)
	fmt.Fprintf(out, config.OutInitSettings, opts.SettingsPath)

	created, err := store.NewFetchGuard(s.GuardFile).Init()
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, config.OutInitGuard, s.GuardFile)
	}

	if initOpts.Login == "" {
		return nil
	}
	if err := transport.WriteCredentials(s.CredentialsFile, initOpts.Login, initOpts.Force); err != nil {
		return WrapExitError(config.ExitCodeConfig, config.ErrCredentialsWrite, err)
	}
	fmt.Fprintf(out, config.OutInitCreds, s.CredentialsFile)

	if initOpts.Password == "" {
		return nil
	}
	if err := transport.StorePassword(initOpts.Login, initOpts.Password); err != nil {
		return err
	}
	slog.Info(config.MsgPasswordStored,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyUser, initOpts.Login)
	fmt.Fprintf(out, config.OutInitPassword, initOpts.Login)
	return nil
}

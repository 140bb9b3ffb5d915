package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/journal"
	"github.com/tartampluch/go-genie/internal/store"
	"github.com/tartampluch/go-genie/internal/transport"
	"github.com/tartampluch/go-genie/internal/ui"
)

// NewRunCommand creates the interactive run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdRun,
		Short: config.DescRun,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}
}

// NewDispatchCommand creates the non-interactive dispatch command.
func NewDispatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdDispatch,
		Short: config.DescDispatch,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, opts)
		},
	}
}

// invocation bundles the collaborators of one scheduler run.
type invocation struct {
	sched   *engine.Scheduler
	session *transport.Session
	journal *journal.Journal
}

// openInvocation validates the settings, logs in and opens the scheduler.
// Configuration and bootstrap problems exit with config.ExitCodeConfig.
func openInvocation(ctx context.Context, opts *RootOptions) (*invocation, error) {
	s := opts.Settings
	if err := s.Validate(); err != nil {
		return nil, WrapExitError(config.ExitCodeConfig, config.ErrSettingsInvalid, err)
	}

	j, err := journal.Open(s.JournalFile)
	if err != nil {
		return nil, err
	}

	session, err := transport.Login(s)
	if err != nil {
		_ = j.Close()
		return nil, WrapExitError(config.ExitCodeConfig, config.ErrSessionLogin, err)
	}

	clock := opts.clock()
	inv := &invocation{
		sched: &engine.Scheduler{
			Clock:    clock,
			Source:   session,
			Sender:   session,
			Repo:     store.NewCalendarFile(s.CalendarFile, clock),
			Guard:    store.NewFetchGuard(s.GuardFile),
			Recorder: j,
		},
		session: session,
		journal: j,
	}

	if err := inv.sched.Open(ctx); err != nil {
		_ = inv.release()
		if errors.Is(err, store.ErrGuardMissing) {
			return nil, WrapExitError(config.ExitCodeConfig, config.ErrGuardMissing, err)
		}
		return nil, err
	}
	return inv, nil
}

// finish saves the calendar and ends the session. The calendar is saved even
// when runErr is set so that edits made before the failure are kept.
func (inv *invocation) finish(runErr error) error {
	return errors.Join(runErr, inv.sched.Close(), inv.release())
}

func (inv *invocation) release() error {
	return errors.Join(inv.session.Logout(), inv.journal.Close())
}

func runInteractive(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	inv, err := openInvocation(ctx, opts)
	if err != nil {
		return err
	}

	report, err := inv.sched.DispatchDue(ctx)
	if err != nil {
		return inv.finish(err)
	}

	tr := ui.NewTranslator(opts.Settings.Language)
	shell := &ui.Shell{
		Planner: inv.sched,
		Prompt:  ui.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout(), tr),
		T:       tr,
	}
	shell.Welcome(report)

	return inv.finish(shell.Run(ctx))
}

func runDispatch(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	inv, err := openInvocation(ctx, opts)
	if err != nil {
		return err
	}

	report, err := inv.sched.DispatchDue(ctx)
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), config.OutDispatch, len(report.Delivered), len(report.Failed))
		if len(report.Failed) > 0 {
			err = NewExitError(config.ExitCodeError, config.ErrDispatchIncomplete)
		}
	}
	return inv.finish(err)
}

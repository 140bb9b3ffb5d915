package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/journal"
	"github.com/tartampluch/go-genie/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdList,
		Short: config.DescList,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := store.NewCalendarFile(opts.Settings.CalendarFile, opts.clock()).Load()
			if err != nil {
				return err
			}
			return writeList(cmd.OutOrStdout(), cal)
		},
	}
}

// writeList prints one line per entry in occurrence order, followed by the
// quoted message when one is scheduled.
func writeList(w io.Writer, cal *engine.Calendar) error {
	entries := cal.Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprint(w, config.OutListEmpty)
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, config.OutListEntry,
			e.Occurrence.Format(config.DateFormatDisplay), e.Name, e.ContactID); err != nil {
			return err
		}
		if e.HasMessage() {
			if _, err := fmt.Fprintf(w, config.OutListMessage, e.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   config.CmdHistory,
		Short: config.DescHistory,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.Open(opts.Settings.JournalFile)
			if err != nil {
				return err
			}
			defer j.Close()

			records, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntVar(&limit, config.FlagLimit, config.DefaultHistory, config.FlagDescLimit)
	return cmd
}

func writeHistory(w io.Writer, records []journal.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprint(w, config.OutHistoryEmpty)
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, config.OutHistoryEntry,
			r.At.Local().Format(config.DateTimeHistory),
			r.Status,
			r.Occurrence.Format(config.DateFormatDisplay),
			r.Name, r.ContactID); err != nil {
			return err
		}
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, config.OutHistoryError, r.Error); err != nil {
				return err
			}
		}
	}
	return nil
}

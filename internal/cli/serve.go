package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/server"
	"github.com/tartampluch/go-genie/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.DescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.Settings
			if port == "" {
				port = s.Server.Port
			}

			srv := server.NewFeedServer(port)
			srv.Clock = opts.clock()
			repo := store.NewCalendarFile(s.CalendarFile, srv.Clock)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			follow := make(chan error, config.ChannelBufferSize)
			start := make(chan error, config.ChannelBufferSize)
			go func() { follow <- srv.Follow(ctx, repo, config.FeedReloadInterval) }()
			go func() { start <- srv.Start(ctx) }()

			fmt.Fprintf(cmd.OutOrStdout(), config.OutServe, s.CalendarFile, config.LocalhostBindAddr, port)

			// Whichever stops first takes the other down.
			select {
			case err := <-follow:
				cancel()
				return errors.Join(err, <-start)
			case err := <-start:
				cancel()
				return errors.Join(err, <-follow)
			}
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, "", config.FlagDescPort)
	return cmd
}

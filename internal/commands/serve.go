package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger and reports as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			if addr == "" {
				addr = p.Config.Server.Addr
			}
			return server.New(p, addr, logger.FromContext(ctx)).ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from tally.yaml)")

	return cmd
}

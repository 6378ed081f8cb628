package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/journal"
	"github.com/cleared-dev/tally/internal/ledger"
)

func newExportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the general ledger and trial balance to exports/ as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			run, err := p.Run(ctx)
			if err != nil {
				return err
			}
			entries := ledger.BuildLedger(run.Book, ledger.AllAccounts)
			tb := ledger.BuildTrialBalance(run.Book, p.Chart)

			paths, err := journal.Export(p.Root, entries, tb, p.Precision, p.Config.Currency.Base)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
}

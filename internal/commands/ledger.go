package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func newLedgerCommand(opts *options) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print the general ledger with running balances",
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
			entries := ledger.BuildLedger(run.Book, account)
			if entries == nil {
				entries = []model.LedgerEntry{}
			}
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), entries, func() {
				r.Ledger(account, entries)
				r.Issues(run.Book.Issues)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", ledger.AllAccounts, "account code, or all")

	return cmd
}

func newTrialCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "trial",
		Short: "Print the trial balance",
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
			tb := ledger.BuildTrialBalance(run.Book, p.Chart)
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), tb, func() {
				r.TrialBalance(tb)
				r.Issues(run.Book.Issues)
			})
		},
	}
}

func newBalancesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Print account balances per original currency",
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
			balances := ledger.BalancesByCurrency(run.Book, p.Chart)
			if balances == nil {
				balances = []ledger.CurrencyBalance{}
			}
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), balances, func() {
				r.Balances(balances)
			})
		},
	}
}

package commands

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/project"
	"github.com/cleared-dev/tally/internal/reports"
)

func newReportCommand(opts *options) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	reportCmd.AddCommand(
		newPnLCommand(opts),
		newVATCommand(opts),
		newCashFlowCommand(opts),
		newBalanceSheetCommand(opts),
		newFxCommand(opts),
		newStatementCommand(opts),
	)
	return reportCmd
}

func newPnLCommand(opts *options) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Monthly profit and loss for a year",
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
			pnl := reports.BuildProfitAndLoss(run.Book, yearOrCurrent(year))
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), pnl, func() { r.ProfitAndLoss(pnl) })
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default current year)")

	return cmd
}

func newVATCommand(opts *options) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Monthly VAT return for a year",
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
			vat := reports.BuildVAT(run.Book, yearOrCurrent(year))
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), vat, func() { r.VAT(vat) })
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default current year)")

	return cmd
}

func newCashFlowCommand(opts *options) *cobra.Command {
	var year int
	var from, to string

	cmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Statement of cash flows for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period := reports.Year(yearOrCurrent(year))
			var err error
			if period.From, err = dateFlag("from", from, period.From); err != nil {
				return err
			}
			if period.To, err = dateFlag("to", to, period.To); err != nil {
				return err
			}
			if period.To.Before(period.From) {
				return fmt.Errorf("--to %s is before --from %s", period.To, period.From)
			}

			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			run, err := p.Run(ctx)
			if err != nil {
				return err
			}
			cf := reports.BuildCashFlow(run.Book, p.Chart, period, p.Activities())
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), cf, func() { r.CashFlow(cf) })
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default current year)")
	cmd.Flags().StringVar(&from, "from", "", "period start, YYYY-MM-DD (default start of year)")
	cmd.Flags().StringVar(&to, "to", "", "period end, YYYY-MM-DD (default end of year)")

	return cmd
}

func newBalanceSheetCommand(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Balance sheet at a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFlag("as-of", asOf, project.Today())
			if err != nil {
				return err
			}

			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			run, err := p.Run(ctx)
			if err != nil {
				return err
			}
			bs := reports.BuildBalanceSheet(run.Book, run.Normalizer, p.BalanceSheetInput(run, date))
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), bs, func() { r.BalanceSheet(bs) })
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "report date, YYYY-MM-DD (default today)")

	return cmd
}

func newFxCommand(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "fx",
		Short: "Realized and unrealized exchange gains and losses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dateFlag("as-of", asOf, project.Today())
			if err != nil {
				return err
			}

			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			run, err := p.Run(ctx)
			if err != nil {
				return err
			}
			fxr := reports.BuildFxGainLoss(run.Book, run.Normalizer, p.Precision, date)
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), fxr, func() { r.FxGainLoss(fxr) })
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "valuation date, YYYY-MM-DD (default today)")

	return cmd
}

func newStatementCommand(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "statement <customer|supplier> <id>",
		Short: "Account statement of a customer or supplier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, err := reports.ParsePartySide(args[0])
			if err != nil {
				return err
			}
			var period reports.Period
			if period.From, err = dateFlag("from", from, civil.Date{}); err != nil {
				return err
			}
			if period.To, err = dateFlag("to", to, civil.Date{}); err != nil {
				return err
			}
			if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
				return fmt.Errorf("--to %s is before --from %s", period.To, period.From)
			}

			p, ctx, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer p.Close()

			run, err := p.Run(ctx)
			if err != nil {
				return err
			}
			st := run.Statement(side, args[1], period)
			r := opts.renderer(cmd, p)
			return opts.emit(cmd.OutOrStdout(), st, func() { r.Statement(st) })
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (default open)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (default open)")

	return cmd
}

func yearOrCurrent(year int) int {
	if year > 0 {
		return year
	}
	return project.Today().Year
}

func dateFlag(name, raw string, def civil.Date) (civil.Date, error) {
	if raw == "" {
		return def, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return d, nil
}

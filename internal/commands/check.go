package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/issuelog"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/project"
)

type checkResult struct {
	RunID      string          `json:"runId"`
	Issues     ledger.Issues   `json:"issues"`
	Violations []string        `json:"violations"`
	Balanced   bool            `json:"balanced"`
	Difference decimal.Decimal `json:"difference"`
	Rates      fx.Age          `json:"rates"`
}

func newCheckCommand(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report data-quality issues and validate postings",
		Long: "Posts every event, prints the issues found and any posting that breaks a ledger invariant, " +
			"and appends the issues to logs/issues.csv.",
		Args: cobra.NoArgs,
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

			res := checkResult{
				RunID:      uuid.NewString(),
				Issues:     run.Book.Issues,
				Violations: []string{},
				Rates:      p.RateAge(run, project.Today()),
			}
			if res.Issues == nil {
				res.Issues = ledger.Issues{}
			}
			violations := ledger.Validate(run.Book, p.Chart)
			for _, v := range violations {
				res.Violations = append(res.Violations, v.Error())
			}
			tb := ledger.BuildTrialBalance(run.Book, p.Chart)
			res.Balanced = tb.IsBalanced
			res.Difference = tb.Difference

			if len(res.Issues) > 0 {
				entries := issuelog.FromIssues(res.RunID, time.Now().UTC(), res.Issues)
				if err := issuelog.Append(p.Root, entries); err != nil {
					return err
				}
			}
			log := logger.FromContext(ctx)
			log.Info().
				Str("run_id", res.RunID).
				Int("issues", len(res.Issues)).
				Int("violations", len(violations)).
				Msg("check complete")

			r := opts.renderer(cmd, p)
			if err := opts.emit(cmd.OutOrStdout(), res, func() {
				r.RateAge(res.Rates)
				r.Issues(res.Issues)
				r.Violations(violations)
				if !res.Balanced {
					fmt.Fprintf(cmd.OutOrStdout(), "Trial balance out of balance by %s\n", p.Precision.Format(res.Difference, p.Config.Currency.Base))
				}
			}); err != nil {
				return err
			}

			switch {
			case len(violations) > 0:
				return fmt.Errorf("check failed: %d violation(s)", len(violations))
			case strict && len(res.Issues) > 0:
				return fmt.Errorf("check failed: %d issue(s)", len(res.Issues))
			case strict && !res.Balanced:
				return fmt.Errorf("check failed: trial balance out of balance")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on issues and an unbalanced trial balance too")

	return cmd
}

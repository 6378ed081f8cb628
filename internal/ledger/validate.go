package ledger

import (
	"fmt"
)

// ValidationError describes a single invariant violation on a posting.
type ValidationError struct {
	Invariant   int
	Ref         string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Ref, e.Description)
}

// AccountChecker tests whether an account code exists in the chart of accounts.
type AccountChecker interface {
	Exists(code string) bool
}

// Validate checks the structural invariants of a book's postings:
//
//  1. at most one of debit and credit is non-zero
//  2. debit and credit are never negative
//  3. the account exists in the chart
//  4. the posting matched a classification rule
//  5. the applied exchange rate is positive
func Validate(book *Book, chart AccountChecker) []ValidationError {
	var errs []ValidationError
	for _, p := range book.Postings {
		if !p.Debit.IsZero() && !p.Credit.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   1,
				Ref:         p.Ref,
				Description: fmt.Sprintf("both debit (%s) and credit (%s) set", p.Debit, p.Credit),
			})
		}

		if p.Debit.IsNegative() || p.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Ref:         p.Ref,
				Description: fmt.Sprintf("negative amount: debit %s credit %s", p.Debit, p.Credit),
			})
		}

		if !chart.Exists(p.AccountCode) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Ref:         p.Ref,
				Description: fmt.Sprintf("unknown account %s", p.AccountCode),
			})
		}

		if p.Unclassified {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Ref:         p.Ref,
				Description: fmt.Sprintf("%s matched no rule, posted to %s", p.Kind, p.AccountCode),
			})
		}

		if !p.Rate.IsPositive() {
			errs = append(errs, ValidationError{
				Invariant:   5,
				Ref:         p.Ref,
				Description: fmt.Sprintf("rate %s applied to %s amount", p.Rate, p.Currency),
			})
		}
	}
	return errs
}

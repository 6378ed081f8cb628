package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one derived line of the general ledger. Entries are
// recomputed on every pass and never stored.
type LedgerEntry struct {
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`  // zero if credit side
	Credit      decimal.Decimal `json:"credit"` // zero if debit side
	Balance     decimal.Decimal `json:"balance"`
	Reference   string          `json:"reference"`
}

// TrialBalanceRow is the per-account aggregate of ledger entries.
// Balance is Debit - Credit; positive means a net debit.
type TrialBalanceRow struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Type    AccountType     `json:"type,omitempty"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

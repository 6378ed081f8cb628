package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/model"
)

// TrialBalance is the per-account summary of a book.
type TrialBalance struct {
	Rows        []model.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal         `json:"totalDebit"`
	TotalCredit decimal.Decimal         `json:"totalCredit"`
	// Difference is |TotalDebit - TotalCredit|, always computed.
	Difference decimal.Decimal `json:"difference"`
	IsBalanced bool            `json:"isBalanced"`
}

// BuildTrialBalance groups the book's postings by account. Only accounts
// with at least one posting get a row; rows follow chart order.
func BuildTrialBalance(book *Book, chart *accounts.Service) TrialBalance {
	rows := make(map[string]*model.TrialBalanceRow)
	var codes []string
	for _, p := range book.Postings {
		row, ok := rows[p.AccountCode]
		if !ok {
			row = &model.TrialBalanceRow{Code: p.AccountCode, Name: p.AccountName}
			if acct, known := chart.Get(p.AccountCode); known {
				row.Name = acct.Name
				row.Type = acct.Type
			}
			rows[p.AccountCode] = row
			codes = append(codes, p.AccountCode)
		}
		row.Debit = row.Debit.Add(p.Debit)
		row.Credit = row.Credit.Add(p.Credit)
	}
	sort.SliceStable(codes, func(i, j int) bool {
		return chart.Less(codes[i], codes[j])
	})

	tb := TrialBalance{Rows: make([]model.TrialBalanceRow, 0, len(codes))}
	for _, code := range codes {
		row := rows[code]
		row.Balance = row.Debit.Sub(row.Credit)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, *row)
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit).Abs()
	tb.IsBalanced = tb.Difference.IsZero()
	return tb
}

// Row returns the row for code.
func (tb TrialBalance) Row(code string) (model.TrialBalanceRow, bool) {
	for _, r := range tb.Rows {
		if r.Code == code {
			return r, true
		}
	}
	return model.TrialBalanceRow{}, false
}

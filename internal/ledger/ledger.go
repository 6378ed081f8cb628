package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// AllAccounts is the filter value that selects every account.
const AllAccounts = "all"

// Sorted returns the book's postings ordered by date. Postings on the same
// date keep merge order.
func (b *Book) Sorted() []Posting {
	out := make([]Posting, len(b.Postings))
	copy(out, b.Postings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// BuildLedger returns the general ledger for account, or for every account
// when account is empty or "all". The filter is applied before the running
// balance is accumulated, so each balance is scoped to the filtered rows.
func BuildLedger(book *Book, account string) []model.LedgerEntry {
	account = strings.TrimSpace(account)
	all := account == "" || strings.EqualFold(account, AllAccounts)

	var entries []model.LedgerEntry
	balance := decimal.Zero
	for _, p := range book.Sorted() {
		if !all && p.AccountCode != account {
			continue
		}
		balance = balance.Add(p.Debit).Sub(p.Credit)
		entries = append(entries, model.LedgerEntry{
			Date:        p.Date,
			Description: p.Description,
			AccountCode: p.AccountCode,
			AccountName: p.AccountName,
			Debit:       p.Debit,
			Credit:      p.Credit,
			Balance:     balance,
			Reference:   p.Ref,
		})
	}
	return entries
}

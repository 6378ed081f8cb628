package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
)

// CurrencyBalance is an account's activity in one original currency.
type CurrencyBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Currency    string          `json:"currency"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	BaseBalance decimal.Decimal `json:"baseBalance"`
}

// BalancesByCurrency splits every account's balance by the currency the
// underlying events were recorded in. Amounts are in that currency, with the
// base-currency equivalent at posting rates alongside. Rows follow chart
// order, then currency code.
func BalancesByCurrency(book *Book, chart *accounts.Service) []CurrencyBalance {
	type key struct{ code, currency string }
	byKey := make(map[key]*CurrencyBalance)
	var keys []key
	for _, p := range book.Postings {
		k := key{p.AccountCode, p.Currency}
		cb, ok := byKey[k]
		if !ok {
			cb = &CurrencyBalance{AccountCode: p.AccountCode, AccountName: chart.Name(p.AccountCode), Currency: p.Currency}
			byKey[k] = cb
			keys = append(keys, k)
		}
		cb.Debit = cb.Debit.Add(p.OrigDebit)
		cb.Credit = cb.Credit.Add(p.OrigCredit)
		cb.BaseBalance = cb.BaseBalance.Add(p.Amount())
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return chart.Less(keys[i].code, keys[j].code)
		}
		return keys[i].currency < keys[j].currency
	})

	out := make([]CurrencyBalance, 0, len(keys))
	for _, k := range keys {
		cb := byKey[k]
		cb.Balance = cb.Debit.Sub(cb.Credit)
		out = append(out, *cb)
	}
	return out
}

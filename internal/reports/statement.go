package reports

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// PartySide selects whose account a statement shows.
type PartySide string

const (
	Customer PartySide = "customer"
	Supplier PartySide = "supplier"
)

// ParsePartySide parses "customer" or "supplier".
func ParsePartySide(s string) (PartySide, error) {
	switch PartySide(s) {
	case Customer, Supplier:
		return PartySide(s), nil
	}
	return "", fmt.Errorf("invalid party %q: must be customer or supplier", s)
}

// kinds returns the events that move a party's account.
func (s PartySide) kinds() map[model.EventKind]bool {
	if s == Supplier {
		return map[model.EventKind]bool{
			model.KindPurchase: true, model.KindPaymentVoucher: true, model.KindPurchaseReturn: true,
		}
	}
	return map[model.EventKind]bool{
		model.KindSale: true, model.KindReceiptVoucher: true, model.KindSaleReturn: true,
	}
}

// StatementLine is one movement on a counterparty account, in the event's
// own currency. Balance runs per currency.
type StatementLine struct {
	Date        civil.Date      `json:"date"`
	Kind        model.EventKind `json:"kind"`
	Ref         string          `json:"ref"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	BaseBalance decimal.Decimal `json:"baseBalance"`
}

// StatementTotal sums one currency's movements.
type StatementTotal struct {
	Currency string          `json:"currency"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
}

// Statement is a customer or supplier account statement.
type Statement struct {
	Side   PartySide        `json:"side"`
	Party  string           `json:"party"`
	Name   string           `json:"name,omitempty"`
	Period Period           `json:"period"`
	Lines  []StatementLine  `json:"lines"`
	Totals []StatementTotal `json:"totals"` // by currency code
	// BaseBalance is the closing balance of every line in base currency.
	BaseBalance decimal.Decimal `json:"baseBalance"`
}

// BuildStatement lists the posted invoices, vouchers and returns of one
// customer or supplier in period, ordered by date. Invoices are debits on a
// customer's account and credits on a supplier's; vouchers and returns go
// the other way. A customer's balance is what they owe, a supplier's what is
// owed to them.
func BuildStatement(book *ledger.Book, side PartySide, party, name string, period Period) Statement {
	st := Statement{Side: side, Party: party, Name: name, Period: period}
	kinds := side.kinds()

	running := make(map[string]decimal.Decimal)
	totals := make(map[string]*StatementTotal)
	for _, p := range book.Sorted() {
		if p.Party != party || !kinds[p.Kind] || !period.Contains(p.Date) {
			continue
		}
		// The counterparty's side mirrors the posting on our books.
		line := StatementLine{
			Date:        p.Date,
			Kind:        p.Kind,
			Ref:         p.Ref,
			Description: p.Description,
			Currency:    p.Currency,
			Debit:       p.OrigCredit,
			Credit:      p.OrigDebit,
		}
		move := line.Debit.Sub(line.Credit)
		baseMove := p.Credit.Sub(p.Debit)
		if side == Supplier {
			move = move.Neg()
			baseMove = baseMove.Neg()
		}
		line.Balance = running[p.Currency].Add(move)
		running[p.Currency] = line.Balance
		st.BaseBalance = st.BaseBalance.Add(baseMove)
		line.BaseBalance = st.BaseBalance
		st.Lines = append(st.Lines, line)

		t, ok := totals[p.Currency]
		if !ok {
			t = &StatementTotal{Currency: p.Currency}
			totals[p.Currency] = t
		}
		t.Debit = t.Debit.Add(line.Debit)
		t.Credit = t.Credit.Add(line.Credit)
		t.Balance = line.Balance
	}

	codes := make([]string, 0, len(totals))
	for c := range totals {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		st.Totals = append(st.Totals, *totals[c])
	}
	return st
}

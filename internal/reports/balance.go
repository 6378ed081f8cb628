package reports

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Section names a balance sheet grouping.
type Section string

const (
	SectionAssets      Section = "assets"
	SectionLiabilities Section = "liabilities"
	SectionEquity      Section = "equity"
)

// BalanceSheetLine is one presented amount.
type BalanceSheetLine struct {
	Section Section         `json:"section"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Total   bool            `json:"total,omitempty"`
}

// BalanceSheet is the statement of financial position at a date.
type BalanceSheet struct {
	AsOf             civil.Date      `json:"asOf"`
	Cash             decimal.Decimal `json:"cash"`
	Inventory        decimal.Decimal `json:"inventory"`
	Receivables      decimal.Decimal `json:"receivables"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	Payables         decimal.Decimal `json:"payables"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	Equity           decimal.Decimal `json:"equity"`
	// EquityIsResidual is set because Equity is assets minus liabilities,
	// not an independently posted balance.
	EquityIsResidual bool               `json:"equityIsResidual"`
	Lines            []BalanceSheetLine `json:"lines"`
	Issues           ledger.Issues      `json:"issues,omitempty"`
}

// BalanceSheetInput carries the records a balance sheet reads besides the
// book.
type BalanceSheetInput struct {
	AsOf        civil.Date
	CashAccount string
	Inventory   []model.InventoryItem
	Customers   []model.Counterparty
	Suppliers   []model.Counterparty
}

// BuildBalanceSheet values cash as the signed base amount of every manual
// transaction up to AsOf, whatever account its label classifies it to, plus
// other postings on the cash account such as vouchers. Inventory is valued
// at quantity times cost, receivables and payables from open counterparty
// balances. Foreign amounts are converted at the rate in force on AsOf;
// items with no rate are left out and reported.
func BuildBalanceSheet(book *ledger.Book, n *fx.Normalizer, in BalanceSheetInput) BalanceSheet {
	bs := BalanceSheet{AsOf: in.AsOf, EquityIsResidual: true}

	for _, p := range book.Postings {
		if p.Kind != model.KindTransaction && p.AccountCode != in.CashAccount {
			continue
		}
		if !in.AsOf.IsZero() && p.Date.After(in.AsOf) {
			continue
		}
		bs.Cash = bs.Cash.Add(p.Amount())
	}

	for _, item := range in.Inventory {
		value := item.Quantity.Mul(item.CostPrice)
		if v, ok := bs.convert(n, value, item.Currency, "inventory", item.SKU); ok {
			bs.Inventory = bs.Inventory.Add(v)
		}
	}
	for _, c := range in.Customers {
		if v, ok := bs.convert(n, c.Balance, c.Currency, "customer", c.ID); ok {
			bs.Receivables = bs.Receivables.Add(v)
		}
	}
	for _, s := range in.Suppliers {
		if v, ok := bs.convert(n, s.Balance, s.Currency, "supplier", s.ID); ok {
			bs.Payables = bs.Payables.Add(v)
		}
	}

	bs.TotalAssets = bs.Cash.Add(bs.Inventory).Add(bs.Receivables)
	bs.TotalLiabilities = bs.Payables
	bs.Equity = bs.TotalAssets.Sub(bs.TotalLiabilities)

	bs.Lines = []BalanceSheetLine{
		{Section: SectionAssets, Label: "Cash and banks", Amount: bs.Cash},
		{Section: SectionAssets, Label: "Inventory", Amount: bs.Inventory},
		{Section: SectionAssets, Label: "Accounts receivable", Amount: bs.Receivables},
		{Section: SectionAssets, Label: "Total assets", Amount: bs.TotalAssets, Total: true},
		{Section: SectionLiabilities, Label: "Accounts payable", Amount: bs.Payables},
		{Section: SectionLiabilities, Label: "Total liabilities", Amount: bs.TotalLiabilities, Total: true},
		{Section: SectionEquity, Label: "Equity (assets less liabilities)", Amount: bs.Equity, Total: true},
	}
	return bs
}

func (bs *BalanceSheet) convert(n *fx.Normalizer, amount decimal.Decimal, currency, what, ref string) (decimal.Decimal, bool) {
	v, _, err := n.ToBase(amount, currency, bs.AsOf)
	if err != nil {
		bs.Issues = append(bs.Issues, ledger.Issue{
			Kind:   ledger.MissingExchangeRate,
			Ref:    ref,
			Detail: fmt.Sprintf("%s: %v", what, err),
		})
		return decimal.Zero, false
	}
	return v, true
}

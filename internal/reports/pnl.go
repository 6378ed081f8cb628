package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

var hundred = decimal.NewFromInt(100)

// PnLRow is one month (or the year total) of the profit and loss statement.
type PnLRow struct {
	Month             time.Month      `json:"month,omitempty"` // zero for the total row
	Label             string          `json:"label"`
	Revenue           decimal.Decimal `json:"revenue"`
	COGS              decimal.Decimal `json:"cogs"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	NetProfit         decimal.Decimal `json:"netProfit"`
	// Margin is NetProfit/Revenue as a percentage, zero when there is no
	// revenue.
	Margin decimal.Decimal `json:"margin"`
}

// ProfitAndLoss is a calendar year of monthly results.
type ProfitAndLoss struct {
	Year   int      `json:"year"`
	Months []PnLRow `json:"months"` // always 12, January first
	Total  PnLRow   `json:"total"`
}

// BuildProfitAndLoss buckets sales, purchases and expenses by month of year.
// Revenue is sales net of sales returns, cost of goods is purchases net of
// purchase returns, operating expenses are expenses.
func BuildProfitAndLoss(book *ledger.Book, year int) ProfitAndLoss {
	pnl := ProfitAndLoss{Year: year, Months: make([]PnLRow, 12)}
	for i := range pnl.Months {
		m := time.Month(i + 1)
		pnl.Months[i] = PnLRow{Month: m, Label: m.String()}
	}

	for _, p := range book.Postings {
		if p.Date.Year != year {
			continue
		}
		row := &pnl.Months[p.Date.Month-1]
		switch p.Kind {
		case model.KindSale, model.KindSaleReturn:
			row.Revenue = row.Revenue.Add(p.Credit).Sub(p.Debit)
		case model.KindPurchase, model.KindPurchaseReturn:
			row.COGS = row.COGS.Add(p.Amount())
		case model.KindExpense:
			row.OperatingExpenses = row.OperatingExpenses.Add(p.Amount())
		}
	}

	pnl.Total = PnLRow{Label: "Total"}
	for i := range pnl.Months {
		row := &pnl.Months[i]
		row.finish()
		pnl.Total.Revenue = pnl.Total.Revenue.Add(row.Revenue)
		pnl.Total.COGS = pnl.Total.COGS.Add(row.COGS)
		pnl.Total.OperatingExpenses = pnl.Total.OperatingExpenses.Add(row.OperatingExpenses)
	}
	pnl.Total.finish()
	return pnl
}

func (r *PnLRow) finish() {
	r.GrossProfit = r.Revenue.Sub(r.COGS)
	r.NetProfit = r.GrossProfit.Sub(r.OperatingExpenses)
	r.Margin = Margin(r.NetProfit, r.Revenue)
}

// Margin returns net/revenue*100, or zero when revenue is not positive.
func Margin(net, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(hundred)
}

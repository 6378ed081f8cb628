package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Activity groups cash movements on the cash flow statement.
type Activity string

const (
	Operating Activity = "operating"
	Investing Activity = "investing"
	Financing Activity = "financing"
)

// LineKind tells renderers how to present a cash flow line.
type LineKind string

const (
	LineItem     LineKind = "line"
	LineSubtotal LineKind = "subtotal"
	LineTotal    LineKind = "total"
)

// CashFlowLine is one row of the statement.
type CashFlowLine struct {
	Activity Activity        `json:"activity"`
	Label    string          `json:"label"`
	Kind     LineKind        `json:"kind"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlow is the cash flow statement for a period.
type CashFlow struct {
	Period    Period          `json:"period"`
	Lines     []CashFlowLine  `json:"lines"`
	Operating decimal.Decimal `json:"operating"`
	Investing decimal.Decimal `json:"investing"`
	Financing decimal.Decimal `json:"financing"`
	NetChange decimal.Decimal `json:"netChange"`
}

// BuildCashFlow reports cash movements in period. Operating activity counts
// only records settled in cash: sales in, purchases and expenses out. Cash
// refunds on returns net against their invoice's line.
// Investing and financing activity comes from postings on the accounts
// mapped in activities; a debit to such an account is cash out, a credit is
// cash in. Accounts mapped to Operating are ignored.
func BuildCashFlow(book *ledger.Book, chart *accounts.Service, period Period, activities map[string]Activity) CashFlow {
	sales := CashFlowLine{Activity: Operating, Label: "Cash sales", Kind: LineItem}
	purchases := CashFlowLine{Activity: Operating, Label: "Cash purchases", Kind: LineItem}
	expenses := CashFlowLine{Activity: Operating, Label: "Cash expenses", Kind: LineItem}
	mapped := map[Activity]map[string]*CashFlowLine{
		Investing: {},
		Financing: {},
	}

	for _, p := range book.Postings {
		if !period.Contains(p.Date) {
			continue
		}
		if act, ok := activities[p.AccountCode]; ok && (act == Investing || act == Financing) {
			line, seen := mapped[act][p.AccountCode]
			if !seen {
				line = &CashFlowLine{Activity: act, Label: chart.Name(p.AccountCode), Kind: LineItem}
				mapped[act][p.AccountCode] = line
			}
			line.Inflow = line.Inflow.Add(p.Credit)
			line.Outflow = line.Outflow.Add(p.Debit)
			continue
		}
		if p.Method != model.PaymentCash {
			continue
		}
		switch p.Kind {
		case model.KindSale, model.KindSaleReturn:
			sales.Inflow = sales.Inflow.Add(p.Credit)
			sales.Outflow = sales.Outflow.Add(p.Debit)
		case model.KindPurchase, model.KindPurchaseReturn:
			purchases.Inflow = purchases.Inflow.Add(p.Credit)
			purchases.Outflow = purchases.Outflow.Add(p.Debit)
		case model.KindExpense:
			expenses.Inflow = expenses.Inflow.Add(p.Credit)
			expenses.Outflow = expenses.Outflow.Add(p.Debit)
		}
	}

	cf := CashFlow{Period: period}
	cf.Operating = cf.section(Operating, "Net cash from operating activities", []*CashFlowLine{&sales, &purchases, &expenses})
	cf.Investing = cf.section(Investing, "Net cash from investing activities", sortedLines(mapped[Investing], chart))
	cf.Financing = cf.section(Financing, "Net cash from financing activities", sortedLines(mapped[Financing], chart))

	cf.NetChange = cf.Operating.Add(cf.Investing).Add(cf.Financing)
	cf.Lines = append(cf.Lines, CashFlowLine{Label: "Net change in cash", Kind: LineTotal, Net: cf.NetChange})
	return cf
}

func (cf *CashFlow) section(act Activity, label string, lines []*CashFlowLine) decimal.Decimal {
	sub := CashFlowLine{Activity: act, Label: label, Kind: LineSubtotal}
	for _, l := range lines {
		l.Net = l.Inflow.Sub(l.Outflow)
		sub.Inflow = sub.Inflow.Add(l.Inflow)
		sub.Outflow = sub.Outflow.Add(l.Outflow)
		cf.Lines = append(cf.Lines, *l)
	}
	sub.Net = sub.Inflow.Sub(sub.Outflow)
	cf.Lines = append(cf.Lines, sub)
	return sub.Net
}

func sortedLines(byCode map[string]*CashFlowLine, chart *accounts.Service) []*CashFlowLine {
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return chart.Less(codes[i], codes[j])
	})
	lines := make([]*CashFlowLine, 0, len(codes))
	for _, code := range codes {
		lines = append(lines, byCode[code])
	}
	return lines
}

// Package render prints ledgers and reports as terminal tables. Amounts are
// rounded here, at presentation, to each currency's precision.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reports"
)

// Renderer writes tables for one base currency.
type Renderer struct {
	w    io.Writer
	prec fx.Precision
	base string
}

// New returns a Renderer writing to w.
func New(w io.Writer, prec fx.Precision, base string) *Renderer {
	return &Renderer{w: w, prec: prec, base: base}
}

func (r *Renderer) amt(d decimal.Decimal) string {
	return r.prec.Format(d, r.base)
}

// blank renders zero as empty, for debit/credit columns.
func (r *Renderer) blank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return r.amt(d)
}

func (r *Renderer) title(s string) {
	fmt.Fprintln(r.w, titleStyle.Render(s))
}

func (r *Renderer) note(s string) {
	fmt.Fprintln(r.w, subtitleStyle.Render(s))
}

// Ledger prints entries with their running balance.
func (r *Renderer) Ledger(account string, entries []model.LedgerEntry) {
	if account == "" || account == ledger.AllAccounts {
		r.title("General Ledger")
	} else {
		r.title("Ledger " + account)
	}
	if len(entries) == 0 {
		r.note("No entries.")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.String(), e.Reference, e.Description, e.AccountCode, e.AccountName,
			r.blank(e.Debit), r.blank(e.Credit), r.amt(e.Balance),
		})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Date", "Ref", "Description", "Code", "Account", "Debit", "Credit", "Balance"},
		rows, cols(5, 6, 7), nil,
	))
}

// TrialBalance prints per-account totals and the balance check.
func (r *Renderer) TrialBalance(tb ledger.TrialBalance) {
	r.title("Trial Balance")
	rows := make([][]string, 0, len(tb.Rows)+1)
	for _, row := range tb.Rows {
		rows = append(rows, []string{
			row.Code, row.Name, string(row.Type),
			r.blank(row.Debit), r.blank(row.Credit), r.amt(row.Balance),
		})
	}
	rows = append(rows, []string{"", "Total", "", r.amt(tb.TotalDebit), r.amt(tb.TotalCredit), r.amt(tb.Difference)})
	fmt.Fprintln(r.w, grid(
		[]string{"Code", "Account", "Type", "Debit", "Credit", "Balance"},
		rows, cols(3, 4, 5), cols(len(rows)-1),
	))
	if tb.IsBalanced {
		fmt.Fprintln(r.w, successStyle.Render("Balanced"))
	} else {
		fmt.Fprintln(r.w, errorStyle.Render("Out of balance by "+r.amt(tb.Difference)))
	}
}

// Balances prints per-account, per-currency balances.
func (r *Renderer) Balances(balances []ledger.CurrencyBalance) {
	r.title("Balances by Currency")
	if len(balances) == 0 {
		r.note("No balances.")
		return
	}
	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, []string{
			b.AccountCode, b.AccountName, b.Currency,
			r.prec.Format(b.Balance, b.Currency), r.amt(b.BaseBalance),
		})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Code", "Account", "Currency", "Balance", "Base (" + r.base + ")"},
		rows, cols(3, 4), nil,
	))
}

// ProfitAndLoss prints the monthly P&L with a total row.
func (r *Renderer) ProfitAndLoss(p reports.ProfitAndLoss) {
	r.title(fmt.Sprintf("Profit & Loss %d", p.Year))
	all := append(append([]reports.PnLRow{}, p.Months...), p.Total)
	rows := make([][]string, 0, len(all))
	for _, m := range all {
		rows = append(rows, []string{
			m.Label, r.amt(m.Revenue), r.amt(m.COGS), r.amt(m.GrossProfit),
			r.amt(m.OperatingExpenses), r.amt(m.NetProfit), m.Margin.StringFixed(1) + "%",
		})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Month", "Revenue", "COGS", "Gross Profit", "Expenses", "Net Profit", "Margin"},
		rows, cols(1, 2, 3, 4, 5, 6), cols(len(rows)-1),
	))
}

// VAT prints the monthly VAT return with a total row.
func (r *Renderer) VAT(v reports.VATReturn) {
	r.title(fmt.Sprintf("VAT Return %d", v.Year))
	all := append(append([]reports.VATRow{}, v.Months...), v.Total)
	rows := make([][]string, 0, len(all))
	for _, m := range all {
		rows = append(rows, []string{
			m.Label, r.amt(m.TaxableSales), r.amt(m.OutputVAT),
			r.amt(m.TaxablePurchases), r.amt(m.InputVAT), r.amt(m.NetVAT), string(m.Status),
		})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Month", "Taxable Sales", "Output VAT", "Taxable Purchases", "Input VAT", "Net VAT", "Status"},
		rows, cols(1, 2, 3, 4, 5), cols(len(rows)-1),
	))
}

// CashFlow prints the statement of cash flows.
func (r *Renderer) CashFlow(cf reports.CashFlow) {
	r.title(fmt.Sprintf("Cash Flow %s to %s", cf.Period.From, cf.Period.To))
	rows := make([][]string, 0, len(cf.Lines))
	bold := map[int]bool{}
	for i, l := range cf.Lines {
		if l.Kind != reports.LineItem {
			bold[i] = true
		}
		rows = append(rows, []string{string(l.Activity), l.Label, r.amt(l.Inflow), r.amt(l.Outflow), r.amt(l.Net)})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Activity", "Line", "Inflow", "Outflow", "Net"},
		rows, cols(2, 3, 4), bold,
	))
}

// BalanceSheet prints the statement of financial position.
func (r *Renderer) BalanceSheet(bs reports.BalanceSheet) {
	r.title("Balance Sheet as of " + bs.AsOf.String())
	rows := make([][]string, 0, len(bs.Lines))
	bold := map[int]bool{}
	for i, l := range bs.Lines {
		if l.Total {
			bold[i] = true
		}
		rows = append(rows, []string{string(l.Section), l.Label, r.amt(l.Amount)})
	}
	fmt.Fprintln(r.w, grid([]string{"Section", "Line", "Amount"}, rows, cols(2), bold))
	if bs.EquityIsResidual {
		r.note("Equity is the residual of assets less liabilities.")
	}
	r.Issues(bs.Issues)
}

// Statement prints a counterparty's movements with per-currency running
// balances and closing totals.
func (r *Renderer) Statement(st reports.Statement) {
	title := fmt.Sprintf("Statement %s %s", st.Side, st.Party)
	if st.Name != "" {
		title += " - " + st.Name
	}
	r.title(title)
	if len(st.Lines) == 0 {
		r.note("No movements.")
		return
	}
	rows := make([][]string, 0, len(st.Lines))
	for _, l := range st.Lines {
		rows = append(rows, []string{
			l.Date.String(), l.Ref, l.Description, l.Currency,
			r.blankIn(l.Debit, l.Currency), r.blankIn(l.Credit, l.Currency), r.prec.Format(l.Balance, l.Currency),
		})
	}
	fmt.Fprintln(r.w, grid(
		[]string{"Date", "Ref", "Description", "Currency", "Debit", "Credit", "Balance"},
		rows, cols(4, 5, 6), nil,
	))

	totals := make([][]string, 0, len(st.Totals))
	for _, t := range st.Totals {
		totals = append(totals, []string{
			t.Currency, r.prec.Format(t.Debit, t.Currency), r.prec.Format(t.Credit, t.Currency), r.prec.Format(t.Balance, t.Currency),
		})
	}
	fmt.Fprintln(r.w, grid([]string{"Currency", "Debit", "Credit", "Balance"}, totals, cols(1, 2, 3), nil))
	fmt.Fprintf(r.w, "Balance in %s: %s\n", r.base, r.amt(st.BaseBalance))
}

func (r *Renderer) blankIn(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return ""
	}
	return r.prec.Format(d, currency)
}

// FxGainLoss prints realized and unrealized exchange differences.
func (r *Renderer) FxGainLoss(f reports.FxGainLoss) {
	r.title("FX Gain/Loss as of " + f.AsOf.String())
	if len(f.Lines) == 0 {
		r.note("No foreign-currency sales.")
	} else {
		rows := make([][]string, 0, len(f.Lines))
		for _, l := range f.Lines {
			state := "unrealized"
			if l.Realized {
				state = "realized"
			}
			rows = append(rows, []string{
				l.Date.String(), l.Ref, l.Currency, r.prec.Format(l.Amount, l.Currency),
				l.BookedRate.String(), l.CurrentRate.String(), r.amt(l.GainLoss), state,
			})
		}
		fmt.Fprintln(r.w, grid(
			[]string{"Date", "Ref", "Currency", "Amount", "Booked", "Current", "Gain/Loss", "State"},
			rows, cols(3, 4, 5, 6), nil,
		))
	}
	fmt.Fprintf(r.w, "Realized %s  Unrealized %s  Net %s\n", r.amt(f.Realized), r.amt(f.Unrealized), r.amt(f.Net))
	r.Issues(f.Issues)
}

// Issues prints data-quality issues, if any.
func (r *Renderer) Issues(issues ledger.Issues) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.w, warnStyle.Render(strconv.Itoa(len(issues))+" issue(s)"))
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, []string{string(i.Kind), string(i.EventKind), i.Ref, i.Detail})
	}
	fmt.Fprintln(r.w, grid([]string{"Kind", "Event", "Ref", "Detail"}, rows, nil, nil))
}

// Violations prints structural validation failures.
func (r *Renderer) Violations(errs []ledger.ValidationError) {
	if len(errs) == 0 {
		fmt.Fprintln(r.w, successStyle.Render("All postings valid"))
		return
	}
	fmt.Fprintln(r.w, errorStyle.Render(strconv.Itoa(len(errs))+" violation(s)"))
	for _, e := range errs {
		fmt.Fprintln(r.w, "  "+e.Error())
	}
}

// RateAge prints how fresh the exchange-rate series is.
func (r *Renderer) RateAge(age fx.Age) {
	switch {
	case !age.HasRates:
		fmt.Fprintln(r.w, warnStyle.Render("No exchange rates recorded"))
	case age.Stale:
		fmt.Fprintln(r.w, warnStyle.Render(fmt.Sprintf("Exchange rates are stale: last update %s (%d days ago)", age.LastUpdate, age.DaysOld)))
	default:
		r.note(fmt.Sprintf("Exchange rates updated %s", age.LastUpdate))
	}
}

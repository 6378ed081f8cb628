package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// VATStatus is the direction of a VAT position.
type VATStatus string

const (
	VATPayable    VATStatus = "payable"
	VATRefundable VATStatus = "refundable"
	VATZero       VATStatus = "zero"
)

// StatusOf classifies a net VAT amount.
func StatusOf(net decimal.Decimal) VATStatus {
	switch {
	case net.IsPositive():
		return VATPayable
	case net.IsNegative():
		return VATRefundable
	}
	return VATZero
}

// VATRow is one month (or the year total) of the VAT return.
type VATRow struct {
	Month            time.Month      `json:"month,omitempty"`
	Label            string          `json:"label"`
	TaxableSales     decimal.Decimal `json:"taxableSales"`
	OutputVAT        decimal.Decimal `json:"outputVat"`
	TaxablePurchases decimal.Decimal `json:"taxablePurchases"`
	InputVAT         decimal.Decimal `json:"inputVat"`
	NetVAT           decimal.Decimal `json:"netVat"`
	Status           VATStatus       `json:"status"`
}

// VATReturn is a calendar year of monthly VAT positions.
type VATReturn struct {
	Year   int      `json:"year"`
	Months []VATRow `json:"months"` // always 12, January first
	Total  VATRow   `json:"total"`
}

// BuildVAT sums output VAT on sales and input VAT on purchases per month.
// Returns reduce the taxable amount and VAT of their side. Net VAT is output
// minus input.
func BuildVAT(book *ledger.Book, year int) VATReturn {
	vr := VATReturn{Year: year, Months: make([]VATRow, 12)}
	for i := range vr.Months {
		m := time.Month(i + 1)
		vr.Months[i] = VATRow{Month: m, Label: m.String()}
	}

	for _, p := range book.Postings {
		if p.Date.Year != year {
			continue
		}
		row := &vr.Months[p.Date.Month-1]
		switch p.Kind {
		case model.KindSale:
			row.TaxableSales = row.TaxableSales.Add(p.Taxable)
			row.OutputVAT = row.OutputVAT.Add(p.Tax)
		case model.KindPurchase:
			row.TaxablePurchases = row.TaxablePurchases.Add(p.Taxable)
			row.InputVAT = row.InputVAT.Add(p.Tax)
		case model.KindSaleReturn:
			row.TaxableSales = row.TaxableSales.Sub(p.Taxable)
			row.OutputVAT = row.OutputVAT.Sub(p.Tax)
		case model.KindPurchaseReturn:
			row.TaxablePurchases = row.TaxablePurchases.Sub(p.Taxable)
			row.InputVAT = row.InputVAT.Sub(p.Tax)
		}
	}

	vr.Total = VATRow{Label: "Total"}
	for i := range vr.Months {
		row := &vr.Months[i]
		row.finish()
		vr.Total.TaxableSales = vr.Total.TaxableSales.Add(row.TaxableSales)
		vr.Total.OutputVAT = vr.Total.OutputVAT.Add(row.OutputVAT)
		vr.Total.TaxablePurchases = vr.Total.TaxablePurchases.Add(row.TaxablePurchases)
		vr.Total.InputVAT = vr.Total.InputVAT.Add(row.InputVAT)
	}
	vr.Total.finish()
	return vr
}

func (r *VATRow) finish() {
	r.NetVAT = r.OutputVAT.Sub(r.InputVAT)
	r.Status = StatusOf(r.NetVAT)
}

// Package ledger derives postings, the general ledger and the trial balance
// from a snapshot of business events.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/classify"
	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/model"
)

// ErrNilSnapshot is returned when Post is called without input.
var ErrNilSnapshot = errors.New("nil snapshot")

// Posting is one classified, base-currency line derived from an event.
type Posting struct {
	Seq         int             `json:"seq"` // merge order
	Kind        model.EventKind `json:"kind"`
	Ref         string          `json:"ref"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`

	Currency   string          `json:"currency"`
	Rate       decimal.Decimal `json:"rate"`
	OrigDebit  decimal.Decimal `json:"origDebit"`
	OrigCredit decimal.Decimal `json:"origCredit"`

	// Tax split in base currency, for sales and purchases.
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`

	// Party is the customer or supplier id of invoices, vouchers and returns.
	Party string `json:"party,omitempty"`

	Method       model.PaymentMethod `json:"paymentMethod,omitempty"`
	Status       string              `json:"status,omitempty"`
	Unclassified bool                `json:"unclassified,omitempty"`
}

// Amount returns Debit - Credit in the base currency.
func (p Posting) Amount() decimal.Decimal {
	return p.Debit.Sub(p.Credit)
}

// OrigAmount returns Debit - Credit in the event's own currency.
func (p Posting) OrigAmount() decimal.Decimal {
	return p.OrigDebit.Sub(p.OrigCredit)
}

// Book is the result of one posting pass.
type Book struct {
	Base     string    `json:"base"`
	Postings []Posting `json:"postings"` // merge order
	Issues   Issues    `json:"issues"`
}

// Builder turns snapshots into books.
type Builder struct {
	classifier *classify.Classifier
	normalizer *fx.Normalizer
}

// NewBuilder returns a Builder.
func NewBuilder(classifier *classify.Classifier, normalizer *fx.Normalizer) *Builder {
	return &Builder{classifier: classifier, normalizer: normalizer}
}

// Classifier returns the builder's classifier.
func (b *Builder) Classifier() *classify.Classifier {
	return b.classifier
}

// Normalizer returns the builder's normalizer.
func (b *Builder) Normalizer() *fx.Normalizer {
	return b.normalizer
}

// Post classifies and normalizes every event in snap. Data problems are
// collected on the book; only a nil snapshot is an error.
func (b *Builder) Post(snap *model.Snapshot) (*Book, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	book := &Book{Base: b.normalizer.Base()}
	for _, r := range b.normalizer.Book().Rejected() {
		book.Issues = append(book.Issues, Issue{
			Kind:   RejectedRate,
			Ref:    rateRef(r.Record),
			Detail: r.Reason,
		})
	}

	// Invoices come before returns in merge order, so a return can look up
	// the rate its invoice was booked at.
	invoices := make(map[invoiceKey]Posting)
	for seq, e := range snap.Events() {
		p, issue, ok := b.post(seq, e, invoices)
		if issue != nil {
			book.Issues = append(book.Issues, *issue)
		}
		if !ok {
			continue
		}
		book.Postings = append(book.Postings, p)
		if p.Kind == model.KindSale || p.Kind == model.KindPurchase {
			invoices[invoiceKey{p.Kind, p.Ref}] = p
		}
	}
	return book, nil
}

type invoiceKey struct {
	kind model.EventKind
	ref  string
}

// originalInvoice returns the invoice a return reverses, if it was posted.
func originalInvoice(e model.Event, invoices map[invoiceKey]Posting) (Posting, bool) {
	var key invoiceKey
	switch ev := e.(type) {
	case model.SaleReturn:
		key = invoiceKey{model.KindSale, ev.OriginalSaleID}
	case model.PurchaseReturn:
		key = invoiceKey{model.KindPurchase, ev.OriginalPurchaseID}
	default:
		return Posting{}, false
	}
	if key.ref == "" {
		return Posting{}, false
	}
	p, ok := invoices[key]
	return p, ok
}

func (b *Builder) post(seq int, e model.Event, invoices map[invoiceKey]Posting) (Posting, *Issue, bool) {
	issue := func(kind IssueKind, detail string) *Issue {
		return &Issue{Kind: kind, EventKind: e.Kind(), Ref: e.Ref(), Detail: detail}
	}

	if strings.EqualFold(statusOf(e), model.StatusCancelled) {
		return Posting{}, issue(CancelledEvent, "record is cancelled"), false
	}

	d, err := model.ParseDate(e.RawDate())
	if err != nil {
		return Posting{}, issue(MalformedDate, err.Error()), false
	}

	cl := b.classifier.Classify(e)
	currency := strings.ToUpper(strings.TrimSpace(e.CurrencyCode()))
	if currency == "" {
		currency = b.normalizer.Base()
	}

	var amount, rate decimal.Decimal
	if inv, ok := originalInvoice(e, invoices); ok && inv.Currency == currency {
		// A return reverses its invoice at the rate the invoice was booked at.
		rate = inv.Rate
		amount = cl.Amount().Mul(rate)
	} else {
		amount, rate, err = b.normalizer.ToBaseOr(cl.Amount(), currency, d, recordedRate(e))
		if err != nil {
			return Posting{}, issue(MissingExchangeRate, err.Error()), false
		}
	}

	p := Posting{
		Seq:          seq,
		Kind:         e.Kind(),
		Ref:          e.Ref(),
		Date:         d,
		Description:  e.Describe(),
		AccountCode:  cl.Code,
		AccountName:  cl.Name,
		Currency:     currency,
		Rate:         rate,
		OrigDebit:    cl.Debit,
		OrigCredit:   cl.Credit,
		Party:        partyOf(e),
		Method:       methodOf(e),
		Status:       statusOf(e),
		Unclassified: cl.Unclassified,
	}
	if amount.IsNegative() {
		p.Credit = amount.Neg()
	} else {
		p.Debit = amount
	}

	switch ev := e.(type) {
	case model.Sale:
		p.Taxable = ev.SubTotal.Mul(rate)
		p.Tax = ev.TaxTotal.Mul(rate)
	case model.Purchase:
		p.Taxable = ev.SubTotal.Mul(rate)
		p.Tax = ev.TaxTotal.Mul(rate)
	case model.Expense:
		p.Taxable = ev.Amount.Mul(rate)
		p.Tax = ev.Tax.Mul(rate)
	case model.SaleReturn:
		p.Taxable = ev.SubTotal.Mul(rate)
		p.Tax = ev.TaxTotal.Mul(rate)
	case model.PurchaseReturn:
		p.Taxable = ev.SubTotal.Mul(rate)
		p.Tax = ev.TaxTotal.Mul(rate)
	}

	if cl.Unclassified {
		return p, issue(UnclassifiableEvent, fmt.Sprintf("posted to %s", cl.Code)), true
	}
	return p, nil, true
}

// recordedRate is the rate captured on the record at entry time, if any.
func recordedRate(e model.Event) decimal.Decimal {
	switch ev := e.(type) {
	case model.Sale:
		return ev.ExchangeRate
	case model.ReceiptVoucher:
		return ev.ExchangeRate
	case model.PaymentVoucher:
		return ev.ExchangeRate
	case model.SaleReturn:
		return ev.ExchangeRate
	case model.PurchaseReturn:
		return ev.ExchangeRate
	}
	return decimal.Zero
}

func partyOf(e model.Event) string {
	switch ev := e.(type) {
	case model.Sale:
		return ev.CustomerID
	case model.Purchase:
		return ev.SupplierID
	case model.ReceiptVoucher:
		return ev.CustomerID
	case model.PaymentVoucher:
		return ev.SupplierID
	case model.SaleReturn:
		return ev.CustomerID
	case model.PurchaseReturn:
		return ev.SupplierID
	}
	return ""
}

func methodOf(e model.Event) model.PaymentMethod {
	switch ev := e.(type) {
	case model.Sale:
		return ev.PaymentMethod
	case model.Purchase:
		return ev.PaymentMethod
	case model.Expense:
		return ev.PaymentMethod
	case model.ReceiptVoucher:
		return ev.PaymentMethod
	case model.PaymentVoucher:
		return ev.PaymentMethod
	case model.SaleReturn:
		return ev.RefundMethod
	case model.PurchaseReturn:
		return ev.RefundMethod
	}
	return ""
}

func statusOf(e model.Event) string {
	switch ev := e.(type) {
	case model.Sale:
		return ev.Status
	case model.Purchase:
		return ev.Status
	case model.Expense:
		return ev.Status
	case model.ReceiptVoucher:
		return ev.Status
	case model.PaymentVoucher:
		return ev.Status
	case model.SaleReturn:
		return ev.Status
	case model.PurchaseReturn:
		return ev.Status
	}
	return ""
}

func rateRef(r model.ExchangeRate) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%s/%s@%s", r.From, r.To, r.Date)
}

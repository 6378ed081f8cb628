package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EventKind names one variant of the business event union.
type EventKind string

const (
	KindTransaction    EventKind = "transaction"
	KindSale           EventKind = "sale"
	KindPurchase       EventKind = "purchase"
	KindExpense        EventKind = "expense"
	KindReceiptVoucher EventKind = "receipt_voucher"
	KindPaymentVoucher EventKind = "payment_voucher"
)

// PaymentMethod is how a sale, purchase, expense or voucher was settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCredit   PaymentMethod = "credit"
	PaymentBank     PaymentMethod = "bank"
	PaymentCheck    PaymentMethod = "check"
	PaymentTransfer PaymentMethod = "transfer"
)

// StatusCancelled marks a record that should not reach the ledger.
const StatusCancelled = "cancelled"

// Event is implemented by every business event variant.
type Event interface {
	Kind() EventKind
	Ref() string
	RawDate() string
	CurrencyCode() string
	Describe() string
}

// Transaction is a manual cash movement. Amount is signed: positive is a
// debit, negative a credit. Label selects the account.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Label       string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
}

func (t Transaction) Kind() EventKind      { return KindTransaction }
func (t Transaction) Ref() string          { return t.ID }
func (t Transaction) RawDate() string      { return t.Date }
func (t Transaction) CurrencyCode() string { return t.Currency }
func (t Transaction) Describe() string     { return t.Description }

// Sale is a sales invoice.
type Sale struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	CustomerID    string          `json:"customerId,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Discount      decimal.Decimal `json:"discount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Currency      string          `json:"currency,omitempty"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // rate recorded at entry, zero if unknown
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
}

func (s Sale) Kind() EventKind      { return KindSale }
func (s Sale) Ref() string          { return s.ID }
func (s Sale) RawDate() string      { return s.Date }
func (s Sale) CurrencyCode() string { return s.Currency }
func (s Sale) Describe() string {
	if s.CustomerName == "" {
		return fmt.Sprintf("Sale %s", s.InvoiceNumber)
	}
	return fmt.Sprintf("Sale %s - %s", s.InvoiceNumber, s.CustomerName)
}

// Purchase is a supplier invoice.
type Purchase struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	SupplierID    string          `json:"supplierId,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Currency      string          `json:"currency,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
}

func (p Purchase) Kind() EventKind      { return KindPurchase }
func (p Purchase) Ref() string          { return p.ID }
func (p Purchase) RawDate() string      { return p.Date }
func (p Purchase) CurrencyCode() string { return p.Currency }
func (p Purchase) Describe() string {
	if p.SupplierName == "" {
		return fmt.Sprintf("Purchase %s", p.InvoiceNumber)
	}
	return fmt.Sprintf("Purchase %s - %s", p.InvoiceNumber, p.SupplierName)
}

// Expense is an operating expense record.
type Expense struct {
	ID            string          `json:"id"`
	ExpenseNumber string          `json:"expenseNumber"`
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
}

func (e Expense) Kind() EventKind      { return KindExpense }
func (e Expense) Ref() string          { return e.ID }
func (e Expense) RawDate() string      { return e.Date }
func (e Expense) CurrencyCode() string { return e.Currency }
func (e Expense) Describe() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("Expense %s", e.Category)
}

// ReceiptVoucher records cash received from a customer.
type ReceiptVoucher struct {
	ID            string          `json:"id"`
	VoucherNumber string          `json:"voucherNumber"`
	Date          string          `json:"date"`
	CustomerID    string          `json:"customerId,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
}

func (v ReceiptVoucher) Kind() EventKind      { return KindReceiptVoucher }
func (v ReceiptVoucher) Ref() string          { return v.ID }
func (v ReceiptVoucher) RawDate() string      { return v.Date }
func (v ReceiptVoucher) CurrencyCode() string { return v.Currency }
func (v ReceiptVoucher) Describe() string {
	return fmt.Sprintf("Receipt %s - %s", v.VoucherNumber, v.CustomerName)
}

// PaymentVoucher records cash paid to a supplier.
type PaymentVoucher struct {
	ID            string          `json:"id"`
	VoucherNumber string          `json:"voucherNumber"`
	Date          string          `json:"date"`
	SupplierID    string          `json:"supplierId,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
}

func (v PaymentVoucher) Kind() EventKind      { return KindPaymentVoucher }
func (v PaymentVoucher) Ref() string          { return v.ID }
func (v PaymentVoucher) RawDate() string      { return v.Date }
func (v PaymentVoucher) CurrencyCode() string { return v.Currency }
func (v PaymentVoucher) Describe() string {
	return fmt.Sprintf("Payment %s - %s", v.VoucherNumber, v.SupplierName)
}

package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	KindSaleReturn     EventKind = "sale_return"
	KindPurchaseReturn EventKind = "purchase_return"
)

// SaleReturn is a credit note against a sales invoice.
type SaleReturn struct {
	ID                    string          `json:"id"`
	ReturnNumber          string          `json:"returnNumber"`
	OriginalSaleID        string          `json:"originalSaleId,omitempty"`
	OriginalInvoiceNumber string          `json:"originalInvoiceNumber,omitempty"`
	Date                  string          `json:"date"`
	CustomerID            string          `json:"customerId,omitempty"`
	CustomerName          string          `json:"customerName,omitempty"`
	SubTotal              decimal.Decimal `json:"subTotal"`
	TaxTotal              decimal.Decimal `json:"taxTotal"`
	GrandTotal            decimal.Decimal `json:"grandTotal"`
	Reason                string          `json:"reason,omitempty"`
	Currency              string          `json:"currency,omitempty"`
	ExchangeRate          decimal.Decimal `json:"exchangeRate"`
	RefundMethod          PaymentMethod   `json:"refundMethod"`
	Status                string          `json:"status"`
}

func (r SaleReturn) Kind() EventKind      { return KindSaleReturn }
func (r SaleReturn) Ref() string          { return r.ID }
func (r SaleReturn) RawDate() string      { return r.Date }
func (r SaleReturn) CurrencyCode() string { return r.Currency }
func (r SaleReturn) Describe() string {
	if r.OriginalInvoiceNumber == "" {
		return fmt.Sprintf("Sales return %s", r.ReturnNumber)
	}
	return fmt.Sprintf("Sales return %s on %s", r.ReturnNumber, r.OriginalInvoiceNumber)
}

// PurchaseReturn is a debit note against a supplier invoice.
type PurchaseReturn struct {
	ID                    string          `json:"id"`
	ReturnNumber          string          `json:"returnNumber"`
	OriginalPurchaseID    string          `json:"originalPurchaseId,omitempty"`
	OriginalInvoiceNumber string          `json:"originalInvoiceNumber,omitempty"`
	Date                  string          `json:"date"`
	SupplierID            string          `json:"supplierId,omitempty"`
	SupplierName          string          `json:"supplierName,omitempty"`
	SubTotal              decimal.Decimal `json:"subTotal"`
	TaxTotal              decimal.Decimal `json:"taxTotal"`
	GrandTotal            decimal.Decimal `json:"grandTotal"`
	Reason                string          `json:"reason,omitempty"`
	Currency              string          `json:"currency,omitempty"`
	ExchangeRate          decimal.Decimal `json:"exchangeRate"`
	RefundMethod          PaymentMethod   `json:"refundMethod"`
	Status                string          `json:"status"`
}

func (r PurchaseReturn) Kind() EventKind      { return KindPurchaseReturn }
func (r PurchaseReturn) Ref() string          { return r.ID }
func (r PurchaseReturn) RawDate() string      { return r.Date }
func (r PurchaseReturn) CurrencyCode() string { return r.Currency }
func (r PurchaseReturn) Describe() string {
	if r.OriginalInvoiceNumber == "" {
		return fmt.Sprintf("Purchase return %s", r.ReturnNumber)
	}
	return fmt.Sprintf("Purchase return %s on %s", r.ReturnNumber, r.OriginalInvoiceNumber)
}

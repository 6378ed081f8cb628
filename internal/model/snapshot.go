package model

import "github.com/shopspring/decimal"

// ExchangeRate is one record of the append-only rate series.
// Rate converts one unit of From into To.
type ExchangeRate struct {
	ID   string          `json:"id"`
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date"`
	Note string          `json:"note,omitempty"`
}

// InventoryItem is a stock line valued at cost.
type InventoryItem struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Currency  string          `json:"currency,omitempty"`
}

// Counterparty is a customer or supplier with its open balance.
type Counterparty struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency,omitempty"`
}

// Snapshot is the immutable input to one derivation pass.
type Snapshot struct {
	Transactions    []Transaction    `json:"transactions"`
	Sales           []Sale           `json:"sales"`
	Purchases       []Purchase       `json:"purchases"`
	Expenses        []Expense        `json:"expenses"`
	Receipts        []ReceiptVoucher `json:"receiptVouchers"`
	Payments        []PaymentVoucher `json:"paymentVouchers"`
	SaleReturns     []SaleReturn     `json:"saleReturns"`
	PurchaseReturns []PurchaseReturn `json:"purchaseReturns"`
	Rates           []ExchangeRate   `json:"exchangeRates"`
	Inventory       []InventoryItem  `json:"inventory"`
	Customers       []Counterparty   `json:"customers"`
	Suppliers       []Counterparty   `json:"suppliers"`
}

// Events returns every business event in merge order: transactions, sales,
// purchases, expenses, receipt vouchers, payment vouchers, sales returns,
// then purchase returns. Within each collection the stored order is kept.
func (s *Snapshot) Events() []Event {
	n := len(s.Transactions) + len(s.Sales) + len(s.Purchases) + len(s.Expenses) + len(s.Receipts) + len(s.Payments) +
		len(s.SaleReturns) + len(s.PurchaseReturns)
	events := make([]Event, 0, n)
	for _, t := range s.Transactions {
		events = append(events, t)
	}
	for _, v := range s.Sales {
		events = append(events, v)
	}
	for _, v := range s.Purchases {
		events = append(events, v)
	}
	for _, v := range s.Expenses {
		events = append(events, v)
	}
	for _, v := range s.Receipts {
		events = append(events, v)
	}
	for _, v := range s.Payments {
		events = append(events, v)
	}
	for _, v := range s.SaleReturns {
		events = append(events, v)
	}
	for _, v := range s.PurchaseReturns {
		events = append(events, v)
	}
	return events
}

// Merge folds o into s. A record whose id is already present replaces the
// existing one in place; other records are appended in o's order.
func (s *Snapshot) Merge(o *Snapshot) {
	s.Transactions = mergeByID(s.Transactions, o.Transactions, func(v Transaction) string { return v.ID })
	s.Sales = mergeByID(s.Sales, o.Sales, func(v Sale) string { return v.ID })
	s.Purchases = mergeByID(s.Purchases, o.Purchases, func(v Purchase) string { return v.ID })
	s.Expenses = mergeByID(s.Expenses, o.Expenses, func(v Expense) string { return v.ID })
	s.Receipts = mergeByID(s.Receipts, o.Receipts, func(v ReceiptVoucher) string { return v.ID })
	s.Payments = mergeByID(s.Payments, o.Payments, func(v PaymentVoucher) string { return v.ID })
	s.SaleReturns = mergeByID(s.SaleReturns, o.SaleReturns, func(v SaleReturn) string { return v.ID })
	s.PurchaseReturns = mergeByID(s.PurchaseReturns, o.PurchaseReturns, func(v PurchaseReturn) string { return v.ID })
	s.Rates = mergeByID(s.Rates, o.Rates, func(v ExchangeRate) string { return v.ID })
	s.Inventory = mergeByID(s.Inventory, o.Inventory, func(v InventoryItem) string { return v.SKU })
	s.Customers = mergeByID(s.Customers, o.Customers, func(v Counterparty) string { return v.ID })
	s.Suppliers = mergeByID(s.Suppliers, o.Suppliers, func(v Counterparty) string { return v.ID })
}

func mergeByID[T any](dst, src []T, id func(T) string) []T {
	index := make(map[string]int, len(dst))
	for i, v := range dst {
		if k := id(v); k != "" {
			index[k] = i
		}
	}
	for _, v := range src {
		k := id(v)
		if i, ok := index[k]; ok && k != "" {
			dst[i] = v
			continue
		}
		if k != "" {
			index[k] = len(dst)
		}
		dst = append(dst, v)
	}
	return dst
}

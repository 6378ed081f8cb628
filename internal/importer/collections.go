package importer

import (
	"github.com/cleared-dev/tally/internal/model"
)

var (
	transactionsHeader = []string{"id", "date", "description", "account", "amount", "currency"}
	salesHeader        = []string{
		"id", "invoice_number", "date", "customer_id", "customer_name",
		"sub_total", "tax_total", "discount", "grand_total",
		"currency", "exchange_rate", "payment_method", "status",
	}
	purchasesHeader = []string{
		"id", "invoice_number", "date", "supplier_id", "supplier_name",
		"sub_total", "tax_total", "grand_total",
		"currency", "payment_method", "status",
	}
	expensesHeader = []string{
		"id", "expense_number", "date", "category", "description",
		"amount", "tax", "total", "currency", "payment_method", "status",
	}
	receiptsHeader        = voucherHeader("customer")
	paymentsHeader        = voucherHeader("supplier")
	saleReturnsHeader     = returnHeader("sale", "customer")
	purchaseReturnsHeader = returnHeader("purchase", "supplier")
	ratesHeader           = []string{"id", "from", "to", "rate", "date", "note"}
	inventoryHeader       = []string{"sku", "name", "quantity", "cost_price", "currency"}
	counterpartyHeader    = []string{"id", "name", "balance", "currency"}
)

var transactionsTable = &table[model.Transaction]{
	name:   "transactions",
	header: transactionsHeader,
	decode: func(rec []string) (model.Transaction, error) {
		f := &fields{rec: rec, header: transactionsHeader}
		v := model.Transaction{
			ID:          f.str(0),
			Date:        f.str(1),
			Description: f.str(2),
			Label:       f.str(3),
			Amount:      f.dec(4),
			Currency:    f.str(5),
		}
		return v, f.err
	},
	encode: func(v model.Transaction) []string {
		return []string{v.ID, v.Date, v.Description, v.Label, formatDec(v.Amount), v.Currency}
	},
	items:  func(s *model.Snapshot) *[]model.Transaction { return &s.Transactions },
	ref:    func(v model.Transaction) string { return v.ID },
	setRef: func(v *model.Transaction, ref string) { v.ID = ref },
}

var salesTable = &table[model.Sale]{
	name:   "sales",
	header: salesHeader,
	decode: func(rec []string) (model.Sale, error) {
		f := &fields{rec: rec, header: salesHeader}
		v := model.Sale{
			ID:            f.str(0),
			InvoiceNumber: f.str(1),
			Date:          f.str(2),
			CustomerID:    f.str(3),
			CustomerName:  f.str(4),
			SubTotal:      f.dec(5),
			TaxTotal:      f.dec(6),
			Discount:      f.dec(7),
			GrandTotal:    f.dec(8),
			Currency:      f.str(9),
			ExchangeRate:  f.dec(10),
			PaymentMethod: model.PaymentMethod(f.str(11)),
			Status:        f.str(12),
		}
		return v, f.err
	},
	encode: func(v model.Sale) []string {
		return []string{
			v.ID, v.InvoiceNumber, v.Date, v.CustomerID, v.CustomerName,
			formatDec(v.SubTotal), formatDec(v.TaxTotal), formatDec(v.Discount), formatDec(v.GrandTotal),
			v.Currency, formatDec(v.ExchangeRate), string(v.PaymentMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.Sale { return &s.Sales },
	ref:    func(v model.Sale) string { return v.ID },
	setRef: func(v *model.Sale, ref string) { v.ID = ref },
}

var purchasesTable = &table[model.Purchase]{
	name:   "purchases",
	header: purchasesHeader,
	decode: func(rec []string) (model.Purchase, error) {
		f := &fields{rec: rec, header: purchasesHeader}
		v := model.Purchase{
			ID:            f.str(0),
			InvoiceNumber: f.str(1),
			Date:          f.str(2),
			SupplierID:    f.str(3),
			SupplierName:  f.str(4),
			SubTotal:      f.dec(5),
			TaxTotal:      f.dec(6),
			GrandTotal:    f.dec(7),
			Currency:      f.str(8),
			PaymentMethod: model.PaymentMethod(f.str(9)),
			Status:        f.str(10),
		}
		return v, f.err
	},
	encode: func(v model.Purchase) []string {
		return []string{
			v.ID, v.InvoiceNumber, v.Date, v.SupplierID, v.SupplierName,
			formatDec(v.SubTotal), formatDec(v.TaxTotal), formatDec(v.GrandTotal),
			v.Currency, string(v.PaymentMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.Purchase { return &s.Purchases },
	ref:    func(v model.Purchase) string { return v.ID },
	setRef: func(v *model.Purchase, ref string) { v.ID = ref },
}

var expensesTable = &table[model.Expense]{
	name:   "expenses",
	header: expensesHeader,
	decode: func(rec []string) (model.Expense, error) {
		f := &fields{rec: rec, header: expensesHeader}
		v := model.Expense{
			ID:            f.str(0),
			ExpenseNumber: f.str(1),
			Date:          f.str(2),
			Category:      f.str(3),
			Description:   f.str(4),
			Amount:        f.dec(5),
			Tax:           f.dec(6),
			Total:         f.dec(7),
			Currency:      f.str(8),
			PaymentMethod: model.PaymentMethod(f.str(9)),
			Status:        f.str(10),
		}
		return v, f.err
	},
	encode: func(v model.Expense) []string {
		return []string{
			v.ID, v.ExpenseNumber, v.Date, v.Category, v.Description,
			formatDec(v.Amount), formatDec(v.Tax), formatDec(v.Total),
			v.Currency, string(v.PaymentMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.Expense { return &s.Expenses },
	ref:    func(v model.Expense) string { return v.ID },
	setRef: func(v *model.Expense, ref string) { v.ID = ref },
}

func voucherHeader(party string) []string {
	return []string{
		"id", "voucher_number", "date", party + "_id", party + "_name",
		"amount", "currency", "exchange_rate", "payment_method", "status",
	}
}

var receiptsTable = &table[model.ReceiptVoucher]{
	name:   "receipt_vouchers",
	header: receiptsHeader,
	decode: func(rec []string) (model.ReceiptVoucher, error) {
		f := &fields{rec: rec, header: receiptsHeader}
		v := model.ReceiptVoucher{
			ID:            f.str(0),
			VoucherNumber: f.str(1),
			Date:          f.str(2),
			CustomerID:    f.str(3),
			CustomerName:  f.str(4),
			Amount:        f.dec(5),
			Currency:      f.str(6),
			ExchangeRate:  f.dec(7),
			PaymentMethod: model.PaymentMethod(f.str(8)),
			Status:        f.str(9),
		}
		return v, f.err
	},
	encode: func(v model.ReceiptVoucher) []string {
		return []string{
			v.ID, v.VoucherNumber, v.Date, v.CustomerID, v.CustomerName,
			formatDec(v.Amount), v.Currency, formatDec(v.ExchangeRate), string(v.PaymentMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.ReceiptVoucher { return &s.Receipts },
	ref:    func(v model.ReceiptVoucher) string { return v.ID },
	setRef: func(v *model.ReceiptVoucher, ref string) { v.ID = ref },
}

var paymentsTable = &table[model.PaymentVoucher]{
	name:   "payment_vouchers",
	header: paymentsHeader,
	decode: func(rec []string) (model.PaymentVoucher, error) {
		f := &fields{rec: rec, header: paymentsHeader}
		v := model.PaymentVoucher{
			ID:            f.str(0),
			VoucherNumber: f.str(1),
			Date:          f.str(2),
			SupplierID:    f.str(3),
			SupplierName:  f.str(4),
			Amount:        f.dec(5),
			Currency:      f.str(6),
			ExchangeRate:  f.dec(7),
			PaymentMethod: model.PaymentMethod(f.str(8)),
			Status:        f.str(9),
		}
		return v, f.err
	},
	encode: func(v model.PaymentVoucher) []string {
		return []string{
			v.ID, v.VoucherNumber, v.Date, v.SupplierID, v.SupplierName,
			formatDec(v.Amount), v.Currency, formatDec(v.ExchangeRate), string(v.PaymentMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.PaymentVoucher { return &s.Payments },
	ref:    func(v model.PaymentVoucher) string { return v.ID },
	setRef: func(v *model.PaymentVoucher, ref string) { v.ID = ref },
}

func returnHeader(invoice, party string) []string {
	return []string{
		"id", "return_number", "original_" + invoice + "_id", "original_invoice_number", "date",
		party + "_id", party + "_name", "sub_total", "tax_total", "grand_total",
		"reason", "currency", "exchange_rate", "refund_method", "status",
	}
}

var saleReturnsTable = &table[model.SaleReturn]{
	name:   "sale_returns",
	header: saleReturnsHeader,
	decode: func(rec []string) (model.SaleReturn, error) {
		f := &fields{rec: rec, header: saleReturnsHeader}
		v := model.SaleReturn{
			ID:                    f.str(0),
			ReturnNumber:          f.str(1),
			OriginalSaleID:        f.str(2),
			OriginalInvoiceNumber: f.str(3),
			Date:                  f.str(4),
			CustomerID:            f.str(5),
			CustomerName:          f.str(6),
			SubTotal:              f.dec(7),
			TaxTotal:              f.dec(8),
			GrandTotal:            f.dec(9),
			Reason:                f.str(10),
			Currency:              f.str(11),
			ExchangeRate:          f.dec(12),
			RefundMethod:          model.PaymentMethod(f.str(13)),
			Status:                f.str(14),
		}
		return v, f.err
	},
	encode: func(v model.SaleReturn) []string {
		return []string{
			v.ID, v.ReturnNumber, v.OriginalSaleID, v.OriginalInvoiceNumber, v.Date,
			v.CustomerID, v.CustomerName, formatDec(v.SubTotal), formatDec(v.TaxTotal), formatDec(v.GrandTotal),
			v.Reason, v.Currency, formatDec(v.ExchangeRate), string(v.RefundMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.SaleReturn { return &s.SaleReturns },
	ref:    func(v model.SaleReturn) string { return v.ID },
	setRef: func(v *model.SaleReturn, ref string) { v.ID = ref },
}

var purchaseReturnsTable = &table[model.PurchaseReturn]{
	name:   "purchase_returns",
	header: purchaseReturnsHeader,
	decode: func(rec []string) (model.PurchaseReturn, error) {
		f := &fields{rec: rec, header: purchaseReturnsHeader}
		v := model.PurchaseReturn{
			ID:                    f.str(0),
			ReturnNumber:          f.str(1),
			OriginalPurchaseID:    f.str(2),
			OriginalInvoiceNumber: f.str(3),
			Date:                  f.str(4),
			SupplierID:            f.str(5),
			SupplierName:          f.str(6),
			SubTotal:              f.dec(7),
			TaxTotal:              f.dec(8),
			GrandTotal:            f.dec(9),
			Reason:                f.str(10),
			Currency:              f.str(11),
			ExchangeRate:          f.dec(12),
			RefundMethod:          model.PaymentMethod(f.str(13)),
			Status:                f.str(14),
		}
		return v, f.err
	},
	encode: func(v model.PurchaseReturn) []string {
		return []string{
			v.ID, v.ReturnNumber, v.OriginalPurchaseID, v.OriginalInvoiceNumber, v.Date,
			v.SupplierID, v.SupplierName, formatDec(v.SubTotal), formatDec(v.TaxTotal), formatDec(v.GrandTotal),
			v.Reason, v.Currency, formatDec(v.ExchangeRate), string(v.RefundMethod), v.Status,
		}
	},
	items:  func(s *model.Snapshot) *[]model.PurchaseReturn { return &s.PurchaseReturns },
	ref:    func(v model.PurchaseReturn) string { return v.ID },
	setRef: func(v *model.PurchaseReturn, ref string) { v.ID = ref },
}

var ratesTable = &table[model.ExchangeRate]{
	name:   "exchange_rates",
	header: ratesHeader,
	decode: func(rec []string) (model.ExchangeRate, error) {
		f := &fields{rec: rec, header: ratesHeader}
		v := model.ExchangeRate{
			ID:   f.str(0),
			From: f.str(1),
			To:   f.str(2),
			Rate: f.dec(3),
			Date: f.str(4),
			Note: f.str(5),
		}
		return v, f.err
	},
	encode: func(v model.ExchangeRate) []string {
		return []string{v.ID, v.From, v.To, formatDec(v.Rate), v.Date, v.Note}
	},
	items:  func(s *model.Snapshot) *[]model.ExchangeRate { return &s.Rates },
	ref:    func(v model.ExchangeRate) string { return v.ID },
	setRef: func(v *model.ExchangeRate, ref string) { v.ID = ref },
}

var inventoryTable = &table[model.InventoryItem]{
	name:   "inventory",
	header: inventoryHeader,
	decode: func(rec []string) (model.InventoryItem, error) {
		f := &fields{rec: rec, header: inventoryHeader}
		v := model.InventoryItem{
			SKU:       f.str(0),
			Name:      f.str(1),
			Quantity:  f.dec(2),
			CostPrice: f.dec(3),
			Currency:  f.str(4),
		}
		return v, f.err
	},
	encode: func(v model.InventoryItem) []string {
		return []string{v.SKU, v.Name, formatDec(v.Quantity), formatDec(v.CostPrice), v.Currency}
	},
	items:  func(s *model.Snapshot) *[]model.InventoryItem { return &s.Inventory },
	ref:    func(v model.InventoryItem) string { return v.SKU },
	setRef: func(v *model.InventoryItem, ref string) { v.SKU = ref },
}

func decodeCounterparty(f *fields) (model.Counterparty, error) {
	v := model.Counterparty{
		ID:       f.str(0),
		Name:     f.str(1),
		Balance:  f.dec(2),
		Currency: f.str(3),
	}
	return v, f.err
}

func encodeCounterparty(v model.Counterparty) []string {
	return []string{v.ID, v.Name, formatDec(v.Balance), v.Currency}
}

var customersTable = &table[model.Counterparty]{
	name:   "customers",
	header: counterpartyHeader,
	decode: func(rec []string) (model.Counterparty, error) {
		return decodeCounterparty(&fields{rec: rec, header: counterpartyHeader})
	},
	encode: encodeCounterparty,
	items:  func(s *model.Snapshot) *[]model.Counterparty { return &s.Customers },
	ref:    func(v model.Counterparty) string { return v.ID },
	setRef: func(v *model.Counterparty, ref string) { v.ID = ref },
}

var suppliersTable = &table[model.Counterparty]{
	name:   "suppliers",
	header: counterpartyHeader,
	decode: func(rec []string) (model.Counterparty, error) {
		return decodeCounterparty(&fields{rec: rec, header: counterpartyHeader})
	},
	encode: encodeCounterparty,
	items:  func(s *model.Snapshot) *[]model.Counterparty { return &s.Suppliers },
	ref:    func(v model.Counterparty) string { return v.ID },
	setRef: func(v *model.Counterparty, ref string) { v.ID = ref },
}

package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

const sampleDir = "../../testdata/sample"

func TestLoadDir_Sample(t *testing.T) {
	snap, err := DefaultRegistry().LoadDir(sampleDir)
	require.NoError(t, err)

	assert.Len(t, snap.Transactions, 4)
	assert.Len(t, snap.Sales, 4)
	assert.Len(t, snap.Purchases, 2)
	assert.Len(t, snap.Expenses, 2)
	assert.Len(t, snap.Receipts, 1)
	assert.Len(t, snap.Payments, 1)
	assert.Len(t, snap.Rates, 3)
	assert.Len(t, snap.Inventory, 2)
	assert.Len(t, snap.Customers, 3)
	assert.Len(t, snap.Suppliers, 2)

	tx := snap.Transactions[1]
	assert.Equal(t, "T-002", tx.ID)
	assert.Equal(t, "مبيعات", tx.Label)
	assert.Equal(t, "-1200", tx.Amount.String())

	// Malformed dates are kept raw for the ledger to report.
	assert.Equal(t, "2024-02-30", snap.Transactions[3].Date)

	sale := snap.Sales[1]
	assert.Equal(t, "INV-1002", sale.InvoiceNumber)
	assert.Equal(t, "USD", sale.Currency)
	assert.True(t, sale.ExchangeRate.IsZero())
	assert.Equal(t, model.PaymentCredit, sale.PaymentMethod)
	assert.Equal(t, "230", sale.GrandTotal.String())

	assert.Equal(t, "85.5", snap.Transactions[2].Amount.String())
	assert.Equal(t, "3.7505", snap.Rates[2].Rate.String())
	assert.Equal(t, "Gulf Imports", snap.Receipts[0].CustomerName)
	assert.Equal(t, "Muscat Metals", snap.Payments[0].SupplierName)
}

func TestLoadDir_MissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	content := "id,date,description,account,amount,currency\n,2024-01-01,x,بنك,5,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte(content), 0o644))

	snap, err := DefaultRegistry().LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Empty(t, snap.Sales)

	// Rows without an id get a row reference.
	assert.Regexp(t, `^transactions-[0-9a-f]{8}-0001$`, snap.Transactions[0].ID)
}

func TestParse_IDlessBatchesDoNotCollide(t *testing.T) {
	first := &model.Snapshot{}
	require.NoError(t, ratesTable.Parse(strings.NewReader("id,from,to,rate,date,note\n,USD,SAR,3.75,2024-01-01,\n"), first))
	second := &model.Snapshot{}
	require.NoError(t, ratesTable.Parse(strings.NewReader("id,from,to,rate,date,note\n,USD,SAR,3.80,2024-02-01,\n"), second))

	require.Len(t, first.Rates, 1)
	require.Len(t, second.Rates, 1)
	assert.NotEqual(t, first.Rates[0].ID, second.Rates[0].ID)

	first.Merge(second)
	require.Len(t, first.Rates, 2)
	assert.Equal(t, "3.75", first.Rates[0].Rate.String())
	assert.Equal(t, "3.8", first.Rates[1].Rate.String())
}

func TestParse_SameFileSameRefs(t *testing.T) {
	in := "id,date,description,account,amount,currency\n,2024-01-01,x,بنك,5,\n,2024-01-02,y,بنك,6,\n"
	a := &model.Snapshot{}
	require.NoError(t, transactionsTable.Parse(strings.NewReader(in), a))
	b := &model.Snapshot{}
	require.NoError(t, transactionsTable.Parse(strings.NewReader(in), b))

	a.Merge(b)
	require.Len(t, a.Transactions, 2)
	assert.NotEqual(t, a.Transactions[0].ID, a.Transactions[1].ID)
}

func TestLoadDir_BadDecimal(t *testing.T) {
	dir := t.TempDir()
	content := "id,date,description,account,amount,currency\nT1,2024-01-01,x,بنك,12abc,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte(content), 0o644))

	_, err := DefaultRegistry().LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transactions.csv")
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), `parsing amount "12abc"`)
}

func TestParse_HeaderMismatch(t *testing.T) {
	in := "id,date,description,label,amount,currency\n"
	err := transactionsTable.Parse(strings.NewReader(in), &model.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected "account", got "label"`)
}

func TestParse_ByteOrderMark(t *testing.T) {
	in := "\ufeffid,name,balance,currency\nC1,Acme,10,SAR\n"
	snap := &model.Snapshot{}
	require.NoError(t, customersTable.Parse(strings.NewReader(in), snap))
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "C1", snap.Customers[0].ID)
}

func TestParse_WrongFieldCount(t *testing.T) {
	in := "id,name,balance,currency\nC1,Acme,10\n"
	err := suppliersTable.Parse(strings.NewReader(in), &model.Snapshot{})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	snap, err := DefaultRegistry().LoadDir(sampleDir)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, DefaultRegistry().WriteDir(dir, snap))

	got, err := DefaultRegistry().LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, got.Sales, len(snap.Sales))
	for i := range snap.Sales {
		assert.Equal(t, snap.Sales[i].ID, got.Sales[i].ID)
		assert.True(t, snap.Sales[i].GrandTotal.Equal(got.Sales[i].GrandTotal))
		assert.Equal(t, snap.Sales[i].Status, got.Sales[i].Status)
	}
	require.Len(t, got.Rates, len(snap.Rates))
	assert.True(t, snap.Rates[1].Rate.Equal(got.Rates[1].Rate))
	assert.Equal(t, snap.Suppliers[1].Name, got.Suppliers[1].Name)
}

func TestParse_Returns(t *testing.T) {
	in := "id,return_number,original_sale_id,original_invoice_number,date,customer_id,customer_name," +
		"sub_total,tax_total,grand_total,reason,currency,exchange_rate,refund_method,status\n" +
		"SR-1,RET-1,S-002,INV-1002,2024-03-05,C-2,Gulf Imports,20,3,23,damaged,USD,3.75,cash,refunded\n"
	snap := &model.Snapshot{}
	require.NoError(t, saleReturnsTable.Parse(strings.NewReader(in), snap))
	require.Len(t, snap.SaleReturns, 1)

	r := snap.SaleReturns[0]
	assert.Equal(t, "S-002", r.OriginalSaleID)
	assert.Equal(t, "23", r.GrandTotal.String())
	assert.Equal(t, "3.75", r.ExchangeRate.String())
	assert.Equal(t, model.PaymentCash, r.RefundMethod)

	var buf bytes.Buffer
	require.NoError(t, saleReturnsTable.Write(&buf, snap))
	assert.Equal(t, in, buf.String())

	in = "id,return_number,original_purchase_id,original_invoice_number,date,supplier_id,supplier_name," +
		"sub_total,tax_total,grand_total,reason,currency,exchange_rate,refund_method,status\n" +
		",DN-1,P-001,PB-77,2024-02-01,V-1,Riyadh Wholesale,50,7.5,57.5,,SAR,0,credit,completed\n"
	require.NoError(t, purchaseReturnsTable.Parse(strings.NewReader(in), snap))
	require.Len(t, snap.PurchaseReturns, 1)
	assert.Regexp(t, `^purchase_returns-[0-9a-f]{8}-0001$`, snap.PurchaseReturns[0].ID)
	assert.Equal(t, "57.5", snap.PurchaseReturns[0].GrandTotal.String())
}

func TestWrite_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, inventoryTable.Write(&buf, &model.Snapshot{}))
	assert.Equal(t, "sku,name,quantity,cost_price,currency\n", buf.String())
}

func TestWrite_ZeroDecimal(t *testing.T) {
	var buf bytes.Buffer
	snap := &model.Snapshot{Customers: []model.Counterparty{{ID: "C1", Name: "A", Balance: decimal.Zero}}}
	require.NoError(t, customersTable.Write(&buf, snap))
	assert.Contains(t, buf.String(), "C1,A,0,\n")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("sales"))
	assert.NotNil(t, r.Get("SALES"))
	assert.Nil(t, r.Get("chase"))
	assert.Equal(t, []string{
		"transactions", "sales", "purchases", "expenses", "receipt_vouchers", "payment_vouchers",
		"sale_returns", "purchase_returns", "exchange_rates", "inventory", "customers", "suppliers",
	}, r.Collections())

	assert.Panics(t, func() { r.Register(salesTable) })
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "processed"), 0o755))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byName := map[string]FileInfo{}
	for _, f := range files {
		byName[f.Name] = f
	}
	assert.Equal(t, "sales", byName["sales.csv"].Collection)
	assert.Equal(t, "", byName["notes.csv"].Collection)
	assert.Equal(t, int64(1), byName["sales.csv"].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "sales.csv"))

	_, err := os.Stat(filepath.Join(dir, "sales.csv"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "processed", "sales.csv"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestLoadFile(t *testing.T) {
	reg := DefaultRegistry()
	files, err := reg.Scan(sampleDir)
	require.NoError(t, err)

	snap := &model.Snapshot{}
	for _, fi := range files {
		if fi.Collection == "sales" {
			require.NoError(t, reg.LoadFile(fi, snap))
		}
	}
	assert.Len(t, snap.Sales, 4)
	assert.Empty(t, snap.Transactions)

	err = reg.LoadFile(FileInfo{Name: "notes.csv", Path: filepath.Join(sampleDir, "notes.csv")}, snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.csv: no collection reads this file")
}

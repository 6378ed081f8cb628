package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func TestBalanceSheet(t *testing.T) {
	snap := &model.Snapshot{
		Rates: []model.ExchangeRate{usdRate("3.75", "2024-01-01")},
		Transactions: []model.Transaction{
			{ID: "t1", Date: "2024-01-01", Label: "بنك", Amount: dec("10000")},
			{ID: "t2", Date: "2024-02-01", Label: "بنك", Amount: dec("-2500")},
			{ID: "late", Date: "2024-12-01", Label: "بنك", Amount: dec("999")},
		},
		Receipts: []model.ReceiptVoucher{{ID: "rv1", Date: "2024-03-01", Amount: dec("500")}},
		// Not cash: revenue posting.
		Sales: []model.Sale{{ID: "s1", Date: "2024-03-01", GrandTotal: dec("1000")}},
		Inventory: []model.InventoryItem{
			{SKU: "A", Quantity: dec("10"), CostPrice: dec("20")},
			{SKU: "B", Quantity: dec("2"), CostPrice: dec("100"), Currency: "USD"},
			{SKU: "C", Quantity: dec("1"), CostPrice: dec("5"), Currency: "EUR"},
		},
		Customers: []model.Counterparty{{ID: "c1", Balance: dec("1200")}, {ID: "c2", Balance: dec("300")}},
		Suppliers: []model.Counterparty{{ID: "v1", Balance: dec("100"), Currency: "USD"}},
	}
	book, n := postBook(t, snap)

	bs := BuildBalanceSheet(book, n, BalanceSheetInput{
		AsOf:        date(2024, time.June, 30),
		CashAccount: accounts.CodeCash,
		Inventory:   snap.Inventory,
		Customers:   snap.Customers,
		Suppliers:   snap.Suppliers,
	})

	assertDec(t, "8000", bs.Cash)
	assertDec(t, "950", bs.Inventory)
	assertDec(t, "1500", bs.Receivables)
	assertDec(t, "10450", bs.TotalAssets)
	assertDec(t, "375", bs.Payables)
	assertDec(t, "375", bs.TotalLiabilities)
	assertDec(t, "10075", bs.Equity)
	assert.True(t, bs.EquityIsResidual)
	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.Equity)))

	require.Len(t, bs.Issues, 1)
	assert.Equal(t, ledger.MissingExchangeRate, bs.Issues[0].Kind)
	assert.Equal(t, "C", bs.Issues[0].Ref)

	require.Len(t, bs.Lines, 7)
	assert.Equal(t, SectionEquity, bs.Lines[6].Section)
	assert.True(t, bs.Lines[6].Total)
}

func TestBalanceSheet_LabelledTransactionsMoveCash(t *testing.T) {
	snap := &model.Snapshot{
		Rates: []model.ExchangeRate{usdRate("3.75", "2024-01-01")},
		Transactions: []model.Transaction{
			{ID: "t1", Date: "2024-01-05", Label: "مبيعات", Amount: dec("500")},
			{ID: "t2", Date: "2024-01-06", Label: "مصاريف", Amount: dec("-200")},
			{ID: "t3", Date: "2024-01-07", Label: "بنك", Amount: dec("100")},
			{ID: "t4", Date: "2024-01-08", Label: "مبيعات", Amount: dec("10"), Currency: "USD"},
		},
		Payments: []model.PaymentVoucher{{ID: "pv1", Date: "2024-01-09", Amount: dec("40")}},
		// Credit sales never touch cash.
		Sales: []model.Sale{{ID: "s1", Date: "2024-01-10", GrandTotal: dec("1000")}},
	}
	book, n := postBook(t, snap)

	bs := BuildBalanceSheet(book, n, BalanceSheetInput{
		AsOf:        date(2024, time.January, 31),
		CashAccount: accounts.CodeCash,
	})

	// 500 - 200 + 100 + 37.5 - 40
	assertDec(t, "397.5", bs.Cash)
}

func TestBalanceSheet_Empty(t *testing.T) {
	book, n := postBook(t, &model.Snapshot{})
	bs := BuildBalanceSheet(book, n, BalanceSheetInput{AsOf: date(2024, time.January, 1), CashAccount: accounts.CodeCash})

	assert.True(t, bs.TotalAssets.IsZero())
	assert.True(t, bs.Equity.IsZero())
	assert.True(t, bs.EquityIsResidual)
	assert.Empty(t, bs.Issues)
}

func TestBalanceSheet_NegativeEquity(t *testing.T) {
	book, n := postBook(t, &model.Snapshot{})
	bs := BuildBalanceSheet(book, n, BalanceSheetInput{
		AsOf:      date(2024, time.January, 1),
		Suppliers: []model.Counterparty{{ID: "v1", Balance: dec("50")}},
	})
	assertDec(t, "-50", bs.Equity)
}

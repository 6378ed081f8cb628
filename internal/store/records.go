package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/model"
)

// Collection names as stored in records.collection.
const (
	collTransactions = "transactions"
	collSales        = "sales"
	collPurchases    = "purchases"
	collExpenses     = "expenses"
	collReceipts     = "receipt_vouchers"
	collPayments     = "payment_vouchers"
	collSaleReturns  = "sale_returns"
	collPurReturns   = "purchase_returns"
	collRates        = "exchange_rates"
	collInventory    = "inventory"
	collCustomers    = "customers"
	collSuppliers    = "suppliers"
)

// Append writes every record of snap to the log. A record whose reference
// is already stored replaces the payload in place and keeps its position;
// records without a reference are given a random one. It returns the number
// of records written.
func (s *Store) Append(ctx context.Context, snap *model.Snapshot) (int, error) {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, ref, payload) VALUES (?, ?, ?)
		ON CONFLICT(collection, ref) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		return 0, fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	w := &writer{ctx: ctx, stmt: stmt}
	appendAll(w, collTransactions, snap.Transactions, func(v *model.Transaction) *string { return &v.ID })
	appendAll(w, collSales, snap.Sales, func(v *model.Sale) *string { return &v.ID })
	appendAll(w, collPurchases, snap.Purchases, func(v *model.Purchase) *string { return &v.ID })
	appendAll(w, collExpenses, snap.Expenses, func(v *model.Expense) *string { return &v.ID })
	appendAll(w, collReceipts, snap.Receipts, func(v *model.ReceiptVoucher) *string { return &v.ID })
	appendAll(w, collPayments, snap.Payments, func(v *model.PaymentVoucher) *string { return &v.ID })
	appendAll(w, collSaleReturns, snap.SaleReturns, func(v *model.SaleReturn) *string { return &v.ID })
	appendAll(w, collPurReturns, snap.PurchaseReturns, func(v *model.PurchaseReturn) *string { return &v.ID })
	appendAll(w, collRates, snap.Rates, func(v *model.ExchangeRate) *string { return &v.ID })
	appendAll(w, collInventory, snap.Inventory, func(v *model.InventoryItem) *string { return &v.SKU })
	appendAll(w, collCustomers, snap.Customers, func(v *model.Counterparty) *string { return &v.ID })
	appendAll(w, collSuppliers, snap.Suppliers, func(v *model.Counterparty) *string { return &v.ID })
	if w.err != nil {
		return 0, w.err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w", err)
	}
	return w.n, nil
}

type writer struct {
	ctx  context.Context
	stmt *sql.Stmt
	n    int
	err  error
}

func appendAll[T any](w *writer, collection string, items []T, ref func(*T) *string) {
	for i := range items {
		if w.err != nil {
			return
		}
		v := items[i]
		r := ref(&v)
		if *r == "" {
			*r = uuid.NewString()
		}
		payload, err := json.Marshal(v)
		if err != nil {
			w.err = fmt.Errorf("encoding %s %s: %w", collection, *r, err)
			return
		}
		if _, err := w.stmt.ExecContext(w.ctx, collection, *r, string(payload)); err != nil {
			w.err = fmt.Errorf("inserting %s %s: %w", collection, *r, err)
			return
		}
		w.n++
	}
}

// Snapshot reads the whole log into a snapshot, each collection in append
// order.
func (s *Store) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT collection, ref, payload FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	snap := &model.Snapshot{}
	for rows.Next() {
		var collection, ref, payload string
		if err := rows.Scan(&collection, &ref, &payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := decodeInto(snap, collection, []byte(payload)); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", collection, ref, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

func decodeInto(snap *model.Snapshot, collection string, payload []byte) error {
	switch collection {
	case collTransactions:
		return decodeAppend(payload, &snap.Transactions)
	case collSales:
		return decodeAppend(payload, &snap.Sales)
	case collPurchases:
		return decodeAppend(payload, &snap.Purchases)
	case collExpenses:
		return decodeAppend(payload, &snap.Expenses)
	case collReceipts:
		return decodeAppend(payload, &snap.Receipts)
	case collPayments:
		return decodeAppend(payload, &snap.Payments)
	case collSaleReturns:
		return decodeAppend(payload, &snap.SaleReturns)
	case collPurReturns:
		return decodeAppend(payload, &snap.PurchaseReturns)
	case collRates:
		return decodeAppend(payload, &snap.Rates)
	case collInventory:
		return decodeAppend(payload, &snap.Inventory)
	case collCustomers:
		return decodeAppend(payload, &snap.Customers)
	case collSuppliers:
		return decodeAppend(payload, &snap.Suppliers)
	}
	return fmt.Errorf("unknown collection %q", collection)
}

func decodeAppend[T any](payload []byte, items *[]T) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return err
	}
	*items = append(*items, v)
	return nil
}

// Counts returns the number of stored records per collection.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT collection, COUNT(*) FROM records GROUP BY collection`)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var collection string
		var n int
		if err := rows.Scan(&collection, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[collection] = n
	}
	return counts, rows.Err()
}

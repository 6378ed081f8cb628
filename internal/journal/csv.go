// Package journal exports the derived general ledger and trial balance as
// CSV files and reads exported ledgers back.
package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "date,reference,account_code,account_name,description,debit,credit,balance"

const (
	numFields  = 8
	colDate    = 0
	colRef     = 1
	colCode    = 2
	colName    = 3
	colDesc    = 4
	colDebit   = 5
	colCredit  = 6
	colBalance = 7
)

// Rounder rounds amounts for export. fx.Precision satisfies it.
type Rounder interface {
	Format(amount decimal.Decimal, currency string) string
}

// ReadEntries reads all entries from a journal.csv reader.
func ReadEntries(r io.Reader) ([]model.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.LedgerEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header),
// amounts rounded to the base currency's precision.
func WriteEntries(w io.Writer, entries []model.LedgerEntry, round Rounder, base string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e, round, base)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts a LedgerEntry to a CSV row ([]string). Zero debits
// and credits are left blank.
func MarshalEntry(e model.LedgerEntry, round Rounder, base string) []string {
	row := make([]string, numFields)
	row[colDate] = e.Date.String()
	row[colRef] = e.Reference
	row[colCode] = e.AccountCode
	row[colName] = e.AccountName
	row[colDesc] = e.Description

	if !e.Debit.IsZero() {
		row[colDebit] = round.Format(e.Debit, base)
	}
	if !e.Credit.IsZero() {
		row[colCredit] = round.Format(e.Credit, base)
	}
	row[colBalance] = round.Format(e.Balance, base)

	return row
}

// UnmarshalEntry converts a CSV row to a LedgerEntry.
func UnmarshalEntry(record []string) (model.LedgerEntry, error) {
	if len(record) != numFields {
		return model.LedgerEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.LedgerEntry{}, err
	}
	if record[colCode] == "" {
		return model.LedgerEntry{}, fmt.Errorf("missing account_code")
	}

	var debit, credit, balance decimal.Decimal
	if debit, err = parseAmount("debit", record[colDebit]); err != nil {
		return model.LedgerEntry{}, err
	}
	if credit, err = parseAmount("credit", record[colCredit]); err != nil {
		return model.LedgerEntry{}, err
	}
	if balance, err = parseAmount("balance", record[colBalance]); err != nil {
		return model.LedgerEntry{}, err
	}

	return model.LedgerEntry{
		Date:        date,
		Reference:   record[colRef],
		AccountCode: record[colCode],
		AccountName: record[colName],
		Description: record[colDesc],
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, raw, err)
	}
	return d, nil
}

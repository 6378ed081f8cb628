package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// TrialBalanceHeader is the CSV header for trial-balance.csv.
const TrialBalanceHeader = "account_code,account_name,account_type,debit,credit,balance"

const (
	exportDir        = "exports"
	journalFile      = "journal.csv"
	trialBalanceFile = "trial-balance.csv"
)

// WriteTrialBalance writes tb with a closing totals row.
func WriteTrialBalance(w io.Writer, tb ledger.TrialBalance, round Rounder, base string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TrialBalanceHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range tb.Rows {
		row := []string{
			r.Code, r.Name, string(r.Type),
			round.Format(r.Debit, base), round.Format(r.Credit, base), round.Format(r.Balance, base),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	total := []string{
		"", "Total", "",
		round.Format(tb.TotalDebit, base), round.Format(tb.TotalCredit, base), round.Format(tb.Difference, base),
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Export writes <root>/exports/journal.csv and trial-balance.csv and returns
// the paths written.
func Export(root string, entries []model.LedgerEntry, tb ledger.TrialBalance, round Rounder, base string) ([]string, error) {
	dir := filepath.Join(root, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating exports dir: %w", err)
	}

	journalPath := filepath.Join(dir, journalFile)
	if err := writeFile(journalPath, func(w io.Writer) error {
		return WriteEntries(w, entries, round, base)
	}); err != nil {
		return nil, err
	}

	tbPath := filepath.Join(dir, trialBalanceFile)
	if err := writeFile(tbPath, func(w io.Writer) error {
		return WriteTrialBalance(w, tb, round, base)
	}); err != nil {
		return nil, err
	}
	return []string{journalPath, tbPath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

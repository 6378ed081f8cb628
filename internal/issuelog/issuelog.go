// Package issuelog keeps a CSV history of the data-quality issues found by
// each check run.
package issuelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

// Entry is one row in the issue log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Kind      ledger.IssueKind
	EventKind model.EventKind
	Ref       string
	Detail    string
}

// Header is the CSV header for issues.csv.
const Header = "timestamp,run_id,kind,event_kind,ref,detail"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/issues.csv"
	colTimestamp = 0
	colRunID     = 1
	colKind      = 2
	colEventKind = 3
	colRef       = 4
	colDetail    = 5
)

// FromIssues stamps the issues of one run for appending.
func FromIssues(runID string, at time.Time, issues ledger.Issues) []Entry {
	entries := make([]Entry, 0, len(issues))
	for _, i := range issues {
		entries = append(entries, Entry{
			Timestamp: at,
			RunID:     runID,
			Kind:      i.Kind,
			EventKind: i.EventKind,
			Ref:       i.Ref,
			Detail:    i.Detail,
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colKind] = string(e.Kind)
	row[colEventKind] = string(e.EventKind)
	row[colRef] = e.Ref
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	if record[colKind] == "" {
		return Entry{}, fmt.Errorf("missing issue kind")
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Kind:      ledger.IssueKind(record[colKind]),
		EventKind: model.EventKind(record[colEventKind]),
		Ref:       record[colRef],
		Detail:    record[colDetail],
	}, nil
}

// Append writes entries to <root>/logs/issues.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening issue log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/issues.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening issue log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// LastRun returns the entries of the most recent run in the log.
func LastRun(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	last := entries[len(entries)-1].RunID
	start := len(entries)
	for start > 0 && entries[start-1].RunID == last {
		start--
	}
	return entries[start:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading issue log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

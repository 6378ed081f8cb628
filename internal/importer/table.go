package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// table is a Parser for one collection of T records.
type table[T any] struct {
	name   string
	header []string
	decode func(rec []string) (T, error)
	encode func(v T) []string
	items  func(snap *model.Snapshot) *[]T
	// ref and setRef give access to the record id; rows without one get a
	// row reference tagged with the file's content batch.
	ref    func(v T) string
	setRef func(v *T, ref string)
}

func (t *table[T]) Collection() string { return t.name }

// Parse reads the collection's CSV. The header row must match exactly.
// Re-parsing the same bytes yields the same row references; a file with
// different content never reuses another file's references.
func (t *table[T]) Parse(r io.Reader, snap *model.Snapshot) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s CSV: %w", t.name, err)
	}
	batch := id.Batch(data)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(t.header)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s CSV: %w", t.name, err)
	}
	if len(records) == 0 {
		return nil
	}
	if err := t.checkHeader(records[0]); err != nil {
		return err
	}

	items := t.items(snap)
	for i, rec := range records[1:] {
		v, err := t.decode(rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if t.ref != nil && t.ref(v) == "" {
			t.setRef(&v, id.FormatRowRef(t.name, batch, i+1))
		}
		*items = append(*items, v)
	}
	return nil
}

// Write writes the header and one row per record.
func (t *table[T]) Write(w io.Writer, snap *model.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, v := range *t.items(snap) {
		if err := cw.Write(t.encode(v)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *table[T]) checkHeader(got []string) error {
	for i, want := range t.header {
		// Excel likes to prepend a byte order mark.
		if strings.TrimPrefix(strings.TrimSpace(got[i]), "\ufeff") != want {
			return fmt.Errorf("%s header column %d: expected %q, got %q", t.name, i+1, want, got[i])
		}
	}
	return nil
}

// fields is a cursor over one CSV record that remembers the first decode
// error.
type fields struct {
	rec    []string
	header []string
	err    error
}

func (f *fields) str(col int) string {
	return strings.TrimSpace(f.rec[col])
}

// dec parses a decimal column; an empty cell is zero.
func (f *fields) dec(col int) decimal.Decimal {
	s := strings.TrimSpace(f.rec[col])
	if s == "" || f.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		f.err = fmt.Errorf("parsing %s %q: %w", f.header[col], s, err)
		return decimal.Zero
	}
	return d
}

// formatDec renders a decimal cell; zero is written as "0".
func formatDec(d decimal.Decimal) string {
	return d.String()
}

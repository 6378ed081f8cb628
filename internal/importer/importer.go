// Package importer reads and writes event collections as CSV files, one file
// per collection in a data directory.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Parser converts one collection's CSV file to and from snapshot records.
type Parser interface {
	// Parse appends the records in r to snap.
	Parse(r io.Reader, snap *model.Snapshot) error
	// Write writes the collection's records from snap to w.
	Write(w io.Writer, snap *model.Snapshot) error
	// Collection is the collection name; the file is <name>.csv.
	Collection() string
}

// Registry holds parsers in registration order.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// FileInfo describes a CSV file in a data directory.
type FileInfo struct {
	Name       string
	Path       string
	Size       int64
	Collection string // empty if no parser handles the file
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate collection.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Collection())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser collection: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for collection, or nil.
func (r *Registry) Get(collection string) Parser {
	return r.parsers[strings.ToLower(collection)]
}

// Collections returns the registered collection names in registration order.
func (r *Registry) Collections() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns a registry with a parser for every collection,
// in event merge order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(transactionsTable)
	r.Register(salesTable)
	r.Register(purchasesTable)
	r.Register(expensesTable)
	r.Register(receiptsTable)
	r.Register(paymentsTable)
	r.Register(saleReturnsTable)
	r.Register(purchaseReturnsTable)
	r.Register(ratesTable)
	r.Register(inventoryTable)
	r.Register(customersTable)
	r.Register(suppliersTable)
	return r
}

// LoadDir reads every registered collection from dir. Missing files are
// empty collections.
func (r *Registry) LoadDir(dir string) (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	for _, name := range r.order {
		path := filepath.Join(dir, name+".csv")
		if err := r.loadFile(path, r.parsers[name], snap); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}
	return snap, nil
}

func (r *Registry) loadFile(path string, p Parser, snap *model.Snapshot) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := p.Parse(f, snap); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteDir writes every registered collection of snap into dir.
func (r *Registry) WriteDir(dir string, snap *model.Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	for _, name := range r.order {
		if err := writeFile(filepath.Join(dir, name+".csv"), r.parsers[name], snap); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, p Parser, snap *model.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := p.Write(f, snap); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// processedDir is the subdirectory for imported CSVs.
const processedDir = "processed"

// Scan returns the CSV files in dir, each tagged with the collection that
// reads it.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		fi := FileInfo{
			Name: name,
			Path: filepath.Join(dir, name),
			Size: info.Size(),
		}
		if p := r.Get(strings.TrimSuffix(strings.ToLower(name), ".csv")); p != nil {
			fi.Collection = p.Collection()
		}
		files = append(files, fi)
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// LoadFile appends the records of one scanned file to snap.
func (r *Registry) LoadFile(fi FileInfo, snap *model.Snapshot) error {
	p := r.Get(fi.Collection)
	if p == nil {
		return fmt.Errorf("%s: no collection reads this file", fi.Name)
	}
	return r.loadFile(fi.Path, p, snap)
}

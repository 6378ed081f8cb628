// Package project opens a tally project directory and runs the derivation
// pipeline over its configured event source.
package project

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/classify"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reports"
	"github.com/cleared-dev/tally/internal/store"
)

// Source yields the event snapshot a run derives from.
type Source interface {
	Snapshot(ctx context.Context) (*model.Snapshot, error)
}

// DirSource reads one CSV file per collection from Dir.
type DirSource struct {
	Dir      string
	Registry *importer.Registry
}

// Snapshot loads every collection file under Dir.
func (s DirSource) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reg := s.Registry
	if reg == nil {
		reg = importer.DefaultRegistry()
	}
	return reg.LoadDir(s.Dir)
}

// Project is an opened project directory.
type Project struct {
	Root       string
	Config     *config.Config
	Chart      *accounts.Service
	Classifier *classify.Classifier
	Precision  fx.Precision
	Source     Source

	db *store.Store
}

// Open loads tally.yaml from root and opens the project.
func Open(root string) (*Project, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	return New(root, cfg)
}

// New opens the project at root with cfg: the chart (or the default chart),
// the classification table (or the default table) and the event source.
func New(root string, cfg *config.Config) (*Project, error) {
	chart, err := accounts.LoadOrDefault(root)
	if err != nil {
		return nil, err
	}

	table := classify.DefaultTable()
	if cfg.Classification.Table != "" {
		table, err = classify.LoadTable(filepath.Join(root, cfg.Classification.Table))
		if err != nil {
			return nil, err
		}
	}
	classifier, err := classify.New(table, chart)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Root:       root,
		Config:     cfg,
		Chart:      chart,
		Classifier: classifier,
		Precision:  fx.NewPrecision(cfg.Currency.Precision),
	}

	switch cfg.Source.Kind {
	case config.SourceSQLite:
		db, err := store.Open(p.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("opening event store: %w", err)
		}
		p.db = db
		p.Source = db
	default:
		p.Source = DirSource{Dir: p.DataDir()}
	}
	return p, nil
}

// DataDir is the directory holding the collection CSV files.
func (p *Project) DataDir() string {
	return filepath.Join(p.Root, p.Config.Source.DataDir)
}

// DatabasePath is the SQLite event store file.
func (p *Project) DatabasePath() string {
	return filepath.Join(p.Root, p.Config.Source.Database)
}

// Store returns the event store, or nil for a CSV-backed project.
func (p *Project) Store() *store.Store {
	return p.db
}

// Close releases the event store, if any.
func (p *Project) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Run is the result of one derivation pass.
type Run struct {
	Snapshot   *model.Snapshot
	Normalizer *fx.Normalizer
	Book       *ledger.Book
}

// Run loads a fresh snapshot and posts it.
func (p *Project) Run(ctx context.Context) (*Run, error) {
	log := logger.FromContext(ctx)

	snap, err := p.Source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}

	n := fx.NewNormalizer(p.Config.Currency.Base, fx.NewRateBook(snap.Rates))
	book, err := ledger.NewBuilder(p.Classifier, n).Post(snap)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("events", len(snap.Events())).
		Int("postings", len(book.Postings)).
		Int("issues", len(book.Issues)).
		Msg("posted snapshot")
	for _, i := range book.Issues {
		log.Warn().
			Str("kind", string(i.Kind)).
			Str("event", string(i.EventKind)).
			Str("ref", i.Ref).
			Msg(i.Detail)
	}
	return &Run{Snapshot: snap, Normalizer: n, Book: book}, nil
}

// Activities returns the configured investing and financing accounts.
func (p *Project) Activities() map[string]reports.Activity {
	acts := make(map[string]reports.Activity, len(p.Config.CashFlow.Activities))
	for code, a := range p.Config.CashFlow.Activities {
		acts[code] = reports.Activity(a)
	}
	return acts
}

// BalanceSheetInput collects the non-ledger records for a balance sheet.
func (p *Project) BalanceSheetInput(run *Run, asOf civil.Date) reports.BalanceSheetInput {
	return reports.BalanceSheetInput{
		AsOf:        asOf,
		CashAccount: p.Classifier.Table().Cash,
		Inventory:   run.Snapshot.Inventory,
		Customers:   run.Snapshot.Customers,
		Suppliers:   run.Snapshot.Suppliers,
	}
}

// Statement builds the account statement of one customer or supplier,
// named from the snapshot's counterparty records.
func (r *Run) Statement(side reports.PartySide, party string, period reports.Period) reports.Statement {
	parties := r.Snapshot.Customers
	if side == reports.Supplier {
		parties = r.Snapshot.Suppliers
	}
	var name string
	for _, c := range parties {
		if c.ID == party {
			name = c.Name
			break
		}
	}
	return reports.BuildStatement(r.Book, side, party, name, period)
}

// RateAge reports how fresh the run's exchange rates are today.
func (p *Project) RateAge(run *Run, today civil.Date) fx.Age {
	maxDays := p.Config.Currency.StaleAfterDays
	if maxDays <= 0 {
		maxDays = fx.DefaultMaxAgeDays
	}
	return run.Normalizer.Book().Age(today, maxDays)
}

// Today is the current local date.
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

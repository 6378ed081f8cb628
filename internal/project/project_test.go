package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/reports"
)

const sampleDir = "../../testdata/sample"

// newSampleProject lays out a project whose data dir holds the sample CSVs.
func newSampleProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default("Sample Co", "trading")

	snap, err := importer.DefaultRegistry().LoadDir(sampleDir)
	require.NoError(t, err)
	require.NoError(t, importer.DefaultRegistry().WriteDir(filepath.Join(root, cfg.Source.DataDir), snap))
	require.NoError(t, config.Save(filepath.Join(root, config.FileName), cfg))
	return root, cfg
}

func TestOpen_CSV(t *testing.T) {
	root, _ := newSampleProject(t)
	p, err := Open(root)
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.Store())
	assert.Equal(t, filepath.Join(root, "data"), p.DataDir())

	run, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, run.Book.Postings, 11)
	assert.Equal(t, 3, run.Book.Issues.Excluded())
	assert.Equal(t, []string{"T-004"}, run.Book.Issues.Refs(ledger.MalformedDate))
	assert.Equal(t, []string{"S-003"}, run.Book.Issues.Refs(ledger.CancelledEvent))
	assert.Equal(t, []string{"S-004"}, run.Book.Issues.Refs(ledger.MissingExchangeRate))
	assert.Equal(t, "SAR", run.Normalizer.Base())
}

func TestOpen_SQLite(t *testing.T) {
	root, cfg := newSampleProject(t)
	cfg.Source.Kind = config.SourceSQLite

	p, err := New(root, cfg)
	require.NoError(t, err)
	defer p.Close()
	require.NotNil(t, p.Store())

	snap, err := DirSource{Dir: p.DataDir()}.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = p.Store().Append(context.Background(), snap)
	require.NoError(t, err)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, run.Book.Postings, 11)
	assert.Len(t, run.Book.Issues, 3)
}

func TestOpen_MissingConfig(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_ClassificationOverride(t *testing.T) {
	root, cfg := newSampleProject(t)
	cfg.Classification.Table = "classification.yaml"

	require.NoError(t, os.WriteFile(filepath.Join(root, "classification.yaml"), []byte("sale:\n  code: \"4999\"\n  side: credit\n"), 0o644))
	_, err := New(root, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account 4999")

	require.NoError(t, os.WriteFile(filepath.Join(root, "classification.yaml"), []byte("transaction_default: \"1199\"\n"), 0o644))
	p, err := New(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, "1199", p.Classifier.Table().TransactionDefault)
}

func TestDirSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirSource{Dir: sampleDir}.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestActivities(t *testing.T) {
	root, cfg := newSampleProject(t)
	cfg.CashFlow.Activities = map[string]string{"3100": "financing"}
	p, err := New(root, cfg)
	require.NoError(t, err)

	assert.Equal(t, map[string]reports.Activity{"3100": reports.Financing}, p.Activities())
}

func TestRateAgeAndBalanceSheetInput(t *testing.T) {
	root, cfg := newSampleProject(t)
	cfg.Currency.StaleAfterDays = 0
	p, err := New(root, cfg)
	require.NoError(t, err)

	run, err := p.Run(context.Background())
	require.NoError(t, err)

	age := p.RateAge(run, civil.Date{Year: 2024, Month: time.March, Day: 20})
	assert.True(t, age.HasRates)
	assert.Equal(t, 19, age.DaysOld)
	assert.True(t, age.Stale)

	in := p.BalanceSheetInput(run, civil.Date{Year: 2024, Month: time.March, Day: 31})
	assert.Equal(t, "1110", in.CashAccount)
	assert.Len(t, in.Inventory, 2)
	assert.Len(t, in.Customers, 3)
	assert.Len(t, in.Suppliers, 2)
}

package commands_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

const sampleDir = "../../testdata/sample"

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "tally-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "tally")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/tally")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON runs a project command with --json and decodes its output.
func runJSON(t *testing.T, dir string, out any, args ...string) {
	t.Helper()
	args = append(args, "--dir", dir, "--json", "--log-level", "error")
	stdout, err := runTally(t, args...)
	require.NoError(t, err, stdout)
	require.NoError(t, json.Unmarshal([]byte(stdout), out), stdout)
}

// importedProject initializes a project and imports the sample collections.
func importedProject(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Sample Co", "--source", source)
	require.NoError(t, err)

	entries, err := os.ReadDir(sampleDir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(sampleDir, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", e.Name()), data, 0o644))
	}

	out, err := runTally(t, "import", "--dir", dir, "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 24 records from 10 file(s)")
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	expectedDirs := []string{
		"accounts",
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err = os.Stat(filepath.Join(dir, "classification.yaml"))
	assert.NoError(t, err)
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "My Company", "--base", "OMR")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, "type: trading")
	assert.Contains(t, contents, "base: OMR")
	assert.Contains(t, contents, "kind: csv")
	assert.Contains(t, contents, "table: classification.yaml")
}

func TestInit_Accounts(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1110,Cash and Banks,asset")

	// A project with no events has an empty, balanced trial balance.
	var tb trialBalance
	runJSON(t, dir, &tb, "trial")
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.IsBalanced)
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runTally(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_BadSource(t *testing.T) {
	out, err := runTally(t, "init", t.TempDir(), "--name", "X", "--source", "postgres")
	require.Error(t, err)
	assert.Contains(t, out, `unknown source kind "postgres"`)
}

func TestInit_SQLite(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--name", "Test Biz", "--source", "sqlite")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "tally.db"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runTally(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}

func TestImport_MovesFiles(t *testing.T) {
	dir := importedProject(t, "csv")

	_, err := os.Stat(filepath.Join(dir, "import", "sales.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "sales.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "sales.csv"))
	assert.NoError(t, err)

	out, err := runTally(t, "import", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No files to import")
}

type trialBalance struct {
	Rows []struct {
		Code string `json:"code"`
	} `json:"rows"`
	TotalDebit  string `json:"totalDebit"`
	TotalCredit string `json:"totalCredit"`
	IsBalanced  bool   `json:"isBalanced"`
}

func TestTrial_SameForBothSources(t *testing.T) {
	var fromCSV, fromSQLite trialBalance
	runJSON(t, importedProject(t, "csv"), &fromCSV, "trial")
	runJSON(t, importedProject(t, "sqlite"), &fromSQLite, "trial")

	require.NotEmpty(t, fromCSV.Rows)
	assert.Equal(t, "1110", fromCSV.Rows[0].Code)
	assert.Equal(t, fromCSV, fromSQLite)
}

func TestLedger_Account(t *testing.T) {
	dir := importedProject(t, "csv")

	var entries []struct {
		AccountCode string `json:"accountCode"`
		Reference   string `json:"reference"`
	}
	runJSON(t, dir, &entries, "ledger", "--account", "1110")
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "1110", e.AccountCode)
	}
	assert.Equal(t, "T-001", entries[0].Reference)

	out, err := runTally(t, "ledger", "--dir", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "General Ledger")
	assert.Contains(t, out, "3 issue(s)")
}

func TestReports(t *testing.T) {
	dir := importedProject(t, "csv")

	var pnl struct {
		Year   int               `json:"year"`
		Months []json.RawMessage `json:"months"`
	}
	runJSON(t, dir, &pnl, "report", "pnl", "--year", "2024")
	assert.Equal(t, 2024, pnl.Year)
	assert.Len(t, pnl.Months, 12)

	var bs struct {
		AsOf             string `json:"asOf"`
		EquityIsResidual bool   `json:"equityIsResidual"`
	}
	runJSON(t, dir, &bs, "report", "balance-sheet", "--as-of", "2024-03-31")
	assert.Equal(t, "2024-03-31", bs.AsOf)
	assert.True(t, bs.EquityIsResidual)

	for _, args := range [][]string{
		{"report", "vat", "--year", "2024"},
		{"report", "cash-flow", "--from", "2024-01-01", "--to", "2024-03-31"},
		{"report", "fx", "--as-of", "2024-03-31"},
		{"balances"},
	} {
		out, err := runTally(t, append(args, "--dir", dir, "--log-level", "error")...)
		require.NoError(t, err, out)
	}

	out, err := runTally(t, "report", "cash-flow", "--dir", dir, "--from", "2024-03-01", "--to", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, out, "is before --from")

	var st struct {
		Name        string            `json:"name"`
		Lines       []json.RawMessage `json:"lines"`
		BaseBalance string            `json:"baseBalance"`
	}
	runJSON(t, dir, &st, "report", "statement", "customer", "C-2")
	assert.Equal(t, "Gulf Imports", st.Name)
	assert.Len(t, st.Lines, 2)
	assert.Equal(t, "487.5", st.BaseBalance)

	out, err = runTally(t, "report", "statement", "vendor", "C-2", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, `invalid party "vendor"`)
}

func TestCheck(t *testing.T) {
	dir := importedProject(t, "csv")

	out, err := runTally(t, "check", "--dir", dir, "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 issue(s)")
	assert.Contains(t, out, "All postings valid")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "issues.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "S-004")

	_, err = runTally(t, "check", "--dir", dir, "--strict", "--log-level", "error")
	require.Error(t, err, "issues fail a strict check")
}

func TestProjectCommand_NoConfig(t *testing.T) {
	out, err := runTally(t, "trial", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "reading config")
}

func TestExport(t *testing.T) {
	dir := importedProject(t, "csv")

	out, err := runTally(t, "export", "--dir", dir, "--log-level", "error")
	require.NoError(t, err, out)
	assert.Contains(t, out, filepath.Join(dir, "exports", "journal.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "exports", "trial-balance.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "account_code,account_name,account_type,debit,credit,balance")
	assert.Contains(t, string(data), ",Total,,")
}

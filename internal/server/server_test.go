package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/project"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default("Sample Co", "trading")

	snap, err := importer.DefaultRegistry().LoadDir("../../testdata/sample")
	require.NoError(t, err)
	require.NoError(t, importer.DefaultRegistry().WriteDir(filepath.Join(root, cfg.Source.DataDir), snap))

	p, err := project.New(root, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	s := New(p, "", zerolog.Nop())
	s.today = func() civil.Date { return civil.Date{Year: 2024, Month: time.March, Day: 31} }

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp
}

func TestTrialBalance(t *testing.T) {
	ts := newTestServer(t)

	var tb struct {
		Rows []struct {
			Code    string          `json:"code"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"rows"`
		TotalDebit  decimal.Decimal `json:"totalDebit"`
		TotalCredit decimal.Decimal `json:"totalCredit"`
		Difference  decimal.Decimal `json:"difference"`
		IsBalanced  bool            `json:"isBalanced"`
	}
	resp := get(t, ts, "/api/v1/trial-balance", &tb)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	require.NotEmpty(t, tb.Rows)
	assert.Equal(t, "1110", tb.Rows[0].Code)
	assert.True(t, tb.TotalDebit.Sub(tb.TotalCredit).Abs().Equal(tb.Difference))
	assert.Equal(t, tb.Difference.IsZero(), tb.IsBalanced)
}

func TestRequestID_Echoed(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/chart", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestLedger_AccountFilter(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		Account string `json:"account"`
		Base    string `json:"base"`
		Entries []struct {
			AccountCode string `json:"accountCode"`
			Date        string `json:"date"`
		} `json:"entries"`
	}
	resp := get(t, ts, "/api/v1/ledger?account=1110", &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1110", out.Account)
	assert.Equal(t, "SAR", out.Base)
	require.NotEmpty(t, out.Entries)
	for _, e := range out.Entries {
		assert.Equal(t, "1110", e.AccountCode)
	}
	assert.Equal(t, "2024-01-01", out.Entries[0].Date)

	resp = get(t, ts, "/api/v1/ledger?account=9999", &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, out.Entries)
}

func TestIssues(t *testing.T) {
	ts := newTestServer(t)

	var out struct {
		Issues []struct {
			Kind string `json:"kind"`
			Ref  string `json:"ref"`
		} `json:"issues"`
		Excluded int `json:"excluded"`
	}
	get(t, ts, "/api/v1/issues", &out)
	assert.Equal(t, 3, out.Excluded)
	assert.Len(t, out.Issues, 3)
}

func TestChart(t *testing.T) {
	ts := newTestServer(t)
	var out []map[string]any
	get(t, ts, "/api/v1/chart", &out)
	assert.Len(t, out, 10)

	var assets []map[string]any
	get(t, ts, "/api/v1/chart?type=asset", &assets)
	require.Len(t, assets, 4)
	assert.Equal(t, "1110", assets[0]["code"])

	var bad errorResponse
	resp := get(t, ts, "/api/v1/chart?type=income", &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `invalid type "income"`, bad.Error)
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)

	var pnl struct {
		Year   int               `json:"year"`
		Months []json.RawMessage `json:"months"`
	}
	resp := get(t, ts, "/api/v1/reports/pnl?year=2024", &pnl)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2024, pnl.Year)
	assert.Len(t, pnl.Months, 12)

	var vat struct {
		Year int `json:"year"`
	}
	get(t, ts, "/api/v1/reports/vat", &vat)
	assert.Equal(t, 2024, vat.Year, "defaults to the current year")

	var cf struct {
		Lines []json.RawMessage `json:"lines"`
	}
	resp = get(t, ts, "/api/v1/reports/cash-flow?from=2024-01-01&to=2024-03-31", &cf)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, cf.Lines)

	var bs struct {
		AsOf             string `json:"asOf"`
		EquityIsResidual bool   `json:"equityIsResidual"`
	}
	get(t, ts, "/api/v1/reports/balance-sheet?as_of=2024-02-29", &bs)
	assert.Equal(t, "2024-02-29", bs.AsOf)
	assert.True(t, bs.EquityIsResidual)

	var fxr struct {
		AsOf string `json:"asOf"`
	}
	resp = get(t, ts, "/api/v1/reports/fx", &fxr)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2024-03-31", fxr.AsOf)
}

func TestStatement(t *testing.T) {
	ts := newTestServer(t)

	var st struct {
		Name  string `json:"name"`
		Lines []struct {
			Ref     string `json:"ref"`
			Balance string `json:"balance"`
		} `json:"lines"`
		Totals []struct {
			Currency string `json:"currency"`
			Balance  string `json:"balance"`
		} `json:"totals"`
		BaseBalance string `json:"baseBalance"`
	}
	resp := get(t, ts, "/api/v1/statements/customer/C-2", &st)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Gulf Imports", st.Name)
	require.Len(t, st.Lines, 2)
	assert.Equal(t, "S-002", st.Lines[0].Ref)
	assert.Equal(t, "RV-001", st.Lines[1].Ref)
	require.Len(t, st.Totals, 1)
	assert.Equal(t, "USD", st.Totals[0].Currency)
	assert.Equal(t, "130", st.Totals[0].Balance)
	assert.Equal(t, "487.5", st.BaseBalance)

	var empty struct {
		Lines []json.RawMessage `json:"lines"`
	}
	get(t, ts, "/api/v1/statements/supplier/nobody", &empty)
	assert.NotNil(t, empty.Lines)
	assert.Empty(t, empty.Lines)

	var bad errorResponse
	resp = get(t, ts, "/api/v1/statements/vendor/V-1", &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, `invalid party "vendor": must be customer or supplier`, bad.Error)
}

func TestBadParams(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path string
		msg  string
	}{
		{"/api/v1/reports/pnl?year=abc", `invalid year "abc"`},
		{"/api/v1/reports/vat?year=0", `invalid year "0"`},
		{"/api/v1/reports/balance-sheet?as_of=2024-02-30", `invalid as_of "2024-02-30"`},
		{"/api/v1/reports/cash-flow?from=2024-03-01&to=2024-01-01", "to is before from"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var out errorResponse
			resp := get(t, ts, tt.path, &out)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.msg, out.Error)
		})
	}
}

func TestRateAge(t *testing.T) {
	ts := newTestServer(t)
	var age struct {
		LastUpdate string `json:"lastUpdate"`
		DaysOld    int    `json:"daysOld"`
		Stale      bool   `json:"stale"`
	}
	get(t, ts, "/api/v1/rates/age", &age)
	assert.Equal(t, "2024-03-01", age.LastUpdate)
	assert.Equal(t, 30, age.DaysOld)
	assert.True(t, age.Stale)
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)
	var out struct {
		Valid      bool     `json:"valid"`
		Violations []string `json:"violations"`
	}
	get(t, ts, "/api/v1/validate", &out)
	assert.True(t, out.Valid, out.Violations)
}

package reports

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/classify"
	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func chart() *accounts.Service {
	return accounts.NewService(accounts.DefaultChart(""))
}

func usdRate(r, d string) model.ExchangeRate {
	return model.ExchangeRate{From: "USD", To: "SAR", Rate: dec(r), Date: d}
}

// postBook runs snap through the default classifier with SAR as base.
func postBook(t *testing.T, snap *model.Snapshot) (*ledger.Book, *fx.Normalizer) {
	t.Helper()
	c, err := classify.New(classify.DefaultTable(), chart())
	require.NoError(t, err)
	n := fx.NewNormalizer("SAR", fx.NewRateBook(snap.Rates))
	book, err := ledger.NewBuilder(c, n).Post(snap)
	require.NoError(t, err)
	return book, n
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !dec(want).Equal(got) {
		require.Failf(t, "decimal mismatch", "want %s, got %s %v", want, got, msgAndArgs)
	}
}

package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/fx"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func TestFxGainLoss(t *testing.T) {
	book, n := postBook(t, &model.Snapshot{
		Rates: []model.ExchangeRate{
			usdRate("3.70", "2024-01-01"),
			usdRate("3.80", "2024-06-01"),
			{From: "OMR", To: "SAR", Rate: dec("9.75"), Date: "2024-01-01"},
		},
		Sales: []model.Sale{
			{ID: "paid", Date: "2024-01-10", GrandTotal: dec("100"), Currency: "USD", Status: "paid"},
			{ID: "open", Date: "2024-02-10", GrandTotal: dec("200"), Currency: "USD", Status: "pending"},
			{ID: "flat", Date: "2024-02-11", GrandTotal: dec("10"), Currency: "OMR"},
			{ID: "local", Date: "2024-02-12", GrandTotal: dec("500")},
			{ID: "future", Date: "2024-09-01", GrandTotal: dec("1"), Currency: "USD"},
		},
	})

	r := BuildFxGainLoss(book, n, fx.NewPrecision(nil), date(2024, time.June, 30))

	require.Len(t, r.Lines, 2)
	// Newest first.
	assert.Equal(t, "open", r.Lines[0].Ref)
	assert.Equal(t, "paid", r.Lines[1].Ref)

	open := r.Lines[0]
	assertDec(t, "200", open.Amount)
	assertDec(t, "740", open.BookedBase)
	assertDec(t, "760", open.CurrentBase)
	assertDec(t, "20", open.GainLoss)
	assert.False(t, open.Realized)

	assert.True(t, r.Lines[1].Realized)
	assertDec(t, "10", r.Realized)
	assertDec(t, "20", r.Unrealized)
	assertDec(t, "30", r.TotalGain)
	assert.True(t, r.TotalLoss.IsZero())
	assertDec(t, "30", r.Net)
	assert.Empty(t, r.Issues)
}

func TestFxGainLoss_LossAndMissingRate(t *testing.T) {
	book, n := postBook(t, &model.Snapshot{
		Rates: []model.ExchangeRate{usdRate("3.80", "2024-01-01"), usdRate("3.75", "2024-03-01")},
		Sales: []model.Sale{
			{ID: "s1", Date: "2024-01-10", GrandTotal: dec("100"), Currency: "USD"},
			{ID: "eur", Date: "2024-01-10", GrandTotal: dec("100"), Currency: "EUR", ExchangeRate: dec("4")},
		},
	})

	r := BuildFxGainLoss(book, n, fx.NewPrecision(nil), date(2024, time.April, 1))
	require.Len(t, r.Lines, 1)
	assertDec(t, "-5", r.Lines[0].GainLoss)
	assertDec(t, "5", r.TotalLoss)
	assertDec(t, "-5", r.Net)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, ledger.MissingExchangeRate, r.Issues[0].Kind)
	assert.Equal(t, "eur", r.Issues[0].Ref)
}

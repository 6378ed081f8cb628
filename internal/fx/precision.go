package fx

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// defaultPlaces applies to currencies unknown to both the overrides and the
// ISO table.
const defaultPlaces = 2

// Precision resolves how many decimal places a currency is presented with.
type Precision struct {
	overrides map[string]int32
}

// NewPrecision returns a Precision with per-currency overrides, e.g. the
// business may keep YER at 0 places.
func NewPrecision(overrides map[string]int) Precision {
	p := Precision{overrides: make(map[string]int32, len(overrides))}
	for code, places := range overrides {
		if places < 0 {
			continue
		}
		p.overrides[normalizeCode(code)] = int32(places)
	}
	return p
}

// Places returns the decimal places for currency: the override if set, else
// the ISO 4217 minor units, else 2.
func (p Precision) Places(currency string) int32 {
	code := normalizeCode(currency)
	if places, ok := p.overrides[code]; ok {
		return places
	}
	if code != "" {
		if c := money.GetCurrency(code); c != nil {
			return int32(c.Fraction)
		}
	}
	return defaultPlaces
}

// Round rounds amount for presentation in currency. Accumulation never goes
// through here.
func (p Precision) Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(p.Places(currency))
}

// Format renders amount with exactly the currency's decimal places.
func (p Precision) Format(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(p.Places(currency))
}

// Symbol returns the currency's grapheme from the ISO table, or its code.
func Symbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if c := money.GetCurrency(code); c != nil && c.Grapheme != "" {
		return c.Grapheme
	}
	return code
}

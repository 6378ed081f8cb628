package fx

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// divPrecision is the scale kept when inverting a rate.
const divPrecision = 16

// Normalizer converts event amounts into the base currency.
type Normalizer struct {
	base string
	book *RateBook
}

// NewNormalizer returns a Normalizer for base backed by book.
func NewNormalizer(base string, book *RateBook) *Normalizer {
	if book == nil {
		book = NewRateBook(nil)
	}
	return &Normalizer{base: normalizeCode(base), book: book}
}

// Base returns the base currency code.
func (n *Normalizer) Base() string {
	return n.base
}

// Book returns the rate book.
func (n *Normalizer) Book() *RateBook {
	return n.book
}

// IsBase reports whether currency is the base currency. An empty code means
// base.
func (n *Normalizer) IsBase(currency string) bool {
	c := normalizeCode(currency)
	return c == "" || c == n.base
}

// ToBase converts amount from currency into the base currency at the rate
// in force on the given date. Amounts already in the base currency are
// returned unchanged without a lookup. The returned rate is the one applied.
func (n *Normalizer) ToBase(amount decimal.Decimal, currency string, on civil.Date) (decimal.Decimal, decimal.Decimal, error) {
	if n.IsBase(currency) {
		return amount, decimal.NewFromInt(1), nil
	}
	rate, ok := n.book.Rate(currency, n.base, on)
	if !ok {
		return decimal.Zero, decimal.Zero, &MissingRateError{From: normalizeCode(currency), To: n.base, On: on}
	}
	return amount.Mul(rate), rate, nil
}

// ToBaseOr is ToBase with an explicit fallback rate, used when the record
// carries the rate captured at entry time. A zero or negative fallback is
// ignored.
func (n *Normalizer) ToBaseOr(amount decimal.Decimal, currency string, on civil.Date, fallback decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	converted, rate, err := n.ToBase(amount, currency, on)
	if err == nil || !fallback.IsPositive() {
		return converted, rate, err
	}
	return amount.Mul(fallback), fallback, nil
}

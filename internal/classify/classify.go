// Package classify maps business events to an account code, name and
// posting side using an injectable Table.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/model"
)

// Classification is the account assignment for one event, in the event's
// own currency. Exactly one of Debit and Credit is non-zero, or both are zero.
type Classification struct {
	Code         string
	Name         string
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Unclassified bool
}

// Amount returns Debit - Credit.
func (c Classification) Amount() decimal.Decimal {
	return c.Debit.Sub(c.Credit)
}

// Classifier applies a Table to events.
type Classifier struct {
	table Table
	chart *accounts.Service
}

// New validates table against chart and returns a Classifier. Every code
// the table references must exist in the chart.
func New(table Table, chart *accounts.Service) (*Classifier, error) {
	refs := table.codes()
	keys := make([]string, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var missing []string
	for _, k := range keys {
		code := refs[k]
		if code == "" {
			missing = append(missing, k+": empty code")
			continue
		}
		if !chart.Exists(code) {
			missing = append(missing, fmt.Sprintf("%s: unknown account %s", k, code))
		}
	}
	for name, rule := range table.rules() {
		if rule.Side != Debit && rule.Side != Credit {
			missing = append(missing, fmt.Sprintf("%s: invalid side %q", name, rule.Side))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("invalid classification table: %s", strings.Join(missing, "; "))
	}
	return &Classifier{table: table, chart: chart}, nil
}

// Table returns the classifier's table.
func (c *Classifier) Table() Table {
	return c.table
}

// Chart returns the chart the classifier was validated against.
func (c *Classifier) Chart() *accounts.Service {
	return c.chart
}

// Classify assigns an account and side to e. It never fails: events that no
// rule matches land in the unclassified bucket with Unclassified set.
func (c *Classifier) Classify(e model.Event) Classification {
	switch ev := e.(type) {
	case model.Transaction:
		code, ok := c.table.TransactionLabels[strings.TrimSpace(ev.Label)]
		if !ok {
			code = c.table.TransactionDefault
		}
		if code == "" {
			return c.unclassified(ev.Amount)
		}
		return c.signed(code, ev.Amount)
	case model.Sale:
		return c.apply(c.table.Sale, ev.GrandTotal)
	case model.Purchase:
		return c.apply(c.table.Purchase, ev.GrandTotal)
	case model.Expense:
		return c.apply(c.table.Expense, ev.Total)
	case model.ReceiptVoucher:
		return c.apply(c.table.ReceiptVoucher, ev.Amount)
	case model.PaymentVoucher:
		return c.apply(c.table.PaymentVoucher, ev.Amount)
	case model.SaleReturn:
		return c.apply(c.table.SaleReturn, ev.GrandTotal)
	case model.PurchaseReturn:
		return c.apply(c.table.PurchaseReturn, ev.GrandTotal)
	}
	return c.unclassified(decimal.Zero)
}

// apply posts amount to the rule's side. A negative amount posts its
// absolute value to the opposite side.
func (c *Classifier) apply(rule Rule, amount decimal.Decimal) Classification {
	if rule.Side == Credit {
		amount = amount.Neg()
	}
	return c.signed(rule.Code, amount)
}

// signed posts a positive amount as a debit and a negative one as a credit.
func (c *Classifier) signed(code string, amount decimal.Decimal) Classification {
	cl := Classification{Code: code, Name: c.chart.Name(code)}
	if amount.IsNegative() {
		cl.Credit = amount.Abs()
	} else {
		cl.Debit = amount
	}
	return cl
}

func (c *Classifier) unclassified(amount decimal.Decimal) Classification {
	cl := c.signed(c.table.Unclassified, amount)
	cl.Unclassified = true
	return cl
}

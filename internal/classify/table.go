package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/accounts"
)

// Side is the ledger side a rule posts to.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Rule posts the whole amount of an event to one account side.
type Rule struct {
	Code string `yaml:"code"`
	Side Side   `yaml:"side"`
}

// Table is the classification data consulted by a Classifier.
type Table struct {
	// TransactionLabels maps a manual transaction's label to an account code.
	TransactionLabels map[string]string `yaml:"transaction_labels"`
	// TransactionDefault is used for labels not in TransactionLabels. Empty
	// sends them to Unclassified.
	TransactionDefault string `yaml:"transaction_default"`

	Sale           Rule `yaml:"sale"`
	Purchase       Rule `yaml:"purchase"`
	Expense        Rule `yaml:"expense"`
	ReceiptVoucher Rule `yaml:"receipt_voucher"`
	PaymentVoucher Rule `yaml:"payment_voucher"`
	// Returns post against the invoice's account on the opposite side.
	SaleReturn     Rule `yaml:"sale_return"`
	PurchaseReturn Rule `yaml:"purchase_return"`

	// Unclassified receives events no rule matches.
	Unclassified string `yaml:"unclassified"`
	// Cash is the account balance sheets and cash reports read as cash.
	Cash string `yaml:"cash"`
}

// DefaultTable returns the built-in classification rules.
func DefaultTable() Table {
	return Table{
		TransactionLabels: map[string]string{
			"مبيعات": accounts.CodeSales,
			"مصاريف": accounts.CodeExpenses,
		},
		TransactionDefault: accounts.CodeCash,
		Sale:               Rule{Code: accounts.CodeSales, Side: Credit},
		Purchase:           Rule{Code: accounts.CodeCOGS, Side: Debit},
		Expense:            Rule{Code: accounts.CodeExpenses, Side: Debit},
		ReceiptVoucher:     Rule{Code: accounts.CodeCash, Side: Debit},
		PaymentVoucher:     Rule{Code: accounts.CodeCash, Side: Credit},
		SaleReturn:         Rule{Code: accounts.CodeSales, Side: Debit},
		PurchaseReturn:     Rule{Code: accounts.CodeCOGS, Side: Credit},
		Unclassified:       accounts.CodeSuspense,
		Cash:               accounts.CodeCash,
	}
}

// LoadTable reads a YAML classification table. Keys missing from the file
// keep their DefaultTable values; transaction_labels replaces the default
// label map when present.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading classification table: %w", err)
	}
	t := DefaultTable()
	t.TransactionLabels = nil
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parsing classification table: %w", err)
	}
	if t.TransactionLabels == nil {
		t.TransactionLabels = DefaultTable().TransactionLabels
	}
	return t, nil
}

// SaveTable writes t as YAML to path.
func SaveTable(path string, t Table) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling classification table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing classification table: %w", err)
	}
	return nil
}

// codes returns every account code the table references, keyed by the
// table field that names it.
func (t Table) codes() map[string]string {
	refs := map[string]string{
		"sale":            t.Sale.Code,
		"purchase":        t.Purchase.Code,
		"expense":         t.Expense.Code,
		"receipt_voucher": t.ReceiptVoucher.Code,
		"payment_voucher": t.PaymentVoucher.Code,
		"sale_return":     t.SaleReturn.Code,
		"purchase_return": t.PurchaseReturn.Code,
		"unclassified":    t.Unclassified,
		"cash":            t.Cash,
	}
	if t.TransactionDefault != "" {
		refs["transaction_default"] = t.TransactionDefault
	}
	for label, code := range t.TransactionLabels {
		refs["transaction_labels."+label] = code
	}
	return refs
}

func (t Table) rules() map[string]Rule {
	return map[string]Rule{
		"sale":            t.Sale,
		"purchase":        t.Purchase,
		"expense":         t.Expense,
		"receipt_voucher": t.ReceiptVoucher,
		"payment_voucher": t.PaymentVoucher,
		"sale_return":     t.SaleReturn,
		"purchase_return": t.PurchaseReturn,
	}
}

package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/tally/internal/model"
)

// chartFile is the chart location relative to a project root.
const chartFile = "accounts/chart-of-accounts.csv"

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
	position map[string]int
}

// NewService creates a Service from a slice of accounts. Slice order is the
// presentation order used by trial balances and reports. If a code repeats,
// the first account wins.
func NewService(accounts []model.Account) *Service {
	byCode := make(map[string]model.Account, len(accounts))
	position := make(map[string]int, len(accounts))
	for i, a := range accounts {
		if _, seen := position[a.Code]; seen {
			continue
		}
		byCode[a.Code] = a
		position[a.Code] = i
	}
	return &Service{accounts: accounts, byCode: byCode, position: position}
}

// Load reads accounts/chart-of-accounts.csv from a project root.
func Load(root string) (*Service, error) {
	f, err := os.Open(filepath.Join(root, chartFile))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// LoadOrDefault is Load, falling back to the default chart when the project
// has no chart file.
func LoadOrDefault(root string) (*Service, error) {
	svc, err := Load(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewService(DefaultChart("")), nil
		}
		return nil, err
	}
	return svc, nil
}

// All returns all accounts in chart order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Name returns the account name for code, or the code itself when unknown.
func (s *Service) Name(code string) string {
	if a, ok := s.byCode[code]; ok {
		return a.Name
	}
	return code
}

// Position returns the chart index of code. Unknown codes sort after every
// known account.
func (s *Service) Position(code string) (int, bool) {
	p, ok := s.position[code]
	if !ok {
		return len(s.accounts), false
	}
	return p, true
}

// Less orders two codes by chart position, then lexically for codes outside
// the chart.
func (s *Service) Less(a, b string) bool {
	pa, okA := s.Position(a)
	pb, okB := s.Position(b)
	if okA && okB {
		return pa < pb
	}
	if okA != okB {
		return okA
	}
	return a < b
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, filepath.Dir(chartFile))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, chartFile))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

package accounts

import "github.com/cleared-dev/tally/internal/model"

// Well-known account codes used by the default classification table.
const (
	CodeCash        = "1110"
	CodeReceivables = "1120"
	CodeInventory   = "1130"
	CodeSuspense    = "1199"
	CodePayables    = "2110"
	CodeCapital     = "3100"
	CodeRetained    = "3200"
	CodeSales       = "4100"
	CodeCOGS        = "5100"
	CodeExpenses    = "5200"
)

// DefaultChart returns the default chart of accounts for a business type.
func DefaultChart(businessType string) []model.Account {
	switch businessType {
	case "trading":
		return tradingChart()
	default:
		return tradingChart()
	}
}

func tradingChart() []model.Account {
	return []model.Account{
		{Code: CodeCash, Name: "Cash and Banks", Type: model.AccountTypeAsset, Description: "النقدية والبنوك"},
		{Code: CodeReceivables, Name: "Accounts Receivable", Type: model.AccountTypeAsset, Description: "العملاء"},
		{Code: CodeInventory, Name: "Inventory", Type: model.AccountTypeAsset, Description: "المخزون"},
		{Code: CodeSuspense, Name: "Suspense", Type: model.AccountTypeAsset, Description: "Postings that matched no classification rule"},
		{Code: CodePayables, Name: "Accounts Payable", Type: model.AccountTypeLiability, Description: "الموردين"},
		{Code: CodeCapital, Name: "Capital", Type: model.AccountTypeEquity, Description: "رأس المال"},
		{Code: CodeRetained, Name: "Retained Earnings", Type: model.AccountTypeEquity, Description: "الأرباح المحتجزة"},
		{Code: CodeSales, Name: "Sales Revenue", Type: model.AccountTypeRevenue, Description: "المبيعات"},
		{Code: CodeCOGS, Name: "Cost of Goods Sold", Type: model.AccountTypeExpense, Description: "تكلفة البضاعة المباعة"},
		{Code: CodeExpenses, Name: "General Expenses", Type: model.AccountTypeExpense, Description: "المصاريف"},
	}
}

package domain

import "github.com/shopspring/decimal"

// The report shapes below are consumed, never computed, by the client; all
// balance math lives server-side.

// ProfitLossRow is one income or expense account in the P&L report.
type ProfitLossRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

type ProfitLossReport struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	Rows         []ProfitLossRow `json:"rows"`
}

// BalanceSheetRow is one asset, liability, or equity account balance.
type BalanceSheetRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

type BalanceSheetReport struct {
	AsOf                     string            `json:"as_of"`
	AssetTotal               decimal.Decimal   `json:"asset_total"`
	LiabilityTotal           decimal.Decimal   `json:"liability_total"`
	EquityTotal              decimal.Decimal   `json:"equity_total"`
	LiabilityPlusEquityTotal decimal.Decimal   `json:"liability_plus_equity_total"`
	Rows                     []BalanceSheetRow `json:"rows"`
}

type CashFlowReport struct {
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	CashInflow      decimal.Decimal `json:"cash_inflow"`
	CashOutflow     decimal.Decimal `json:"cash_outflow"`
	NetCashMovement decimal.Decimal `json:"net_cash_movement"`
}

// ReportTrialBalanceRow differs from TrialBalanceRow only in field naming;
// it belongs to the reports module rather than the ledger module.
type ReportTrialBalanceRow struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

type ReportTrialBalance struct {
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Rows      []ReportTrialBalanceRow `json:"rows"`
}

// GeneralLedgerRow is one posted journal line in the general ledger report.
type GeneralLedgerRow struct {
	LineID      string          `json:"line_id"`
	EntryID     string          `json:"entry_id"`
	EntryNo     *int64          `json:"entry_no"`
	EntryDate   string          `json:"entry_date"`
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type GeneralLedgerReport struct {
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Limit     int                `json:"limit"`
	Rows      []GeneralLedgerRow `json:"rows"`
}

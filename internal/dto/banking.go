package dto

import "github.com/shopspring/decimal"

// CreateBankAccountRequest registers a bank account against a ledger account.
type CreateBankAccountRequest struct {
	Name               string `json:"name" binding:"required"`
	AccountNumberLast4 string `json:"account_number_last4,omitempty"`
	CurrencyCode       string `json:"currency_code,omitempty"`
	LedgerAccountID    string `json:"ledger_account" binding:"required"`
	IsActive           *bool  `json:"is_active,omitempty"`
}

// CreateBankImportRequest uploads a raw bank statement for parsing.
type CreateBankImportRequest struct {
	BankAccountID string `json:"bank_account" binding:"required"`
	FileName      string `json:"file_name" binding:"required"`
	RawContent    string `json:"raw_content" binding:"required"`
}

// MatchTransactionRequest matches a bank transaction to a journal entry.
type MatchTransactionRequest struct {
	JournalEntryID string `json:"journal_entry_id" binding:"required"`
}

// CreateReconciliationRequest opens a draft reconciliation over a statement
// period.
type CreateReconciliationRequest struct {
	BankAccountID  string          `json:"bank_account" binding:"required"`
	StartDate      string          `json:"start_date" binding:"required"`
	EndDate        string          `json:"end_date" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// ReplaceReconciliationLinesRequest replaces the included bank-transaction
// set of a draft reconciliation wholesale.
type ReplaceReconciliationLinesRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required"`
}

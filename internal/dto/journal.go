package dto

import "github.com/shopspring/decimal"

// CreateJournalRequest creates a draft journal entry header.
type CreateJournalRequest struct {
	EntryDate   string `json:"entry_date" binding:"required"`
	Description string `json:"description,omitempty"`
}

// JournalLineInput is one line in a wholesale line replacement. Amounts are
// non-negative; exactly one of debit/credit should be non-zero per line.
type JournalLineInput struct {
	AccountID   string          `json:"account_id" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// ReplaceJournalLinesRequest replaces all lines of a draft journal entry.
type ReplaceJournalLinesRequest struct {
	Lines []JournalLineInput `json:"lines" binding:"required"`
}

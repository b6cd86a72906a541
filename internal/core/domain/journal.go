package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one side of a double-entry posting. Exactly one of Debit or
// Credit is non-zero.
type JournalLine struct {
	ID          string          `json:"id"`
	LineNo      int             `json:"line_no"`
	AccountID   string          `json:"account"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntry is a manual or system-generated ledger entry. EntryNo is
// assigned at posting. Voiding never rewrites history: it records void
// metadata on the entry and creates a linked reversal entry.
type JournalEntry struct {
	ID            string     `json:"id" validate:"required"`
	CompanyID     string     `json:"company"`
	EntryNo       *int64     `json:"entry_no"`
	Status        Status     `json:"status" validate:"required"`
	EntryDate     string     `json:"entry_date"`
	Description   string     `json:"description"`
	ReferenceType string     `json:"reference_type"`
	ReferenceID   *string    `json:"reference_id"`
	PostedAt      *time.Time `json:"posted_at"`
	PostedBy      *string    `json:"posted_by_user"`
	VoidedAt      *time.Time `json:"voided_at"`
	VoidedBy      *string    `json:"voided_by_user"`
	AuditTimes
	Lines []JournalLine `json:"lines"`
}

func (j JournalEntry) CanReplaceLines() bool { return Can(KindJournal, j.Status, ActionReplaceLines) }
func (j JournalEntry) CanPost() bool         { return Can(KindJournal, j.Status, ActionPost) && len(j.Lines) > 0 }
func (j JournalEntry) CanVoid() bool         { return Can(KindJournal, j.Status, ActionVoid) }

// Balanced reports whether total debits equal total credits.
func (j JournalEntry) Balanced() bool {
	debits, credits := decimal.Zero, decimal.Zero
	for _, line := range j.Lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits.Equal(credits)
}

// VoidJournalResult identifies both artifacts of a journal void: the entry
// that was voided and the reversal entry recorded for it.
type VoidJournalResult struct {
	VoidedID   string `json:"voided_id"`
	ReversalID string `json:"reversal_id"`
}

// TrialBalanceRow is one account's totals in the ledger trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"account__id"`
	AccountCode string          `json:"account__code"`
	AccountName string          `json:"account__name"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

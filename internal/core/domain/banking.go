package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount links a physical bank account to its ledger account.
type BankAccount struct {
	ID                 string `json:"id" validate:"required"`
	CompanyID          string `json:"company"`
	Name               string `json:"name"`
	AccountNumberLast4 string `json:"account_number_last4"`
	CurrencyCode       string `json:"currency_code"`
	LedgerAccountID    string `json:"ledger_account"`
	IsActive           bool   `json:"is_active"`
	AuditTimes
}

// BankImportStatus is the state of an uploaded bank statement file.
type BankImportStatus string

const (
	ImportUploaded BankImportStatus = "uploaded"
	ImportParsed   BankImportStatus = "parsed"
	ImportFailed   BankImportStatus = "failed"
)

// BankStatementImport is one uploaded statement file and its parse outcome.
type BankStatementImport struct {
	ID                  string           `json:"id" validate:"required"`
	CompanyID           string           `json:"company"`
	BankAccountID       string           `json:"bank_account"`
	FileName            string           `json:"file_name"`
	Status              BankImportStatus `json:"status"`
	RawContent          string           `json:"raw_content"`
	ErrorMessage        string           `json:"error_message"`
	ImportedBy          *string          `json:"imported_by_user"`
	TransactionsCreated int              `json:"transactions_created,omitempty"`
	AuditTimes
}

// BankTransactionStatus is the reconciliation state of an imported bank
// transaction.
type BankTransactionStatus string

const (
	TxnImported   BankTransactionStatus = "imported"
	TxnMatched    BankTransactionStatus = "matched"
	TxnReconciled BankTransactionStatus = "reconciled"
	TxnIgnored    BankTransactionStatus = "ignored"
)

// BankTransaction is one line from a bank statement.
type BankTransaction struct {
	ID              string                `json:"id" validate:"required"`
	CompanyID       string                `json:"company"`
	BankAccountID   string                `json:"bank_account"`
	BankAccountName string                `json:"bank_account_name"`
	StatementImport *string               `json:"statement_import"`
	TxnDate         string                `json:"txn_date"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	Amount          decimal.Decimal       `json:"amount"`
	Status          BankTransactionStatus `json:"status"`
	MatchedEntryID  *string               `json:"matched_journal_entry"`
	MatchedEntryNo  *int64                `json:"matched_entry_no"`
	AuditTimes
}

// BankTransactionQuery narrows a bank transaction listing. Zero values mean
// no filtering on that field.
type BankTransactionQuery struct {
	BankAccountID string
	Status        BankTransactionStatus
	DateFrom      string
	DateTo        string
	Limit         int
}

// ReconciliationLine references one bank transaction included in a
// reconciliation. The line set is replaced wholesale while draft.
type ReconciliationLine struct {
	ID                string `json:"id"`
	BankTransactionID string `json:"bank_transaction_id"`
}

// BankReconciliation is a statement-to-ledger matching session. Finalize is
// one-way; there is no client-side undo.
type BankReconciliation struct {
	ID             string          `json:"id" validate:"required"`
	CompanyID      string          `json:"company"`
	BankAccountID  string          `json:"bank_account"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Status         Status          `json:"status" validate:"required"`
	FinalizedAt    *time.Time      `json:"finalized_at"`
	FinalizedBy    *string         `json:"finalized_by_user"`
	AuditTimes
	Lines []ReconciliationLine `json:"lines,omitempty"`
}

func (r BankReconciliation) CanReplaceLines() bool {
	return Can(KindReconciliation, r.Status, ActionReplaceLines)
}
func (r BankReconciliation) CanFinalize() bool {
	return Can(KindReconciliation, r.Status, ActionFinalize)
}

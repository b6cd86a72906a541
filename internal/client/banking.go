package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// FetchBankAccounts lists a company's bank accounts.
func (c *Client) FetchBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error) {
	return callList[domain.BankAccount](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/banking/companies/%s/bank-accounts/", companyID), requiresAuth: true,
	})
}

// CreateBankAccount registers a bank account.
func (c *Client) CreateBankAccount(ctx context.Context, companyID string, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/banking/companies/%s/bank-accounts/", companyID),
		body: req, requiresAuth: true,
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateBankAccount replaces a bank account's fields.
func (c *Client) UpdateBankAccount(ctx context.Context, companyID, bankAccountID string, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/banking/companies/%s/bank-accounts/%s/", companyID, bankAccountID),
		body: req, requiresAuth: true,
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteBankAccount removes a bank account.
func (c *Client) DeleteBankAccount(ctx context.Context, companyID, bankAccountID string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodDelete, path: fmt.Sprintf("/banking/companies/%s/bank-accounts/%s/", companyID, bankAccountID),
		requiresAuth: true,
	}, nil)
}

// FetchBankImports lists statement imports, optionally filtered by status.
func (c *Client) FetchBankImports(ctx context.Context, companyID string, status domain.BankImportStatus) ([]domain.BankStatementImport, error) {
	return callList[domain.BankStatementImport](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/banking/companies/%s/imports/", companyID),
		query: withQuery(map[string]string{"status": string(status)}), requiresAuth: true,
	})
}

// CreateBankImport uploads a raw statement for parsing.
func (c *Client) CreateBankImport(ctx context.Context, companyID string, req dto.CreateBankImportRequest) (*domain.BankStatementImport, error) {
	var imp domain.BankStatementImport
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/banking/companies/%s/imports/", companyID),
		body: req, requiresAuth: true,
	}, &imp)
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// BankTransactionFilter narrows a bank transaction listing.
type BankTransactionFilter struct {
	BankAccountID string
	Status        domain.BankTransactionStatus
	DateFrom      string
	DateTo        string
	Limit         int
}

// FetchBankTransactions lists imported bank transactions.
func (c *Client) FetchBankTransactions(ctx context.Context, companyID string, filter BankTransactionFilter) ([]domain.BankTransaction, error) {
	limit := ""
	if filter.Limit > 0 {
		limit = strconv.Itoa(filter.Limit)
	}
	return callList[domain.BankTransaction](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/banking/companies/%s/transactions/", companyID),
		query: withQuery(map[string]string{
			"bank_account_id": filter.BankAccountID,
			"status":          string(filter.Status),
			"date_from":       filter.DateFrom,
			"date_to":         filter.DateTo,
			"limit":           limit,
		}),
		requiresAuth: true,
	})
}

// MatchBankTransaction matches a bank transaction to a journal entry.
func (c *Client) MatchBankTransaction(ctx context.Context, companyID, transactionID, journalEntryID string) (*domain.BankTransaction, error) {
	var txn domain.BankTransaction
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/banking/companies/%s/transactions/%s/match/", companyID, transactionID),
		body: dto.MatchTransactionRequest{JournalEntryID: journalEntryID}, requiresAuth: true,
	}, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FetchReconciliations lists reconciliation sessions.
func (c *Client) FetchReconciliations(ctx context.Context, companyID string) ([]domain.BankReconciliation, error) {
	return callList[domain.BankReconciliation](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/banking/companies/%s/reconciliations/", companyID), requiresAuth: true,
	})
}

// CreateReconciliation opens a draft reconciliation over a statement period.
func (c *Client) CreateReconciliation(ctx context.Context, companyID string, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/banking/companies/%s/reconciliations/", companyID),
		body: req, requiresAuth: true,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FetchReconciliation fetches one reconciliation with its lines.
func (c *Client) FetchReconciliation(ctx context.Context, companyID, reconciliationID string) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/banking/companies/%s/reconciliations/%s/", companyID, reconciliationID),
		requiresAuth: true,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReplaceReconciliationLines replaces the included bank-transaction set of a
// draft reconciliation wholesale.
func (c *Client) ReplaceReconciliationLines(ctx context.Context, companyID, reconciliationID string, transactionIDs []string) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/banking/companies/%s/reconciliations/%s/lines/", companyID, reconciliationID),
		body: dto.ReplaceReconciliationLinesRequest{TransactionIDs: transactionIDs}, requiresAuth: true,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FinalizeReconciliation finalizes a draft reconciliation. One-way; there is
// no undo.
func (c *Client) FinalizeReconciliation(ctx context.Context, companyID, reconciliationID string) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/banking/companies/%s/reconciliations/%s/finalize/", companyID, reconciliationID),
		body: struct{}{}, requiresAuth: true,
	}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

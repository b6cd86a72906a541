package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// FetchJournals lists a company's journal entries.
func (c *Client) FetchJournals(ctx context.Context, companyID string) ([]domain.JournalEntry, error) {
	return callList[domain.JournalEntry](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/journals/companies/%s/journals/", companyID), requiresAuth: true,
	})
}

// CreateJournal creates a draft journal entry.
func (c *Client) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/journals/companies/%s/journals/", companyID),
		body: req, requiresAuth: true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceJournalLines replaces all lines of a draft entry wholesale. Legal
// only while the entry is draft; callers check CanReplaceLines first and the
// server enforces it regardless.
func (c *Client) ReplaceJournalLines(ctx context.Context, companyID, journalID string, lines []dto.JournalLineInput) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := c.call(ctx, requestSpec{
		method: http.MethodPut, path: fmt.Sprintf("/journals/companies/%s/journals/%s/lines/", companyID, journalID),
		body: dto.ReplaceJournalLinesRequest{Lines: lines}, requiresAuth: true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PostJournal posts a draft entry; the server assigns entry_no.
func (c *Client) PostJournal(ctx context.Context, companyID, journalID string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/journals/companies/%s/journals/%s/post/", companyID, journalID),
		body: struct{}{}, requiresAuth: true,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// VoidJournal voids a posted entry. The ledger effect is reversed by a new
// linked entry rather than by rewriting history, which is why the result
// names both the voided entry and the reversal artifact.
func (c *Client) VoidJournal(ctx context.Context, companyID, journalID string) (*domain.VoidJournalResult, error) {
	var result domain.VoidJournalResult
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/journals/companies/%s/journals/%s/void/", companyID, journalID),
		body: struct{}{}, requiresAuth: true,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchTrialBalance fetches the ledger trial balance.
func (c *Client) FetchTrialBalance(ctx context.Context, companyID string) ([]domain.TrialBalanceRow, error) {
	return callList[domain.TrialBalanceRow](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/journals/companies/%s/ledger/trial-balance/", companyID), requiresAuth: true,
	})
}

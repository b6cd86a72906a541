package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

func TestJournalService_PostLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Journal

	entry, err := svc.CreateJournal(f.ctx, f.admin.ID, f.company.ID, dto.CreateJournalRequest{
		EntryDate: "2026-03-01", Description: "Owner contribution",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, entry.Status)
	assert.Nil(t, entry.EntryNo)

	entry, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{
			{AccountID: f.accounts["1000"].ID, Debit: decimal.NewFromInt(500)},
			{AccountID: f.accounts["3000"].ID, Credit: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, "1000", entry.Lines[0].AccountCode, "line replacement denormalizes account codes")

	entry, err = svc.PostJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, entry.Status)
	require.NotNil(t, entry.EntryNo)
	assert.Equal(t, int64(1), *entry.EntryNo)
	assert.NotNil(t, entry.PostedAt)

	// Posted entries are frozen.
	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{{AccountID: f.accounts["1000"].ID, Debit: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = svc.PostJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestJournalService_PostRejectsUnbalanced(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Journal

	entry, err := svc.CreateJournal(f.ctx, f.admin.ID, f.company.ID, dto.CreateJournalRequest{EntryDate: "2026-03-01"})
	require.NoError(t, err)

	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{
			{AccountID: f.accounts["1000"].ID, Debit: decimal.NewFromInt(500)},
			{AccountID: f.accounts["3000"].ID, Credit: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err, "unbalanced drafts may be saved")

	_, err = svc.PostJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "posting an unbalanced entry must fail")
}

func TestJournalService_LineValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Journal

	entry, err := svc.CreateJournal(f.ctx, f.admin.ID, f.company.ID, dto.CreateJournalRequest{EntryDate: "2026-03-01"})
	require.NoError(t, err)

	// Both sides zero.
	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{{AccountID: f.accounts["1000"].ID}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Both sides set.
	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{{AccountID: f.accounts["1000"].ID, Debit: decimal.NewFromInt(1), Credit: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Unknown account.
	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{{AccountID: "nope", Debit: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJournalService_VoidCreatesMirroredReversal(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Journal

	entry, err := svc.CreateJournal(f.ctx, f.admin.ID, f.company.ID, dto.CreateJournalRequest{EntryDate: "2026-03-01"})
	require.NoError(t, err)
	_, err = svc.ReplaceJournalLines(f.ctx, f.admin.ID, f.company.ID, entry.ID, dto.ReplaceJournalLinesRequest{
		Lines: []dto.JournalLineInput{
			{AccountID: f.accounts["1000"].ID, Debit: decimal.NewFromInt(250)},
			{AccountID: f.accounts["4000"].ID, Credit: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)
	_, err = svc.PostJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	require.NoError(t, err)

	result, err := svc.VoidJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, result.VoidedID)

	voided, err := svc.GetJournal(f.ctx, f.admin.ID, f.company.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoid, voided.Status)
	assert.Len(t, voided.Lines, 2, "voiding keeps the original lines")
	assert.NotNil(t, voided.VoidedAt)

	reversal, err := svc.GetJournal(f.ctx, f.admin.ID, f.company.ID, result.ReversalID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, reversal.Status)
	assert.Equal(t, "reversal", reversal.ReferenceType)
	require.NotNil(t, reversal.ReferenceID)
	assert.Equal(t, entry.ID, *reversal.ReferenceID)
	require.Len(t, reversal.Lines, 2)
	assert.True(t, reversal.Lines[0].Credit.Equal(decimal.NewFromInt(250)), "debits become credits")
	assert.True(t, reversal.Lines[1].Debit.Equal(decimal.NewFromInt(250)), "credits become debits")

	// A void plus its reversal cancel out in the trial balance.
	rows, err := svc.TrialBalance(f.ctx, f.admin.ID, f.company.ID)
	require.NoError(t, err)
	for _, row := range rows {
		assert.True(t, row.TotalDebit.Equal(row.TotalCredit),
			"account %s should net to zero after void", row.AccountCode)
	}
}

func TestJournalService_ViewerCannotMutate(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.Journal

	_, err := svc.CreateJournal(f.ctx, f.viewer.ID, f.company.ID, dto.CreateJournalRequest{EntryDate: "2026-03-01"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Viewers can still read.
	_, err = svc.ListJournals(f.ctx, f.viewer.ID, f.company.ID, "")
	assert.NoError(t, err)

	// Non-members get nothing.
	_, err = svc.ListJournals(f.ctx, "stranger", f.company.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

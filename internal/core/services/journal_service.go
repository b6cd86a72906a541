package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// JournalService manages manual journal entries and the ledger trial balance.
// Documents (invoices, receipts, bills, payments) post through here too so
// every financial event lands in one ledger.
type JournalService struct {
	authorizer
	journalRepo portsrepo.JournalRepository
	companyRepo portsrepo.CompanyRepository
	locks       *docLocks
}

func NewJournalService(journalRepo portsrepo.JournalRepository, companyRepo portsrepo.CompanyRepository) *JournalService {
	return &JournalService{
		authorizer:  authorizer{companyRepo: companyRepo},
		journalRepo: journalRepo,
		companyRepo: companyRepo,
		locks:       newDocLocks(),
	}
}

// ListJournals lists entries, optionally filtered by status.
func (s *JournalService) ListJournals(ctx context.Context, userID, companyID string, status domain.Status) ([]domain.JournalEntry, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.journalRepo.ListJournals(ctx, companyID, status)
}

// GetJournal fetches one entry with lines.
func (s *JournalService) GetJournal(ctx context.Context, userID, companyID, entryID string) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.journalRepo.GetJournal(ctx, companyID, entryID)
}

// CreateJournal creates a draft entry with no lines.
func (s *JournalService) CreateJournal(ctx context.Context, userID, companyID string, req dto.CreateJournalRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if _, err := time.Parse(domain.DateLayout, req.EntryDate); err != nil {
		return nil, fmt.Errorf("%w: entry_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	entry := domain.JournalEntry{
		ID:            newID(),
		CompanyID:     companyID,
		Status:        domain.StatusDraft,
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		ReferenceType: "manual",
	}
	stamp(&entry.AuditTimes, time.Now())
	if err := s.journalRepo.SaveJournal(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceJournalLines replaces all lines of a draft entry wholesale.
func (s *JournalService) ReplaceJournalLines(ctx context.Context, userID, companyID, entryID string, req dto.ReplaceJournalLinesRequest) (*domain.JournalEntry, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.GetJournal(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindJournal, entry.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLine, 0, len(req.Lines))
	for i, input := range req.Lines {
		if input.Debit.IsNegative() || input.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d amounts must be non-negative", apperrors.ErrValidation, i+1)
		}
		if input.Debit.IsZero() == input.Credit.IsZero() {
			return nil, fmt.Errorf("%w: line %d must have exactly one of debit or credit", apperrors.ErrValidation, i+1)
		}
		account, err := s.companyRepo.GetAccount(ctx, companyID, input.AccountID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalLine{
			ID:          newID(),
			LineNo:      i + 1,
			AccountID:   account.ID,
			AccountCode: account.Code,
			AccountName: account.Name,
			Description: input.Description,
			Debit:       input.Debit,
			Credit:      input.Credit,
		})
	}

	entry.Lines = lines
	entry.UpdatedAt = time.Now()
	if err := s.journalRepo.SaveJournal(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// PostJournal posts a balanced draft entry and assigns its entry number.
func (s *JournalService) PostJournal(ctx context.Context, userID, companyID, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(entryID)()
	entry, err := s.journalRepo.GetJournal(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindJournal, entry.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}
	if len(entry.Lines) < 2 {
		return nil, fmt.Errorf("%w: journal entry needs at least two lines to post", apperrors.ErrValidation)
	}
	if !entry.Balanced() {
		return nil, fmt.Errorf("%w: debits and credits do not balance", apperrors.ErrValidation)
	}

	entryNo, err := s.journalRepo.NextEntryNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	entry.Status = next
	entry.EntryNo = &entryNo
	entry.PostedAt = &now
	entry.PostedBy = &userID
	entry.UpdatedAt = now
	if err := s.journalRepo.SaveJournal(ctx, *entry); err != nil {
		return nil, err
	}
	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.ID), slog.Int64("entry_no", entryNo))
	return entry, nil
}

// VoidJournal voids a posted entry. History is never rewritten: the entry
// keeps its lines and gains void metadata, and a posted reversal entry with
// mirrored lines is created and linked back to it.
func (s *JournalService) VoidJournal(ctx context.Context, userID, companyID, entryID string) (*domain.VoidJournalResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(entryID)()
	entry, err := s.journalRepo.GetJournal(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	voidStatus, err := domain.Apply(domain.KindJournal, entry.Status, domain.ActionVoid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reversal := domain.JournalEntry{
		ID:            newID(),
		CompanyID:     companyID,
		Status:        domain.StatusPosted,
		EntryDate:     now.Format(domain.DateLayout),
		Description:   fmt.Sprintf("Reversal of entry %s", entry.ID),
		ReferenceType: "reversal",
		ReferenceID:   &entry.ID,
		PostedAt:      &now,
		PostedBy:      &userID,
	}
	stamp(&reversal.AuditTimes, now)
	for i, line := range entry.Lines {
		reversal.Lines = append(reversal.Lines, domain.JournalLine{
			ID:          newID(),
			LineNo:      i + 1,
			AccountID:   line.AccountID,
			AccountCode: line.AccountCode,
			AccountName: line.AccountName,
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
		})
	}
	reversalNo, err := s.journalRepo.NextEntryNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	reversal.EntryNo = &reversalNo
	if err := s.journalRepo.SaveJournal(ctx, reversal); err != nil {
		return nil, err
	}

	entry.Status = voidStatus
	entry.VoidedAt = &now
	entry.VoidedBy = &userID
	entry.UpdatedAt = now
	if err := s.journalRepo.SaveJournal(ctx, *entry); err != nil {
		return nil, err
	}

	logger.Info("Journal entry voided",
		slog.String("entry_id", entry.ID), slog.String("reversal_id", reversal.ID))
	return &domain.VoidJournalResult{VoidedID: entry.ID, ReversalID: reversal.ID}, nil
}

// TrialBalance aggregates ledger-effective lines per account. Voided entries
// keep their lines; the posted reversal cancels them, so both count here.
func (s *JournalService) TrialBalance(ctx context.Context, userID, companyID string) ([]domain.TrialBalanceRow, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	entries, err := s.journalRepo.ListJournals(ctx, companyID, "")
	if err != nil {
		return nil, err
	}

	type totals struct {
		code, name    string
		debit, credit decimal.Decimal
	}
	byAccount := make(map[string]*totals)
	var order []string
	for _, entry := range entries {
		if entry.Status != domain.StatusPosted && entry.Status != domain.StatusVoid {
			continue
		}
		for _, line := range entry.Lines {
			t, ok := byAccount[line.AccountID]
			if !ok {
				t = &totals{code: line.AccountCode, name: line.AccountName, debit: decimal.Zero, credit: decimal.Zero}
				byAccount[line.AccountID] = t
				order = append(order, line.AccountID)
			}
			t.debit = t.debit.Add(line.Debit)
			t.credit = t.credit.Add(line.Credit)
		}
	}

	rows := make([]domain.TrialBalanceRow, 0, len(order))
	for _, accountID := range order {
		t := byAccount[accountID]
		rows = append(rows, domain.TrialBalanceRow{
			AccountID:   accountID,
			AccountCode: t.code,
			AccountName: t.name,
			TotalDebit:  t.debit,
			TotalCredit: t.credit,
		})
	}
	return rows, nil
}

// CreateSystemEntry posts a document-generated entry in one step. Used by the
// sales and purchases services when documents post.
func (s *JournalService) CreateSystemEntry(ctx context.Context, companyID, userID, entryDate, description, referenceType string, referenceID *string, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	entry := domain.JournalEntry{
		ID:            newID(),
		CompanyID:     companyID,
		Status:        domain.StatusPosted,
		EntryDate:     entryDate,
		Description:   description,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
	}
	now := time.Now()
	stamp(&entry.AuditTimes, now)
	entry.PostedAt = &now
	entry.PostedBy = &userID
	for i := range lines {
		lines[i].ID = newID()
		lines[i].LineNo = i + 1
	}
	entry.Lines = lines
	if !entry.Balanced() {
		return nil, fmt.Errorf("%w: generated entry does not balance", apperrors.ErrValidation)
	}
	entryNo, err := s.journalRepo.NextEntryNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	entry.EntryNo = &entryNo
	if err := s.journalRepo.SaveJournal(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

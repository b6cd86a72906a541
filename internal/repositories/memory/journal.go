package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) SaveJournal(ctx context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals[entry.ID] = entry
	return nil
}

func (s *Store) GetJournal(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.journals[entryID]
	if !ok || entry.CompanyID != companyID {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (s *Store) ListJournals(ctx context.Context, companyID string, status domain.Status) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []domain.JournalEntry
	for _, entry := range s.journals {
		if entry.CompanyID != companyID {
			continue
		}
		if status != "" && entry.Status != status {
			continue
		}
		entries = append(entries, entry)
	}
	sortByCreated(entries, func(e domain.JournalEntry) time.Time { return e.CreatedAt })
	return entries, nil
}

func (s *Store) NextEntryNo(ctx context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeq(companyID, "journal"), nil
}

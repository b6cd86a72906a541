package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankAccounts[account.ID] = account
	return nil
}

func (s *Store) GetBankAccount(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.bankAccounts[bankAccountID]
	if !ok || account.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
	}
	return &account, nil
}

func (s *Store) ListBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var accounts []domain.BankAccount
	for _, account := range s.bankAccounts {
		if account.CompanyID == companyID {
			accounts = append(accounts, account)
		}
	}
	sortByCreated(accounts, func(a domain.BankAccount) time.Time { return a.CreatedAt })
	return accounts, nil
}

func (s *Store) DeleteBankAccount(ctx context.Context, companyID, bankAccountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.bankAccounts[bankAccountID]
	if !ok || account.CompanyID != companyID {
		return fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, bankAccountID)
	}
	delete(s.bankAccounts, bankAccountID)
	return nil
}

func (s *Store) SaveBankImport(ctx context.Context, imp domain.BankStatementImport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankImports[imp.ID] = imp
	return nil
}

func (s *Store) GetBankImport(ctx context.Context, companyID, importID string) (*domain.BankStatementImport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imp, ok := s.bankImports[importID]
	if !ok || imp.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bank import %s", apperrors.ErrNotFound, importID)
	}
	return &imp, nil
}

func (s *Store) ListBankImports(ctx context.Context, companyID string, status domain.BankImportStatus) ([]domain.BankStatementImport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var imports []domain.BankStatementImport
	for _, imp := range s.bankImports {
		if imp.CompanyID != companyID {
			continue
		}
		if status != "" && imp.Status != status {
			continue
		}
		imports = append(imports, imp)
	}
	sortByCreated(imports, func(i domain.BankStatementImport) time.Time { return i.CreatedAt })
	return imports, nil
}

func (s *Store) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankTxns[txn.ID] = txn
	return nil
}

func (s *Store) GetBankTransaction(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.bankTxns[transactionID]
	if !ok || txn.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bank transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

func (s *Store) ListBankTransactions(ctx context.Context, companyID string, filter domain.BankTransactionQuery) ([]domain.BankTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var txns []domain.BankTransaction
	for _, txn := range s.bankTxns {
		if txn.CompanyID != companyID {
			continue
		}
		if filter.BankAccountID != "" && txn.BankAccountID != filter.BankAccountID {
			continue
		}
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		if filter.DateFrom != "" && txn.TxnDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && txn.TxnDate > filter.DateTo {
			continue
		}
		txns = append(txns, txn)
	}
	sortByCreated(txns, func(t domain.BankTransaction) time.Time { return t.CreatedAt })
	if filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
	}
	return txns, nil
}

func (s *Store) SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciliations[rec.ID] = rec
	return nil
}

func (s *Store) GetReconciliation(ctx context.Context, companyID, reconciliationID string) (*domain.BankReconciliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.reconciliations[reconciliationID]
	if !ok || rec.CompanyID != companyID {
		return nil, fmt.Errorf("%w: reconciliation %s", apperrors.ErrNotFound, reconciliationID)
	}
	return &rec, nil
}

func (s *Store) ListReconciliations(ctx context.Context, companyID string) ([]domain.BankReconciliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []domain.BankReconciliation
	for _, rec := range s.reconciliations {
		if rec.CompanyID == companyID {
			recs = append(recs, rec)
		}
	}
	sortByCreated(recs, func(r domain.BankReconciliation) time.Time { return r.CreatedAt })
	return recs, nil
}

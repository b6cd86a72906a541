package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// BankingService manages bank accounts, statement imports, transaction
// matching, and reconciliations.
type BankingService struct {
	authorizer
	bankRepo    portsrepo.BankingRepository
	journalRepo portsrepo.JournalRepository
	companyRepo portsrepo.CompanyRepository
	locks       *docLocks
}

func NewBankingService(bankRepo portsrepo.BankingRepository, journalRepo portsrepo.JournalRepository, companyRepo portsrepo.CompanyRepository) *BankingService {
	return &BankingService{
		authorizer:  authorizer{companyRepo: companyRepo},
		bankRepo:    bankRepo,
		journalRepo: journalRepo,
		companyRepo: companyRepo,
		locks:       newDocLocks(),
	}
}

func (s *BankingService) ListBankAccounts(ctx context.Context, userID, companyID string) ([]domain.BankAccount, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankAccounts(ctx, companyID)
}

func (s *BankingService) CreateBankAccount(ctx context.Context, userID, companyID string, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.LedgerAccountID); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = company.BaseCurrency
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	account := domain.BankAccount{
		ID:                 newID(),
		CompanyID:          companyID,
		Name:               req.Name,
		AccountNumberLast4: req.AccountNumberLast4,
		CurrencyCode:       currency,
		LedgerAccountID:    req.LedgerAccountID,
		IsActive:           active,
	}
	stamp(&account.AuditTimes, time.Now())
	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *BankingService) UpdateBankAccount(ctx context.Context, userID, companyID, bankAccountID string, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	account, err := s.bankRepo.GetBankAccount(ctx, companyID, bankAccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.LedgerAccountID); err != nil {
		return nil, err
	}

	account.Name = req.Name
	account.AccountNumberLast4 = req.AccountNumberLast4
	if req.CurrencyCode != "" {
		account.CurrencyCode = req.CurrencyCode
	}
	account.LedgerAccountID = req.LedgerAccountID
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.UpdatedAt = time.Now()
	if err := s.bankRepo.SaveBankAccount(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteBankAccount removes a bank account that has no imported transactions.
func (s *BankingService) DeleteBankAccount(ctx context.Context, userID, companyID, bankAccountID string) error {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return err
	}
	if _, err := s.bankRepo.GetBankAccount(ctx, companyID, bankAccountID); err != nil {
		return err
	}
	txns, err := s.bankRepo.ListBankTransactions(ctx, companyID, domain.BankTransactionQuery{BankAccountID: bankAccountID})
	if err != nil {
		return err
	}
	if len(txns) > 0 {
		return fmt.Errorf("%w: bank account has imported transactions", apperrors.ErrConflict)
	}
	return s.bankRepo.DeleteBankAccount(ctx, companyID, bankAccountID)
}

func (s *BankingService) ListBankImports(ctx context.Context, userID, companyID string, status domain.BankImportStatus) ([]domain.BankStatementImport, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankImports(ctx, companyID, status)
}

// CreateBankImport accepts a raw CSV statement and parses it immediately.
// Rows are date,description,reference,amount with an optional header. A
// parse failure records the failed import with its error message rather
// than returning one.
func (s *BankingService) CreateBankImport(ctx context.Context, userID, companyID string, req dto.CreateBankImportRequest) (*domain.BankStatementImport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	bankAccount, err := s.bankRepo.GetBankAccount(ctx, companyID, req.BankAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	imp := domain.BankStatementImport{
		ID:            newID(),
		CompanyID:     companyID,
		BankAccountID: req.BankAccountID,
		FileName:      req.FileName,
		Status:        domain.ImportUploaded,
		RawContent:    req.RawContent,
		ImportedBy:    &userID,
	}
	stamp(&imp.AuditTimes, now)

	txns, parseErr := parseStatementCSV(req.RawContent)
	if parseErr != nil {
		imp.Status = domain.ImportFailed
		imp.ErrorMessage = parseErr.Error()
		if err := s.bankRepo.SaveBankImport(ctx, imp); err != nil {
			return nil, err
		}
		logger.Warn("Bank statement parse failed",
			slog.String("import_id", imp.ID), slog.String("error", parseErr.Error()))
		return &imp, nil
	}

	for i := range txns {
		txns[i].ID = newID()
		txns[i].CompanyID = companyID
		txns[i].BankAccountID = bankAccount.ID
		txns[i].BankAccountName = bankAccount.Name
		txns[i].StatementImport = &imp.ID
		txns[i].Status = domain.TxnImported
		stamp(&txns[i].AuditTimes, now)
		if err := s.bankRepo.SaveBankTransaction(ctx, txns[i]); err != nil {
			return nil, err
		}
	}

	imp.Status = domain.ImportParsed
	imp.TransactionsCreated = len(txns)
	if err := s.bankRepo.SaveBankImport(ctx, imp); err != nil {
		return nil, err
	}
	logger.Info("Bank statement imported",
		slog.String("import_id", imp.ID), slog.Int("transactions", len(txns)))
	return &imp, nil
}

func (s *BankingService) ListBankTransactions(ctx context.Context, userID, companyID string, filter domain.BankTransactionQuery) ([]domain.BankTransaction, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if filter.Status != "" {
		switch filter.Status {
		case domain.TxnImported, domain.TxnMatched, domain.TxnReconciled, domain.TxnIgnored:
		default:
			return nil, fmt.Errorf("%w: unknown transaction status %s", apperrors.ErrValidation, filter.Status)
		}
	}
	return s.bankRepo.ListBankTransactions(ctx, companyID, filter)
}

// MatchBankTransaction links an imported transaction to a posted journal
// entry.
func (s *BankingService) MatchBankTransaction(ctx context.Context, userID, companyID, transactionID string, req dto.MatchTransactionRequest) (*domain.BankTransaction, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	txn, err := s.bankRepo.GetBankTransaction(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.TxnReconciled {
		return nil, fmt.Errorf("%w: transaction is already reconciled", apperrors.ErrConflict)
	}
	entry, err := s.journalRepo.GetJournal(ctx, companyID, req.JournalEntryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: only posted journal entries can be matched", apperrors.ErrValidation)
	}

	txn.Status = domain.TxnMatched
	txn.MatchedEntryID = &entry.ID
	txn.MatchedEntryNo = entry.EntryNo
	txn.UpdatedAt = time.Now()
	if err := s.bankRepo.SaveBankTransaction(ctx, *txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *BankingService) ListReconciliations(ctx context.Context, userID, companyID string) ([]domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.bankRepo.ListReconciliations(ctx, companyID)
}

func (s *BankingService) GetReconciliation(ctx context.Context, userID, companyID, reconciliationID string) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.bankRepo.GetReconciliation(ctx, companyID, reconciliationID)
}

func (s *BankingService) CreateReconciliation(ctx context.Context, userID, companyID string, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if _, err := s.bankRepo.GetBankAccount(ctx, companyID, req.BankAccountID); err != nil {
		return nil, err
	}
	start, err := time.Parse(domain.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	end, err := time.Parse(domain.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date must not precede start_date", apperrors.ErrValidation)
	}

	rec := domain.BankReconciliation{
		ID:             newID(),
		CompanyID:      companyID,
		BankAccountID:  req.BankAccountID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		OpeningBalance: req.OpeningBalance,
		ClosingBalance: req.ClosingBalance,
		Status:         domain.StatusDraft,
	}
	stamp(&rec.AuditTimes, time.Now())
	if err := s.bankRepo.SaveReconciliation(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReplaceReconciliationLines replaces the included transaction set of a
// draft reconciliation. Every referenced transaction must belong to the
// reconciliation's bank account.
func (s *BankingService) ReplaceReconciliationLines(ctx context.Context, userID, companyID, reconciliationID string, req dto.ReplaceReconciliationLinesRequest) (*domain.BankReconciliation, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	defer s.locks.Lock(reconciliationID)()
	rec, err := s.bankRepo.GetReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindReconciliation, rec.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	lines := make([]domain.ReconciliationLine, 0, len(req.TransactionIDs))
	seen := make(map[string]bool, len(req.TransactionIDs))
	for _, txnID := range req.TransactionIDs {
		if seen[txnID] {
			return nil, fmt.Errorf("%w: transaction %s listed twice", apperrors.ErrValidation, txnID)
		}
		seen[txnID] = true
		txn, err := s.bankRepo.GetBankTransaction(ctx, companyID, txnID)
		if err != nil {
			return nil, err
		}
		if txn.BankAccountID != rec.BankAccountID {
			return nil, fmt.Errorf("%w: transaction %s belongs to a different bank account",
				apperrors.ErrValidation, txnID)
		}
		if txn.Status == domain.TxnReconciled {
			return nil, fmt.Errorf("%w: transaction %s is already reconciled", apperrors.ErrConflict, txnID)
		}
		lines = append(lines, domain.ReconciliationLine{
			ID:                newID(),
			BankTransactionID: txnID,
		})
	}

	rec.Lines = lines
	rec.UpdatedAt = time.Now()
	if err := s.bankRepo.SaveReconciliation(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FinalizeReconciliation closes a draft reconciliation permanently and marks
// every included transaction reconciled. There is no unfinalize.
func (s *BankingService) FinalizeReconciliation(ctx context.Context, userID, companyID, reconciliationID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(reconciliationID)()
	rec, err := s.bankRepo.GetReconciliation(ctx, companyID, reconciliationID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindReconciliation, rec.Status, domain.ActionFinalize)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, line := range rec.Lines {
		txn, err := s.bankRepo.GetBankTransaction(ctx, companyID, line.BankTransactionID)
		if err != nil {
			return nil, err
		}
		txn.Status = domain.TxnReconciled
		txn.UpdatedAt = now
		if err := s.bankRepo.SaveBankTransaction(ctx, *txn); err != nil {
			return nil, err
		}
	}

	rec.Status = next
	rec.FinalizedAt = &now
	rec.FinalizedBy = &userID
	rec.UpdatedAt = now
	if err := s.bankRepo.SaveReconciliation(ctx, *rec); err != nil {
		return nil, err
	}
	logger.Info("Reconciliation finalized",
		slog.String("reconciliation_id", rec.ID), slog.Int("transactions", len(rec.Lines)))
	return rec, nil
}

// parseStatementCSV turns raw statement content into bank transactions.
// Expected columns: date,description,reference,amount. A first row whose
// date column does not parse is treated as a header and skipped.
func parseStatementCSV(raw string) ([]domain.BankTransaction, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("statement file is empty")
	}

	var txns []domain.BankTransaction
	for i, record := range records {
		if len(record) < 4 {
			return nil, fmt.Errorf("row %d: expected 4 columns, got %d", i+1, len(record))
		}
		date := strings.TrimSpace(record[0])
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: invalid date %q", i+1, date)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", i+1, record[3])
		}
		txns = append(txns, domain.BankTransaction{
			TxnDate:     date,
			Description: strings.TrimSpace(record[1]),
			Reference:   strings.TrimSpace(record[2]),
			Amount:      amount,
		})
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("statement contains no transaction rows")
	}
	return txns, nil
}

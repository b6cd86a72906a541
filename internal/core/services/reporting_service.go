package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
)

// ReportingService computes financial reports from posted journal entries.
// Only posted entries count; drafts and voided entries never reach a report.
type ReportingService struct {
	authorizer
	journalRepo portsrepo.JournalRepository
	companyRepo portsrepo.CompanyRepository
	bankRepo    portsrepo.BankingRepository
}

func NewReportingService(journalRepo portsrepo.JournalRepository, companyRepo portsrepo.CompanyRepository, bankRepo portsrepo.BankingRepository) *ReportingService {
	return &ReportingService{
		authorizer:  authorizer{companyRepo: companyRepo},
		journalRepo: journalRepo,
		companyRepo: companyRepo,
		bankRepo:    bankRepo,
	}
}

// GeneralLedgerQuery narrows the general ledger report.
type GeneralLedgerQuery struct {
	StartDate string
	EndDate   string
	AccountID string
	Limit     int
}

// accountBalance accumulates debit and credit totals for one account.
type accountBalance struct {
	account     *domain.Account
	totalDebit  decimal.Decimal
	totalCredit decimal.Decimal
}

// ProfitLoss reports income and expense account balances over a period.
// Income balances are credit-normal, expense balances debit-normal.
func (s *ReportingService) ProfitLoss(ctx context.Context, userID, companyID, startDate, endDate string) (*domain.ProfitLossReport, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if err := checkPeriod(startDate, endDate); err != nil {
		return nil, err
	}

	balances, order, err := s.accumulate(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	report := &domain.ProfitLossReport{
		StartDate:    startDate,
		EndDate:      endDate,
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		NetProfit:    decimal.Zero,
	}
	for _, accountID := range order {
		bal := balances[accountID]
		if bal.account == nil {
			continue
		}
		var balance decimal.Decimal
		switch bal.account.Type {
		case domain.Income:
			balance = bal.totalCredit.Sub(bal.totalDebit)
			report.IncomeTotal = report.IncomeTotal.Add(balance)
		case domain.Expense:
			balance = bal.totalDebit.Sub(bal.totalCredit)
			report.ExpenseTotal = report.ExpenseTotal.Add(balance)
		default:
			continue
		}
		report.Rows = append(report.Rows, domain.ProfitLossRow{
			AccountID:   bal.account.ID,
			AccountCode: bal.account.Code,
			AccountName: bal.account.Name,
			AccountType: bal.account.Type,
			Balance:     balance,
		})
	}
	report.NetProfit = report.IncomeTotal.Sub(report.ExpenseTotal)
	return report, nil
}

// BalanceSheet reports asset, liability, and equity balances as of a date.
// Retained earnings fold accumulated income and expense into equity so the
// sheet balances.
func (s *ReportingService) BalanceSheet(ctx context.Context, userID, companyID, asOf string) (*domain.BalanceSheetReport, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if _, err := time.Parse(domain.DateLayout, asOf); err != nil {
		return nil, fmt.Errorf("%w: as_of must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	balances, order, err := s.accumulate(ctx, companyID, "", asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:           asOf,
		AssetTotal:     decimal.Zero,
		LiabilityTotal: decimal.Zero,
		EquityTotal:    decimal.Zero,
	}
	retained := decimal.Zero
	for _, accountID := range order {
		bal := balances[accountID]
		if bal.account == nil {
			continue
		}
		var balance decimal.Decimal
		switch bal.account.Type {
		case domain.Asset:
			balance = bal.totalDebit.Sub(bal.totalCredit)
			report.AssetTotal = report.AssetTotal.Add(balance)
		case domain.Liability:
			balance = bal.totalCredit.Sub(bal.totalDebit)
			report.LiabilityTotal = report.LiabilityTotal.Add(balance)
		case domain.Equity:
			balance = bal.totalCredit.Sub(bal.totalDebit)
			report.EquityTotal = report.EquityTotal.Add(balance)
		case domain.Income:
			retained = retained.Add(bal.totalCredit.Sub(bal.totalDebit))
			continue
		case domain.Expense:
			retained = retained.Sub(bal.totalDebit.Sub(bal.totalCredit))
			continue
		}
		report.Rows = append(report.Rows, domain.BalanceSheetRow{
			AccountID:   bal.account.ID,
			AccountCode: bal.account.Code,
			AccountName: bal.account.Name,
			AccountType: bal.account.Type,
			Balance:     balance,
		})
	}
	report.EquityTotal = report.EquityTotal.Add(retained)
	report.LiabilityPlusEquityTotal = report.LiabilityTotal.Add(report.EquityTotal)
	return report, nil
}

// CashFlow reports movement over ledger accounts backing the company's bank
// accounts during a period.
func (s *ReportingService) CashFlow(ctx context.Context, userID, companyID, startDate, endDate string) (*domain.CashFlowReport, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if err := checkPeriod(startDate, endDate); err != nil {
		return nil, err
	}

	bankAccounts, err := s.bankRepo.ListBankAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	cashAccounts := make(map[string]bool, len(bankAccounts))
	for _, ba := range bankAccounts {
		cashAccounts[ba.LedgerAccountID] = true
	}

	entries, err := s.postedEntries(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	report := &domain.CashFlowReport{
		StartDate:       startDate,
		EndDate:         endDate,
		CashInflow:      decimal.Zero,
		CashOutflow:     decimal.Zero,
		NetCashMovement: decimal.Zero,
	}
	for _, entry := range entries {
		for _, line := range entry.Lines {
			if !cashAccounts[line.AccountID] {
				continue
			}
			report.CashInflow = report.CashInflow.Add(line.Debit)
			report.CashOutflow = report.CashOutflow.Add(line.Credit)
		}
	}
	report.NetCashMovement = report.CashInflow.Sub(report.CashOutflow)
	return report, nil
}

// TrialBalance reports per-account debit and credit totals over a period.
func (s *ReportingService) TrialBalance(ctx context.Context, userID, companyID, startDate, endDate string) (*domain.ReportTrialBalance, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if err := checkPeriod(startDate, endDate); err != nil {
		return nil, err
	}

	balances, order, err := s.accumulate(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	report := &domain.ReportTrialBalance{StartDate: startDate, EndDate: endDate}
	for _, accountID := range order {
		bal := balances[accountID]
		row := domain.ReportTrialBalanceRow{
			AccountID:   accountID,
			TotalDebit:  bal.totalDebit,
			TotalCredit: bal.totalCredit,
		}
		if bal.account != nil {
			row.AccountCode = bal.account.Code
			row.AccountName = bal.account.Name
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// GeneralLedger lists posted journal lines chronologically, optionally
// filtered to one account and capped by a row limit.
func (s *ReportingService) GeneralLedger(ctx context.Context, userID, companyID string, query GeneralLedgerQuery) (*domain.GeneralLedgerReport, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if query.StartDate != "" {
		if _, err := time.Parse(domain.DateLayout, query.StartDate); err != nil {
			return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
	}
	if query.EndDate != "" {
		if _, err := time.Parse(domain.DateLayout, query.EndDate); err != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
	}
	if query.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be non-negative", apperrors.ErrValidation)
	}

	entries, err := s.postedEntries(ctx, companyID, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}
	report := &domain.GeneralLedgerReport{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Limit:     query.Limit,
	}
	for _, entry := range entries {
		for _, line := range entry.Lines {
			if query.AccountID != "" && line.AccountID != query.AccountID {
				continue
			}
			report.Rows = append(report.Rows, domain.GeneralLedgerRow{
				LineID:      line.ID,
				EntryID:     entry.ID,
				EntryNo:     entry.EntryNo,
				EntryDate:   entry.EntryDate,
				AccountID:   line.AccountID,
				AccountCode: line.AccountCode,
				AccountName: line.AccountName,
				Description: line.Description,
				Debit:       line.Debit,
				Credit:      line.Credit,
			})
			if query.Limit > 0 && len(report.Rows) >= query.Limit {
				return report, nil
			}
		}
	}
	return report, nil
}

// postedEntries returns ledger-effective journal entries whose date falls
// inside the given period, oldest first. Voided entries keep their lines in
// the ledger; the posted reversal cancels them, so both are included here.
// Empty bounds are open-ended.
func (s *ReportingService) postedEntries(ctx context.Context, companyID, startDate, endDate string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListJournals(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.JournalEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status != domain.StatusPosted && entry.Status != domain.StatusVoid {
			continue
		}
		if startDate != "" && entry.EntryDate < startDate {
			continue
		}
		if endDate != "" && entry.EntryDate > endDate {
			continue
		}
		filtered = append(filtered, entry)
	}
	// ListJournals is newest first; reports read oldest first.
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered, nil
}

// accumulate sums debits and credits per account over the period, keeping
// first-seen order and resolving account metadata where it exists.
func (s *ReportingService) accumulate(ctx context.Context, companyID, startDate, endDate string) (map[string]*accountBalance, []string, error) {
	entries, err := s.postedEntries(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, nil, err
	}
	balances := make(map[string]*accountBalance)
	var order []string
	for _, entry := range entries {
		for _, line := range entry.Lines {
			bal, ok := balances[line.AccountID]
			if !ok {
				bal = &accountBalance{totalDebit: decimal.Zero, totalCredit: decimal.Zero}
				if account, err := s.companyRepo.GetAccount(ctx, companyID, line.AccountID); err == nil {
					bal.account = account
				}
				balances[line.AccountID] = bal
				order = append(order, line.AccountID)
			}
			bal.totalDebit = bal.totalDebit.Add(line.Debit)
			bal.totalCredit = bal.totalCredit.Add(line.Credit)
		}
	}
	return balances, order, nil
}

func checkPeriod(startDate, endDate string) error {
	start, err := time.Parse(domain.DateLayout, startDate)
	if err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	end, err := time.Parse(domain.DateLayout, endDate)
	if err != nil {
		return fmt.Errorf("%w: end_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_date must not precede start_date", apperrors.ErrValidation)
	}
	return nil
}

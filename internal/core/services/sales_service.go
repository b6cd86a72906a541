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

// SalesService manages invoices and customer receipts. Posting generates the
// backing journal entry through the journal service so the ledger stays the
// single source of financial truth.
type SalesService struct {
	authorizer
	docRepo     portsrepo.DocumentRepository
	companyRepo portsrepo.CompanyRepository
	journalSvc  *JournalService
	locks       *docLocks
}

func NewSalesService(docRepo portsrepo.DocumentRepository, companyRepo portsrepo.CompanyRepository, journalSvc *JournalService) *SalesService {
	return &SalesService{
		authorizer:  authorizer{companyRepo: companyRepo},
		docRepo:     docRepo,
		companyRepo: companyRepo,
		journalSvc:  journalSvc,
		locks:       newDocLocks(),
	}
}

// ListInvoices lists invoices, optionally filtered by status.
func (s *SalesService) ListInvoices(ctx context.Context, userID, companyID string, status domain.Status) ([]domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if status != "" && !domain.ValidStatus(domain.KindInvoice, status) {
		return nil, fmt.Errorf("%w: unknown invoice status %s", apperrors.ErrValidation, status)
	}
	return s.docRepo.ListInvoices(ctx, companyID, status)
}

// GetInvoice fetches one invoice with lines.
func (s *SalesService) GetInvoice(ctx context.Context, userID, companyID, invoiceID string) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.GetInvoice(ctx, companyID, invoiceID)
}

// CreateInvoice creates a draft invoice with no lines.
func (s *SalesService) CreateInvoice(ctx context.Context, userID, companyID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if err := s.checkInvoiceHeader(ctx, companyID, req); err != nil {
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

	invoice := domain.Invoice{
		ID:           newID(),
		CompanyID:    companyID,
		Status:       domain.StatusDraft,
		CustomerID:   req.CustomerID,
		IssueDate:    req.IssueDate,
		DueDate:      req.DueDate,
		CurrencyCode: currency,
		Subtotal:     decimal.Zero,
		TaxTotal:     decimal.Zero,
		Total:        decimal.Zero,
		AmountPaid:   decimal.Zero,
		Notes:        req.Notes,
		ARAccountID:  req.ARAccountID,
	}
	stamp(&invoice.AuditTimes, time.Now())
	if err := s.docRepo.SaveInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoice replaces the header fields of a draft invoice.
func (s *SalesService) UpdateInvoice(ctx context.Context, userID, companyID, invoiceID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	invoice, err := s.docRepo.GetInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only draft invoices can be edited", apperrors.ErrConflict)
	}
	if err := s.checkInvoiceHeader(ctx, companyID, req); err != nil {
		return nil, err
	}

	invoice.CustomerID = req.CustomerID
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	if req.CurrencyCode != "" {
		invoice.CurrencyCode = req.CurrencyCode
	}
	invoice.Notes = req.Notes
	invoice.ARAccountID = req.ARAccountID
	invoice.UpdatedAt = time.Now()
	if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ReplaceInvoiceLines replaces all lines of a draft invoice and recomputes
// its totals.
func (s *SalesService) ReplaceInvoiceLines(ctx context.Context, userID, companyID, invoiceID string, req dto.ReplaceInvoiceLinesRequest) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	invoice, err := s.docRepo.GetInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindInvoice, invoice.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	now := time.Now()
	subtotal := decimal.Zero
	lines := make([]domain.InvoiceLine, 0, len(req.Lines))
	for i, input := range req.Lines {
		if input.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if input.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit price must be non-negative", apperrors.ErrValidation, i+1)
		}
		if _, err := s.companyRepo.GetAccount(ctx, companyID, input.RevenueAccountID); err != nil {
			return nil, err
		}
		lineTotal := input.Quantity.Mul(input.UnitPrice)
		subtotal = subtotal.Add(lineTotal)
		line := domain.InvoiceLine{
			ID:               newID(),
			LineNo:           i + 1,
			Description:      input.Description,
			Quantity:         input.Quantity,
			UnitPrice:        input.UnitPrice,
			LineTotal:        lineTotal,
			RevenueAccountID: input.RevenueAccountID,
		}
		stamp(&line.AuditTimes, now)
		lines = append(lines, line)
	}

	invoice.Lines = lines
	invoice.Subtotal = subtotal
	invoice.Total = subtotal.Add(invoice.TaxTotal)
	invoice.UpdatedAt = now
	if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// PostInvoice posts a draft invoice: assigns its number and generates the
// AR journal entry (debit AR, credit each revenue line).
func (s *SalesService) PostInvoice(ctx context.Context, userID, companyID, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(invoiceID)()
	invoice, err := s.docRepo.GetInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindInvoice, invoice.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}
	if len(invoice.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice needs at least one line to post", apperrors.ErrValidation)
	}

	var journalLines []domain.JournalLine
	journalLines = append(journalLines, domain.JournalLine{
		AccountID: invoice.ARAccountID,
		Debit:     invoice.Total,
		Credit:    decimal.Zero,
	})
	for _, line := range invoice.Lines {
		journalLines = append(journalLines, domain.JournalLine{
			AccountID:   line.RevenueAccountID,
			Description: line.Description,
			Debit:       decimal.Zero,
			Credit:      line.LineTotal,
		})
	}
	fillAccountNames(ctx, s.companyRepo, companyID, journalLines)

	entry, err := s.journalSvc.CreateSystemEntry(ctx, companyID, userID, invoice.IssueDate,
		"Invoice posting", "invoice", &invoice.ID, journalLines)
	if err != nil {
		return nil, err
	}

	invoiceNo, err := s.docRepo.NextInvoiceNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	invoice.Status = next
	invoice.InvoiceNo = &invoiceNo
	invoice.JournalEntryID = &entry.ID
	invoice.UpdatedAt = time.Now()
	if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
		return nil, err
	}
	logger.Info("Invoice posted",
		slog.String("invoice_id", invoice.ID), slog.Int64("invoice_no", invoiceNo))
	return invoice, nil
}

// VoidInvoice voids a posted invoice and reverses its journal entry.
func (s *SalesService) VoidInvoice(ctx context.Context, userID, companyID, invoiceID string) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(invoiceID)()
	invoice, err := s.docRepo.GetInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindInvoice, invoice.Status, domain.ActionVoid)
	if err != nil {
		return nil, err
	}
	if invoice.AmountPaid.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice has receipts applied; void those first", apperrors.ErrConflict)
	}

	if invoice.JournalEntryID != nil {
		if _, err := s.journalSvc.VoidJournal(ctx, userID, companyID, *invoice.JournalEntryID); err != nil {
			return nil, err
		}
	}

	invoice.Status = next
	invoice.UpdatedAt = time.Now()
	if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListReceipts lists receipts.
func (s *SalesService) ListReceipts(ctx context.Context, userID, companyID string) ([]domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.ListReceipts(ctx, companyID)
}

// GetReceipt fetches one receipt with allocations.
func (s *SalesService) GetReceipt(ctx context.Context, userID, companyID, receiptID string) (*domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.GetReceipt(ctx, companyID, receiptID)
}

// CreateReceipt creates a draft receipt. Replay safety for the keyed create
// lives in the idempotency layer above this service.
func (s *SalesService) CreateReceipt(ctx context.Context, userID, companyID string, req dto.CreateReceiptRequest) (*domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.DepositAccountID); err != nil {
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

	receipt := domain.Receipt{
		ID:               newID(),
		CompanyID:        companyID,
		Status:           domain.StatusDraft,
		CustomerID:       req.CustomerID,
		ReceivedDate:     req.ReceivedDate,
		Amount:           req.Amount,
		CurrencyCode:     currency,
		DepositAccountID: req.DepositAccountID,
		Notes:            req.Notes,
	}
	stamp(&receipt.AuditTimes, time.Now())
	if err := s.docRepo.SaveReceipt(ctx, receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpdateReceipt replaces the header fields of a draft receipt. Changing the
// amount drops existing allocations out of bounds, so they are revalidated at
// post time.
func (s *SalesService) UpdateReceipt(ctx context.Context, userID, companyID, receiptID string, req dto.CreateReceiptRequest) (*domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	receipt, err := s.docRepo.GetReceipt(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only draft receipts can be edited", apperrors.ErrConflict)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.DepositAccountID); err != nil {
		return nil, err
	}

	receipt.CustomerID = req.CustomerID
	receipt.ReceivedDate = req.ReceivedDate
	receipt.Amount = req.Amount
	if req.CurrencyCode != "" {
		receipt.CurrencyCode = req.CurrencyCode
	}
	receipt.DepositAccountID = req.DepositAccountID
	receipt.Notes = req.Notes
	receipt.UpdatedAt = time.Now()
	if err := s.docRepo.SaveReceipt(ctx, *receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ReplaceReceiptAllocations replaces all allocations of a draft receipt.
// Allocations must be positive, sum to at most the receipt amount, and each
// stay within its invoice's outstanding balance.
func (s *SalesService) ReplaceReceiptAllocations(ctx context.Context, userID, companyID, receiptID string, req dto.ReplaceReceiptAllocationsRequest) (*domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	receipt, err := s.docRepo.GetReceipt(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindReceipt, receipt.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	amounts := make([]decimal.Decimal, len(req.Allocations))
	for i, a := range req.Allocations {
		amounts[i] = a.Amount
	}
	if err := domain.CheckAllocationTotal(receipt.Amount, amounts); err != nil {
		return nil, err
	}

	allocations := make([]domain.ReceiptAllocation, 0, len(req.Allocations))
	for i, input := range req.Allocations {
		invoice, err := s.docRepo.GetInvoice(ctx, companyID, input.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.Status != domain.StatusPosted && invoice.Status != domain.StatusPartiallyPaid {
			return nil, fmt.Errorf("%w: invoice %s is not open for allocation", apperrors.ErrValidation, invoice.ID)
		}
		if input.Amount.GreaterThan(invoice.Outstanding()) {
			return nil, fmt.Errorf("%w: allocation %d exceeds invoice %s outstanding balance",
				apperrors.ErrValidation, i+1, invoice.ID)
		}
		allocations = append(allocations, domain.ReceiptAllocation{
			ID:        newID(),
			InvoiceID: input.InvoiceID,
			Amount:    input.Amount,
		})
	}

	receipt.Allocations = allocations
	receipt.UpdatedAt = time.Now()
	if err := s.docRepo.SaveReceipt(ctx, *receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// PostReceipt posts a draft receipt: generates the deposit journal entry and
// rolls each allocation forward into its invoice's paid amount and status.
func (s *SalesService) PostReceipt(ctx context.Context, userID, companyID, receiptID string) (*domain.Receipt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(receiptID)()
	receipt, err := s.docRepo.GetReceipt(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindReceipt, receipt.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}

	// Re-validate allocations against live balances at posting time.
	invoices := make(map[string]*domain.Invoice, len(receipt.Allocations))
	allocated := decimal.Zero
	for _, alloc := range receipt.Allocations {
		invoice, err := s.docRepo.GetInvoice(ctx, companyID, alloc.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.Status != domain.StatusPosted && invoice.Status != domain.StatusPartiallyPaid {
			return nil, fmt.Errorf("%w: invoice %s is not open for allocation", apperrors.ErrConflict, invoice.ID)
		}
		if alloc.Amount.GreaterThan(invoice.Outstanding()) {
			return nil, fmt.Errorf("%w: allocation exceeds invoice %s outstanding balance",
				apperrors.ErrConflict, invoice.ID)
		}
		invoices[alloc.InvoiceID] = invoice
		allocated = allocated.Add(alloc.Amount)
	}

	// Deposit account takes the full amount; AR is relieved per allocated
	// invoice. Unallocated remainder credits AR-less customer funds via the
	// deposit entry only when allocations exist.
	journalLines := []domain.JournalLine{{
		AccountID: receipt.DepositAccountID,
		Debit:     receipt.Amount,
		Credit:    decimal.Zero,
	}}
	for _, alloc := range receipt.Allocations {
		journalLines = append(journalLines, domain.JournalLine{
			AccountID: invoices[alloc.InvoiceID].ARAccountID,
			Debit:     decimal.Zero,
			Credit:    alloc.Amount,
		})
	}
	if remainder := receipt.Amount.Sub(allocated); remainder.GreaterThan(decimal.Zero) {
		// Unallocated funds stay on the deposit side as a customer credit
		// against the same AR account family; without allocations we need an
		// explicit balancing line.
		arAccountID := receipt.DepositAccountID
		if len(receipt.Allocations) > 0 {
			arAccountID = invoices[receipt.Allocations[0].InvoiceID].ARAccountID
		}
		journalLines = append(journalLines, domain.JournalLine{
			AccountID:   arAccountID,
			Description: "Unallocated customer funds",
			Debit:       decimal.Zero,
			Credit:      remainder,
		})
	}
	fillAccountNames(ctx, s.companyRepo, companyID, journalLines)

	entry, err := s.journalSvc.CreateSystemEntry(ctx, companyID, userID, receipt.ReceivedDate,
		"Receipt posting", "receipt", &receipt.ID, journalLines)
	if err != nil {
		return nil, err
	}

	// Roll allocations forward into invoice balances.
	for _, alloc := range receipt.Allocations {
		invoice := invoices[alloc.InvoiceID]
		invoice.AmountPaid = invoice.AmountPaid.Add(alloc.Amount)
		if invoice.AmountPaid.GreaterThanOrEqual(invoice.Total) {
			invoice.Status = domain.StatusPaid
		} else {
			invoice.Status = domain.StatusPartiallyPaid
		}
		invoice.UpdatedAt = time.Now()
		if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
			return nil, err
		}
	}

	receiptNo, err := s.docRepo.NextReceiptNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	receipt.Status = next
	receipt.ReceiptNo = &receiptNo
	receipt.JournalEntryID = &entry.ID
	receipt.UpdatedAt = time.Now()
	if err := s.docRepo.SaveReceipt(ctx, *receipt); err != nil {
		return nil, err
	}
	logger.Info("Receipt posted",
		slog.String("receipt_id", receipt.ID), slog.Int64("receipt_no", receiptNo))
	return receipt, nil
}

// VoidReceipt voids a posted receipt: reverses the journal entry and rolls
// its allocations back out of the affected invoices.
func (s *SalesService) VoidReceipt(ctx context.Context, userID, companyID, receiptID string) (*domain.Receipt, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(receiptID)()
	receipt, err := s.docRepo.GetReceipt(ctx, companyID, receiptID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindReceipt, receipt.Status, domain.ActionVoid)
	if err != nil {
		return nil, err
	}

	if receipt.JournalEntryID != nil {
		if _, err := s.journalSvc.VoidJournal(ctx, userID, companyID, *receipt.JournalEntryID); err != nil {
			return nil, err
		}
	}

	for _, alloc := range receipt.Allocations {
		invoice, err := s.docRepo.GetInvoice(ctx, companyID, alloc.InvoiceID)
		if err != nil {
			return nil, err
		}
		invoice.AmountPaid = invoice.AmountPaid.Sub(alloc.Amount)
		if invoice.AmountPaid.LessThanOrEqual(decimal.Zero) {
			invoice.AmountPaid = decimal.Zero
			invoice.Status = domain.StatusPosted
		} else {
			invoice.Status = domain.StatusPartiallyPaid
		}
		invoice.UpdatedAt = time.Now()
		if err := s.docRepo.SaveInvoice(ctx, *invoice); err != nil {
			return nil, err
		}
	}

	receipt.Status = next
	receipt.UpdatedAt = time.Now()
	if err := s.docRepo.SaveReceipt(ctx, *receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ARAging reports open invoices bucketed by days overdue as of a date.
func (s *SalesService) ARAging(ctx context.Context, userID, companyID, asOf string) ([]domain.ARAgingRow, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	asOfTime := time.Now()
	if asOf != "" {
		parsed, err := time.Parse(domain.DateLayout, asOf)
		if err != nil {
			return nil, fmt.Errorf("%w: as_of must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		asOfTime = parsed
	}

	invoices, err := s.docRepo.ListInvoices(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	var rows []domain.ARAgingRow
	for _, invoice := range invoices {
		if invoice.Status != domain.StatusPosted && invoice.Status != domain.StatusPartiallyPaid {
			continue
		}
		open := invoice.Outstanding()
		if open.LessThanOrEqual(decimal.Zero) {
			continue
		}
		dueDate := invoice.IssueDate
		if invoice.DueDate != nil {
			dueDate = *invoice.DueDate
		}
		age := domain.AgeDays(dueDate, asOfTime)
		customerName := ""
		if contact, err := s.companyRepo.GetContact(ctx, companyID, invoice.CustomerID); err == nil {
			customerName = contact.Name
		}
		rows = append(rows, domain.ARAgingRow{
			InvoiceID:    invoice.ID,
			InvoiceNo:    invoice.InvoiceNo,
			CustomerName: customerName,
			DueDate:      dueDate,
			OpenAmount:   open,
			AgeDays:      age,
			Bucket:       domain.BucketForAge(age),
		})
	}
	return rows, nil
}

func (s *SalesService) checkInvoiceHeader(ctx context.Context, companyID string, req dto.CreateInvoiceRequest) error {
	if _, err := time.Parse(domain.DateLayout, req.IssueDate); err != nil {
		return fmt.Errorf("%w: issue_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if req.DueDate != nil {
		if _, err := time.Parse(domain.DateLayout, *req.DueDate); err != nil {
			return fmt.Errorf("%w: due_date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.CustomerID); err != nil {
		return err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.ARAccountID); err != nil {
		return err
	}
	return nil
}

// fillAccountNames resolves code/name for generated journal lines. Best
// effort: lines keep working with IDs alone.
func fillAccountNames(ctx context.Context, companyRepo portsrepo.CompanyRepository, companyID string, lines []domain.JournalLine) {
	for i := range lines {
		if account, err := companyRepo.GetAccount(ctx, companyID, lines[i].AccountID); err == nil {
			lines[i].AccountCode = account.Code
			lines[i].AccountName = account.Name
		}
	}
}

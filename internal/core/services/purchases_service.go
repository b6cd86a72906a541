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

// PurchasesService manages bills and vendor payments, the payable-side mirror
// of the sales service.
type PurchasesService struct {
	authorizer
	docRepo     portsrepo.DocumentRepository
	companyRepo portsrepo.CompanyRepository
	journalSvc  *JournalService
	locks       *docLocks
}

func NewPurchasesService(docRepo portsrepo.DocumentRepository, companyRepo portsrepo.CompanyRepository, journalSvc *JournalService) *PurchasesService {
	return &PurchasesService{
		authorizer:  authorizer{companyRepo: companyRepo},
		docRepo:     docRepo,
		companyRepo: companyRepo,
		journalSvc:  journalSvc,
		locks:       newDocLocks(),
	}
}

// ListBills lists bills, optionally filtered by status.
func (s *PurchasesService) ListBills(ctx context.Context, userID, companyID string, status domain.Status) ([]domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	if status != "" && !domain.ValidStatus(domain.KindBill, status) {
		return nil, fmt.Errorf("%w: unknown bill status %s", apperrors.ErrValidation, status)
	}
	return s.docRepo.ListBills(ctx, companyID, status)
}

// GetBill fetches one bill with lines.
func (s *PurchasesService) GetBill(ctx context.Context, userID, companyID, billID string) (*domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.GetBill(ctx, companyID, billID)
}

// CreateBill creates a draft bill with no lines.
func (s *PurchasesService) CreateBill(ctx context.Context, userID, companyID string, req dto.CreateBillRequest) (*domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if err := s.checkBillHeader(ctx, companyID, req); err != nil {
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

	bill := domain.Bill{
		ID:           newID(),
		CompanyID:    companyID,
		Status:       domain.StatusDraft,
		VendorID:     req.VendorID,
		BillDate:     req.BillDate,
		DueDate:      req.DueDate,
		CurrencyCode: currency,
		Subtotal:     decimal.Zero,
		TaxTotal:     decimal.Zero,
		Total:        decimal.Zero,
		AmountPaid:   decimal.Zero,
		Notes:        req.Notes,
		APAccountID:  req.APAccountID,
	}
	stamp(&bill.AuditTimes, time.Now())
	if err := s.docRepo.SaveBill(ctx, bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// UpdateBill replaces the header fields of a draft bill.
func (s *PurchasesService) UpdateBill(ctx context.Context, userID, companyID, billID string, req dto.CreateBillRequest) (*domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	bill, err := s.docRepo.GetBill(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only draft bills can be edited", apperrors.ErrConflict)
	}
	if err := s.checkBillHeader(ctx, companyID, req); err != nil {
		return nil, err
	}

	bill.VendorID = req.VendorID
	bill.BillDate = req.BillDate
	bill.DueDate = req.DueDate
	if req.CurrencyCode != "" {
		bill.CurrencyCode = req.CurrencyCode
	}
	bill.Notes = req.Notes
	bill.APAccountID = req.APAccountID
	bill.UpdatedAt = time.Now()
	if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ReplaceBillLines replaces all lines of a draft bill and recomputes totals.
func (s *PurchasesService) ReplaceBillLines(ctx context.Context, userID, companyID, billID string, req dto.ReplaceBillLinesRequest) (*domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	bill, err := s.docRepo.GetBill(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindBill, bill.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	now := time.Now()
	subtotal := decimal.Zero
	lines := make([]domain.BillLine, 0, len(req.Lines))
	for i, input := range req.Lines {
		if input.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if input.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit cost must be non-negative", apperrors.ErrValidation, i+1)
		}
		if _, err := s.companyRepo.GetAccount(ctx, companyID, input.ExpenseAccountID); err != nil {
			return nil, err
		}
		lineTotal := input.Quantity.Mul(input.UnitCost)
		subtotal = subtotal.Add(lineTotal)
		line := domain.BillLine{
			ID:               newID(),
			LineNo:           i + 1,
			Description:      input.Description,
			Quantity:         input.Quantity,
			UnitCost:         input.UnitCost,
			LineTotal:        lineTotal,
			ExpenseAccountID: input.ExpenseAccountID,
		}
		stamp(&line.AuditTimes, now)
		lines = append(lines, line)
	}

	bill.Lines = lines
	bill.Subtotal = subtotal
	bill.Total = subtotal.Add(bill.TaxTotal)
	bill.UpdatedAt = now
	if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// PostBill posts a draft bill: assigns its number and generates the AP
// journal entry (debit each expense line, credit AP).
func (s *PurchasesService) PostBill(ctx context.Context, userID, companyID, billID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(billID)()
	bill, err := s.docRepo.GetBill(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindBill, bill.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}
	if len(bill.Lines) == 0 {
		return nil, fmt.Errorf("%w: bill needs at least one line to post", apperrors.ErrValidation)
	}

	var journalLines []domain.JournalLine
	for _, line := range bill.Lines {
		journalLines = append(journalLines, domain.JournalLine{
			AccountID:   line.ExpenseAccountID,
			Description: line.Description,
			Debit:       line.LineTotal,
			Credit:      decimal.Zero,
		})
	}
	journalLines = append(journalLines, domain.JournalLine{
		AccountID: bill.APAccountID,
		Debit:     decimal.Zero,
		Credit:    bill.Total,
	})
	fillAccountNames(ctx, s.companyRepo, companyID, journalLines)

	entry, err := s.journalSvc.CreateSystemEntry(ctx, companyID, userID, bill.BillDate,
		"Bill posting", "bill", &bill.ID, journalLines)
	if err != nil {
		return nil, err
	}

	billNo, err := s.docRepo.NextBillNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	bill.Status = next
	bill.BillNo = &billNo
	bill.JournalEntryID = &entry.ID
	bill.UpdatedAt = time.Now()
	if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
		return nil, err
	}
	logger.Info("Bill posted", slog.String("bill_id", bill.ID), slog.Int64("bill_no", billNo))
	return bill, nil
}

// VoidBill voids a posted bill and reverses its journal entry.
func (s *PurchasesService) VoidBill(ctx context.Context, userID, companyID, billID string) (*domain.Bill, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(billID)()
	bill, err := s.docRepo.GetBill(ctx, companyID, billID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindBill, bill.Status, domain.ActionVoid)
	if err != nil {
		return nil, err
	}
	if bill.AmountPaid.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: bill has payments applied; void those first", apperrors.ErrConflict)
	}

	if bill.JournalEntryID != nil {
		if _, err := s.journalSvc.VoidJournal(ctx, userID, companyID, *bill.JournalEntryID); err != nil {
			return nil, err
		}
	}

	bill.Status = next
	bill.UpdatedAt = time.Now()
	if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListVendorPayments lists vendor payments.
func (s *PurchasesService) ListVendorPayments(ctx context.Context, userID, companyID string) ([]domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.ListVendorPayments(ctx, companyID)
}

// GetVendorPayment fetches one payment with allocations.
func (s *PurchasesService) GetVendorPayment(ctx context.Context, userID, companyID, paymentID string) (*domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.docRepo.GetVendorPayment(ctx, companyID, paymentID)
}

// CreateVendorPayment creates a draft vendor payment. Replay safety for the
// keyed create lives in the idempotency layer above this service.
func (s *PurchasesService) CreateVendorPayment(ctx context.Context, userID, companyID string, req dto.CreateVendorPaymentRequest) (*domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.VendorID); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.PaymentAccountID); err != nil {
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

	payment := domain.VendorPayment{
		ID:               newID(),
		CompanyID:        companyID,
		Status:           domain.StatusDraft,
		VendorID:         req.VendorID,
		PaidDate:         req.PaidDate,
		Amount:           req.Amount,
		CurrencyCode:     currency,
		PaymentAccountID: req.PaymentAccountID,
		Notes:            req.Notes,
	}
	stamp(&payment.AuditTimes, time.Now())
	if err := s.docRepo.SaveVendorPayment(ctx, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateVendorPayment replaces the header fields of a draft payment.
func (s *PurchasesService) UpdateVendorPayment(ctx context.Context, userID, companyID, paymentID string, req dto.CreateVendorPaymentRequest) (*domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	payment, err := s.docRepo.GetVendorPayment(ctx, companyID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: only draft payments can be edited", apperrors.ErrConflict)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.VendorID); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.PaymentAccountID); err != nil {
		return nil, err
	}

	payment.VendorID = req.VendorID
	payment.PaidDate = req.PaidDate
	payment.Amount = req.Amount
	if req.CurrencyCode != "" {
		payment.CurrencyCode = req.CurrencyCode
	}
	payment.PaymentAccountID = req.PaymentAccountID
	payment.Notes = req.Notes
	payment.UpdatedAt = time.Now()
	if err := s.docRepo.SaveVendorPayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ReplaceVendorPaymentAllocations replaces all allocations of a draft
// payment.
func (s *PurchasesService) ReplaceVendorPaymentAllocations(ctx context.Context, userID, companyID, paymentID string, req dto.ReplaceVendorPaymentAllocationsRequest) (*domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	payment, err := s.docRepo.GetVendorPayment(ctx, companyID, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Apply(domain.KindVendorPayment, payment.Status, domain.ActionReplaceLines); err != nil {
		return nil, err
	}

	amounts := make([]decimal.Decimal, len(req.Allocations))
	for i, a := range req.Allocations {
		amounts[i] = a.Amount
	}
	if err := domain.CheckAllocationTotal(payment.Amount, amounts); err != nil {
		return nil, err
	}

	allocations := make([]domain.VendorPaymentAllocation, 0, len(req.Allocations))
	for i, input := range req.Allocations {
		bill, err := s.docRepo.GetBill(ctx, companyID, input.BillID)
		if err != nil {
			return nil, err
		}
		if bill.Status != domain.StatusPosted && bill.Status != domain.StatusPartiallyPaid {
			return nil, fmt.Errorf("%w: bill %s is not open for allocation", apperrors.ErrValidation, bill.ID)
		}
		if input.Amount.GreaterThan(bill.Outstanding()) {
			return nil, fmt.Errorf("%w: allocation %d exceeds bill %s outstanding balance",
				apperrors.ErrValidation, i+1, bill.ID)
		}
		allocations = append(allocations, domain.VendorPaymentAllocation{
			ID:     newID(),
			BillID: input.BillID,
			Amount: input.Amount,
		})
	}

	payment.Allocations = allocations
	payment.UpdatedAt = time.Now()
	if err := s.docRepo.SaveVendorPayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// PostVendorPayment posts a draft payment: generates the payment journal
// entry and rolls each allocation forward into its bill's paid amount and
// status.
func (s *PurchasesService) PostVendorPayment(ctx context.Context, userID, companyID, paymentID string) (*domain.VendorPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(paymentID)()
	payment, err := s.docRepo.GetVendorPayment(ctx, companyID, paymentID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindVendorPayment, payment.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}

	bills := make(map[string]*domain.Bill, len(payment.Allocations))
	allocated := decimal.Zero
	for _, alloc := range payment.Allocations {
		bill, err := s.docRepo.GetBill(ctx, companyID, alloc.BillID)
		if err != nil {
			return nil, err
		}
		if bill.Status != domain.StatusPosted && bill.Status != domain.StatusPartiallyPaid {
			return nil, fmt.Errorf("%w: bill %s is not open for allocation", apperrors.ErrConflict, bill.ID)
		}
		if alloc.Amount.GreaterThan(bill.Outstanding()) {
			return nil, fmt.Errorf("%w: allocation exceeds bill %s outstanding balance",
				apperrors.ErrConflict, bill.ID)
		}
		bills[alloc.BillID] = bill
		allocated = allocated.Add(alloc.Amount)
	}

	// AP is relieved per allocated bill; the payment account is credited for
	// the full amount paid out.
	var journalLines []domain.JournalLine
	for _, alloc := range payment.Allocations {
		journalLines = append(journalLines, domain.JournalLine{
			AccountID: bills[alloc.BillID].APAccountID,
			Debit:     alloc.Amount,
			Credit:    decimal.Zero,
		})
	}
	if remainder := payment.Amount.Sub(allocated); remainder.GreaterThan(decimal.Zero) {
		apAccountID := payment.PaymentAccountID
		if len(payment.Allocations) > 0 {
			apAccountID = bills[payment.Allocations[0].BillID].APAccountID
		}
		journalLines = append(journalLines, domain.JournalLine{
			AccountID:   apAccountID,
			Description: "Unallocated vendor prepayment",
			Debit:       remainder,
			Credit:      decimal.Zero,
		})
	}
	journalLines = append(journalLines, domain.JournalLine{
		AccountID: payment.PaymentAccountID,
		Debit:     decimal.Zero,
		Credit:    payment.Amount,
	})
	fillAccountNames(ctx, s.companyRepo, companyID, journalLines)

	entry, err := s.journalSvc.CreateSystemEntry(ctx, companyID, userID, payment.PaidDate,
		"Vendor payment posting", "vendor_payment", &payment.ID, journalLines)
	if err != nil {
		return nil, err
	}

	for _, alloc := range payment.Allocations {
		bill := bills[alloc.BillID]
		bill.AmountPaid = bill.AmountPaid.Add(alloc.Amount)
		if bill.AmountPaid.GreaterThanOrEqual(bill.Total) {
			bill.Status = domain.StatusPaid
		} else {
			bill.Status = domain.StatusPartiallyPaid
		}
		bill.UpdatedAt = time.Now()
		if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
			return nil, err
		}
	}

	paymentNo, err := s.docRepo.NextVendorPaymentNo(ctx, companyID)
	if err != nil {
		return nil, err
	}
	payment.Status = next
	payment.PaymentNo = &paymentNo
	payment.JournalEntryID = &entry.ID
	payment.UpdatedAt = time.Now()
	if err := s.docRepo.SaveVendorPayment(ctx, *payment); err != nil {
		return nil, err
	}
	logger.Info("Vendor payment posted",
		slog.String("payment_id", payment.ID), slog.Int64("payment_no", paymentNo))
	return payment, nil
}

// VoidVendorPayment voids a posted payment: reverses the journal entry and
// rolls its allocations back out of the affected bills.
func (s *PurchasesService) VoidVendorPayment(ctx context.Context, userID, companyID, paymentID string) (*domain.VendorPayment, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingPost); err != nil {
		return nil, err
	}
	defer s.locks.Lock(paymentID)()
	payment, err := s.docRepo.GetVendorPayment(ctx, companyID, paymentID)
	if err != nil {
		return nil, err
	}
	next, err := domain.Apply(domain.KindVendorPayment, payment.Status, domain.ActionVoid)
	if err != nil {
		return nil, err
	}

	if payment.JournalEntryID != nil {
		if _, err := s.journalSvc.VoidJournal(ctx, userID, companyID, *payment.JournalEntryID); err != nil {
			return nil, err
		}
	}

	for _, alloc := range payment.Allocations {
		bill, err := s.docRepo.GetBill(ctx, companyID, alloc.BillID)
		if err != nil {
			return nil, err
		}
		bill.AmountPaid = bill.AmountPaid.Sub(alloc.Amount)
		if bill.AmountPaid.LessThanOrEqual(decimal.Zero) {
			bill.AmountPaid = decimal.Zero
			bill.Status = domain.StatusPosted
		} else {
			bill.Status = domain.StatusPartiallyPaid
		}
		bill.UpdatedAt = time.Now()
		if err := s.docRepo.SaveBill(ctx, *bill); err != nil {
			return nil, err
		}
	}

	payment.Status = next
	payment.UpdatedAt = time.Now()
	if err := s.docRepo.SaveVendorPayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// APAging reports open bills bucketed by days overdue as of a date.
func (s *PurchasesService) APAging(ctx context.Context, userID, companyID, asOf string) ([]domain.APAgingRow, error) {
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

	bills, err := s.docRepo.ListBills(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	var rows []domain.APAgingRow
	for _, bill := range bills {
		if bill.Status != domain.StatusPosted && bill.Status != domain.StatusPartiallyPaid {
			continue
		}
		open := bill.Outstanding()
		if open.LessThanOrEqual(decimal.Zero) {
			continue
		}
		dueDate := bill.BillDate
		if bill.DueDate != nil {
			dueDate = *bill.DueDate
		}
		age := domain.AgeDays(dueDate, asOfTime)
		vendorName := ""
		if contact, err := s.companyRepo.GetContact(ctx, companyID, bill.VendorID); err == nil {
			vendorName = contact.Name
		}
		rows = append(rows, domain.APAgingRow{
			BillID:     bill.ID,
			BillNo:     bill.BillNo,
			VendorName: vendorName,
			DueDate:    dueDate,
			OpenAmount: open,
			AgeDays:    age,
			Bucket:     domain.BucketForAge(age),
		})
	}
	return rows, nil
}

func (s *PurchasesService) checkBillHeader(ctx context.Context, companyID string, req dto.CreateBillRequest) error {
	if _, err := time.Parse(domain.DateLayout, req.BillDate); err != nil {
		return fmt.Errorf("%w: bill_date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if req.DueDate != nil {
		if _, err := time.Parse(domain.DateLayout, *req.DueDate); err != nil {
			return fmt.Errorf("%w: due_date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
	}
	if _, err := s.companyRepo.GetContact(ctx, companyID, req.VendorID); err != nil {
		return err
	}
	if _, err := s.companyRepo.GetAccount(ctx, companyID, req.APAccountID); err != nil {
		return err
	}
	return nil
}

package memory

import (
	"context"
	"time"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[invoice.ID] = invoice
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invoice, ok := s.invoices[invoiceID]
	if !ok || invoice.CompanyID != companyID {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return &invoice, nil
}

func (s *Store) ListInvoices(ctx context.Context, companyID string, status domain.Status) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var invoices []domain.Invoice
	for _, invoice := range s.invoices {
		if invoice.CompanyID != companyID {
			continue
		}
		if status != "" && invoice.Status != status {
			continue
		}
		invoices = append(invoices, invoice)
	}
	sortByCreated(invoices, func(i domain.Invoice) time.Time { return i.CreatedAt })
	return invoices, nil
}

func (s *Store) NextInvoiceNo(ctx context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeq(companyID, "invoice"), nil
}

func (s *Store) SaveBill(ctx context.Context, bill domain.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[bill.ID] = bill
	return nil
}

func (s *Store) GetBill(ctx context.Context, companyID, billID string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bill, ok := s.bills[billID]
	if !ok || bill.CompanyID != companyID {
		return nil, fmt.Errorf("%w: bill %s", apperrors.ErrNotFound, billID)
	}
	return &bill, nil
}

func (s *Store) ListBills(ctx context.Context, companyID string, status domain.Status) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var bills []domain.Bill
	for _, bill := range s.bills {
		if bill.CompanyID != companyID {
			continue
		}
		if status != "" && bill.Status != status {
			continue
		}
		bills = append(bills, bill)
	}
	sortByCreated(bills, func(b domain.Bill) time.Time { return b.CreatedAt })
	return bills, nil
}

func (s *Store) NextBillNo(ctx context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeq(companyID, "bill"), nil
}

func (s *Store) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[receipt.ID] = receipt
	return nil
}

func (s *Store) GetReceipt(ctx context.Context, companyID, receiptID string) (*domain.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipt, ok := s.receipts[receiptID]
	if !ok || receipt.CompanyID != companyID {
		return nil, fmt.Errorf("%w: receipt %s", apperrors.ErrNotFound, receiptID)
	}
	return &receipt, nil
}

func (s *Store) ListReceipts(ctx context.Context, companyID string) ([]domain.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var receipts []domain.Receipt
	for _, receipt := range s.receipts {
		if receipt.CompanyID == companyID {
			receipts = append(receipts, receipt)
		}
	}
	sortByCreated(receipts, func(r domain.Receipt) time.Time { return r.CreatedAt })
	return receipts, nil
}

func (s *Store) NextReceiptNo(ctx context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeq(companyID, "receipt"), nil
}

func (s *Store) SaveVendorPayment(ctx context.Context, payment domain.VendorPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendorPayments[payment.ID] = payment
	return nil
}

func (s *Store) GetVendorPayment(ctx context.Context, companyID, paymentID string) (*domain.VendorPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payment, ok := s.vendorPayments[paymentID]
	if !ok || payment.CompanyID != companyID {
		return nil, fmt.Errorf("%w: vendor payment %s", apperrors.ErrNotFound, paymentID)
	}
	return &payment, nil
}

func (s *Store) ListVendorPayments(ctx context.Context, companyID string) ([]domain.VendorPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var payments []domain.VendorPayment
	for _, payment := range s.vendorPayments {
		if payment.CompanyID == companyID {
			payments = append(payments, payment)
		}
	}
	sortByCreated(payments, func(p domain.VendorPayment) time.Time { return p.CreatedAt })
	return payments, nil
}

func (s *Store) NextVendorPaymentNo(ctx context.Context, companyID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeq(companyID, "vendor_payment"), nil
}

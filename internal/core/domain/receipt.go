package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/apperrors"
)

// ReceiptAllocation applies part of a customer receipt to one open invoice.
type ReceiptAllocation struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// Receipt is money received from a customer, optionally allocated across open
// invoices. Create and post are keyed mutations: replaying them with the same
// idempotency key must not double-post.
type Receipt struct {
	ID               string          `json:"id" validate:"required"`
	CompanyID        string          `json:"company"`
	ReceiptNo        *int64          `json:"receipt_no"`
	Status           Status          `json:"status" validate:"required"`
	CustomerID       string          `json:"customer"`
	ReceivedDate     string          `json:"received_date"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currency_code"`
	DepositAccountID string          `json:"deposit_account"`
	JournalEntryID   *string         `json:"journal_entry"`
	Notes            string          `json:"notes"`
	AuditTimes
	Allocations []ReceiptAllocation `json:"allocations"`
}

func (r Receipt) CanReplaceAllocations() bool {
	return Can(KindReceipt, r.Status, ActionReplaceLines)
}
func (r Receipt) CanPost() bool { return Can(KindReceipt, r.Status, ActionPost) }
func (r Receipt) CanVoid() bool { return Can(KindReceipt, r.Status, ActionVoid) }

// VendorPaymentAllocation applies part of a vendor payment to one open bill.
type VendorPaymentAllocation struct {
	ID        string          `json:"id"`
	BillID    string          `json:"bill"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// VendorPayment is money paid to a vendor, the payable-side mirror of Receipt.
type VendorPayment struct {
	ID               string          `json:"id" validate:"required"`
	CompanyID        string          `json:"company"`
	PaymentNo        *int64          `json:"payment_no"`
	Status           Status          `json:"status" validate:"required"`
	VendorID         string          `json:"vendor"`
	PaidDate         string          `json:"paid_date"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currency_code"`
	PaymentAccountID string          `json:"payment_account"`
	JournalEntryID   *string         `json:"journal_entry"`
	Notes            string          `json:"notes"`
	AuditTimes
	Allocations []VendorPaymentAllocation `json:"allocations"`
}

func (p VendorPayment) CanReplaceAllocations() bool {
	return Can(KindVendorPayment, p.Status, ActionReplaceLines)
}
func (p VendorPayment) CanPost() bool { return Can(KindVendorPayment, p.Status, ActionPost) }
func (p VendorPayment) CanVoid() bool { return Can(KindVendorPayment, p.Status, ActionVoid) }

// CheckAllocationTotal validates that allocation amounts are positive and
// their sum does not exceed the payment or receipt amount. The per-invoice
// outstanding-balance check stays server-side where the balances live.
func CheckAllocationTotal(amount decimal.Decimal, allocationAmounts []decimal.Decimal) error {
	total := decimal.Zero
	for i, a := range allocationAmounts {
		if a.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: allocation %d amount must be positive", apperrors.ErrValidation, i+1)
		}
		total = total.Add(a)
	}
	if total.GreaterThan(amount) {
		return fmt.Errorf("%w: allocations total %s exceeds amount %s",
			apperrors.ErrValidation, total.String(), amount.String())
	}
	return nil
}

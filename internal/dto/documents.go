package dto

import "github.com/shopspring/decimal"

// Document mutations follow one pattern: a create/update payload for the
// header, and a wholesale replace payload for lines or allocations. Partial
// line patches are deliberately not modeled.

// CreateInvoiceRequest creates or updates an invoice header.
type CreateInvoiceRequest struct {
	CustomerID   string  `json:"customer" binding:"required"`
	IssueDate    string  `json:"issue_date" binding:"required"`
	DueDate      *string `json:"due_date,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	ARAccountID  string  `json:"ar_account" binding:"required"`
}

// InvoiceLineInput is one line in a wholesale line replacement.
type InvoiceLineInput struct {
	LineNo           int             `json:"line_no,omitempty"`
	Description      string          `json:"description" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price" binding:"required"`
	RevenueAccountID string          `json:"revenue_account_id" binding:"required"`
}

// ReplaceInvoiceLinesRequest replaces all lines of a draft invoice.
type ReplaceInvoiceLinesRequest struct {
	Lines []InvoiceLineInput `json:"lines" binding:"required"`
}

// CreateBillRequest creates or updates a bill header.
type CreateBillRequest struct {
	VendorID     string  `json:"vendor" binding:"required"`
	BillDate     string  `json:"bill_date" binding:"required"`
	DueDate      *string `json:"due_date,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	APAccountID  string  `json:"ap_account" binding:"required"`
}

// BillLineInput is one line in a wholesale line replacement.
type BillLineInput struct {
	LineNo           int             `json:"line_no,omitempty"`
	Description      string          `json:"description" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost         decimal.Decimal `json:"unit_cost" binding:"required"`
	ExpenseAccountID string          `json:"expense_account_id" binding:"required"`
}

// ReplaceBillLinesRequest replaces all lines of a draft bill.
type ReplaceBillLinesRequest struct {
	Lines []BillLineInput `json:"lines" binding:"required"`
}

// CreateReceiptRequest creates or updates a receipt header. Creation is a
// keyed mutation: the Idempotency-Key header travels with it.
type CreateReceiptRequest struct {
	CustomerID       string          `json:"customer" binding:"required"`
	ReceivedDate     string          `json:"received_date" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currency_code,omitempty"`
	DepositAccountID string          `json:"deposit_account" binding:"required"`
	Notes            string          `json:"notes,omitempty"`
}

// ReceiptAllocationInput applies part of a receipt to one open invoice.
type ReceiptAllocationInput struct {
	InvoiceID string          `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// ReplaceReceiptAllocationsRequest replaces all allocations of a draft receipt.
type ReplaceReceiptAllocationsRequest struct {
	Allocations []ReceiptAllocationInput `json:"allocations" binding:"required"`
}

// CreateVendorPaymentRequest creates or updates a vendor payment header, also
// a keyed mutation.
type CreateVendorPaymentRequest struct {
	VendorID         string          `json:"vendor" binding:"required"`
	PaidDate         string          `json:"paid_date" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currency_code,omitempty"`
	PaymentAccountID string          `json:"payment_account" binding:"required"`
	Notes            string          `json:"notes,omitempty"`
}

// VendorPaymentAllocationInput applies part of a payment to one open bill.
type VendorPaymentAllocationInput struct {
	BillID string          `json:"bill_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ReplaceVendorPaymentAllocationsRequest replaces all allocations of a draft
// vendor payment.
type ReplaceVendorPaymentAllocationsRequest struct {
	Allocations []VendorPaymentAllocationInput `json:"allocations" binding:"required"`
}

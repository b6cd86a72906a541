package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one revenue line on an invoice. Lines are mutable only while
// the invoice is draft, and only via wholesale replacement.
type InvoiceLine struct {
	ID               string          `json:"id"`
	LineNo           int             `json:"line_no"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	RevenueAccountID string          `json:"revenue_account"`
	AuditTimes
}

// Invoice is an accounts-receivable document. InvoiceNo is assigned by the
// server at posting and stays nil while draft.
type Invoice struct {
	ID             string          `json:"id" validate:"required"`
	CompanyID      string          `json:"company"`
	InvoiceNo      *int64          `json:"invoice_no"`
	Status         Status          `json:"status" validate:"required"`
	CustomerID     string          `json:"customer"`
	IssueDate      string          `json:"issue_date"`
	DueDate        *string         `json:"due_date"`
	CurrencyCode   string          `json:"currency_code"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Notes          string          `json:"notes"`
	ARAccountID    string          `json:"ar_account"`
	JournalEntryID *string         `json:"journal_entry"`
	AuditTimes
	Lines []InvoiceLine `json:"lines"`
}

// Outstanding is the open balance a receipt may still allocate against.
func (i Invoice) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

func (i Invoice) CanReplaceLines() bool { return Can(KindInvoice, i.Status, ActionReplaceLines) }
func (i Invoice) CanPost() bool         { return Can(KindInvoice, i.Status, ActionPost) && len(i.Lines) > 0 }
func (i Invoice) CanVoid() bool         { return Can(KindInvoice, i.Status, ActionVoid) }

// Bill mirrors Invoice on the accounts-payable side.
type BillLine struct {
	ID               string          `json:"id"`
	LineNo           int             `json:"line_no"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
	ExpenseAccountID string          `json:"expense_account"`
	AuditTimes
}

// Bill is an accounts-payable document.
type Bill struct {
	ID             string          `json:"id" validate:"required"`
	CompanyID      string          `json:"company"`
	BillNo         *int64          `json:"bill_no"`
	Status         Status          `json:"status" validate:"required"`
	VendorID       string          `json:"vendor"`
	BillDate       string          `json:"bill_date"`
	DueDate        *string         `json:"due_date"`
	CurrencyCode   string          `json:"currency_code"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	Total          decimal.Decimal `json:"total"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Notes          string          `json:"notes"`
	APAccountID    string          `json:"ap_account"`
	JournalEntryID *string         `json:"journal_entry"`
	AuditTimes
	Lines []BillLine `json:"lines"`
}

// Outstanding is the open balance a vendor payment may still allocate against.
func (b Bill) Outstanding() decimal.Decimal {
	return b.Total.Sub(b.AmountPaid)
}

func (b Bill) CanReplaceLines() bool { return Can(KindBill, b.Status, ActionReplaceLines) }
func (b Bill) CanPost() bool         { return Can(KindBill, b.Status, ActionPost) && len(b.Lines) > 0 }
func (b Bill) CanVoid() bool         { return Can(KindBill, b.Status, ActionVoid) }

// AgingBucket is the age classification the server assigns to open documents.
type AgingBucket string

const (
	Bucket0To30  AgingBucket = "0-30"
	Bucket31To60 AgingBucket = "31-60"
	Bucket61To90 AgingBucket = "61-90"
	Bucket90Plus AgingBucket = "90+"
)

// ARAgingRow is one open invoice in the accounts-receivable aging report.
type ARAgingRow struct {
	InvoiceID    string          `json:"invoice_id"`
	InvoiceNo    *int64          `json:"invoice_no"`
	CustomerName string          `json:"customer_name"`
	DueDate      string          `json:"due_date"`
	OpenAmount   decimal.Decimal `json:"open_amount"`
	AgeDays      int             `json:"age_days"`
	Bucket       AgingBucket     `json:"bucket"`
}

// APAgingRow is one open bill in the accounts-payable aging report.
type APAgingRow struct {
	BillID     string          `json:"bill_id"`
	BillNo     *int64          `json:"bill_no"`
	VendorName string          `json:"vendor_name"`
	DueDate    string          `json:"due_date"`
	OpenAmount decimal.Decimal `json:"open_amount"`
	AgeDays    int             `json:"age_days"`
	Bucket     AgingBucket     `json:"bucket"`
}

// BucketForAge maps an age in days to its aging bucket.
func BucketForAge(ageDays int) AgingBucket {
	switch {
	case ageDays <= 30:
		return Bucket0To30
	case ageDays <= 60:
		return Bucket31To60
	case ageDays <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

// AgeDays computes whole days elapsed from a due date to asOf, floored at zero.
func AgeDays(dueDate string, asOf time.Time) int {
	due, err := time.Parse(DateLayout, dueDate)
	if err != nil {
		return 0
	}
	days := int(asOf.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

package domain

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Income    AccountType = "income"
	Expense   AccountType = "expense"
)

// NormalBalance is the side an account naturally carries its balance on.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

// Account is a chart-of-accounts entry.
type Account struct {
	ID            string        `json:"id" validate:"required"`
	CompanyID     string        `json:"company"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	Type          AccountType   `json:"type"`
	NormalBalance NormalBalance `json:"normal_balance"`
	ParentID      *string       `json:"parent"`
	IsActive      bool          `json:"is_active"`
	IsSystem      bool          `json:"is_system"`
	AuditTimes
}

// ContactType classifies a contact as customer, vendor, or both.
type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactVendor   ContactType = "vendor"
	ContactBoth     ContactType = "both"
)

// Contact is a customer or vendor record.
type Contact struct {
	ID        string      `json:"id" validate:"required"`
	CompanyID string      `json:"company"`
	Type      ContactType `json:"type"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	TaxID     string      `json:"tax_id"`
	IsActive  bool        `json:"is_active"`
	AuditTimes
}

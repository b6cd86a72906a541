package repositories

import (
	"context"
	"time"

	"github.com/ledgerline/ledgerline/internal/core/domain"
)

// UserRepository persists user accounts and refresh-token state.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User, passwordHash string) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	SetPasswordHash(ctx context.Context, userID string, passwordHash string) error
	UpdateUser(ctx context.Context, user domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Refresh tokens are stored hashed; the raw token never touches disk.
	SaveRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error
	GetUserIDByRefreshTokenHash(ctx context.Context, tokenHash string) (string, time.Time, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
	DeleteRefreshTokensForUser(ctx context.Context, userID string) error
}

// CompanyRepository persists tenants, memberships, accounts, and contacts.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company domain.Company) error
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	ListCompaniesForUser(ctx context.Context, userID string) ([]domain.Company, error)

	UpsertMember(ctx context.Context, member domain.CompanyMember) error
	GetMember(ctx context.Context, companyID, userID string) (*domain.CompanyMember, error)
	ListMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error)
	ListMembershipsForUser(ctx context.Context, userID string) ([]domain.CompanyMember, error)
	RemoveMember(ctx context.Context, companyID, userID string) error

	CreateAccount(ctx context.Context, account domain.Account) error
	GetAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	CreateContact(ctx context.Context, contact domain.Contact) error
	GetContact(ctx context.Context, companyID, contactID string) (*domain.Contact, error)
	ListContacts(ctx context.Context, companyID string, contactType domain.ContactType) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, companyID, contactID string) error
}

// DocumentRepository persists sales and purchase documents. Sequence numbers
// are allocated per company at posting time and never reused.
type DocumentRepository interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	GetInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, companyID string, status domain.Status) ([]domain.Invoice, error)
	NextInvoiceNo(ctx context.Context, companyID string) (int64, error)

	SaveBill(ctx context.Context, bill domain.Bill) error
	GetBill(ctx context.Context, companyID, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, companyID string, status domain.Status) ([]domain.Bill, error)
	NextBillNo(ctx context.Context, companyID string) (int64, error)

	SaveReceipt(ctx context.Context, receipt domain.Receipt) error
	GetReceipt(ctx context.Context, companyID, receiptID string) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, companyID string) ([]domain.Receipt, error)
	NextReceiptNo(ctx context.Context, companyID string) (int64, error)

	SaveVendorPayment(ctx context.Context, payment domain.VendorPayment) error
	GetVendorPayment(ctx context.Context, companyID, paymentID string) (*domain.VendorPayment, error)
	ListVendorPayments(ctx context.Context, companyID string) ([]domain.VendorPayment, error)
	NextVendorPaymentNo(ctx context.Context, companyID string) (int64, error)
}

// JournalRepository persists manual journal entries.
type JournalRepository interface {
	SaveJournal(ctx context.Context, entry domain.JournalEntry) error
	GetJournal(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)
	ListJournals(ctx context.Context, companyID string, status domain.Status) ([]domain.JournalEntry, error)
	NextEntryNo(ctx context.Context, companyID string) (int64, error)
}

// BankingRepository persists bank accounts, imports, transactions, and
// reconciliations.
type BankingRepository interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	GetBankAccount(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, companyID, bankAccountID string) error

	SaveBankImport(ctx context.Context, imp domain.BankStatementImport) error
	GetBankImport(ctx context.Context, companyID, importID string) (*domain.BankStatementImport, error)
	ListBankImports(ctx context.Context, companyID string, status domain.BankImportStatus) ([]domain.BankStatementImport, error)

	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error
	GetBankTransaction(ctx context.Context, companyID, transactionID string) (*domain.BankTransaction, error)
	ListBankTransactions(ctx context.Context, companyID string, filter domain.BankTransactionQuery) ([]domain.BankTransaction, error)

	SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error
	GetReconciliation(ctx context.Context, companyID, reconciliationID string) (*domain.BankReconciliation, error)
	ListReconciliations(ctx context.Context, companyID string) ([]domain.BankReconciliation, error)
}

// RepositoryProvider bundles every repository an instance needs, so wiring
// passes one value instead of six.
type RepositoryProvider struct {
	UserRepo     UserRepository
	CompanyRepo  CompanyRepository
	DocumentRepo DocumentRepository
	JournalRepo  JournalRepository
	BankingRepo  BankingRepository
	SystemRepo   SystemRepository
}

// SystemRepository persists platform-operator state.
type SystemRepository interface {
	GetSystemRole(ctx context.Context, userID string) (*domain.SystemRole, bool, error)
	SetSystemRole(ctx context.Context, userID string, role *domain.SystemRole, isActive bool) error

	GetFeatureFlags(ctx context.Context, companyID string) (domain.CompanyFeatureFlags, error)
	SetFeatureFlags(ctx context.Context, companyID string, flags domain.CompanyFeatureFlags) error
	GetQuotas(ctx context.Context, companyID string) (domain.CompanyQuotas, error)
	SetQuotas(ctx context.Context, companyID string, quotas domain.CompanyQuotas) error
	GetGlobalFeatureFlags(ctx context.Context) (domain.GlobalFeatureFlags, error)

	AppendAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, filter domain.AuditLogQuery) ([]domain.AuditLog, error)

	LastLogin(ctx context.Context, userID string) (*time.Time, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

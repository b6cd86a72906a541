// Package memory provides in-memory repository implementations backing the
// reference server. All state is process-local and guarded by one mutex;
// copies go in and out so callers never share map-backed memory.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/core/ports/repositories"
)

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

type systemRoleRecord struct {
	role     domain.SystemRole
	isActive bool
}

// Store holds all server-side state. It implements every repository port.
type Store struct {
	mu sync.RWMutex

	users          map[string]domain.User
	passwordHashes map[string]string
	refreshTokens  map[string]refreshRecord

	companies map[string]domain.Company
	members   map[string]map[string]domain.CompanyMember
	accounts  map[string]domain.Account
	contacts  map[string]domain.Contact

	invoices       map[string]domain.Invoice
	bills          map[string]domain.Bill
	receipts       map[string]domain.Receipt
	vendorPayments map[string]domain.VendorPayment
	journals       map[string]domain.JournalEntry

	bankAccounts    map[string]domain.BankAccount
	bankImports     map[string]domain.BankStatementImport
	bankTxns        map[string]domain.BankTransaction
	reconciliations map[string]domain.BankReconciliation

	systemRoles  map[string]systemRoleRecord
	featureFlags map[string]domain.CompanyFeatureFlags
	quotas       map[string]domain.CompanyQuotas
	globalFlags  domain.GlobalFeatureFlags
	auditLogs    []domain.AuditLog
	lastLogins   map[string]time.Time

	// Per-company document sequences, keyed "<companyID>/<kind>". Numbers
	// are assigned at posting and never reused.
	sequences map[string]int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:           make(map[string]domain.User),
		passwordHashes:  make(map[string]string),
		refreshTokens:   make(map[string]refreshRecord),
		companies:       make(map[string]domain.Company),
		members:         make(map[string]map[string]domain.CompanyMember),
		accounts:        make(map[string]domain.Account),
		contacts:        make(map[string]domain.Contact),
		invoices:        make(map[string]domain.Invoice),
		bills:           make(map[string]domain.Bill),
		receipts:        make(map[string]domain.Receipt),
		vendorPayments:  make(map[string]domain.VendorPayment),
		journals:        make(map[string]domain.JournalEntry),
		bankAccounts:    make(map[string]domain.BankAccount),
		bankImports:     make(map[string]domain.BankStatementImport),
		bankTxns:        make(map[string]domain.BankTransaction),
		reconciliations: make(map[string]domain.BankReconciliation),
		systemRoles:     make(map[string]systemRoleRecord),
		featureFlags:    make(map[string]domain.CompanyFeatureFlags),
		quotas:          make(map[string]domain.CompanyQuotas),
		lastLogins:      make(map[string]time.Time),
		sequences:       make(map[string]int64),
		globalFlags: domain.GlobalFeatureFlags{
			SignupsEnabled: true,
		},
	}
}

// Provider wraps one store as every repository port.
func Provider(s *Store) *repositories.RepositoryProvider {
	return &repositories.RepositoryProvider{
		UserRepo:     s,
		CompanyRepo:  s,
		DocumentRepo: s,
		JournalRepo:  s,
		BankingRepo:  s,
		SystemRepo:   s,
	}
}

// nextSeq increments and returns a per-company sequence. Callers hold s.mu.
func (s *Store) nextSeq(companyID, kind string) int64 {
	key := companyID + "/" + kind
	s.sequences[key]++
	return s.sequences[key]
}

// sortByCreated orders newest first, matching list endpoints everywhere.
func sortByCreated[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

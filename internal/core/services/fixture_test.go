package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/core/services"
	"github.com/ledgerline/ledgerline/internal/platform/config"
	"github.com/ledgerline/ledgerline/internal/repositories/memory"
	"github.com/ledgerline/ledgerline/internal/utils"
)

// fixture wires the full service container onto the in-memory store with one
// company, an admin and a viewer member, a small chart of accounts (by code),
// and a customer and vendor contact.
type fixture struct {
	ctx      context.Context
	svcs     *services.Container
	repos    *portsrepo.RepositoryProvider
	company  domain.Company
	admin    domain.User
	viewer   domain.User
	accounts map[string]domain.Account
	customer domain.Contact
	vendor   domain.Contact
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.Provider(memory.NewStore())
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpiryDuration:  15 * time.Minute,
		JWTIssuer:          "ledgerline-test",
		RefreshTokenExpiry: 24 * time.Hour,
	}
	f := &fixture{
		ctx:      ctx,
		svcs:     services.NewContainer(repos, cfg),
		repos:    repos,
		accounts: make(map[string]domain.Account),
	}

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	f.admin = domain.User{ID: uuid.NewString(), Email: "admin@test.dev", FullName: "Test Admin", IsActive: true}
	require.NoError(t, repos.UserRepo.CreateUser(ctx, f.admin, hash))
	f.viewer = domain.User{ID: uuid.NewString(), Email: "viewer@test.dev", FullName: "Test Viewer", IsActive: true}
	require.NoError(t, repos.UserRepo.CreateUser(ctx, f.viewer, hash))

	f.company = domain.Company{
		ID:                   uuid.NewString(),
		Name:                 "Test Co",
		Slug:                 "test-co",
		BaseCurrency:         "USD",
		Timezone:             "UTC",
		FiscalYearStartMonth: 1,
		IsActive:             true,
	}
	require.NoError(t, repos.CompanyRepo.CreateCompany(ctx, f.company))
	require.NoError(t, repos.CompanyRepo.UpsertMember(ctx, domain.CompanyMember{
		CompanyID: f.company.ID, UserID: f.admin.ID, Email: f.admin.Email,
		Status: domain.MemberActive, Roles: []string{domain.RoleAdmin},
	}))
	require.NoError(t, repos.CompanyRepo.UpsertMember(ctx, domain.CompanyMember{
		CompanyID: f.company.ID, UserID: f.viewer.ID, Email: f.viewer.Email,
		Status: domain.MemberActive, Roles: []string{domain.RoleViewer},
	}))

	chart := []struct {
		code string
		name string
		typ  domain.AccountType
		bal  domain.NormalBalance
	}{
		{"1000", "Cash at Bank", domain.Asset, domain.NormalDebit},
		{"1100", "Accounts Receivable", domain.Asset, domain.NormalDebit},
		{"2000", "Accounts Payable", domain.Liability, domain.NormalCredit},
		{"3000", "Owner's Equity", domain.Equity, domain.NormalCredit},
		{"4000", "Service Revenue", domain.Income, domain.NormalCredit},
		{"5000", "Office Expenses", domain.Expense, domain.NormalDebit},
	}
	for _, a := range chart {
		account := domain.Account{
			ID: uuid.NewString(), CompanyID: f.company.ID,
			Code: a.code, Name: a.name, Type: a.typ, NormalBalance: a.bal, IsActive: true,
		}
		require.NoError(t, repos.CompanyRepo.CreateAccount(ctx, account))
		f.accounts[a.code] = account
	}

	f.customer = domain.Contact{
		ID: uuid.NewString(), CompanyID: f.company.ID,
		Type: domain.ContactCustomer, Name: "Northwind Traders", IsActive: true,
	}
	require.NoError(t, repos.CompanyRepo.CreateContact(ctx, f.customer))
	f.vendor = domain.Contact{
		ID: uuid.NewString(), CompanyID: f.company.ID,
		Type: domain.ContactVendor, Name: "Fabrikam Supplies", IsActive: true,
	}
	require.NoError(t, repos.CompanyRepo.CreateContact(ctx, f.vendor))

	return f
}

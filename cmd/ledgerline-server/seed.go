package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/utils"
)

// seedDemoData loads a demo tenant so the server is usable out of the box:
// a platform operator (admin@ledgerline.dev / password123), a company with a
// minimal chart of accounts, and a customer and vendor to bill against.
func seedDemoData(repos *portsrepo.RepositoryProvider) error {
	ctx := context.Background()
	now := time.Now()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:          uuid.NewString(),
		Email:       "admin@ledgerline.dev",
		FullName:    "Demo Admin",
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := repos.UserRepo.CreateUser(ctx, admin, hash); err != nil {
		return err
	}
	superAdmin := domain.SystemSuperAdmin
	if err := repos.SystemRepo.SetSystemRole(ctx, admin.ID, &superAdmin, true); err != nil {
		return err
	}

	company := domain.Company{
		ID:                   uuid.NewString(),
		Name:                 "Acme Studio",
		Slug:                 "acme-studio",
		BaseCurrency:         "USD",
		Timezone:             "UTC",
		FiscalYearStartMonth: 1,
		IsActive:             true,
		AuditTimes:           domain.AuditTimes{CreatedAt: now, UpdatedAt: now},
	}
	if err := repos.CompanyRepo.CreateCompany(ctx, company); err != nil {
		return err
	}
	member := domain.CompanyMember{
		CompanyID: company.ID,
		UserID:    admin.ID,
		Email:     admin.Email,
		FullName:  admin.FullName,
		Status:    domain.MemberActive,
		Roles:     []string{domain.RoleAdmin},
	}
	if err := repos.CompanyRepo.UpsertMember(ctx, member); err != nil {
		return err
	}

	accounts := []struct {
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
	for _, a := range accounts {
		account := domain.Account{
			ID:            uuid.NewString(),
			CompanyID:     company.ID,
			Code:          a.code,
			Name:          a.name,
			Type:          a.typ,
			NormalBalance: a.bal,
			IsActive:      true,
			IsSystem:      true,
			AuditTimes:    domain.AuditTimes{CreatedAt: now, UpdatedAt: now},
		}
		if err := repos.CompanyRepo.CreateAccount(ctx, account); err != nil {
			return err
		}
	}

	contacts := []domain.Contact{
		{
			ID:         uuid.NewString(),
			CompanyID:  company.ID,
			Type:       domain.ContactCustomer,
			Name:       "Northwind Traders",
			Email:      "billing@northwind.example",
			IsActive:   true,
			AuditTimes: domain.AuditTimes{CreatedAt: now, UpdatedAt: now},
		},
		{
			ID:         uuid.NewString(),
			CompanyID:  company.ID,
			Type:       domain.ContactVendor,
			Name:       "Fabrikam Supplies",
			Email:      "accounts@fabrikam.example",
			IsActive:   true,
			AuditTimes: domain.AuditTimes{CreatedAt: now, UpdatedAt: now},
		},
	}
	for _, contact := range contacts {
		if err := repos.CompanyRepo.CreateContact(ctx, contact); err != nil {
			return err
		}
	}

	return nil
}

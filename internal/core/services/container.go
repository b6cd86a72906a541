package services

import (
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/platform/config"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	Auth      *AuthService
	Company   *CompanyService
	Journal   *JournalService
	Sales     *SalesService
	Purchases *PurchasesService
	Banking   *BankingService
	Reporting *ReportingService
	System    *SystemService
}

// NewContainer creates a service container with properly initialized
// dependencies. Journal comes first since document services post through it.
func NewContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *Container {
	journal := NewJournalService(repos.JournalRepo, repos.CompanyRepo)
	return &Container{
		Auth:      NewAuthService(repos.UserRepo, repos.SystemRepo, cfg),
		Company:   NewCompanyService(repos.CompanyRepo, repos.UserRepo),
		Journal:   journal,
		Sales:     NewSalesService(repos.DocumentRepo, repos.CompanyRepo, journal),
		Purchases: NewPurchasesService(repos.DocumentRepo, repos.CompanyRepo, journal),
		Banking:   NewBankingService(repos.BankingRepo, repos.JournalRepo, repos.CompanyRepo),
		Reporting: NewReportingService(repos.JournalRepo, repos.CompanyRepo, repos.BankingRepo),
		System:    NewSystemService(repos.SystemRepo, repos.UserRepo, repos.CompanyRepo),
	}
}

package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
)

func (s *Store) GetSystemRole(ctx context.Context, userID string) (*domain.SystemRole, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.systemRoles[userID]
	if !ok {
		return nil, false, nil
	}
	role := rec.role
	return &role, rec.isActive, nil
}

func (s *Store) SetSystemRole(ctx context.Context, userID string, role *domain.SystemRole, isActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == nil {
		delete(s.systemRoles, userID)
		return nil
	}
	s.systemRoles[userID] = systemRoleRecord{role: *role, isActive: isActive}
	return nil
}

func (s *Store) GetFeatureFlags(ctx context.Context, companyID string) (domain.CompanyFeatureFlags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.companies[companyID]; !ok {
		return domain.CompanyFeatureFlags{}, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	if flags, ok := s.featureFlags[companyID]; ok {
		return flags, nil
	}
	// New tenants get everything enabled until an operator says otherwise.
	return domain.CompanyFeatureFlags{BankingEnabled: true, ReportsEnabled: true, PurchasesEnabled: true}, nil
}

func (s *Store) SetFeatureFlags(ctx context.Context, companyID string, flags domain.CompanyFeatureFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[companyID]; !ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	s.featureFlags[companyID] = flags
	return nil
}

func (s *Store) GetQuotas(ctx context.Context, companyID string) (domain.CompanyQuotas, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.companies[companyID]; !ok {
		return domain.CompanyQuotas{}, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	if quotas, ok := s.quotas[companyID]; ok {
		return quotas, nil
	}
	return domain.CompanyQuotas{MaxUsers: 25, MaxInvoicesPerMonth: 1000, MaxStorageMB: 512}, nil
}

func (s *Store) SetQuotas(ctx context.Context, companyID string, quotas domain.CompanyQuotas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[companyID]; !ok {
		return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	s.quotas[companyID] = quotas
	return nil
}

func (s *Store) GetGlobalFeatureFlags(ctx context.Context) (domain.GlobalFeatureFlags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalFlags, nil
}

func (s *Store) AppendAuditLog(ctx context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter domain.AuditLogQuery) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []domain.AuditLog
	for _, entry := range s.auditLogs {
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && entry.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ActorID != "" && entry.ActorID != filter.ActorID {
			continue
		}
		day := entry.CreatedAt.Format(domain.DateLayout)
		if filter.DateFrom != "" && day < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && day > filter.DateTo {
			continue
		}
		logs = append(logs, entry)
	}
	sortByCreated(logs, func(l domain.AuditLog) time.Time { return l.CreatedAt })
	return logs, nil
}

func (s *Store) LastLogin(ctx context.Context, userID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if at, ok := s.lastLogins[userID]; ok {
		return &at, nil
	}
	return nil, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogins[userID] = at
	return nil
}

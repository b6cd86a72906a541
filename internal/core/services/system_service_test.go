package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// grantSystemRole makes the fixture admin a platform operator.
func grantSystemRole(t *testing.T, f *fixture, userID string, role domain.SystemRole) {
	t.Helper()
	require.NoError(t, f.repos.SystemRepo.SetSystemRole(f.ctx, userID, &role, true))
}

func TestSystemService_OperatorGating(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.System

	// No system role at all: reads are refused.
	_, err := svc.ListCompanies(f.ctx, f.admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Read-only operators can read but not write.
	grantSystemRole(t, f, f.viewer.ID, domain.SystemReadOnly)
	companies, err := svc.ListCompanies(f.ctx, f.viewer.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, f.company.Name, companies[0].Name)

	_, err = svc.UpdateCompanyStatus(f.ctx, f.viewer.ID, f.company.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSystemService_BootstrapCompany(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.System
	grantSystemRole(t, f, f.admin.ID, domain.SystemSuperAdmin)

	result, err := svc.BootstrapCompany(f.ctx, f.admin.ID, domain.CompanyBootstrapInput{
		Name:          "New Tenant",
		Slug:          "new-tenant",
		AdminEmail:    "owner@tenant.dev",
		AdminFullName: "Tenant Owner",
		AdminPassword: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", result.Company.BaseCurrency, "currency defaults when omitted")
	assert.Equal(t, "UTC", result.Company.Timezone)
	assert.True(t, result.Company.IsActive)
	assert.Equal(t, "owner@tenant.dev", result.AdminUser.Email)
	assert.Equal(t, domain.MemberActive, result.Member.Status)
	assert.Contains(t, result.Member.Roles, domain.RoleAdmin)

	// Bootstrapping with an existing admin email reuses the account.
	again, err := svc.BootstrapCompany(f.ctx, f.admin.ID, domain.CompanyBootstrapInput{
		Name:          "Second Tenant",
		Slug:          "second-tenant",
		AdminEmail:    "owner@tenant.dev",
		AdminFullName: "Tenant Owner",
		AdminPassword: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, result.AdminUser.ID, again.AdminUser.ID)

	// Bootstrap is audited.
	logs, err := svc.ListAuditLogs(f.ctx, f.admin.ID, domain.AuditLogQuery{Action: "company.bootstrap"})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestSystemService_FeatureFlagsAndQuotas(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.System
	grantSystemRole(t, f, f.admin.ID, domain.SystemSuperAdmin)

	flags, err := svc.UpdateCompanyFeatureFlags(f.ctx, f.admin.ID, f.company.ID, map[string]bool{
		"banking_enabled": false,
	})
	require.NoError(t, err)
	assert.False(t, flags.FeatureFlags.BankingEnabled)

	_, err = svc.UpdateCompanyFeatureFlags(f.ctx, f.admin.ID, f.company.ID, map[string]bool{
		"time_travel_enabled": true,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	quotas, err := svc.UpdateCompanyQuotas(f.ctx, f.admin.ID, f.company.ID, map[string]int{
		"max_users": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, quotas.Quotas.MaxUsers)

	_, err = svc.UpdateCompanyQuotas(f.ctx, f.admin.ID, f.company.ID, map[string]int{
		"max_users": -1,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSystemService_UserManagement(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.System
	grantSystemRole(t, f, f.admin.ID, domain.SystemSuperAdmin)

	created, err := svc.CreateUser(f.ctx, f.admin.ID, dto.SystemCreateUserRequest{
		Email:    "new@test.dev",
		FullName: "New User",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = svc.CreateUser(f.ctx, f.admin.ID, dto.SystemCreateUserRequest{
		Email:    "new@test.dev",
		FullName: "Duplicate",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// The new user can log in, and a password reset revokes the session.
	_, err = f.svcs.Auth.Login(f.ctx, dto.LoginRequest{Email: "new@test.dev", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.ResetUserPassword(f.ctx, f.admin.ID, created.ID, dto.ResetPasswordRequest{NewPassword: "different-pass"})
	require.NoError(t, err)
	_, err = f.svcs.Auth.Login(f.ctx, dto.LoginRequest{Email: "new@test.dev", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.svcs.Auth.Login(f.ctx, dto.LoginRequest{Email: "new@test.dev", Password: "different-pass"})
	assert.NoError(t, err)

	deactivated, err := svc.DeactivateUser(f.ctx, f.admin.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	// Operators cannot deactivate themselves.
	_, err = svc.DeactivateUser(f.ctx, f.admin.ID, f.admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSystemService_MemberManagement(t *testing.T) {
	f := newFixture(t)
	svc := f.svcs.System
	grantSystemRole(t, f, f.admin.ID, domain.SystemSuperAdmin)

	created, err := svc.CreateUser(f.ctx, f.admin.ID, dto.SystemCreateUserRequest{
		Email:    "member@test.dev",
		FullName: "New Member",
		Password: "password123",
	})
	require.NoError(t, err)

	member, err := svc.UpsertCompanyMember(f.ctx, f.admin.ID, f.company.ID, dto.SystemUpsertMemberRequest{
		UserID: created.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberActive, member.Status, "status defaults to active")
	assert.Equal(t, []string{domain.RoleViewer}, member.Roles, "roles default to viewer")

	_, err = svc.UpsertCompanyMember(f.ctx, f.admin.ID, f.company.ID, dto.SystemUpsertMemberRequest{
		UserID: created.ID,
		Roles:  []string{"Wizard"},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	roles, err := svc.ReplaceCompanyMemberRoles(f.ctx, f.admin.ID, f.company.ID, created.ID,
		[]string{domain.RoleAccountant})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleAccountant}, roles.Roles)

	require.NoError(t, svc.RemoveCompanyMember(f.ctx, f.admin.ID, f.company.ID, created.ID))
	_, err = f.repos.CompanyRepo.GetMember(f.ctx, f.company.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

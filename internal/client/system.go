package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// Platform-operator surface. Every call here requires a system role on the
// authenticated user; members of ordinary companies get 403.

// SystemFetchCompanies lists every tenant on the platform.
func (c *Client) SystemFetchCompanies(ctx context.Context) ([]domain.SystemCompany, error) {
	return callList[domain.SystemCompany](ctx, c, requestSpec{
		method: http.MethodGet, path: "/system/companies/", requiresAuth: true,
	})
}

// SystemFetchCompany fetches one tenant with flags and quotas.
func (c *Client) SystemFetchCompany(ctx context.Context, companyID string) (*domain.SystemCompanyDetail, error) {
	var detail domain.SystemCompanyDetail
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/system/companies/%s/", companyID), requiresAuth: true,
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SystemBootstrapCompany creates a tenant together with its first admin user.
func (c *Client) SystemBootstrapCompany(ctx context.Context, input domain.CompanyBootstrapInput) (*domain.CompanyBootstrapResult, error) {
	var result domain.CompanyBootstrapResult
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: "/system/companies/bootstrap/", body: input, requiresAuth: true,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SystemFetchCompanyFeatureFlags reads a tenant's feature flags.
func (c *Client) SystemFetchCompanyFeatureFlags(ctx context.Context, companyID string) (*dto.CompanyFeatureFlagsResponse, error) {
	var resp dto.CompanyFeatureFlagsResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/system/companies/%s/feature-flags/", companyID), requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemUpdateCompanyFeatureFlags patches a tenant's feature flags. Only the
// keys present in updates change.
func (c *Client) SystemUpdateCompanyFeatureFlags(ctx context.Context, companyID string, updates map[string]bool) (*dto.CompanyFeatureFlagsResponse, error) {
	var resp dto.CompanyFeatureFlagsResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/companies/%s/feature-flags/", companyID),
		body: updates, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemFetchCompanyQuotas reads a tenant's quotas.
func (c *Client) SystemFetchCompanyQuotas(ctx context.Context, companyID string) (*dto.CompanyQuotasResponse, error) {
	var resp dto.CompanyQuotasResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/system/companies/%s/quotas/", companyID), requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemUpdateCompanyQuotas patches a tenant's quotas.
func (c *Client) SystemUpdateCompanyQuotas(ctx context.Context, companyID string, updates map[string]int) (*dto.CompanyQuotasResponse, error) {
	var resp dto.CompanyQuotasResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/companies/%s/quotas/", companyID),
		body: updates, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemUpdateCompanyStatus activates or deactivates a tenant.
func (c *Client) SystemUpdateCompanyStatus(ctx context.Context, companyID string, isActive bool) (*dto.CompanyStatusResponse, error) {
	var resp dto.CompanyStatusResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/companies/%s/status/", companyID),
		body: dto.SystemUpdateCompanyStatusRequest{IsActive: isActive}, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemFetchUsers lists every user account on the platform.
func (c *Client) SystemFetchUsers(ctx context.Context) ([]domain.SystemUser, error) {
	return callList[domain.SystemUser](ctx, c, requestSpec{
		method: http.MethodGet, path: "/system/users/", requiresAuth: true,
	})
}

// SystemCreateUser creates a user account outside any company.
func (c *Client) SystemCreateUser(ctx context.Context, req dto.SystemCreateUserRequest) (*domain.SystemUserDetail, error) {
	var detail domain.SystemUserDetail
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: "/system/users/", body: req, requiresAuth: true,
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SystemFetchUser fetches one user with memberships.
func (c *Client) SystemFetchUser(ctx context.Context, userID string) (*domain.SystemUserDetail, error) {
	var detail domain.SystemUserDetail
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/system/users/%s/", userID), requiresAuth: true,
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SystemUpdateUser patches user fields.
func (c *Client) SystemUpdateUser(ctx context.Context, userID string, updates dto.SystemUpdateUserRequest) (*domain.SystemUserDetail, error) {
	var detail domain.SystemUserDetail
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/users/%s/", userID),
		body: updates, requiresAuth: true,
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SystemResetUserPassword sets a new password on behalf of a user.
func (c *Client) SystemResetUserPassword(ctx context.Context, userID, newPassword string) (*dto.SystemPasswordResetResponse, error) {
	var resp dto.SystemPasswordResetResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/system/users/%s/reset-password/", userID),
		body: dto.ResetPasswordRequest{NewPassword: newPassword}, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemDeactivateUser deactivates a user account.
func (c *Client) SystemDeactivateUser(ctx context.Context, userID string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodDelete, path: fmt.Sprintf("/system/users/%s/", userID),
		body: struct{}{}, requiresAuth: true,
	}, nil)
}

// SystemUpdateUserRole assigns, updates, or clears a user's platform role.
// A nil Role in updates removes the role.
func (c *Client) SystemUpdateUserRole(ctx context.Context, userID string, updates dto.SystemUpdateUserRoleRequest) (*dto.SystemRoleResponse, error) {
	var resp dto.SystemRoleResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/users/%s/system-role/", userID),
		body: updates, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemUpsertCompanyMember adds a user to a company, or updates the
// membership when one exists.
func (c *Client) SystemUpsertCompanyMember(ctx context.Context, companyID string, req dto.SystemUpsertMemberRequest) (*domain.CompanyMember, error) {
	var member domain.CompanyMember
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/system/companies/%s/members/", companyID),
		body: req, requiresAuth: true,
	}, &member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// SystemReplaceCompanyMemberRoles replaces a membership's role set wholesale.
func (c *Client) SystemReplaceCompanyMemberRoles(ctx context.Context, companyID, userID string, roles []string) (*dto.MemberRolesResponse, error) {
	var resp dto.MemberRolesResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/system/companies/%s/members/%s/roles/", companyID, userID),
		body: dto.ReplaceMemberRolesRequest{Roles: roles}, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemRemoveCompanyMember removes a user from a company.
func (c *Client) SystemRemoveCompanyMember(ctx context.Context, companyID, userID string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodDelete, path: fmt.Sprintf("/system/companies/%s/members/%s/", companyID, userID),
		body: struct{}{}, requiresAuth: true,
	}, nil)
}

// AuditLogFilter narrows an audit log listing.
type AuditLogFilter struct {
	Action       string
	ResourceType string
	ActorID      string
	DateFrom     string
	DateTo       string
}

// SystemFetchAuditLogs lists recorded admin actions, newest first.
func (c *Client) SystemFetchAuditLogs(ctx context.Context, filter AuditLogFilter) ([]domain.AuditLog, error) {
	return callList[domain.AuditLog](ctx, c, requestSpec{
		method: http.MethodGet, path: "/system/audit-logs/",
		query: withQuery(map[string]string{
			"action":        filter.Action,
			"resource_type": filter.ResourceType,
			"actor_id":      filter.ActorID,
			"date_from":     filter.DateFrom,
			"date_to":       filter.DateTo,
		}),
		requiresAuth: true,
	})
}

// SystemFetchGlobalFeatureFlags reads the platform-wide toggles.
func (c *Client) SystemFetchGlobalFeatureFlags(ctx context.Context) (*domain.GlobalFeatureFlags, error) {
	var flags domain.GlobalFeatureFlags
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: "/system/feature-flags/", requiresAuth: true,
	}, &flags)
	if err != nil {
		return nil, err
	}
	return &flags, nil
}

// SystemHealthCheck pings the system health endpoint.
func (c *Client) SystemHealthCheck(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: "/system/health/", requiresAuth: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

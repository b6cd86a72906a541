package dto

import "github.com/ledgerline/ledgerline/internal/core/domain"

// System-module payloads for platform operators.

// SystemCreateUserRequest creates a user account platform-wide.
type SystemCreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	IsStaff  bool   `json:"is_staff,omitempty"`
}

// SystemUpdateUserRequest patches user fields; nil means unchanged.
type SystemUpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SystemUpdateUserRoleRequest assigns or clears a platform role.
type SystemUpdateUserRoleRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SystemUpsertMemberRequest adds or updates a company membership.
type SystemUpsertMemberRequest struct {
	UserID string   `json:"user_id" binding:"required"`
	Status string   `json:"status,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// SystemUpdateCompanyStatusRequest activates or deactivates a tenant.
type SystemUpdateCompanyStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// CompanyFeatureFlagsResponse wraps flag reads and updates.
type CompanyFeatureFlagsResponse struct {
	CompanyID    string                     `json:"company_id"`
	CompanySlug  string                     `json:"company_slug"`
	FeatureFlags domain.CompanyFeatureFlags `json:"feature_flags"`
}

// CompanyQuotasResponse wraps quota reads and updates.
type CompanyQuotasResponse struct {
	CompanyID   string               `json:"company_id"`
	CompanySlug string               `json:"company_slug"`
	Quotas      domain.CompanyQuotas `json:"quotas"`
}

// CompanyStatusResponse is returned by tenant status updates.
type CompanyStatusResponse struct {
	CompanyID   string `json:"company_id"`
	CompanySlug string `json:"company_slug"`
	IsActive    bool   `json:"is_active"`
}

// SystemPasswordResetResponse is returned by operator-driven password resets.
type SystemPasswordResetResponse struct {
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	PasswordReset bool   `json:"password_reset"`
}

// SystemRoleResponse is returned by platform-role updates.
type SystemRoleResponse struct {
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	SystemRole *struct {
		Role     domain.SystemRole `json:"role"`
		IsActive bool              `json:"is_active"`
	} `json:"system_role"`
}

package dto

import "github.com/ledgerline/ledgerline/internal/core/domain"

// CreateAccountRequest adds an account to the chart of accounts.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	Type          domain.AccountType   `json:"type" binding:"required"`
	NormalBalance domain.NormalBalance `json:"normal_balance" binding:"required"`
	IsActive      *bool                `json:"is_active,omitempty"`
}

// CreateContactRequest adds a customer or vendor.
type CreateContactRequest struct {
	Type     domain.ContactType `json:"type" binding:"required"`
	Name     string             `json:"name" binding:"required"`
	Email    string             `json:"email,omitempty"`
	Phone    string             `json:"phone,omitempty"`
	Address  string             `json:"address,omitempty"`
	TaxID    string             `json:"tax_id,omitempty"`
	IsActive *bool              `json:"is_active,omitempty"`
}

// CreateMemberUserRequest creates a user and adds them to a company in one
// step.
type CreateMemberUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

// ResetPasswordRequest sets a new password for a member.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateMemberStatusRequest activates, invites, or disables a member.
type UpdateMemberStatusRequest struct {
	Status domain.MemberStatus `json:"status" binding:"required"`
}

// ReplaceMemberRolesRequest replaces a member's role set wholesale.
type ReplaceMemberRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// MemberRolesResponse is returned by role replacement endpoints.
type MemberRolesResponse struct {
	CompanyID string   `json:"company_id"`
	UserID    string   `json:"user_id"`
	Roles     []string `json:"roles"`
}

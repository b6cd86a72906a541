package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/core/domain"
	"github.com/ledgerline/ledgerline/internal/dto"
)

// FetchCompanies lists the companies the caller is a member of.
func (c *Client) FetchCompanies(ctx context.Context) ([]domain.Company, error) {
	return callList[domain.Company](ctx, c, requestSpec{
		method: http.MethodGet, path: "/companies/", requiresAuth: true,
	})
}

// FetchMyCompanyAccess resolves the caller's roles and permissions within one
// company. Pages resolve this once per active company and gate mutating UI on
// it; the server remains the enforcement authority.
func (c *Client) FetchMyCompanyAccess(ctx context.Context, companyID string) (*domain.CompanyAccess, error) {
	var access domain.CompanyAccess
	err := c.call(ctx, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/rbac/companies/%s/me/", companyID), requiresAuth: true,
	}, &access)
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// FetchCompanyMembers lists a company's members.
func (c *Client) FetchCompanyMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error) {
	return callList[domain.CompanyMember](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/companies/%s/members/", companyID), requiresAuth: true,
	})
}

// CreateCompanyMemberUser creates a user and adds them to the company.
func (c *Client) CreateCompanyMemberUser(ctx context.Context, companyID string, req dto.CreateMemberUserRequest) (*domain.CompanyMember, error) {
	var member domain.CompanyMember
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/companies/%s/members/create-user/", companyID),
		body: req, requiresAuth: true,
	}, &member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ResetCompanyMemberPassword sets a new password for a member.
func (c *Client) ResetCompanyMemberPassword(ctx context.Context, companyID, userID, newPassword string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/companies/%s/members/%s/reset-password/", companyID, userID),
		body: dto.ResetPasswordRequest{NewPassword: newPassword}, requiresAuth: true,
	}, nil)
}

// UpdateCompanyMemberStatus moves a member between active/invited/disabled.
func (c *Client) UpdateCompanyMemberStatus(ctx context.Context, companyID, userID string, status domain.MemberStatus) (*domain.CompanyMember, error) {
	var member domain.CompanyMember
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/companies/%s/members/%s/", companyID, userID),
		body: dto.UpdateMemberStatusRequest{Status: status}, requiresAuth: true,
	}, &member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ReplaceCompanyMemberRoles replaces a member's role set wholesale.
func (c *Client) ReplaceCompanyMemberRoles(ctx context.Context, companyID, userID string, roles []string) (*dto.MemberRolesResponse, error) {
	var resp dto.MemberRolesResponse
	err := c.call(ctx, requestSpec{
		method: http.MethodPatch, path: fmt.Sprintf("/companies/%s/members/%s/roles/", companyID, userID),
		body: dto.ReplaceMemberRolesRequest{Roles: roles}, requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveCompanyMember removes a user from the company.
func (c *Client) RemoveCompanyMember(ctx context.Context, companyID, userID string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodDelete, path: fmt.Sprintf("/companies/%s/members/%s/", companyID, userID),
		requiresAuth: true,
	}, nil)
}

// FetchAccounts lists the chart of accounts.
func (c *Client) FetchAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return callList[domain.Account](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/accounting/companies/%s/accounts/", companyID), requiresAuth: true,
	})
}

// CreateAccount adds an account to the chart of accounts.
func (c *Client) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	var account domain.Account
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/accounting/companies/%s/accounts/", companyID),
		body: req, requiresAuth: true,
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FetchContacts lists contacts, optionally filtered by type and search text.
func (c *Client) FetchContacts(ctx context.Context, companyID string, contactType domain.ContactType, search string) ([]domain.Contact, error) {
	return callList[domain.Contact](ctx, c, requestSpec{
		method: http.MethodGet, path: fmt.Sprintf("/contacts/companies/%s/contacts/", companyID),
		query: withQuery(map[string]string{"type": string(contactType), "search": search}), requiresAuth: true,
	})
}

// CreateContact adds a customer or vendor.
func (c *Client) CreateContact(ctx context.Context, companyID string, req dto.CreateContactRequest) (*domain.Contact, error) {
	var contact domain.Contact
	err := c.call(ctx, requestSpec{
		method: http.MethodPost, path: fmt.Sprintf("/contacts/companies/%s/contacts/", companyID),
		body: req, requiresAuth: true,
	}, &contact)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, companyID, contactID string) error {
	return c.call(ctx, requestSpec{
		method: http.MethodDelete, path: fmt.Sprintf("/contacts/companies/%s/contacts/%s/", companyID, contactID),
		requiresAuth: true,
	}, nil)
}

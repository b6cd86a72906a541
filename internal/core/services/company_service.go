package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/dto"
	"github.com/ledgerline/ledgerline/internal/middleware"
	"github.com/ledgerline/ledgerline/internal/utils"
)

// CompanyService manages tenants, memberships, the chart of accounts, and
// contacts.
type CompanyService struct {
	authorizer
	companyRepo portsrepo.CompanyRepository
	userRepo    portsrepo.UserRepository
}

func NewCompanyService(companyRepo portsrepo.CompanyRepository, userRepo portsrepo.UserRepository) *CompanyService {
	return &CompanyService{
		authorizer:  authorizer{companyRepo: companyRepo},
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// ListCompaniesForUser returns the active companies the user belongs to.
func (s *CompanyService) ListCompaniesForUser(ctx context.Context, userID string) ([]domain.Company, error) {
	return s.companyRepo.ListCompaniesForUser(ctx, userID)
}

// ResolveAccess returns the caller's roles and resolved permissions within a
// company.
func (s *CompanyService) ResolveAccess(ctx context.Context, userID, companyID string) (*domain.CompanyAccess, error) {
	member, err := s.companyRepo.GetMember(ctx, companyID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: not a member of this company", apperrors.ErrForbidden)
	}
	if member.Status != domain.MemberActive {
		return nil, fmt.Errorf("%w: membership is %s", apperrors.ErrForbidden, member.Status)
	}
	return &domain.CompanyAccess{
		CompanyID:   companyID,
		Roles:       member.Roles,
		Permissions: PermissionsForRoles(member.Roles),
	}, nil
}

// ListMembers lists a company's memberships.
func (s *CompanyService) ListMembers(ctx context.Context, userID, companyID string) ([]domain.CompanyMember, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.companyRepo.ListMembers(ctx, companyID)
}

// CreateMemberUser creates a user account and adds it to the company in one
// step. Requires manage permission.
func (s *CompanyService) CreateMemberUser(ctx context.Context, actorID, companyID string, req dto.CreateMemberUserRequest) (*domain.CompanyMember, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.Authorize(ctx, actorID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleViewer
	}
	if _, ok := rolePermissions[role]; !ok {
		return nil, fmt.Errorf("%w: unknown role %s", apperrors.ErrValidation, role)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:       newID(),
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: true,
	}
	if err := s.userRepo.CreateUser(ctx, user, passwordHash); err != nil {
		return nil, err
	}

	member := domain.CompanyMember{
		CompanyID: companyID,
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Status:    domain.MemberActive,
		Roles:     []string{role},
	}
	if err := s.companyRepo.UpsertMember(ctx, member); err != nil {
		return nil, err
	}
	logger.Info("Member user created", slog.String("company_id", companyID), slog.String("user_id", user.ID))
	return &member, nil
}

// ResetMemberPassword sets a new password for a member of the company.
func (s *CompanyService) ResetMemberPassword(ctx context.Context, actorID, companyID, userID string, req dto.ResetPasswordRequest) error {
	if err := s.Authorize(ctx, actorID, companyID, domain.PermAccountingManage); err != nil {
		return err
	}
	if _, err := s.companyRepo.GetMember(ctx, companyID, userID); err != nil {
		return err
	}
	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.userRepo.SetPasswordHash(ctx, userID, passwordHash)
}

// UpdateMemberStatus moves a membership between active, invited, and
// disabled.
func (s *CompanyService) UpdateMemberStatus(ctx context.Context, actorID, companyID, userID string, status domain.MemberStatus) (*domain.CompanyMember, error) {
	if err := s.Authorize(ctx, actorID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	switch status {
	case domain.MemberActive, domain.MemberInvited, domain.MemberDisabled:
	default:
		return nil, fmt.Errorf("%w: unknown member status %s", apperrors.ErrValidation, status)
	}
	member, err := s.companyRepo.GetMember(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	member.Status = status
	if err := s.companyRepo.UpsertMember(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

// ReplaceMemberRoles replaces a member's role set wholesale.
func (s *CompanyService) ReplaceMemberRoles(ctx context.Context, actorID, companyID, userID string, roles []string) (*dto.MemberRolesResponse, error) {
	if err := s.Authorize(ctx, actorID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	for _, role := range roles {
		if _, ok := rolePermissions[role]; !ok {
			return nil, fmt.Errorf("%w: unknown role %s", apperrors.ErrValidation, role)
		}
	}
	member, err := s.companyRepo.GetMember(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	member.Roles = roles
	if err := s.companyRepo.UpsertMember(ctx, *member); err != nil {
		return nil, err
	}
	return &dto.MemberRolesResponse{CompanyID: companyID, UserID: userID, Roles: roles}, nil
}

// RemoveMember removes a user from the company. The user account survives.
func (s *CompanyService) RemoveMember(ctx context.Context, actorID, companyID, userID string) error {
	if err := s.Authorize(ctx, actorID, companyID, domain.PermAccountingManage); err != nil {
		return err
	}
	if actorID == userID {
		return fmt.Errorf("%w: cannot remove your own membership", apperrors.ErrValidation)
	}
	return s.companyRepo.RemoveMember(ctx, companyID, userID)
}

// ListAccounts returns the company's chart of accounts.
func (s *CompanyService) ListAccounts(ctx context.Context, userID, companyID string) ([]domain.Account, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.companyRepo.ListAccounts(ctx, companyID)
}

// CreateAccount adds an account to the chart of accounts.
func (s *CompanyService) CreateAccount(ctx context.Context, userID, companyID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	switch req.Type {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense:
	default:
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.Type)
	}

	account := domain.Account{
		ID:            newID(),
		CompanyID:     companyID,
		Code:          req.Code,
		Name:          req.Name,
		Type:          req.Type,
		NormalBalance: req.NormalBalance,
		IsActive:      true,
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	stamp(&account.AuditTimes, time.Now())
	if err := s.companyRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListContacts lists customers, vendors, or both.
func (s *CompanyService) ListContacts(ctx context.Context, userID, companyID string, contactType domain.ContactType) ([]domain.Contact, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingView); err != nil {
		return nil, err
	}
	return s.companyRepo.ListContacts(ctx, companyID, contactType)
}

// CreateContact adds a customer or vendor.
func (s *CompanyService) CreateContact(ctx context.Context, userID, companyID string, req dto.CreateContactRequest) (*domain.Contact, error) {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return nil, err
	}
	contact := domain.Contact{
		ID:        newID(),
		CompanyID: companyID,
		Type:      req.Type,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		TaxID:     req.TaxID,
		IsActive:  true,
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}
	stamp(&contact.AuditTimes, time.Now())
	if err := s.companyRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a contact.
func (s *CompanyService) DeleteContact(ctx context.Context, userID, companyID, contactID string) error {
	if err := s.Authorize(ctx, userID, companyID, domain.PermAccountingManage); err != nil {
		return err
	}
	return s.companyRepo.DeleteContact(ctx, companyID, contactID)
}

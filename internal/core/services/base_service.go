package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline/internal/middleware"
)

// rolePermissions maps company roles to the permission strings the server
// enforces. Posting is the privileged accounting action: viewers can read,
// accountants and admins can manage and post.
var rolePermissions = map[string][]string{
	domain.RoleAdmin:      {domain.PermAccountingView, domain.PermAccountingManage, domain.PermAccountingPost},
	domain.RoleAccountant: {domain.PermAccountingView, domain.PermAccountingManage, domain.PermAccountingPost},
	domain.RoleViewer:     {domain.PermAccountingView},
}

// PermissionsForRoles resolves the union of permissions for a role set.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]bool)
	var perms []string
	for _, role := range roles {
		for _, p := range rolePermissions[role] {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}
	return perms
}

// authorizer performs membership and permission checks shared by every
// company-scoped service.
type authorizer struct {
	companyRepo portsrepo.CompanyRepository
}

// Authorize verifies the user is an active member of the company carrying the
// given permission. ErrNotFound for the company, ErrForbidden for missing
// membership or permission.
func (a authorizer) Authorize(ctx context.Context, userID, companyID, permission string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := a.companyRepo.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if !company.IsActive {
		return fmt.Errorf("%w: company %s is inactive", apperrors.ErrForbidden, companyID)
	}

	member, err := a.companyRepo.GetMember(ctx, companyID, userID)
	if err != nil {
		logger.Warn("Authorization failed: not a member",
			slog.String("user_id", userID), slog.String("company_id", companyID))
		return fmt.Errorf("%w: not a member of this company", apperrors.ErrForbidden)
	}
	if member.Status != domain.MemberActive {
		return fmt.Errorf("%w: membership is %s", apperrors.ErrForbidden, member.Status)
	}

	for _, p := range PermissionsForRoles(member.Roles) {
		if p == permission {
			return nil
		}
	}
	logger.Warn("Authorization failed: missing permission",
		slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("permission", permission))
	return fmt.Errorf("%w: missing permission %s", apperrors.ErrForbidden, permission)
}

// docLocks serializes lifecycle transitions per document ID. Post, void and
// finalize are read-check-write sequences; without the lock two concurrent
// posts of one document could both observe draft and double-post.
type docLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDocLocks() *docLocks {
	return &docLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for one document ID and returns its unlock.
func (d *docLocks) Lock(id string) func() {
	d.mu.Lock()
	l, ok := d.locks[id]
	if !ok {
		l = new(sync.Mutex)
		d.locks[id] = l
	}
	d.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func newID() string { return uuid.NewString() }

func stamp(t *domain.AuditTimes, now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

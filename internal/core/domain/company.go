package domain

// Company is a tenant. Every financial document is scoped to exactly one
// company and sequence numbers are assigned per company.
type Company struct {
	ID                   string `json:"id" validate:"required"`
	Name                 string `json:"name"`
	Slug                 string `json:"slug"`
	BaseCurrency         string `json:"base_currency"`
	Timezone             string `json:"timezone"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month"`
	IsActive             bool   `json:"is_active"`
	AuditTimes
}

// MemberStatus is the membership state of a user within a company.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInvited  MemberStatus = "invited"
	MemberDisabled MemberStatus = "disabled"
)

// CompanyMember is a user's membership in a company.
type CompanyMember struct {
	CompanyID string       `json:"company_id"`
	UserID    string       `json:"user_id"`
	Email     string       `json:"email"`
	FullName  string       `json:"full_name"`
	Status    MemberStatus `json:"status"`
	Roles     []string     `json:"roles"`
}

// Role names understood by the reference server.
const (
	RoleAdmin      = "Admin"
	RoleAccountant = "Accountant"
	RoleViewer     = "Viewer"
)

// Permission strings. The server is the enforcement authority; clients check
// these only to gate what they offer the user.
const (
	PermAccountingView   = "accounting.view"
	PermAccountingManage = "accounting.manage"
	PermAccountingPost   = "accounting.post"
)

// CompanyAccess is the caller's resolved access within one company, fetched
// once per active company.
type CompanyAccess struct {
	CompanyID   string   `json:"company_id"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Has reports whether the access context carries the given permission.
func (a CompanyAccess) Has(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

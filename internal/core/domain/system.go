package domain

import "time"

// System-module types, used by platform operators rather than company members.

// SystemRole is a platform-wide operator role.
type SystemRole string

const (
	SystemSuperAdmin SystemRole = "super_admin"
	SystemSupport    SystemRole = "support"
	SystemReadOnly   SystemRole = "read_only"
)

// CompanyFeatureFlags toggles per-tenant functionality.
type CompanyFeatureFlags struct {
	BankingEnabled   bool `json:"banking_enabled"`
	ReportsEnabled   bool `json:"reports_enabled"`
	PurchasesEnabled bool `json:"purchases_enabled"`
}

// CompanyQuotas bounds per-tenant resource usage.
type CompanyQuotas struct {
	MaxUsers            int `json:"max_users"`
	MaxInvoicesPerMonth int `json:"max_invoices_per_month"`
	MaxStorageMB        int `json:"max_storage_mb"`
}

// SystemCompany is the operator view of a tenant.
type SystemCompany struct {
	Company
	MemberCount int `json:"member_count"`
}

// SystemCompanyDetail adds flags and quotas to the operator view.
type SystemCompanyDetail struct {
	SystemCompany
	FeatureFlags CompanyFeatureFlags `json:"feature_flags"`
	Quotas       CompanyQuotas       `json:"quotas"`
}

// CompanyBootstrapInput creates a tenant together with its first admin user.
type CompanyBootstrapInput struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	BaseCurrency  string `json:"base_currency"`
	Timezone      string `json:"timezone"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminFullName string `json:"admin_full_name" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// CompanyBootstrapResult reports what bootstrap created.
type CompanyBootstrapResult struct {
	Company   Company       `json:"company"`
	AdminUser User          `json:"admin_user"`
	Member    CompanyMember `json:"member"`
}

// SystemUser is the operator view of a user account.
type SystemUser struct {
	User
	SystemRole *SystemRole `json:"system_role"`
	LastLogin  *time.Time  `json:"last_login"`
}

// SystemUserDetail adds the user's company memberships.
type SystemUserDetail struct {
	SystemUser
	Memberships []CompanyMember `json:"memberships"`
}

// AuditLog is one recorded admin or lifecycle action.
type AuditLog struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	ActorID      string    `json:"actor_id"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLogQuery narrows an audit log listing. Zero values mean no filtering
// on that field.
type AuditLogQuery struct {
	Action       string
	ResourceType string
	ActorID      string
	DateFrom     string
	DateTo       string
}

// GlobalFeatureFlags are platform-wide toggles.
type GlobalFeatureFlags struct {
	SignupsEnabled     bool `json:"signups_enabled"`
	MaintenanceMode    bool `json:"maintenance_mode"`
	NewTenantsDisabled bool `json:"new_tenants_disabled"`
}

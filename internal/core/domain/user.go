package domain

// User is the authenticated principal as returned by /auth/me/.
type User struct {
	ID          string `json:"id" validate:"required"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

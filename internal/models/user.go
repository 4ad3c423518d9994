package models

import "time"

// UserRole distinguishes citizens from municipality staff.
type UserRole string

const (
	RoleCitizen UserRole = "citizen"
	RoleAdmin   UserRole = "admin"
)

// User represents an authenticated participant. The engine only needs an
// identity to attribute proposals and votes to; everything beyond that
// (profiles, verification, address checks) lives outside this service.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	DisplayName string     `json:"display_name"`
	Role        UserRole   `gorm:"not null;default:'citizen'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Proposals []BudgetProposal `gorm:"foreignKey:AuthorID" json:"proposals,omitempty"`
}

// IsAdmin reports whether the user may perform staff-only operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package models

import "time"

// AdminRole scopes what an operator account may do.
type AdminRole string

const (
	AdminRoleSuper AdminRole = "super_admin"
	AdminRoleUser  AdminRole = "user_admin"
)

// AdminUser is an operator account for the dashboard API. Only a bcrypt
// hash of the password is ever stored.
type AdminUser struct {
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         AdminRole `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	CreatedBy    string    `db:"created_by"`
}

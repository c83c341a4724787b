package models

import (
	"time"

	"github.com/google/uuid"
)

// Role determines every authorization decision in the API. Super admins and
// main handlers are global: they see every tenant.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleMainHandler Role = "main_handler"
	RoleAdmin       Role = "admin"
	RoleCEO         Role = "ceo"
	RoleHR          Role = "hr"
	RoleManager     Role = "manager"
	RoleServer      Role = "server"
	RoleEmployee    Role = "employee"
)

var allRoles = map[Role]bool{
	RoleSuperAdmin:  true,
	RoleMainHandler: true,
	RoleAdmin:       true,
	RoleCEO:         true,
	RoleHR:          true,
	RoleManager:     true,
	RoleServer:      true,
	RoleEmployee:    true,
}

func (r Role) Valid() bool {
	return allRoles[r]
}

// Global reports whether the role is exempt from tenant filtering.
func (r Role) Global() bool {
	return r == RoleSuperAdmin || r == RoleMainHandler
}

// Administrative reports whether the role manages records for the whole
// tenant rather than only its own (leave approvals, expense review, audit
// visibility).
func (r Role) Administrative() bool {
	return r == RoleSuperAdmin || r == RoleMainHandler || r == RoleAdmin
}

type User struct {
	ID                uuid.UUID `json:"id" db:"id"`
	TenantID          uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email             string    `json:"email" db:"email"`
	FullName          string    `json:"full_name" db:"full_name"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	Role              Role      `json:"role" db:"role"`
	Department        string    `json:"department" db:"department"`
	Subscription      string    `json:"subscription" db:"subscription"`
	BiometricEnabled  bool      `json:"biometric_enabled" db:"biometric_enabled"`
	BiometricID       *string   `json:"biometric_credential_id,omitempty" db:"biometric_credential_id"`
	BiometricType     *string   `json:"biometric_type,omitempty" db:"biometric_type"`
	BiometricSetupDue bool      `json:"biometric_setup_required" db:"biometric_setup_required"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type Tenant struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Industry    string    `json:"industry,omitempty" db:"industry"`
	Website     string    `json:"website,omitempty" db:"website"`
	LogoURL     string    `json:"logo_url,omitempty" db:"logo_url"`
	Domain      string    `json:"domain,omitempty" db:"domain"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

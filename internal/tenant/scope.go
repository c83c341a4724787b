package tenant

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/startupops/backend/internal/models"
)

// Scope is the tenancy filter applied at the data-access boundary. Every
// list, update, and delete restricts to the caller's tenant through a Scope;
// global roles carry the empty scope and see all tenants.
type Scope struct {
	TenantID *uuid.UUID
}

// ScopeFor resolves the effective filter for a role and tenant pair.
func ScopeFor(role models.Role, tenantID uuid.UUID) Scope {
	if role.Global() {
		return Scope{}
	}
	id := tenantID
	return Scope{TenantID: &id}
}

// ScopeForUser is shorthand for the common case.
func ScopeForUser(u *models.User) Scope {
	return ScopeFor(u.Role, u.TenantID)
}

// Empty reports whether the scope matches every tenant.
func (s Scope) Empty() bool {
	return s.TenantID == nil
}

// SQL renders the scope as a predicate on column using the placeholder
// number argIdx. The empty scope renders as "TRUE" with no arguments so
// callers can splice it into a WHERE clause unconditionally.
func (s Scope) SQL(column string, argIdx int) (string, []interface{}) {
	if s.TenantID == nil {
		return "TRUE", nil
	}
	return fmt.Sprintf("%s = $%d", column, argIdx), []interface{}{*s.TenantID}
}

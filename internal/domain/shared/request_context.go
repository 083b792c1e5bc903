package shared

import (
	"github.com/google/uuid"
)

// RequestContext carries the caller identity resolved at the edge of the system.
// It is passed explicitly into every application operation.
type RequestContext struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	UserName    string
	Permissions []string
}

// NewRequestContext creates a RequestContext for the given tenant and user
func NewRequestContext(tenantID, userID uuid.UUID, userName string, permissions ...string) RequestContext {
	return RequestContext{
		TenantID:    tenantID,
		UserID:      userID,
		UserName:    userName,
		Permissions: permissions,
	}
}

// Validate ensures the context identifies a tenant
func (rc RequestContext) Validate() error {
	if rc.TenantID == uuid.Nil {
		return NewValidationError("TENANT_REQUIRED", "Tenant ID is required")
	}
	return nil
}

// HasPermission reports whether the caller was granted the given permission
func (rc RequestContext) HasPermission(permission string) bool {
	for _, p := range rc.Permissions {
		if p == permission || p == "*" {
			return true
		}
	}
	return false
}

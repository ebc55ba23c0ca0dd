package auth

import "github.com/google/uuid"

// Principal is the resolved identity behind a verified token. It is a
// closed union: consumers switch on Context() or type-assert to one of
// CorePrincipal or TenantPrincipal.
type Principal interface {
	Context() Context
	UserID() uuid.UUID
}

// CorePrincipal is a platform-level identity with no tenant binding.
type CorePrincipal struct {
	ID uuid.UUID
}

// Context returns ContextCore.
func (p CorePrincipal) Context() Context {
	return ContextCore
}

// UserID returns the core user's identifier.
func (p CorePrincipal) UserID() uuid.UUID {
	return p.ID
}

// TenantPrincipal is an organization-scoped identity. The slug and
// organization id are re-validated against live storage at resolution
// time, so holders can trust them without another lookup.
type TenantPrincipal struct {
	ID    uuid.UUID
	Slug  string
	OrgID int64
}

// Context returns ContextTenant.
func (p TenantPrincipal) Context() Context {
	return ContextTenant
}

// UserID returns the tenant user's identifier.
func (p TenantPrincipal) UserID() uuid.UUID {
	return p.ID
}

// TenantSlug returns the organization slug the principal is bound to.
func (p TenantPrincipal) TenantSlug() string {
	return p.Slug
}

// OrganizationID returns the organization id the principal is bound to.
func (p TenantPrincipal) OrganizationID() int64 {
	return p.OrgID
}

var (
	_ Principal = (*CorePrincipal)(nil)
	_ Principal = (*TenantPrincipal)(nil)
)

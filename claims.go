package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Context discriminates the two identity boundaries a token can belong to.
type Context = string

const (
	// ContextCore marks platform-level identities.
	ContextCore Context = "core"
	// ContextTenant marks organization-scoped identities.
	ContextTenant Context = "tenant"
)

// TokenClaims is the claim set carried by every issued token. Core tokens
// leave the tenant fields empty; tenant tokens must carry both.
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenContext   Context `json:"context,omitempty"`
	TenantSlug     string  `json:"tenant,omitempty"`
	OrganizationID int64   `json:"org_id,omitempty"`
}

// Context returns the identity boundary the token was issued for.
func (c *TokenClaims) Context() Context {
	return c.TokenContext
}

// UserID returns the subject claim.
func (c *TokenClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// HasTenantBinding reports whether both tenant fields are present. A tenant
// token missing either one is invalid.
func (c *TokenClaims) HasTenantBinding() bool {
	return c.TenantSlug != "" && c.OrganizationID != 0
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *TokenClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetTenantHeader() string
}

// UserStore is the persistence surface the core identity flows need.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
}

// TenantUserStore is the organization-scoped persistence surface. Every
// lookup carries the organization id; nothing crosses tenant lines.
type TenantUserStore interface {
	FindByID(ctx context.Context, orgID int64, id uuid.UUID) (*TenantUser, error)
	FindByEmail(ctx context.Context, orgID int64, email string) (*TenantUser, error)
	Register(ctx context.Context, user *TenantUser) (*TenantUser, error)
	Update(ctx context.Context, user *TenantUser) (*TenantUser, error)
}

// OrganizationStore resolves and manages tenant boundaries.
type OrganizationStore interface {
	// FindBySlug returns active organizations only. Absent and inactive
	// are the same failure.
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	FindByID(ctx context.Context, id int64) (*Organization, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, org *Organization, ownerID uuid.UUID) (*Organization, error)
	OwnershipChecker
}

// OwnershipChecker answers whether a core user owns an organization.
type OwnershipChecker interface {
	IsOwner(ctx context.Context, userID uuid.UUID, orgID int64) (bool, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

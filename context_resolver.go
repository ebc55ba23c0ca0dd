package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ContextResolver turns a raw token into a Principal. Token verification,
// claim shape, tenant liveness, and user liveness are all re-checked on
// every call; a token that was valid when issued can still fail here.
type ContextResolver struct {
	tokens      TokenService
	tenants     *TenantResolver
	users       UserStore
	tenantUsers TenantUserStore
	logger      Logger
}

// NewContextResolver creates a ContextResolver.
func NewContextResolver(tokens TokenService, tenants *TenantResolver, users UserStore, tenantUsers TenantUserStore) *ContextResolver {
	return &ContextResolver{
		tokens:      tokens,
		tenants:     tenants,
		users:       users,
		tenantUsers: tenantUsers,
		logger:      defLogger{},
	}
}

// WithLogger replaces the default logger.
func (r *ContextResolver) WithLogger(logger Logger) *ContextResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve verifies the token and materializes the principal it names.
// Expired and malformed tokens keep their distinct errors; every other
// failure collapses into ErrUnauthenticated with the cause in metadata.
func (r *ContextResolver) Resolve(ctx context.Context, rawToken string) (Principal, error) {
	claims, err := r.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		r.logger.Debug("context resolve rejected non uuid subject", "subject", claims.UserID())
		return nil, authFailure("invalid subject")
	}

	switch claims.Context() {
	case ContextCore:
		return r.resolveCore(ctx, userID)
	case ContextTenant:
		return r.resolveTenant(ctx, userID, claims)
	default:
		r.logger.Debug("context resolve rejected unknown context", "context", claims.Context())
		return nil, authFailure("unknown context")
	}
}

func (r *ContextResolver) resolveCore(ctx context.Context, userID uuid.UUID) (Principal, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Debug("context resolve core user missing", "user_id", userID)
			return nil, authFailure("user not found")
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "core user lookup failed")
	}

	if !user.IsActive {
		r.logger.Debug("context resolve core user inactive", "user_id", userID)
		return nil, authFailure("user inactive")
	}

	return CorePrincipal{ID: user.ID}, nil
}

func (r *ContextResolver) resolveTenant(ctx context.Context, userID uuid.UUID, claims *TokenClaims) (Principal, error) {
	if !claims.HasTenantBinding() {
		r.logger.Debug("context resolve tenant claims incomplete", "user_id", userID)
		return nil, authFailure("incomplete tenant claims")
	}

	org, err := r.tenants.Resolve(ctx, claims.TenantSlug)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Debug("context resolve tenant gone", "slug", claims.TenantSlug)
			return nil, authFailure("tenant not found")
		}
		return nil, err
	}

	// The slug may have been reassigned since issuance. The org id pins
	// the token to the organization it was minted for.
	if org.ID != claims.OrganizationID {
		r.logger.Debug("context resolve org id mismatch",
			"slug", claims.TenantSlug, "claim_org", claims.OrganizationID, "live_org", org.ID)
		return nil, authFailure("organization mismatch")
	}

	user, err := r.tenantUsers.FindByID(ctx, org.ID, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Debug("context resolve tenant user missing", "user_id", userID, "org_id", org.ID)
			return nil, authFailure("user not found")
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "tenant user lookup failed")
	}

	if !user.IsActive {
		r.logger.Debug("context resolve tenant user inactive", "user_id", userID, "org_id", org.ID)
		return nil, authFailure("user inactive")
	}

	return TenantPrincipal{
		ID:    user.ID,
		Slug:  org.Slug,
		OrgID: org.ID,
	}, nil
}

func authFailure(reason string) error {
	clone := ErrUnauthenticated.Clone()
	clone.Source = ErrUnauthenticated
	return clone.WithMetadata(map[string]any{
		"reason": reason,
	})
}

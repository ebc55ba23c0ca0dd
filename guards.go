package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// RequireCore asserts the principal belongs to the core context.
func RequireCore(p Principal) (CorePrincipal, error) {
	core, ok := p.(CorePrincipal)
	if !ok {
		return CorePrincipal{}, ErrCoreUserRequired
	}
	return core, nil
}

// RequireTenant asserts the principal belongs to a tenant context.
func RequireTenant(p Principal) (TenantPrincipal, error) {
	tenant, ok := p.(TenantPrincipal)
	if !ok {
		return TenantPrincipal{}, ErrTenantUserRequired
	}
	return tenant, nil
}

// RequireTenantHeaderMatch asserts the tenant declared on the request
// matches the principal's binding. An empty header is a client error, a
// mismatched one is forbidden; the two are distinct on purpose.
func RequireTenantHeaderMatch(p Principal, headerSlug string) (TenantPrincipal, error) {
	tenant, err := RequireTenant(p)
	if err != nil {
		return TenantPrincipal{}, err
	}

	if headerSlug == "" {
		return TenantPrincipal{}, ErrTenantHeaderRequired
	}

	if headerSlug != tenant.Slug {
		clone := ErrTenantMismatch.Clone()
		clone.Source = ErrTenantMismatch
		return TenantPrincipal{}, clone.WithMetadata(map[string]any{
			"declared": headerSlug,
			"bound":    tenant.Slug,
		})
	}

	return tenant, nil
}

// RequireOwnership asserts a core principal owns the target organization.
func RequireOwnership(ctx context.Context, checker OwnershipChecker, p Principal, orgID int64) (CorePrincipal, error) {
	core, err := RequireCore(p)
	if err != nil {
		return CorePrincipal{}, err
	}

	owns, err := checker.IsOwner(ctx, core.ID, orgID)
	if err != nil {
		return CorePrincipal{}, errors.Wrap(err, errors.CategoryOperation, "ownership check failed")
	}

	if !owns {
		clone := ErrOrganizationOwnerRequired.Clone()
		clone.Source = ErrOrganizationOwnerRequired
		return CorePrincipal{}, clone.WithMetadata(map[string]any{
			"organization_id": orgID,
		})
	}

	return core, nil
}

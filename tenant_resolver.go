package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// TenantResolver maps a slug to its active organization. Absent and
// inactive tenants produce the same ErrTenantNotFound so callers cannot
// enumerate dormant organizations.
type TenantResolver struct {
	orgs   OrganizationStore
	logger Logger
}

// NewTenantResolver creates a TenantResolver over an organization store.
func NewTenantResolver(orgs OrganizationStore) *TenantResolver {
	return &TenantResolver{
		orgs:   orgs,
		logger: defLogger{},
	}
}

// WithLogger replaces the default logger.
func (r *TenantResolver) WithLogger(logger Logger) *TenantResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve returns the active organization for the slug.
func (r *TenantResolver) Resolve(ctx context.Context, slug string) (*Organization, error) {
	if slug == "" {
		return nil, tenantNotFound(slug)
	}

	org, err := r.orgs.FindBySlug(ctx, slug)
	if err != nil {
		if errors.IsNotFound(err) {
			r.logger.Debug("tenant resolve miss", "slug", slug)
			return nil, tenantNotFound(slug)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "tenant resolution failed")
	}

	return org, nil
}

func tenantNotFound(slug string) error {
	clone := ErrTenantNotFound.Clone()
	clone.Source = ErrTenantNotFound
	return clone.WithMetadata(map[string]any{
		"slug": slug,
	})
}

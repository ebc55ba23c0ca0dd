package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TenantUsers is the bun-backed repository for organization-scoped users.
// Every query filters on organization_id; there is deliberately no
// unscoped lookup on this surface. The generic repository stays an
// implementation detail: its unscoped Update cannot coexist with the
// store's org-scoped one.
type TenantUsers interface {
	TenantUserStore

	FindByIDTx(ctx context.Context, tx bun.IDB, orgID int64, id uuid.UUID) (*TenantUser, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, orgID int64, email string) (*TenantUser, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *TenantUser) (*TenantUser, error)
}

type tenantUsers struct {
	repository.Repository[*TenantUser]
	db *bun.DB
}

var (
	_ TenantUsers     = (*tenantUsers)(nil)
	_ TenantUserStore = (*tenantUsers)(nil)
)

func NewTenantUsersRepository(db *bun.DB) TenantUsers {
	repo := repository.NewRepository[*TenantUser](db, repository.ModelHandlers[*TenantUser]{
		NewRecord: func() *TenantUser { return &TenantUser{} },
		GetID: func(u *TenantUser) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *TenantUser, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &tenantUsers{
		Repository: repo,
		db:         db,
	}
}

func (a *tenantUsers) FindByID(ctx context.Context, orgID int64, id uuid.UUID) (*TenantUser, error) {
	return a.FindByIDTx(ctx, a.db, orgID, id)
}

func (a *tenantUsers) FindByIDTx(ctx context.Context, tx bun.IDB, orgID int64, id uuid.UUID) (*TenantUser, error) {
	record := &TenantUser{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.organization_id = ?", orgID).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("tenant user not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{
					"organization_id": orgID,
					"id":              id.String(),
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *tenantUsers) FindByEmail(ctx context.Context, orgID int64, email string) (*TenantUser, error) {
	return a.FindByEmailTx(ctx, a.db, orgID, email)
}

func (a *tenantUsers) FindByEmailTx(ctx context.Context, tx bun.IDB, orgID int64, email string) (*TenantUser, error) {
	record := &TenantUser{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.organization_id = ?", orgID).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("tenant user not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{
					"organization_id": orgID,
					"email":           email,
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *tenantUsers) Register(ctx context.Context, user *TenantUser) (*TenantUser, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *tenantUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *TenantUser) (*TenantUser, error) {
	prepareTenantUserDefaults(user)
	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "email already registered in organization")
		}
		return nil, err
	}
	return record, nil
}

func (a *tenantUsers) Update(ctx context.Context, user *TenantUser) (*TenantUser, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, errors.New("tenant user id is required", errors.CategoryBadInput)
	}
	return a.Repository.UpdateTx(ctx, a.db, user, repository.UpdateByID(user.ID.String()))
}

func prepareTenantUserDefaults(record *TenantUser) {
	if record == nil {
		return
	}

	record.Email = normalizeEmail(record.Email)
	record.IsActive = true

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

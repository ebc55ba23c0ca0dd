package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Organizations is the bun-backed repository for tenant boundaries. It is
// hand rolled rather than generic: the organizations table uses an int64
// autoincrement key, not the uuid key the generic repository expects.
type Organizations interface {
	OrganizationStore

	CreateTx(ctx context.Context, tx bun.IDB, org *Organization, ownerID uuid.UUID) (*Organization, error)
}

type organizations struct {
	db *bun.DB
}

var (
	_ Organizations     = (*organizations)(nil)
	_ OrganizationStore = (*organizations)(nil)
)

func NewOrganizationsRepository(db *bun.DB) Organizations {
	return &organizations{db: db}
}

// FindBySlug resolves an active organization. Inactive rows are filtered
// at the query level so callers cannot distinguish them from absent ones.
func (a *organizations) FindBySlug(ctx context.Context, slug string) (*Organization, error) {
	record := &Organization{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("organization not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{"slug": slug})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization lookup failed")
	}
	return record, nil
}

func (a *organizations) FindByID(ctx context.Context, id int64) (*Organization, error) {
	record := &Organization{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("organization not found", errors.CategoryNotFound).
				WithMetadata(map[string]any{"id": id})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization lookup failed")
	}
	return record, nil
}

func (a *organizations) SlugTaken(ctx context.Context, slug string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*Organization)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "organization slug check failed")
	}
	return exists, nil
}

func (a *organizations) IsOwner(ctx context.Context, userID uuid.UUID, orgID int64) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*OrganizationOwner)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.organization_id = ?", orgID).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "organization ownership check failed")
	}
	return exists, nil
}

// Create inserts the organization and records the creator as owner in one
// transaction.
func (a *organizations) Create(ctx context.Context, org *Organization, ownerID uuid.UUID) (*Organization, error) {
	var created *Organization
	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := a.CreateTx(ctx, tx, org, ownerID)
		if err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (a *organizations) CreateTx(ctx context.Context, tx bun.IDB, org *Organization, ownerID uuid.UUID) (*Organization, error) {
	if org == nil {
		return nil, errors.New("organization is required", errors.CategoryBadInput)
	}
	if !org.IsActive {
		org.IsActive = true
	}

	if _, err := tx.NewInsert().Model(org).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "organization slug already exists")
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization create failed")
	}

	owner := &OrganizationOwner{
		OrganizationID: org.ID,
		UserID:         ownerID,
	}
	if _, err := tx.NewInsert().Model(owner).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization owner link failed")
	}

	return org, nil
}

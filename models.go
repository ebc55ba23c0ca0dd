package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a core context user. Core users are platform operators and can
// own organizations.
type User struct {
	bun.BaseModel `bun:"table:core_users,alias:cusr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// TenantUser is an organization-scoped user. Email uniqueness is enforced
// per organization, not globally.
type TenantUser struct {
	bun.BaseModel  `bun:"table:tenant_users,alias:tusr"`
	ID             uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OrganizationID int64         `bun:"organization_id,notnull,unique:org_email" json:"organization_id,omitempty"`
	Organization   *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"organization,omitempty"`
	Email          string        `bun:"email,notnull,unique:org_email" json:"email,omitempty"`
	FirstName      string        `bun:"first_name" json:"first_name,omitempty"`
	LastName       string        `bun:"last_name" json:"last_name,omitempty"`
	Phone          string        `bun:"phone" json:"phone,omitempty"`
	Avatar         string        `bun:"avatar" json:"avatar,omitempty"`
	Bio            string        `bun:"bio" json:"bio,omitempty"`
	PasswordHash   string        `bun:"password_hash,notnull" json:"-"`
	IsActive       bool          `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt      *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Organization is a tenant boundary. Inactive organizations are invisible
// to slug resolution.
type Organization struct {
	bun.BaseModel `bun:"table:organizations,alias:org"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	IsActive      bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	Owners        []*User    `bun:"m2m:organization_owners,join:Organization=User" json:"owners,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OrganizationOwner links core users to the organizations they own.
type OrganizationOwner struct {
	bun.BaseModel  `bun:"table:organization_owners,alias:orgown"`
	OrganizationID int64         `bun:"organization_id,pk" json:"organization_id"`
	Organization   *Organization `bun:"rel:belongs-to,join:organization_id=id" json:"-"`
	UserID         uuid.UUID     `bun:"user_id,pk,type:uuid" json:"user_id"`
	User           *User         `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}

// RegisterModels wires the m2m relation into bun. Call it once per bun.DB
// before touching organization owners.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*OrganizationOwner)(nil))
}

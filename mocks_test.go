package auth_test

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-tenant-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

// MockTenantUserStore implements auth.TenantUserStore
type MockTenantUserStore struct {
	mock.Mock
}

func (m *MockTenantUserStore) FindByID(ctx context.Context, orgID int64, id uuid.UUID) (*auth.TenantUser, error) {
	args := m.Called(ctx, orgID, id)
	user, _ := args.Get(0).(*auth.TenantUser)
	return user, args.Error(1)
}

func (m *MockTenantUserStore) FindByEmail(ctx context.Context, orgID int64, email string) (*auth.TenantUser, error) {
	args := m.Called(ctx, orgID, email)
	user, _ := args.Get(0).(*auth.TenantUser)
	return user, args.Error(1)
}

func (m *MockTenantUserStore) Register(ctx context.Context, user *auth.TenantUser) (*auth.TenantUser, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.TenantUser)
	return record, args.Error(1)
}

func (m *MockTenantUserStore) Update(ctx context.Context, user *auth.TenantUser) (*auth.TenantUser, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*auth.TenantUser)
	return record, args.Error(1)
}

// MockOrganizationStore implements auth.OrganizationStore
type MockOrganizationStore struct {
	mock.Mock
}

func (m *MockOrganizationStore) FindBySlug(ctx context.Context, slug string) (*auth.Organization, error) {
	args := m.Called(ctx, slug)
	org, _ := args.Get(0).(*auth.Organization)
	return org, args.Error(1)
}

func (m *MockOrganizationStore) FindByID(ctx context.Context, id int64) (*auth.Organization, error) {
	args := m.Called(ctx, id)
	org, _ := args.Get(0).(*auth.Organization)
	return org, args.Error(1)
}

func (m *MockOrganizationStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationStore) Create(ctx context.Context, org *auth.Organization, ownerID uuid.UUID) (*auth.Organization, error) {
	args := m.Called(ctx, org, ownerID)
	record, _ := args.Get(0).(*auth.Organization)
	return record, args.Error(1)
}

func (m *MockOrganizationStore) IsOwner(ctx context.Context, userID uuid.UUID, orgID int64) (bool, error) {
	args := m.Called(ctx, userID, orgID)
	return args.Bool(0), args.Error(1)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// quietLogger drops everything; used where log output is noise.
type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

func notFoundErr() error {
	return goerrors.New("record not found", goerrors.CategoryNotFound)
}

package auth_test

import (
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-tenant-auth"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		code     int
		textCode string
	}{
		{"token expired", auth.ErrTokenExpired, goerrors.CategoryAuth, goerrors.CodeUnauthorized, auth.TextCodeTokenExpired},
		{"token malformed", auth.ErrTokenMalformed, goerrors.CategoryAuth, goerrors.CodeUnauthorized, auth.TextCodeTokenMalformed},
		{"unauthenticated", auth.ErrUnauthenticated, goerrors.CategoryAuth, goerrors.CodeUnauthorized, auth.TextCodeUnauthenticated},
		{"invalid credentials", auth.ErrInvalidCredentials, goerrors.CategoryAuth, goerrors.CodeUnauthorized, auth.TextCodeInvalidCredentials},
		{"core required", auth.ErrCoreUserRequired, goerrors.CategoryAuthz, goerrors.CodeForbidden, auth.TextCodeCoreRequired},
		{"tenant required", auth.ErrTenantUserRequired, goerrors.CategoryAuthz, goerrors.CodeForbidden, auth.TextCodeTenantRequired},
		{"tenant mismatch", auth.ErrTenantMismatch, goerrors.CategoryAuthz, goerrors.CodeForbidden, auth.TextCodeTenantMismatch},
		{"tenant header", auth.ErrTenantHeaderRequired, goerrors.CategoryBadInput, goerrors.CodeBadRequest, auth.TextCodeTenantHeader},
		{"tenant not found", auth.ErrTenantNotFound, goerrors.CategoryNotFound, goerrors.CodeNotFound, auth.TextCodeTenantNotFound},
		{"email registered", auth.ErrEmailAlreadyRegistered, goerrors.CategoryConflict, goerrors.CodeConflict, auth.TextCodeEmailRegistered},
		{"slug taken", auth.ErrOrganizationSlugTaken, goerrors.CategoryConflict, goerrors.CodeConflict, auth.TextCodeSlugTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))

	// Wrapped variants keep their classification.
	wrapped := fmt.Errorf("refresh failed: %w", auth.ErrTokenExpired)
	assert.True(t, auth.IsTokenExpiredError(wrapped))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestClonedErrorsKeepTheirTextCode(t *testing.T) {
	clone := auth.ErrUnauthenticated.Clone()
	clone.Source = auth.ErrUnauthenticated
	err := clone.WithMetadata(map[string]any{"reason": "user not found"})

	var rich *goerrors.Error
	assert.True(t, goerrors.As(err, &rich))
	assert.Equal(t, auth.TextCodeUnauthenticated, rich.TextCode)
	assert.Equal(t, "user not found", rich.Metadata["reason"])
}

package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeUnauthenticated    = "auth_unauthenticated"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeAccountInactive    = "auth_account_inactive"
	TextCodeCoreRequired       = "auth_core_user_required"
	TextCodeTenantRequired     = "auth_tenant_user_required"
	TextCodeTenantHeader       = "auth_tenant_header_required"
	TextCodeTenantMismatch     = "auth_tenant_mismatch"
	TextCodeOwnerRequired      = "auth_org_owner_required"
	TextCodeTenantNotFound     = "auth_tenant_not_found"
	TextCodeEmailRegistered    = "auth_email_already_registered"
	TextCodeSlugTaken          = "auth_org_slug_taken"
)

// ErrTokenExpired is returned when a token's exp claim is in the past.
// Callers should prompt for a refresh rather than a new login.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that cannot be parsed or whose
// signature does not verify. Callers must re-authenticate.
var ErrTokenMalformed = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated covers every identity resolution failure. The precise
// cause stays in metadata for logs and is never surfaced to callers.
var ErrUnauthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned in the same shape for unknown
// identifiers and password mismatches.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned when credentials match a disabled account.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode(TextCodeAccountInactive).
	WithCode(errors.CodeUnauthorized)

// ErrCoreUserRequired is returned when an operation needs a core principal.
var ErrCoreUserRequired = errors.New("core user required", errors.CategoryAuthz).
	WithTextCode(TextCodeCoreRequired).
	WithCode(errors.CodeForbidden)

// ErrTenantUserRequired is returned when an operation needs a tenant principal.
var ErrTenantUserRequired = errors.New("tenant user required", errors.CategoryAuthz).
	WithTextCode(TextCodeTenantRequired).
	WithCode(errors.CodeForbidden)

// ErrTenantHeaderRequired is returned when a tenant scoped operation is
// missing its tenant selection header.
var ErrTenantHeaderRequired = errors.New("tenant header required", errors.CategoryBadInput).
	WithTextCode(TextCodeTenantHeader).
	WithCode(errors.CodeBadRequest)

// ErrTenantMismatch is returned when the declared tenant does not agree
// with the principal's tenant binding.
var ErrTenantMismatch = errors.New("tenant mismatch", errors.CategoryAuthz).
	WithTextCode(TextCodeTenantMismatch).
	WithCode(errors.CodeForbidden)

// ErrOrganizationOwnerRequired is returned when the caller does not own
// the target organization.
var ErrOrganizationOwnerRequired = errors.New("organization owner required", errors.CategoryAuthz).
	WithTextCode(TextCodeOwnerRequired).
	WithCode(errors.CodeForbidden)

// ErrTenantNotFound covers both absent and inactive tenants. The two cases
// are indistinguishable to callers.
var ErrTenantNotFound = errors.New("tenant not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTenantNotFound).
	WithCode(errors.CodeNotFound)

// ErrEmailAlreadyRegistered is returned on duplicate registration within a
// user scope, either core or a single tenant.
var ErrEmailAlreadyRegistered = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(errors.CodeConflict)

// ErrOrganizationSlugTaken is returned when creating an organization with
// a slug already in use.
var ErrOrganizationSlugTaken = errors.New("organization with this slug already exists", errors.CategoryConflict).
	WithTextCode(TextCodeSlugTaken).
	WithCode(errors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsMalformedError will check for unparseable or badly signed tokens
func IsMalformedError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

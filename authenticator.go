package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// TokenPair is the result of a successful login or registration.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult carries the token pair plus the identity it was issued for.
type AuthResult struct {
	TokenPair
	UserID  uuid.UUID `json:"user_id"`
	Context Context   `json:"context"`
}

// Auther orchestrates registration, login, refresh, and organization
// management across both identity contexts.
type Auther struct {
	users       UserStore
	tenantUsers TenantUserStore
	orgs        OrganizationStore
	tenants     *TenantResolver
	tokens      TokenService
	accessTTL   time.Duration
	refreshTTL  time.Duration
	useHashids  bool
	logger      Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(users UserStore, tenantUsers TenantUserStore, orgs OrganizationStore, opts Config) *Auther {
	tokens := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		users:       users,
		tenantUsers: tenantUsers,
		orgs:        orgs,
		tenants:     NewTenantResolver(orgs),
		tokens:      tokens,
		accessTTL:   opts.GetAccessTokenTTL(),
		refreshTTL:  opts.GetRefreshTokenTTL(),
		logger:      defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
		s.tenants.WithLogger(logger)
	}
	return s
}

// WithTokenService replaces the token service built from config.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithHashidIDs derives user ids deterministically from the email instead
// of generating random ones. Re-registering the same email then maps to
// the same id across environments.
func (s *Auther) WithHashidIDs() *Auther {
	s.useHashids = true
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// TenantResolver returns the tenant resolver used by this Auther
func (s *Auther) TenantResolver() *TenantResolver {
	return s.tenants
}

// ContextResolver builds the resolver that turns raw tokens back into
// principals, sharing this Auther's collaborators.
func (s *Auther) ContextResolver() *ContextResolver {
	return NewContextResolver(s.tokens, s.tenants, s.users, s.tenantUsers).WithLogger(s.logger)
}

// RegisterCore creates a core user and returns a token pair.
func (s *Auther) RegisterCore(ctx context.Context, msg RegisterUserMessage) (*AuthResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	if _, err := s.users.FindByEmail(ctx, msg.Email); err == nil {
		return nil, emailTaken(msg.Email)
	} else if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryOperation, "registration lookup failed")
	}

	hash, err := HashPassword(msg.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "password hashing failed")
	}

	user := &User{
		ID:           s.newUserID(msg.Email),
		Email:        msg.Email,
		FirstName:    msg.FirstName,
		LastName:     msg.LastName,
		PasswordHash: hash,
	}

	record, err := s.users.Register(ctx, user)
	if err != nil {
		if isConflict(err) {
			return nil, emailTaken(msg.Email)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "registration failed")
	}

	s.logger.Info("core user registered", "user_id", record.ID)

	return s.issuePair(record.ID, coreClaims(record.ID))
}

// RegisterTenant creates a tenant user inside the named organization and
// returns a token pair bound to it.
func (s *Auther) RegisterTenant(ctx context.Context, tenantSlug string, msg RegisterTenantUserMessage) (*AuthResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload")
	}

	org, err := s.tenants.Resolve(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	if _, err := s.tenantUsers.FindByEmail(ctx, org.ID, msg.Email); err == nil {
		return nil, emailTaken(msg.Email)
	} else if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryOperation, "registration lookup failed")
	}

	hash, err := HashPassword(msg.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "password hashing failed")
	}

	user := &TenantUser{
		ID:             s.newUserID(msg.Email),
		OrganizationID: org.ID,
		Email:          msg.Email,
		FirstName:      msg.FirstName,
		LastName:       msg.LastName,
		Phone:          msg.Phone,
		PasswordHash:   hash,
	}

	record, err := s.tenantUsers.Register(ctx, user)
	if err != nil {
		if isConflict(err) {
			return nil, emailTaken(msg.Email)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "registration failed")
	}

	s.logger.Info("tenant user registered", "user_id", record.ID, "org_id", org.ID)

	return s.issuePair(record.ID, tenantClaims(record.ID, org))
}

// Login authenticates a user in either context. A non empty tenantSlug
// selects the tenant context. Unknown emails and wrong passwords produce
// the same error; inactive accounts are reported only after the
// credentials match.
func (s *Auther) Login(ctx context.Context, email, password, tenantSlug string) (*AuthResult, error) {
	if tenantSlug == "" {
		return s.loginCore(ctx, email, password)
	}
	return s.loginTenant(ctx, email, password, tenantSlug)
}

func (s *Auther) loginCore(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			// Burn a comparison so unknown emails cost the same as
			// wrong passwords.
			ComparePasswordAndHash(password, RandomPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "login lookup failed")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("core login password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Debug("core login blocked inactive account", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	return s.issuePair(user.ID, coreClaims(user.ID))
}

func (s *Auther) loginTenant(ctx context.Context, email, password, tenantSlug string) (*AuthResult, error) {
	org, err := s.tenants.Resolve(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	user, err := s.tenantUsers.FindByEmail(ctx, org.ID, email)
	if err != nil {
		if errors.IsNotFound(err) {
			ComparePasswordAndHash(password, RandomPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "login lookup failed")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("tenant login password mismatch", "user_id", user.ID, "org_id", org.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Debug("tenant login blocked inactive account", "user_id", user.ID, "org_id", org.ID)
		return nil, ErrAccountInactive
	}

	return s.issuePair(user.ID, tenantClaims(user.ID, org))
}

// Refresh verifies a refresh token, re-validates the identity it names,
// and issues a new access token. The refresh token itself is never
// rotated or reissued here.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	principal, err := s.ContextResolver().Resolve(ctx, refreshToken)
	if err != nil {
		if IsTokenExpiredError(err) || IsMalformedError(err) {
			return "", err
		}
		if errors.IsNotFound(err) {
			return "", refreshRejected()
		}
		var rich *errors.Error
		if errors.As(err, &rich) && rich.TextCode == TextCodeUnauthenticated {
			return "", refreshRejected()
		}
		return "", err
	}

	var claims *TokenClaims
	switch p := principal.(type) {
	case CorePrincipal:
		claims = coreClaims(p.ID)
	case TenantPrincipal:
		org := &Organization{ID: p.OrgID, Slug: p.Slug}
		claims = tenantClaims(p.ID, org)
	default:
		return "", refreshRejected()
	}

	access, err := s.tokens.Issue(claims, s.accessTTL)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "access token issue failed")
	}

	return access, nil
}

// CreateOrganization creates an organization owned by the given core user.
func (s *Auther) CreateOrganization(ctx context.Context, ownerID uuid.UUID, msg CreateOrganizationMessage) (*Organization, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid organization payload")
	}

	taken, err := s.orgs.SlugTaken(ctx, msg.Slug)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization slug check failed")
	}
	if taken {
		return nil, slugTaken(msg.Slug)
	}

	org := &Organization{
		Name:        msg.Name,
		Slug:        msg.Slug,
		Description: msg.Description,
		IsActive:    true,
	}

	record, err := s.orgs.Create(ctx, org, ownerID)
	if err != nil {
		if isConflict(err) {
			return nil, slugTaken(msg.Slug)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "organization create failed")
	}

	s.logger.Info("organization created", "org_id", record.ID, "slug", record.Slug)

	return record, nil
}

func (s *Auther) issuePair(userID uuid.UUID, claims *TokenClaims) (*AuthResult, error) {
	access, err := s.tokens.Issue(claims, s.accessTTL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "access token issue failed")
	}

	// Fresh claim set so the refresh token gets its own jti.
	refreshClaims := &TokenClaims{
		TokenContext:   claims.TokenContext,
		TenantSlug:     claims.TenantSlug,
		OrganizationID: claims.OrganizationID,
	}
	refreshClaims.Subject = claims.Subject

	refresh, err := s.tokens.Issue(refreshClaims, s.refreshTTL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "refresh token issue failed")
	}

	return &AuthResult{
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
		},
		UserID:  userID,
		Context: claims.TokenContext,
	}, nil
}

func (s *Auther) newUserID(email string) uuid.UUID {
	if s.useHashids {
		if id, err := hashid.NewUUID(email); err == nil {
			return id
		}
	}
	return uuid.New()
}

func coreClaims(userID uuid.UUID) *TokenClaims {
	claims := &TokenClaims{TokenContext: ContextCore}
	claims.Subject = userID.String()
	return claims
}

func tenantClaims(userID uuid.UUID, org *Organization) *TokenClaims {
	claims := &TokenClaims{
		TokenContext:   ContextTenant,
		TenantSlug:     org.Slug,
		OrganizationID: org.ID,
	}
	claims.Subject = userID.String()
	return claims
}

func emailTaken(email string) error {
	clone := ErrEmailAlreadyRegistered.Clone()
	clone.Source = ErrEmailAlreadyRegistered
	return clone.WithMetadata(map[string]any{
		"email": email,
	})
}

func slugTaken(slug string) error {
	clone := ErrOrganizationSlugTaken.Clone()
	clone.Source = ErrOrganizationSlugTaken
	return clone.WithMetadata(map[string]any{
		"slug": slug,
	})
}

func refreshRejected() error {
	clone := ErrInvalidCredentials.Clone()
	clone.Source = ErrInvalidCredentials
	clone.Message = "user not found or inactive"
	return clone
}

func isConflict(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryConflict
	}
	return false
}

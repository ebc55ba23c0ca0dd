package auth

import "time"

// SimpleConfig is an immutable Config built at startup. Zero values fall
// back to safe defaults at read time, so a partially filled literal works.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
	TenantHeader    string
}

// GetSigningKey returns the HMAC signing secret.
func (c SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

// GetSigningMethod returns the JWT signing method, HS256 by default.
func (c SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

// GetContextKey returns the locals key the middleware stores principals under.
func (c SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "principal"
	}
	return c.ContextKey
}

// GetAccessTokenTTL returns the access token lifetime, 15 minutes by default.
func (c SimpleConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL == 0 {
		return 15 * time.Minute
	}
	return c.AccessTokenTTL
}

// GetRefreshTokenTTL returns the refresh token lifetime, 7 days by default.
func (c SimpleConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL == 0 {
		return 7 * 24 * time.Hour
	}
	return c.RefreshTokenTTL
}

// GetTokenLookup returns where the middleware extracts tokens from.
func (c SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

// GetAuthScheme returns the authorization header scheme.
func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

// GetIssuer returns the token issuer claim.
func (c SimpleConfig) GetIssuer() string {
	return c.Issuer
}

// GetAudience returns the token audience claim.
func (c SimpleConfig) GetAudience() []string {
	return c.Audience
}

// GetTenantHeader returns the tenant selection header name.
func (c SimpleConfig) GetTenantHeader() string {
	if c.TenantHeader == "" {
		return "X-Tenant"
	}
	return c.TenantHeader
}

var _ Config = SimpleConfig{}

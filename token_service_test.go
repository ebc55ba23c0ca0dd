package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-tenant-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	t.Run("creates token service with logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, issuer, audience, quietLogger{})
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, issuer, audience, nil)
		assert.NotNil(t, service)
	})
}

func TestTokenService_Issue(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	service := auth.NewTokenService(signingKey, issuer, audience, quietLogger{})

	t.Run("issues a core token with registered claims stamped", func(t *testing.T) {
		userID := uuid.New()
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		claims.Subject = userID.String()

		before := time.Now()
		tokenString, err := service.Issue(claims, time.Hour)
		after := time.Now()

		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &auth.TokenClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)

		parsed, ok := token.Claims.(*auth.TokenClaims)
		require.True(t, ok)
		assert.Equal(t, userID.String(), parsed.UserID())
		assert.Equal(t, auth.ContextCore, parsed.Context())
		assert.Equal(t, issuer, parsed.Issuer)
		assert.Equal(t, audience, parsed.Audience)
		assert.NotEmpty(t, parsed.ID, "every token gets a jti")
		assert.False(t, parsed.HasTenantBinding())

		assert.True(t, parsed.Expires().After(before.Add(time.Hour-time.Second)))
		assert.True(t, parsed.Expires().Before(after.Add(time.Hour+time.Second)))
	})

	t.Run("issues a tenant token carrying slug and org id", func(t *testing.T) {
		claims := &auth.TokenClaims{
			TokenContext:   auth.ContextTenant,
			TenantSlug:     "acme",
			OrganizationID: 42,
		}
		claims.Subject = uuid.NewString()

		tokenString, err := service.Issue(claims, time.Hour)
		require.NoError(t, err)

		verified, err := service.Verify(tokenString)
		require.NoError(t, err)
		assert.Equal(t, auth.ContextTenant, verified.Context())
		assert.Equal(t, "acme", verified.TenantSlug)
		assert.Equal(t, int64(42), verified.OrganizationID)
		assert.True(t, verified.HasTenantBinding())
	})

	t.Run("non positive ttl yields an already expired token", func(t *testing.T) {
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		claims.Subject = uuid.NewString()

		tokenString, err := service.Issue(claims, -time.Minute)
		require.NoError(t, err)

		_, err = service.Verify(tokenString)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.Issue(nil, time.Hour)
		assert.Error(t, err)
	})
}

func TestTokenService_Verify(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	service := auth.NewTokenService(signingKey, issuer, audience, quietLogger{})

	issue := func(t *testing.T, ttl time.Duration) string {
		t.Helper()
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		claims.Subject = uuid.NewString()
		tokenString, err := service.Issue(claims, ttl)
		require.NoError(t, err)
		return tokenString
	}

	t.Run("round trips a valid token", func(t *testing.T) {
		tokenString := issue(t, time.Hour)

		claims, err := service.Verify(tokenString)
		require.NoError(t, err)
		assert.Equal(t, auth.ContextCore, claims.Context())
	})

	t.Run("expired token yields the expired error", func(t *testing.T) {
		tokenString := issue(t, -time.Hour)

		claims, err := service.Verify(tokenString)
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
		assert.False(t, auth.IsMalformedError(err))
	})

	t.Run("garbage token yields the malformed error", func(t *testing.T) {
		claims, err := service.Verify("not.a.valid.jwt.token")
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
		assert.False(t, auth.IsTokenExpiredError(err))
	})

	t.Run("tampered signature is malformed even when also expired", func(t *testing.T) {
		tokenString := issue(t, -time.Hour)

		// Flip the final signature character.
		last := tokenString[len(tokenString)-1]
		flipped := byte('A')
		if last == 'A' {
			flipped = 'B'
		}
		tampered := tokenString[:len(tokenString)-1] + string(flipped)

		claims, err := service.Verify(tampered)
		assert.Nil(t, claims)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err), "signature failures must never surface as expiry")
		assert.False(t, auth.IsTokenExpiredError(err))
	})

	t.Run("token signed with a different key is malformed", func(t *testing.T) {
		other := auth.NewTokenService([]byte("another-key"), issuer, audience, quietLogger{})
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		claims.Subject = uuid.NewString()

		tokenString, err := other.Issue(claims, time.Hour)
		require.NoError(t, err)

		verified, err := service.Verify(tokenString)
		assert.Nil(t, verified)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects tokens signed with a non HMAC method", func(t *testing.T) {
		// RS256 header with a junk signature.
		parts := []string{
			"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9",
			"eyJzdWIiOiIxMjM0NTY3ODkwIn0",
			"invalid-signature",
		}
		claims, err := service.Verify(strings.Join(parts, "."))
		assert.Nil(t, claims)
		assert.Error(t, err)
	})

	t.Run("rejects tokens from a different issuer", func(t *testing.T) {
		other := auth.NewTokenService(signingKey, "someone-else", audience, quietLogger{})
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		claims.Subject = uuid.NewString()

		tokenString, err := other.Issue(claims, time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(tokenString)
		assert.Error(t, err)
	})
}

package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-tenant-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClaims_UserID(t *testing.T) {
	claims := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user123",
		},
	}

	assert.Equal(t, "user123", claims.UserID())
}

func TestTokenClaims_Context(t *testing.T) {
	t.Run("core context", func(t *testing.T) {
		claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
		assert.Equal(t, auth.ContextCore, claims.Context())
	})

	t.Run("tenant context", func(t *testing.T) {
		claims := &auth.TokenClaims{TokenContext: auth.ContextTenant}
		assert.Equal(t, auth.ContextTenant, claims.Context())
	})
}

func TestTokenClaims_HasTenantBinding(t *testing.T) {
	tests := []struct {
		name        string
		slug        string
		orgID       int64
		expected    bool
		description string
	}{
		{
			name:        "both fields present",
			slug:        "acme",
			orgID:       7,
			expected:    true,
			description: "a complete binding is valid",
		},
		{
			name:        "missing slug",
			slug:        "",
			orgID:       7,
			expected:    false,
			description: "slug is required",
		},
		{
			name:        "missing org id",
			slug:        "acme",
			orgID:       0,
			expected:    false,
			description: "org id is required",
		},
		{
			name:        "missing both",
			slug:        "",
			orgID:       0,
			expected:    false,
			description: "core shaped claims have no binding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &auth.TokenClaims{
				TenantSlug:     tt.slug,
				OrganizationID: tt.orgID,
			}
			assert.Equal(t, tt.expected, claims.HasTenantBinding(), tt.description)
		})
	}
}

func TestTokenClaims_WireKeys(t *testing.T) {
	claims := &auth.TokenClaims{
		TokenContext:   auth.ContextTenant,
		TenantSlug:     "acme",
		OrganizationID: 42,
	}
	claims.Subject = "user-1"

	raw, err := json.Marshal(claims)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "tenant", decoded["context"])
	assert.Equal(t, "acme", decoded["tenant"])
	assert.Equal(t, float64(42), decoded["org_id"])
	assert.Equal(t, "user-1", decoded["sub"])
}

func TestTokenClaims_WireKeysOmittedForCore(t *testing.T) {
	claims := &auth.TokenClaims{TokenContext: auth.ContextCore}
	claims.Subject = "user-1"

	raw, err := json.Marshal(claims)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded, "tenant")
	assert.NotContains(t, decoded, "org_id")
}

func TestTokenClaims_Times(t *testing.T) {
	t.Run("returns zero times when unset", func(t *testing.T) {
		claims := &auth.TokenClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.IssuedTime().IsZero())
	})

	t.Run("returns the stamped times", func(t *testing.T) {
		now := time.Now().Truncate(time.Second)
		claims := &auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		assert.Equal(t, now, claims.IssuedTime())
		assert.Equal(t, now.Add(time.Hour), claims.Expires())
	})
}

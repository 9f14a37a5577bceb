package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 0, "")
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("password_key", 0, "nback-api")
	require.NoError(t, err)

	token, err := svc.GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Nil(t, claims.ExpiresAt, "без expiration_hrs токен не должен истекать")
	assert.Equal(t, "nback-api", claims.Issuer)
}

func TestJWTService_ExpiryIsConfigurable(t *testing.T) {
	svc, err := NewJWTService("secret", 1, "")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc, err := NewJWTService("secret", 0, "")
	require.NoError(t, err)
	other, err := NewJWTService("another-secret", 0, "")
	require.NoError(t, err)
	foreign, err := other.GenerateToken("user-1")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTCustomClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTCustomClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":           "",
		"malformed":       "not-a-jwt",
		"wrong signature": foreign,
		"alg none":        noneToken,
		"missing user id": noID,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/startupops/backend/internal/apperr"
	"github.com/startupops/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("test-secret", 24*time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, models.RoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.Sub)
	require.Equal(t, "admin", claims.Role)
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	// Signed with the right secret, expired an hour ago: signature validity
	// must not rescue an expired token.
	secret := "test-secret"
	claims := Claims{
		Sub:  uuid.New().String(),
		Role: string(models.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	issuer := NewIssuer(secret, 24*time.Hour)
	_, err = issuer.Parse(signed)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestParseRejectsBadSignature(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("right-secret", 24*time.Hour)
	other := NewIssuer("wrong-secret", 24*time.Hour)

	token, err := other.Issue(uuid.New(), models.RoleEmployee)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.Error(t, err)
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("test-secret", 24*time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Sub: uuid.New().String()})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("SuperSecret123")
	require.NoError(t, err)
	require.NotEqual(t, "SuperSecret123", hash)

	require.True(t, VerifyPassword("SuperSecret123", hash))
	require.False(t, VerifyPassword("supersecret123", hash))
}

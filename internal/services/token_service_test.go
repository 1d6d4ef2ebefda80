package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", 10*time.Hour)
	userID := uuid.New()

	resp, err := svc.Issue(userID, "Jane")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 36000, resp.ExpiresIn)

	claims, err := svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Jane", claims.Name)

	identity, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, 10*time.Hour, identity.ExpiresAt.Sub(identity.IssuedAt))
}

func TestTokenService_WrongSecret(t *testing.T) {
	resp, err := NewTokenService("secret", time.Hour).Issue(uuid.New(), "Jane")
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Verify(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour).(*tokenService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Issue(uuid.New(), "Jane")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(resp.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := TokenClaims{
		UserID: uuid.New().String(),
		Name:   "Mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_DecodeSkipsSignature(t *testing.T) {
	userID := uuid.New()
	resp, err := NewTokenService("secret", time.Hour).Issue(userID, "Jane")
	require.NoError(t, err)

	claims, err := NewTokenService("other", time.Hour).Decode(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	_, err = NewTokenService("other", time.Hour).Decode("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

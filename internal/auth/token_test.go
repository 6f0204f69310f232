package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", 30*time.Minute, 24*time.Hour)
}

func TestTokenService_IssueAndVerifyAccess(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	token, err := svc.IssueAccess(userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, TokenKindAccess, claims.Kind)
}

func TestTokenService_KindConfusionRejected(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	accessToken, err := svc.IssueAccess(userID, "alice@example.com")
	require.NoError(t, err)
	refreshToken, err := svc.IssueRefresh(userID, "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(refreshToken, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token must not pass as access token")

	_, err = svc.Verify(accessToken, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token must not pass as refresh token")
}

func TestTokenService_ExpiredTokenRejected(t *testing.T) {
	// Negative TTL produces a token that expired one second ago.
	svc := NewTokenService("test-secret", -1*time.Second, -1*time.Second)

	token, err := svc.IssueAccess(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(token, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("different-secret", 30*time.Minute, 24*time.Hour)

	token, err := svc.IssueAccess(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token, TokenKindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MalformedTokenRejected(t *testing.T) {
	svc := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token, TokenKindAccess)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_TokensDifferAcrossInstants(t *testing.T) {
	svc := newTestTokenService()
	userID := uuid.New()

	first, err := svc.IssueAccess(userID, "alice@example.com")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // iat has second granularity

	second, err := svc.IssueAccess(userID, "alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

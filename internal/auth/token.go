package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access tokens from refresh tokens so one can
// never be presented in place of the other.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Kind   TokenKind
}

// TokenService issues and verifies HMAC-signed, time-limited tokens. The
// signing secret is injected at construction; tokens are never persisted,
// validity is purely cryptographic plus expiry.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) IssueAccess(userID uuid.UUID, email string) (string, error) {
	return s.issue(userID, email, TokenKindAccess, s.accessTTL)
}

func (s *TokenService) IssueRefresh(userID uuid.UUID, email string) (string, error) {
	return s.issue(userID, email, TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID uuid.UUID, email string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"type":  string(kind),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, expiry, and token kind, and returns the
// decoded claims. Every failure mode collapses to ErrInvalidToken; nothing
// panics or leaks parser internals past this boundary.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if kindClaim, _ := claims["type"].(string); kindClaim != string(kind) {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return &Claims{UserID: userID, Email: email, Kind: kind}, nil
}

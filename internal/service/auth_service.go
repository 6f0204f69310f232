package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/dom/todo-service/internal/auth"
	"github.com/dom/todo-service/internal/domain"
	"github.com/dom/todo-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "must not be empty")
	}

	// Check if email is already taken
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index backstops the check above when two
		// registrations race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Deactivated accounts fail the same way as bad passwords.
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user.ID, user.Email)
}

// Refresh exchanges a valid refresh token for a fresh token pair. Like the
// auth middleware, it trusts the token's claims without a user lookup.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return s.issueTokens(claims.UserID, claims.Email)
}

func (s *AuthService) issueTokens(userID uuid.UUID, email string) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccess(userID, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefresh(userID, email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

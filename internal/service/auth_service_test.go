package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/todo-service/internal/auth"
	"github.com/dom/todo-service/internal/domain"
	"github.com/dom/todo-service/internal/repository/postgres"
	"github.com/dom/todo-service/internal/service"
	"github.com/dom/todo-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *testutil.TestDB, *auth.TokenService) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute, 24*time.Hour)
	svc := service.NewAuthService(postgres.NewUserRepository(testDB.DB), tokens)
	return svc, testDB, tokens
}

func TestAuthService_Register(t *testing.T) {
	svc, testDB, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       service.RegisterInput
		setup       func(t *testing.T)
		wantErr     error
		wantInvalid bool
	}{
		{
			name:  "successful registration",
			input: service.RegisterInput{Email: "alice@example.com", Password: "password123"},
		},
		{
			name:  "duplicate email",
			input: service.RegisterInput{Email: "taken@example.com", Password: "password123"},
			setup: func(t *testing.T) {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailExists,
		},
		{
			name:        "invalid email syntax",
			input:       service.RegisterInput{Email: "not-an-email", Password: "password123"},
			wantInvalid: true,
		},
		{
			name:        "empty email",
			input:       service.RegisterInput{Email: "", Password: "password123"},
			wantInvalid: true,
		},
		{
			name:        "empty password",
			input:       service.RegisterInput{Email: "bob@example.com", Password: ""},
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup(t)
			}

			user, err := svc.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantInvalid {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.True(t, user.IsActive)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_Register_DuplicateCreatesNoSecondRow(t *testing.T) {
	svc, testDB, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, service.RegisterInput{Email: "once@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, service.RegisterInput{Email: "once@example.com", Password: "otherpassword"})
	assert.ErrorIs(t, err, service.ErrEmailExists)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.User{}).Where("email = ?", "once@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_Register_RacingDuplicatesYieldOneRow(t *testing.T) {
	svc, testDB, _ := newAuthService(t)
	ctx := context.Background()

	// When registrations for the same email race past the existence
	// check, the unique index decides the winner and the losers still
	// see ErrEmailExists rather than a raw database error.
	const racers = 4
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, service.RegisterInput{
				Email:    "contended@example.com",
				Password: "password123",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrEmailExists)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.User{}).Where("email = ?", "contended@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_Login(t *testing.T) {
	svc, testDB, _ := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	testutil.NewUserBuilder().
		WithEmail("inactive@example.com").
		WithPassword("correctpassword").
		Inactive().
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "successful login",
			input: service.LoginInput{Email: user.Email, Password: rawPassword},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: user.Email, Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@example.com", Password: rawPassword},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "deactivated user",
			input:   service.LoginInput{Email: "inactive@example.com", Password: "correctpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)
			assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, testDB, tokens := newAuthService(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithEmail("refresh@example.com").
		Build(t, testDB.DB)

	refreshToken, err := tokens.IssueRefresh(user.ID, user.Email)
	require.NoError(t, err)
	accessToken, err := tokens.IssueAccess(user.ID, user.Email)
	require.NoError(t, err)

	t.Run("valid refresh token yields new pair", func(t *testing.T) {
		pair, err := svc.Refresh(ctx, refreshToken)
		require.NoError(t, err)

		claims, err := tokens.Verify(pair.AccessToken, auth.TokenKindAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
	})

	t.Run("access token rejected as refresh credential", func(t *testing.T) {
		_, err := svc.Refresh(ctx, accessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

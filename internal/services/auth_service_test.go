package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskvault/taskvault-api/internal/auth"
	"github.com/taskvault/taskvault-api/internal/repository"
)

type authServiceEnv struct {
	userRepo *repository.MemoryUserRepository
	tokens   *auth.TokenManager
	service  *AuthService
}

func setupAuthServiceEnv(t *testing.T) authServiceEnv {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	service := NewAuthService(userRepo, tokens, bcryptTestCost)

	return authServiceEnv{
		userRepo: userRepo,
		tokens:   tokens,
		service:  service,
	}
}

// bcryptTestCost keeps hashing fast in tests; production uses the
// configured cost of 10.
const bcryptTestCost = 4

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@x.com", user.Email)
	require.NotEmpty(t, user.PasswordHash)
	require.NotEqual(t, "Str0ng!Pass", user.PasswordHash)

	token, err := env.service.Login(ctx, LoginInput{
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	userID, err := env.tokens.Validate(token)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), userID)
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "  Alice@X.Com ",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", user.Email)

	// Login with a differently-cased address hits the same account.
	_, err = env.service.Login(ctx, LoginInput{
		Email:    "ALICE@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.userRepo.Count())

	// Same username, different email.
	_, err = env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "other@x.com",
		Password: "Str0ng!Pass",
	})
	require.ErrorIs(t, err, ErrUserExists)

	// Same email, different username.
	_, err = env.service.Register(ctx, RegisterInput{
		Username: "bob",
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.ErrorIs(t, err, ErrUserExists)

	require.Equal(t, 1, env.userRepo.Count())
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "username too short",
			input:   RegisterInput{Username: "al", Email: "a@x.com", Password: "Str0ng!Pass"},
			wantErr: ErrUsernameTooShort,
		},
		{
			name:    "invalid email",
			input:   RegisterInput{Username: "alice", Email: "not-an-email", Password: "Str0ng!Pass"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "password too short",
			input:   RegisterInput{Username: "alice", Email: "a@x.com", Password: "weak"},
			wantErr: ErrPasswordLength,
		},
		{
			name:    "password missing uppercase",
			input:   RegisterInput{Username: "alice", Email: "a@x.com", Password: "str0ng!pass"},
			wantErr: ErrWeakPassword,
		},
		{
			name:    "password missing digit",
			input:   RegisterInput{Username: "alice", Email: "a@x.com", Password: "Strong!Pass"},
			wantErr: ErrWeakPassword,
		},
		{
			name:    "password missing special",
			input:   RegisterInput{Username: "alice", Email: "a@x.com", Password: "Str0ngPass"},
			wantErr: ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Register(ctx, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// No account persisted by any of the rejected attempts.
	require.Equal(t, 0, env.userRepo.Count())
}

func TestAuthService_LoginAntiEnumeration(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := env.service.Login(ctx, LoginInput{
		Email:    "nobody@x.com",
		Password: "Str0ng!Pass",
	})
	_, wrongErr := env.service.Login(ctx, LoginInput{
		Email:    "alice@x.com",
		Password: "Wr0ng!Pass!",
	})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_GetUser(t *testing.T) {
	env := setupAuthServiceEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	found, err := env.service.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, found.Username)

	_, err = env.service.GetUser(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrUserNotFound)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskvault/taskvault-api/internal/auth"
	"github.com/taskvault/taskvault-api/internal/models"
	"github.com/taskvault/taskvault-api/internal/repository"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	ErrUserExists           = errors.New("user already exists with same username/email")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTooShort     = errors.New("username must be at least 3 characters")
	ErrInvalidEmail         = errors.New("email must be in valid email format")
	ErrPasswordLength       = errors.New("password must be between 8-128 characters")
	ErrWeakPassword         = errors.New("password must have at least one uppercase, one number and one special character")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, credential verification, and session
// token issuance.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new account. The plaintext password is hashed before
// anything touches the store and is never persisted or logged. No token is
// issued; logging in is a separate step.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	if err := checkPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique indexes close the race left open by the pre-check.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a signed session token. Unknown
// email and wrong password produce the identical error so callers cannot
// probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("failed to mint token: %w", err)
	}

	return token, nil
}

// GetUser retrieves an account by ID.
func (s *AuthService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// normalizeEmail trims, lowercases, and syntax-checks an email address.
// Comparison and storage always use the normalized form.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func checkPasswordPolicy(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return ErrPasswordLength
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

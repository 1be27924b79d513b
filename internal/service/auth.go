package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgCredentialsRequired = "Username and password required"
	msgPasswordTooLong     = "Ensure this field has no more than 72 bytes."
)

// SignupInput carries the fields accepted when creating an account.
type SignupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,max=254,email"`
	Password string `json:"password" validate:"required,bcryptlen"`
}

// AuthService handles signup, login and token authentication.
type AuthService struct {
	users      domain.UserRepository
	tokens     domain.TokenRepository
	signer     tokenSigner
	bcryptCost int
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository, jwtSecret string, bcryptCost int, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		signer:     tokenSigner{secret: []byte(jwtSecret)},
		bcryptCost: bcryptCost,
		validate:   newValidator(),
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates a user and returns it together with its auth token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateStruct(s.validate, in); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", errUsernameTaken()
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, "", domain.NewFieldError("password", msgPasswordTooLong)
	}
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, "", errUsernameTaken()
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	key, err := s.tokenFor(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	metrics.SignupsTotal.Inc()
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	return user, key, nil
}

// Login verifies credentials and returns the user's token, creating it if
// the user has none. Unknown usernames and wrong passwords are reported
// identically as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", &domain.ValidationError{Message: msgCredentialsRequired}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return "", domain.ErrInvalidCredentials
	}

	key, err := s.tokenFor(ctx, user.ID)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Debug().Int64("user_id", user.ID).Msg("user logged in")
	return key, nil
}

// Authenticate resolves a presented token key to its user. Any failure is
// reported as domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.signer.verify(key); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	token, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// tokenFor returns the user's token, creating one if none exists.
func (s *AuthService) tokenFor(ctx context.Context, userID int64) (string, error) {
	existing, err := s.tokens.GetByUser(ctx, userID)
	if err == nil {
		return existing.Key, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("get token: %w", err)
	}

	key, err := s.signer.mint(userID)
	if err != nil {
		return "", err
	}

	if err := s.tokens.Create(ctx, &domain.AuthToken{Key: key, UserID: userID}); err != nil {
		if !errors.Is(err, domain.ErrDuplicateToken) {
			return "", fmt.Errorf("create token: %w", err)
		}
		// A concurrent login created the token first; use theirs.
		existing, err := s.tokens.GetByUser(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("get token: %w", err)
		}
		return existing.Key, nil
	}
	return key, nil
}

func errUsernameTaken() error {
	return domain.NewFieldError("username", "A user with that username already exists.")
}

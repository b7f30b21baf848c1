package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/service/auth"
	"github.com/wukongmap/wukong-api/internal/store"
)

// AuthResult carries the outcome of a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// UserService provides account registration and authentication.
type UserService interface {
	// Register creates a new user account and returns an access token for it.
	// Returns store.ErrEmailExists if the email is already taken and domain
	// validation errors for malformed input.
	Register(ctx context.Context, email, password string) (*AuthResult, error)

	// Login authenticates an email/password pair and returns an access token.
	// Returns auth.ErrInvalidCredentials when the pair does not match,
	// without revealing whether the email exists.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users    store.UserStore
	jwt      auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// Ensure userServiceImpl implements UserService interface
var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	jwt auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if jwt == nil {
		return nil, domain.NewValidationError("jwt", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		jwt:      jwt,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, store.ErrEmailExists
		}
		log.Error("failed to create user account", "error", err)
		return nil, fmt.Errorf("failed to create user account: %w", err)
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login implements UserService.Login.
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}
